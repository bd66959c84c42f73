package db

import (
	"context"
	"errors"
	"testing"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/lifecycle"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/xpkg/tablestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepo(tablestore.NewProvisionedMemoryStore())

	created, err := repo.Create(ctx, models.Product{
		Name:     "Zinger",
		Price:    79,
		Category: "burger",
		Options: []models.ProductOption{
			{Name: "cheese", Choices: []models.OptionChoice{{Label: "no"}, {Label: "yes", PriceMod: 15}}},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, created, all[0])

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), core.ErrProductNotFound)
}

func TestProductRepo_TableMissing(t *testing.T) {
	repo := NewProductRepo(tablestore.NewMemoryStore())

	_, err := repo.GetAll(context.Background())
	assert.True(t, tablestore.IsTableMissing(err))
}

func TestOrderRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(tablestore.NewProvisionedMemoryStore())

	items := []models.CartItem{{
		Product:         models.Product{ID: "p1", Name: "Chicken", Price: 45},
		CartID:          "c1",
		Quantity:        2,
		SelectedOptions: map[string]string{"piece": "thigh"},
	}}
	for _, id := range []string{"ORD-1", "ORD-2"} {
		require.NoError(t, repo.Create(ctx, models.Order{
			ID:             id,
			UserID:         "u1",
			CustomerName:   "Somchai",
			Items:          items,
			TotalPrice:     90,
			Status:         models.StatusPendingPayment,
			PaymentMethod:  models.PaymentPromptPay,
			DeliveryMethod: models.DeliveryPickup,
		}))
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "ORD-2", all[0].ID, "newest first")
	assert.Equal(t, 90.0, all[0].TotalPrice)
	assert.Equal(t, "thigh", all[0].Items[0].SelectedOptions["piece"])
	assert.NotEmpty(t, all[0].Date)

	require.NoError(t, repo.UpdateStatus(ctx, "ORD-1", models.StatusPendingPayment, models.StatusPaid))
	got, err := repo.Get(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, got.Status)

	_, err = repo.Get(ctx, "ORD-404")
	assert.ErrorIs(t, err, core.ErrOrderNotFound)
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "ORD-404", models.StatusPendingPayment, models.StatusPaid), core.ErrOrderNotFound)
}

func TestOrderRepo_UpdateStatusFromStaleStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(tablestore.NewProvisionedMemoryStore())
	require.NoError(t, repo.Create(ctx, models.Order{ID: "ORD-7", Status: models.StatusPendingPayment}))

	// two admins both saw pending_payment; the first one cancels
	require.NoError(t, repo.UpdateStatus(ctx, "ORD-7", models.StatusPendingPayment, models.StatusCancelled))

	err := repo.UpdateStatus(ctx, "ORD-7", models.StatusPendingPayment, models.StatusPaid)
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)

	got, err := repo.Get(ctx, "ORD-7")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)
}

func TestOrderRepo_CreateDuplicateID(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepo(tablestore.NewProvisionedMemoryStore())

	require.NoError(t, repo.Create(ctx, models.Order{ID: "ORD-42"}))
	assert.True(t, tablestore.IsDuplicateKey(repo.Create(ctx, models.Order{ID: "ORD-42"})))
}

func TestOrderRepo_BackendFailure(t *testing.T) {
	store := tablestore.NewProvisionedMemoryStore()
	boom := errors.New("boom")
	store.Fail(tablestore.Orders, boom)

	err := NewOrderRepo(store).Create(context.Background(), models.Order{ID: "ORD-1"})
	assert.ErrorIs(t, err, boom)
}

func TestPromotionRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewPromotionRepo(tablestore.NewProvisionedMemoryStore())

	p, err := repo.Create(ctx, models.Promotion{Title: "Free delivery", Active: true, Code: "FREE"})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Promotion{p}, all)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), core.ErrPromotionNotFound)
}

func TestSettingsRepo_Upsert(t *testing.T) {
	ctx := context.Background()
	store := tablestore.NewProvisionedMemoryStore()
	repo := NewSettingsRepo(store)

	qr, err := repo.GetQRCode(ctx)
	require.NoError(t, err)
	assert.Empty(t, qr)

	require.NoError(t, repo.UpsertQRCode(ctx, "data:image/png;base64,AAA"))
	require.NoError(t, repo.UpsertQRCode(ctx, "data:image/png;base64,BBB"))

	qr, err = repo.GetQRCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,BBB", qr)

	n, err := store.Count(ctx, tablestore.AppSettings)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestSettingsRepo_TableMissing(t *testing.T) {
	repo := NewSettingsRepo(tablestore.NewMemoryStore(tablestore.Products))

	err := repo.UpsertQRCode(context.Background(), "img")
	assert.True(t, tablestore.IsTableMissing(err))
}
