package services

import (
	"context"
	"testing"

	"naikai-shop/internal/shop/adapter/broker_message/brokertest"
	database "naikai-shop/internal/shop/adapter/db"
	"naikai-shop/internal/shop/adapter/statestore"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/tablestore"
)

type fixture struct {
	store      *tablestore.MemoryStore
	states     *statestore.MemoryStore
	publisher  *brokertest.Recorder
	catalog    *CatalogService
	storefront *StorefrontService
	admin      *AdminService
}

func newFixture(t *testing.T, store *tablestore.MemoryStore) *fixture {
	t.Helper()

	mylog := logger.Nop()
	products := database.NewProductRepo(store)
	promotions := database.NewPromotionRepo(store)
	orders := database.NewOrderRepo(store)
	settings := database.NewSettingsRepo(store)

	f := &fixture{
		store:     store,
		states:    statestore.NewMemoryStore(0),
		publisher: &brokertest.Recorder{},
	}
	f.catalog = NewCatalogService(products, promotions, mylog)
	f.catalog.Load(context.Background())
	f.storefront = NewStorefrontService(f.states, f.catalog, orders, f.publisher, mylog)
	f.admin = NewAdminService(f.states, f.catalog, orders, products, promotions, settings, f.publisher, mylog)
	return f
}

func seedOrder(t *testing.T, store *tablestore.MemoryStore, id string, status models.OrderStatus, total float64) {
	t.Helper()
	err := database.NewOrderRepo(store).Create(context.Background(), models.Order{
		ID:             id,
		UserID:         "u1",
		CustomerName:   "Somchai",
		Items:          []models.CartItem{},
		TotalPrice:     total,
		Status:         status,
		PaymentMethod:  models.PaymentPromptPay,
		DeliveryMethod: models.DeliveryPickup,
	})
	if err != nil {
		t.Fatalf("seed order %s: %v", id, err)
	}
}
