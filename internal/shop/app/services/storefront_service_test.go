package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/cart"
	"naikai-shop/internal/shop/domain/dto"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/shop/domain/navigation"
	"naikai-shop/internal/shop/domain/screen"
	"naikai-shop/internal/shop/domain/session"
	"naikai-shop/internal/shop/domain/state"
	"naikai-shop/internal/xpkg/events"
	"naikai-shop/internal/xpkg/tablestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, f *fixture) string {
	t.Helper()
	s, err := f.storefront.NewClient(context.Background())
	require.NoError(t, err)
	return s.ID
}

func login(t *testing.T, f *fixture, id, email, password string) *state.ClientState {
	t.Helper()
	s, err := f.storefront.Login(context.Background(), id, email, password)
	require.NoError(t, err)
	return s
}

func addToCart(t *testing.T, f *fixture, id, productID string, qty int, opts map[string]string) *state.ClientState {
	t.Helper()
	ctx := context.Background()
	_, err := f.storefront.SelectProduct(ctx, id, productID)
	require.NoError(t, err)
	s, err := f.storefront.AddToCart(ctx, id, dto.AddToCartRequest{Quantity: qty, SelectedOptions: opts})
	require.NoError(t, err)
	return s
}

func TestStorefront_NewClient(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()

	s, err := f.storefront.NewClient(ctx)
	require.NoError(t, err)
	assert.Equal(t, []navigation.View{navigation.Home}, s.Nav.Stack)
	assert.Equal(t, screen.Customer{View: navigation.Home}, s.Screen())

	loaded, err := f.storefront.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID, loaded.ID)

	require.NoError(t, f.storefront.DeleteClient(ctx, s.ID))
	_, err = f.storefront.Get(ctx, s.ID)
	assert.ErrorIs(t, err, core.ErrClientNotFound)
}

func TestStorefront_GuardedNavigationOpensLogin(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)

	_, err := f.storefront.Navigate(ctx, id, "shop")
	require.NoError(t, err)

	for _, target := range []string{"history", "profile"} {
		s, err := f.storefront.Navigate(ctx, id, target)
		assert.ErrorIs(t, err, navigation.ErrAuthRequired)
		assert.Equal(t, []navigation.View{navigation.Home, navigation.Shop}, s.Nav.Stack)
		assert.Equal(t, session.AuthLogin, s.AuthView)
		assert.Equal(t, screen.Login{}, s.Screen())

		s, err = f.storefront.SelectTab(ctx, id, target)
		assert.ErrorIs(t, err, navigation.ErrAuthRequired)
		assert.Equal(t, []navigation.View{navigation.Home, navigation.Shop}, s.Nav.Stack)
	}

	// login does not resume the guarded destination
	s := login(t, f, id, "somchai@example.com", "pw")
	assert.Equal(t, navigation.Shop, s.Nav.Current())
	assert.Equal(t, screen.Customer{View: navigation.Shop}, s.Screen())
}

func TestStorefront_UnknownView(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	id := newClient(t, f)

	_, err := f.storefront.Navigate(context.Background(), id, "settings")
	assert.ErrorIs(t, err, navigation.ErrUnknownView)

	_, err = f.storefront.SelectTab(context.Background(), id, "cart")
	assert.ErrorIs(t, err, navigation.ErrNotATab)
}

func TestStorefront_SelectTabFlattensStack(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")

	for _, v := range []string{"shop", "product-detail", "cart", "checkout"} {
		_, err := f.storefront.Navigate(ctx, id, v)
		require.NoError(t, err)
	}

	s, err := f.storefront.SelectTab(ctx, id, "promo")
	require.NoError(t, err)
	assert.Equal(t, []navigation.View{navigation.Promo}, s.Nav.Stack)
	assert.Equal(t, navigation.Promo, s.Nav.ActiveTab)
}

func TestStorefront_AddToCartReturnsToOpeningView(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)

	_, err := f.storefront.Navigate(ctx, id, "shop")
	require.NoError(t, err)

	s, err := f.storefront.SelectProduct(ctx, id, "p1")
	require.NoError(t, err)
	assert.Equal(t, navigation.ProductDetail, s.Nav.Current())
	assert.False(t, s.Nav.ShowTabBar())

	s = addToCart(t, f, id, "p1", 2, map[string]string{"ชิ้นส่วน": "สะโพก"})
	require.Equal(t, 1, s.Cart.Len())
	assert.Equal(t, navigation.Shop, s.Nav.Current())
	assert.Equal(t, 2, s.Cart.Items[0].Quantity)
	assert.Equal(t, "สะโพก", s.Cart.Items[0].SelectedOptions["ชิ้นส่วน"])
	assert.True(t, s.Nav.ShowCartButton(s.Cart.Len()))
}

func TestStorefront_AddToCartValidation(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)

	_, err := f.storefront.AddToCart(ctx, id, dto.AddToCartRequest{Quantity: 1})
	assert.ErrorIs(t, err, core.ErrNoProductSelected)

	_, err = f.storefront.SelectProduct(ctx, id, "nope")
	assert.ErrorIs(t, err, core.ErrProductNotFound)

	_, err = f.storefront.SelectProduct(ctx, id, "p1")
	require.NoError(t, err)

	s, err := f.storefront.AddToCart(ctx, id, dto.AddToCartRequest{Quantity: 0})
	assert.ErrorIs(t, err, cart.ErrInvalidQuantity)
	assert.Equal(t, navigation.ProductDetail, s.Nav.Current(), "failed add leaves the client on the detail view")

	_, err = f.storefront.AddToCart(ctx, id, dto.AddToCartRequest{Quantity: 1, SelectedOptions: map[string]string{"sauce": "bbq"}})
	assert.ErrorIs(t, err, cart.ErrUnknownOption)

	stored, err := f.storefront.Get(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, stored.Cart.Len())
}

func TestStorefront_CartTotal(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	id := newClient(t, f)

	addToCart(t, f, id, "p1", 2, map[string]string{"จำนวน": "2 ชิ้น"})
	s := addToCart(t, f, id, "s1", 1, nil)

	assert.Equal(t, 129.0, s.Cart.Total())
}

func TestStorefront_RemoveFromCart(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)

	addToCart(t, f, id, "p1", 1, nil)
	s := addToCart(t, f, id, "s1", 1, nil)
	first := s.Cart.Items[0].CartID

	s, err := f.storefront.RemoveFromCart(ctx, id, first)
	require.NoError(t, err)
	require.Equal(t, 1, s.Cart.Len())
	assert.Equal(t, "s1", s.Cart.Items[0].ID)

	_, err = f.storefront.RemoveFromCart(ctx, id, first)
	assert.ErrorIs(t, err, cart.ErrItemNotFound)
}

func TestStorefront_CheckoutRequiresSession(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)
	addToCart(t, f, id, "p1", 1, nil)

	s, err := f.storefront.OpenCart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, navigation.Cart, s.Nav.Current())

	s, err = f.storefront.Checkout(ctx, id)
	assert.ErrorIs(t, err, navigation.ErrAuthRequired)
	assert.Equal(t, screen.Login{}, s.Screen())
	assert.Equal(t, navigation.Cart, s.Nav.Current())

	login(t, f, id, "a@b.c", "pw")
	s, err = f.storefront.Checkout(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, navigation.Checkout, s.Nav.Current())
}

func TestStorefront_PlaceOrder(t *testing.T) {
	store := tablestore.NewProvisionedMemoryStore()
	f := newFixture(t, store)
	ctx := context.Background()
	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")
	addToCart(t, f, id, "p1", 2, nil)
	addToCart(t, f, id, "s1", 1, nil)

	order, s, err := f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{
		Payment: "bank",
		Method:  "delivery",
		Address: "99 Sukhumvit",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^ORD-\d{1,4}$`, order.ID)
	assert.Equal(t, models.StatusPendingPayment, order.Status)
	assert.Equal(t, 129.0, order.TotalPrice)
	assert.Equal(t, models.PaymentBank, order.PaymentMethod)
	assert.Equal(t, models.DeliveryDelivery, order.DeliveryMethod)
	assert.Equal(t, "99 Sukhumvit", order.DeliveryAddress)
	assert.Equal(t, "คุณลูกค้า", order.CustomerName)
	assert.Len(t, order.Items, 2)

	assert.Zero(t, s.Cart.Len())
	assert.Equal(t, []navigation.View{navigation.History}, s.Nav.Stack)
	assert.Equal(t, navigation.History, s.Nav.ActiveTab)
	require.Len(t, s.Orders, 1)
	assert.Equal(t, order.ID, s.Orders[0].ID)

	stored, err := f.admin.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 129.0, stored.TotalPrice)

	published := f.publisher.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.RoutingOrderPlaced, published[0].RoutingKey())
	assert.Equal(t, order.ID, published[0].OrderID)
}

func TestStorefront_PlaceOrderDefaults(t *testing.T) {
	f := newFixture(t, tablestore.NewProvisionedMemoryStore())
	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")
	addToCart(t, f, id, "d1", 1, nil)

	order, _, err := f.storefront.PlaceOrder(context.Background(), id, dto.CheckoutForm{})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPromptPay, order.PaymentMethod)
	assert.Equal(t, models.DeliveryPickup, order.DeliveryMethod)
	assert.Equal(t, "12:00", order.PickupTime)
	assert.Empty(t, order.DeliveryAddress)
}

func TestStorefront_PlaceOrderSurvivesBackendOutage(t *testing.T) {
	store := tablestore.NewProvisionedMemoryStore()
	f := newFixture(t, store)
	ctx := context.Background()
	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")
	addToCart(t, f, id, "p1", 1, nil)

	store.Fail(tablestore.Orders, errors.New("backend down"))
	f.publisher.Err = errors.New("broker down")

	order, s, err := f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{})
	require.NoError(t, err)
	assert.Zero(t, s.Cart.Len())
	assert.Equal(t, []navigation.View{navigation.History}, s.Nav.Stack)

	orders, err := f.storefront.Orders(ctx, id)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
}

func TestStorefront_PlaceOrderRejections(t *testing.T) {
	f := newFixture(t, tablestore.NewProvisionedMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)
	addToCart(t, f, id, "p1", 1, nil)

	_, _, err := f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{})
	assert.ErrorIs(t, err, core.ErrNotLoggedIn)

	login(t, f, id, "a@b.c", "pw")
	_, _, err = f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{Payment: "cash"})
	assert.ErrorIs(t, err, core.ErrUnknownPayment)
	_, _, err = f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{Method: "drone"})
	assert.ErrorIs(t, err, core.ErrUnknownDelivery)

	s, err := f.storefront.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Cart.Len(), "rejected orders keep the cart")

	_, err = f.storefront.RemoveFromCart(ctx, id, s.Cart.Items[0].CartID)
	require.NoError(t, err)
	_, _, err = f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{})
	assert.ErrorIs(t, err, core.ErrEmptyCart)
}

func TestStorefront_OrderIDsAreUniquePerClient(t *testing.T) {
	f := newFixture(t, tablestore.NewProvisionedMemoryStore())
	draws := []int{42, 42, 42, 7}
	f.storefront.orderNumber = func() int {
		n := draws[0]
		draws = draws[1:]
		return n
	}

	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")

	addToCart(t, f, id, "p1", 1, nil)
	first, _, err := f.storefront.PlaceOrder(context.Background(), id, dto.CheckoutForm{})
	require.NoError(t, err)

	addToCart(t, f, id, "p1", 1, nil)
	second, _, err := f.storefront.PlaceOrder(context.Background(), id, dto.CheckoutForm{})
	require.NoError(t, err)

	assert.Equal(t, "ORD-42", first.ID)
	assert.Equal(t, "ORD-7", second.ID)
}

func TestStorefront_OrderIDsAreUniqueAcrossClients(t *testing.T) {
	f := newFixture(t, tablestore.NewProvisionedMemoryStore())
	ctx := context.Background()
	draws := []int{42, 42, 43}
	f.storefront.orderNumber = func() int {
		n := draws[0]
		draws = draws[1:]
		return n
	}

	alice := newClient(t, f)
	login(t, f, alice, "alice@test.com", "pw")
	addToCart(t, f, alice, "p1", 1, nil)

	bob := newClient(t, f)
	login(t, f, bob, "bob@test.com", "pw")
	addToCart(t, f, bob, "p1", 2, nil)

	first, _, err := f.storefront.PlaceOrder(ctx, alice, dto.CheckoutForm{})
	require.NoError(t, err)
	second, s, err := f.storefront.PlaceOrder(ctx, bob, dto.CheckoutForm{})
	require.NoError(t, err)

	assert.Equal(t, "ORD-42", first.ID)
	assert.Equal(t, "ORD-43", second.ID)
	assert.Equal(t, second.ID, s.Orders[0].ID)

	ds := f.admin.FetchDataset(ctx)
	require.Len(t, ds.Orders, 2)
	stored, ok := findOrder(ds.Orders, "ORD-43")
	require.True(t, ok)
	assert.Equal(t, second.TotalPrice, stored.TotalPrice)

	published := f.publisher.Published()
	require.Len(t, published, 2)
	assert.Equal(t, "ORD-43", published[1].OrderID)
}

func TestStorefront_OrderIDDrawsAreBounded(t *testing.T) {
	store := tablestore.NewProvisionedMemoryStore()
	f := newFixture(t, store)
	ctx := context.Background()
	seedOrder(t, store, "ORD-42", models.StatusPaid, 10)
	f.storefront.orderNumber = func() int { return 42 }

	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")
	addToCart(t, f, id, "p1", 1, nil)

	order, _, err := f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{})
	require.NoError(t, err)
	assert.Equal(t, "ORD-42", order.ID)

	stored, err := f.admin.orders.Get(ctx, "ORD-42")
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.TotalPrice, "the existing order is not overwritten")
}

func TestStorefront_OrderItemsAreSnapshots(t *testing.T) {
	f := newFixture(t, tablestore.NewProvisionedMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")
	addToCart(t, f, id, "p1", 1, map[string]string{"ชิ้นส่วน": "น่อง"})

	order, _, err := f.storefront.PlaceOrder(ctx, id, dto.CheckoutForm{})
	require.NoError(t, err)

	s := addToCart(t, f, id, "p1", 3, map[string]string{"ชิ้นส่วน": "อก"})
	require.Equal(t, 1, s.Cart.Len())
	assert.Equal(t, 1, s.Orders[0].Items[0].Quantity)
	assert.Equal(t, "น่อง", s.Orders[0].Items[0].SelectedOptions["ชิ้นส่วน"])
	assert.Equal(t, order.Items, s.Orders[0].Items)
}

func TestStorefront_LogoutResetsEverything(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)
	login(t, f, id, "a@b.c", "pw")
	addToCart(t, f, id, "p1", 1, nil)
	_, err := f.storefront.Navigate(ctx, id, "profile")
	require.NoError(t, err)
	_, err = f.storefront.Navigate(ctx, id, "cart")
	require.NoError(t, err)

	s, err := f.storefront.Logout(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, s.User)
	assert.Zero(t, s.Cart.Len())
	assert.Equal(t, []navigation.View{navigation.Home}, s.Nav.Stack)
	assert.Equal(t, navigation.Home, s.Nav.ActiveTab)
	assert.Equal(t, session.AuthNone, s.AuthView)
}

func TestStorefront_CustomerNeverSeesAdmin(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	id := newClient(t, f)

	s := login(t, f, id, "customer@example.com", "secret")
	assert.Equal(t, models.RoleCustomer, s.User.Role)
	_, isAdmin := s.Screen().(screen.Admin)
	assert.False(t, isAdmin)

	_, err := f.admin.Authorize(context.Background(), id)
	assert.ErrorIs(t, err, core.ErrAdminOnly)
}

func TestStorefront_LoginValidation(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	id := newClient(t, f)

	s, err := f.storefront.Login(context.Background(), id, "", "pw")
	assert.ErrorIs(t, err, session.ErrEmptyCredentials)
	assert.Nil(t, s.User)
}

func TestStorefront_RegisterSwitchesToLogin(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)

	s, err := f.storefront.SetAuthView(ctx, id, "register")
	require.NoError(t, err)
	assert.Equal(t, screen.Register{}, s.Screen())

	s, notice, err := f.storefront.Register(ctx, id, dto.RegisterRequest{Email: "new@example.com", Password: "pw", ConfirmPassword: "pw"})
	require.NoError(t, err)
	assert.Equal(t, session.VerificationNotice, notice)
	assert.Equal(t, screen.Login{}, s.Screen())
	assert.Nil(t, s.User)

	s, err = f.storefront.SetAuthView(ctx, id, "none")
	require.NoError(t, err)
	assert.Equal(t, screen.Customer{View: navigation.Home}, s.Screen())
}

func TestStorefront_ConcurrentAddsAreSerialized(t *testing.T) {
	f := newFixture(t, tablestore.NewMemoryStore())
	ctx := context.Background()
	id := newClient(t, f)
	_, err := f.storefront.SelectProduct(ctx, id, "s1")
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.storefront.AddToCart(ctx, id, dto.AddToCartRequest{Quantity: 1})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := f.storefront.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, n, s.Cart.Len())
	assert.Equal(t, 1, s.Nav.Depth())
}
