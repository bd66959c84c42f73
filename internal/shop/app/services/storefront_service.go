package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/cart"
	"naikai-shop/internal/shop/domain/dto"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/shop/domain/navigation"
	"naikai-shop/internal/shop/domain/session"
	"naikai-shop/internal/shop/domain/state"
	"naikai-shop/internal/xpkg/events"
	"naikai-shop/internal/xpkg/logger"
	"naikai-shop/internal/xpkg/tablestore"

	"github.com/google/uuid"
)

// StorefrontService runs every customer-side operation against a client
// state. Operations on one client are serialized; a failed operation leaves
// the stored state as it was.
type StorefrontService struct {
	states    core.IStateStore
	catalog   *CatalogService
	orders    core.IOrderRepo
	publisher core.IPublisher
	mylog     logger.Logger

	locks *keyedMutex
	now   func() time.Time
	newID func() string
	// orderNumber draws the numeric part of a new order id
	orderNumber func() int
}

func NewStorefrontService(
	states core.IStateStore,
	catalog *CatalogService,
	orders core.IOrderRepo,
	publisher core.IPublisher,
	mylog logger.Logger,
) *StorefrontService {
	return &StorefrontService{
		states:      states,
		catalog:     catalog,
		orders:      orders,
		publisher:   publisher,
		mylog:       mylog,
		locks:       newKeyedMutex(),
		now:         time.Now,
		newID:       uuid.NewString,
		orderNumber: func() int { return rand.IntN(core.OrderIDSpace) },
	}
}

// NewClient starts a guest session at home with an empty cart.
func (ss *StorefrontService) NewClient(ctx context.Context) (*state.ClientState, error) {
	s := state.New(ss.newID(), ss.now())
	if err := ss.states.Save(ctx, s); err != nil {
		ss.mylog.Action("client_create_failed").Error("Failed to save client state", err)
		return nil, err
	}
	ss.mylog.Action("client_created").Info("New client session", "client_id", s.ID)
	return s, nil
}

func (ss *StorefrontService) Get(ctx context.Context, id string) (*state.ClientState, error) {
	return ss.states.Load(ctx, id)
}

func (ss *StorefrontService) DeleteClient(ctx context.Context, id string) error {
	unlock := ss.locks.Lock(id)
	defer unlock()
	return ss.states.Delete(ctx, id)
}

// Navigate pushes view. Guarded views without a session open the login
// screen instead and return navigation.ErrAuthRequired with the saved state.
func (ss *StorefrontService) Navigate(ctx context.Context, id, view string) (*state.ClientState, error) {
	v, err := navigation.ParseView(view)
	if err != nil {
		return nil, err
	}
	return ss.update(ctx, id, func(s *state.ClientState) error {
		return ss.navigate(s, v)
	})
}

func (ss *StorefrontService) Back(ctx context.Context, id string) (*state.ClientState, error) {
	return ss.update(ctx, id, func(s *state.ClientState) error {
		s.Nav.Back()
		return nil
	})
}

func (ss *StorefrontService) SelectTab(ctx context.Context, id, tab string) (*state.ClientState, error) {
	v, err := navigation.ParseView(tab)
	if err != nil {
		return nil, err
	}
	return ss.update(ctx, id, func(s *state.ClientState) error {
		err := s.Nav.SelectTab(v, s.Authenticated())
		if errors.Is(err, navigation.ErrAuthRequired) {
			s.AuthView = session.AuthLogin
		}
		return err
	})
}

func (ss *StorefrontService) Login(ctx context.Context, id, email, password string) (*state.ClientState, error) {
	mylog := ss.mylog.Action("login")

	return ss.update(ctx, id, func(s *state.ClientState) error {
		u, err := session.Login(email, password)
		if err != nil {
			return err
		}
		s.SignIn(u)
		mylog.Info("Client signed in", "client_id", id, "role", u.Role)
		return nil
	})
}

// Register checks the sign-up form and moves the client to the login screen.
// It returns the notice asking the user to verify their email.
func (ss *StorefrontService) Register(ctx context.Context, id string, req dto.RegisterRequest) (*state.ClientState, string, error) {
	var notice string
	st, err := ss.update(ctx, id, func(s *state.ClientState) error {
		n, err := session.Register(session.Registration{
			Name:            req.Name,
			Email:           req.Email,
			Phone:           req.Phone,
			Username:        req.Username,
			Password:        req.Password,
			ConfirmPassword: req.ConfirmPassword,
		})
		if err != nil {
			return err
		}
		notice = n
		s.AuthView = session.AuthLogin
		return nil
	})
	return st, notice, err
}

// SetAuthView switches between the login and register screens, or closes them.
func (ss *StorefrontService) SetAuthView(ctx context.Context, id, view string) (*state.ClientState, error) {
	v, err := session.ParseAuthView(view)
	if err != nil {
		return nil, err
	}
	return ss.update(ctx, id, func(s *state.ClientState) error {
		s.AuthView = v
		return nil
	})
}

func (ss *StorefrontService) Logout(ctx context.Context, id string) (*state.ClientState, error) {
	return ss.update(ctx, id, func(s *state.ClientState) error {
		s.SignOut()
		ss.mylog.Action("logout").Info("Client signed out", "client_id", id)
		return nil
	})
}

// SelectProduct opens the detail view for a catalog product.
func (ss *StorefrontService) SelectProduct(ctx context.Context, id, productID string) (*state.ClientState, error) {
	p, ok := ss.catalog.Product(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrProductNotFound, productID)
	}
	return ss.update(ctx, id, func(s *state.ClientState) error {
		s.SelectedProduct = &p
		return ss.navigate(s, navigation.ProductDetail)
	})
}

// AddToCart appends the selected product and returns to the view that opened it.
func (ss *StorefrontService) AddToCart(ctx context.Context, id string, req dto.AddToCartRequest) (*state.ClientState, error) {
	return ss.update(ctx, id, func(s *state.ClientState) error {
		if s.SelectedProduct == nil {
			return core.ErrNoProductSelected
		}
		item, err := cart.NewItem(*s.SelectedProduct, ss.newID(), req.Quantity, req.SelectedOptions, req.Note)
		if err != nil {
			return err
		}
		s.Cart.Add(item)
		s.Nav.Back()
		return nil
	})
}

func (ss *StorefrontService) RemoveFromCart(ctx context.Context, id, cartID string) (*state.ClientState, error) {
	return ss.update(ctx, id, func(s *state.ClientState) error {
		return s.Cart.Remove(cartID)
	})
}

func (ss *StorefrontService) OpenCart(ctx context.Context, id string) (*state.ClientState, error) {
	return ss.update(ctx, id, func(s *state.ClientState) error {
		return ss.navigate(s, navigation.Cart)
	})
}

// Checkout opens the checkout view, or the login screen for a guest.
func (ss *StorefrontService) Checkout(ctx context.Context, id string) (*state.ClientState, error) {
	return ss.update(ctx, id, func(s *state.ClientState) error {
		if !s.Authenticated() {
			s.AuthView = session.AuthLogin
			return navigation.ErrAuthRequired
		}
		return ss.navigate(s, navigation.Checkout)
	})
}

// PlaceOrder turns the cart into an order. The order is committed to the
// client unconditionally: persisting and announcing it are best effort and
// only logged on failure. The cart is emptied and the client lands on history.
func (ss *StorefrontService) PlaceOrder(ctx context.Context, id string, form dto.CheckoutForm) (models.Order, *state.ClientState, error) {
	mylog := ss.mylog.Action("place_order")

	payment, delivery, err := parseCheckout(form)
	if err != nil {
		return models.Order{}, nil, err
	}

	var order models.Order
	st, err := ss.update(ctx, id, func(s *state.ClientState) error {
		if !s.Authenticated() {
			return core.ErrNotLoggedIn
		}
		if s.Cart.Len() == 0 {
			return core.ErrEmptyCart
		}

		order = models.Order{
			UserID:         s.User.ID,
			CustomerName:   s.User.Name,
			Items:          s.Cart.Snapshot(),
			TotalPrice:     s.Cart.Total(),
			Status:         models.StatusPendingPayment,
			PaymentMethod:  payment,
			DeliveryMethod: delivery,
			Date:           models.FormatDate(ss.now()),
		}
		if name := strings.TrimSpace(form.Name); name != "" {
			order.CustomerName = name
		}
		switch delivery {
		case models.DeliveryDelivery:
			order.DeliveryAddress = strings.TrimSpace(form.Address)
		default:
			order.PickupTime = form.Time
			if order.PickupTime == "" {
				order.PickupTime = core.DefaultPickupTime
			}
		}

		order = ss.persistOrder(ctx, s, order)

		s.Orders = append([]models.Order{order}, s.Orders...)
		s.Cart.Clear()
		s.Nav.Reset(navigation.History)
		return nil
	})
	if err != nil {
		return models.Order{}, st, err
	}

	mylog.Info("Order placed", "client_id", id, "order_id", order.ID, "total_price", order.TotalPrice)
	return order, st, nil
}

// Orders lists the orders placed from this client, newest first.
func (ss *StorefrontService) Orders(ctx context.Context, id string) ([]models.Order, error) {
	s, err := ss.states.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.Orders, nil
}

// update loads the client state, applies fn to a copy and saves it. fn
// returning navigation.ErrAuthRequired still saves: the redirect to login is
// part of the result.
func (ss *StorefrontService) update(ctx context.Context, id string, fn func(*state.ClientState) error) (*state.ClientState, error) {
	unlock := ss.locks.Lock(id)
	defer unlock()

	cur, err := ss.states.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	next := cur.Clone()
	opErr := fn(next)
	if opErr != nil && !errors.Is(opErr, navigation.ErrAuthRequired) {
		return cur, opErr
	}

	next.UpdatedAt = ss.now()
	if err := ss.states.Save(ctx, next); err != nil {
		ss.mylog.Action("client_save_failed").Error("Failed to save client state", err, "client_id", id)
		return cur, err
	}
	return next, opErr
}

func (ss *StorefrontService) navigate(s *state.ClientState, v navigation.View) error {
	err := s.Nav.Navigate(v, s.Authenticated())
	if errors.Is(err, navigation.ErrAuthRequired) {
		s.AuthView = session.AuthLogin
	}
	return err
}

// nextOrderID draws ORD-<0..9999> ids until one is unused by the client.
func (ss *StorefrontService) nextOrderID(s *state.ClientState) string {
	var id string
	for range core.OrderIDSpace {
		id = core.OrderIDPrefix + strconv.Itoa(ss.orderNumber())
		if !s.HasOrder(id) {
			return id
		}
	}
	return id
}

// persistOrder assigns order an id and saves it. An id already taken in the
// backend is redrawn; any other failure is logged and the order is returned
// as is, to be kept by the client only.
func (ss *StorefrontService) persistOrder(ctx context.Context, s *state.ClientState, order models.Order) models.Order {
	mylog := ss.mylog.Action("persist_order")

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), core.PersistTimeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		order.ID = ss.nextOrderID(s)
		err := ss.orders.Create(ctx, order)
		if err == nil {
			mylog.Debug("Order saved", "order_id", order.ID)
			break
		}
		if tablestore.IsDuplicateKey(err) && attempt < core.OrderIDAttempts {
			mylog.Debug("Order id already taken, drawing another", "order_id", order.ID)
			continue
		}
		mylog.Error("Failed to save order, keeping it locally only", err, "order_id", order.ID)
		break
	}

	event := events.NewOrderEvent(order.ID, order.CustomerName, "", string(order.Status), order.CustomerName, order.TotalPrice, ss.now())
	if err := ss.publisher.PublishOrderEvent(ctx, event); err != nil {
		mylog.Error("Failed to publish order event", err, "order_id", order.ID)
	}
	return order
}

func parseCheckout(form dto.CheckoutForm) (models.PaymentMethod, models.DeliveryMethod, error) {
	var payment models.PaymentMethod
	switch strings.ToLower(form.Payment) {
	case "", "qr", string(models.PaymentPromptPay):
		payment = models.PaymentPromptPay
	case string(models.PaymentBank):
		payment = models.PaymentBank
	default:
		return "", "", fmt.Errorf("%w: %q", core.ErrUnknownPayment, form.Payment)
	}

	var delivery models.DeliveryMethod
	switch strings.ToLower(form.Method) {
	case "", string(models.DeliveryPickup):
		delivery = models.DeliveryPickup
	case string(models.DeliveryDelivery):
		delivery = models.DeliveryDelivery
	default:
		return "", "", fmt.Errorf("%w: %q", core.ErrUnknownDelivery, form.Method)
	}

	return payment, delivery, nil
}
