// Package state is the per-client container the storefront operates on: the
// signed-in user, the pending auth screen, the view stack, the cart, the
// product open in the detail view and the orders placed from this client.
package state

import (
	"time"

	"naikai-shop/internal/shop/domain/cart"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/shop/domain/navigation"
	"naikai-shop/internal/shop/domain/screen"
	"naikai-shop/internal/shop/domain/session"
)

type ClientState struct {
	ID              string               `json:"id"`
	User            *models.User         `json:"user,omitempty"`
	AuthView        session.AuthView     `json:"authView,omitempty"`
	Nav             navigation.Navigator `json:"nav"`
	Cart            cart.Cart            `json:"cart"`
	SelectedProduct *models.Product      `json:"selectedProduct,omitempty"`
	Orders          []models.Order       `json:"orders"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

func New(id string, now time.Time) *ClientState {
	return &ClientState{
		ID:        id,
		Nav:       navigation.New(),
		Orders:    []models.Order{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *ClientState) Authenticated() bool {
	return s.User != nil
}

func (s *ClientState) Screen() screen.Screen {
	return screen.Resolve(s.User, s.AuthView, s.Nav)
}

// SignIn sets the session and closes any auth screen. The view stack is left
// where it was; the destination that triggered the sign-in is not resumed.
func (s *ClientState) SignIn(u models.User) {
	s.User = &u
	s.AuthView = session.AuthNone
}

// SignOut returns the client to a fresh guest at home. Orders placed earlier
// stay with the client.
func (s *ClientState) SignOut() {
	s.User = nil
	s.AuthView = session.AuthNone
	s.Cart.Clear()
	s.SelectedProduct = nil
	s.Nav.Reset(navigation.Home)
}

// HasOrder reports whether id is already used by an order of this client.
func (s *ClientState) HasOrder(id string) bool {
	for _, o := range s.Orders {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Clone deep-copies the state so a failed operation can be discarded.
func (s *ClientState) Clone() *ClientState {
	c := *s
	if s.User != nil {
		u := *s.User
		c.User = &u
	}
	if s.SelectedProduct != nil {
		p := s.SelectedProduct.Clone()
		c.SelectedProduct = &p
	}
	c.Nav = s.Nav.Clone()
	c.Cart = cart.Cart{Items: s.Cart.Snapshot()}
	if s.Cart.Items == nil {
		c.Cart.Items = nil
	}
	c.Orders = make([]models.Order, len(s.Orders))
	for i, o := range s.Orders {
		c.Orders[i] = cloneOrder(o)
	}
	return &c
}

func cloneOrder(o models.Order) models.Order {
	out := o
	out.Items = make([]models.CartItem, len(o.Items))
	for i, it := range o.Items {
		out.Items[i] = it.Clone()
	}
	return out
}
