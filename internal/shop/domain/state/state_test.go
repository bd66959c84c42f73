package state

import (
	"testing"
	"time"

	"naikai-shop/internal/shop/domain/cart"
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/shop/domain/navigation"
	"naikai-shop/internal/shop/domain/screen"
	"naikai-shop/internal/shop/domain/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(t *testing.T, id string) models.CartItem {
	t.Helper()
	item, err := cart.NewItem(models.Product{ID: "p1", Name: "Chicken", Price: 45}, id, 1, nil, "")
	require.NoError(t, err)
	return item
}

func TestNew(t *testing.T) {
	now := time.Now()
	s := New("client-1", now)

	assert.Equal(t, "client-1", s.ID)
	assert.False(t, s.Authenticated())
	assert.Equal(t, []navigation.View{navigation.Home}, s.Nav.Stack)
	assert.Equal(t, screen.Customer{View: navigation.Home}, s.Screen())
	assert.Equal(t, now, s.CreatedAt)
}

func TestSignOut_FromAnyState(t *testing.T) {
	s := New("c", time.Now())
	u, err := session.Login("a@b.c", "pw")
	require.NoError(t, err)
	s.SignIn(u)
	require.NoError(t, s.Nav.Navigate(navigation.Shop, true))
	require.NoError(t, s.Nav.Navigate(navigation.ProductDetail, true))
	s.Cart.Add(newItem(t, "c1"))
	s.AuthView = session.AuthRegister
	s.SelectedProduct = &models.Product{ID: "p1"}

	s.SignOut()

	assert.Nil(t, s.User)
	assert.Zero(t, s.Cart.Len())
	assert.Equal(t, []navigation.View{navigation.Home}, s.Nav.Stack)
	assert.Equal(t, navigation.Home, s.Nav.ActiveTab)
	assert.Equal(t, session.AuthNone, s.AuthView)
	assert.Nil(t, s.SelectedProduct)
}

func TestSignIn_KeepsStack(t *testing.T) {
	s := New("c", time.Now())
	require.NoError(t, s.Nav.Navigate(navigation.Shop, false))
	s.AuthView = session.AuthLogin

	s.SignIn(models.User{ID: "u1", Role: models.RoleCustomer})

	assert.True(t, s.Authenticated())
	assert.Equal(t, session.AuthNone, s.AuthView)
	assert.Equal(t, navigation.Shop, s.Nav.Current())
}

func TestClone_IsDeep(t *testing.T) {
	s := New("c", time.Now())
	s.SignIn(models.User{ID: "u1", Name: "before"})
	s.Cart.Add(newItem(t, "c1"))
	s.Orders = append(s.Orders, models.Order{ID: "ORD-1", Items: s.Cart.Snapshot()})

	c := s.Clone()
	c.User.Name = "after"
	c.Cart.Items[0].Quantity = 9
	c.Orders[0].Items[0].Name = "changed"
	require.NoError(t, c.Nav.Navigate(navigation.Cart, true))

	assert.Equal(t, "before", s.User.Name)
	assert.Equal(t, 1, s.Cart.Items[0].Quantity)
	assert.Equal(t, "Chicken", s.Orders[0].Items[0].Name)
	assert.Equal(t, 1, s.Nav.Depth())
	assert.True(t, s.HasOrder("ORD-1"))
	assert.False(t, s.HasOrder("ORD-2"))
}
