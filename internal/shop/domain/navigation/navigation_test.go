package navigation

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	n := New()
	assert.Equal(t, []View{Home}, n.Stack)
	assert.Equal(t, Home, n.ActiveTab)
	assert.Equal(t, Home, n.Current())
}

func TestNavigate(t *testing.T) {
	tests := []struct {
		name          string
		target        View
		authenticated bool
		wantErr       error
		wantStack     []View
		wantTab       View
	}{
		{"tab sets active tab", Shop, false, nil, []View{Home, Shop}, Shop},
		{"deep view keeps tab", ProductDetail, false, nil, []View{Home, ProductDetail}, Home},
		{"profile needs session", Profile, false, ErrAuthRequired, []View{Home}, Home},
		{"history needs session", History, false, ErrAuthRequired, []View{Home}, Home},
		{"history with session", History, true, nil, []View{Home, History}, History},
		{"unknown view", View("settings"), true, ErrUnknownView, []View{Home}, Home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := New()
			err := n.Navigate(tt.target, tt.authenticated)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStack, n.Stack)
			assert.Equal(t, tt.wantTab, n.ActiveTab)
		})
	}
}

func TestBack(t *testing.T) {
	n := New()
	assert.False(t, n.Back(), "root is never popped")
	assert.Equal(t, []View{Home}, n.Stack)

	require.NoError(t, n.Navigate(Shop, false))
	require.NoError(t, n.Navigate(ProductDetail, false))
	assert.Equal(t, Shop, n.ActiveTab)

	assert.True(t, n.Back())
	assert.Equal(t, Shop, n.Current())
	assert.Equal(t, Shop, n.ActiveTab)

	assert.True(t, n.Back())
	assert.Equal(t, Home, n.Current())
	assert.Equal(t, Home, n.ActiveTab, "tab resyncs to the new top")
}

func TestBack_DeepViewDoesNotResyncTab(t *testing.T) {
	n := New()
	require.NoError(t, n.Navigate(Shop, false))
	require.NoError(t, n.Navigate(Cart, false))
	require.NoError(t, n.Navigate(Checkout, true))

	n.Back()
	assert.Equal(t, Cart, n.Current())
	assert.Equal(t, Shop, n.ActiveTab)
}

func TestSelectTab(t *testing.T) {
	n := New()
	require.NoError(t, n.Navigate(Shop, false))
	require.NoError(t, n.Navigate(ProductDetail, false))
	require.NoError(t, n.Navigate(Cart, false))

	require.NoError(t, n.SelectTab(Promo, false))
	assert.Equal(t, []View{Promo}, n.Stack)
	assert.Equal(t, Promo, n.ActiveTab)

	assert.ErrorIs(t, n.SelectTab(Profile, false), ErrAuthRequired)
	assert.Equal(t, []View{Promo}, n.Stack)

	assert.ErrorIs(t, n.SelectTab(Cart, true), ErrNotATab)
	assert.ErrorIs(t, n.SelectTab(View("nope"), true), ErrUnknownView)

	require.NoError(t, n.SelectTab(Profile, true))
	assert.Equal(t, []View{Profile}, n.Stack)
}

func TestShowTabBarAndCartButton(t *testing.T) {
	n := New()
	assert.True(t, n.ShowTabBar())
	assert.False(t, n.ShowCartButton(0))
	assert.True(t, n.ShowCartButton(2))

	require.NoError(t, n.Navigate(ProductDetail, false))
	assert.False(t, n.ShowTabBar())
	assert.False(t, n.ShowCartButton(2))
}

func TestEmptyStackIsRepaired(t *testing.T) {
	n := Navigator{}
	assert.Equal(t, Home, n.Current())
	assert.False(t, n.Back())
	assert.Equal(t, []View{Home}, n.Stack)
}

func TestParseView(t *testing.T) {
	v, err := ParseView("product-detail")
	require.NoError(t, err)
	assert.Equal(t, ProductDetail, v)

	_, err = ParseView("admin")
	assert.ErrorIs(t, err, ErrUnknownView)
}

// Random walks never leave the stack empty.
func TestRandomWalkKeepsStackNonEmpty(t *testing.T) {
	all := []View{Home, Shop, Promo, History, Profile, ProductDetail, Cart, Checkout}
	r := rand.New(rand.NewSource(7))

	for walk := 0; walk < 50; walk++ {
		n := New()
		auth := walk%2 == 0
		for step := 0; step < 200; step++ {
			v := all[r.Intn(len(all))]
			switch r.Intn(3) {
			case 0:
				_ = n.Navigate(v, auth)
			case 1:
				n.Back()
			case 2:
				if err := n.SelectTab(v, auth); err == nil {
					require.Equal(t, []View{v}, n.Stack)
				}
			}
			require.NotEmpty(t, n.Stack)
		}
	}
}
