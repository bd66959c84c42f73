package dto

import (
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/shop/domain/state"
)

type NavigateRequest struct {
	View string `json:"view"`
}

type TabRequest struct {
	Tab string `json:"tab"`
}

type AuthViewRequest struct {
	View string `json:"view"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type AddToCartRequest struct {
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options"`
	Note            string            `json:"note"`
}

// CheckoutForm mirrors the checkout screen. Payment is "qr" or "bank",
// method is "pickup" or "delivery".
type CheckoutForm struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Method  string `json:"method"`
	Time    string `json:"time"`
	Payment string `json:"payment"`
}

// ClientResponse is the client state plus everything the UI derives from it.
type ClientResponse struct {
	State          *state.ClientState `json:"state"`
	Screen         string             `json:"screen"`
	View           string             `json:"view,omitempty"`
	ShowTabBar     bool               `json:"show_tab_bar"`
	ShowCartButton bool               `json:"show_cart_button"`
	CartTotal      float64            `json:"cart_total"`
	Notice         string             `json:"notice,omitempty"`
}

type OrderResponse struct {
	Order  models.Order       `json:"order"`
	Client *state.ClientState `json:"client"`
}

type CatalogResponse struct {
	Products   []models.Product   `json:"products"`
	Promotions []models.Promotion `json:"promotions"`
	Categories []models.Category  `json:"categories"`
	Fallback   bool               `json:"fallback"`
}
