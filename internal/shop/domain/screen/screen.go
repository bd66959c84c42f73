// Package screen decides which top-level screen a client sees.
//
// Screen is a closed set: Admin, Login, Register and Customer. Consumers
// switch on the concrete type; there is no string tag to fall through on.
package screen

import (
	"naikai-shop/internal/shop/domain/models"
	"naikai-shop/internal/shop/domain/navigation"
	"naikai-shop/internal/shop/domain/session"
)

type Screen interface {
	Name() string
	screen()
}

// Admin is the back office. It replaces the customer UI entirely.
type Admin struct{}

type Login struct{}

type Register struct{}

// Customer is the storefront showing View.
type Customer struct {
	View navigation.View
}

func (Admin) Name() string    { return "admin" }
func (Login) Name() string    { return "login" }
func (Register) Name() string { return "register" }
func (Customer) Name() string { return "customer" }

func (Admin) screen()    {}
func (Login) screen()    {}
func (Register) screen() {}
func (Customer) screen() {}

// Resolve picks the screen in precedence order: an admin session, then a
// pending auth screen, then the storefront at the current view.
func Resolve(user *models.User, auth session.AuthView, nav navigation.Navigator) Screen {
	if user != nil && user.IsAdmin() {
		return Admin{}
	}

	switch auth {
	case session.AuthLogin:
		return Login{}
	case session.AuthRegister:
		return Register{}
	}

	return Customer{View: nav.Current()}
}
