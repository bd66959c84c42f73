package session

import (
	"errors"
	"fmt"
	"strings"

	"naikai-shop/internal/shop/domain/models"
)

// Login has no real credential check: one hardcoded pair is the admin, any
// other non-empty pair is the demo customer.
const (
	AdminEmail    = "admin@admin.com"
	AdminPassword = "admin123"
)

const VerificationNotice = "กรุณายืนยันอีเมลที่ส่งไปยังกล่องข้อความของคุณ"

var (
	ErrEmptyCredentials = errors.New("email and password are required")
	ErrUnknownAuthView  = errors.New("unknown auth view")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// AuthView is the authentication screen shown over the storefront, if any.
type AuthView string

const (
	AuthNone     AuthView = ""
	AuthLogin    AuthView = "login"
	AuthRegister AuthView = "register"
)

func ParseAuthView(s string) (AuthView, error) {
	switch v := AuthView(s); v {
	case AuthNone, AuthLogin, AuthRegister:
		return v, nil
	case "none":
		return AuthNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAuthView, s)
	}
}

func Login(email, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return models.User{}, ErrEmptyCredentials
	}

	if email == AdminEmail && password == AdminPassword {
		return models.User{
			ID:         "admin",
			Name:       "Admin",
			Email:      AdminEmail,
			Role:       models.RoleAdmin,
			IsVerified: true,
		}, nil
	}

	return models.User{
		ID:         "u1",
		Name:       "คุณลูกค้า",
		Email:      "user@test.com",
		Role:       models.RoleCustomer,
		IsVerified: true,
	}, nil
}

type Registration struct {
	Name            string
	Email           string
	Phone           string
	Username        string
	Password        string
	ConfirmPassword string
}

// Register stores nothing. It checks the form the way the sign-up screen does
// and returns the notice asking the user to verify their email.
func Register(r Registration) (string, error) {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return "", ErrEmptyCredentials
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		return "", ErrPasswordMismatch
	}
	return VerificationNotice, nil
}
