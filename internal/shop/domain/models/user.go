package models

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Phone      string `json:"phone,omitempty"`
	IsVerified bool   `json:"isVerified"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
