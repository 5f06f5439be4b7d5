package models

import "github.com/shopspring/decimal"

// AuthProvider records how a user first registered.
type AuthProvider string

const (
	AuthProviderPassword AuthProvider = "password"
	AuthProviderGoogle   AuthProvider = "google"
)

// User represents an individual who records expenses against a budget.
type User struct {
	Base
	Name         string          `gorm:"not null" json:"name"`
	Email        string          `gorm:"uniqueIndex;not null" json:"email"`
	Password     string          `json:"-"`
	AuthProvider AuthProvider    `gorm:"not null;default:'password'" json:"auth_provider"`
	Budget       decimal.Decimal `gorm:"type:numeric(20,2);not null;default:500;check:budget >= 0" json:"budget"`
	Expenses     []Expense       `gorm:"foreignKey:UserID" json:"data,omitempty"`
}

// HasPassword reports whether the user can log in with a password.
func (u *User) HasPassword() bool {
	return u.Password != ""
}
