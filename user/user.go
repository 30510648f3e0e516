// Package user defines the principal entity.
package user

import (
	"errors"
	"time"

	"github.com/xraph/aegis/id"
)

// ErrNotFound is returned when a user cannot be found.
var ErrNotFound = errors.New("aegis: user not found")

// ErrDuplicate is returned when a user email already exists.
var ErrDuplicate = errors.New("aegis: user already exists")

// User is a principal that holds role assignments. Department feeds the
// allowedDepartments policy clause during evaluation.
type User struct {
	ID         id.UserID `json:"id" db:"id"`
	Email      string    `json:"email" db:"email"`
	Name       string    `json:"name,omitempty" db:"name"`
	Department string    `json:"department,omitempty" db:"department"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing users.
type ListFilter struct {
	Department string `json:"department,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
	Search     string `json:"search,omitempty"`
	Limit      int    `json:"limit,omitempty"`
	Offset     int    `json:"offset,omitempty"`
}
