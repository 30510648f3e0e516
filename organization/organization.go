// Package organization defines the tenant entity. Every role assignment and
// policy is scoped to exactly one organization.
package organization

import (
	"errors"
	"time"

	"github.com/xraph/aegis/id"
)

// ErrNotFound is returned when an organization cannot be found.
var ErrNotFound = errors.New("aegis: organization not found")

// ErrDuplicate is returned when an organization slug already exists.
var ErrDuplicate = errors.New("aegis: organization already exists")

// Organization is a tenant. Authorization state never leaks across
// organizations: a role assignment in one grants nothing in another.
type Organization struct {
	ID        id.OrganizationID `json:"id" db:"id"`
	Name      string            `json:"name" db:"name"`
	Slug      string            `json:"slug" db:"slug"`
	IsActive  bool              `json:"is_active" db:"is_active"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing organizations.
type ListFilter struct {
	IsActive *bool  `json:"is_active,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
