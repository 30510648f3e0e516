// Package role defines the Role entity and its store interface for RBAC.
package role

import (
	"errors"
	"time"

	"github.com/xraph/aegis/id"
)

// ErrNotFound is returned when a role cannot be found.
var ErrNotFound = errors.New("aegis: role not found")

// ErrDuplicate is returned when a (name, organization) pair already exists.
var ErrDuplicate = errors.New("aegis: role already exists")

// Role is a named bundle of permissions. A role is either scoped to a single
// organization or, when OrganizationID is nil, a system role visible to all
// organizations. (Name, OrganizationID) is unique.
type Role struct {
	ID             id.RoleID          `json:"id" db:"id"`
	Name           string             `json:"name" db:"name"`
	Description    string             `json:"description,omitempty" db:"description"`
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty" db:"organization_id"`
	IsSystemRole   bool               `json:"is_system_role" db:"is_system_role"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing roles. When OrganizationID is set,
// system roles are included alongside the organization's own roles.
type ListFilter struct {
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty"`
	SystemOnly     bool               `json:"system_only,omitempty"`
	Search         string             `json:"search,omitempty"`
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
}
