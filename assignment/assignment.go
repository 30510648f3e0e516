// Package assignment defines the user→role assignment entity.
package assignment

import (
	"errors"
	"time"

	"github.com/xraph/aegis/id"
)

// ErrNotFound is returned when an assignment cannot be found.
var ErrNotFound = errors.New("aegis: assignment not found")

// ErrDuplicate is returned when the (user, role, organization) triple
// already exists.
var ErrDuplicate = errors.New("aegis: role already assigned to user")

// Assignment binds a role to a user within an organization. The
// (UserID, RoleID, OrganizationID) triple is unique. A user may hold many
// roles in the same organization; their effective permissions union across
// all of them.
type Assignment struct {
	ID             id.AssignmentID    `json:"id" db:"id"`
	UserID         id.UserID          `json:"user_id" db:"user_id"`
	RoleID         id.RoleID          `json:"role_id" db:"role_id"`
	OrganizationID id.OrganizationID  `json:"organization_id" db:"organization_id"`
	AssignedBy     *id.UserID         `json:"assigned_by,omitempty" db:"assigned_by"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// ListFilter contains filters for listing assignments.
type ListFilter struct {
	UserID         *id.UserID         `json:"user_id,omitempty"`
	RoleID         *id.RoleID         `json:"role_id,omitempty"`
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty"`
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
}
