// Package policy defines the ABAC Policy entity: an organization-scoped
// conditional override attached to exactly one permission.
package policy

import (
	"errors"
	"time"

	"github.com/xraph/aegis/id"
)

// ErrNotFound is returned when a policy cannot be found.
var ErrNotFound = errors.New("aegis: policy not found")

// Effect is the policy outcome — allow or deny.
type Effect string

const (
	// EffectAllow permits matching requests.
	EffectAllow Effect = "allow"

	// EffectDeny blocks matching requests.
	EffectDeny Effect = "deny"
)

// Valid reports whether the effect is one of the known values.
func (e Effect) Valid() bool {
	return e == EffectAllow || e == EffectDeny
}

// Policy is a conditional override evaluated after the RBAC gate has already
// granted a permission. Policies for the same permission and organization are
// totally ordered by (priority desc, createdAt desc); the first policy whose
// conditions match decides the outcome.
type Policy struct {
	ID             id.PolicyID       `json:"id" db:"id"`
	OrganizationID id.OrganizationID `json:"organization_id" db:"organization_id"`
	PermissionID   id.PermissionID   `json:"permission_id" db:"permission_id"`
	Name           string            `json:"name" db:"name"`
	Description    string            `json:"description,omitempty" db:"description"`
	Conditions     Conditions        `json:"conditions" db:"conditions"`
	Effect         Effect            `json:"effect" db:"effect"`
	Priority       int               `json:"priority" db:"priority"`
	IsActive       bool              `json:"is_active" db:"is_active"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}

// ListFilter contains filters for listing policies.
type ListFilter struct {
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty"`
	PermissionID   *id.PermissionID   `json:"permission_id,omitempty"`
	Effect         Effect             `json:"effect,omitempty"`
	IsActive       *bool              `json:"is_active,omitempty"`
	Search         string             `json:"search,omitempty"`
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
}
