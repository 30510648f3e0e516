// Package permission defines the Permission entity and its store interface.
package permission

import (
	"errors"
	"time"

	"github.com/xraph/aegis/id"
)

// ErrNotFound is returned when a permission cannot be found.
var ErrNotFound = errors.New("aegis: permission not found")

// ErrDuplicate is returned when a (resource, action) pair already exists.
var ErrDuplicate = errors.New("aegis: permission already exists")

// Permission is an immutable capability: a specific action on a resource
// type. Permissions are global (not organization-scoped) and identified by
// the key "resource:action". They are created administratively and never
// mutated, only deleted.
type Permission struct {
	ID          id.PermissionID `json:"id" db:"id"`
	Resource    string          `json:"resource" db:"resource"`
	Action      string          `json:"action" db:"action"`
	Description string          `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Key returns the canonical "resource:action" permission key. The single
// colon separator with no whitespace is part of the wire contract: keys are
// used verbatim as cache-entry identity and policy lookup input.
func (p *Permission) Key() string {
	return p.Resource + ":" + p.Action
}

// SplitKey splits a "resource:action" permission key into its parts.
// The key format admits exactly one colon; extra colons stay in the action.
func SplitKey(key string) (resource, action string) {
	for i := 0; i < len(key); i++ {
		if key[i] == ':' {
			return key[:i], key[i+1:]
		}
	}
	return key, ""
}

// ListFilter contains filters for listing permissions.
type ListFilter struct {
	Resource string `json:"resource,omitempty"`
	Action   string `json:"action,omitempty"`
	Search   string `json:"search,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
