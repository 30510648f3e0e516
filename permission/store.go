package permission

import (
	"context"

	"github.com/xraph/aegis/id"
)

// Store defines persistence operations for permissions.
type Store interface {
	// CreatePermission persists a new permission. Returns ErrDuplicate when
	// the (resource, action) pair already exists.
	CreatePermission(ctx context.Context, p *Permission) error

	// GetPermission retrieves a permission by ID.
	GetPermission(ctx context.Context, permID id.PermissionID) (*Permission, error)

	// GetPermissionByKey retrieves a permission by its (resource, action) pair.
	GetPermissionByKey(ctx context.Context, resource, action string) (*Permission, error)

	// ListPermissions returns permissions matching the filter, ordered by
	// (resource asc, action asc).
	ListPermissions(ctx context.Context, filter *ListFilter) ([]*Permission, error)

	// CountPermissions returns the number of permissions matching the filter.
	CountPermissions(ctx context.Context, filter *ListFilter) (int64, error)

	// DeletePermission removes a permission by ID.
	DeletePermission(ctx context.Context, permID id.PermissionID) error
}
