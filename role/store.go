package role

import (
	"context"

	"github.com/xraph/aegis/id"
)

// Store defines persistence operations for roles and their permission
// membership. Membership is replace-all: SetRolePermissions overwrites the
// full set, there is no incremental attach.
type Store interface {
	// CreateRole persists a new role. Returns ErrDuplicate when a role with
	// the same (name, organization) already exists.
	CreateRole(ctx context.Context, r *Role) error

	// GetRole retrieves a role by ID.
	GetRole(ctx context.Context, roleID id.RoleID) (*Role, error)

	// GetRoleByName retrieves a role by name within an organization.
	// A nil orgID targets system roles.
	GetRoleByName(ctx context.Context, name string, orgID *id.OrganizationID) (*Role, error)

	// UpdateRole persists changes to a role.
	UpdateRole(ctx context.Context, r *Role) error

	// DeleteRole removes a role and its permission links.
	DeleteRole(ctx context.Context, roleID id.RoleID) error

	// ListRoles returns roles matching the filter, ordered by name.
	ListRoles(ctx context.Context, filter *ListFilter) ([]*Role, error)

	// CountRoles returns the number of roles matching the filter.
	CountRoles(ctx context.Context, filter *ListFilter) (int64, error)

	// SetRolePermissions replaces the role's full permission set.
	SetRolePermissions(ctx context.Context, roleID id.RoleID, permIDs []id.PermissionID) error

	// ListRolePermissions returns permission IDs attached to a role.
	ListRolePermissions(ctx context.Context, roleID id.RoleID) ([]id.PermissionID, error)
}
