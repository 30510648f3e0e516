package assignment

import (
	"context"

	"github.com/xraph/aegis/id"
)

// Store defines persistence operations for user-role assignments.
type Store interface {
	// CreateAssignment persists a new assignment. Returns ErrDuplicate when
	// the (user, role, organization) triple already exists.
	CreateAssignment(ctx context.Context, a *Assignment) error

	// GetAssignment retrieves an assignment by ID.
	GetAssignment(ctx context.Context, asgnID id.AssignmentID) (*Assignment, error)

	// GetAssignmentByTriple retrieves the assignment for an exact
	// (user, role, organization) triple.
	GetAssignmentByTriple(ctx context.Context, userID id.UserID, roleID id.RoleID, orgID id.OrganizationID) (*Assignment, error)

	// DeleteAssignment removes an assignment by ID.
	DeleteAssignment(ctx context.Context, asgnID id.AssignmentID) error

	// ListAssignments returns assignments matching the filter.
	ListAssignments(ctx context.Context, filter *ListFilter) ([]*Assignment, error)

	// CountAssignments returns the number of assignments matching the filter.
	CountAssignments(ctx context.Context, filter *ListFilter) (int64, error)

	// ListAssignmentsForUser returns a user's assignments, optionally
	// restricted to one organization. This feeds permission resolution.
	ListAssignmentsForUser(ctx context.Context, userID id.UserID, orgID *id.OrganizationID) ([]*Assignment, error)

	// ListAssignmentsForRole returns every assignment of the given role.
	// Used to find the users whose cached permission sets a role mutation
	// invalidates.
	ListAssignmentsForRole(ctx context.Context, roleID id.RoleID) ([]*Assignment, error)

	// DeleteAssignmentsByUser removes all assignments for a user.
	DeleteAssignmentsByUser(ctx context.Context, userID id.UserID) error

	// DeleteAssignmentsByRole removes all assignments for a role.
	DeleteAssignmentsByRole(ctx context.Context, roleID id.RoleID) error
}
