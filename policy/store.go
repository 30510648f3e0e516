package policy

import (
	"context"

	"github.com/xraph/aegis/id"
)

// Store defines persistence operations for ABAC policies.
type Store interface {
	// CreatePolicy persists a new policy.
	CreatePolicy(ctx context.Context, p *Policy) error

	// GetPolicy retrieves a policy by ID.
	GetPolicy(ctx context.Context, polID id.PolicyID) (*Policy, error)

	// UpdatePolicy persists changes to a policy.
	UpdatePolicy(ctx context.Context, p *Policy) error

	// DeletePolicy removes a policy by ID.
	DeletePolicy(ctx context.Context, polID id.PolicyID) error

	// ListPolicies returns policies matching the filter, ordered by
	// (priority desc, createdAt desc).
	ListPolicies(ctx context.Context, filter *ListFilter) ([]*Policy, error)

	// CountPolicies returns the number of policies matching the filter.
	CountPolicies(ctx context.Context, filter *ListFilter) (int64, error)

	// ListActivePolicies returns all active policies attached to the given
	// permission within the organization, ordered by (priority desc,
	// createdAt desc). The ordering is part of the contract: the evaluator
	// applies the first matching policy.
	ListActivePolicies(ctx context.Context, permID id.PermissionID, orgID id.OrganizationID) ([]*Policy, error)
}
