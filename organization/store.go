package organization

import (
	"context"

	"github.com/xraph/aegis/id"
)

// Store defines persistence operations for organizations.
type Store interface {
	// CreateOrganization persists a new organization.
	CreateOrganization(ctx context.Context, org *Organization) error

	// GetOrganization retrieves an organization by ID.
	GetOrganization(ctx context.Context, orgID id.OrganizationID) (*Organization, error)

	// GetOrganizationBySlug retrieves an organization by its slug.
	GetOrganizationBySlug(ctx context.Context, slug string) (*Organization, error)

	// UpdateOrganization persists changes to an organization.
	UpdateOrganization(ctx context.Context, org *Organization) error

	// DeleteOrganization removes an organization by ID.
	DeleteOrganization(ctx context.Context, orgID id.OrganizationID) error

	// ListOrganizations returns organizations matching the filter.
	ListOrganizations(ctx context.Context, filter *ListFilter) ([]*Organization, error)

	// CountOrganizations returns the number of organizations matching the
	// filter.
	CountOrganizations(ctx context.Context, filter *ListFilter) (int64, error)
}
