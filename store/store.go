// Package store defines the aggregate persistence interface. Each subsystem
// (organization, user, role, permission, assignment, policy, auditlog)
// defines its own store interface. The composite Store composes them all.
// Backends: Postgres and Memory.
package store

import (
	"context"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/organization"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/policy"
	"github.com/xraph/aegis/role"
	"github.com/xraph/aegis/user"
)

// Store is the aggregate persistence interface.
// Each subsystem store is a composable interface; a single backend
// (postgres, memory) implements all of them.
type Store interface {
	organization.Store
	user.Store
	role.Store
	permission.Store
	assignment.Store
	policy.Store
	auditlog.Store

	// Migrate runs all schema migrations.
	Migrate(ctx context.Context) error

	// Ping checks database connectivity.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	Close() error
}
