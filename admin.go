package aegis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/policy"
	"github.com/xraph/aegis/role"
)

// Administrative operations. Every mutation that can change a user's
// effective permission set invalidates the affected cache entries before
// returning; invalidation failures are logged and never fail the write.

// CreatePermission registers a new (resource, action) permission.
func (e *Engine) CreatePermission(ctx context.Context, p *permission.Permission) error {
	if p.Resource == "" || p.Action == "" {
		return errors.New("aegis: permission resource and action are required")
	}
	if p.ID.IsNil() {
		p.ID = id.NewPermissionID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	if err := e.store.CreatePermission(ctx, p); err != nil {
		return fmt.Errorf("aegis: create permission: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitPermissionCreated(ctx, p)
	}
	return nil
}

// DeletePermission removes a permission. Roles referencing it lose the
// grant; cached sets age out within the TTL.
func (e *Engine) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	if err := e.store.DeletePermission(ctx, permID); err != nil {
		return fmt.Errorf("aegis: delete permission: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitPermissionDeleted(ctx, permID)
	}
	return nil
}

// CreateRole creates a role, organization-scoped or system-wide.
func (e *Engine) CreateRole(ctx context.Context, r *role.Role) error {
	if r.Name == "" {
		return errors.New("aegis: role name is required")
	}
	if r.ID.IsNil() {
		r.ID = id.NewRoleID()
	}
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	if err := e.store.CreateRole(ctx, r); err != nil {
		return fmt.Errorf("aegis: create role: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitRoleCreated(ctx, r)
	}
	return nil
}

// UpdateRole persists changes to a role's name and description. Permission
// membership changes go through SetRolePermissions.
func (e *Engine) UpdateRole(ctx context.Context, r *role.Role) error {
	r.UpdatedAt = time.Now()
	if err := e.store.UpdateRole(ctx, r); err != nil {
		return fmt.Errorf("aegis: update role: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitRoleUpdated(ctx, r)
	}
	return nil
}

// DeleteRole removes a role, its assignments, and the cached permission
// sets of every user who held it.
func (e *Engine) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	// Capture the holders before their assignments disappear.
	holders, err := e.store.ListAssignmentsForRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("aegis: delete role: list holders: %w", err)
	}
	if err := e.store.DeleteAssignmentsByRole(ctx, roleID); err != nil {
		return fmt.Errorf("aegis: delete role assignments: %w", err)
	}
	if err := e.store.DeleteRole(ctx, roleID); err != nil {
		return fmt.Errorf("aegis: delete role: %w", err)
	}
	e.resolver.InvalidateAssignments(ctx, holders)
	if e.plugins != nil {
		e.plugins.EmitRoleDeleted(ctx, roleID)
	}
	return nil
}

// SetRolePermissions replaces a role's full permission set and invalidates
// the cached permission set of every user holding the role.
func (e *Engine) SetRolePermissions(ctx context.Context, roleID id.RoleID, permIDs []id.PermissionID) error {
	if err := e.store.SetRolePermissions(ctx, roleID, permIDs); err != nil {
		return fmt.Errorf("aegis: set role permissions: %w", err)
	}
	e.resolver.InvalidateRole(ctx, roleID)
	if e.plugins != nil {
		e.plugins.EmitRolePermissionsSet(ctx, roleID, permIDs)
	}
	return nil
}

// AssignRole grants a role to a user within an organization and invalidates
// the user's cached permission sets for that organization and the
// org-agnostic slot.
func (e *Engine) AssignRole(ctx context.Context, userID id.UserID, roleID id.RoleID, orgID id.OrganizationID, assignedBy *id.UserID) (*assignment.Assignment, error) {
	a := &assignment.Assignment{
		ID:             id.NewAssignmentID(),
		UserID:         userID,
		RoleID:         roleID,
		OrganizationID: orgID,
		AssignedBy:     assignedBy,
		CreatedAt:      time.Now(),
	}
	if err := e.store.CreateAssignment(ctx, a); err != nil {
		return nil, fmt.Errorf("aegis: assign role: %w", err)
	}
	e.resolver.InvalidateUser(ctx, userID, orgID)
	if e.plugins != nil {
		e.plugins.EmitRoleAssigned(ctx, a)
	}
	return a, nil
}

// RevokeRole removes a user's role within an organization and invalidates
// the user's cached permission sets.
func (e *Engine) RevokeRole(ctx context.Context, userID id.UserID, roleID id.RoleID, orgID id.OrganizationID) error {
	a, err := e.store.GetAssignmentByTriple(ctx, userID, roleID, orgID)
	if err != nil {
		return fmt.Errorf("aegis: revoke role: %w", err)
	}
	if err := e.store.DeleteAssignment(ctx, a.ID); err != nil {
		return fmt.Errorf("aegis: revoke role: %w", err)
	}
	e.resolver.InvalidateUser(ctx, userID, orgID)
	if e.plugins != nil {
		e.plugins.EmitRoleUnassigned(ctx, a)
	}
	return nil
}

// CreatePolicy creates an ABAC policy. Policies are not cached; changes
// take effect on the next check.
func (e *Engine) CreatePolicy(ctx context.Context, p *policy.Policy) error {
	if p.Name == "" {
		return errors.New("aegis: policy name is required")
	}
	if !p.Effect.Valid() {
		return fmt.Errorf("aegis: invalid policy effect %q", p.Effect)
	}
	if p.ID.IsNil() {
		p.ID = id.NewPolicyID()
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if err := e.store.CreatePolicy(ctx, p); err != nil {
		return fmt.Errorf("aegis: create policy: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitPolicyCreated(ctx, p)
	}
	return nil
}

// UpdatePolicy persists changes to a policy.
func (e *Engine) UpdatePolicy(ctx context.Context, p *policy.Policy) error {
	if !p.Effect.Valid() {
		return fmt.Errorf("aegis: invalid policy effect %q", p.Effect)
	}
	p.UpdatedAt = time.Now()
	if err := e.store.UpdatePolicy(ctx, p); err != nil {
		return fmt.Errorf("aegis: update policy: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitPolicyUpdated(ctx, p)
	}
	return nil
}

// DeletePolicy removes a policy.
func (e *Engine) DeletePolicy(ctx context.Context, polID id.PolicyID) error {
	if err := e.store.DeletePolicy(ctx, polID); err != nil {
		return fmt.Errorf("aegis: delete policy: %w", err)
	}
	if e.plugins != nil {
		e.plugins.EmitPolicyDeleted(ctx, polID)
	}
	return nil
}
