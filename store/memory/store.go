// Package memory provides an in-memory implementation of the Aegis composite
// store. It is intended for testing and development.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/organization"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/policy"
	"github.com/xraph/aegis/role"
	"github.com/xraph/aegis/user"
)

// Compile-time interface checks.
var (
	_ organization.Store = (*Store)(nil)
	_ user.Store         = (*Store)(nil)
	_ role.Store         = (*Store)(nil)
	_ permission.Store   = (*Store)(nil)
	_ assignment.Store   = (*Store)(nil)
	_ policy.Store       = (*Store)(nil)
	_ auditlog.Store     = (*Store)(nil)
)

// Store is a thread-safe in-memory store for all Aegis entities.
type Store struct {
	mu sync.RWMutex

	organizations   map[string]*organization.Organization
	users           map[string]*user.User
	roles           map[string]*role.Role
	permissions     map[string]*permission.Permission
	rolePermissions map[string]map[string]struct{} // roleID -> set of permIDs
	assignments     map[string]*assignment.Assignment
	policies        map[string]*policy.Policy
	events          map[string]*auditlog.Event
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		organizations:   make(map[string]*organization.Organization),
		users:           make(map[string]*user.User),
		roles:           make(map[string]*role.Role),
		permissions:     make(map[string]*permission.Permission),
		rolePermissions: make(map[string]map[string]struct{}),
		assignments:     make(map[string]*assignment.Assignment),
		policies:        make(map[string]*policy.Policy),
		events:          make(map[string]*auditlog.Event),
	}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// ──────────────────────────────────────────────────
// Organization Store
// ──────────────────────────────────────────────────

func (s *Store) CreateOrganization(_ context.Context, org *organization.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.organizations {
		if o.Slug == org.Slug {
			return fmt.Errorf("organization slug %q: %w", org.Slug, organization.ErrDuplicate)
		}
	}
	s.organizations[org.ID.String()] = copyOrganization(org)
	return nil
}

func (s *Store) GetOrganization(_ context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.organizations[orgID.String()]
	if !ok {
		return nil, fmt.Errorf("organization %s: %w", orgID, organization.ErrNotFound)
	}
	return copyOrganization(o), nil
}

func (s *Store) GetOrganizationBySlug(_ context.Context, slug string) (*organization.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.organizations {
		if o.Slug == slug {
			return copyOrganization(o), nil
		}
	}
	return nil, fmt.Errorf("organization slug %q: %w", slug, organization.ErrNotFound)
}

func (s *Store) UpdateOrganization(_ context.Context, org *organization.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.organizations[org.ID.String()]; !ok {
		return fmt.Errorf("organization %s: %w", org.ID, organization.ErrNotFound)
	}
	s.organizations[org.ID.String()] = copyOrganization(org)
	return nil
}

func (s *Store) DeleteOrganization(_ context.Context, orgID id.OrganizationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.organizations, orgID.String())
	return nil
}

func (s *Store) ListOrganizations(_ context.Context, filter *organization.ListFilter) ([]*organization.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*organization.Organization, 0, len(s.organizations))
	for _, o := range s.organizations {
		if filter != nil {
			if filter.IsActive != nil && o.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !containsFold(o.Name, filter.Search) && !containsFold(o.Slug, filter.Search) {
				continue
			}
		}
		result = append(result, copyOrganization(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if filter != nil {
		result = applyPagination(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (s *Store) CountOrganizations(ctx context.Context, filter *organization.ListFilter) (int64, error) {
	return countOf(s.ListOrganizations(ctx, stripPagingOrg(filter)))
}

// ──────────────────────────────────────────────────
// User Store
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return fmt.Errorf("user email %q: %w", u.Email, user.ErrDuplicate)
		}
	}
	s.users[u.ID.String()] = copyUser(u)
	return nil
}

func (s *Store) GetUser(_ context.Context, userID id.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID.String()]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, user.ErrNotFound)
	}
	return copyUser(u), nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user email %q: %w", email, user.ErrNotFound)
}

func (s *Store) UpdateUser(_ context.Context, u *user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID.String()]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, user.ErrNotFound)
	}
	s.users[u.ID.String()] = copyUser(u)
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID.String())
	return nil
}

func (s *Store) ListUsers(_ context.Context, filter *user.ListFilter) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*user.User, 0, len(s.users))
	for _, u := range s.users {
		if filter != nil {
			if filter.Department != "" && u.Department != filter.Department {
				continue
			}
			if filter.IsActive != nil && u.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !containsFold(u.Email, filter.Search) && !containsFold(u.Name, filter.Search) {
				continue
			}
		}
		result = append(result, copyUser(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	if filter != nil {
		result = applyPagination(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (s *Store) CountUsers(ctx context.Context, filter *user.ListFilter) (int64, error) {
	return countOf(s.ListUsers(ctx, stripPagingUser(filter)))
}

// ──────────────────────────────────────────────────
// Role Store
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.roles {
		if existing.Name == r.Name && sameOrg(existing.OrganizationID, r.OrganizationID) {
			return fmt.Errorf("role %q: %w", r.Name, role.ErrDuplicate)
		}
	}
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) GetRole(_ context.Context, roleID id.RoleID) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleID.String()]
	if !ok {
		return nil, fmt.Errorf("role %s: %w", roleID, role.ErrNotFound)
	}
	return copyRole(r), nil
}

func (s *Store) GetRoleByName(_ context.Context, name string, orgID *id.OrganizationID) (*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.Name == name && sameOrg(r.OrganizationID, orgID) {
			return copyRole(r), nil
		}
	}
	return nil, fmt.Errorf("role %q: %w", name, role.ErrNotFound)
}

func (s *Store) UpdateRole(_ context.Context, r *role.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[r.ID.String()]; !ok {
		return fmt.Errorf("role %s: %w", r.ID, role.ErrNotFound)
	}
	s.roles[r.ID.String()] = copyRole(r)
	return nil
}

func (s *Store) DeleteRole(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, roleID.String())
	delete(s.rolePermissions, roleID.String())
	return nil
}

func (s *Store) ListRoles(_ context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*role.Role, 0, len(s.roles))
	for _, r := range s.roles {
		if filter != nil {
			if filter.OrganizationID != nil && !roleVisibleToOrg(r, filter.OrganizationID) {
				continue
			}
			if filter.SystemOnly && !r.IsSystemRole {
				continue
			}
			if filter.Search != "" && !containsFold(r.Name, filter.Search) {
				continue
			}
		}
		result = append(result, copyRole(r))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	if filter != nil {
		result = applyPagination(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	return countOf(s.ListRoles(ctx, stripPagingRole(filter)))
}

func (s *Store) SetRolePermissions(_ context.Context, roleID id.RoleID, permIDs []id.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[roleID.String()]; !ok {
		return fmt.Errorf("role %s: %w", roleID, role.ErrNotFound)
	}
	perms := make(map[string]struct{}, len(permIDs))
	for _, pid := range permIDs {
		perms[pid.String()] = struct{}{}
	}
	s.rolePermissions[roleID.String()] = perms
	return nil
}

func (s *Store) ListRolePermissions(_ context.Context, roleID id.RoleID) ([]id.PermissionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perms, ok := s.rolePermissions[roleID.String()]
	if !ok {
		return nil, nil
	}
	result := make([]id.PermissionID, 0, len(perms))
	for pid := range perms {
		parsed, err := id.ParsePermissionID(pid)
		if err == nil {
			result = append(result, parsed)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Permission Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(_ context.Context, p *permission.Permission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.permissions {
		if existing.Resource == p.Resource && existing.Action == p.Action {
			return fmt.Errorf("permission %q: %w", p.Key(), permission.ErrDuplicate)
		}
	}
	s.permissions[p.ID.String()] = copyPermission(p)
	return nil
}

func (s *Store) GetPermission(_ context.Context, permID id.PermissionID) (*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.permissions[permID.String()]
	if !ok {
		return nil, fmt.Errorf("permission %s: %w", permID, permission.ErrNotFound)
	}
	return copyPermission(p), nil
}

func (s *Store) GetPermissionByKey(_ context.Context, resource, action string) (*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.permissions {
		if p.Resource == resource && p.Action == action {
			return copyPermission(p), nil
		}
	}
	return nil, fmt.Errorf("permission %s:%s: %w", resource, action, permission.ErrNotFound)
}

func (s *Store) DeletePermission(_ context.Context, permID id.PermissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.permissions, permID.String())
	// Remove from role-permission mappings.
	pk := permID.String()
	for _, perms := range s.rolePermissions {
		delete(perms, pk)
	}
	return nil
}

func (s *Store) ListPermissions(_ context.Context, filter *permission.ListFilter) ([]*permission.Permission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*permission.Permission, 0, len(s.permissions))
	for _, p := range s.permissions {
		if filter != nil {
			if filter.Resource != "" && p.Resource != filter.Resource {
				continue
			}
			if filter.Action != "" && p.Action != filter.Action {
				continue
			}
			if filter.Search != "" && !containsFold(p.Key(), filter.Search) {
				continue
			}
		}
		result = append(result, copyPermission(p))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Resource != result[j].Resource {
			return result[i].Resource < result[j].Resource
		}
		return result[i].Action < result[j].Action
	})
	if filter != nil {
		result = applyPagination(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (s *Store) CountPermissions(ctx context.Context, filter *permission.ListFilter) (int64, error) {
	return countOf(s.ListPermissions(ctx, stripPagingPerm(filter)))
}

// ──────────────────────────────────────────────────
// Assignment Store
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(_ context.Context, a *assignment.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.UserID.String() == a.UserID.String() &&
			existing.RoleID.String() == a.RoleID.String() &&
			existing.OrganizationID.String() == a.OrganizationID.String() {
			return fmt.Errorf("assignment (%s, %s, %s): %w", a.UserID, a.RoleID, a.OrganizationID, assignment.ErrDuplicate)
		}
	}
	s.assignments[a.ID.String()] = copyAssignment(a)
	return nil
}

func (s *Store) GetAssignment(_ context.Context, asgnID id.AssignmentID) (*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[asgnID.String()]
	if !ok {
		return nil, fmt.Errorf("assignment %s: %w", asgnID, assignment.ErrNotFound)
	}
	return copyAssignment(a), nil
}

func (s *Store) GetAssignmentByTriple(_ context.Context, userID id.UserID, roleID id.RoleID, orgID id.OrganizationID) (*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.UserID.String() == userID.String() &&
			a.RoleID.String() == roleID.String() &&
			a.OrganizationID.String() == orgID.String() {
			return copyAssignment(a), nil
		}
	}
	return nil, fmt.Errorf("assignment (%s, %s, %s): %w", userID, roleID, orgID, assignment.ErrNotFound)
}

func (s *Store) DeleteAssignment(_ context.Context, asgnID id.AssignmentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assignments, asgnID.String())
	return nil
}

func (s *Store) ListAssignments(_ context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*assignment.Assignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		if filter != nil {
			if filter.UserID != nil && a.UserID.String() != filter.UserID.String() {
				continue
			}
			if filter.RoleID != nil && a.RoleID.String() != filter.RoleID.String() {
				continue
			}
			if filter.OrganizationID != nil && a.OrganizationID.String() != filter.OrganizationID.String() {
				continue
			}
		}
		result = append(result, copyAssignment(a))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	if filter != nil {
		result = applyPagination(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	return countOf(s.ListAssignments(ctx, stripPagingAssign(filter)))
}

func (s *Store) ListAssignmentsForUser(_ context.Context, userID id.UserID, orgID *id.OrganizationID) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*assignment.Assignment
	for _, a := range s.assignments {
		if a.UserID.String() != userID.String() {
			continue
		}
		if orgID != nil && a.OrganizationID.String() != orgID.String() {
			continue
		}
		result = append(result, copyAssignment(a))
	}
	return result, nil
}

func (s *Store) ListAssignmentsForRole(_ context.Context, roleID id.RoleID) ([]*assignment.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*assignment.Assignment
	rid := roleID.String()
	for _, a := range s.assignments {
		if a.RoleID.String() == rid {
			result = append(result, copyAssignment(a))
		}
	}
	return result, nil
}

func (s *Store) DeleteAssignmentsByUser(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := userID.String()
	for k, a := range s.assignments {
		if a.UserID.String() == uid {
			delete(s.assignments, k)
		}
	}
	return nil
}

func (s *Store) DeleteAssignmentsByRole(_ context.Context, roleID id.RoleID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rid := roleID.String()
	for k, a := range s.assignments {
		if a.RoleID.String() == rid {
			delete(s.assignments, k)
		}
	}
	return nil
}

// ──────────────────────────────────────────────────
// Policy Store
// ──────────────────────────────────────────────────

func (s *Store) CreatePolicy(_ context.Context, p *policy.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[p.ID.String()] = copyPolicy(p)
	return nil
}

func (s *Store) GetPolicy(_ context.Context, polID id.PolicyID) (*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.policies[polID.String()]
	if !ok {
		return nil, fmt.Errorf("policy %s: %w", polID, policy.ErrNotFound)
	}
	return copyPolicy(p), nil
}

func (s *Store) UpdatePolicy(_ context.Context, p *policy.Policy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.policies[p.ID.String()]; !ok {
		return fmt.Errorf("policy %s: %w", p.ID, policy.ErrNotFound)
	}
	s.policies[p.ID.String()] = copyPolicy(p)
	return nil
}

func (s *Store) DeletePolicy(_ context.Context, polID id.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.policies, polID.String())
	return nil
}

func (s *Store) ListPolicies(_ context.Context, filter *policy.ListFilter) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*policy.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		if filter != nil {
			if filter.OrganizationID != nil && p.OrganizationID.String() != filter.OrganizationID.String() {
				continue
			}
			if filter.PermissionID != nil && p.PermissionID.String() != filter.PermissionID.String() {
				continue
			}
			if filter.Effect != "" && p.Effect != filter.Effect {
				continue
			}
			if filter.IsActive != nil && p.IsActive != *filter.IsActive {
				continue
			}
			if filter.Search != "" && !containsFold(p.Name, filter.Search) {
				continue
			}
		}
		result = append(result, copyPolicy(p))
	}
	sortPolicies(result)
	if filter != nil {
		result = applyPagination(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (s *Store) CountPolicies(ctx context.Context, filter *policy.ListFilter) (int64, error) {
	return countOf(s.ListPolicies(ctx, stripPagingPol(filter)))
}

func (s *Store) ListActivePolicies(_ context.Context, permID id.PermissionID, orgID id.OrganizationID) ([]*policy.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*policy.Policy
	pid, oid := permID.String(), orgID.String()
	for _, p := range s.policies {
		if p.IsActive && p.PermissionID.String() == pid && p.OrganizationID.String() == oid {
			result = append(result, copyPolicy(p))
		}
	}
	sortPolicies(result)
	return result, nil
}

// sortPolicies orders by (priority desc, createdAt desc) — the evaluation
// order contract.
func sortPolicies(policies []*policy.Policy) {
	sort.Slice(policies, func(i, j int) bool {
		if policies[i].Priority != policies[j].Priority {
			return policies[i].Priority > policies[j].Priority
		}
		return policies[i].CreatedAt.After(policies[j].CreatedAt)
	})
}

// ──────────────────────────────────────────────────
// Audit Log Store
// ──────────────────────────────────────────────────

func (s *Store) CreateEvent(_ context.Context, e *auditlog.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID.String()] = copyEvent(e)
	return nil
}

func (s *Store) GetEvent(_ context.Context, eventID id.AuditEventID) (*auditlog.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[eventID.String()]
	if !ok {
		return nil, fmt.Errorf("audit event %s: %w", eventID, auditlog.ErrNotFound)
	}
	return copyEvent(e), nil
}

func (s *Store) ListEvents(_ context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*auditlog.Event, 0, len(s.events))
	for _, e := range s.events {
		if filter != nil {
			if filter.UserID != nil && e.UserID.String() != filter.UserID.String() {
				continue
			}
			if filter.OrganizationID != nil && (e.OrganizationID == nil || e.OrganizationID.String() != filter.OrganizationID.String()) {
				continue
			}
			if filter.Action != "" && !strings.Contains(e.Action, filter.Action) {
				continue
			}
			if filter.ResourceType != "" && e.ResourceType != filter.ResourceType {
				continue
			}
			if filter.Result != "" && e.Result != filter.Result {
				continue
			}
			if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
				continue
			}
			if filter.Until != nil && e.CreatedAt.After(*filter.Until) {
				continue
			}
		}
		result = append(result, copyEvent(e))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if filter != nil {
		result = applyPagination(result, filter.Limit, filter.Offset)
	}
	return result, nil
}

func (s *Store) CountEvents(ctx context.Context, filter *auditlog.QueryFilter) (int64, error) {
	return countOf(s.ListEvents(ctx, stripPagingAudit(filter)))
}

func (s *Store) PurgeEvents(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for k, e := range s.events {
		if e.CreatedAt.Before(before) {
			delete(s.events, k)
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

func sameOrg(a, b *id.OrganizationID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// roleVisibleToOrg reports whether r appears in an organization's role
// listing: the org's own roles plus system roles.
func roleVisibleToOrg(r *role.Role, orgID *id.OrganizationID) bool {
	if sameOrg(r.OrganizationID, orgID) {
		return true
	}
	return r.OrganizationID == nil && r.IsSystemRole
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func copyOrganization(o *organization.Organization) *organization.Organization {
	c := *o
	return &c
}

func copyUser(u *user.User) *user.User {
	c := *u
	return &c
}

func copyRole(r *role.Role) *role.Role {
	c := *r
	if r.OrganizationID != nil {
		orgID := *r.OrganizationID
		c.OrganizationID = &orgID
	}
	return &c
}

func copyPermission(p *permission.Permission) *permission.Permission {
	c := *p
	return &c
}

func copyAssignment(a *assignment.Assignment) *assignment.Assignment {
	c := *a
	if a.AssignedBy != nil {
		by := *a.AssignedBy
		c.AssignedBy = &by
	}
	return &c
}

func copyPolicy(p *policy.Policy) *policy.Policy {
	c := *p
	if p.Conditions.AllowedDepartments != nil {
		c.Conditions.AllowedDepartments = make([]string, len(p.Conditions.AllowedDepartments))
		copy(c.Conditions.AllowedDepartments, p.Conditions.AllowedDepartments)
	}
	if p.Conditions.AmountLimit != nil {
		limit := *p.Conditions.AmountLimit
		c.Conditions.AmountLimit = &limit
	}
	return &c
}

func copyEvent(e *auditlog.Event) *auditlog.Event {
	c := *e
	if e.OrganizationID != nil {
		orgID := *e.OrganizationID
		c.OrganizationID = &orgID
	}
	if e.Metadata != nil {
		c.Metadata = make(map[string]any, len(e.Metadata))
		for k, v := range e.Metadata {
			c.Metadata[k] = v
		}
	}
	return &c
}

func applyPagination[T any](items []*T, limit, offset int) []*T {
	if offset >= len(items) {
		return nil
	}
	if offset > 0 {
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func countOf[T any](items []*T, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return int64(len(items)), nil
}

// stripPaging clones a filter without limit/offset so counts cover the full
// match set.

func stripPagingOrg(f *organization.ListFilter) *organization.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagingUser(f *user.ListFilter) *user.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagingRole(f *role.ListFilter) *role.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagingPerm(f *permission.ListFilter) *permission.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagingAssign(f *assignment.ListFilter) *assignment.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagingPol(f *policy.ListFilter) *policy.ListFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}

func stripPagingAudit(f *auditlog.QueryFilter) *auditlog.QueryFilter {
	if f == nil {
		return nil
	}
	c := *f
	c.Limit, c.Offset = 0, 0
	return &c
}
