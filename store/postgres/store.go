// Package postgres provides a PostgreSQL implementation of the Aegis
// composite store using grove ORM with Go-based migrations.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/organization"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/policy"
	"github.com/xraph/aegis/role"
	"github.com/xraph/aegis/store"
	"github.com/xraph/aegis/user"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// pgErrUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgErrUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation
}

// Store is a PostgreSQL implementation of the composite Aegis store.
type Store struct {
	db   *grove.DB
	pgdb *pgdriver.PgDB
}

// New creates a new PostgreSQL store.
func New(db *grove.DB) *Store {
	return &Store{
		db:   db,
		pgdb: pgdriver.Unwrap(db),
	}
}

// Migrate runs programmatic migrations via the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pgdb)
	if err != nil {
		return fmt.Errorf("aegis: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("aegis: migration failed: %w", err)
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ──────────────────────────────────────────────────
// Organization operations
// ──────────────────────────────────────────────────

func (s *Store) CreateOrganization(ctx context.Context, org *organization.Organization) error {
	now := time.Now().UTC()
	if org.CreatedAt.IsZero() {
		org.CreatedAt = now
	}
	org.UpdatedAt = now
	m := organizationToModel(org)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("organization slug %q: %w", org.Slug, organization.ErrDuplicate)
		}
		return fmt.Errorf("aegis: create organization: %w", err)
	}
	return nil
}

func (s *Store) GetOrganization(ctx context.Context, orgID id.OrganizationID) (*organization.Organization, error) {
	m := new(organizationModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", orgID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization %s: %w", orgID, organization.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get organization: %w", err)
	}
	return organizationFromModel(m), nil
}

func (s *Store) GetOrganizationBySlug(ctx context.Context, slug string) (*organization.Organization, error) {
	m := new(organizationModel)
	err := s.pgdb.NewSelect(m).Where("slug = ?", slug).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("organization slug %q: %w", slug, organization.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get organization by slug: %w", err)
	}
	return organizationFromModel(m), nil
}

func (s *Store) UpdateOrganization(ctx context.Context, org *organization.Organization) error {
	org.UpdatedAt = time.Now().UTC()
	m := organizationToModel(org)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("organization slug %q: %w", org.Slug, organization.ErrDuplicate)
		}
		return fmt.Errorf("aegis: update organization: %w", err)
	}
	return nil
}

func (s *Store) DeleteOrganization(ctx context.Context, orgID id.OrganizationID) error {
	_, err := s.pgdb.NewDelete((*organizationModel)(nil)).
		Where("id = ?", orgID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete organization: %w", err)
	}
	return nil
}

func (s *Store) ListOrganizations(ctx context.Context, filter *organization.ListFilter) ([]*organization.Organization, error) {
	var models []organizationModel
	q := s.pgdb.NewSelect(&models).OrderExpr("name ASC")
	if filter != nil {
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list organizations: %w", err)
	}
	result := make([]*organization.Organization, len(models))
	for i := range models {
		result[i] = organizationFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountOrganizations(ctx context.Context, filter *organization.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*organizationModel)(nil))
	if filter != nil {
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count organizations: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// User operations
// ──────────────────────────────────────────────────

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	m := userToModel(u)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user email %q: %w", u.Email, user.ErrDuplicate)
		}
		return fmt.Errorf("aegis: create user: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, userID id.UserID) (*user.User, error) {
	m := new(userModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", userID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", userID, user.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get user: %w", err)
	}
	return userFromModel(m), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	m := new(userModel)
	err := s.pgdb.NewSelect(m).Where("LOWER(email) = LOWER(?)", email).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user email %q: %w", email, user.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get user by email: %w", err)
	}
	return userFromModel(m), nil
}

func (s *Store) UpdateUser(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now().UTC()
	m := userToModel(u)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("user email %q: %w", u.Email, user.ErrDuplicate)
		}
		return fmt.Errorf("aegis: update user: %w", err)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, userID id.UserID) error {
	_, err := s.pgdb.NewDelete((*userModel)(nil)).
		Where("id = ?", userID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete user: %w", err)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context, filter *user.ListFilter) ([]*user.User, error) {
	var models []userModel
	q := s.pgdb.NewSelect(&models).OrderExpr("email ASC")
	if filter != nil {
		if filter.Department != "" {
			q = q.Where("department = ?", filter.Department)
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list users: %w", err)
	}
	result := make([]*user.User, len(models))
	for i := range models {
		result[i] = userFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountUsers(ctx context.Context, filter *user.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*userModel)(nil))
	if filter != nil {
		if filter.Department != "" {
			q = q.Where("department = ?", filter.Department)
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count users: %w", err)
	}
	return count, nil
}

// ──────────────────────────────────────────────────
// Role operations
// ──────────────────────────────────────────────────

func (s *Store) CreateRole(ctx context.Context, r *role.Role) error {
	now := time.Now().UTC()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	m := roleToModel(r)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("role %q: %w", r.Name, role.ErrDuplicate)
		}
		return fmt.Errorf("aegis: create role: %w", err)
	}
	return nil
}

func (s *Store) GetRole(ctx context.Context, roleID id.RoleID) (*role.Role, error) {
	m := new(roleModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", roleID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role %s: %w", roleID, role.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get role: %w", err)
	}
	return roleFromModel(m), nil
}

func (s *Store) GetRoleByName(ctx context.Context, name string, orgID *id.OrganizationID) (*role.Role, error) {
	m := new(roleModel)
	q := s.pgdb.NewSelect(m).Where("name = ?", name)
	if orgID != nil {
		q = q.Where("organization_id = ?", orgID.String())
	} else {
		q = q.Where("organization_id IS NULL")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("role %q: %w", name, role.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get role by name: %w", err)
	}
	return roleFromModel(m), nil
}

func (s *Store) UpdateRole(ctx context.Context, r *role.Role) error {
	r.UpdatedAt = time.Now().UTC()
	m := roleToModel(r)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("role %q: %w", r.Name, role.ErrDuplicate)
		}
		return fmt.Errorf("aegis: update role: %w", err)
	}
	return nil
}

func (s *Store) DeleteRole(ctx context.Context, roleID id.RoleID) error {
	_, err := s.pgdb.NewDelete((*roleModel)(nil)).
		Where("id = ?", roleID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete role: %w", err)
	}
	return nil
}

func (s *Store) ListRoles(ctx context.Context, filter *role.ListFilter) ([]*role.Role, error) {
	var models []roleModel
	q := s.pgdb.NewSelect(&models).OrderExpr("name ASC")
	if filter != nil {
		if filter.OrganizationID != nil {
			// Org-scoped listings include system roles.
			q = q.Where("(organization_id = ? OR (organization_id IS NULL AND is_system_role))", filter.OrganizationID.String())
		}
		if filter.SystemOnly {
			q = q.Where("is_system_role = ?", true)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list roles: %w", err)
	}
	result := make([]*role.Role, len(models))
	for i := range models {
		result[i] = roleFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountRoles(ctx context.Context, filter *role.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*roleModel)(nil))
	if filter != nil {
		if filter.OrganizationID != nil {
			q = q.Where("(organization_id = ? OR (organization_id IS NULL AND is_system_role))", filter.OrganizationID.String())
		}
		if filter.SystemOnly {
			q = q.Where("is_system_role = ?", true)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count roles: %w", err)
	}
	return count, nil
}

func (s *Store) SetRolePermissions(ctx context.Context, roleID id.RoleID, permIDs []id.PermissionID) error {
	tx, err := s.pgdb.BeginTxQuery(ctx, nil)
	if err != nil {
		return fmt.Errorf("aegis: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback on error is intentional

	// Replace-all: clear the current membership, then insert the new set.
	_, err = tx.NewDelete((*rolePermissionModel)(nil)).
		Where("role_id = ?", roleID.String()).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: clear role permissions: %w", err)
	}

	if len(permIDs) > 0 {
		models := make([]rolePermissionModel, len(permIDs))
		for i, pid := range permIDs {
			models[i] = rolePermissionModel{
				RoleID:       roleID.String(),
				PermissionID: pid.String(),
			}
		}
		_, err = tx.NewInsert(&models).Exec(ctx)
		if err != nil {
			return fmt.Errorf("aegis: set role permissions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("aegis: commit tx: %w", err)
	}
	return nil
}

func (s *Store) ListRolePermissions(ctx context.Context, roleID id.RoleID) ([]id.PermissionID, error) {
	var models []rolePermissionModel
	err := s.pgdb.NewSelect(&models).
		Where("role_id = ?", roleID.String()).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list role permissions: %w", err)
	}
	result := make([]id.PermissionID, 0, len(models))
	for _, m := range models {
		pid, err := id.ParsePermissionID(m.PermissionID)
		if err == nil {
			result = append(result, pid)
		}
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Permission operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePermission(ctx context.Context, p *permission.Permission) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m := permissionToModel(p)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("permission %q: %w", p.Key(), permission.ErrDuplicate)
		}
		return fmt.Errorf("aegis: create permission: %w", err)
	}
	return nil
}

func (s *Store) GetPermission(ctx context.Context, permID id.PermissionID) (*permission.Permission, error) {
	m := new(permissionModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", permID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("permission %s: %w", permID, permission.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get permission: %w", err)
	}
	return permissionFromModel(m), nil
}

func (s *Store) GetPermissionByKey(ctx context.Context, resource, action string) (*permission.Permission, error) {
	m := new(permissionModel)
	err := s.pgdb.NewSelect(m).
		Where("resource = ?", resource).
		Where("action = ?", action).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("permission %s:%s: %w", resource, action, permission.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get permission by key: %w", err)
	}
	return permissionFromModel(m), nil
}

func (s *Store) ListPermissions(ctx context.Context, filter *permission.ListFilter) ([]*permission.Permission, error) {
	var models []permissionModel
	q := s.pgdb.NewSelect(&models).OrderExpr("resource ASC, action ASC")
	if filter != nil {
		if filter.Resource != "" {
			q = q.Where("resource = ?", filter.Resource)
		}
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(resource) LIKE LOWER(?) OR LOWER(action) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list permissions: %w", err)
	}
	result := make([]*permission.Permission, len(models))
	for i := range models {
		result[i] = permissionFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountPermissions(ctx context.Context, filter *permission.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*permissionModel)(nil))
	if filter != nil {
		if filter.Resource != "" {
			q = q.Where("resource = ?", filter.Resource)
		}
		if filter.Action != "" {
			q = q.Where("action = ?", filter.Action)
		}
		if filter.Search != "" {
			q = q.Where("(LOWER(resource) LIKE LOWER(?) OR LOWER(action) LIKE LOWER(?))",
				"%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count permissions: %w", err)
	}
	return count, nil
}

func (s *Store) DeletePermission(ctx context.Context, permID id.PermissionID) error {
	_, err := s.pgdb.NewDelete((*permissionModel)(nil)).
		Where("id = ?", permID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete permission: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Assignment operations
// ──────────────────────────────────────────────────

func (s *Store) CreateAssignment(ctx context.Context, a *assignment.Assignment) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	m := assignmentToModel(a)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("assignment (%s, %s, %s): %w",
				a.UserID, a.RoleID, a.OrganizationID, assignment.ErrDuplicate)
		}
		return fmt.Errorf("aegis: create assignment: %w", err)
	}
	return nil
}

func (s *Store) GetAssignment(ctx context.Context, asgnID id.AssignmentID) (*assignment.Assignment, error) {
	m := new(assignmentModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", asgnID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment %s: %w", asgnID, assignment.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get assignment: %w", err)
	}
	return assignmentFromModel(m), nil
}

func (s *Store) GetAssignmentByTriple(ctx context.Context, userID id.UserID, roleID id.RoleID, orgID id.OrganizationID) (*assignment.Assignment, error) {
	m := new(assignmentModel)
	err := s.pgdb.NewSelect(m).
		Where("user_id = ?", userID.String()).
		Where("role_id = ?", roleID.String()).
		Where("organization_id = ?", orgID.String()).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("assignment (%s, %s, %s): %w",
				userID, roleID, orgID, assignment.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get assignment by triple: %w", err)
	}
	return assignmentFromModel(m), nil
}

func (s *Store) DeleteAssignment(ctx context.Context, asgnID id.AssignmentID) error {
	_, err := s.pgdb.NewDelete((*assignmentModel)(nil)).
		Where("id = ?", asgnID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete assignment: %w", err)
	}
	return nil
}

func (s *Store) ListAssignments(ctx context.Context, filter *assignment.ListFilter) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at ASC")
	if filter != nil {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.RoleID != nil {
			q = q.Where("role_id = ?", filter.RoleID.String())
		}
		if filter.OrganizationID != nil {
			q = q.Where("organization_id = ?", filter.OrganizationID.String())
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list assignments: %w", err)
	}
	result := make([]*assignment.Assignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountAssignments(ctx context.Context, filter *assignment.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*assignmentModel)(nil))
	if filter != nil {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.RoleID != nil {
			q = q.Where("role_id = ?", filter.RoleID.String())
		}
		if filter.OrganizationID != nil {
			q = q.Where("organization_id = ?", filter.OrganizationID.String())
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count assignments: %w", err)
	}
	return count, nil
}

func (s *Store) ListAssignmentsForUser(ctx context.Context, userID id.UserID, orgID *id.OrganizationID) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	q := s.pgdb.NewSelect(&models).
		Where("user_id = ?", userID.String()).
		OrderExpr("created_at ASC")
	if orgID != nil {
		q = q.Where("organization_id = ?", orgID.String())
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list assignments for user: %w", err)
	}
	result := make([]*assignment.Assignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) ListAssignmentsForRole(ctx context.Context, roleID id.RoleID) ([]*assignment.Assignment, error) {
	var models []assignmentModel
	err := s.pgdb.NewSelect(&models).
		Where("role_id = ?", roleID.String()).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list assignments for role: %w", err)
	}
	result := make([]*assignment.Assignment, len(models))
	for i := range models {
		result[i] = assignmentFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) DeleteAssignmentsByUser(ctx context.Context, userID id.UserID) error {
	_, err := s.pgdb.NewDelete((*assignmentModel)(nil)).
		Where("user_id = ?", userID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete assignments by user: %w", err)
	}
	return nil
}

func (s *Store) DeleteAssignmentsByRole(ctx context.Context, roleID id.RoleID) error {
	_, err := s.pgdb.NewDelete((*assignmentModel)(nil)).
		Where("role_id = ?", roleID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete assignments by role: %w", err)
	}
	return nil
}

// ──────────────────────────────────────────────────
// Policy operations
// ──────────────────────────────────────────────────

func (s *Store) CreatePolicy(ctx context.Context, p *policy.Policy) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m := policyToModel(p)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: create policy: %w", err)
	}
	return nil
}

func (s *Store) GetPolicy(ctx context.Context, polID id.PolicyID) (*policy.Policy, error) {
	m := new(policyModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", polID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("policy %s: %w", polID, policy.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get policy: %w", err)
	}
	return policyFromModel(m), nil
}

func (s *Store) UpdatePolicy(ctx context.Context, p *policy.Policy) error {
	p.UpdatedAt = time.Now().UTC()
	m := policyToModel(p)
	_, err := s.pgdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: update policy: %w", err)
	}
	return nil
}

func (s *Store) DeletePolicy(ctx context.Context, polID id.PolicyID) error {
	_, err := s.pgdb.NewDelete((*policyModel)(nil)).
		Where("id = ?", polID.String()).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: delete policy: %w", err)
	}
	return nil
}

func (s *Store) ListPolicies(ctx context.Context, filter *policy.ListFilter) ([]*policy.Policy, error) {
	var models []policyModel
	q := s.pgdb.NewSelect(&models).OrderExpr("priority DESC, created_at DESC")
	if filter != nil {
		if filter.OrganizationID != nil {
			q = q.Where("organization_id = ?", filter.OrganizationID.String())
		}
		if filter.PermissionID != nil {
			q = q.Where("permission_id = ?", filter.PermissionID.String())
		}
		if filter.Effect != "" {
			q = q.Where("effect = ?", string(filter.Effect))
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list policies: %w", err)
	}
	result := make([]*policy.Policy, len(models))
	for i := range models {
		result[i] = policyFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountPolicies(ctx context.Context, filter *policy.ListFilter) (int64, error) {
	q := s.pgdb.NewSelect((*policyModel)(nil))
	if filter != nil {
		if filter.OrganizationID != nil {
			q = q.Where("organization_id = ?", filter.OrganizationID.String())
		}
		if filter.PermissionID != nil {
			q = q.Where("permission_id = ?", filter.PermissionID.String())
		}
		if filter.Effect != "" {
			q = q.Where("effect = ?", string(filter.Effect))
		}
		if filter.IsActive != nil {
			q = q.Where("is_active = ?", *filter.IsActive)
		}
		if filter.Search != "" {
			q = q.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count policies: %w", err)
	}
	return count, nil
}

func (s *Store) ListActivePolicies(ctx context.Context, permID id.PermissionID, orgID id.OrganizationID) ([]*policy.Policy, error) {
	var models []policyModel
	err := s.pgdb.NewSelect(&models).
		Where("organization_id = ?", orgID.String()).
		Where("permission_id = ?", permID.String()).
		Where("is_active = ?", true).
		OrderExpr("priority DESC, created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("aegis: list active policies: %w", err)
	}
	result := make([]*policy.Policy, len(models))
	for i := range models {
		result[i] = policyFromModel(&models[i])
	}
	return result, nil
}

// ──────────────────────────────────────────────────
// Audit event operations
// ──────────────────────────────────────────────────

func (s *Store) CreateEvent(ctx context.Context, e *auditlog.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	m := auditEventToModel(e)
	_, err := s.pgdb.NewInsert(m).Exec(ctx)
	if err != nil {
		return fmt.Errorf("aegis: create audit event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, eventID id.AuditEventID) (*auditlog.Event, error) {
	m := new(auditEventModel)
	err := s.pgdb.NewSelect(m).Where("id = ?", eventID.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("audit event %s: %w", eventID, auditlog.ErrNotFound)
		}
		return nil, fmt.Errorf("aegis: get audit event: %w", err)
	}
	return auditEventFromModel(m), nil
}

func (s *Store) ListEvents(ctx context.Context, filter *auditlog.QueryFilter) ([]*auditlog.Event, error) {
	var models []auditEventModel
	q := s.pgdb.NewSelect(&models).OrderExpr("created_at DESC")
	if filter != nil {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.OrganizationID != nil {
			q = q.Where("organization_id = ?", filter.OrganizationID.String())
		}
		if filter.Action != "" {
			q = q.Where("action LIKE ?", "%"+filter.Action+"%")
		}
		if filter.ResourceType != "" {
			q = q.Where("resource_type = ?", filter.ResourceType)
		}
		if filter.Result != "" {
			q = q.Where("result = ?", string(filter.Result))
		}
		if filter.Since != nil {
			q = q.Where("created_at >= ?", *filter.Since)
		}
		if filter.Until != nil {
			q = q.Where("created_at <= ?", *filter.Until)
		}
		if filter.Limit > 0 {
			q = q.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			q = q.Offset(filter.Offset)
		}
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("aegis: list audit events: %w", err)
	}
	result := make([]*auditlog.Event, len(models))
	for i := range models {
		result[i] = auditEventFromModel(&models[i])
	}
	return result, nil
}

func (s *Store) CountEvents(ctx context.Context, filter *auditlog.QueryFilter) (int64, error) {
	q := s.pgdb.NewSelect((*auditEventModel)(nil))
	if filter != nil {
		if filter.UserID != nil {
			q = q.Where("user_id = ?", filter.UserID.String())
		}
		if filter.OrganizationID != nil {
			q = q.Where("organization_id = ?", filter.OrganizationID.String())
		}
		if filter.Action != "" {
			q = q.Where("action LIKE ?", "%"+filter.Action+"%")
		}
		if filter.ResourceType != "" {
			q = q.Where("resource_type = ?", filter.ResourceType)
		}
		if filter.Result != "" {
			q = q.Where("result = ?", string(filter.Result))
		}
		if filter.Since != nil {
			q = q.Where("created_at >= ?", *filter.Since)
		}
		if filter.Until != nil {
			q = q.Where("created_at <= ?", *filter.Until)
		}
	}
	count, err := q.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: count audit events: %w", err)
	}
	return count, nil
}

func (s *Store) PurgeEvents(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.pgdb.NewDelete((*auditEventModel)(nil)).
		Where("created_at < ?", before).Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("aegis: purge audit events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("aegis: purge audit events rows: %w", err)
	}
	return n, nil
}
