package memory

import (
	"context"
	"errors"
	"testing"
	"time"

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

// Compile-time check that *Store implements store.Store.
var _ store.Store = (*Store)(nil)

func TestOrganizationCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	org := &organization.Organization{
		ID:       id.NewOrganizationID(),
		Name:     "Acme",
		Slug:     "acme",
		IsActive: true,
	}

	if err := s.CreateOrganization(ctx, org); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetOrganization(ctx, org.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Acme" {
		t.Fatalf("expected Acme, got %s", got.Name)
	}

	got, err = s.GetOrganizationBySlug(ctx, "acme")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID.String() != org.ID.String() {
		t.Fatal("slug lookup mismatch")
	}

	// Duplicate slug
	dup := &organization.Organization{ID: id.NewOrganizationID(), Name: "Other", Slug: "acme"}
	if err := s.CreateOrganization(ctx, dup); !errors.Is(err, organization.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	org.Name = "Acme Corp"
	if err := s.UpdateOrganization(ctx, org); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetOrganization(ctx, org.ID)
	if got.Name != "Acme Corp" {
		t.Fatal("update failed")
	}

	count, _ := s.CountOrganizations(ctx, nil)
	if count != 1 {
		t.Fatalf("expected count 1, got %d", count)
	}

	if err := s.DeleteOrganization(ctx, org.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetOrganization(ctx, org.ID); !errors.Is(err, organization.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	u := &user.User{
		ID:         id.NewUserID(),
		Email:      "alice@acme.test",
		Name:       "Alice",
		Department: "finance",
		IsActive:   true,
	}

	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetUserByEmail(ctx, "ALICE@acme.test")
	if err != nil {
		t.Fatal(err)
	}
	if got.Department != "finance" {
		t.Fatal("mismatch")
	}

	dup := &user.User{ID: id.NewUserID(), Email: "alice@acme.test"}
	if err := s.CreateUser(ctx, dup); !errors.Is(err, user.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	list, _ := s.ListUsers(ctx, &user.ListFilter{Department: "finance"})
	if len(list) != 1 {
		t.Fatalf("expected 1 user, got %d", len(list))
	}

	if err := s.DeleteUser(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetUser(ctx, u.ID); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoleCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrganizationID()
	r := &role.Role{
		ID:             id.NewRoleID(),
		Name:           "admin",
		OrganizationID: &orgID,
	}

	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetRole(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "admin" {
		t.Fatalf("expected admin, got %s", got.Name)
	}

	got, err = s.GetRoleByName(ctx, "admin", &orgID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID.String() != r.ID.String() {
		t.Fatal("name lookup mismatch")
	}

	// Same name in a different org is fine; same (name, org) is not.
	otherOrg := id.NewOrganizationID()
	if err := s.CreateRole(ctx, &role.Role{ID: id.NewRoleID(), Name: "admin", OrganizationID: &otherOrg}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRole(ctx, &role.Role{ID: id.NewRoleID(), Name: "admin", OrganizationID: &orgID}); !errors.Is(err, role.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	r.Name = "super-admin"
	if err := s.UpdateRole(ctx, r); err != nil {
		t.Fatal(err)
	}
	got, _ = s.GetRole(ctx, r.ID)
	if got.Name != "super-admin" {
		t.Fatal("update failed")
	}

	list, _ := s.ListRoles(ctx, &role.ListFilter{OrganizationID: &orgID})
	if len(list) != 1 {
		t.Fatalf("expected 1 role, got %d", len(list))
	}

	if err := s.DeleteRole(ctx, r.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetRole(ctx, r.ID); !errors.Is(err, role.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSystemRoleLookup(t *testing.T) {
	ctx := context.Background()
	s := New()

	r := &role.Role{ID: id.NewRoleID(), Name: "superuser", IsSystemRole: true}
	if err := s.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}

	// Nil org targets system roles.
	got, err := s.GetRoleByName(ctx, "superuser", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsSystemRole {
		t.Fatal("expected system role")
	}

	list, _ := s.ListRoles(ctx, &role.ListFilter{SystemOnly: true})
	if len(list) != 1 {
		t.Fatalf("expected 1 system role, got %d", len(list))
	}
}

func TestListRolesIncludesSystemRoles(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrganizationID()
	otherOrgID := id.NewOrganizationID()

	if err := s.CreateRole(ctx, &role.Role{ID: id.NewRoleID(), Name: "org-admin", OrganizationID: &orgID}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRole(ctx, &role.Role{ID: id.NewRoleID(), Name: "superuser", IsSystemRole: true}); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateRole(ctx, &role.Role{ID: id.NewRoleID(), Name: "other-admin", OrganizationID: &otherOrgID}); err != nil {
		t.Fatal(err)
	}

	// An organization's listing carries its own roles plus system roles,
	// never another organization's roles.
	list, err := s.ListRoles(ctx, &role.ListFilter{OrganizationID: &orgID})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		names := make([]string, 0, len(list))
		for _, r := range list {
			names = append(names, r.Name)
		}
		t.Fatalf("expected org role + system role, got %v", names)
	}
	if list[0].Name != "org-admin" || list[1].Name != "superuser" {
		t.Fatalf("unexpected roles: %q, %q", list[0].Name, list[1].Name)
	}

	count, err := s.CountRoles(ctx, &role.ListFilter{OrganizationID: &orgID})
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
}

func TestPermissionCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	p := &permission.Permission{
		ID:       id.NewPermissionID(),
		Resource: "invoice",
		Action:   "approve",
	}

	if err := s.CreatePermission(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPermissionByKey(ctx, "invoice", "approve")
	if err != nil {
		t.Fatal(err)
	}
	if got.Key() != "invoice:approve" {
		t.Fatalf("unexpected key %q", got.Key())
	}

	dup := &permission.Permission{ID: id.NewPermissionID(), Resource: "invoice", Action: "approve"}
	if err := s.CreatePermission(ctx, dup); !errors.Is(err, permission.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	if err := s.DeletePermission(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetPermission(ctx, p.ID); !errors.Is(err, permission.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListPermissionsOrdering(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.CreatePermission(ctx, &permission.Permission{ID: id.NewPermissionID(), Resource: "user", Action: "read"})
	_ = s.CreatePermission(ctx, &permission.Permission{ID: id.NewPermissionID(), Resource: "invoice", Action: "write"})
	_ = s.CreatePermission(ctx, &permission.Permission{ID: id.NewPermissionID(), Resource: "invoice", Action: "approve"})

	list, err := s.ListPermissions(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"invoice:approve", "invoice:write", "user:read"}
	if len(list) != len(want) {
		t.Fatalf("expected %d permissions, got %d", len(want), len(list))
	}
	for i, p := range list {
		if p.Key() != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], p.Key())
		}
	}
}

func TestSetRolePermissionsReplaceAll(t *testing.T) {
	ctx := context.Background()
	s := New()

	roleID := id.NewRoleID()
	perm1 := id.NewPermissionID()
	perm2 := id.NewPermissionID()
	perm3 := id.NewPermissionID()

	_ = s.CreateRole(ctx, &role.Role{ID: roleID, Name: "editor", IsSystemRole: true})

	if err := s.SetRolePermissions(ctx, roleID, []id.PermissionID{perm1, perm2}); err != nil {
		t.Fatal(err)
	}
	perms, _ := s.ListRolePermissions(ctx, roleID)
	if len(perms) != 2 {
		t.Fatalf("expected 2 permissions, got %d", len(perms))
	}

	// Replace, not merge.
	if err := s.SetRolePermissions(ctx, roleID, []id.PermissionID{perm3}); err != nil {
		t.Fatal(err)
	}
	perms, _ = s.ListRolePermissions(ctx, roleID)
	if len(perms) != 1 {
		t.Fatalf("expected 1 permission after replace, got %d", len(perms))
	}
	if perms[0].String() != perm3.String() {
		t.Fatal("replace kept stale membership")
	}

	// Unknown role fails.
	if err := s.SetRolePermissions(ctx, id.NewRoleID(), nil); !errors.Is(err, role.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID := id.NewUserID()
	roleID := id.NewRoleID()
	orgID := id.NewOrganizationID()

	a := &assignment.Assignment{
		ID:             id.NewAssignmentID(),
		UserID:         userID,
		RoleID:         roleID,
		OrganizationID: orgID,
	}

	if err := s.CreateAssignment(ctx, a); err != nil {
		t.Fatal(err)
	}

	// Unique triple.
	dup := &assignment.Assignment{ID: id.NewAssignmentID(), UserID: userID, RoleID: roleID, OrganizationID: orgID}
	if err := s.CreateAssignment(ctx, dup); !errors.Is(err, assignment.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := s.GetAssignmentByTriple(ctx, userID, roleID, orgID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID.String() != a.ID.String() {
		t.Fatal("triple lookup mismatch")
	}

	forUser, _ := s.ListAssignmentsForUser(ctx, userID, &orgID)
	if len(forUser) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(forUser))
	}
	forUser, _ = s.ListAssignmentsForUser(ctx, userID, nil)
	if len(forUser) != 1 {
		t.Fatalf("expected 1 assignment across orgs, got %d", len(forUser))
	}

	forRole, _ := s.ListAssignmentsForRole(ctx, roleID)
	if len(forRole) != 1 {
		t.Fatalf("expected 1 holder, got %d", len(forRole))
	}

	if err := s.DeleteAssignment(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetAssignmentByTriple(ctx, userID, roleID, orgID); !errors.Is(err, assignment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAssignmentsBy(t *testing.T) {
	ctx := context.Background()
	s := New()

	u1, u2 := id.NewUserID(), id.NewUserID()
	r1, r2 := id.NewRoleID(), id.NewRoleID()
	org := id.NewOrganizationID()

	_ = s.CreateAssignment(ctx, &assignment.Assignment{ID: id.NewAssignmentID(), UserID: u1, RoleID: r1, OrganizationID: org})
	_ = s.CreateAssignment(ctx, &assignment.Assignment{ID: id.NewAssignmentID(), UserID: u1, RoleID: r2, OrganizationID: org})
	_ = s.CreateAssignment(ctx, &assignment.Assignment{ID: id.NewAssignmentID(), UserID: u2, RoleID: r1, OrganizationID: org})

	_ = s.DeleteAssignmentsByUser(ctx, u1)
	left, _ := s.ListAssignments(ctx, nil)
	if len(left) != 1 {
		t.Fatalf("expected 1 assignment after user delete, got %d", len(left))
	}

	_ = s.DeleteAssignmentsByRole(ctx, r1)
	left, _ = s.ListAssignments(ctx, nil)
	if len(left) != 0 {
		t.Fatalf("expected 0 assignments after role delete, got %d", len(left))
	}
}

func TestPolicyCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrganizationID()
	permID := id.NewPermissionID()
	limit := 10000.0

	p := &policy.Policy{
		ID:             id.NewPolicyID(),
		OrganizationID: orgID,
		PermissionID:   permID,
		Name:           "large-amount-deny",
		Conditions:     policy.Conditions{AmountLimit: &limit},
		Effect:         policy.EffectDeny,
		Priority:       100,
		IsActive:       true,
	}

	if err := s.CreatePolicy(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetPolicy(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Conditions.AmountLimit == nil || *got.Conditions.AmountLimit != 10000 {
		t.Fatal("conditions not preserved")
	}

	got.Priority = 50
	if err := s.UpdatePolicy(ctx, got); err != nil {
		t.Fatal(err)
	}

	_ = s.DeletePolicy(ctx, p.ID)
	if _, err := s.GetPolicy(ctx, p.ID); !errors.Is(err, policy.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListActivePoliciesOrdering(t *testing.T) {
	ctx := context.Background()
	s := New()

	orgID := id.NewOrganizationID()
	permID := id.NewPermissionID()
	base := time.Now()

	mk := func(name string, priority int, createdAt time.Time, active bool) {
		_ = s.CreatePolicy(ctx, &policy.Policy{
			ID:             id.NewPolicyID(),
			OrganizationID: orgID,
			PermissionID:   permID,
			Name:           name,
			Effect:         policy.EffectDeny,
			Priority:       priority,
			IsActive:       active,
			CreatedAt:      createdAt,
		})
	}

	mk("low", 1, base, true)
	mk("high", 100, base, true)
	mk("mid-old", 50, base.Add(-time.Hour), true)
	mk("mid-new", 50, base, true)
	mk("inactive", 200, base, false)

	// Different permission must not leak in.
	_ = s.CreatePolicy(ctx, &policy.Policy{
		ID:             id.NewPolicyID(),
		OrganizationID: orgID,
		PermissionID:   id.NewPermissionID(),
		Name:           "other-perm",
		Effect:         policy.EffectDeny,
		Priority:       300,
		IsActive:       true,
		CreatedAt:      base,
	})

	got, err := s.ListActivePolicies(ctx, permID, orgID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"high", "mid-new", "mid-old", "low"}
	if len(got) != len(want) {
		t.Fatalf("expected %d policies, got %d", len(want), len(got))
	}
	for i, p := range got {
		if p.Name != want[i] {
			t.Fatalf("position %d: expected %s, got %s", i, want[i], p.Name)
		}
	}
}

func TestAuditEventCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID := id.NewUserID()
	orgID := id.NewOrganizationID()

	e := &auditlog.Event{
		ID:             id.NewAuditEventID(),
		UserID:         userID,
		OrganizationID: &orgID,
		Action:         "access:denied",
		Result:         auditlog.ResultFailure,
		Reason:         "missing permissions: invoice:approve",
		CreatedAt:      time.Now(),
	}

	if err := s.CreateEvent(ctx, e); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Result != auditlog.ResultFailure {
		t.Fatal("mismatch")
	}

	// Action filter is a substring match.
	list, _ := s.ListEvents(ctx, &auditlog.QueryFilter{UserID: &userID, Action: "denied"})
	if len(list) != 1 {
		t.Fatalf("expected 1 event, got %d", len(list))
	}

	purged, _ := s.PurgeEvents(ctx, time.Now().Add(time.Hour))
	if purged != 1 {
		t.Fatalf("expected 1 purged, got %d", purged)
	}
}

func TestListEventsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	userID := id.NewUserID()
	base := time.Now()
	for i, action := range []string{"first", "second", "third"} {
		_ = s.CreateEvent(ctx, &auditlog.Event{
			ID:        id.NewAuditEventID(),
			UserID:    userID,
			Action:    action,
			Result:    auditlog.ResultFailure,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	list, _ := s.ListEvents(ctx, nil)
	if len(list) != 3 {
		t.Fatalf("expected 3 events, got %d", len(list))
	}
	if list[0].Action != "third" || list[2].Action != "first" {
		t.Fatal("expected newest-first ordering")
	}
}

func TestMigratePingClose(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
