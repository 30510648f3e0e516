package aegis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/xraph/aegis"
	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/cache"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/organization"
	"github.com/xraph/aegis/permission"
	"github.com/xraph/aegis/role"
	"github.com/xraph/aegis/store/memory"
)

// brokenCache fails every operation. The resolver must treat it as a
// permanent miss and keep answering from the store.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool) { return nil, false }
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("cache down")
}
func (brokenCache) Delete(context.Context, ...string) error { return errors.New("cache down") }

type resolverFixture struct {
	store  *memory.Store
	orgID  id.OrganizationID
	userID id.UserID
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	s := memory.New()
	org := &organization.Organization{ID: id.NewOrganizationID(), Name: "Acme", Slug: "acme", IsActive: true}
	if err := s.CreateOrganization(context.Background(), org); err != nil {
		t.Fatal(err)
	}
	return &resolverFixture{store: s, orgID: org.ID, userID: id.NewUserID()}
}

// grant creates a role holding the given permission keys and assigns it to
// the fixture user within the fixture org.
func (f *resolverFixture) grant(t *testing.T, roleName string, keys ...string) id.RoleID {
	t.Helper()
	ctx := context.Background()

	r := &role.Role{ID: id.NewRoleID(), Name: roleName, OrganizationID: &f.orgID}
	if err := f.store.CreateRole(ctx, r); err != nil {
		t.Fatal(err)
	}

	permIDs := make([]id.PermissionID, 0, len(keys))
	for _, key := range keys {
		resource, action := permission.SplitKey(key)
		p, err := f.store.GetPermissionByKey(ctx, resource, action)
		if errors.Is(err, permission.ErrNotFound) {
			p = &permission.Permission{ID: id.NewPermissionID(), Resource: resource, Action: action}
			if err := f.store.CreatePermission(ctx, p); err != nil {
				t.Fatal(err)
			}
		} else if err != nil {
			t.Fatal(err)
		}
		permIDs = append(permIDs, p.ID)
	}
	if err := f.store.SetRolePermissions(ctx, r.ID, permIDs); err != nil {
		t.Fatal(err)
	}

	if err := f.store.CreateAssignment(ctx, &assignment.Assignment{
		ID:             id.NewAssignmentID(),
		UserID:         f.userID,
		RoleID:         r.ID,
		OrganizationID: f.orgID,
	}); err != nil {
		t.Fatal(err)
	}
	return r.ID
}

func TestPermissionSetJSONRoundTrip(t *testing.T) {
	set := NewPermissionSet("invoice:read", "invoice:approve")
	blob, err := set.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	// Sorted array keeps cache blobs byte-stable.
	if string(blob) != `["invoice:approve","invoice:read"]` {
		t.Fatalf("unexpected encoding: %s", blob)
	}

	var decoded PermissionSet
	if err := decoded.UnmarshalJSON(blob); err != nil {
		t.Fatal(err)
	}
	if !decoded.Has("invoice:read") || !decoded.Has("invoice:approve") || decoded.Has("invoice:delete") {
		t.Fatalf("unexpected decoded set: %v", decoded.Keys())
	}
}

func TestResolveUnionAcrossRoles(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)
	f.grant(t, "reader", "invoice:read")
	f.grant(t, "approver", "invoice:approve", "invoice:read")

	r := NewResolver(f.store, nil, time.Minute, nil)
	set, err := r.PermissionsFor(ctx, f.userID, &f.orgID)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"invoice:approve", "invoice:read"}
	got := set.Keys()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestResolveCacheKeyShape(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)
	f.grant(t, "reader", "invoice:read")

	c := cache.NewMemory()
	r := NewResolver(f.store, c, time.Minute, nil)

	if _, err := r.PermissionsFor(ctx, f.userID, &f.orgID); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, "perm:"+f.userID.String()+":"+f.orgID.String()); !ok {
		t.Fatal("expected org-scoped cache entry")
	}

	if _, err := r.PermissionsFor(ctx, f.userID, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(ctx, "perm:"+f.userID.String()+":all"); !ok {
		t.Fatal("expected org-agnostic cache entry")
	}
}

func TestResolveServesCachedSetWithinTTL(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)
	roleID := f.grant(t, "reader", "invoice:read")

	r := NewResolver(f.store, cache.NewMemory(), time.Minute, nil)
	if _, err := r.PermissionsFor(ctx, f.userID, &f.orgID); err != nil {
		t.Fatal(err)
	}

	// A store-level change without invalidation stays invisible until the
	// TTL expires.
	if err := f.store.SetRolePermissions(ctx, roleID, nil); err != nil {
		t.Fatal(err)
	}
	set, err := r.PermissionsFor(ctx, f.userID, &f.orgID)
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has("invoice:read") {
		t.Fatal("expected the cached set to survive an uninvalidated change")
	}

	// Invalidation exposes the change immediately.
	r.InvalidateUser(ctx, f.userID, f.orgID)
	set, err = r.PermissionsFor(ctx, f.userID, &f.orgID)
	if err != nil {
		t.Fatal(err)
	}
	if set.Has("invoice:read") {
		t.Fatal("expected the set to be empty after invalidation")
	}
}

func TestResolveSurvivesBrokenCache(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)
	f.grant(t, "reader", "invoice:read")

	r := NewResolver(f.store, brokenCache{}, time.Minute, nil)
	set, err := r.PermissionsFor(ctx, f.userID, &f.orgID)
	if err != nil {
		t.Fatal(err)
	}
	if !set.Has("invoice:read") {
		t.Fatal("expected the store to stay authoritative when the cache is down")
	}

	// Invalidation against a broken cache logs and returns.
	r.InvalidateUser(ctx, f.userID, f.orgID)
	r.InvalidateRole(ctx, id.NewRoleID())
}

func TestResolveSkipsDanglingPermission(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)
	f.grant(t, "reader", "invoice:read", "invoice:approve")

	p, err := f.store.GetPermissionByKey(ctx, "invoice", "approve")
	if err != nil {
		t.Fatal(err)
	}
	if err := f.store.DeletePermission(ctx, p.ID); err != nil {
		t.Fatal(err)
	}

	r := NewResolver(f.store, nil, time.Minute, nil)
	set, err := r.PermissionsFor(ctx, f.userID, &f.orgID)
	if err != nil {
		t.Fatal(err)
	}
	if set.Has("invoice:approve") {
		t.Fatal("expected dangling permission to be skipped")
	}
	if !set.Has("invoice:read") {
		t.Fatal("expected surviving permission to be resolved")
	}
}

func TestInvalidateRoleDropsAllHolders(t *testing.T) {
	ctx := context.Background()
	f := newResolverFixture(t)
	roleID := f.grant(t, "reader", "invoice:read")

	// A second holder of the same role.
	otherUser := id.NewUserID()
	if err := f.store.CreateAssignment(ctx, &assignment.Assignment{
		ID:             id.NewAssignmentID(),
		UserID:         otherUser,
		RoleID:         roleID,
		OrganizationID: f.orgID,
	}); err != nil {
		t.Fatal(err)
	}

	c := cache.NewMemory()
	r := NewResolver(f.store, c, time.Minute, nil)
	if _, err := r.PermissionsFor(ctx, f.userID, &f.orgID); err != nil {
		t.Fatal(err)
	}
	if _, err := r.PermissionsFor(ctx, otherUser, &f.orgID); err != nil {
		t.Fatal(err)
	}

	r.InvalidateRole(ctx, roleID)

	if _, ok := c.Get(ctx, "perm:"+f.userID.String()+":"+f.orgID.String()); ok {
		t.Fatal("expected first holder's entry to be dropped")
	}
	if _, ok := c.Get(ctx, "perm:"+otherUser.String()+":"+f.orgID.String()); ok {
		t.Fatal("expected second holder's entry to be dropped")
	}
}
