package plugin

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/xraph/aegis/assignment"
	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/policy"
	"github.com/xraph/aegis/role"
)

// testPlugin implements Plugin plus a handful of hooks.
type testPlugin struct {
	roleCreatedCalled    bool
	afterCheckCalled     bool
	permissionsSetCalled bool
	roleAssignedCalled   bool
	policyUpdatedCalled  bool
	shutdownCalled       bool
}

func (t *testPlugin) Name() string { return "test-plugin" }

func (t *testPlugin) OnRoleCreated(_ context.Context, _ *role.Role) error {
	t.roleCreatedCalled = true
	return nil
}

func (t *testPlugin) OnAfterCheck(_ context.Context, _, _ any) error {
	t.afterCheckCalled = true
	return nil
}

func (t *testPlugin) OnRolePermissionsSet(_ context.Context, _ id.RoleID, _ []id.PermissionID) error {
	t.permissionsSetCalled = true
	return nil
}

func (t *testPlugin) OnRoleAssigned(_ context.Context, _ *assignment.Assignment) error {
	t.roleAssignedCalled = true
	return nil
}

func (t *testPlugin) OnPolicyUpdated(_ context.Context, _ *policy.Policy) error {
	t.policyUpdatedCalled = true
	return nil
}

func (t *testPlugin) OnShutdown(_ context.Context) error {
	t.shutdownCalled = true
	return nil
}

// minimalPlugin only implements Plugin (no hooks).
type minimalPlugin struct{}

func (m *minimalPlugin) Name() string { return "minimal" }

// failingPlugin returns an error from every hook it implements.
type failingPlugin struct{}

func (f *failingPlugin) Name() string { return "failing" }

func (f *failingPlugin) OnRoleCreated(_ context.Context, _ *role.Role) error {
	return errors.New("hook failed")
}

func TestRegistryDispatch(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	tp := &testPlugin{}
	reg.Register(tp)
	reg.Register(&minimalPlugin{})

	if len(reg.Plugins()) != 2 {
		t.Fatalf("expected 2 plugins, got %d", len(reg.Plugins()))
	}

	// Should dispatch RoleCreated to testPlugin only.
	reg.EmitRoleCreated(ctx, &role.Role{ID: id.NewRoleID(), Name: "admin"})
	if !tp.roleCreatedCalled {
		t.Fatal("OnRoleCreated was not called")
	}

	// Should dispatch AfterCheck.
	reg.EmitAfterCheck(ctx, nil, nil)
	if !tp.afterCheckCalled {
		t.Fatal("OnAfterCheck was not called")
	}

	// Replace-all membership changes dispatch the full new set.
	reg.EmitRolePermissionsSet(ctx, id.NewRoleID(), []id.PermissionID{id.NewPermissionID()})
	if !tp.permissionsSetCalled {
		t.Fatal("OnRolePermissionsSet was not called")
	}

	reg.EmitRoleAssigned(ctx, &assignment.Assignment{ID: id.NewAssignmentID()})
	if !tp.roleAssignedCalled {
		t.Fatal("OnRoleAssigned was not called")
	}

	reg.EmitPolicyUpdated(ctx, &policy.Policy{ID: id.NewPolicyID(), Name: "limit"})
	if !tp.policyUpdatedCalled {
		t.Fatal("OnPolicyUpdated was not called")
	}

	reg.EmitShutdown(ctx)
	if !tp.shutdownCalled {
		t.Fatal("OnShutdown was not called")
	}

	// Should not panic on hooks with no listeners.
	reg.EmitBeforeCheck(ctx, nil)
	reg.EmitRoleDeleted(ctx, id.NewRoleID())
	reg.EmitPermissionDeleted(ctx, id.NewPermissionID())
}

func TestRegistryHookErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()
	reg := NewRegistry(slog.Default())

	reg.Register(&failingPlugin{})
	tp := &testPlugin{}
	reg.Register(tp)

	// Errors from one plugin never block later plugins.
	reg.EmitRoleCreated(ctx, &role.Role{ID: id.NewRoleID(), Name: "viewer"})
	if !tp.roleCreatedCalled {
		t.Fatal("OnRoleCreated on the second plugin was not called after a failing hook")
	}
}
