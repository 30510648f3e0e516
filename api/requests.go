package api

// ──────────────────────────────────────────────────
// Check requests
// ──────────────────────────────────────────────────

// CheckRequest is the request body for an authorization check.
type CheckRequest struct {
	PrincipalID    string              `json:"principal_id" description:"User ID of the acting principal"`
	PrincipalEmail string              `json:"principal_email,omitempty" description:"Principal email, recorded on audit events"`
	Department     string              `json:"department,omitempty" description:"Principal department, feeds department conditions"`
	OrganizationID string              `json:"organization_id,omitempty" description:"Organization scope; empty skips policy evaluation"`
	Permissions    []string            `json:"permissions" description:"Required permission keys (resource:action)"`
	Context        *PolicyContextInput `json:"context,omitempty" description:"Request attributes for policy conditions"`
}

// PolicyContextInput carries the request attributes policies evaluate
// against.
type PolicyContextInput struct {
	ResourceType    string         `json:"resource_type,omitempty" description:"Resource type being accessed"`
	ResourceID      string         `json:"resource_id,omitempty" description:"Resource identifier"`
	ResourceOwnerID string         `json:"resource_owner_id,omitempty" description:"Owner of the resource"`
	Amount          *float64       `json:"amount,omitempty" description:"Monetary amount for limit conditions"`
	Metadata        map[string]any `json:"metadata,omitempty" description:"Additional context attributes"`
}

// ──────────────────────────────────────────────────
// Role requests
// ──────────────────────────────────────────────────

// CreateRoleRequest is the body for creating a role.
type CreateRoleRequest struct {
	Name           string `json:"name" description:"Role name, unique within the organization"`
	Description    string `json:"description,omitempty" description:"Human-readable description"`
	OrganizationID string `json:"organization_id,omitempty" description:"Owning organization; empty creates a system role"`
	IsSystemRole   bool   `json:"is_system_role,omitempty" description:"System role flag"`
}

// UpdateRoleRequest is the body for updating a role.
type UpdateRoleRequest struct {
	Name        string `json:"name,omitempty" description:"Role name"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
}

// GetRoleRequest is the path parameter for getting a role.
type GetRoleRequest struct {
	RoleID string `path:"roleId" description:"Role ID"`
}

// ListRolesRequest holds query parameters for listing roles.
type ListRolesRequest struct {
	OrganizationID string `query:"organization_id" description:"Filter by organization"`
	SystemOnly     bool   `query:"system_only" description:"Only system roles"`
	Search         string `query:"search" description:"Search by name"`
	Limit          int    `query:"limit" description:"Maximum results (default: 50)"`
	Offset         int    `query:"offset" description:"Results to skip"`
}

// SetRolePermissionsRequest is the body for replacing a role's permission
// set.
type SetRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" description:"Full permission set; replaces the current membership"`
}

// ──────────────────────────────────────────────────
// Permission requests
// ──────────────────────────────────────────────────

// CreatePermissionRequest is the body for creating a permission.
type CreatePermissionRequest struct {
	Resource    string `json:"resource" description:"Resource type (e.g. invoice)"`
	Action      string `json:"action" description:"Action name (e.g. approve)"`
	Description string `json:"description,omitempty" description:"Human-readable description"`
}

// GetPermissionRequest is the path parameter for getting a permission.
type GetPermissionRequest struct {
	PermissionID string `path:"permissionId" description:"Permission ID"`
}

// ListPermissionsRequest holds query parameters.
type ListPermissionsRequest struct {
	Resource string `query:"resource" description:"Filter by resource type"`
	Action   string `query:"action" description:"Filter by action"`
	Search   string `query:"search" description:"Search by resource or action"`
	Limit    int    `query:"limit" description:"Maximum results"`
	Offset   int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Assignment requests
// ──────────────────────────────────────────────────

// AssignRoleRequest is the body for assigning a role to a user.
type AssignRoleRequest struct {
	UserID         string `json:"user_id" description:"User receiving the role"`
	RoleID         string `json:"role_id" description:"Role ID to assign"`
	OrganizationID string `json:"organization_id" description:"Organization scope of the grant"`
	AssignedBy     string `json:"assigned_by,omitempty" description:"User performing the grant"`
}

// RevokeRoleRequest is the body for revoking a role from a user.
type RevokeRoleRequest struct {
	UserID         string `json:"user_id" description:"User losing the role"`
	RoleID         string `json:"role_id" description:"Role ID to revoke"`
	OrganizationID string `json:"organization_id" description:"Organization scope of the grant"`
}

// ListAssignmentsRequest holds query parameters.
type ListAssignmentsRequest struct {
	UserID         string `query:"user_id" description:"Filter by user"`
	RoleID         string `query:"role_id" description:"Filter by role"`
	OrganizationID string `query:"organization_id" description:"Filter by organization"`
	Limit          int    `query:"limit" description:"Maximum results"`
	Offset         int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Policy requests
// ──────────────────────────────────────────────────

// CreatePolicyRequest is the body for creating an ABAC policy.
type CreatePolicyRequest struct {
	OrganizationID string          `json:"organization_id" description:"Owning organization"`
	PermissionID   string          `json:"permission_id" description:"Permission the policy attaches to"`
	Name           string          `json:"name" description:"Policy name"`
	Description    string          `json:"description,omitempty" description:"Human-readable description"`
	Conditions     ConditionsInput `json:"conditions,omitempty" description:"Policy conditions"`
	Effect         string          `json:"effect" description:"Policy effect (allow or deny)"`
	Priority       int             `json:"priority,omitempty" description:"Higher priority wins"`
	IsActive       bool            `json:"is_active" description:"Whether the policy is active"`
}

// ConditionsInput is the input format for policy conditions.
type ConditionsInput struct {
	AmountLimit        *float64 `json:"amountLimit,omitempty" description:"Deny amounts above this limit"`
	TimeRestriction    string   `json:"timeRestriction,omitempty" description:"business_hours, after_hours, or weekends_only"`
	ResourceOwnerOnly  bool     `json:"resourceOwnerOnly,omitempty" description:"Restrict to the resource owner"`
	AllowedDepartments []string `json:"allowedDepartments,omitempty" description:"Departments the condition matches"`
}

// UpdatePolicyRequest is the body for updating a policy.
type UpdatePolicyRequest struct {
	Name        string           `json:"name,omitempty" description:"Policy name"`
	Description string           `json:"description,omitempty" description:"Description"`
	Conditions  *ConditionsInput `json:"conditions,omitempty" description:"Policy conditions"`
	Effect      string           `json:"effect,omitempty" description:"Policy effect"`
	Priority    *int             `json:"priority,omitempty" description:"Priority"`
	IsActive    *bool            `json:"is_active,omitempty" description:"Active flag"`
}

// GetPolicyRequest is the path parameter for getting a policy.
type GetPolicyRequest struct {
	PolicyID string `path:"policyId" description:"Policy ID"`
}

// ListPoliciesRequest holds query parameters.
type ListPoliciesRequest struct {
	OrganizationID string `query:"organization_id" description:"Filter by organization"`
	PermissionID   string `query:"permission_id" description:"Filter by permission"`
	Effect         string `query:"effect" description:"Filter by effect (allow/deny)"`
	Active         string `query:"active" description:"Filter by active status (true/false)"`
	Search         string `query:"search" description:"Search by name"`
	Limit          int    `query:"limit" description:"Maximum results"`
	Offset         int    `query:"offset" description:"Results to skip"`
}

// ──────────────────────────────────────────────────
// Audit requests
// ──────────────────────────────────────────────────

// ListAuditEventsRequest holds query parameters for querying audit events.
type ListAuditEventsRequest struct {
	UserID         string `query:"user_id" description:"Filter by user"`
	OrganizationID string `query:"organization_id" description:"Filter by organization"`
	Action         string `query:"action" description:"Filter by action substring"`
	ResourceType   string `query:"resource_type" description:"Filter by resource type"`
	Result         string `query:"result" description:"Filter by result (success/failure)"`
	Since          string `query:"since" description:"Events at or after this time (RFC3339)"`
	Until          string `query:"until" description:"Events at or before this time (RFC3339)"`
	Limit          int    `query:"limit" description:"Maximum results"`
	Offset         int    `query:"offset" description:"Results to skip"`
}
