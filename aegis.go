// Package aegis provides multi-tenant RBAC and ABAC authorization for Go.
//
// Authorization is a two-phase decision: an RBAC gate checks that the
// principal's role-derived permission set (TTL-cached) covers every required
// permission, then organization-scoped ABAC policies get a chance to override
// the grant based on request context. Denials emit audit events
// asynchronously; the decision path never waits on the audit sink.
//
//	eng, err := aegis.NewEngine(
//	    aegis.WithStore(memStore),
//	)
//	result, err := eng.Check(ctx, &aegis.CheckRequest{
//	    Principal:      &aegis.Principal{ID: userID, Email: "dev@acme.test"},
//	    OrganizationID: &orgID,
//	    Permissions:    []string{"invoice:approve"},
//	    Context:        &aegis.PolicyContext{Amount: aegis.Float64(15000)},
//	})
package aegis

import (
	"time"

	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/policy"
)

// Principal is the authenticated actor on whose behalf a check runs.
type Principal struct {
	ID         id.UserID `json:"id"`
	Email      string    `json:"email,omitempty"`
	Department string    `json:"department,omitempty"`
}

// PolicyContext carries the request-scoped attributes policies evaluate
// against. It is constructed per request from the ambient environment
// (headers, path params, body fields) and never persisted.
type PolicyContext struct {
	UserID          string         `json:"user_id,omitempty"`
	OrganizationID  string         `json:"organization_id,omitempty"`
	ResourceType    string         `json:"resource_type,omitempty"`
	ResourceID      string         `json:"resource_id,omitempty"`
	ResourceOwnerID string         `json:"resource_owner_id,omitempty"`
	Amount          *float64       `json:"amount,omitempty"`
	Timestamp       time.Time      `json:"timestamp,omitempty"`
	UserDepartment  string         `json:"user_department,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// CheckRequest is the input to an authorization check.
type CheckRequest struct {
	Principal *Principal `json:"principal"`

	// OrganizationID scopes the check to one tenant. Nil resolves the
	// principal's permissions across all organizations and skips policy
	// evaluation (policies are always organization-scoped).
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty"`

	// Permissions are the required permission keys ("resource:action").
	// An empty list allows unconditionally.
	Permissions []string `json:"permissions"`

	Context *PolicyContext `json:"context,omitempty"`
}

// CheckResult is the outcome of an authorization check.
type CheckResult struct {
	Allowed            bool           `json:"allowed"`
	Decision           Decision       `json:"decision"`
	Reason             string         `json:"reason,omitempty"`
	MissingPermissions []string       `json:"missing_permissions,omitempty"`
	DeniedPermission   string         `json:"denied_permission,omitempty"`
	MatchedPolicy      *MatchedPolicy `json:"matched_policy,omitempty"`
	EvalTimeNs         int64          `json:"eval_time_ns"`
}

// Decision is the authorization outcome.
type Decision string

const (
	// DecisionAllow means the request is permitted.
	DecisionAllow Decision = "allow"

	// DecisionDenyNoPerms means the RBAC gate failed: at least one required
	// permission is missing from the principal's resolved set.
	DecisionDenyNoPerms Decision = "deny_no_perms"

	// DecisionDenyPolicy means an ABAC policy with deny effect matched.
	DecisionDenyPolicy Decision = "deny_policy"
)

// MatchedPolicy identifies the policy that decided a check.
type MatchedPolicy struct {
	ID     id.PolicyID   `json:"id"`
	Name   string        `json:"name"`
	Effect policy.Effect `json:"effect"`
}

// Float64 returns a pointer to v. Convenience for PolicyContext.Amount.
func Float64(v float64) *float64 { return &v }
