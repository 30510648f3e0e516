package api

// CheckResponse is the response for an authorization check.
type CheckResponse struct {
	Allowed            bool               `json:"allowed" description:"Whether the request is allowed"`
	Decision           string             `json:"decision" description:"Decision code (allow, deny_no_perms, deny_policy)"`
	Reason             string             `json:"reason,omitempty" description:"Human-readable reason"`
	MissingPermissions []string           `json:"missing_permissions,omitempty" description:"Permissions the principal lacks"`
	DeniedPermission   string             `json:"denied_permission,omitempty" description:"Permission a policy denied"`
	MatchedPolicy      *MatchedPolicyInfo `json:"matched_policy,omitempty" description:"Policy that decided the check"`
	EvalTimeNs         int64              `json:"eval_time_ns" description:"Evaluation time in nanoseconds"`
}

// MatchedPolicyInfo identifies the policy that decided a check.
type MatchedPolicyInfo struct {
	ID     string `json:"id" description:"Policy ID"`
	Name   string `json:"name" description:"Policy name"`
	Effect string `json:"effect" description:"Policy effect"`
}

// ListResponse wraps a list of items with pagination metadata.
type ListResponse[T any] struct {
	Items  []T   `json:"items" description:"List of items"`
	Total  int64 `json:"total" description:"Total count"`
	Limit  int   `json:"limit" description:"Page size"`
	Offset int   `json:"offset" description:"Page offset"`
}
