package aegis

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/xraph/aegis/policy"
)

// PolicyDecision is the outcome of evaluating policies for one permission.
type PolicyDecision struct {
	Allowed       bool           `json:"allowed"`
	Reason        string         `json:"reason,omitempty"`
	MatchedPolicy *MatchedPolicy `json:"matched_policy,omitempty"`
}

// Evaluator evaluates ABAC policies against a policy context. Policies
// arrive pre-ordered by (priority desc, createdAt desc); the first policy
// whose conditions match decides the outcome.
type Evaluator interface {
	Evaluate(ctx context.Context, policies []*policy.Policy, pctx *PolicyContext) (*PolicyDecision, error)
}

// DefaultEvaluator returns the built-in condition evaluator.
func DefaultEvaluator() Evaluator { return &conditionEvaluator{} }

type conditionEvaluator struct{}

func (e *conditionEvaluator) Evaluate(_ context.Context, policies []*policy.Policy, pctx *PolicyContext) (*PolicyDecision, error) {
	if pctx == nil {
		pctx = &PolicyContext{}
	}

	for _, pol := range policies {
		if !pol.IsActive {
			continue
		}
		matched, reason := matchConditions(pol.Conditions, pctx)
		if !matched {
			continue
		}

		mp := &MatchedPolicy{ID: pol.ID, Name: pol.Name, Effect: pol.Effect}
		if pol.Effect == policy.EffectDeny {
			return &PolicyDecision{
				Allowed:       false,
				Reason:        fmt.Sprintf("denied by policy %q: %s", pol.Name, reason),
				MatchedPolicy: mp,
			}, nil
		}
		return &PolicyDecision{
			Allowed:       true,
			Reason:        fmt.Sprintf("allowed by policy %q: %s", pol.Name, reason),
			MatchedPolicy: mp,
		}, nil
	}

	// Fail-open: policies are exception carve-outs over an RBAC-granted
	// baseline, not an independent allow-list.
	return &PolicyDecision{Allowed: true, Reason: "no policy conditions matched"}, nil
}

// matchConditions checks a policy's clauses against the context in a fixed
// order: empty, amountLimit, timeRestriction, resourceOwnerOnly,
// allowedDepartments. The first clause that triggers decides; clause-specific
// behavior when context data is missing is deliberately asymmetric (amount
// and owner absent terminate as non-match, department absent triggers) and
// load-bearing for existing policy configurations.
func matchConditions(c policy.Conditions, pctx *PolicyContext) (bool, string) {
	if c.IsEmpty() {
		return true, "no conditions specified"
	}

	if c.AmountLimit != nil {
		if pctx.Amount == nil {
			return false, "amount not specified"
		}
		if *pctx.Amount > *c.AmountLimit {
			return true, fmt.Sprintf("amount %.2f exceeds limit %.2f", *pctx.Amount, *c.AmountLimit)
		}
	}

	if c.TimeRestriction != "" {
		ts := pctx.Timestamp
		if ts.IsZero() {
			ts = time.Now()
		}
		if matched, reason := matchTimeRestriction(c.TimeRestriction, ts); matched {
			return true, reason
		}
	}

	if c.ResourceOwnerOnly {
		if pctx.ResourceOwnerID == "" {
			return false, "resource owner not specified"
		}
		if pctx.UserID != pctx.ResourceOwnerID {
			return true, "user is not the resource owner"
		}
	}

	if len(c.AllowedDepartments) > 0 {
		if pctx.UserDepartment == "" {
			return true, "department not specified"
		}
		if !slices.Contains(c.AllowedDepartments, pctx.UserDepartment) {
			return true, fmt.Sprintf("department %q not allowed", pctx.UserDepartment)
		}
	}

	return false, "all conditions passed"
}

func matchTimeRestriction(tr policy.TimeRestriction, ts time.Time) (bool, string) {
	wd := ts.Weekday()
	weekend := wd == time.Saturday || wd == time.Sunday
	businessHours := !weekend && ts.Hour() >= 9 && ts.Hour() < 17

	switch tr {
	case policy.TimeBusinessHours:
		if !businessHours {
			return true, "access outside business hours"
		}
	case policy.TimeAfterHours:
		if businessHours {
			return true, "access during business hours"
		}
	case policy.TimeWeekendsOnly:
		if !weekend {
			return true, "access on a weekday"
		}
	}
	return false, ""
}
