package aegis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/xraph/aegis/id"
	"github.com/xraph/aegis/policy"
)

func denyPolicy(name string, priority int, c policy.Conditions) *policy.Policy {
	return &policy.Policy{
		ID:         id.NewPolicyID(),
		Name:       name,
		Conditions: c,
		Effect:     policy.EffectDeny,
		Priority:   priority,
		IsActive:   true,
	}
}

func allowPolicy(name string, priority int, c policy.Conditions) *policy.Policy {
	p := denyPolicy(name, priority, c)
	p.Effect = policy.EffectAllow
	return p
}

// weekday returns a weekday timestamp at the given hour.
func weekday(hour int) time.Time {
	// 2026-01-05 is a Monday.
	return time.Date(2026, 1, 5, hour, 0, 0, 0, time.UTC)
}

// saturday returns a Saturday timestamp at the given hour.
func saturday(hour int) time.Time {
	return time.Date(2026, 1, 3, hour, 0, 0, 0, time.UTC)
}

func evaluate(t *testing.T, policies []*policy.Policy, pctx *PolicyContext) *PolicyDecision {
	t.Helper()
	dec, err := DefaultEvaluator().Evaluate(context.Background(), policies, pctx)
	if err != nil {
		t.Fatal(err)
	}
	return dec
}

func TestEvaluateNoPoliciesMatched(t *testing.T) {
	dec := evaluate(t, nil, &PolicyContext{})
	if !dec.Allowed {
		t.Fatalf("expected fail-open allow, got %+v", dec)
	}
}

func TestEvaluateAmountLimit(t *testing.T) {
	policies := []*policy.Policy{
		denyPolicy("cap", 10, policy.Conditions{AmountLimit: Float64(10000)}),
	}

	dec := evaluate(t, policies, &PolicyContext{Amount: Float64(15000)})
	if dec.Allowed {
		t.Fatalf("expected deny over the limit, got %+v", dec)
	}
	if dec.MatchedPolicy == nil || dec.MatchedPolicy.Name != "cap" {
		t.Fatalf("unexpected matched policy: %+v", dec.MatchedPolicy)
	}

	// At or under the limit the clause falls through and nothing matches.
	dec = evaluate(t, policies, &PolicyContext{Amount: Float64(5000)})
	if !dec.Allowed || dec.MatchedPolicy != nil {
		t.Fatalf("expected fall-through allow under the limit, got %+v", dec)
	}

	// A missing amount terminates the policy as a non-match even when later
	// clauses would trigger.
	mixed := []*policy.Policy{
		denyPolicy("cap-and-dept", 10, policy.Conditions{
			AmountLimit:        Float64(10000),
			AllowedDepartments: []string{"finance"},
		}),
	}
	dec = evaluate(t, mixed, &PolicyContext{UserDepartment: "engineering"})
	if !dec.Allowed {
		t.Fatalf("expected non-match when amount is absent, got %+v", dec)
	}
}

func TestEvaluateFirstMatchWins(t *testing.T) {
	// Pre-ordered: the higher-priority allow shadows the deny.
	policies := []*policy.Policy{
		allowPolicy("vip carve-out", 100, policy.Conditions{AmountLimit: Float64(100)}),
		denyPolicy("cap", 1, policy.Conditions{AmountLimit: Float64(100)}),
	}
	dec := evaluate(t, policies, &PolicyContext{Amount: Float64(500)})
	if !dec.Allowed {
		t.Fatalf("expected first-match allow, got %+v", dec)
	}
	if dec.MatchedPolicy == nil || dec.MatchedPolicy.Name != "vip carve-out" {
		t.Fatalf("unexpected matched policy: %+v", dec.MatchedPolicy)
	}
}

func TestEvaluateInactiveSkipped(t *testing.T) {
	inactive := denyPolicy("cap", 10, policy.Conditions{AmountLimit: Float64(100)})
	inactive.IsActive = false
	dec := evaluate(t, []*policy.Policy{inactive}, &PolicyContext{Amount: Float64(500)})
	if !dec.Allowed {
		t.Fatalf("expected inactive policy to be skipped, got %+v", dec)
	}
}

func TestEvaluateEmptyConditionsMatch(t *testing.T) {
	dec := evaluate(t, []*policy.Policy{denyPolicy("blanket", 0, policy.Conditions{})}, &PolicyContext{})
	if dec.Allowed {
		t.Fatalf("expected empty conditions to match unconditionally, got %+v", dec)
	}
}

func TestEvaluateUnknownKeysOnlyNeverMatch(t *testing.T) {
	var c policy.Conditions
	if err := json.Unmarshal([]byte(`{"maxRetries": 3}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.IsEmpty() {
		t.Fatal("conditions with unknown keys must not be empty")
	}
	dec := evaluate(t, []*policy.Policy{denyPolicy("foreign", 0, c)}, &PolicyContext{})
	if !dec.Allowed {
		t.Fatalf("expected unknown-keys-only conditions to never match, got %+v", dec)
	}
}

func TestEvaluateTimeRestrictions(t *testing.T) {
	tests := []struct {
		name        string
		restriction policy.TimeRestriction
		ts          time.Time
		wantDeny    bool
	}{
		{"business_hours triggers at night", policy.TimeBusinessHours, weekday(22), true},
		{"business_hours triggers on weekend", policy.TimeBusinessHours, saturday(10), true},
		{"business_hours passes mid-day", policy.TimeBusinessHours, weekday(10), false},
		{"business_hours triggers at 17", policy.TimeBusinessHours, weekday(17), true},
		{"after_hours triggers mid-day", policy.TimeAfterHours, weekday(10), true},
		{"after_hours passes at night", policy.TimeAfterHours, weekday(22), false},
		{"weekends_only triggers on weekday", policy.TimeWeekendsOnly, weekday(10), true},
		{"weekends_only passes on saturday", policy.TimeWeekendsOnly, saturday(10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policies := []*policy.Policy{
				denyPolicy("window", 0, policy.Conditions{TimeRestriction: tt.restriction}),
			}
			dec := evaluate(t, policies, &PolicyContext{Timestamp: tt.ts})
			if dec.Allowed == tt.wantDeny {
				t.Fatalf("restriction %s at %s: got %+v", tt.restriction, tt.ts, dec)
			}
		})
	}
}

func TestEvaluateResourceOwnerOnly(t *testing.T) {
	owner := id.NewUserID().String()
	other := id.NewUserID().String()
	policies := []*policy.Policy{
		denyPolicy("owners only", 0, policy.Conditions{ResourceOwnerOnly: true}),
	}

	// Non-owner triggers the clause.
	dec := evaluate(t, policies, &PolicyContext{UserID: other, ResourceOwnerID: owner})
	if dec.Allowed {
		t.Fatalf("expected deny for non-owner, got %+v", dec)
	}

	// Owner falls through.
	dec = evaluate(t, policies, &PolicyContext{UserID: owner, ResourceOwnerID: owner})
	if !dec.Allowed {
		t.Fatalf("expected fall-through allow for owner, got %+v", dec)
	}

	// Missing owner terminates as a non-match.
	dec = evaluate(t, policies, &PolicyContext{UserID: other})
	if !dec.Allowed {
		t.Fatalf("expected non-match when owner is absent, got %+v", dec)
	}
}

func TestEvaluateAllowedDepartments(t *testing.T) {
	policies := []*policy.Policy{
		denyPolicy("finance only", 0, policy.Conditions{AllowedDepartments: []string{"finance"}}),
	}

	dec := evaluate(t, policies, &PolicyContext{UserDepartment: "engineering"})
	if dec.Allowed {
		t.Fatalf("expected deny for wrong department, got %+v", dec)
	}

	dec = evaluate(t, policies, &PolicyContext{UserDepartment: "finance"})
	if !dec.Allowed {
		t.Fatalf("expected fall-through for allowed department, got %+v", dec)
	}

	// A missing department triggers the clause: department restrictions are
	// fail-closed, unlike the amount and owner clauses.
	dec = evaluate(t, policies, &PolicyContext{})
	if dec.Allowed {
		t.Fatalf("expected deny for missing department, got %+v", dec)
	}
}

func TestEvaluateNilContext(t *testing.T) {
	policies := []*policy.Policy{
		denyPolicy("cap", 0, policy.Conditions{AmountLimit: Float64(100)}),
	}
	dec := evaluate(t, policies, nil)
	if !dec.Allowed {
		t.Fatalf("expected non-match with nil context, got %+v", dec)
	}
}
