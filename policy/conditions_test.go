package policy

import (
	"encoding/json"
	"testing"
)

func TestConditionsUnmarshalPermissive(t *testing.T) {
	var c Conditions
	blob := `{"amountLimit": 10000, "timeRestriction": "business_hours", "allowedDepartments": ["finance"], "legacyField": true}`
	if err := json.Unmarshal([]byte(blob), &c); err != nil {
		t.Fatal(err)
	}
	if c.AmountLimit == nil || *c.AmountLimit != 10000 {
		t.Fatalf("unexpected amount limit: %v", c.AmountLimit)
	}
	if c.TimeRestriction != TimeBusinessHours {
		t.Fatalf("unexpected time restriction: %q", c.TimeRestriction)
	}
	if len(c.AllowedDepartments) != 1 || c.AllowedDepartments[0] != "finance" {
		t.Fatalf("unexpected departments: %v", c.AllowedDepartments)
	}
	if c.IsEmpty() {
		t.Fatal("expected non-empty conditions")
	}
}

func TestConditionsIsEmpty(t *testing.T) {
	var c Conditions
	if err := json.Unmarshal([]byte(`{}`), &c); err != nil {
		t.Fatal(err)
	}
	if !c.IsEmpty() {
		t.Fatal("expected {} to be empty")
	}

	// Unknown keys alone make conditions non-empty: they fall through every
	// clause instead of matching unconditionally.
	if err := json.Unmarshal([]byte(`{"maxRetries": 3}`), &c); err != nil {
		t.Fatal(err)
	}
	if c.IsEmpty() {
		t.Fatal("expected unknown keys to mark conditions non-empty")
	}
}

func TestConditionsMarshalDropsUnknownKeys(t *testing.T) {
	var c Conditions
	if err := json.Unmarshal([]byte(`{"resourceOwnerOnly": true, "legacyField": 1}`), &c); err != nil {
		t.Fatal(err)
	}
	blob, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if string(blob) != `{"resourceOwnerOnly":true}` {
		t.Fatalf("unexpected encoding: %s", blob)
	}
}

func TestEffectValid(t *testing.T) {
	if !EffectAllow.Valid() || !EffectDeny.Valid() {
		t.Fatal("expected allow and deny to be valid effects")
	}
	if Effect("block").Valid() {
		t.Fatal("expected unknown effect to be invalid")
	}
}
