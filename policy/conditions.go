package policy

import "encoding/json"

// TimeRestriction constrains when a policy's time clause triggers.
type TimeRestriction string

const (
	// TimeBusinessHours triggers when access happens OUTSIDE business hours
	// (local hour in [9,17) on a weekday).
	TimeBusinessHours TimeRestriction = "business_hours"

	// TimeAfterHours triggers when access happens DURING business hours.
	TimeAfterHours TimeRestriction = "after_hours"

	// TimeWeekendsOnly triggers when access happens on a weekday.
	TimeWeekendsOnly TimeRestriction = "weekends_only"
)

// Conditions is the structured predicate of a policy. Clauses are checked in
// a fixed order and the first clause that signals a match (or a terminal
// non-match) short-circuits the rest; see the evaluator for the exact
// semantics. Unknown JSON keys are tolerated and ignored, but their presence
// still marks the conditions as non-empty — an object holding only unknown
// keys falls through every clause rather than matching unconditionally.
type Conditions struct {
	// AmountLimit triggers when the context amount exceeds this value.
	AmountLimit *float64 `json:"amountLimit,omitempty"`

	// TimeRestriction triggers based on the evaluation timestamp.
	TimeRestriction TimeRestriction `json:"timeRestriction,omitempty"`

	// ResourceOwnerOnly triggers when the acting user is not the resource
	// owner.
	ResourceOwnerOnly bool `json:"resourceOwnerOnly,omitempty"`

	// AllowedDepartments triggers when the user's department is missing or
	// not in the list.
	AllowedDepartments []string `json:"allowedDepartments,omitempty"`

	// unknownKeys counts JSON keys that no clause recognizes. Kept so that
	// IsEmpty distinguishes "{}" from an object of only foreign keys.
	unknownKeys int
}

// conditionsJSON mirrors Conditions for (un)marshalling without recursion.
type conditionsJSON struct {
	AmountLimit        *float64        `json:"amountLimit,omitempty"`
	TimeRestriction    TimeRestriction `json:"timeRestriction,omitempty"`
	ResourceOwnerOnly  bool            `json:"resourceOwnerOnly,omitempty"`
	AllowedDepartments []string        `json:"allowedDepartments,omitempty"`
}

var knownConditionKeys = map[string]struct{}{
	"amountLimit":        {},
	"timeRestriction":    {},
	"resourceOwnerOnly":  {},
	"allowedDepartments": {},
}

// UnmarshalJSON decodes conditions permissively: recognized clauses are
// bound, unrecognized keys are counted and otherwise ignored.
func (c *Conditions) UnmarshalJSON(data []byte) error {
	var fields conditionsJSON
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.AmountLimit = fields.AmountLimit
	c.TimeRestriction = fields.TimeRestriction
	c.ResourceOwnerOnly = fields.ResourceOwnerOnly
	c.AllowedDepartments = fields.AllowedDepartments
	c.unknownKeys = 0
	for k := range raw {
		if _, ok := knownConditionKeys[k]; !ok {
			c.unknownKeys++
		}
	}
	return nil
}

// MarshalJSON encodes only the recognized clauses.
func (c Conditions) MarshalJSON() ([]byte, error) {
	return json.Marshal(conditionsJSON{
		AmountLimit:        c.AmountLimit,
		TimeRestriction:    c.TimeRestriction,
		ResourceOwnerOnly:  c.ResourceOwnerOnly,
		AllowedDepartments: c.AllowedDepartments,
	})
}

// IsEmpty reports whether no clause is set and no foreign keys were seen.
// Empty conditions match unconditionally.
func (c Conditions) IsEmpty() bool {
	return c.AmountLimit == nil &&
		c.TimeRestriction == "" &&
		!c.ResourceOwnerOnly &&
		len(c.AllowedDepartments) == 0 &&
		c.unknownKeys == 0
}
