package aegis

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated is returned when a check runs without a principal.
	ErrUnauthenticated = errors.New("aegis: unauthenticated")

	// ErrAccessDenied is the sentinel all denial errors unwrap to.
	ErrAccessDenied = errors.New("aegis: access denied")
)

// MissingPermissionsError reports an RBAC gate failure. It carries the
// permission keys the principal lacks.
type MissingPermissionsError struct {
	Missing []string
}

func (e *MissingPermissionsError) Error() string {
	return "aegis: access denied: missing permissions: " + strings.Join(e.Missing, ", ")
}

func (e *MissingPermissionsError) Unwrap() error { return ErrAccessDenied }

// PolicyDeniedError reports an ABAC policy denial. It carries the matched
// policy identity and the human-readable reason.
type PolicyDeniedError struct {
	Permission string
	Policy     *MatchedPolicy
	Reason     string
}

func (e *PolicyDeniedError) Error() string {
	if e.Policy != nil {
		return fmt.Sprintf("aegis: access denied: policy %q: %s", e.Policy.Name, e.Reason)
	}
	return "aegis: access denied: " + e.Reason
}

func (e *PolicyDeniedError) Unwrap() error { return ErrAccessDenied }
