// Package auditlog defines the audit trail entity for permission checks and
// administrative actions.
package auditlog

import (
	"errors"
	"time"

	"github.com/xraph/aegis/id"
)

// ErrNotFound is returned when an audit event cannot be found.
var ErrNotFound = errors.New("aegis: audit event not found")

// Result classifies the outcome an event records.
type Result string

const (
	// ResultSuccess marks an allowed check or completed admin action.
	ResultSuccess Result = "success"

	// ResultFailure marks a denied check or failed admin action.
	ResultFailure Result = "failure"
)

// Event is a single audit record. Events are written fire-and-forget: the
// engine never blocks a decision on audit persistence.
type Event struct {
	ID             id.AuditEventID    `json:"id" db:"id"`
	UserID         id.UserID          `json:"user_id" db:"user_id"`
	UserEmail      string             `json:"user_email,omitempty" db:"user_email"`
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty" db:"organization_id"`
	Action         string             `json:"action" db:"action"`
	ResourceType   string             `json:"resource_type,omitempty" db:"resource_type"`
	ResourceID     string             `json:"resource_id,omitempty" db:"resource_id"`
	Result         Result             `json:"result" db:"result"`
	Reason         string             `json:"reason,omitempty" db:"reason"`
	Metadata       map[string]any     `json:"metadata,omitempty" db:"metadata"`
	CreatedAt      time.Time          `json:"created_at" db:"created_at"`
}

// QueryFilter contains filters for querying audit events.
type QueryFilter struct {
	UserID         *id.UserID         `json:"user_id,omitempty"`
	OrganizationID *id.OrganizationID `json:"organization_id,omitempty"`
	Action         string             `json:"action,omitempty"`
	ResourceType   string             `json:"resource_type,omitempty"`
	Result         Result             `json:"result,omitempty"`
	Since          *time.Time         `json:"since,omitempty"`
	Until          *time.Time         `json:"until,omitempty"`
	Limit          int                `json:"limit,omitempty"`
	Offset         int                `json:"offset,omitempty"`
}
