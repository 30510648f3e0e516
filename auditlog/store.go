package auditlog

import (
	"context"
	"time"

	"github.com/xraph/aegis/id"
)

// Store defines persistence operations for audit events.
type Store interface {
	// CreateEvent persists an audit event.
	CreateEvent(ctx context.Context, e *Event) error

	// GetEvent retrieves an audit event by ID.
	GetEvent(ctx context.Context, eventID id.AuditEventID) (*Event, error)

	// ListEvents returns events matching the filter, newest first.
	ListEvents(ctx context.Context, filter *QueryFilter) ([]*Event, error)

	// CountEvents returns the number of events matching the filter.
	CountEvents(ctx context.Context, filter *QueryFilter) (int64, error)

	// PurgeEvents deletes events created before the cutoff and returns the
	// number deleted.
	PurgeEvents(ctx context.Context, before time.Time) (int64, error)
}
