package aegis

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/id"
)

// auditWriteTimeout bounds a single sink write so a slow sink cannot stall
// the dispatch loop indefinitely.
const auditWriteTimeout = 5 * time.Second

// Auditor dispatches audit events to a sink asynchronously. Record never
// blocks: events that arrive while the buffer is full are dropped and
// logged, and sink errors are swallowed. The decision path must never wait
// on or be failed by the audit trail.
type Auditor struct {
	sink   auditlog.Store
	logger *slog.Logger

	mu     sync.Mutex
	closed bool

	events chan *auditlog.Event
	done   chan struct{}
}

// NewAuditor creates an auditor and starts its dispatch goroutine.
func NewAuditor(sink auditlog.Store, bufferSize int, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	if bufferSize <= 0 {
		bufferSize = DefaultAuditBufferSize
	}
	a := &Auditor{
		sink:   sink,
		logger: logger,
		events: make(chan *auditlog.Event, bufferSize),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Record enqueues an event without blocking. Missing ID and timestamp are
// filled in. Events recorded after Close are dropped and logged, so a check
// racing shutdown never panics the process.
func (a *Auditor) Record(e *auditlog.Event) {
	if e.ID.IsNil() {
		e.ID = id.NewAuditEventID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		a.logger.Warn("auditor closed, dropping event",
			slog.String("action", e.Action),
			slog.String("user_id", e.UserID.String()))
		return
	}

	select {
	case a.events <- e:
	default:
		a.logger.Warn("audit buffer full, dropping event",
			slog.String("action", e.Action),
			slog.String("user_id", e.UserID.String()))
	}
}

// Close stops accepting events, drains the buffer, and waits for the
// dispatch goroutine to exit. Safe to call more than once.
func (a *Auditor) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.events)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *Auditor) run() {
	defer close(a.done)
	for e := range a.events {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		if err := a.sink.CreateEvent(ctx, e); err != nil {
			a.logger.Error("audit write failed",
				slog.String("action", e.Action),
				slog.String("error", err.Error()))
		}
		cancel()
	}
}
