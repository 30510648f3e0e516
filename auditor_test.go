package aegis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xraph/aegis/auditlog"
	"github.com/xraph/aegis/id"
)

// captureSink records events and optionally blocks each write until released.
type captureSink struct {
	mu     sync.Mutex
	events []*auditlog.Event
	gate   chan struct{}
	err    error
}

func (s *captureSink) CreateEvent(_ context.Context, e *auditlog.Event) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, e)
	return nil
}

func (s *captureSink) GetEvent(context.Context, id.AuditEventID) (*auditlog.Event, error) {
	return nil, auditlog.ErrNotFound
}

func (s *captureSink) ListEvents(context.Context, *auditlog.QueryFilter) ([]*auditlog.Event, error) {
	return nil, nil
}

func (s *captureSink) CountEvents(context.Context, *auditlog.QueryFilter) (int64, error) {
	return 0, nil
}

func (s *captureSink) PurgeEvents(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *captureSink) recorded() []*auditlog.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*auditlog.Event(nil), s.events...)
}

func TestAuditorRecordFillsDefaults(t *testing.T) {
	sink := &captureSink{}
	a := NewAuditor(sink, 8, nil)

	a.Record(&auditlog.Event{
		UserID: id.NewUserID(),
		Action: "access:denied",
		Result: auditlog.ResultFailure,
	})
	a.Close()

	events := sink.recorded()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsNil() {
		t.Fatal("expected ID to be filled")
	}
	if events[0].CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be filled")
	}
}

func TestAuditorCloseDrainsBuffer(t *testing.T) {
	sink := &captureSink{}
	a := NewAuditor(sink, 16, nil)

	for i := 0; i < 10; i++ {
		a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "policy:deny"})
	}
	a.Close()

	if got := len(sink.recorded()); got != 10 {
		t.Fatalf("expected 10 events after drain, got %d", got)
	}

	// Close is idempotent.
	a.Close()
}

func TestAuditorDropsWhenBufferFull(t *testing.T) {
	sink := &captureSink{gate: make(chan struct{})}
	a := NewAuditor(sink, 1, nil)

	// First event is picked up by the dispatch loop and blocks in the sink.
	a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "access:denied"})

	// Wait until the dispatcher has taken it off the channel, so the buffer
	// slot below is deterministic.
	deadline := time.Now().Add(time.Second)
	for len(a.events) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("dispatcher never picked up the first event")
		}
		time.Sleep(time.Millisecond)
	}

	// Second fills the buffer, third must be dropped without blocking.
	a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "access:denied"})
	a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "access:denied"})

	close(sink.gate)
	a.Close()

	if got := len(sink.recorded()); got != 2 {
		t.Fatalf("expected 2 delivered events with 1 dropped, got %d", got)
	}
}

func TestAuditorRecordAfterCloseDrops(t *testing.T) {
	sink := &captureSink{}
	a := NewAuditor(sink, 4, nil)

	a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "access:denied"})
	a.Close()

	// A check racing shutdown must drop its event, not panic.
	a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "access:denied"})

	if got := len(sink.recorded()); got != 1 {
		t.Fatalf("expected only the pre-close event, got %d", got)
	}
}

func TestAuditorSwallowsSinkErrors(t *testing.T) {
	sink := &captureSink{err: errors.New("sink down")}
	a := NewAuditor(sink, 4, nil)

	// Record never surfaces sink failures; Close still drains cleanly.
	a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "access:denied"})
	a.Record(&auditlog.Event{UserID: id.NewUserID(), Action: "access:denied"})
	a.Close()
}
