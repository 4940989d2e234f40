// ABOUTME: Audit trail entry type and the sink contract the gateway writes to
// ABOUTME: Every routing decision is recorded regardless of outcome

package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Actions recorded by the gateway.
const (
	ActionRouteAttempt   = "message_route_attempt"
	ActionRoutedExternal = "message_routed_external"
)

// Entry is a single append-only audit record.
type Entry struct {
	ID           string
	Timestamp    time.Time
	Action       string
	Organization string
	Details      map[string]any
}

// Sink accepts audit entries. Implementations must be safe for concurrent
// appends; no acknowledgment beyond a successful append is required.
type Sink interface {
	Append(ctx context.Context, e *Entry) error
}

// stamp fills in ID and Timestamp when the caller left them unset.
func stamp(e *Entry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
}

// MemorySink keeps the audit trail in memory. Suited for tests and for
// gateways whose callers read the trail back directly.
type MemorySink struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewMemorySink creates an empty in-memory audit trail.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Append adds an entry to the trail.
func (s *MemorySink) Append(_ context.Context, e *Entry) error {
	stamp(e)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *e)
	return nil
}

// Entries returns a copy of the trail in append order.
func (s *MemorySink) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
