// ABOUTME: Complete agent record, the DNS-record analogue stored by registries
// ABOUTME: Aggregates handle, endpoint, and capabilities with freshness metadata

package handle

import "time"

// DefaultTTL is the record time-to-live applied when a registry does not
// specify one, in seconds.
const DefaultTTL = 3600

// Record is a complete agent registration, analogous to a DNS record.
// Records are immutable value copies once handed out by a store or resolver.
type Record struct {
	Handle       Handle
	Endpoint     Endpoint
	Capabilities Capabilities
	Description  string
	Version      string
	Owner        string
	CreatedAt    time.Time
	LastSeen     time.Time
	TTL          int // seconds
}

// NewRecord builds a record with freshness timestamps set to now and the
// default TTL.
func NewRecord(h Handle, e Endpoint, c Capabilities) Record {
	now := time.Now().UTC()
	return Record{
		Handle:       h,
		Endpoint:     e,
		Capabilities: c,
		Version:      "1.0",
		CreatedAt:    now,
		LastSeen:     now,
		TTL:          DefaultTTL,
	}
}

// Touch refreshes LastSeen. Heartbeat handlers call this before writing the
// record back to its store.
func (r *Record) Touch() {
	r.LastSeen = time.Now().UTC()
}
