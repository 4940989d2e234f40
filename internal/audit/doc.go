// Package audit records gateway routing decisions to an append-only trail.
//
// Sink is the write contract; MemorySink keeps the trail in process,
// SQLiteSink persists it for compliance review. Appends generate an ID and
// timestamp when the caller leaves them unset.
package audit
