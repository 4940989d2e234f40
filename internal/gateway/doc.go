// Package gateway enforces zone boundaries on inter-agent traffic.
//
// # Routing Pipeline
//
// RouteMessage drives a fixed pipeline for every payload:
//
//	Received -> Classified -> permission check -> same-zone passthrough
//	                                           -> external filter -> sanitized
//
// Classification scans the serialized payload for sensitive patterns
// (password, api_key, token, ...) and always assigns the internal level;
// detection drives field redaction at the boundary rather than
// classification escalation. The permission check consults the
// classification matrix only: confidential data stays on the intranet,
// secret data never leaves at all.
//
// # Failure Modes
//
// Policy violations are never absorbed:
//
//   - ErrPermissionDenied: target zone outside the classification's allowed set
//   - ErrBlocked: confidential or secret data reached the external filter
//
// Both reach the caller as distinguishable errors; the message is never
// delivered and no partially redacted payload escapes.
//
// # Auditing
//
// Every routing attempt is recorded to an audit.Sink before the permission
// check, and external deliveries are recorded a second time with the
// redacted field list. A single call's two writes stay ordered relative to
// each other; concurrent calls may interleave.
package gateway
