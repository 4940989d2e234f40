// Package registry provides access to agent registries: an HTTP client for
// the remote resolve endpoint and a SQLite-backed store for locally
// registered records.
//
// The remote contract is GET {base}/resolve/{flat_id}; any non-200 response
// is a miss. The store auto-creates its schema, runs in WAL mode, and keys
// records by flat ID so a resolver can reseed its local registry across
// restarts.
package registry
