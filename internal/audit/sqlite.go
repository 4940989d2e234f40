// ABOUTME: SQLite-backed audit sink using modernc.org/sqlite
// ABOUTME: Persists routing decisions for compliance review across restarts

package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSink appends audit entries to a SQLite database.
type SQLiteSink struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteSink opens (or creates) an audit database at the given path.
// Parent directories are created if needed; the schema auto-creates.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	logger := slog.Default().With("component", "audit")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS audit_log (
			audit_id     TEXT PRIMARY KEY,
			ts           TEXT NOT NULL,
			action       TEXT NOT NULL,
			organization TEXT NOT NULL,
			details_json TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_audit_log_ts ON audit_log(ts);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteSink{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// Append inserts an entry, generating ID and timestamp if unset.
func (s *SQLiteSink) Append(ctx context.Context, e *Entry) error {
	stamp(e)

	var detailsJSON *string
	if e.Details != nil {
		data, err := json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("marshaling audit details: %w", err)
		}
		str := string(data)
		detailsJSON = &str
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO audit_log (audit_id, ts, action, organization, details_json) VALUES (?, ?, ?, ?, ?)",
		e.ID,
		e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.Action,
		e.Organization,
		detailsJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	s.logger.Debug("appended audit entry", "id", e.ID, "action", e.Action)
	return nil
}

// Filter narrows a List call. Zero fields match everything.
type Filter struct {
	Action string
	Since  *time.Time
	Limit  int // default 100, max 1000
}

// normalizeLimit applies default (100) and cap (1000) to a filter limit.
func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

// List returns entries matching the filter, newest first.
func (s *SQLiteSink) List(ctx context.Context, f Filter) ([]Entry, error) {
	var sinceStr, actionStr *string
	if f.Since != nil {
		v := f.Since.UTC().Format(time.RFC3339Nano)
		sinceStr = &v
	}
	if f.Action != "" {
		actionStr = &f.Action
	}

	query := `
		SELECT audit_id, ts, action, organization, details_json
		FROM audit_log
		WHERE (? IS NULL OR ts >= ?)
		  AND (? IS NULL OR action = ?)
		ORDER BY ts DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query,
		sinceStr, sinceStr,
		actionStr, actionStr,
		normalizeLimit(f.Limit),
	)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []Entry{}
	for rows.Next() {
		var (
			e           Entry
			tsStr       string
			detailsJSON *string
		)
		if err := rows.Scan(&e.ID, &tsStr, &e.Action, &e.Organization, &detailsJSON); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		e.Timestamp, err = time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp: %w", err)
		}
		if detailsJSON != nil {
			if err := json.Unmarshal([]byte(*detailsJSON), &e.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}
	return entries, nil
}
