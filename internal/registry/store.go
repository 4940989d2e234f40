// ABOUTME: SQLite-backed persistent store for agent records using modernc.org/sqlite
// ABOUTME: Lets a resolver's local registry survive restarts; schema auto-creates

package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agentmcp/agentnet/internal/handle"
)

// ErrRecordNotFound indicates the store has no record under the given flat ID.
var ErrRecordNotFound = errors.New("record not found")

// Store persists agent records in SQLite, keyed by flat ID.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (or creates) a record store at the given path. Parent
// directories are created if needed and the schema is applied automatically.
func NewStore(path string) (*Store, error) {
	logger := slog.Default().With("component", "registry")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS agent_records (
			flat_id      TEXT PRIMARY KEY,
			handle       TEXT NOT NULL,
			transport    TEXT NOT NULL,
			host         TEXT NOT NULL,
			port         INTEGER NOT NULL,
			path         TEXT NOT NULL DEFAULT '',
			tags_json    TEXT NOT NULL DEFAULT '[]',
			langs_json   TEXT NOT NULL DEFAULT '[]',
			fw_json      TEXT NOT NULL DEFAULT '[]',
			description  TEXT NOT NULL DEFAULT '',
			version      TEXT NOT NULL DEFAULT '1.0',
			owner        TEXT NOT NULL DEFAULT '',
			created_at   TEXT NOT NULL,
			last_seen    TEXT NOT NULL,
			ttl          INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_agent_records_handle ON agent_records(handle);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// Put inserts or replaces the record under its handle's flat ID.
func (s *Store) Put(ctx context.Context, rec handle.Record) error {
	tags, err := json.Marshal(rec.Capabilities.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}
	langs, err := json.Marshal(rec.Capabilities.Languages)
	if err != nil {
		return fmt.Errorf("marshaling languages: %w", err)
	}
	fws, err := json.Marshal(rec.Capabilities.Frameworks)
	if err != nil {
		return fmt.Errorf("marshaling frameworks: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO agent_records
			(flat_id, handle, transport, host, port, path, tags_json, langs_json, fw_json,
			 description, version, owner, created_at, last_seen, ttl)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.Handle.FlatID(),
		rec.Handle.String(),
		rec.Endpoint.Transport,
		rec.Endpoint.Host,
		rec.Endpoint.Port,
		rec.Endpoint.Path,
		string(tags), string(langs), string(fws),
		rec.Description,
		rec.Version,
		rec.Owner,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.LastSeen.UTC().Format(time.RFC3339),
		rec.TTL,
	)
	if err != nil {
		return fmt.Errorf("inserting record: %w", err)
	}

	s.logger.Debug("stored agent record",
		"flat_id", rec.Handle.FlatID(),
		"handle", rec.Handle.String(),
	)
	return nil
}

// Get returns the record stored under flatID, or ErrRecordNotFound.
func (s *Store) Get(ctx context.Context, flatID string) (*handle.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecords+" WHERE flat_id = ?", flatID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns every stored record, oldest registration first.
func (s *Store) List(ctx context.Context) ([]handle.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+" ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []handle.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}

// Delete removes the record under flatID. Deleting an absent record is not
// an error.
func (s *Store) Delete(ctx context.Context, flatID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM agent_records WHERE flat_id = ?", flatID); err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	return nil
}

// TouchLastSeen refreshes a record's heartbeat timestamp.
func (s *Store) TouchLastSeen(ctx context.Context, flatID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE agent_records SET last_seen = ? WHERE flat_id = ?",
		time.Now().UTC().Format(time.RFC3339), flatID,
	)
	if err != nil {
		return fmt.Errorf("updating last_seen: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

const selectRecords = `
	SELECT handle, transport, host, port, path, tags_json, langs_json, fw_json,
	       description, version, owner, created_at, last_seen, ttl
	FROM agent_records
`

// scanRecord scans a row into a Record.
func scanRecord(scanner interface{ Scan(dest ...any) error }) (*handle.Record, error) {
	var (
		rec                         handle.Record
		handleStr                   string
		tagsJSON, langsJSON, fwJSON string
		createdStr, seenStr         string
	)

	if err := scanner.Scan(
		&handleStr,
		&rec.Endpoint.Transport,
		&rec.Endpoint.Host,
		&rec.Endpoint.Port,
		&rec.Endpoint.Path,
		&tagsJSON, &langsJSON, &fwJSON,
		&rec.Description,
		&rec.Version,
		&rec.Owner,
		&createdStr,
		&seenStr,
		&rec.TTL,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rec.Handle = handle.Parse(handleStr)

	if err := json.Unmarshal([]byte(tagsJSON), &rec.Capabilities.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(langsJSON), &rec.Capabilities.Languages); err != nil {
		return nil, fmt.Errorf("unmarshaling languages: %w", err)
	}
	if err := json.Unmarshal([]byte(fwJSON), &rec.Capabilities.Frameworks); err != nil {
		return nil, fmt.Errorf("unmarshaling frameworks: %w", err)
	}

	var err error
	rec.CreatedAt, err = time.Parse(time.RFC3339, createdStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.LastSeen, err = time.Parse(time.RFC3339, seenStr)
	if err != nil {
		return nil, fmt.Errorf("parsing last_seen: %w", err)
	}
	return &rec, nil
}
