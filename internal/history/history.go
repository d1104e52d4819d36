// Package history records configuration activity (builds, theme
// switches, plugin changes, backups) in a local SQLite database so
// `hyprsupreme history` can answer "what changed and when".
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Event kinds recorded by the rest of the tool.
const (
	KindBuild        = "build"
	KindThemeApply   = "theme-apply"
	KindEffectsApply = "effects-apply"
	KindPluginChange = "plugin-change"
	KindBackup       = "backup"
	KindRestore      = "restore"
)

// Entry is one recorded event.
type Entry struct {
	ID        string
	Kind      string
	Subject   string
	Timestamp time.Time
	Details   map[string]string
}

// Store is a SQLite-backed history log. Use ":memory:" as the path for
// a throwaway store.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		details TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_history_kind ON history(kind);
	CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends an event and returns its ULID.
func (s *Store) Record(ctx context.Context, kind, subject string, details map[string]string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var detailsJSON []byte
	if details != nil {
		var err error
		detailsJSON, err = json.Marshal(details)
		if err != nil {
			return "", fmt.Errorf("marshal history details: %w", err)
		}
	}

	id := ulid.Make().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO history (id, kind, subject, timestamp, details) VALUES (?, ?, ?, ?, ?)",
		id, kind, subject, time.Now().Unix(), detailsJSON,
	)
	if err != nil {
		return "", fmt.Errorf("insert history entry: %w", err)
	}
	return id, nil
}

// Recent returns the most recent entries, newest first. A kind filter
// of "" returns all kinds.
func (s *Store) Recent(ctx context.Context, kind string, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	query := "SELECT id, kind, subject, timestamp, details FROM history"
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, kind)
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var detailsJSON sql.NullString
		if err := rows.Scan(&e.ID, &e.Kind, &e.Subject, &ts, &detailsJSON); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		e.Timestamp = time.Unix(ts, 0)
		if detailsJSON.Valid && detailsJSON.String != "" {
			if err := json.Unmarshal([]byte(detailsJSON.String), &e.Details); err != nil {
				return nil, fmt.Errorf("parse history details: %w", err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountByKind returns how many entries exist per kind.
func (s *Store) CountByKind(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(*) FROM history GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count history: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// Prune deletes entries older than the cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE timestamp < ?", olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}
	return res.RowsAffected()
}
