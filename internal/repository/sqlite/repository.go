package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"worklog/internal/errors"
	"worklog/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

const defaultTimeout = 5 * time.Second

// Store is a synchronous key/value store on a single SQLite table. It backs
// the local draft backup, so every call is bounded by a short timeout.
type Store struct {
	db      *sql.DB
	timeout time.Duration
	now     func() time.Time
}

// New opens (or creates) the database at dbPath and runs migrations
func New(dbPath string) (*Store, error) {
	return NewWithTimeout(dbPath, defaultTimeout)
}

// NewWithTimeout is New with an explicit per-operation timeout
func NewWithTimeout(dbPath string, timeout time.Duration) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewLocalStorageError("open database", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.NewLocalStorageError("run migrations", err)
	}

	return &Store{db: db, timeout: timeout, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key
func (s *Store) Get(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `SELECT draft_key, value, updated_at FROM drafts WHERE draft_key = ?`
	entry, ok, err := QuerySingle(ctx, s.db, query, ScanEntry, key)
	if err != nil || !ok {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set stores value under key, replacing any previous value
func (s *Store) Set(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `
	INSERT INTO drafts (draft_key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(draft_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := ExecuteWithRowsAffected(ctx, s.db, query, key, value, FormatTimeForDB(s.now()))
	return err
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	_, err := ExecuteWithRowsAffected(ctx, s.db, `DELETE FROM drafts WHERE draft_key = ?`, key)
	return err
}

// Keys returns all keys starting with prefix, most recently updated first
func (s *Store) Keys(prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	query := `
	SELECT draft_key, value, updated_at FROM drafts
	WHERE substr(draft_key, 1, ?) = ?
	ORDER BY updated_at DESC`

	entries, err := QueryMultiple(ctx, s.db, query, ScanEntries, len(prefix), prefix)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Key, prefix) {
			keys = append(keys, e.Key)
		}
	}
	return keys, nil
}
