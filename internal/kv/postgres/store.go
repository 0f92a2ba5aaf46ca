// Package postgres provides a Postgres-backed kv.Store using the pgx
// database/sql driver. All entries live in a single table keyed by name.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"github.com/roach88/signup/internal/kv"
)

const defaultDriver = "pgx"

// ErrNoDSN is returned by Open when dsn is empty.
var ErrNoDSN = errors.New("postgres DSN is required")

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists entries in the kv_entries table.
type Store struct {
	db *sql.DB
}

// Compile-time assertion.
var _ kv.Store = (*Store)(nil)

// Open connects to Postgres using dsn and ensures the entries table exists.
// Defaults come from configuration; an empty dsn is rejected.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureTable(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS kv_entries (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure kv_entries table: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get implements kv.Store.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, kv.ErrEmptyKey
	}
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements kv.Store.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_entries (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Remove implements kv.Store.
func (s *Store) Remove(ctx context.Context, key string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}
