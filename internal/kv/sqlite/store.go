package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/signup/internal/kv"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - entries table with revision counter
const currentSchemaVersion = 1

// Store is a kv.Store persisted in a SQLite database file.
type Store struct {
	db *sql.DB
}

// Compile-time assertion.
var _ kv.Store = (*Store)(nil)

// pragmas are applied to every connection pool on Open.
var pragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
}

// Open opens the database at path, creating it if needed, and brings the
// schema up to date. Reopening an existing file is safe.
//
// Use ":memory:" for a throwaway database; the single-connection pool keeps
// it alive for the lifetime of the Store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// One writer at a time; one connection also pins an in-memory database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, step := range []struct {
		what string
		fn   func(*sql.DB) error
	}{
		{"connect", func(db *sql.DB) error { return db.Ping() }},
		{"apply pragmas", applyPragmas},
		{"apply schema", applySchema},
	} {
		if err := step.fn(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s %s: %w", step.what, path, err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
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
	err := s.db.QueryRowContext(ctx, `SELECT value FROM entries WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set implements kv.Store. Existing keys are overwritten and their revision
// is incremented.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return kv.ErrEmptyKey
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, revision = revision + 1
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
	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

func applyPragmas(db *sql.DB) error {
	for _, p := range pragmas {
		stmt := fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// applySchema creates missing tables and stamps user_version. A database
// written by a newer schema is refused.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	switch {
	case version > currentSchemaVersion:
		return fmt.Errorf("schema version %d is newer than supported version %d", version, currentSchemaVersion)
	case version == currentSchemaVersion:
		return nil
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("write user_version: %w", err)
	}
	return nil
}

// pragma reads the current value of a pragma.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
