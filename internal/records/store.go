// Package records implements the record store: a list of saved records kept
// under one key of a kv.Store.
//
// Every mutation is a whole-list read-modify-write. There is no incremental
// update and no merge: with more than one writer process the last writer
// wins. Within a process the Store serializes its own mutations.
//
// The stored value is a JSON array of record.Record. Values that are not
// valid JSON, or that do not satisfy the embedded #Records schema, are
// reported as *record.CorruptDataError and are never overwritten silently.
package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/roach88/signup/internal/kv"
	"github.com/roach88/signup/internal/record"
)

// DefaultKey is the storage key used when none is configured.
const DefaultKey = "usuarios"

// Store is the record store.
//
// Thread-safety: methods are safe for concurrent use within one process.
type Store struct {
	mu     sync.Mutex
	kv     kv.Store
	key    string
	schema *schema
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// New returns a record store over backend.
func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:     backend,
		key:    DefaultKey,
		schema: mustCompileSchema(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key the list is kept under.
func (s *Store) Key() string {
	return s.key
}

// LoadAll returns the stored records in insertion order.
// An absent key yields an empty slice.
func (s *Store) LoadAll(ctx context.Context) ([]record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	list, err := s.LoadAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(list), nil
}

// Append assigns the next ID to r (max existing ID + 1, or 1 when empty),
// appends it and rewrites the list. Returns the stored record.
func (s *Store) Append(ctx context.Context, r record.Record) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return record.Record{}, fmt.Errorf("append: %w", err)
	}

	r.ID = nextID(list)
	list = append(list, r)
	if err := s.save(ctx, list); err != nil {
		return record.Record{}, fmt.Errorf("append: %w", err)
	}
	return r, nil
}

// DeleteAt removes the record at index and rewrites the list, preserving
// the order of the remaining records. Returns the removed record.
//
// An invalid index returns *record.IndexOutOfRangeError and leaves the
// stored list untouched.
func (s *Store) DeleteAt(ctx context.Context, index int) (record.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return record.Record{}, fmt.Errorf("delete: %w", err)
	}
	if index < 0 || index >= len(list) {
		return record.Record{}, &record.IndexOutOfRangeError{Index: index, Length: len(list)}
	}

	removed := list[index]
	rest := make([]record.Record, 0, len(list)-1)
	rest = append(rest, list[:index]...)
	rest = append(rest, list[index+1:]...)
	if err := s.save(ctx, rest); err != nil {
		return record.Record{}, fmt.Errorf("delete: %w", err)
	}
	return removed, nil
}

// Clear removes the stored key entirely.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// load reads and decodes the list. Caller holds s.mu.
func (s *Store) load(ctx context.Context) ([]record.Record, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", s.key, err)
	}
	if !ok {
		return []record.Record{}, nil
	}
	return s.decode(raw)
}

func (s *Store) decode(raw string) ([]record.Record, error) {
	data := []byte(raw)
	if !json.Valid(data) {
		return nil, &record.CorruptDataError{Key: s.key, Err: errors.New("not valid JSON")}
	}
	if err := s.schema.check(data); err != nil {
		return nil, &record.CorruptDataError{Key: s.key, Err: err}
	}

	var list []record.Record
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, &record.CorruptDataError{Key: s.key, Err: err}
	}
	if list == nil {
		list = []record.Record{}
	}
	return list, nil
}

// save encodes and writes the whole list. Caller holds s.mu.
func (s *Store) save(ctx context.Context, list []record.Record) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write %q: %w", s.key, err)
	}
	return nil
}

// nextID returns max(ID)+1, or 1 for an empty list.
func nextID(list []record.Record) int64 {
	var highest int64
	for _, r := range list {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest + 1
}
