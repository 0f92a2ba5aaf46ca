// Package kv defines the string-keyed persistent storage primitive the
// record store is built on, plus an in-memory implementation.
//
// Backends live in subpackages (sqlite, postgres, s3). All of them store
// opaque string values; serialization is the caller's concern.
package kv

import (
	"context"
	"errors"
	"sync"
)

// Store is a string-keyed key-value store.
//
// Get returns ok=false when the key is absent; that is not an error.
// Remove of an absent key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// ErrEmptyKey is returned by backends when asked to operate on "".
var ErrEmptyKey = errors.New("kv: empty key")

// Memory is an in-process Store. The zero value is not usable; call NewMemory.
//
// Thread-safety: all methods are safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// Compile-time assertion.
var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if key == "" {
		return "", false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Remove implements Store.
func (m *Memory) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Close is a no-op so Memory can stand in for closable backends.
func (m *Memory) Close() error { return nil }
