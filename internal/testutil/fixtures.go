// Package testutil holds fixtures shared by package tests: sample records,
// seeded in-memory record stores and a silent logger.
package testutil

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/signup/internal/kv"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/records"
)

// Ana, Beto and Caro are valid sample records without IDs.
var (
	Ana  = record.Record{Name: "Ana", Email: "ana@x.com", Age: 30}
	Beto = record.Record{Name: "Beto", Email: "beto@x.com", Age: 41}
	Caro = record.Record{Name: "Caro", Email: "caro@x.com", Age: 22}
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// HasList reports whether mem holds anything under the default records key.
func HasList(t *testing.T, mem *kv.Memory) bool {
	t.Helper()
	_, ok, err := mem.Get(context.Background(), records.DefaultKey)
	require.NoError(t, err)
	return ok
}

// NewMemoryStore returns a record store on a fresh in-memory backend with
// seed appended in order. Seeded records get IDs 1..n.
func NewMemoryStore(t *testing.T, seed ...record.Record) (*records.Store, *kv.Memory) {
	t.Helper()
	mem := kv.NewMemory()
	st := records.New(mem)
	for _, r := range seed {
		_, err := st.Append(context.Background(), r)
		require.NoError(t, err)
	}
	return st, mem
}

// SeedRaw stores raw verbatim under the default records key, bypassing
// validation. Use it for legacy or corrupt values.
func SeedRaw(t *testing.T, mem *kv.Memory, raw string) {
	t.Helper()
	require.NoError(t, mem.Set(context.Background(), records.DefaultKey, raw))
}

// RawJSON encodes list the way the record store does.
func RawJSON(t *testing.T, list []record.Record) string {
	t.Helper()
	data, err := json.Marshal(list)
	require.NoError(t, err)
	return string(data)
}
