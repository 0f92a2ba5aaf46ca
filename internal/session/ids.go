package session

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces session identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session IDs, so log lines
// from successive sessions sort by start time.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedID is an IDGenerator that always returns itself, for reproducible
// traces. An empty FixedID generates "test-session".
type FixedID string

// Generate implements IDGenerator.
func (f FixedID) Generate() string {
	if f == "" {
		return "test-session"
	}
	return string(f)
}

// Clock stamps events with increasing sequence numbers.
type Clock interface {
	Next() int64
}

// SeqClock is a monotonic logical clock. Events are ordered by seq, never by
// wall time, so traces are reproducible.
//
// Thread-safety: SeqClock is safe for concurrent use.
type SeqClock struct {
	seq atomic.Int64
}

// NewSeqClock returns a clock whose first Next is 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next returns the next sequence number.
func (c *SeqClock) Next() int64 {
	return c.seq.Add(1)
}
