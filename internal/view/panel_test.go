package view

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/signup/internal/kv"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/records"
)

func seededPanel(t *testing.T, n int) (*Panel, *records.Store, *kv.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := kv.NewMemory()
	st := records.New(mem)
	people := []record.Record{
		{Name: "Ana", Email: "ana@x.com", Age: 30},
		{Name: "Beto", Email: "beto@x.com", Age: 41},
		{Name: "Caro", Email: "caro@x.com", Age: 22},
	}
	for _, r := range people[:n] {
		_, err := st.Append(ctx, r)
		require.NoError(t, err)
	}
	return NewPanel(st), st, mem
}

func TestPanel_StartsHidden(t *testing.T) {
	p, _, _ := seededPanel(t, 1)
	assert.False(t, p.Visible())
	assert.True(t, p.View().Empty(), "nothing loaded until shown")
	assert.Equal(t, 0, p.Renders())
}

func TestPanel_ToggleRefetchesOnShow(t *testing.T) {
	ctx := context.Background()
	p, st, _ := seededPanel(t, 1)

	shown, err := p.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, shown)
	assert.Len(t, p.View().Items, 1)

	hidden, err := p.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, hidden)

	// Mutation while hidden is picked up on the next show.
	_, err = st.Append(ctx, record.Record{Name: "Beto", Email: "beto@x.com", Age: 41})
	require.NoError(t, err)

	shown, err = p.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, shown)
	assert.Len(t, p.View().Items, 2)
	assert.Equal(t, 2, p.Renders())
}

func TestPanel_ToggleOnCorruptDataShowsErrorState(t *testing.T) {
	ctx := context.Background()
	p, _, mem := seededPanel(t, 0)
	require.NoError(t, mem.Set(ctx, records.DefaultKey, "{oops"))

	shown, err := p.Toggle(ctx)
	assert.True(t, shown)
	assert.True(t, record.IsCorrupt(err))
	assert.True(t, p.Visible())
	assert.Contains(t, p.View().Err, "corrupt data")
}

func TestPanel_ToggleBackendFailureStaysHidden(t *testing.T) {
	boom := errors.New("unreachable")
	p := NewPanel(records.New(brokenKV{err: boom}))

	shown, err := p.Toggle(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, shown)
	assert.False(t, p.Visible())
}

func TestPanel_DispatchDeletesAndRefreshes(t *testing.T) {
	ctx := context.Background()
	p, st, _ := seededPanel(t, 3)

	// Hidden panel still refreshes after a delete.
	removed, err := p.Dispatch(ctx, "record-2")
	require.NoError(t, err)
	assert.Equal(t, "Beto", removed.Name)
	assert.False(t, p.Visible())

	view := p.View()
	require.Len(t, view.Items, 2)
	assert.Equal(t, "record-1", view.Items[0].Key)
	assert.Equal(t, "record-3", view.Items[1].Key)
	assert.Equal(t, 2, view.Items[1].Number)

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPanel_DispatchRefreshFailureKeepsDelete(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	st := records.New(mem)
	_, err := st.Append(ctx, record.Record{Name: "Ana", Email: "ana@x.com", Age: 30})
	require.NoError(t, err)

	var logs bytes.Buffer
	boom := errors.New("read failed")
	p := NewPanel(records.New(&readFailsAfterWrite{Memory: mem, err: boom}),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	removed, err := p.Dispatch(ctx, "record-1")
	require.NoError(t, err, "the record is gone even though the redraw failed")
	assert.Equal(t, "Ana", removed.Name)
	assert.Contains(t, logs.String(), "panel refresh after delete failed")
	assert.Contains(t, logs.String(), "read failed")

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPanel_DispatchStaleKey(t *testing.T) {
	ctx := context.Background()
	p, st, _ := seededPanel(t, 2)

	_, err := p.Dispatch(ctx, "record-1")
	require.NoError(t, err)

	_, err = p.Dispatch(ctx, "record-1")
	require.Error(t, err)
	assert.True(t, record.IsOutOfRange(err))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "stale key leaves the store unchanged")
}

func TestPanel_DispatchLegacyPosition(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, records.DefaultKey,
		`[{"name":"Ana","email":"ana@x.com","age":30},{"name":"Beto","email":"beto@x.com","age":41}]`))
	p := NewPanel(records.New(mem))

	removed, err := p.Dispatch(ctx, "position-0")
	require.NoError(t, err)
	assert.Equal(t, "Ana", removed.Name)
	require.Len(t, p.View().Items, 1)
	assert.Equal(t, "position-0", p.View().Items[0].Key, "positions shift after a delete")
}

// readFailsAfterWrite serves reads from Memory until the first write, then
// fails every read.
type readFailsAfterWrite struct {
	*kv.Memory
	err     error
	written bool
}

func (r *readFailsAfterWrite) Get(ctx context.Context, key string) (string, bool, error) {
	if r.written {
		return "", false, r.err
	}
	return r.Memory.Get(ctx, key)
}

func (r *readFailsAfterWrite) Set(ctx context.Context, key, value string) error {
	r.written = true
	return r.Memory.Set(ctx, key, value)
}

type brokenKV struct{ err error }

func (b brokenKV) Get(context.Context, string) (string, bool, error) { return "", false, b.err }
func (b brokenKV) Set(context.Context, string, string) error         { return b.err }
func (b brokenKV) Remove(context.Context, string) error              { return b.err }
