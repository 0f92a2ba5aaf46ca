package kv

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetAbsent(t *testing.T) {
	m := NewMemory()
	v, ok, err := m.Get(context.Background(), "usuarios")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestMemory_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.Set(ctx, "usuarios", "[]"))
	v, ok, err := m.Get(ctx, "usuarios")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)

	require.NoError(t, m.Set(ctx, "usuarios", `[{"name":"Ana"}]`))
	v, _, _ = m.Get(ctx, "usuarios")
	assert.Equal(t, `[{"name":"Ana"}]`, v, "Set overwrites")

	require.NoError(t, m.Remove(ctx, "usuarios"))
	_, ok, err = m.Get(ctx, "usuarios")
	require.NoError(t, err)
	assert.False(t, ok)

	// Removing again is a no-op.
	require.NoError(t, m.Remove(ctx, "usuarios"))
}

func TestMemory_EmptyKeyRejected(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, _, err := m.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	assert.ErrorIs(t, m.Set(ctx, "", "x"), ErrEmptyKey)
	assert.ErrorIs(t, m.Remove(ctx, ""), ErrEmptyKey)
}

func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()

	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), context.Canceled)
	assert.ErrorIs(t, m.Remove(ctx, "k"), context.Canceled)
}

func TestMemory_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Set(ctx, "k", "v")
			_, _, _ = m.Get(ctx, "k")
		}()
	}
	wg.Wait()

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
