package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/signup/internal/config"
	"github.com/roach88/signup/internal/kv"
	"github.com/roach88/signup/internal/kv/sqlite"
)

func TestOpen_Memory(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Backend = config.BackendMemory

	h, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer h.Close()
	assert.IsType(t, &kv.Memory{}, h)
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default().Storage
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "signup.db")

	h, err := Open(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, h)

	require.NoError(t, h.Set(ctx, "usuarios", "[]"))
	require.NoError(t, h.Close())

	_, err = os.Stat(cfg.SQLite.Path)
	assert.NoError(t, err, "database file created")
}

func TestOpen_SQLiteBadPath(t *testing.T) {
	cfg := config.Default().Storage
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "missing", "dir", "signup.db")

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open sqlite backend")
}

func TestOpen_PostgresUnreachable(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Backend = config.BackendPostgres
	cfg.Postgres.DSN = "postgres://nobody@127.0.0.1:1/signup?sslmode=disable&connect_timeout=1"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open postgres backend")
}

func TestOpen_S3RequiresBucket(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Backend = config.BackendS3

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open s3 backend")
}

func TestOpen_Unknown(t *testing.T) {
	cfg := config.Default().Storage
	cfg.Backend = "redis"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"redis"`)
}
