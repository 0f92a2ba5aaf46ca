// Package backend opens the key-value store selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/roach88/signup/internal/config"
	"github.com/roach88/signup/internal/kv"
	"github.com/roach88/signup/internal/kv/postgres"
	"github.com/roach88/signup/internal/kv/s3"
	"github.com/roach88/signup/internal/kv/sqlite"
)

// Handle is an open key-value store. Close releases its connections.
type Handle interface {
	kv.Store
	Close() error
}

// Open connects to the configured backend.
func Open(ctx context.Context, cfg config.Storage) (Handle, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), nil

	case config.BackendSQLite:
		st, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite backend: %w", err)
		}
		return st, nil

	case config.BackendPostgres:
		st, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres backend: %w", err)
		}
		return st, nil

	case config.BackendS3:
		st, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 backend: %w", err)
		}
		return st, nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
