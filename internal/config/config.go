// Package config loads signup settings from a YAML file and SIGNUP_*
// environment variables. Command-line flags are applied last by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// DefaultPostgresDSN is the Postgres connection string used when none is
// configured.
const DefaultPostgresDSN = "postgres://localhost:5432/signup?sslmode=disable"

// Backends lists every accepted storage backend.
var Backends = []string{BackendMemory, BackendSQLite, BackendPostgres, BackendS3}

// Config is the full configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	Metrics Metrics `yaml:"metrics"`
}

// Storage selects where records are kept.
type Storage struct {
	Backend  string   `yaml:"backend"`
	Key      string   `yaml:"key"`
	SQLite   SQLite   `yaml:"sqlite"`
	Postgres Postgres `yaml:"postgres"`
	S3       S3       `yaml:"s3"`
}

// SQLite configures the embedded database backend.
type SQLite struct {
	Path string `yaml:"path"`
}

// Postgres configures the PostgreSQL backend.
type Postgres struct {
	DSN string `yaml:"dsn"`
}

// S3 configures the object storage backend. Credentials come from the
// standard AWS chain (environment, shared config, instance role).
type S3 struct {
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	Prefix    string `yaml:"prefix"`
	PathStyle bool   `yaml:"path_style"`
}

// Log configures the process logger.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Metrics configures counter export.
type Metrics struct {
	// Textfile, when set, receives the counters in Prometheus text format
	// when the command exits.
	Textfile string `yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend:  BackendSQLite,
			Key:      "usuarios",
			SQLite:   SQLite{Path: "signup.db"},
			Postgres: Postgres{DSN: DefaultPostgresDSN},
			S3:       S3{Region: "us-east-1", Prefix: "signup/"},
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg from SIGNUP_* variables.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	strs := []struct {
		name string
		dst  *string
	}{
		{"SIGNUP_BACKEND", &c.Storage.Backend},
		{"SIGNUP_KEY", &c.Storage.Key},
		{"SIGNUP_DB", &c.Storage.SQLite.Path},
		{"SIGNUP_POSTGRES_DSN", &c.Storage.Postgres.DSN},
		{"SIGNUP_S3_BUCKET", &c.Storage.S3.Bucket},
		{"SIGNUP_S3_REGION", &c.Storage.S3.Region},
		{"SIGNUP_S3_ENDPOINT", &c.Storage.S3.Endpoint},
		{"SIGNUP_S3_PREFIX", &c.Storage.S3.Prefix},
		{"SIGNUP_LOG_LEVEL", &c.Log.Level},
		{"SIGNUP_LOG_FORMAT", &c.Log.Format},
		{"SIGNUP_METRICS_FILE", &c.Metrics.Textfile},
	}
	for _, s := range strs {
		if v, ok := lookup(s.name); ok {
			*s.dst = v
		}
	}

	if v, ok := lookup("SIGNUP_S3_PATH_STYLE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SIGNUP_S3_PATH_STYLE: %w", err)
		}
		c.Storage.S3.PathStyle = b
	}
	return nil
}

// Validate checks that the selected backend is fully configured.
func (c Config) Validate() error {
	s := c.Storage
	if s.Key == "" {
		return fmt.Errorf("storage.key is required")
	}

	switch s.Backend {
	case BackendMemory:
	case BackendSQLite:
		if s.SQLite.Path == "" {
			return fmt.Errorf("storage.sqlite.path is required for the sqlite backend")
		}
	case BackendPostgres:
		if s.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required for the postgres backend")
		}
	case BackendS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("storage.s3.bucket is required for the s3 backend")
		}
		if s.S3.Region == "" {
			return fmt.Errorf("storage.s3.region is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want one of %s)", s.Backend, strings.Join(Backends, ", "))
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return nil
}

// NewLogger builds the process logger. verbose forces debug level.
func (l Log) NewLogger(w io.Writer, verbose bool) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	switch l.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q (want text or json)", l.Format)
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}
