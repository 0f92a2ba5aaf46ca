package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/signup/internal/backend"
	"github.com/roach88/signup/internal/config"
	"github.com/roach88/signup/internal/metrics"
	"github.com/roach88/signup/internal/prompt"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/records"
	"github.com/roach88/signup/internal/session"
)

// app is what a storage-backed command runs against: the resolved
// configuration, the opened backend and the record store over it.
type app struct {
	ctx     context.Context
	cfg     config.Config
	logger  *slog.Logger
	handle  backend.Handle
	store   *records.Store
	metrics *metrics.Metrics
	out     *OutputFormatter
}

// newFormatter builds the formatter for cmd's writers.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openApp resolves configuration and opens the storage backend.
// Failures are reported through the formatter with ExitCommandError.
func openApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	out := newFormatter(cmd, opts)

	cfg, err := opts.LoadConfig()
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err.Error())
	}

	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr(), opts.Verbose)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeConfig, "invalid configuration", err.Error())
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	handle, err := backend.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, out.Fail(ExitCommandError, ErrCodeStorage, "storage backend unavailable", err.Error())
	}
	logger.Debug("backend opened", "backend", cfg.Storage.Backend, "key", cfg.Storage.Key)

	return &app{
		ctx:     ctx,
		cfg:     cfg,
		logger:  logger,
		handle:  handle,
		store:   records.New(handle, records.WithKey(cfg.Storage.Key)),
		metrics: metrics.New(),
		out:     out,
	}, nil
}

// session starts a session over the store. Alerts are dropped: commands
// report outcomes through the formatter.
func (a *app) session(p prompt.Prompter) *session.Session {
	return session.New(a.store, quiet{p},
		session.WithLogger(a.logger),
		session.WithMetrics(a.metrics),
	)
}

// close writes the metrics textfile if configured and releases the backend.
// It folds any failure into err unless err is already set.
func (a *app) close(err *error) {
	var errs []error
	if path := a.cfg.Metrics.Textfile; path != "" {
		if werr := a.metrics.WriteTextfile(path); werr != nil {
			errs = append(errs, werr)
		}
	}
	if cerr := a.handle.Close(); cerr != nil {
		errs = append(errs, cerr)
	}

	joined := errors.Join(errs...)
	if joined == nil {
		return
	}
	a.logger.Error("shutdown failed", "error", joined)
	if *err == nil {
		*err = WrapExitError(ExitCommandError, "shutdown failed", joined)
	}
}

// failStorage reports a storage failure from a session event. A corrupt
// list gets its own code, since clearing is the way out of it.
func (a *app) failStorage(ev session.Event) error {
	code := ErrCodeStorage
	if _, err := a.store.LoadAll(a.ctx); record.IsCorrupt(err) {
		code = ErrCodeCorrupt
	}
	return a.out.Fail(ExitFailure, code, "saved users could not be updated", ev.Err)
}

// quiet forwards confirmations and drops alerts.
type quiet struct {
	prompt.Prompter
}

func (quiet) Alert(string) {}

// fieldMessages orders ev.Messages by form field for display.
func fieldMessages(messages map[string]string) []string {
	var lines []string
	for _, f := range record.AllFields {
		if msg, ok := messages[string(f)]; ok {
			lines = append(lines, string(f)+": "+msg)
		}
	}
	return lines
}
