package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/signup/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	ConfigPath  string
	Backend     string
	DB          string
	Key         string
	MetricsFile string

	// LookupEnv reads SIGNUP_* overrides. Defaults to os.LookupEnv.
	LookupEnv config.LookupFunc
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the signup CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{LookupEnv: os.LookupEnv})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Sign-up form and saved-user list",
		Long: `Collects user sign-ups (name, email, age), validates them and keeps
the saved users in a single list under one storage key.

Configuration is read from --config, then SIGNUP_* environment variables,
then command-line flags; later sources win.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	pf.StringVar(&opts.Backend, "backend", "", "storage backend (memory|sqlite|postgres|s3)")
	pf.StringVar(&opts.DB, "db", "", "SQLite database path")
	pf.StringVar(&opts.Key, "key", "", "storage key holding the saved-user list")
	pf.StringVar(&opts.MetricsFile, "metrics-file", "", "write counters in Prometheus text format on exit")

	cmd.AddCommand(NewSubmitCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// LoadConfig resolves the effective configuration: defaults, then the
// config file, then the environment, then explicit flags. An empty flag
// leaves the earlier value in place.
func (o *RootOptions) LoadConfig() (config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return cfg, err
	}

	if o.LookupEnv != nil {
		if err := cfg.ApplyEnv(o.LookupEnv); err != nil {
			return cfg, err
		}
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{o.Backend, &cfg.Storage.Backend},
		{o.DB, &cfg.Storage.SQLite.Path},
		{o.Key, &cfg.Storage.Key},
		{o.MetricsFile, &cfg.Metrics.Textfile},
	}
	for _, ov := range overrides {
		if ov.flag != "" {
			*ov.dst = ov.flag
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
