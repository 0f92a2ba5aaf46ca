package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/signup/internal/prompt"
	"github.com/roach88/signup/internal/session"
	"github.com/roach88/signup/internal/view"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	HTML bool // write the listing markup instead of text
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show saved users",
		Long: `Show the saved users in order, numbered from 1. Each entry carries the
key that delete accepts.

If the stored list cannot be read, the error state is shown instead of
the entries.

Exit codes:
  0 - Listing shown
  1 - Saved list is unreadable
  2 - Command error (configuration, backend unavailable)

Examples:
  signup list
  signup list --html > users.html
  signup list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.HTML, "html", false, "write HTML markup")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) (err error) {
	a, err := openApp(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close(&err)

	sess := a.session(prompt.Static{})
	ev := sess.Toggle(a.ctx)
	v := sess.Panel().View()

	if ev.Outcome == session.OutcomeLoadFailed && v.Err == "" {
		return a.out.Fail(ExitFailure, ErrCodeStorage, "saved users could not be read", ev.Err)
	}

	if opts.Format == "json" {
		if v.Err != "" {
			return a.out.Fail(ExitFailure, ErrCodeCorrupt, "saved users could not be read", v.Err)
		}
		return a.out.Success(v, "")
	}

	r, err := view.NewRenderer()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load templates", err)
	}
	if opts.HTML {
		err = r.HTML(a.out.Writer, v)
	} else {
		err = r.Text(a.out.Writer, v)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to write listing", err)
	}

	if v.Err != "" {
		return reported{NewExitError(ExitFailure, "saved users could not be read")}
	}
	return nil
}
