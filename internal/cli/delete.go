package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/signup/internal/prompt"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/session"
	"github.com/roach88/signup/internal/view"
)

// DeleteResult is the delete command's payload.
type DeleteResult struct {
	Key string `json:"key"`
	ID  int64  `json:"id,omitempty"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <number|key>",
		Short: "Delete one saved user",
		Long: `Delete one saved user, given either its display number from list
("2") or its key ("record-7", "position-1"). The remaining users are
renumbered.

Exit codes:
  0 - User deleted
  1 - No such user, or the saved list could not be updated
  2 - Command error (bad argument, configuration, backend unavailable)

Examples:
  signup delete 2
  signup delete record-7`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd, rootOpts, args[0])
		},
	}

	return cmd
}

func runDelete(cmd *cobra.Command, opts *RootOptions, target string) (err error) {
	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close(&err)

	key, err := a.resolveTarget(target)
	if err != nil {
		return err
	}

	sess := a.session(prompt.Static{})
	ev := sess.Delete(a.ctx, key)

	switch ev.Outcome {
	case session.OutcomeDeleted:
		return a.out.Success(DeleteResult{Key: key, ID: ev.RecordID}, ev.Alerts[0])
	case session.OutcomeMissing:
		return a.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no saved user with key %q", key), nil)
	}
	return a.failStorage(ev)
}

// resolveTarget turns a display number or a key into a key. Numbers are
// resolved against the list as it is now.
func (a *app) resolveTarget(target string) (string, error) {
	if strings.HasPrefix(target, "record-") || strings.HasPrefix(target, "position-") {
		return target, nil
	}

	n, err := strconv.Atoi(target)
	if err != nil {
		return "", a.out.Fail(ExitCommandError, ErrCodeArgs,
			fmt.Sprintf("invalid target %q: want a number or a record-/position- key", target), nil)
	}

	list, err := a.store.LoadAll(a.ctx)
	if err != nil {
		code := ErrCodeStorage
		if record.IsCorrupt(err) {
			code = ErrCodeCorrupt
		}
		return "", a.out.Fail(ExitFailure, code, "saved users could not be read", err.Error())
	}

	key, ok := view.Render(list).KeyAt(n)
	if !ok {
		return "", a.out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no saved user #%d", n), nil)
	}
	return key, nil
}

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool // skip the confirmation prompt
}

// ClearResult is the clear command's payload.
type ClearResult struct {
	Outcome string `json:"outcome"`
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved users",
		Long: `Delete every saved user after confirmation. Also recovers a saved
list that can no longer be read.

Exit codes:
  0 - Cleared, nothing to clear, or cancelled
  1 - The saved list could not be updated
  2 - Command error (configuration, backend unavailable)

Examples:
  signup clear
  signup clear --yes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func runClear(cmd *cobra.Command, opts *ClearOptions) (err error) {
	a, err := openApp(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close(&err)

	var p prompt.Prompter = prompt.Static{Answer: true}
	if !opts.Yes {
		p = prompt.NewTerminal(bufio.NewReader(cmd.InOrStdin()), cmd.ErrOrStderr())
	}

	sess := a.session(p)
	ev := sess.DeleteAll(a.ctx)

	result := ClearResult{Outcome: string(ev.Outcome)}
	switch ev.Outcome {
	case session.OutcomeDeletedAll:
		return a.out.Success(result, session.MsgDeletedAll)
	case session.OutcomeNoData:
		return a.out.Success(result, session.MsgNoData)
	case session.OutcomeCancelled:
		return a.out.Success(result, "Cancelled; nothing was deleted.")
	}
	return a.failStorage(ev)
}
