package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/signup/internal/prompt"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/session"
	"github.com/roach88/signup/internal/view"
)

const shellHelp = `Commands:
  name <value>        set the name field
  email <value>       set the email field
  age <value>         set the age field
  blur <field>        validate one field
  form                show the form
  submit              validate and save the form
  clear               clear the form
  list                show or hide saved users
  delete <n|key>      delete a saved user
  delete-all          delete every saved user
  help                show this help
  quit                leave the shell`

// NewShellCommand creates the shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Fill the form interactively",
		Long: `Start an interactive session: fill the form field by field, submit
it, and show or edit the saved users. Confirmations are asked on the
terminal.

Example:
  signup shell --db ./signup.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(cmd, rootOpts)
		},
	}

	return cmd
}

func runShell(cmd *cobra.Command, opts *RootOptions) (err error) {
	a, err := openApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.close(&err)

	renderer, err := view.NewRenderer()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load templates", err)
	}

	in := bufio.NewReader(cmd.InOrStdin())
	w := cmd.OutOrStdout()
	sh := &shell{
		sess:     session.New(a.store, prompt.NewTerminal(in, w), session.WithLogger(a.logger), session.WithMetrics(a.metrics)),
		w:        w,
		renderer: renderer,
	}

	fmt.Fprintln(w, "Sign-up form. Type \"help\" for commands.")
	for {
		fmt.Fprint(w, "signup> ")
		line, rerr := in.ReadString('\n')
		if rerr != nil && line == "" {
			fmt.Fprintln(w)
			if errors.Is(rerr, io.EOF) {
				return nil
			}
			return WrapExitError(ExitCommandError, "failed to read input", rerr)
		}

		if quit := sh.exec(a.ctx, line); quit {
			return nil
		}
	}
}

// shell dispatches interactive commands onto a session.
type shell struct {
	sess     *session.Session
	w        io.Writer
	renderer *view.Renderer
}

// exec runs one input line and reports whether the user asked to quit.
func (s *shell) exec(ctx context.Context, line string) bool {
	word, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimLeft(rest, " ")

	switch word {
	case "":
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(s.w, shellHelp)

	case string(record.FieldName), string(record.FieldEmail), string(record.FieldAge):
		s.sess.Fill(record.Field(word), rest)

	case "blur":
		name, err := record.ParseField(rest)
		if err != nil {
			fmt.Fprintln(s.w, err)
			return false
		}
		ev := s.sess.Blur(name)
		if ev.Outcome == session.OutcomeValid {
			fmt.Fprintf(s.w, "  %s: ok\n", name)
		}
		s.messages(ev)

	case "form":
		s.form()

	case "submit":
		ev := s.sess.Submit(ctx)
		s.messages(ev)
		s.redraw(ev)

	case "clear":
		s.sess.ClearForm()

	case "list", "toggle":
		ev := s.sess.Toggle(ctx)
		switch {
		case s.sess.Panel().Visible():
			s.panel()
		case ev.Outcome == session.OutcomeLoadFailed:
			fmt.Fprintf(s.w, "Saved users could not be read: %s\n", ev.Err)
		default:
			fmt.Fprintln(s.w, "(saved users hidden)")
		}

	case "delete":
		key, ok := s.resolve(ctx, rest)
		if !ok {
			return false
		}
		ev := s.sess.Delete(ctx, key)
		if ev.Outcome == session.OutcomeMissing {
			fmt.Fprintf(s.w, "No saved user matches %s.\n", key)
		}
		s.redraw(ev)

	case "delete-all":
		s.sess.DeleteAll(ctx)

	default:
		fmt.Fprintf(s.w, "Unknown command %q. Type \"help\" for commands.\n", word)
	}
	return false
}

// resolve turns a display number or a key into a key. Numbers refer to the
// listing on screen when it is shown, else to the list as it is now.
func (s *shell) resolve(ctx context.Context, target string) (string, bool) {
	if target == "" {
		fmt.Fprintln(s.w, "usage: delete <n|key>")
		return "", false
	}
	n, err := strconv.Atoi(target)
	if err != nil {
		return target, true
	}

	v := s.sess.Panel().View()
	if !s.sess.Panel().Visible() {
		list, err := s.sess.Store().LoadAll(ctx)
		if err != nil {
			fmt.Fprintf(s.w, "Saved users could not be read: %v\n", err)
			return "", false
		}
		v = view.Render(list)
	}

	key, ok := v.KeyAt(n)
	if !ok {
		fmt.Fprintf(s.w, "There is no user #%d.\n", n)
	}
	return key, ok
}

// redraw shows the panel again after a mutation if it is visible.
func (s *shell) redraw(ev session.Event) {
	switch ev.Outcome {
	case session.OutcomeSaved, session.OutcomeDeleted:
		if s.sess.Panel().Visible() {
			s.panel()
		}
	}
}

func (s *shell) panel() {
	if err := s.renderer.Text(s.w, s.sess.Panel().View()); err != nil {
		fmt.Fprintf(s.w, "render failed: %v\n", err)
	}
}

func (s *shell) messages(ev session.Event) {
	for _, line := range fieldMessages(ev.Messages) {
		fmt.Fprintf(s.w, "  %s\n", line)
	}
}

func (s *shell) form() {
	states := s.sess.Form().States()
	for _, name := range record.AllFields {
		st := states[name]
		fmt.Fprintf(s.w, "  %-5s %q", name, st.Value)
		if st.HasError() {
			fmt.Fprintf(s.w, "  (%s)", st.Message)
		}
		fmt.Fprintln(s.w)
	}
}
