package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/signup/internal/prompt"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/session"
	"github.com/roach88/signup/internal/validate"
)

// FormOptions holds the form field flags shared by submit and validate.
type FormOptions struct {
	*RootOptions
	Fields record.Fields
}

func addFormFlags(cmd *cobra.Command, opts *FormOptions) {
	cmd.Flags().StringVar(&opts.Fields.Name, "name", "", "user name")
	cmd.Flags().StringVar(&opts.Fields.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Fields.Age, "age", "", "age in years (at least 1)")
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit --name NAME --email EMAIL --age AGE",
		Short: "Validate and save one user",
		Long: `Validate the form fields and append the user to the saved list.

Every field is checked; all failures are reported at once. A form with
every field blank is rejected as empty.

Exit codes:
  0 - User saved
  1 - Form rejected, or the saved list could not be updated
  2 - Command error (configuration, backend unavailable)

Examples:
  signup submit --name Ana --email ana@example.com --age 30
  signup submit --name Ana --email ana@example.com --age 30 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts)
		},
	}
	addFormFlags(cmd, opts)

	return cmd
}

func runSubmit(cmd *cobra.Command, opts *FormOptions) (err error) {
	a, err := openApp(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.close(&err)

	sess := a.session(prompt.Static{})
	ev := sess.SubmitFields(a.ctx, opts.Fields)

	switch ev.Outcome {
	case session.OutcomeSaved:
		return a.out.Success(ev.Record, fmt.Sprintf("%s (id %d)", session.MsgSaved, ev.Record.ID))
	case session.OutcomeEmptyForm:
		return a.out.Fail(ExitFailure, ErrCodeValidation, session.MsgEmptyForm, nil)
	case session.OutcomeInvalid:
		return a.out.Fail(ExitFailure, ErrCodeValidation, "form has invalid fields", ev.Messages)
	}
	return a.failStorage(ev)
}

// ValidationReport is the validate command's payload.
type ValidationReport struct {
	Valid  bool                         `json:"valid"`
	Fields map[string]record.FieldState `json:"fields"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FormOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate --name NAME --email EMAIL --age AGE",
		Short: "Check form fields without saving",
		Long: `Run the form validation rules and report the state of every field.
Nothing is stored; no backend is opened.

Exit codes:
  0 - All fields valid
  1 - Form rejected

Examples:
  signup validate --name Ana --email ana@ --age 30
  signup validate --email ana@example.com --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}
	addFormFlags(cmd, opts)

	return cmd
}

func runValidate(cmd *cobra.Command, opts *FormOptions) error {
	out := newFormatter(cmd, opts.RootOptions)
	res := validate.Form(opts.Fields)

	switch {
	case res.Valid:
		report := ValidationReport{Valid: true, Fields: make(map[string]record.FieldState, len(res.States))}
		for name, st := range res.States {
			report.Fields[string(name)] = st
		}
		return out.Success(report, "Form is valid.")
	case res.Empty:
		return out.Fail(ExitFailure, ErrCodeValidation, session.MsgEmptyForm, nil)
	}

	messages := make(map[string]string)
	for name, st := range res.States {
		if st.HasError() {
			messages[string(name)] = st.Message
		}
	}
	return out.Fail(ExitFailure, ErrCodeValidation, "form has invalid fields", messages)
}
