// Package form implements the form controller: it holds the current field
// values and their validation states, and turns a submission into a stored
// record.
//
// The controller does not render anything and does not decide when the
// record listing is refreshed; callers inspect the returned record or error
// and re-render themselves.
package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/records"
	"github.com/roach88/signup/internal/validate"
)

// ClearOutcome reports what HandleClear did.
type ClearOutcome int

const (
	// NothingToClear means every field was empty and no error was showing.
	NothingToClear ClearOutcome = iota
	// Cleared means values and error states were reset.
	Cleared
)

func (o ClearOutcome) String() string {
	switch o {
	case NothingToClear:
		return "nothing_to_clear"
	case Cleared:
		return "cleared"
	}
	return fmt.Sprintf("ClearOutcome(%d)", int(o))
}

// Controller owns the transient form state.
//
// Thread-safety: Controller is not safe for concurrent use. It is driven by
// one event loop.
type Controller struct {
	store  *records.Store
	values record.Fields
	states map[record.Field]record.FieldState
}

// New returns a controller with an empty form.
func New(store *records.Store) *Controller {
	c := &Controller{store: store}
	c.Reset()
	return c
}

// Set stores a raw value for a field without validating it.
func (c *Controller) Set(name record.Field, value string) {
	c.values.Set(name, value)
}

// Values returns the current raw values.
func (c *Controller) Values() record.Fields {
	return c.values
}

// State returns the last validation state of a field. Value always reflects
// the current raw value, even when it changed after the last validation.
func (c *Controller) State(name record.Field) record.FieldState {
	if st, ok := c.states[name]; ok {
		st.Value = c.values.Get(name)
		return st
	}
	return record.Untouched(c.values.Get(name))
}

// States returns a copy of all field states.
func (c *Controller) States() map[record.Field]record.FieldState {
	out := make(map[record.Field]record.FieldState, len(record.AllFields))
	for _, name := range record.AllFields {
		out[name] = c.State(name)
	}
	return out
}

// HasErrors reports whether any field is showing an error.
func (c *Controller) HasErrors() bool {
	for _, name := range record.AllFields {
		if c.State(name).HasError() {
			return true
		}
	}
	return false
}

// Blur validates a single field, as when the user leaves the input, and
// records its state.
func (c *Controller) Blur(name record.Field) record.FieldState {
	st := validate.Field(name, c.values.Get(name))
	c.states[name] = st
	return st
}

// HandleSubmit fills the form with raw and submits it.
func (c *Controller) HandleSubmit(ctx context.Context, raw record.Fields) (record.Record, error) {
	c.values = raw
	return c.Submit(ctx)
}

// Submit validates the current values and, when they pass, appends the
// record to the store and resets the form.
//
// Failure modes:
//   - record.ErrEmptyForm: every field blank; field states are cleared, not marked.
//   - *record.ValidationError: field states are marked for display.
//   - any other error: the store failed; the form keeps its values.
//
// The store is only touched when validation passes.
func (c *Controller) Submit(ctx context.Context) (record.Record, error) {
	res := validate.Form(c.values)
	c.states = res.States

	if err := res.Err(); err != nil {
		return record.Record{}, err
	}

	rec, err := validate.Record(c.values)
	if err != nil {
		// Form already passed; this only happens if the rules disagree.
		return record.Record{}, err
	}

	stored, err := c.store.Append(ctx, rec)
	if err != nil {
		return record.Record{}, fmt.Errorf("save record: %w", err)
	}

	c.Reset()
	return stored, nil
}

// HandleClear resets the form unless there is nothing to clear.
// A form counts as dirty when any field has content or shows an error.
func (c *Controller) HandleClear() ClearOutcome {
	if c.isPristine() {
		return NothingToClear
	}
	c.Reset()
	return Cleared
}

func (c *Controller) isPristine() bool {
	for _, name := range record.AllFields {
		if validate.Normalize(c.values.Get(name)) != "" {
			return false
		}
	}
	return !c.HasErrors()
}

// Reset empties every field and clears every error state.
func (c *Controller) Reset() {
	c.values = record.Fields{}
	c.states = make(map[record.Field]record.FieldState, len(record.AllFields))
}

// IsEmptyForm reports whether err is the whole-form empty failure.
func IsEmptyForm(err error) bool {
	return errors.Is(err, record.ErrEmptyForm)
}
