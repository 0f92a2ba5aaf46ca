package harness

import (
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/session"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains every handled event in order.
	Trace []session.Event `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Records is the stored list after the flow. Nil when it could not be read.
	Records []record.Record `json:"records"`

	// LoadErr is set when the final list could not be read.
	LoadErr string `json:"load_error,omitempty"`

	// PanelVisible is the final panel visibility.
	PanelVisible bool `json:"panel_visible"`

	// FieldStates is the final form state.
	FieldStates map[record.Field]record.FieldState `json:"field_states"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:        true,
		Trace:       []session.Event{},
		Errors:      []string{},
		FieldStates: make(map[record.Field]record.FieldState),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Alerts returns every alert raised during the flow, in order.
func (r *Result) Alerts() []string {
	var out []string
	for _, ev := range r.Trace {
		out = append(out, ev.Alerts...)
	}
	return out
}
