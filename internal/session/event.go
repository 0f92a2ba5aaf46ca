package session

import "github.com/roach88/signup/internal/record"

// Kind names a user-interface event.
type Kind string

const (
	KindFill      Kind = "fill"
	KindBlur      Kind = "blur"
	KindSubmit    Kind = "submit"
	KindClearForm Kind = "clear_form"
	KindToggle    Kind = "toggle"
	KindDelete    Kind = "delete"
	KindDeleteAll Kind = "delete_all"
)

// Outcome is the result of handling an event.
type Outcome string

const (
	OutcomeNone Outcome = ""

	// blur
	OutcomeValid   Outcome = "valid"
	OutcomeInvalid Outcome = "invalid"

	// submit
	OutcomeSaved     Outcome = "saved"
	OutcomeEmptyForm Outcome = "empty_form"

	// clear_form
	OutcomeCleared        Outcome = "cleared"
	OutcomeNothingToClear Outcome = "nothing_to_clear"

	// toggle
	OutcomeShown      Outcome = "shown"
	OutcomeHidden     Outcome = "hidden"
	OutcomeLoadFailed Outcome = "load_failed"

	// delete
	OutcomeDeleted Outcome = "deleted"
	OutcomeMissing Outcome = "missing"

	// delete_all
	OutcomeDeletedAll Outcome = "deleted_all"
	OutcomeCancelled  Outcome = "cancelled"
	OutcomeNoData     Outcome = "no_data"

	// OutcomeFailed means the record store could not be read or written.
	OutcomeFailed Outcome = "failed"
)

// Event is one handled user action and what came of it.
type Event struct {
	Seq     int64             `json:"seq" yaml:"seq"`
	Kind    Kind              `json:"kind" yaml:"kind"`
	Args    map[string]string `json:"args,omitempty" yaml:"args,omitempty"`
	Outcome Outcome           `json:"outcome,omitempty" yaml:"outcome,omitempty"`

	// Messages holds per-field validation messages for invalid input.
	Messages map[string]string `json:"messages,omitempty" yaml:"messages,omitempty"`

	// RecordID is the ID of the record saved or deleted, when it has one.
	RecordID int64 `json:"record_id,omitempty" yaml:"record_id,omitempty"`

	// Record is the record as stored, set on a save. Traces carry only its ID.
	Record *record.Record `json:"-" yaml:"-"`

	Alerts   []string `json:"alerts,omitempty" yaml:"alerts,omitempty"`
	Confirms []string `json:"confirms,omitempty" yaml:"confirms,omitempty"`
	Err      string   `json:"error,omitempty" yaml:"error,omitempty"`
}
