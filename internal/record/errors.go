package record

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyForm is returned when every field of a submission is empty.
// It is reported once for the whole form; no field is marked individually.
var ErrEmptyForm = errors.New("form is completely empty")

// ValidationError carries the per-field states of a rejected submission.
type ValidationError struct {
	States map[Field]FieldState
}

// Error implements the error interface.
// Failing fields are listed in display order.
func (e *ValidationError) Error() string {
	var parts []string
	for _, name := range AllFields {
		st, ok := e.States[name]
		if !ok || st.Valid {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, st.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages returns field → message for every failing field.
func (e *ValidationError) Messages() map[Field]string {
	out := make(map[Field]string)
	for name, st := range e.States {
		if !st.Valid {
			out[name] = st.Message
		}
	}
	return out
}

// CorruptDataError reports a stored value that is present but is not a
// well-formed list of records.
type CorruptDataError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *CorruptDataError) Error() string {
	return fmt.Sprintf("corrupt data under key %q: %v", e.Key, e.Err)
}

func (e *CorruptDataError) Unwrap() error {
	return e.Err
}

// IndexOutOfRangeError reports a delete target that does not exist.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

// Error implements the error interface.
func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range [0,%d)", e.Index, e.Length)
}

// IsCorrupt returns true if err is or wraps a CorruptDataError.
func IsCorrupt(err error) bool {
	var ce *CorruptDataError
	return errors.As(err, &ce)
}

// IsOutOfRange returns true if err is or wraps an IndexOutOfRangeError.
func IsOutOfRange(err error) bool {
	var oe *IndexOutOfRangeError
	return errors.As(err, &oe)
}

// IsValidation returns true if err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
