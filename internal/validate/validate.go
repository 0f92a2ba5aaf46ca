// Package validate checks raw form values against the field rules.
//
// Every function in this package is pure: the same input always yields the
// same FieldState and nothing outside the return value is touched.
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/signup/internal/record"
)

// Field messages.
const (
	MsgNameRequired  = "name is required."
	MsgEmailRequired = "email is required."
	MsgEmailFormat   = "invalid email format."
	MsgAgeRequired   = "age is required."
	MsgAgeInvalid    = "age must be a positive integer (minimum 1)."
)

// MinAge is the smallest accepted age.
const MinAge = 1

// emailPattern requires local@domain.tld where each part is a run without
// whitespace or '@'. RE2 \s is ASCII only, so Unicode separators, vertical
// tab, NEL and BOM are excluded explicitly.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{0085}\x{FEFF}@]+@[^\s\v\p{Z}\x{0085}\x{FEFF}@]+\.[^\s\v\p{Z}\x{0085}\x{FEFF}@]+$`)

// Normalize replaces invalid UTF-8 with U+FFFD, trims surrounding whitespace
// and applies Unicode NFC, so that visually identical names compare and store
// identically and a stored record reads back unchanged.
func Normalize(raw string) string {
	return norm.NFC.String(strings.TrimSpace(strings.ToValidUTF8(raw, "\uFFFD")))
}

// Field validates one raw value.
// Unknown field names are reported invalid.
func Field(name record.Field, raw string) record.FieldState {
	value := Normalize(raw)
	state := record.FieldState{Value: raw, Valid: true}

	switch name {
	case record.FieldName:
		if value == "" {
			return fail(state, MsgNameRequired)
		}
	case record.FieldEmail:
		if value == "" {
			return fail(state, MsgEmailRequired)
		}
		if !emailPattern.MatchString(value) {
			return fail(state, MsgEmailFormat)
		}
	case record.FieldAge:
		if value == "" {
			return fail(state, MsgAgeRequired)
		}
		if _, ok := parseAge(value); !ok {
			return fail(state, MsgAgeInvalid)
		}
	default:
		return fail(state, "unknown field "+string(name)+".")
	}

	return state
}

func fail(state record.FieldState, message string) record.FieldState {
	state.Valid = false
	state.Message = message
	return state
}

// parseAge accepts base-10 integers >= MinAge only. "2.5", "30abc" and
// out-of-range values are rejected.
func parseAge(value string) (int, bool) {
	age, err := strconv.Atoi(value)
	if err != nil || age < MinAge {
		return 0, false
	}
	return age, true
}

// Result is the outcome of validating a whole form.
type Result struct {
	// Valid is true only when every field passed.
	Valid bool

	// Empty is true when every field was blank. An empty form is invalid,
	// and its field states are left unmarked.
	Empty bool

	// States holds one entry per field.
	States map[record.Field]record.FieldState
}

// Form validates every field independently (no short-circuit).
func Form(fields record.Fields) Result {
	res := Result{
		Valid:  true,
		Empty:  true,
		States: make(map[record.Field]record.FieldState, len(record.AllFields)),
	}

	for _, name := range record.AllFields {
		raw := fields.Get(name)
		if Normalize(raw) != "" {
			res.Empty = false
		}
		st := Field(name, raw)
		res.States[name] = st
		if !st.Valid {
			res.Valid = false
		}
	}

	if res.Empty {
		res.Valid = false
		for _, name := range record.AllFields {
			res.States[name] = record.Untouched(fields.Get(name))
		}
	}

	return res
}

// Err converts an invalid Result into its error. Returns nil when valid.
func (r Result) Err() error {
	switch {
	case r.Valid:
		return nil
	case r.Empty:
		return record.ErrEmptyForm
	default:
		return &record.ValidationError{States: r.States}
	}
}

// Record builds the normalized record from raw fields.
// Returns record.ErrEmptyForm or a *record.ValidationError when the form
// does not pass.
func Record(fields record.Fields) (record.Record, error) {
	res := Form(fields)
	if err := res.Err(); err != nil {
		return record.Record{}, err
	}

	age, _ := parseAge(Normalize(fields.Age))
	return record.Record{
		Name:  Normalize(fields.Name),
		Email: Normalize(fields.Email),
		Age:   age,
	}, nil
}
