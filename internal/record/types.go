package record

import "fmt"

// Record is one saved user entry.
//
// ID is assigned by the record store on append (max existing ID + 1).
// Records written before IDs existed carry ID 0 and omit the field on disk.
type Record struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Age   int    `json:"age" yaml:"age"`
}

// Field identifies one form input.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldAge   Field = "age"
)

// AllFields lists the form inputs in display order.
var AllFields = []Field{FieldName, FieldEmail, FieldAge}

// ParseField maps user input onto a known field.
func ParseField(s string) (Field, error) {
	for _, f := range AllFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown field %q: must be one of %v", s, AllFields)
}

// Fields holds the raw, untrimmed values of the form inputs.
type Fields struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Age   string `json:"age" yaml:"age"`
}

// Get returns the raw value of the named field.
func (f Fields) Get(name Field) string {
	switch name {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldAge:
		return f.Age
	}
	return ""
}

// Set stores a raw value for the named field. Unknown names are ignored.
func (f *Fields) Set(name Field, value string) {
	switch name {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldAge:
		f.Age = value
	}
}

// FieldState is the outcome of validating one field.
// The zero value is an untouched field: empty, valid, no message.
type FieldState struct {
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Untouched returns the state of a field that has not been validated.
func Untouched(value string) FieldState {
	return FieldState{Value: value, Valid: true}
}

// HasError reports whether the field is showing an error message.
func (s FieldState) HasError() bool {
	return !s.Valid && s.Message != ""
}
