package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/signup/internal/record"
)

func TestField_Name(t *testing.T) {
	tests := []struct {
		raw     string
		valid   bool
		message string
	}{
		{"Ana", true, ""},
		{"  Ana  ", true, ""},
		{"", false, MsgNameRequired},
		{"   \t", false, MsgNameRequired},
		{" ", false, MsgNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			st := Field(record.FieldName, tt.raw)
			assert.Equal(t, tt.valid, st.Valid)
			assert.Equal(t, tt.message, st.Message)
			assert.Equal(t, tt.raw, st.Value, "state keeps the raw value")
		})
	}
}

func TestField_Email(t *testing.T) {
	tests := []struct {
		raw     string
		valid   bool
		message string
	}{
		{"ana@x.com", true, ""},
		{" ana@x.com ", true, ""},
		{"a.b+c@mail.example.org", true, ""},
		{"", false, MsgEmailRequired},
		{"bad-email", false, MsgEmailFormat},
		{"ana@x", false, MsgEmailFormat},
		{"@x.com", false, MsgEmailFormat},
		{"ana@@x.com", false, MsgEmailFormat},
		{"ana maria@x.com", false, MsgEmailFormat},
		{"ana@x.", false, MsgEmailFormat},
		{"ana\u00a0b@x.com", false, MsgEmailFormat},
		{"ana@x\u2003y.com", false, MsgEmailFormat},
		{"ana@x.c\u3000om", false, MsgEmailFormat},
		{"ana\vb@x.com", false, MsgEmailFormat},
		{"\u00a0ana@x.com\u2003", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			st := Field(record.FieldEmail, tt.raw)
			assert.Equal(t, tt.valid, st.Valid)
			assert.Equal(t, tt.message, st.Message)
		})
	}
}

func TestField_Age(t *testing.T) {
	tests := []struct {
		raw     string
		valid   bool
		message string
	}{
		{"30", true, ""},
		{" 1 ", true, ""},
		{"", false, MsgAgeRequired},
		{"0", false, MsgAgeInvalid},
		{"-3", false, MsgAgeInvalid},
		{"2.5", false, MsgAgeInvalid},
		{"30abc", false, MsgAgeInvalid},
		{"abc", false, MsgAgeInvalid},
		{"99999999999999999999999", false, MsgAgeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			st := Field(record.FieldAge, tt.raw)
			assert.Equal(t, tt.valid, st.Valid)
			assert.Equal(t, tt.message, st.Message)
		})
	}
}

func TestField_UnknownField(t *testing.T) {
	st := Field(record.Field("phone"), "123")
	assert.False(t, st.Valid)
	assert.Equal(t, "unknown field phone.", st.Message)
}

func TestField_IsPure(t *testing.T) {
	inputs := []string{"", "Ana", "bad-email", "2.5", "ana@x.com"}
	for _, name := range record.AllFields {
		for _, in := range inputs {
			first := Field(name, in)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first, Field(name, in))
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	// A combining acute accent composes to the single precomposed code point.
	decomposed := "Jose\u0301"
	assert.Equal(t, "Jos\u00e9", Normalize("  "+decomposed+"\n"))
	assert.Equal(t, "", Normalize(" \t "))
	assert.Equal(t, "Ana\uFFFD", Normalize("Ana\xff"), "invalid UTF-8 is replaced")
}

func TestForm_AllValid(t *testing.T) {
	res := Form(record.Fields{Name: "Ana", Email: "ana@x.com", Age: "30"})
	assert.True(t, res.Valid)
	assert.False(t, res.Empty)
	assert.Len(t, res.States, 3)
	assert.NoError(t, res.Err())
}

func TestForm_ValidatesEveryFieldWithoutShortCircuit(t *testing.T) {
	res := Form(record.Fields{Name: "", Email: "bad-email", Age: "0"})
	assert.False(t, res.Valid)
	assert.False(t, res.Empty)
	assert.Equal(t, MsgNameRequired, res.States[record.FieldName].Message)
	assert.Equal(t, MsgEmailFormat, res.States[record.FieldEmail].Message)
	assert.Equal(t, MsgAgeInvalid, res.States[record.FieldAge].Message)
}

func TestForm_OnlyEmailInvalid(t *testing.T) {
	res := Form(record.Fields{Name: "Ana", Email: "bad-email", Age: "30"})
	require.False(t, res.Valid)

	var ve *record.ValidationError
	require.True(t, errors.As(res.Err(), &ve))
	assert.Equal(t, map[record.Field]string{record.FieldEmail: MsgEmailFormat}, ve.Messages())
}

func TestForm_EmptyFormIsNotMarkedPerField(t *testing.T) {
	res := Form(record.Fields{Name: " ", Email: "", Age: "\t"})
	assert.False(t, res.Valid)
	assert.True(t, res.Empty)
	for _, name := range record.AllFields {
		assert.True(t, res.States[name].Valid, "field %s should stay unmarked", name)
		assert.Empty(t, res.States[name].Message)
	}
	assert.ErrorIs(t, res.Err(), record.ErrEmptyForm)
}

func TestRecord_NormalizesValues(t *testing.T) {
	r, err := Record(record.Fields{Name: "  Jose\u0301 ", Email: " jose@x.com", Age: " 41 "})
	require.NoError(t, err)
	assert.Equal(t, record.Record{Name: "Jos\u00e9", Email: "jose@x.com", Age: 41}, r)
}

func TestRecord_RejectsInvalid(t *testing.T) {
	_, err := Record(record.Fields{Name: "Ana", Email: "ana@x.com", Age: "2.5"})
	require.Error(t, err)
	assert.True(t, record.IsValidation(err))

	_, err = Record(record.Fields{})
	assert.ErrorIs(t, err, record.ErrEmptyForm)
}
