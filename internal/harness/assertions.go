package harness

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/session"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string          // Assertion type for categorization
	Expected string          // Human-readable expected outcome
	Actual   string          // Human-readable actual outcome
	Trace    []session.Event // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v -> %s\n", ev.Seq, ev.Kind, ev.Args, ev.Outcome)
		}
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion against the result and returns
// the failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertAlertContains:
		return assertAlertContains(result, a)
	case AssertEventCount:
		return assertEventCount(result, a)
	case AssertFinalRecords:
		return assertFinalRecords(result, a)
	case AssertRecordCount:
		return assertRecordCount(result, a)
	case AssertFieldMessage:
		return assertFieldMessage(result, a)
	case AssertPanelVisible:
		return assertPanelVisible(result, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertAlertContains checks that some alert contains the text.
func assertAlertContains(result *Result, a Assertion) error {
	alerts := result.Alerts()
	for _, msg := range alerts {
		if strings.Contains(msg, a.Text) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertAlertContains,
		Expected: fmt.Sprintf("an alert containing %q", a.Text),
		Actual:   fmt.Sprintf("alerts %q", alerts),
		Trace:    result.Trace,
	}
}

// assertEventCount checks that the event kind occurs exactly Count times.
func assertEventCount(result *Result, a Assertion) error {
	count := 0
	for _, ev := range result.Trace {
		if string(ev.Kind) == a.Event {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertEventCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFinalRecords checks the stored list exactly, order included.
func assertFinalRecords(result *Result, a Assertion) error {
	if result.LoadErr != "" {
		return &AssertionError{
			Type:     AssertFinalRecords,
			Expected: fmt.Sprintf("records %v", a.Records),
			Actual:   fmt.Sprintf("load error: %s", result.LoadErr),
		}
	}

	want := a.Records
	if want == nil {
		want = []record.Record{}
	}
	got := result.Records
	if got == nil {
		got = []record.Record{}
	}
	if !reflect.DeepEqual(want, got) {
		return &AssertionError{
			Type:     AssertFinalRecords,
			Expected: fmt.Sprintf("records %+v", want),
			Actual:   fmt.Sprintf("records %+v", got),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertRecordCount(result *Result, a Assertion) error {
	if result.LoadErr != "" {
		return &AssertionError{
			Type:     AssertRecordCount,
			Expected: fmt.Sprintf("%d records", a.Count),
			Actual:   fmt.Sprintf("load error: %s", result.LoadErr),
		}
	}
	if len(result.Records) != a.Count {
		return &AssertionError{
			Type:     AssertRecordCount,
			Expected: fmt.Sprintf("%d records", a.Count),
			Actual:   fmt.Sprintf("%d records", len(result.Records)),
			Trace:    result.Trace,
		}
	}
	return nil
}

// assertFieldMessage checks the message a field shows after the flow.
// An empty Message asserts the field shows no error.
func assertFieldMessage(result *Result, a Assertion) error {
	st := result.FieldStates[record.Field(a.Field)]
	if st.Message != a.Message {
		return &AssertionError{
			Type:     AssertFieldMessage,
			Expected: fmt.Sprintf("%s message %q", a.Field, a.Message),
			Actual:   fmt.Sprintf("%s message %q", a.Field, st.Message),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertPanelVisible(result *Result, a Assertion) error {
	if result.PanelVisible != a.Visible {
		return &AssertionError{
			Type:     AssertPanelVisible,
			Expected: fmt.Sprintf("visible=%t", a.Visible),
			Actual:   fmt.Sprintf("visible=%t", result.PanelVisible),
			Trace:    result.Trace,
		}
	}
	return nil
}
