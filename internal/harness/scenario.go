package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/session"
)

// Scenario defines a form session test.
// A scenario seeds the record store, plays a flow of user-interface events
// and asserts on the resulting trace and final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SessionID is an optional fixed session ID. Defaults to "test-session".
	SessionID string `yaml:"session_id,omitempty"`

	// Seed lists records stored before the flow runs, verbatim. Records
	// without an id behave as legacy entries.
	Seed []record.Record `yaml:"seed,omitempty"`

	// SeedRaw stores a raw value under the records key instead of Seed.
	// Use it to start from corrupt data.
	SeedRaw string `yaml:"seed_raw,omitempty"`

	// Flow contains the events to play, in order.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one user-interface event.
type FlowStep struct {
	// Event is the event kind: fill, blur, submit, clear_form, toggle,
	// delete, delete_all.
	Event string `yaml:"event"`

	// Args holds event arguments:
	//   fill:   field, value
	//   blur:   field
	//   submit: name, email, age (optional; submits current values if absent)
	//   delete: key, or number (1-based display position)
	Args map[string]string `yaml:"args,omitempty"`

	// Confirm answers the confirmation prompt raised by this step.
	// Unset means the user declines.
	Confirm *bool `yaml:"confirm,omitempty"`

	// Expect specifies the expected outcome. If nil, no check is made.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected result of a step.
type ExpectClause struct {
	// Outcome is the expected outcome name (e.g. "saved", "empty_form").
	Outcome string `yaml:"outcome"`

	// Messages are expected field messages. Subset match.
	Messages map[string]string `yaml:"messages,omitempty"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "alert_contains": some alert contains Text
	// - "event_count": Event occurs exactly Count times
	// - "final_records": stored list equals Records
	// - "record_count": stored list has Count records
	// - "field_message": Field shows Message in the final form state
	// - "panel_visible": panel visibility equals Visible
	Type string `yaml:"type"`

	Text    string          `yaml:"text,omitempty"`
	Event   string          `yaml:"event,omitempty"`
	Count   int             `yaml:"count,omitempty"`
	Records []record.Record `yaml:"records,omitempty"`
	Field   string          `yaml:"field,omitempty"`
	Message string          `yaml:"message,omitempty"`
	Visible bool            `yaml:"visible,omitempty"`
}

// Assertion type constants.
const (
	AssertAlertContains = "alert_contains"
	AssertEventCount    = "event_count"
	AssertFinalRecords  = "final_records"
	AssertRecordCount   = "record_count"
	AssertFieldMessage  = "field_message"
	AssertPanelVisible  = "panel_visible"
)

var eventKinds = map[string]session.Kind{
	string(session.KindFill):      session.KindFill,
	string(session.KindBlur):      session.KindBlur,
	string(session.KindSubmit):    session.KindSubmit,
	string(session.KindClearForm): session.KindClearForm,
	string(session.KindToggle):    session.KindToggle,
	string(session.KindDelete):    session.KindDelete,
	string(session.KindDeleteAll): session.KindDeleteAll,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Seed) > 0 && s.SeedRaw != "" {
		return fmt.Errorf("seed and seed_raw are mutually exclusive")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(i int, step FlowStep) error {
	kind, ok := eventKinds[step.Event]
	if !ok {
		return fmt.Errorf("flow[%d]: unknown event %q", i, step.Event)
	}

	switch kind {
	case session.KindFill:
		if _, err := record.ParseField(step.Args["field"]); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
		if _, ok := step.Args["value"]; !ok {
			return fmt.Errorf("flow[%d]: fill requires args.value", i)
		}
	case session.KindBlur:
		if _, err := record.ParseField(step.Args["field"]); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	case session.KindDelete:
		_, hasKey := step.Args["key"]
		_, hasNumber := step.Args["number"]
		if hasKey == hasNumber {
			return fmt.Errorf("flow[%d]: delete requires exactly one of args.key or args.number", i)
		}
	}

	if step.Expect != nil && step.Expect.Outcome == "" {
		return fmt.Errorf("flow[%d].expect: outcome is required", i)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertAlertContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for alert_contains", index)
		}
	case AssertEventCount:
		if _, ok := eventKinds[a.Event]; !ok {
			return fmt.Errorf("assertions[%d]: unknown event %q for event_count", index, a.Event)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for event_count", index)
		}
	case AssertFinalRecords:
	case AssertRecordCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for record_count", index)
		}
	case AssertFieldMessage:
		if _, err := record.ParseField(a.Field); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertPanelVisible:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
