package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/session"
)

// TraceSnapshot is the golden form of a scenario run: the event trace plus
// the state it left behind.
type TraceSnapshot struct {
	ScenarioName string          `json:"scenario_name"`
	Trace        []session.Event `json:"trace"`
	FinalRecords []record.Record `json:"final_records"`
	LoadError    string          `json:"load_error,omitempty"`
	PanelVisible bool            `json:"panel_visible"`
}

// Snapshot builds the golden snapshot of a result.
func Snapshot(scenarioName string, result *Result) TraceSnapshot {
	records := result.Records
	if records == nil {
		records = []record.Record{}
	}
	return TraceSnapshot{
		ScenarioName: scenarioName,
		Trace:        result.Trace,
		FinalRecords: records,
		LoadError:    result.LoadErr,
		PanelVisible: result.PanelVisible,
	}
}

// MarshalSnapshot encodes a snapshot as indented JSON with a trailing
// newline. Map keys are sorted, so the output is byte-stable.
func MarshalSnapshot(s TraceSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs scenario and checks its snapshot against
// testdata/golden/<name>.golden. Regenerate with
//
//	go test ./internal/harness -update
//
// A mismatch fails t; the returned error covers execution only.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden checks an existing result against its golden snapshot.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(Snapshot(scenarioName, result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
