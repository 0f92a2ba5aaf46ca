// Package harness runs scripted form sessions and checks their outcomes.
//
// A scenario seeds the record store, plays user-interface events through a
// session and validates the resulting trace and final state. The trace can
// also be compared byte-for-byte against a golden file.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	seed:
//	  - { id: 1, name: Ana, email: ana@x.com, age: 30 }
//	flow:
//	  - event: submit
//	    args: { name: Beto, email: beto@x.com, age: "41" }
//	    expect:
//	      outcome: saved
//	  - event: delete_all
//	    confirm: true
//	    expect:
//	      outcome: deleted_all
//	assertions:
//	  - type: record_count
//	    count: 0
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - alert_contains: some alert raised during the flow contains the text
//   - event_count: an event kind occurs exactly N times
//   - final_records: the stored list equals the given records, in order
//   - record_count: the stored list has N records
//   - field_message: a field shows the given message after the flow
//   - panel_visible: the saved-record panel is shown or hidden
//
// # Deterministic Testing
//
// Every scenario runs on a fresh in-memory SQLite database with a fixed
// session ID and a logical clock starting at 1. Confirmation prompts are
// answered from the step's confirm field and declined otherwise. The same
// scenario therefore always produces a byte-identical trace.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/save_and_list.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness
