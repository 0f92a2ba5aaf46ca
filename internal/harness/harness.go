package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/roach88/signup/internal/kv/sqlite"
	"github.com/roach88/signup/internal/prompt"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/records"
	"github.com/roach88/signup/internal/session"
	"github.com/roach88/signup/internal/view"
)

// Harness plays one scenario against a fresh session.
type Harness struct {
	session *session.Session
	prompt  *prompt.Scripted
	store   *records.Store
	logger  *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh in-memory SQLite database, with a
// fixed session ID and a logical clock starting at 1, so the same scenario
// always produces the same trace.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Seed the records key
// 3. Play flow steps, checking expect clauses
// 4. Capture final state and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	db, err := sqlite.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer db.Close()

	if err := seed(ctx, db, scenario); err != nil {
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	st := records.New(db)
	p := prompt.NewScripted()
	h := &Harness{
		session: session.New(st, p,
			session.WithLogger(logger),
			session.WithIDGenerator(session.FixedID(scenario.SessionID)),
			session.WithClock(session.NewSeqClock()),
		),
		prompt: p,
		store:  st,
		logger: logger,
	}

	result := NewResult()
	if err := h.executeFlow(ctx, scenario.Flow, result); err != nil {
		return nil, fmt.Errorf("failed to execute flow: %w", err)
	}

	h.captureState(ctx, result)

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// seed writes the scenario's starting value under the records key.
func seed(ctx context.Context, db *sqlite.Store, s *Scenario) error {
	switch {
	case s.SeedRaw != "":
		return db.Set(ctx, records.DefaultKey, s.SeedRaw)
	case len(s.Seed) > 0:
		data, err := json.Marshal(s.Seed)
		if err != nil {
			return err
		}
		return db.Set(ctx, records.DefaultKey, string(data))
	}
	return nil
}

// executeFlow plays every step and validates expect clauses.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) error {
	for i, step := range flow {
		h.prompt.Discard()
		if step.Confirm != nil {
			h.prompt.Queue(*step.Confirm)
		}

		ev, err := h.dispatch(ctx, step)
		if err != nil {
			return fmt.Errorf("flow step %d: %w", i, err)
		}
		result.Trace = append(result.Trace, ev)

		if step.Expect != nil {
			checkExpect(i, step, ev, result)
		}

		h.logger.Info("flow step completed",
			"step", i,
			"event", step.Event,
			"outcome", ev.Outcome,
		)
	}
	return nil
}

func (h *Harness) dispatch(ctx context.Context, step FlowStep) (session.Event, error) {
	s := h.session

	switch session.Kind(step.Event) {
	case session.KindFill:
		field, err := record.ParseField(step.Args["field"])
		if err != nil {
			return session.Event{}, err
		}
		return s.Fill(field, step.Args["value"]), nil

	case session.KindBlur:
		field, err := record.ParseField(step.Args["field"])
		if err != nil {
			return session.Event{}, err
		}
		return s.Blur(field), nil

	case session.KindSubmit:
		if len(step.Args) == 0 {
			return s.Submit(ctx), nil
		}
		return s.SubmitFields(ctx, record.Fields{
			Name:  step.Args["name"],
			Email: step.Args["email"],
			Age:   step.Args["age"],
		}), nil

	case session.KindClearForm:
		return s.ClearForm(), nil

	case session.KindToggle:
		return s.Toggle(ctx), nil

	case session.KindDelete:
		key, err := h.resolveDeleteKey(ctx, step.Args)
		if err != nil {
			return session.Event{}, err
		}
		return s.Delete(ctx, key), nil

	case session.KindDeleteAll:
		return s.DeleteAll(ctx), nil
	}
	return session.Event{}, fmt.Errorf("unknown event %q", step.Event)
}

// resolveDeleteKey turns args.number into the key shown at that position,
// as a user clicking "Delete user" on the Nth block would.
func (h *Harness) resolveDeleteKey(ctx context.Context, args map[string]string) (string, error) {
	if key, ok := args["key"]; ok {
		return key, nil
	}

	n, err := strconv.Atoi(args["number"])
	if err != nil {
		return "", fmt.Errorf("invalid delete number %q: %w", args["number"], err)
	}
	list, err := h.store.LoadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve delete number: %w", err)
	}
	key, ok := view.Render(list).KeyAt(n)
	if !ok {
		// A position past the end maps to a key that resolves to nothing.
		return "position-" + strconv.Itoa(n-1), nil
	}
	return key, nil
}

func checkExpect(i int, step FlowStep, ev session.Event, result *Result) {
	if string(ev.Outcome) != step.Expect.Outcome {
		result.AddError(fmt.Sprintf("flow[%d] %s: expected outcome %q, got %q",
			i, step.Event, step.Expect.Outcome, ev.Outcome))
	}
	for field, want := range step.Expect.Messages {
		if got := ev.Messages[field]; got != want {
			result.AddError(fmt.Sprintf("flow[%d] %s: expected %s message %q, got %q",
				i, step.Event, field, want, got))
		}
	}
}

func (h *Harness) captureState(ctx context.Context, result *Result) {
	list, err := h.store.LoadAll(ctx)
	if err != nil {
		result.LoadErr = err.Error()
	} else {
		result.Records = list
	}
	result.PanelVisible = h.session.Panel().Visible()
	result.FieldStates = h.session.Form().States()
}
