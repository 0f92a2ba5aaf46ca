// Package session wires the form controller, the record listing and the
// prompt into one page session and handles user-interface events.
//
// Every event is handled to completion before the next: mutate the store,
// then redraw. A Session has no package-level state; the record store is
// passed in, so several sessions can share it.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/signup/internal/form"
	"github.com/roach88/signup/internal/metrics"
	"github.com/roach88/signup/internal/prompt"
	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/records"
	"github.com/roach88/signup/internal/view"
)

// User-facing messages.
const (
	MsgSaved            = "User saved."
	MsgEmptyForm        = "Cannot save: the form is completely empty. Please enter your details."
	MsgNothingToClear   = "There is nothing to clear."
	MsgCleared          = "Form cleared."
	MsgDeletedFmt       = "User %s deleted. The list has been renumbered."
	MsgNoData           = "There is no user data to delete."
	MsgConfirmDeleteAll = "Are you sure you want to delete ALL saved users?"
	MsgDeletedAll       = "All user data has been deleted."
	MsgStorageFailedFmt = "Saved users could not be updated: %v"
)

// Session is one interactive form session.
//
// Thread-safety: Session is not safe for concurrent use. Events are handled
// one at a time, as a UI thread would.
type Session struct {
	id      string
	store   *records.Store
	form    *form.Controller
	panel   *view.Panel
	prompt  prompt.Prompter
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   Clock
	events  []Event
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The session adds its own "session" attribute.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics sets the counters events are recorded on.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithIDGenerator sets the session ID source.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Session) { s.id = g.Generate() }
}

// WithClock sets the event sequence clock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// New starts a session over store. p answers confirmations and shows alerts.
func New(store *records.Store, p prompt.Prompter, opts ...Option) *Session {
	s := &Session{
		store:  store,
		form:   form.New(store),
		prompt: p,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:  NewSeqClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = UUIDv7Generator{}.Generate()
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	s.logger = s.logger.With("session", s.id)
	s.panel = view.NewPanel(store, view.WithLogger(s.logger))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Form returns the form controller.
func (s *Session) Form() *form.Controller { return s.form }

// Panel returns the saved-record panel.
func (s *Session) Panel() *view.Panel { return s.panel }

// Store returns the record store.
func (s *Session) Store() *records.Store { return s.store }

// Metrics returns the session counters.
func (s *Session) Metrics() *metrics.Metrics { return s.metrics }

// Events returns every event handled so far, in order.
func (s *Session) Events() []Event {
	return append([]Event(nil), s.events...)
}

// Fill sets a field's raw value.
func (s *Session) Fill(name record.Field, value string) Event {
	ev := s.begin(KindFill, map[string]string{"field": string(name), "value": value})
	s.form.Set(name, value)
	return s.finish(ev)
}

// Blur validates one field as the user leaves it.
func (s *Session) Blur(name record.Field) Event {
	ev := s.begin(KindBlur, map[string]string{"field": string(name)})
	st := s.form.Blur(name)
	if st.Valid {
		ev.Outcome = OutcomeValid
	} else {
		ev.Outcome = OutcomeInvalid
		ev.Messages = map[string]string{string(name): st.Message}
	}
	return s.finish(ev)
}

// SubmitFields fills every field and submits.
func (s *Session) SubmitFields(ctx context.Context, f record.Fields) Event {
	for _, name := range record.AllFields {
		s.form.Set(name, f.Get(name))
	}
	return s.Submit(ctx)
}

// Submit validates the form and saves the record. After a save the panel is
// redrawn if it is visible.
func (s *Session) Submit(ctx context.Context) Event {
	values := s.form.Values()
	ev := s.begin(KindSubmit, map[string]string{
		"name":  values.Name,
		"email": values.Email,
		"age":   values.Age,
	})

	rec, err := s.form.Submit(ctx)
	var ve *record.ValidationError
	switch {
	case err == nil:
		ev.Outcome = OutcomeSaved
		ev.RecordID = rec.ID
		ev.Record = &rec
		s.logger.Info("record saved", "id", rec.ID)
		s.alert(&ev, MsgSaved)
		if s.panel.Visible() {
			s.refresh(ctx, &ev)
		}
	case form.IsEmptyForm(err):
		ev.Outcome = OutcomeEmptyForm
		s.alert(&ev, MsgEmptyForm)
	case errors.As(err, &ve):
		ev.Outcome = OutcomeInvalid
		ev.Messages = make(map[string]string)
		for name, msg := range ve.Messages() {
			ev.Messages[string(name)] = msg
		}
		s.logger.Debug("submission rejected", "error", err)
	default:
		s.storageFailed(&ev, "append", err)
	}

	s.metrics.ObserveSubmit(string(ev.Outcome))
	return s.finish(ev)
}

// ClearForm resets the form unless there is nothing to clear.
func (s *Session) ClearForm() Event {
	ev := s.begin(KindClearForm, nil)
	switch s.form.HandleClear() {
	case form.Cleared:
		ev.Outcome = OutcomeCleared
		s.alert(&ev, MsgCleared)
	default:
		ev.Outcome = OutcomeNothingToClear
		s.alert(&ev, MsgNothingToClear)
	}
	s.metrics.ObserveClear(string(ev.Outcome))
	return s.finish(ev)
}

// Toggle shows or hides the saved-record panel. Showing re-fetches.
func (s *Session) Toggle(ctx context.Context) Event {
	ev := s.begin(KindToggle, nil)

	before := s.panel.Renders()
	shown, err := s.panel.Toggle(ctx)
	s.observeRenders(before)

	switch {
	case err != nil:
		ev.Outcome = OutcomeLoadFailed
		ev.Err = err.Error()
		s.metrics.ObserveStorageError("load")
		s.logger.Warn("saved records could not be loaded", "error", err)
	case shown:
		ev.Outcome = OutcomeShown
	default:
		ev.Outcome = OutcomeHidden
	}
	return s.finish(ev)
}

// Delete removes the record identified by key and redraws the panel,
// visible or not. A key that no longer resolves is a no-op.
func (s *Session) Delete(ctx context.Context, key string) Event {
	ev := s.begin(KindDelete, map[string]string{"key": key})

	before := s.panel.Renders()
	removed, err := s.panel.Dispatch(ctx, key)
	s.observeRenders(before)

	switch {
	case err == nil:
		ev.Outcome = OutcomeDeleted
		ev.RecordID = removed.ID
		s.metrics.ObserveDeleted(1)
		s.logger.Info("record deleted", "key", key, "id", removed.ID)
		s.alert(&ev, fmt.Sprintf(MsgDeletedFmt, removed.Name))
	case record.IsOutOfRange(err):
		ev.Outcome = OutcomeMissing
		s.logger.Debug("delete target vanished", "key", key)
	default:
		s.storageFailed(&ev, "delete", err)
	}
	return s.finish(ev)
}

// DeleteAll asks for confirmation and removes every saved record. Corrupt
// data counts as data present, so clearing is the way out of it.
func (s *Session) DeleteAll(ctx context.Context) Event {
	ev := s.begin(KindDeleteAll, nil)

	n, err := s.store.Count(ctx)
	corrupt := record.IsCorrupt(err)
	switch {
	case err != nil && !corrupt:
		s.storageFailed(&ev, "load", err)
		return s.finish(ev)
	case err == nil && n == 0:
		ev.Outcome = OutcomeNoData
		s.alert(&ev, MsgNoData)
		return s.finish(ev)
	}

	ev.Confirms = append(ev.Confirms, MsgConfirmDeleteAll)
	if !s.prompt.Confirm(MsgConfirmDeleteAll) {
		ev.Outcome = OutcomeCancelled
		return s.finish(ev)
	}

	if err := s.store.Clear(ctx); err != nil {
		s.storageFailed(&ev, "clear", err)
		return s.finish(ev)
	}

	ev.Outcome = OutcomeDeletedAll
	s.metrics.ObserveDeleted(n)
	s.logger.Info("all records deleted", "count", n, "was_corrupt", corrupt)
	s.panel.Hide()
	s.alert(&ev, MsgDeletedAll)
	return s.finish(ev)
}

func (s *Session) begin(kind Kind, args map[string]string) Event {
	return Event{Seq: s.clock.Next(), Kind: kind, Args: args}
}

func (s *Session) finish(ev Event) Event {
	s.logger.Debug("event handled", "seq", ev.Seq, "kind", ev.Kind, "outcome", ev.Outcome)
	s.events = append(s.events, ev)
	return ev
}

func (s *Session) alert(ev *Event, msg string) {
	ev.Alerts = append(ev.Alerts, msg)
	s.prompt.Alert(msg)
}

// refresh redraws the panel after a mutation. A failed redraw leaves the
// mutation in place and is only logged.
func (s *Session) refresh(ctx context.Context, ev *Event) {
	before := s.panel.Renders()
	if err := s.panel.Refresh(ctx); err != nil {
		ev.Err = err.Error()
		s.metrics.ObserveStorageError("load")
		s.logger.Warn("panel refresh failed", "error", err)
	}
	s.observeRenders(before)
}

func (s *Session) observeRenders(before int) {
	for i := before; i < s.panel.Renders(); i++ {
		s.metrics.ObserveRender()
	}
}

func (s *Session) storageFailed(ev *Event, op string, err error) {
	ev.Outcome = OutcomeFailed
	ev.Err = err.Error()
	s.metrics.ObserveStorageError(op)
	s.logger.Error("record store operation failed", "op", op, "error", err)
	s.alert(ev, fmt.Sprintf(MsgStorageFailedFmt, err))
}
