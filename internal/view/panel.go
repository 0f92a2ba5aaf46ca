package view

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/signup/internal/record"
	"github.com/roach88/signup/internal/records"
)

// Panel is the toggleable display region for saved records.
//
// The panel is not bound to the store: it shows whatever was loaded by the
// last Refresh, and callers refresh it explicitly after every mutation.
//
// Thread-safety: Panel is not safe for concurrent use.
type Panel struct {
	store   *records.Store
	logger  *slog.Logger
	visible bool
	view    View
	renders int
}

// PanelOption configures a Panel.
type PanelOption func(*Panel)

// WithLogger sets the logger used for refresh failures that do not fail the
// surrounding action.
func WithLogger(l *slog.Logger) PanelOption {
	return func(p *Panel) { p.logger = l }
}

// NewPanel returns a hidden panel over store.
func NewPanel(store *records.Store, opts ...PanelOption) *Panel {
	p := &Panel{store: store, logger: slog.New(slog.DiscardHandler), view: View{Items: []Item{}}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Visible reports whether the panel is shown.
func (p *Panel) Visible() bool { return p.visible }

// View returns the view produced by the last refresh.
func (p *Panel) View() View { return p.view }

// Renders returns how many times the panel has been refreshed.
func (p *Panel) Renders() int { return p.renders }

// Hide hides the panel without touching its content.
func (p *Panel) Hide() { p.visible = false }

// Toggle flips visibility. Showing always re-fetches from the store, so any
// mutation since the last render is reflected.
//
// When the store holds corrupt data the panel is shown in its error state
// and the load error is returned.
func (p *Panel) Toggle(ctx context.Context) (bool, error) {
	if p.visible {
		p.visible = false
		return false, nil
	}

	err := p.Refresh(ctx)
	if err != nil && !record.IsCorrupt(err) {
		return false, err
	}
	p.visible = true
	return true, err
}

// Refresh re-fetches the list and redraws, whether or not the panel is
// visible. A corrupt store renders the error state.
func (p *Panel) Refresh(ctx context.Context) error {
	list, err := p.store.LoadAll(ctx)
	if err != nil {
		if record.IsCorrupt(err) {
			p.view = ErrorView(err)
			p.renders++
		}
		return fmt.Errorf("refresh: %w", err)
	}
	p.view = Render(list)
	p.renders++
	return nil
}

// Dispatch handles a delete action for the item identified by key. The key
// is resolved against a fresh load, the record is removed, and the panel is
// refreshed regardless of visibility. Once the record is removed the delete
// has succeeded; a failed refresh is logged and leaves the previous view.
//
// A key that no longer resolves returns *record.IndexOutOfRangeError and
// leaves the store unchanged.
func (p *Panel) Dispatch(ctx context.Context, key string) (record.Record, error) {
	list, err := p.store.LoadAll(ctx)
	if err != nil {
		return record.Record{}, fmt.Errorf("dispatch %q: %w", key, err)
	}

	idx := ResolveKey(list, key)
	if idx < 0 {
		return record.Record{}, fmt.Errorf("dispatch %q: %w", key,
			&record.IndexOutOfRangeError{Index: idx, Length: len(list)})
	}

	removed, err := p.store.DeleteAt(ctx, idx)
	if err != nil {
		return record.Record{}, fmt.Errorf("dispatch %q: %w", key, err)
	}

	if err := p.Refresh(ctx); err != nil {
		p.logger.Warn("panel refresh after delete failed", "key", key, "error", err)
	}
	return removed, nil
}
