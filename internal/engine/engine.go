// Package engine tracks the active timed modes and drives their lifecycle.
//
// An Engine is owned by the host loop and is not safe for concurrent use.
// Every transition (replace, start, expire, close) always completes; failures
// from individual modes are collected and returned so one misbehaving mode
// never blocks the others.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/musher-dev/chaos/internal/mode"
	"github.com/musher-dev/chaos/internal/overlay"
)

// Op names a lifecycle step.
type Op string

const (
	OpValidate Op = "validate"
	OpStart    Op = "start"
	OpStop     Op = "stop"
	OpRender   Op = "render"
)

// TransitionError reports a failure during one entry's transition.
type TransitionError struct {
	Kind mode.Kind
	Op   Op
	Err  error
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	if e.Kind == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying failure.
func (e *TransitionError) Unwrap() error {
	return e.Err
}

// Entry is one active mode and the seconds it has left.
type Entry struct {
	Mode      mode.Mode
	Kind      mode.Kind
	Remaining uint32
}

// Renderer displays the active entries.
type Renderer interface {
	Render(items []overlay.Item) error
	Close() error
}

// Engine holds the active entries in insertion order, at most one per Kind.
type Engine struct {
	entries  []Entry
	renderer Renderer
	log      *slog.Logger
}

// New returns an empty engine that renders through r.
func New(r Renderer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{renderer: r, log: logger}
}

// SetMode activates m in the kind slot for seconds ticks, replacing (and
// stopping) whatever occupied the slot. Invalid modes are ignored.
//
// A mode whose Start fails is still inserted so that its Stop runs later.
func (e *Engine) SetMode(m mode.Mode, kind mode.Kind, seconds uint32) error {
	ok, err := m.Valid()
	if err != nil {
		return &TransitionError{Kind: kind, Op: OpValidate, Err: err}
	}

	if !ok {
		e.log.Debug("Mode rejected", slog.String("mode.kind", kind.String()), slog.String("mode.name", m.Name()))
		return nil
	}

	var errs []error

	if i := e.index(kind); i >= 0 {
		old := e.entries[i]
		if err := old.Mode.Stop(); err != nil {
			errs = append(errs, &TransitionError{Kind: kind, Op: OpStop, Err: err})
		}

		e.entries = slices.Delete(e.entries, i, i+1)

		e.log.Debug("Mode replaced", slog.String("mode.kind", kind.String()), slog.String("mode.name", old.Mode.Name()))
	}

	if err := m.Start(); err != nil {
		errs = append(errs, &TransitionError{Kind: kind, Op: OpStart, Err: err})
	}

	e.entries = append(e.entries, Entry{Mode: m, Kind: kind, Remaining: seconds})

	e.log.Info("Mode started",
		slog.String("mode.kind", kind.String()),
		slog.String("mode.name", m.Name()),
		slog.Uint64("mode.seconds", uint64(seconds)),
	)

	if err := e.refresh(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Tick advances every entry by one second. Entries already at zero are
// stopped and removed; the rest count down by one.
func (e *Engine) Tick() error {
	var errs []error

	kept := make([]Entry, 0, len(e.entries))

	for _, ent := range e.entries {
		if ent.Remaining == 0 {
			if err := ent.Mode.Stop(); err != nil {
				errs = append(errs, &TransitionError{Kind: ent.Kind, Op: OpStop, Err: err})
			}

			e.log.Info("Mode expired", slog.String("mode.kind", ent.Kind.String()), slog.String("mode.name", ent.Mode.Name()))

			continue
		}

		ent.Remaining--
		kept = append(kept, ent)
	}

	e.entries = kept

	if err := e.refresh(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Close stops every active entry and closes the overlay.
func (e *Engine) Close() error {
	var errs []error

	for _, ent := range e.entries {
		if err := ent.Mode.Stop(); err != nil {
			errs = append(errs, &TransitionError{Kind: ent.Kind, Op: OpStop, Err: err})
		}
	}

	e.entries = nil

	if err := e.renderer.Close(); err != nil {
		errs = append(errs, &TransitionError{Op: OpRender, Err: err})
	}

	return errors.Join(errs...)
}

// Entries returns a copy of the active entries in display order.
func (e *Engine) Entries() []Entry {
	return slices.Clone(e.entries)
}

// Active returns the entry occupying kind, if any.
func (e *Engine) Active(kind mode.Kind) (Entry, bool) {
	if i := e.index(kind); i >= 0 {
		return e.entries[i], true
	}

	return Entry{}, false
}

func (e *Engine) index(kind mode.Kind) int {
	return slices.IndexFunc(e.entries, func(ent Entry) bool { return ent.Kind == kind })
}

// refresh re-renders the overlay, or closes it when nothing is active.
func (e *Engine) refresh() error {
	if len(e.entries) == 0 {
		if err := e.renderer.Close(); err != nil {
			return &TransitionError{Op: OpRender, Err: err}
		}

		return nil
	}

	items := make([]overlay.Item, 0, len(e.entries))
	for _, ent := range e.entries {
		items = append(items, overlay.Item{Name: ent.Mode.Name(), Remaining: ent.Remaining})
	}

	if err := e.renderer.Render(items); err != nil {
		return &TransitionError{Op: OpRender, Err: err}
	}

	return nil
}
