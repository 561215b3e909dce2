// Package session provides the editing session that sits between a user
// interface and the layout engine.
//
// # Overview
//
// An [Editor] owns one project. Every mutation goes through it, which lets
// it enforce the scheduling rules the layout engine relies on:
//
//   - Layout passes never overlap. Each pass runs under the editor's lock,
//     start to finish.
//   - Bursts of edits are debounced into a single pass ([Editor.RequestLayout]).
//   - A drag and a pending layout are mutually exclusive. Starting a drag
//     cancels any pending pass, and layout requests made during a drag fail
//     with [ErrDragInProgress], so a queued pass can never overwrite the
//     position the user is dragging to. Structural edits, which would
//     schedule a pass, are refused the same way until the drag ends.
//   - Switching preset runs a full relayout with the new geometry.
//   - Changes are saved to a [store.Store] after a quiet period (one second
//     by default).
//
// # Usage
//
//	ed, err := session.New(project,
//	    session.WithStore(fileStore),
//	    session.WithLogger(logger),
//	)
//	if err != nil {
//	    return err
//	}
//	defer ed.Close(ctx)
//
//	if _, _, err := ed.Link(family.LinkChild, "p1", "p7"); err != nil {
//	    return err // cycle, self relation, unknown person
//	}
//	// a debounced layout pass and an autosave follow
//
// [store.Store]: github.com/matzehuels/famtree/pkg/store.Store
package session

import (
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/store"
)

// Sentinel errors for session operations.
var (
	// ErrDragInProgress is returned when a layout is requested while a
	// person is being dragged.
	ErrDragInProgress = apperrors.New(apperrors.ErrCodeDragInProgress, "a drag is in progress")

	// ErrNoDrag is returned by DragTo and EndDrag when no drag is active.
	ErrNoDrag = apperrors.New(apperrors.ErrCodeInvalidInput, "no drag in progress")

	// ErrClosed is returned after Close.
	ErrClosed = apperrors.New(apperrors.ErrCodeInvalidInput, "session closed")
)

// Default delays.
const (
	// DefaultDebounce coalesces bursts of edits into one layout pass.
	DefaultDebounce = 150 * time.Millisecond

	// DefaultAutosaveDelay is the quiet period before an automatic save.
	DefaultAutosaveDelay = time.Second
)

// Option configures an Editor.
type Option func(*Editor)

// WithStore enables autosave into s.
func WithStore(s store.Store) Option {
	return func(e *Editor) { e.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPresets sets the presets SetPreset chooses from.
func WithPresets(p layout.Presets) Option {
	return func(e *Editor) {
		if p != nil {
			e.presets = p
		}
	}
}

// WithDebounce sets the layout debounce delay.
func WithDebounce(d time.Duration) Option {
	return func(e *Editor) { e.debounce = d }
}

// WithAutosaveDelay sets the autosave quiet period. Zero disables autosave.
func WithAutosaveDelay(d time.Duration) Option {
	return func(e *Editor) { e.autosaveDelay = d }
}

// WithOnLayout registers fn to run after every completed layout pass,
// including debounced ones. fn runs with the editor unlocked.
func WithOnLayout(fn func(*layout.Result)) Option {
	return func(e *Editor) { e.onLayout = fn }
}

// WithOnSave registers fn to run after every save attempt. fn runs with the
// editor locked and must not call back into it.
func WithOnSave(fn func(error)) Option {
	return func(e *Editor) { e.onSave = fn }
}
