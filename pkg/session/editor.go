package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/store"
)

// Editor serializes edits, layout passes and saves for one project.
// It is safe for concurrent use.
type Editor struct {
	mu sync.Mutex

	project *family.Project
	cfg     layout.Config
	presets layout.Presets
	store   store.Store
	logger  *log.Logger

	debounce      time.Duration
	autosaveDelay time.Duration
	onLayout      func(*layout.Result)
	onSave        func(error)

	dragging    string
	layoutTimer *time.Timer
	layoutGen   uint64
	saveTimer   *time.Timer
	saveGen     uint64
	dirty       bool
	closed      bool
	last        *layout.Result
}

// New creates an editor for p. The preset named in p.UI.Preset is used,
// defaulting to layout.DefaultPreset.
func New(p *family.Project, opts ...Option) (*Editor, error) {
	e := &Editor{
		project:       p,
		presets:       layout.DefaultPresets(),
		logger:        log.Default(),
		debounce:      DefaultDebounce,
		autosaveDelay: DefaultAutosaveDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	cfg, err := e.presets.Get(p.UI.Preset)
	if err != nil {
		return nil, err
	}
	e.cfg = cfg
	return e, nil
}

// Project returns a snapshot of the project.
func (e *Editor) Project() *family.Project {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.project.Clone()
}

// Config returns the active layout configuration.
func (e *Editor) Config() layout.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// LastResult returns the result of the most recent layout pass, or nil.
func (e *Editor) LastResult() *layout.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// Dirty reports whether there are unsaved changes.
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// Dragging returns the id of the person being dragged, or "".
func (e *Editor) Dragging() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragging
}

// Layout runs a layout pass now, cancelling any pending debounced pass.
func (e *Editor) Layout(ctx context.Context) (*layout.Result, error) {
	e.mu.Lock()
	if err := e.usable(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	e.stopLayoutTimer()
	res, err := e.layoutLocked(ctx)
	e.mu.Unlock()

	if err == nil && e.onLayout != nil {
		e.onLayout(res)
	}
	return res, err
}

// RequestLayout schedules a layout pass after the debounce delay. Repeated
// requests within the delay collapse into one pass.
func (e *Editor) RequestLayout() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.usable(); err != nil {
		return err
	}
	e.scheduleLayoutLocked()
	return nil
}

// Pending reports whether a debounced layout pass is scheduled.
func (e *Editor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.layoutTimer != nil
}

// SetPreset switches to the named preset and runs a full relayout with it.
func (e *Editor) SetPreset(ctx context.Context, name string) (*layout.Result, error) {
	cfg, err := e.presets.Get(name)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if err := e.usable(); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	prev := e.cfg
	e.cfg = cfg
	e.stopLayoutTimer()
	res, err := e.layoutLocked(ctx)
	if err != nil {
		e.cfg = prev
		e.mu.Unlock()
		return nil, err
	}
	e.project.UI.Preset = cfg.Name
	e.mu.Unlock()

	if e.onLayout != nil {
		e.onLayout(res)
	}
	return res, nil
}

// BeginDrag starts dragging person id. Any pending layout pass is cancelled,
// not deferred, so it cannot overwrite the drag.
func (e *Editor) BeginDrag(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if e.dragging != "" {
		return ErrDragInProgress
	}
	if !e.project.Has(id) {
		return fmt.Errorf("%s: %w", id, family.ErrUnknownPerson)
	}
	e.stopLayoutTimer()
	e.dragging = id
	return nil
}

// DragTo moves the dragged person's centre to (x, y) and marks the position
// as manual.
func (e *Editor) DragTo(x, y float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dragging == "" {
		return ErrNoDrag
	}
	p := e.project.Person(e.dragging)
	if p == nil {
		return fmt.Errorf("%s: %w", e.dragging, family.ErrUnknownPerson)
	}
	p.X, p.Y = x, y
	p.HasManualPos = true
	return nil
}

// EndDrag finishes the drag and queues the new position for autosave.
func (e *Editor) EndDrag() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dragging == "" {
		return ErrNoDrag
	}
	e.dragging = ""
	e.markDirtyLocked()
	return nil
}

// AddPerson adds a person and schedules a relayout.
func (e *Editor) AddPerson(p family.Person) (*family.Person, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.usable(); err != nil {
		return nil, err
	}
	added, err := e.project.AddPerson(p)
	if err != nil {
		return nil, err
	}
	e.editedLocked()
	return added, nil
}

// UpdatePerson applies fn to the person with the given id. Layout fields are
// restored afterwards; use a drag to move people.
func (e *Editor) UpdatePerson(id string, fn func(*family.Person)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	p := e.project.Person(id)
	if p == nil {
		return fmt.Errorf("%s: %w", id, family.ErrUnknownPerson)
	}
	x, y, manual := p.X, p.Y, p.HasManualPos
	fn(p)
	p.ID, p.X, p.Y, p.HasManualPos = id, x, y, manual
	e.markDirtyLocked()
	return nil
}

// RemovePerson removes a person with their relations and schedules a
// relayout.
func (e *Editor) RemovePerson(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.usable(); err != nil {
		return err
	}
	if !e.project.RemovePerson(id) {
		return fmt.Errorf("%s: %w", id, family.ErrUnknownPerson)
	}
	e.editedLocked()
	return nil
}

// Link adds a relation from the selected person's point of view. Rejected
// edits change nothing; duplicates are a no-op reported by added=false.
func (e *Editor) Link(kind family.LinkKind, selected, other string) (rel family.Relation, added bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.usable(); err != nil {
		return family.Relation{}, false, err
	}
	rel, added, err = e.project.Link(kind, selected, other)
	if err != nil {
		observability.Edit().OnRelationRejected(context.Background(), string(apperrors.GetCode(err)))
		return rel, false, err
	}
	if added {
		e.editedLocked()
	}
	return rel, added, nil
}

// LinkParents records up to two parents for child in one step.
func (e *Editor) LinkParents(child string, parents ...string) ([]family.Relation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.usable(); err != nil {
		return nil, err
	}
	added, err := e.project.LinkParents(child, parents...)
	if err != nil {
		observability.Edit().OnRelationRejected(context.Background(), string(apperrors.GetCode(err)))
		return nil, err
	}
	if len(added) > 0 {
		e.editedLocked()
	}
	return added, nil
}

// Unlink removes a relation by id. It reports false when the relation does
// not exist or a drag is in progress.
func (e *Editor) Unlink(relationID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.usable() != nil || !e.project.RemoveRelation(relationID) {
		return false
	}
	e.editedLocked()
	return true
}

// Save writes the project to the store now.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(ctx)
}

// Close cancels pending work and flushes unsaved changes to the store, if
// one is configured. The editor cannot be used afterwards.
func (e *Editor) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.stopLayoutTimer()
	if e.saveTimer != nil {
		e.saveTimer.Stop()
		e.saveTimer = nil
	}
	var err error
	if e.dirty && e.store != nil {
		err = e.saveLocked(ctx)
	}
	e.closed = true
	return err
}

func (e *Editor) usable() error {
	if e.closed {
		return ErrClosed
	}
	if e.dragging != "" {
		return ErrDragInProgress
	}
	return nil
}

// editedLocked records a structural change: relayout and autosave follow.
func (e *Editor) editedLocked() {
	e.markDirtyLocked()
	e.scheduleLayoutLocked()
}

func (e *Editor) scheduleLayoutLocked() {
	if e.layoutTimer != nil {
		e.layoutTimer.Reset(e.debounce)
		return
	}
	e.layoutGen++
	gen := e.layoutGen
	e.layoutTimer = time.AfterFunc(e.debounce, func() { e.runScheduledLayout(gen) })
}

// runScheduledLayout is the debounce timer callback. A timer that was
// stopped or replaced after firing finds its generation stale and does
// nothing. The generation is only compared under e.mu.
func (e *Editor) runScheduledLayout(gen uint64) {
	e.mu.Lock()
	if e.layoutTimer == nil || e.layoutGen != gen || e.closed || e.dragging != "" {
		e.mu.Unlock()
		return
	}
	e.layoutTimer = nil
	res, err := e.layoutLocked(context.Background())
	e.mu.Unlock()

	if err != nil {
		e.logger.Warn("scheduled layout failed", "err", err)
		return
	}
	if e.onLayout != nil {
		e.onLayout(res)
	}
}

func (e *Editor) stopLayoutTimer() {
	if e.layoutTimer != nil {
		e.layoutTimer.Stop()
		e.layoutTimer = nil
	}
}

func (e *Editor) layoutLocked(ctx context.Context) (*layout.Result, error) {
	var opts []layout.Option
	if e.project.UI.LockManualPositions {
		opts = append(opts, layout.WithPreserveManual())
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, e.cfg.Name, len(e.project.People))
	start := time.Now()
	res, err := layout.ArrangeProject(e.project, e.cfg, opts...)
	if err != nil {
		hooks.OnLayoutComplete(ctx, e.cfg.Name, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLayoutComplete(ctx, e.cfg.Name, len(res.Positions), len(res.Warnings), time.Since(start), nil)

	for _, w := range res.Warnings {
		e.logger.Warn("layout", "code", w.Code, "msg", w.Message)
	}
	e.last = res
	e.markDirtyLocked()
	return res, nil
}

func (e *Editor) markDirtyLocked() {
	e.dirty = true
	if e.store == nil || e.autosaveDelay <= 0 || e.closed {
		return
	}
	if e.saveTimer != nil {
		e.saveTimer.Reset(e.autosaveDelay)
		return
	}
	e.saveGen++
	gen := e.saveGen
	e.saveTimer = time.AfterFunc(e.autosaveDelay, func() { e.runAutosave(gen) })
}

func (e *Editor) runAutosave(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.saveTimer == nil || e.saveGen != gen || e.closed {
		return
	}
	e.saveTimer = nil
	if err := e.saveLocked(context.Background()); err != nil {
		e.logger.Warn("autosave failed", "err", err)
	}
}

func (e *Editor) saveLocked(ctx context.Context) error {
	if e.store == nil {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "no store configured")
	}
	if e.saveTimer != nil {
		e.saveTimer.Stop()
		e.saveTimer = nil
	}
	start := time.Now()
	err := e.store.Save(ctx, e.project)
	observability.Edit().OnSave(ctx, e.project.Meta.ProjectName, time.Since(start), err)
	if err == nil {
		e.dirty = false
	}
	if e.onSave != nil {
		e.onSave(err)
	}
	return err
}
