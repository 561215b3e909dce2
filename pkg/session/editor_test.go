package session

import (
	"context"
	"errors"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/layout"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/store"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func newEditor(t *testing.T, opts ...Option) *Editor {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger()), WithAutosaveDelay(0)}, opts...)
	ed, err := New(family.Demo(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ed.Close(context.Background()) })
	return ed
}

func TestLayoutPositionsProject(t *testing.T) {
	ed := newEditor(t)
	res, err := ed.Layout(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Positions, 6)
	assert.Same(t, res, ed.LastResult())

	p := ed.Project()
	cfg := layout.MustPreset(layout.PresetComfortable)
	assert.Equal(t, cfg.Padding, p.Person("p1").Y)
	assert.True(t, ed.Dirty())
}

func TestUnknownPresetRejected(t *testing.T) {
	p := family.Demo()
	p.UI.Preset = "enormous"
	_, err := New(p)
	assert.Error(t, err)
}

func TestRequestLayoutDebounces(t *testing.T) {
	var passes atomic.Int32
	done := make(chan struct{}, 8)
	ed := newEditor(t,
		WithDebounce(30*time.Millisecond),
		WithOnLayout(func(*layout.Result) {
			passes.Add(1)
			done <- struct{}{}
		}),
	)

	for i := 0; i < 5; i++ {
		require.NoError(t, ed.RequestLayout())
	}
	assert.True(t, ed.Pending())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced layout never ran")
	}
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), passes.Load())
	assert.False(t, ed.Pending())
}

func TestZeroDelayTimers(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	var layouts, saves atomic.Int32

	p := family.Demo()
	p.Meta.ProjectName = "zero-delay"
	ed, err := New(p,
		WithLogger(quietLogger()),
		WithStore(fs),
		WithDebounce(0),
		WithAutosaveDelay(time.Nanosecond),
		WithOnLayout(func(*layout.Result) { layouts.Add(1) }),
		WithOnSave(func(error) { saves.Add(1) }),
	)
	require.NoError(t, err)
	defer ed.Close(context.Background())

	for i := 0; i < 20; i++ {
		require.NoError(t, ed.RequestLayout())
		_, err := ed.AddPerson(family.Person{Name: "Cousin"})
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return layouts.Load() > 0 && !ed.Pending()
	}, 2*time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return saves.Load() > 0 }, 2*time.Second, 5*time.Millisecond)

	loaded, err := fs.Load(context.Background(), "zero-delay")
	require.NoError(t, err)
	assert.NotEmpty(t, loaded.People)
}

func TestEditsScheduleLayout(t *testing.T) {
	done := make(chan *layout.Result, 1)
	ed := newEditor(t,
		WithDebounce(10*time.Millisecond),
		WithOnLayout(func(r *layout.Result) { done <- r }),
	)

	kid, err := ed.AddPerson(family.Person{ID: "p7", Name: "Noah Hughes"})
	require.NoError(t, err)
	_, added, err := ed.Link(family.LinkChild, "p5", kid.ID)
	require.NoError(t, err)
	require.True(t, added)

	select {
	case res := <-done:
		cfg := layout.MustPreset(layout.PresetComfortable)
		assert.InDelta(t, cfg.VGap, res.Positions["p7"].Y-res.Positions["p5"].Y, 1e-9)
	case <-time.After(2 * time.Second):
		t.Fatal("layout was not scheduled after edits")
	}
}

func TestDragExcludesLayout(t *testing.T) {
	ed := newEditor(t)
	ctx := context.Background()

	require.NoError(t, ed.BeginDrag("p3"))
	assert.Equal(t, "p3", ed.Dragging())

	assert.ErrorIs(t, ed.RequestLayout(), ErrDragInProgress)
	_, err := ed.Layout(ctx)
	assert.ErrorIs(t, err, ErrDragInProgress)
	_, err = ed.SetPreset(ctx, layout.PresetCompact)
	assert.ErrorIs(t, err, ErrDragInProgress)
	_, _, err = ed.Link(family.LinkSpouse, "p5", "p6")
	assert.ErrorIs(t, err, ErrDragInProgress)
	assert.ErrorIs(t, ed.BeginDrag("p1"), ErrDragInProgress)

	require.NoError(t, ed.DragTo(500, 20))
	require.NoError(t, ed.EndDrag())

	p3 := ed.Project().Person("p3")
	assert.Equal(t, 500.0, p3.X)
	assert.Equal(t, 20.0, p3.Y)
	assert.True(t, p3.HasManualPos)

	assert.ErrorIs(t, ed.DragTo(1, 1), ErrNoDrag)
	assert.ErrorIs(t, ed.EndDrag(), ErrNoDrag)
}

func TestBeginDragCancelsPendingLayout(t *testing.T) {
	var passes atomic.Int32
	ed := newEditor(t,
		WithDebounce(40*time.Millisecond),
		WithOnLayout(func(*layout.Result) { passes.Add(1) }),
	)

	require.NoError(t, ed.RequestLayout())
	require.NoError(t, ed.BeginDrag("p1"))
	require.NoError(t, ed.DragTo(7, 7))
	assert.False(t, ed.Pending())

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, ed.EndDrag())
	time.Sleep(100 * time.Millisecond)

	assert.Zero(t, passes.Load())
	assert.Equal(t, 7.0, ed.Project().Person("p1").X)
}

func TestBeginDragUnknownPerson(t *testing.T) {
	ed := newEditor(t)
	assert.ErrorIs(t, ed.BeginDrag("ghost"), family.ErrUnknownPerson)
}

func TestLockManualPositions(t *testing.T) {
	ed := newEditor(t)
	ctx := context.Background()
	ed.project.UI.LockManualPositions = true

	require.NoError(t, ed.BeginDrag("p1"))
	require.NoError(t, ed.DragTo(5, 5))
	require.NoError(t, ed.EndDrag())

	res, err := ed.Layout(ctx)
	require.NoError(t, err)
	assert.Contains(t, res.Skipped, "p1")
	p1 := ed.Project().Person("p1")
	assert.Equal(t, 5.0, p1.X)
	assert.True(t, p1.HasManualPos)
}

func TestSetPresetRelayouts(t *testing.T) {
	ed := newEditor(t)
	ctx := context.Background()
	_, err := ed.Layout(ctx)
	require.NoError(t, err)

	res, err := ed.SetPreset(ctx, layout.PresetCompact)
	require.NoError(t, err)
	compact := layout.MustPreset(layout.PresetCompact)
	assert.Equal(t, compact, res.Config)
	assert.Equal(t, compact.Padding, ed.Project().Person("p1").Y)
	assert.Equal(t, layout.PresetCompact, ed.Project().UI.Preset)
	assert.Equal(t, compact, ed.Config())

	_, err = ed.SetPreset(ctx, "nope")
	assert.Error(t, err)
	assert.Equal(t, compact, ed.Config())
}

type rejectCounter struct {
	observability.NoopEditHooks
	codes chan string
}

func (r *rejectCounter) OnRelationRejected(_ context.Context, code string) { r.codes <- code }

func TestRejectedLinkChangesNothing(t *testing.T) {
	hooks := &rejectCounter{codes: make(chan string, 1)}
	observability.SetEditHooks(hooks)
	defer observability.Reset()

	ed := newEditor(t)
	before := len(ed.Project().Relations)

	_, _, err := ed.Link(family.LinkChild, "p5", "p1")
	require.Error(t, err)
	assert.ErrorIs(t, err, family.ErrCycle)
	assert.Equal(t, "CYCLE_DETECTED", <-hooks.codes)
	assert.Len(t, ed.Project().Relations, before)
	assert.False(t, ed.Pending())

	_, err = ed.LinkParents("p5", "p1")
	assert.ErrorIs(t, err, family.ErrTooManyParents)
}

func TestUnlink(t *testing.T) {
	ed := newEditor(t, WithDebounce(time.Hour))
	assert.True(t, ed.Unlink("r8"))
	assert.False(t, ed.Unlink("r8"))
	assert.True(t, ed.Pending())
}

func TestUpdatePersonKeepsLayoutFields(t *testing.T) {
	ed := newEditor(t)
	_, err := ed.Layout(context.Background())
	require.NoError(t, err)
	x := ed.Project().Person("p2").X

	require.NoError(t, ed.UpdatePerson("p2", func(p *family.Person) {
		p.Name = "Maggie Doyle"
		p.X = -1
		p.ID = "hijack"
	}))
	p2 := ed.Project().Person("p2")
	require.NotNil(t, p2)
	assert.Equal(t, "Maggie Doyle", p2.Name)
	assert.Equal(t, x, p2.X)
}

func TestAutosave(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	saved := make(chan error, 4)

	p := family.Demo()
	p.Meta.ProjectName = "autosaved"
	ed, err := New(p,
		WithLogger(quietLogger()),
		WithStore(fs),
		WithDebounce(time.Hour),
		WithAutosaveDelay(20*time.Millisecond),
		WithOnSave(func(err error) { saved <- err }),
	)
	require.NoError(t, err)
	defer ed.Close(context.Background())

	_, err = ed.AddPerson(family.Person{ID: "p9", Name: "New Cousin"})
	require.NoError(t, err)

	select {
	case err := <-saved:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("autosave never ran")
	}
	assert.False(t, ed.Dirty())

	loaded, err := fs.Load(context.Background(), "autosaved")
	require.NoError(t, err)
	assert.True(t, loaded.Has("p9"))
}

func TestCloseFlushes(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	p := family.Demo()
	p.Meta.ProjectName = "flushed"
	ed, err := New(p, WithLogger(quietLogger()), WithStore(fs), WithAutosaveDelay(time.Hour))
	require.NoError(t, err)

	_, err = ed.AddPerson(family.Person{ID: "p9", Name: "Late Addition"})
	require.NoError(t, err)
	require.NoError(t, ed.Close(context.Background()))

	loaded, err := fs.Load(context.Background(), "flushed")
	require.NoError(t, err)
	assert.True(t, loaded.Has("p9"))

	_, err = ed.AddPerson(family.Person{ID: "p10"})
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, ed.Close(context.Background()))
}

func TestSaveWithoutStore(t *testing.T) {
	ed := newEditor(t)
	err := ed.Save(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrClosed))
}

func TestCloseWithoutStore(t *testing.T) {
	ed := newEditor(t)
	_, _, err := ed.Link(family.LinkSpouse, "p5", "p6")
	require.NoError(t, err)
	require.True(t, ed.Dirty())
	assert.NoError(t, ed.Close(context.Background()))
}
