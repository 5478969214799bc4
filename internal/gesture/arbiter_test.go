package gesture

import (
	"testing"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
	"InkBoard/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTool counts lifecycle calls.
type fakeTool struct {
	begins, updates, ends, cancels int
	gestureStarts, gestureEnds     int
}

func (f *fakeTool) Begin(state.Contact) bool { f.begins++; return true }
func (f *fakeTool) Update(state.Contact)     { f.updates++ }
func (f *fakeTool) End(state.Contact) error  { f.ends++; return nil }
func (f *fakeTool) Cancel(state.Contact)     { f.cancels++ }
func (f *fakeTool) OnGestureStart()          { f.gestureStarts++ }
func (f *fakeTool) OnGestureEnd()            { f.gestureEnds++ }

func touch(id state.ContactID, x, y float64) state.Contact {
	return state.Contact{ID: id, Position: geom.Pt(x, y), Kind: state.InputTouch, Pressed: true}
}

func setup(tl *fakeTool) (*Arbiter, *view.View, *int) {
	v := view.New(0.1, 20)
	redraws := 0
	var target func() Target
	if tl != nil {
		target = func() Target { return tl }
	}
	a := New(state.NewSession(), v, DefaultConfig(), target, func() { redraws++ })
	return a, v, &redraws
}

func TestTwoContactsStartGestureOnce(t *testing.T) {
	tl := &fakeTool{}
	a, _, _ := setup(tl)

	a.ContactBegin(touch(1, 0, 0))
	assert.Equal(t, 1, tl.begins)
	assert.False(t, a.State().Gesturing)

	a.ContactBegin(touch(2, 100, 0))
	s := a.State()
	assert.True(t, s.Gesturing)
	assert.Equal(t, 1, tl.gestureStarts)
	assert.True(t, s.HasPinch)
	assert.Equal(t, 100.0, s.LastPinchDistance)
	assert.Equal(t, geom.Pt(50, 0), s.LastMidpoint)

	a.ContactBegin(touch(3, 50, 50))
	assert.Equal(t, 1, tl.gestureStarts)
	assert.Equal(t, 1, tl.begins)
}

func TestDropBelowTwoEndsGesture(t *testing.T) {
	tl := &fakeTool{}
	a, _, _ := setup(tl)
	a.ContactBegin(touch(1, 0, 0))
	a.ContactBegin(touch(2, 100, 0))

	require.NoError(t, a.ContactEnd(touch(2, 100, 0)))
	s := a.State()
	assert.False(t, s.Gesturing)
	assert.Equal(t, 1, s.Contacts)
	assert.Equal(t, 1, tl.gestureEnds)
	assert.Zero(t, tl.ends, "gesture contacts never reach the tool")

	require.NoError(t, a.ContactEnd(touch(1, 0, 0)))
	s = a.State()
	assert.Zero(t, s.Contacts)
	assert.False(t, s.HasPinch)
	assert.False(t, s.HasMidpoint)
}

func TestThreeToTwoReseeds(t *testing.T) {
	a, _, _ := setup(&fakeTool{})
	a.ContactBegin(touch(1, 0, 0))
	a.ContactBegin(touch(2, 100, 0))
	a.ContactBegin(touch(3, 0, 300))

	require.NoError(t, a.ContactEnd(touch(2, 100, 0)))
	s := a.State()
	assert.True(t, s.Gesturing)
	assert.Equal(t, 300.0, s.LastPinchDistance)
	assert.Equal(t, geom.Pt(0, 150), s.LastMidpoint)
}

func TestPinchZoomKeepsMidpointAnchored(t *testing.T) {
	a, v, redraws := setup(nil)
	a.ContactBegin(touch(1, 100, 100))
	a.ContactBegin(touch(2, 200, 100))

	anchor := geom.Pt(150, 100)
	doc := v.ProjectToDocument(anchor)
	for _, half := range []float64{60, 75, 90, 40, 20} {
		a.ContactMove(touch(1, 150-half, 100))
		a.ContactMove(touch(2, 150+half, 100))
		got := v.ProjectToDocument(anchor)
		assert.InDelta(t, doc.X, got.X, 1e-9)
		assert.InDelta(t, doc.Y, got.Y, 1e-9)
	}
	assert.InDelta(t, 0.4, v.Zoom(), 1e-9)
	assert.Positive(t, *redraws)
}

func TestPinchPanFollowsMidpoint(t *testing.T) {
	a, v, _ := setup(nil)
	a.ContactBegin(touch(1, 100, 100))
	a.ContactBegin(touch(2, 200, 100))
	doc := v.ProjectToDocument(geom.Pt(150, 100))

	a.ContactMove(touch(1, 130, 140))
	a.ContactMove(touch(2, 230, 140))

	got := v.ProjectToScreen(doc)
	assert.InDelta(t, 180, got.X, 1e-9)
	assert.InDelta(t, 140, got.Y, 1e-9)
	assert.InDelta(t, 1.0, v.Zoom(), 1e-12)
}

func TestZoomNoiseThreshold(t *testing.T) {
	a, v, _ := setup(nil)
	a.ContactBegin(touch(1, 0, 0))
	a.ContactBegin(touch(2, 100, 0))

	a.ContactMove(touch(2, 100.3, 0))
	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, 100.0, a.State().LastPinchDistance)

	a.ContactMove(touch(2, 100.6, 0))
	assert.InDelta(t, 1.006, v.Zoom(), 1e-12)
	assert.Equal(t, 100.6, a.State().LastPinchDistance)
}

func TestSingleContactGoesToTool(t *testing.T) {
	tl := &fakeTool{}
	a, v, _ := setup(tl)
	a.ContactBegin(touch(1, 0, 0))
	a.ContactMove(touch(1, 10, 10))
	a.ContactMove(touch(1, 20, 10))
	require.NoError(t, a.ContactEnd(touch(1, 20, 10)))

	assert.Equal(t, 1, tl.begins)
	assert.Equal(t, 2, tl.updates)
	assert.Equal(t, 1, tl.ends)
	assert.Equal(t, geom.Point{}, v.Origin())

	a.ContactBegin(touch(4, 0, 0))
	a.ContactCancel(touch(4, 0, 0))
	assert.Equal(t, 1, tl.cancels)
}

func TestSingleContactPansWithoutTool(t *testing.T) {
	a, v, _ := setup(nil)
	a.ContactBegin(touch(1, 50, 50))
	a.ContactMove(touch(1, 70, 40))
	assert.Equal(t, geom.Pt(-20, 10), v.Origin())
	require.NoError(t, a.ContactEnd(touch(1, 70, 40)))
	assert.False(t, a.State().HasMidpoint)
}

func TestRemainingContactAfterGestureDoesNotJump(t *testing.T) {
	a, v, _ := setup(nil)
	a.ContactBegin(touch(1, 0, 0))
	a.ContactBegin(touch(2, 100, 0))
	require.NoError(t, a.ContactEnd(touch(2, 100, 0)))
	before := v.Origin()

	a.ContactMove(touch(1, 5, 0))
	assert.Equal(t, before.Translate(geom.V(-5, 0)), v.Origin())
}

func TestUntrackedAndDuplicateContactsIgnored(t *testing.T) {
	tl := &fakeTool{}
	a, v, _ := setup(tl)

	a.ContactMove(touch(9, 10, 10))
	require.NoError(t, a.ContactEnd(touch(9, 10, 10)))
	a.ContactCancel(touch(9, 10, 10))

	a.ContactBegin(touch(1, 0, 0))
	a.ContactBegin(touch(1, 5, 5))
	assert.Equal(t, 1, a.State().Contacts)
	assert.False(t, a.State().Gesturing)
	assert.Equal(t, 1, tl.begins)
	assert.Zero(t, tl.updates+tl.ends+tl.cancels)
	assert.Equal(t, geom.Point{}, v.Origin())
}

func TestWheelZoomAnchored(t *testing.T) {
	a, v, _ := setup(nil)
	at := geom.Pt(320, 240)
	doc := v.ProjectToDocument(at)
	a.Wheel(2, at)
	assert.InDelta(t, 1.44, v.Zoom(), 1e-12)
	got := v.ProjectToDocument(at)
	assert.InDelta(t, doc.X, got.X, 1e-9)
	assert.InDelta(t, doc.Y, got.Y, 1e-9)

	a.Wheel(-2, at)
	assert.InDelta(t, 1, v.Zoom(), 1e-12)
}
