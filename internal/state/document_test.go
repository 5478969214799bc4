package state

import (
	"errors"
	"testing"

	"InkBoard/internal/geom"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) Geometry {
	return Polygon([]geom.Point{
		geom.Pt(x, y), geom.Pt(x+size, y), geom.Pt(x+size, y+size), geom.Pt(x, y+size),
	})
}

var fill = Style{Fill: "black"}

func TestCreateAndRemove(t *testing.T) {
	d := NewDocument()
	a := d.CreateItem(KindOutline, square(0, 0, 10), fill)
	b := d.CreateItem(KindLine, Geometry{Segments: []Segment{{Point: geom.Pt(0, 0)}, {Point: geom.Pt(5, 5)}}}, Style{Stroke: "red", Width: 2})
	require.Equal(t, 2, d.Len())
	assert.NotEqual(t, a, b)

	items := d.Items()
	assert.Equal(t, a, items[0].ID)
	assert.Equal(t, b, items[1].ID)

	assert.True(t, d.RemoveItem(a))
	assert.False(t, d.RemoveItem(a))
	assert.Equal(t, 1, d.Len())
}

func TestMutationsOnUnknownItem(t *testing.T) {
	d := NewDocument()
	err := d.SetVisible("nope", false)
	assert.True(t, errors.Is(err, ErrUnknownItem))
	_, err = d.ItemGeometry("nope")
	assert.True(t, errors.Is(err, ErrUnknownItem))
}

func TestItemsAreCopies(t *testing.T) {
	d := NewDocument()
	id := d.CreateItem(KindOutline, square(0, 0, 10), fill)
	it, _ := d.Item(id)
	it.Geometry.Segments[0].Point = geom.Pt(100, 100)

	again, _ := d.Item(id)
	assert.Equal(t, geom.Pt(0, 0), again.Geometry.Segments[0].Point)
}

func TestRevisionTicks(t *testing.T) {
	d := NewDocument()
	r0 := d.Revision()
	id := d.CreateItem(KindOutline, square(0, 0, 10), fill)
	r1 := d.Revision()
	require.NoError(t, d.SetVisible(id, false))
	assert.Greater(t, r1, r0)
	assert.Greater(t, d.Revision(), r1)
}

func TestExportImportRoundTrip(t *testing.T) {
	d := NewDocument()
	d.CreateItem(KindOutline, square(0, 0, 10), fill)
	id := d.CreateItem(KindEllipse, GeometryFromPath(square(20, 20, 4).Path()), Style{Stroke: "#336699", Width: 2})
	require.NoError(t, d.SetVisible(id, false))

	before := d.Items()
	snap, err := d.ExportState()
	require.NoError(t, err)

	d.Clear()
	assert.Equal(t, 0, d.Len())

	require.NoError(t, d.ImportState(snap))
	if diff := cmp.Diff(before, d.Items()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}

	again, err := d.ExportState()
	require.NoError(t, err)
	assert.Equal(t, snap, again)
}

func TestImportFailureLeavesDocumentUntouched(t *testing.T) {
	d := NewDocument()
	d.CreateItem(KindOutline, square(0, 0, 10), fill)

	assert.Error(t, d.ImportState([]byte("{not json")))
	assert.Error(t, d.ImportState([]byte(`{"version":99,"items":[]}`)))
	assert.Error(t, d.ImportState([]byte(`{"version":1,"items":[{"id":"a"},{"id":"a"}]}`)))
	assert.Equal(t, 1, d.Len())
}

func TestHitTest(t *testing.T) {
	d := NewDocument()
	bottom := d.CreateItem(KindOutline, square(0, 0, 10), fill)
	top := d.CreateItem(KindOutline, square(5, 5, 10), fill)

	all := HitOptions{Tolerance: 1, Segments: true, Stroke: true, Fill: true}

	r, ok := d.HitTest(geom.Pt(7, 7), all)
	require.True(t, ok)
	assert.Equal(t, top, r.Item)
	assert.Equal(t, HitFill, r.Kind)

	r, ok = d.HitTest(geom.Pt(0.5, 0.2), all)
	require.True(t, ok)
	assert.Equal(t, bottom, r.Item)
	assert.Equal(t, HitSegment, r.Kind)
	assert.Equal(t, 0, r.Segment)

	r, ok = d.HitTest(geom.Pt(3, 0.5), all)
	require.True(t, ok)
	assert.Equal(t, HitStroke, r.Kind)

	_, ok = d.HitTest(geom.Pt(50, 50), all)
	assert.False(t, ok)

	hits := d.HitTestAll(geom.Pt(7, 7), all)
	require.Len(t, hits, 2)
	assert.Equal(t, top, hits[0].Item)
	assert.Equal(t, bottom, hits[1].Item)

	require.NoError(t, d.SetVisible(top, false))
	r, ok = d.HitTest(geom.Pt(7, 7), all)
	require.True(t, ok)
	assert.Equal(t, bottom, r.Item)
}

func TestHitTestHandles(t *testing.T) {
	d := NewDocument()
	g := Geometry{Segments: []Segment{
		{Point: geom.Pt(0, 0), HandleOut: geom.V(10, 0)},
		{Point: geom.Pt(40, 0), HandleIn: geom.V(0, 10)},
	}}
	id := d.CreateItem(KindLine, g, Style{Stroke: "black", Width: 1})

	r, ok := d.HitTest(geom.Pt(10, 0.5), HitOptions{Tolerance: 2, Segments: true, Handles: true})
	require.True(t, ok)
	assert.Equal(t, id, r.Item)
	assert.Equal(t, HitHandleOut, r.Kind)
	assert.Equal(t, 0, r.Segment)

	r, ok = d.HitTest(geom.Pt(40, 10), HitOptions{Tolerance: 2, Handles: true})
	require.True(t, ok)
	assert.Equal(t, HitHandleIn, r.Kind)
	assert.Equal(t, 1, r.Segment)
}

func TestUnfilledShapeIgnoresInterior(t *testing.T) {
	d := NewDocument()
	d.CreateItem(KindRect, square(0, 0, 20), Style{Stroke: "black", Width: 2})
	_, ok := d.HitTest(geom.Pt(10, 10), HitOptions{Tolerance: 1, Stroke: true, Fill: true})
	assert.False(t, ok)
}

func TestQueryRectAndItems(t *testing.T) {
	d := NewDocument()
	a := d.CreateItem(KindOutline, square(0, 0, 10), fill)
	d.CreateItem(KindOutline, square(100, 100, 10), fill)

	assert.Equal(t, []ItemID{a}, d.QueryRect(geom.Rect{X0: -5, Y0: -5, X1: 5, Y1: 5}))
	assert.Len(t, d.QueryItems(func(it Item) bool { return it.Kind == KindOutline }), 2)
}

func TestItemGeometryStable(t *testing.T) {
	d := NewDocument()
	id := d.CreateItem(KindOutline, square(0, 0, 10), fill)
	a, err := d.ItemGeometry(id)
	require.NoError(t, err)
	it, _ := d.Item(id)
	require.NoError(t, d.SetSegments(id, it.Geometry.Segments))
	b, err := d.ItemGeometry(id)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
