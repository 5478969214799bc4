package view

import (
	"testing"

	"InkBoard/internal/geom"

	"github.com/stretchr/testify/assert"
)

func assertPt(t *testing.T, want, got geom.Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9)
	assert.InDelta(t, want.Y, got.Y, 1e-9)
}

func TestIdentity(t *testing.T) {
	v := New(0, 0)
	p := geom.Pt(12, -3)
	assertPt(t, p, v.ProjectToDocument(p))
	assertPt(t, p, v.ProjectToScreen(p))
}

func TestZoomKeepsAnchorFixed(t *testing.T) {
	v := New(0.1, 20)
	v.Pan(geom.V(30, -10))
	anchor := geom.Pt(200, 150)
	before := v.ProjectToDocument(anchor)

	v.ZoomBy(2.5, anchor)
	assert.InDelta(t, 2.5, v.Zoom(), 1e-12)
	assertPt(t, before, v.ProjectToDocument(anchor))

	v.ZoomBy(0.3, anchor)
	assertPt(t, before, v.ProjectToDocument(anchor))
}

func TestZoomClamped(t *testing.T) {
	v := New(0.5, 4)
	assert.Equal(t, 4.0, v.ZoomBy(100, geom.Pt(0, 0)))
	assert.Equal(t, 0.5, v.SetZoom(0.01, geom.Pt(0, 0)))
	assert.Equal(t, 0.5, v.SetZoom(-1, geom.Pt(0, 0)))
}

func TestPanDividesByZoom(t *testing.T) {
	v := New(0.1, 20)
	v.SetZoom(2, geom.Pt(0, 0))
	doc := geom.Pt(10, 10)
	s0 := v.ProjectToScreen(doc)

	v.Pan(geom.V(40, 20))
	assertPt(t, s0.Translate(geom.V(40, 20)), v.ProjectToScreen(doc))
	assertPt(t, geom.Pt(-20, -10), v.Origin())
}

func TestRoundTripAndVisible(t *testing.T) {
	v := New(0.1, 20)
	v.Pan(geom.V(-7, 3))
	v.ZoomBy(3, geom.Pt(50, 50))
	p := geom.Pt(33, 44)
	assertPt(t, p, v.ProjectToDocument(v.ProjectToScreen(p)))

	r := v.Visible(300, 150)
	assert.InDelta(t, 100, r.Width(), 1e-9)
	assert.InDelta(t, 50, r.Height(), 1e-9)

	v.Reset()
	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, geom.Point{}, v.Origin())
}

func TestFitCentersContent(t *testing.T) {
	v := New(0.1, 20)
	v.Fit(geom.Rect{X0: 100, Y0: 100, X1: 300, Y1: 200}, 420, 420, 10)
	assert.InDelta(t, 2.0, v.Zoom(), 1e-12)
	assertPt(t, geom.Pt(210, 210), v.ProjectToScreen(geom.Pt(200, 150)))
	assertPt(t, geom.Pt(10, 110), v.ProjectToScreen(geom.Pt(100, 100)))

	v.Fit(geom.Rect{}, 420, 420, 10)
	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, geom.Point{}, v.Origin())
}
