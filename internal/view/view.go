// Package view maps between screen space and document space.
package view

import (
	"sync"

	"InkBoard/internal/geom"
)

const (
	DefaultMinZoom = 0.1
	DefaultMaxZoom = 20
)

// View is a uniform scale plus translation. Origin is the document point shown
// at the screen's top-left corner.
type View struct {
	mu      sync.RWMutex
	origin  geom.Point
	zoom    float64
	minZoom float64
	maxZoom float64
}

// New returns an identity view with zoom clamped to [minZoom, maxZoom].
// Non-positive bounds fall back to the defaults.
func New(minZoom, maxZoom float64) *View {
	if minZoom <= 0 {
		minZoom = DefaultMinZoom
	}
	if maxZoom < minZoom {
		maxZoom = max(DefaultMaxZoom, minZoom)
	}
	return &View{zoom: 1, minZoom: minZoom, maxZoom: maxZoom}
}

func (v *View) Zoom() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.zoom
}

func (v *View) Origin() geom.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.origin
}

func (v *View) ProjectToDocument(s geom.Point) geom.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.toDocument(s)
}

func (v *View) ProjectToScreen(p geom.Point) geom.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return geom.Pt((p.X-v.origin.X)*v.zoom, (p.Y-v.origin.Y)*v.zoom)
}

func (v *View) toDocument(s geom.Point) geom.Point {
	return geom.Pt(v.origin.X+s.X/v.zoom, v.origin.Y+s.Y/v.zoom)
}

// Visible returns the document rectangle shown by a w×h screen.
func (v *View) Visible(w, h float64) geom.Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	tl := v.origin
	br := v.toDocument(geom.Pt(w, h))
	return geom.Rect{X0: tl.X, Y0: tl.Y, X1: br.X, Y1: br.Y}
}

// Pan moves the content by a screen-space delta.
func (v *View) Pan(delta geom.Vec) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.origin = v.origin.Translate(delta.Div(-v.zoom))
}

// ZoomBy multiplies the zoom by factor, keeping the document point under the
// screen anchor fixed. It returns the resulting zoom.
func (v *View) ZoomBy(factor float64, anchor geom.Point) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setZoom(v.zoom*factor, anchor)
	return v.zoom
}

// SetZoom sets an absolute zoom anchored at a screen point.
func (v *View) SetZoom(zoom float64, anchor geom.Point) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.setZoom(zoom, anchor)
	return v.zoom
}

func (v *View) setZoom(zoom float64, anchor geom.Point) {
	if !(zoom > 0) {
		return
	}
	before := v.toDocument(anchor)
	v.zoom = geom.Clamp(zoom, v.minZoom, v.maxZoom)
	after := v.toDocument(anchor)
	v.origin = v.origin.Translate(before.Sub(after))
}

// Reset returns to the identity transform.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.origin = geom.Point{}
	v.zoom = 1
}

// Fit zooms and pans so r fills a w×h screen less margin on every side,
// centered. An empty r resets the view.
func (v *View) Fit(r geom.Rect, w, h, margin float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r = r.Abs()
	aw, ah := w-2*margin, h-2*margin
	if (r.Width() <= 0 && r.Height() <= 0) || aw <= 0 || ah <= 0 {
		v.origin = geom.Point{}
		v.zoom = 1
		return
	}
	zoom := v.maxZoom
	if r.Width() > 0 {
		zoom = min(zoom, aw/r.Width())
	}
	if r.Height() > 0 {
		zoom = min(zoom, ah/r.Height())
	}
	v.zoom = geom.Clamp(zoom, v.minZoom, v.maxZoom)
	c := r.Center()
	v.origin = geom.Pt(c.X-w/2/v.zoom, c.Y-h/2/v.zoom)
}
