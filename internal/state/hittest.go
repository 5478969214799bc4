package state

import (
	"math"

	"InkBoard/internal/geom"
)

// HitKind is the part of an item that was hit.
type HitKind int

const (
	HitSegment HitKind = iota
	HitHandleIn
	HitHandleOut
	HitStroke
	HitFill
)

func (k HitKind) String() string {
	switch k {
	case HitSegment:
		return "segment"
	case HitHandleIn:
		return "handle-in"
	case HitHandleOut:
		return "handle-out"
	case HitStroke:
		return "stroke"
	case HitFill:
		return "fill"
	default:
		return "unknown"
	}
}

// HitOptions selects which parts of an item take part in a hit test.
type HitOptions struct {
	Tolerance float64
	Segments  bool
	Handles   bool
	Stroke    bool
	Fill      bool
}

type HitResult struct {
	Item    ItemID
	Kind    HitKind
	Segment int
}

const nearestAccuracy = 1e-6

// HitTest returns the topmost visible item hit at pt.
func (d *Document) HitTest(pt geom.Point, opts HitOptions) (HitResult, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for i := len(d.order) - 1; i >= 0; i-- {
		if r, ok := hitItem(d.items[d.order[i]], pt, opts); ok {
			return r, true
		}
	}
	return HitResult{}, false
}

// HitTestAll returns one result per visible item hit at pt, topmost first.
func (d *Document) HitTestAll(pt geom.Point, opts HitOptions) []HitResult {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []HitResult
	for i := len(d.order) - 1; i >= 0; i-- {
		if r, ok := hitItem(d.items[d.order[i]], pt, opts); ok {
			out = append(out, r)
		}
	}
	return out
}

// QueryRect returns the visible items whose control box overlaps r, bottom to top.
func (d *Document) QueryRect(r geom.Rect) []ItemID {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []ItemID
	for _, id := range d.order {
		it := d.items[id]
		if it.Hidden || len(it.Geometry.Segments) == 0 {
			continue
		}
		b := it.Geometry.Bounds().Inflate(it.Style.Width/2, it.Style.Width/2)
		if overlaps(b, r) {
			ids = append(ids, id)
		}
	}
	return ids
}

func overlaps(a, b geom.Rect) bool {
	return !(a.MaxX() < b.MinX() || b.MaxX() < a.MinX() ||
		a.MaxY() < b.MinY() || b.MaxY() < a.MinY())
}

func hitItem(it *Item, pt geom.Point, opts HitOptions) (HitResult, bool) {
	if it.Hidden || len(it.Geometry.Segments) == 0 {
		return HitResult{}, false
	}
	tol := opts.Tolerance
	reach := tol + it.Style.Width/2
	if !it.Geometry.Bounds().Inflate(reach, reach).Contains(pt) {
		return HitResult{}, false
	}

	segs := it.Geometry.Segments
	if opts.Segments {
		for i, s := range segs {
			if s.Point.Distance(pt) <= tol {
				return HitResult{Item: it.ID, Kind: HitSegment, Segment: i}, true
			}
		}
	}
	if opts.Handles {
		for i, s := range segs {
			if s.HandleIn.Hypot2() > 0 && s.Point.Translate(s.HandleIn).Distance(pt) <= tol {
				return HitResult{Item: it.ID, Kind: HitHandleIn, Segment: i}, true
			}
			if s.HandleOut.Hypot2() > 0 && s.Point.Translate(s.HandleOut).Distance(pt) <= tol {
				return HitResult{Item: it.ID, Kind: HitHandleOut, Segment: i}, true
			}
		}
	}

	path := it.Geometry.Path()
	if opts.Stroke {
		for seg := range path.Segments() {
			distSq, _ := seg.Nearest(pt, nearestAccuracy)
			if math.Sqrt(distSq) <= reach {
				return HitResult{Item: it.ID, Kind: HitStroke, Segment: -1}, true
			}
		}
	}
	if opts.Fill && it.Geometry.Closed && it.Style.Fill != "" && path.Winding(pt) != 0 {
		return HitResult{Item: it.ID, Kind: HitFill, Segment: -1}, true
	}
	return HitResult{}, false
}
