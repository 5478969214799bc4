// Package geom contains the small amount of plane math shared by the
// synthesizer, the tools and the gesture arbiter.
package geom

import (
	"math"

	"honnef.co/go/curve"
)

type (
	Point = curve.Point
	Vec   = curve.Vec2
	Rect  = curve.Rect
)

// Pt is shorthand for curve.Pt.
func Pt(x, y float64) Point { return curve.Pt(x, y) }

// V is shorthand for curve.Vec.
func V(x, y float64) Vec { return curve.Vec(x, y) }

// nominal replaces a zero-length direction so normals stay defined.
var nominal = curve.Vec(0.1, 0)

func Distance(a, b Point) float64 {
	return a.Distance(b)
}

func Midpoint(a, b Point) Point {
	return a.Midpoint(b)
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// MapRange maps v linearly from [inMin, inMax] to [outMin, outMax].
// It does not clamp.
func MapRange(v, inMin, inMax, outMin, outMax float64) float64 {
	if inMax == inMin {
		return outMin
	}
	t := (v - inMin) / (inMax - inMin)
	return t*(outMax-outMin) + outMin
}

// Direction returns b-a, or a short nominal vector along +x when the two
// points coincide.
func Direction(a, b Point) Vec {
	v := b.Sub(a)
	if v.Hypot2() == 0 {
		return nominal
	}
	return v
}

// Normal returns the unit vector perpendicular to v, rotated a quarter turn
// counter-clockwise in a y-down frame.
func Normal(v Vec) Vec {
	if v.Hypot2() == 0 {
		v = nominal
	}
	n := curve.Vec(-v.Y, v.X)
	return n.Div(n.Hypot())
}

// Dedupe drops consecutive points closer than eps to their predecessor.
func Dedupe(pts []Point, eps float64) []Point {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Point, 0, len(pts))
	out = append(out, pts[0])
	for _, p := range pts[1:] {
		if p.Distance(out[len(out)-1]) > eps {
			out = append(out, p)
		}
	}
	return out
}

// Bounds returns the bounding box of pts. The zero Rect is returned for an
// empty slice.
func Bounds(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{X0: pts[0].X, Y0: pts[0].Y, X1: pts[0].X, Y1: pts[0].Y}
	for _, p := range pts[1:] {
		r = r.UnionPoint(p)
	}
	return r
}
