package stroke

import (
	"InkBoard/internal/geom"

	"honnef.co/go/curve"
)

const dedupeEpsilon = 1e-9

// Smooth fits a closed C1 curve through pts: a uniform Catmull-Rom spline
// written as cubic Béziers. Coincident neighbours are dropped first. Fewer
// than three distinct points yield a closed polyline.
func Smooth(pts []geom.Point) curve.BezPath {
	pts = geom.Dedupe(pts, dedupeEpsilon)
	for len(pts) > 1 && pts[len(pts)-1].Distance(pts[0]) <= dedupeEpsilon {
		pts = pts[:len(pts)-1]
	}

	var p curve.BezPath
	n := len(pts)
	switch {
	case n == 0:
		return nil
	case n < 3:
		p.MoveTo(pts[0])
		for _, q := range pts[1:] {
			p.LineTo(q)
		}
		p.ClosePath()
		return p
	}

	at := func(i int) geom.Point { return pts[((i%n)+n)%n] }
	p.MoveTo(pts[0])
	for i := 0; i < n; i++ {
		p0, p1, p2, p3 := at(i-1), at(i), at(i+1), at(i+2)
		c1 := p1.Translate(p2.Sub(p0).Div(6))
		c2 := p2.Translate(p3.Sub(p1).Div(-6))
		p.CubicTo(c1, c2, p2)
	}
	p.ClosePath()
	return p
}
