package state

import (
	"fmt"

	"InkBoard/internal/geom"

	"honnef.co/go/curve"
)

// ItemID is the stable handle of a drawable item.
type ItemID string

// Kind says how an item was produced. It drives default rendering: outlines
// and dots are filled, lines and shapes are stroked.
type Kind int

const (
	KindOutline Kind = iota
	KindDot
	KindLine
	KindRect
	KindEllipse
)

func (k Kind) String() string {
	switch k {
	case KindOutline:
		return "outline"
	case KindDot:
		return "dot"
	case KindLine:
		return "line"
	case KindRect:
		return "rect"
	case KindEllipse:
		return "ellipse"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Filled reports whether items of this kind are painted by filling.
func (k Kind) Filled() bool {
	return k == KindOutline || k == KindDot
}

// Style is the paint of an item. Colors are names ("black") or "#rrggbb".
type Style struct {
	Fill   string  `json:"fill,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
	Width  float64 `json:"width,omitempty"`
}

// Segment is an anchor point with handles relative to it. A zero handle
// means a straight edge on that side.
type Segment struct {
	Point     geom.Point `json:"point"`
	HandleIn  geom.Vec   `json:"handleIn"`
	HandleOut geom.Vec   `json:"handleOut"`
}

// Geometry is the shape of an item: a single subpath.
type Geometry struct {
	Segments []Segment `json:"segments"`
	Closed   bool      `json:"closed,omitempty"`
}

// Item is a drawable owned by the Document.
type Item struct {
	ID       ItemID   `json:"id"`
	Kind     Kind     `json:"kind"`
	Geometry Geometry `json:"geometry"`
	Style    Style    `json:"style"`
	Hidden   bool     `json:"hidden,omitempty"`
	Selected bool     `json:"selected,omitempty"`
}

func (it Item) clone() Item {
	it.Geometry = it.Geometry.Clone()
	return it
}

// Clone returns a deep copy.
func (g Geometry) Clone() Geometry {
	if g.Segments != nil {
		g.Segments = append([]Segment(nil), g.Segments...)
	}
	return g
}

// Translate moves every anchor by d. Handles are relative and stay as they are.
func (g Geometry) Translate(d geom.Vec) Geometry {
	out := g.Clone()
	for i := range out.Segments {
		out.Segments[i].Point = out.Segments[i].Point.Translate(d)
	}
	return out
}

// Path converts the geometry to a Bézier path.
func (g Geometry) Path() curve.BezPath {
	var p curve.BezPath
	if len(g.Segments) == 0 {
		return p
	}
	p.MoveTo(g.Segments[0].Point)
	for i := 1; i < len(g.Segments); i++ {
		edge(&p, g.Segments[i-1], g.Segments[i])
	}
	if g.Closed {
		if len(g.Segments) > 1 {
			edge(&p, g.Segments[len(g.Segments)-1], g.Segments[0])
		}
		p.ClosePath()
	}
	return p
}

func edge(p *curve.BezPath, from, to Segment) {
	if from.HandleOut.Hypot2() == 0 && to.HandleIn.Hypot2() == 0 {
		p.LineTo(to.Point)
		return
	}
	p.CubicTo(from.Point.Translate(from.HandleOut), to.Point.Translate(to.HandleIn), to.Point)
}

// GeometryFromPath converts the first subpath of p into segments. Quadratic
// curves are raised to cubics. A closing edge that returns to the first anchor
// is folded into that anchor's in-handle.
func GeometryFromPath(p curve.BezPath) Geometry {
	var g Geometry
	for _, el := range p {
		switch el.Kind {
		case curve.MoveToKind:
			if len(g.Segments) > 0 {
				return finish(g)
			}
			g.Segments = append(g.Segments, Segment{Point: el.P0})
		case curve.LineToKind:
			g.Segments = append(g.Segments, Segment{Point: el.P0})
		case curve.QuadToKind:
			last := &g.Segments[len(g.Segments)-1]
			c1 := last.Point.Lerp(el.P0, 2.0/3.0)
			c2 := el.P1.Lerp(el.P0, 2.0/3.0)
			last.HandleOut = c1.Sub(last.Point)
			g.Segments = append(g.Segments, Segment{Point: el.P1, HandleIn: c2.Sub(el.P1)})
		case curve.CubicToKind:
			last := &g.Segments[len(g.Segments)-1]
			last.HandleOut = el.P0.Sub(last.Point)
			g.Segments = append(g.Segments, Segment{Point: el.P2, HandleIn: el.P1.Sub(el.P2)})
		case curve.ClosePathKind:
			g.Closed = true
			return finish(g)
		}
	}
	return finish(g)
}

func finish(g Geometry) Geometry {
	n := len(g.Segments)
	if g.Closed && n > 1 && g.Segments[n-1].Point == g.Segments[0].Point {
		g.Segments[0].HandleIn = g.Segments[n-1].HandleIn
		g.Segments = g.Segments[:n-1]
	}
	return g
}

// closeEpsilon is how near the last anchor must be to the first for Close to
// merge them.
const closeEpsilon = 1e-9

// Close marks the geometry closed. A last anchor that lands on the first one
// is merged into it.
func (g Geometry) Close() Geometry {
	out := g.Clone()
	out.Closed = true
	n := len(out.Segments)
	if n > 1 && out.Segments[n-1].Point.Distance(out.Segments[0].Point) <= closeEpsilon {
		out.Segments[0].HandleIn = out.Segments[n-1].HandleIn
		out.Segments = out.Segments[:n-1]
	}
	return out
}

// Points returns the anchor points only.
func (g Geometry) Points() []geom.Point {
	pts := make([]geom.Point, len(g.Segments))
	for i, s := range g.Segments {
		pts[i] = s.Point
	}
	return pts
}

// Bounds returns the control box of the geometry (anchors and handles).
func (g Geometry) Bounds() geom.Rect {
	if len(g.Segments) == 0 {
		return geom.Rect{}
	}
	return g.Path().ControlBox()
}

// Polygon builds closed straight-edged geometry through pts.
func Polygon(pts []geom.Point) Geometry {
	g := Geometry{Closed: true, Segments: make([]Segment, len(pts))}
	for i, p := range pts {
		g.Segments[i] = Segment{Point: p}
	}
	return g
}
