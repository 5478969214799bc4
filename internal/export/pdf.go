package export

import (
	"io"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"

	"github.com/jung-kurt/gofpdf"
	"honnef.co/go/curve"
)

// PDFMargin is the page margin in millimetres.
const PDFMargin = 10.0

// PDF writes items onto a single A4 page, scaled to fit inside the margin.
func PDF(w io.Writer, items []state.Item) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	items = visible(items)
	if box, ok := extent(items); ok {
		pw, ph := p.GetPageSize()
		m := fitPage(box, pw, ph, PDFMargin)
		for _, it := range items {
			drawPDF(p, it, m)
		}
	}
	if err := p.Error(); err != nil {
		return err
	}
	return p.Output(w)
}

// pageMap is a uniform scale plus translation into page space.
type pageMap struct {
	scale float64
	off   geom.Vec
	from  geom.Point
}

func (m pageMap) apply(pt geom.Point) geom.Point {
	return geom.Pt((pt.X-m.from.X)*m.scale+m.off.X, (pt.Y-m.from.Y)*m.scale+m.off.Y)
}

func fitPage(box geom.Rect, pw, ph, margin float64) pageMap {
	aw, ah := pw-2*margin, ph-2*margin
	s := 1.0
	if box.Width() > 0 || box.Height() > 0 {
		s = aw / max(box.Width(), 1e-9)
		if box.Height() > 0 {
			s = min(s, ah/box.Height())
		}
	}
	s = min(s, 1e6)
	off := geom.V(margin+(aw-box.Width()*s)/2, margin+(ah-box.Height()*s)/2)
	return pageMap{scale: s, off: off, from: geom.Pt(box.MinX(), box.MinY())}
}

func drawPDF(p *gofpdf.Fpdf, it state.Item, m pageMap) {
	style := ""
	if fill, ok := fillOf(it); ok {
		c := state.MustColor(fill)
		p.SetFillColor(int(c.R), int(c.G), int(c.B))
		style += "F"
	}
	if stroke, ok := strokeOf(it); ok {
		c := state.MustColor(stroke)
		p.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.SetLineWidth(it.Style.Width * m.scale)
		style = "D" + style
	}
	if style == "" {
		return
	}

	for _, el := range it.Geometry.Path() {
		switch el.Kind {
		case curve.MoveToKind:
			a := m.apply(el.P0)
			p.MoveTo(a.X, a.Y)
		case curve.LineToKind:
			a := m.apply(el.P0)
			p.LineTo(a.X, a.Y)
		case curve.QuadToKind:
			a, b := m.apply(el.P0), m.apply(el.P1)
			p.CurveTo(a.X, a.Y, b.X, b.Y)
		case curve.CubicToKind:
			a, b, c := m.apply(el.P0), m.apply(el.P1), m.apply(el.P2)
			p.CurveBezierCubicTo(a.X, a.Y, b.X, b.Y, c.X, c.Y)
		case curve.ClosePathKind:
			p.ClosePath()
		}
	}
	p.DrawPath(style)
}
