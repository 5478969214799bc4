// Package render rasterizes document items through a view.
package render

import (
	"fmt"
	"image"
	"image/color"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/view"

	"github.com/gogpu/gg"
	"honnef.co/go/curve"
)

// Options control paper and selection decoration.
type Options struct {
	Background color.Color
	// Selection paints the bounding box and anchors of selected items.
	Selection  color.Color
	HandleSize float64
	// MinStroke keeps hairlines visible when zoomed far out.
	MinStroke  float64
	// Scale is the number of pixels per screen unit, for high density displays.
	Scale      float64
}

func DefaultOptions() Options {
	return Options{
		Background: color.White,
		Selection:  color.NRGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff},
		HandleSize: 6,
		MinStroke:  0.5,
		Scale:      1,
	}
}

// Rasterize paints items onto a fresh w×h image using DefaultOptions.
func Rasterize(items []state.Item, v *view.View, w, h int) *image.RGBA {
	return RasterizeWith(items, v, w, h, DefaultOptions())
}

// RasterizeWith paints items bottom to top. Hidden items and items outside
// the visible rectangle are skipped.
func RasterizeWith(items []state.Item, v *view.View, w, h int, opts Options) *image.RGBA {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()

	if opts.Background != nil {
		dc.ClearWithColor(gg.FromColor(opts.Background))
	}
	Draw(dc, items, v, opts)
	if err := dc.FlushGPU(); err != nil {
		logging.For("render").Warn("flush failed", "err", err)
	}
	return dc.Image().(*image.RGBA)
}

// projector maps document points to pixels.
type projector struct {
	v     *view.View
	scale float64
}

func (p projector) at(pt geom.Point) geom.Point {
	s := p.v.ProjectToScreen(pt)
	return geom.Pt(s.X*p.scale, s.Y*p.scale)
}

// Draw paints items on an existing context.
func Draw(dc *gg.Context, items []state.Item, v *view.View, opts Options) {
	log := logging.For("render")
	if !(opts.Scale > 0) {
		opts.Scale = 1
	}
	pr := projector{v: v, scale: opts.Scale}
	visible := v.Visible(float64(dc.Width())/opts.Scale, float64(dc.Height())/opts.Scale)
	zoom := v.Zoom() * opts.Scale

	var selected []state.Item
	for _, it := range items {
		if it.Hidden || len(it.Geometry.Segments) == 0 {
			continue
		}
		bounds := it.Geometry.Bounds().Inflate(it.Style.Width/2, it.Style.Width/2)
		if !overlaps(bounds, visible) {
			continue
		}
		if err := drawItem(dc, it, pr, zoom, opts); err != nil {
			log.Warn("draw item", "id", it.ID, "err", err)
		}
		if it.Selected {
			selected = append(selected, it)
		}
	}
	for _, it := range selected {
		if err := drawSelection(dc, it, pr, opts); err != nil {
			log.Warn("draw selection", "id", it.ID, "err", err)
		}
	}
}

func drawItem(dc *gg.Context, it state.Item, pr projector, zoom float64, opts Options) error {
	dc.ClearPath()
	trace(dc, it.Geometry.Path(), pr)

	if it.Style.Fill != "" || (it.Kind.Filled() && it.Style.Stroke == "") {
		fill := it.Style.Fill
		if fill == "" {
			fill = "black"
		}
		dc.SetColor(state.MustColor(fill))
		dc.SetFillRule(gg.FillRuleNonZero)
		if err := dc.FillPreserve(); err != nil {
			return fmt.Errorf("fill %s: %w", it.Kind, err)
		}
	}
	if it.Style.Stroke != "" && it.Style.Width > 0 {
		dc.SetColor(state.MustColor(it.Style.Stroke))
		dc.SetLineWidth(max(it.Style.Width*zoom, opts.MinStroke))
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		if err := dc.StrokePreserve(); err != nil {
			return fmt.Errorf("stroke %s: %w", it.Kind, err)
		}
	}
	dc.ClearPath()
	return nil
}

func drawSelection(dc *gg.Context, it state.Item, pr projector, opts Options) error {
	if opts.Selection == nil {
		return nil
	}
	b := it.Geometry.Bounds()
	tl := pr.at(geom.Pt(b.MinX(), b.MinY()))
	br := pr.at(geom.Pt(b.MaxX(), b.MaxY()))

	dc.ClearPath()
	dc.SetColor(opts.Selection)
	dc.SetLineWidth(opts.Scale)
	dc.DrawRectangle(tl.X, tl.Y, br.X-tl.X, br.Y-tl.Y)
	if err := dc.Stroke(); err != nil {
		return err
	}

	s := opts.HandleSize * opts.Scale
	for _, seg := range it.Geometry.Segments {
		p := pr.at(seg.Point)
		dc.DrawRectangle(p.X-s/2, p.Y-s/2, s, s)
	}
	return dc.Fill()
}

// trace appends p to the context path in pixel space.
func trace(dc *gg.Context, p curve.BezPath, pr projector) {
	for _, el := range p {
		switch el.Kind {
		case curve.MoveToKind:
			a := pr.at(el.P0)
			dc.MoveTo(a.X, a.Y)
		case curve.LineToKind:
			a := pr.at(el.P0)
			dc.LineTo(a.X, a.Y)
		case curve.QuadToKind:
			a, b := pr.at(el.P0), pr.at(el.P1)
			dc.QuadraticTo(a.X, a.Y, b.X, b.Y)
		case curve.CubicToKind:
			a, b, c := pr.at(el.P0), pr.at(el.P1), pr.at(el.P2)
			dc.CubicTo(a.X, a.Y, b.X, b.Y, c.X, c.Y)
		case curve.ClosePathKind:
			dc.ClosePath()
		}
	}
}

func overlaps(a, b geom.Rect) bool {
	return !(a.MaxX() < b.MinX() || b.MaxX() < a.MinX() ||
		a.MaxY() < b.MinY() || b.MaxY() < a.MinY())
}
