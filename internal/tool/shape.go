package tool

import (
	"slices"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"

	"honnef.co/go/curve"
)

// shapeTool drags out a rectangle or an ellipse inscribed in the drag box.
type shapeTool struct {
	base
	kind    ShapeKind
	from    geom.Point
	preview state.ItemID
	style   state.Style
}

func (t *shapeTool) Begin(c state.Contact) bool {
	if !t.accept(c) {
		return false
	}
	t.start(c)
	t.from = t.docPoint(c)
	p := t.paint()
	t.style = state.Style{Stroke: p.Color, Width: p.Width}
	return true
}

func (t *shapeTool) Update(c state.Contact) {
	if !t.owns(c) || t.gesturing() {
		return
	}
	t.dragTo(t.docPoint(c))
}

func (t *shapeTool) dragTo(to geom.Point) {
	box := geom.Bounds([]geom.Point{t.from, to})
	if box.Width() == 0 || box.Height() == 0 {
		t.removePreview()
		t.redraw()
		return
	}
	g := shapeGeometry(t.kind, box)
	if t.preview == "" || t.env.Doc.SetGeometry(t.preview, g) != nil {
		t.preview = t.env.Doc.CreateItem(t.itemKind(), g, t.style)
	}
	t.redraw()
}

func (t *shapeTool) itemKind() state.Kind {
	if t.kind == Ellipse {
		return state.KindEllipse
	}
	return state.KindRect
}

func (t *shapeTool) End(c state.Contact) error {
	if !t.owns(c) {
		return nil
	}
	if !t.gesturing() {
		t.dragTo(t.docPoint(c))
	}
	return t.commit()
}

// commit keeps the shape only when both sides of its box reach the minimum size.
func (t *shapeTool) commit() error {
	defer t.stop()
	it, ok := t.env.Doc.Item(t.preview)
	if !ok {
		t.preview = ""
		return nil
	}
	box := it.Geometry.Path().BoundingBox()
	minSize := t.env.Config.ShapeMinSize
	if box.Width() < minSize || box.Height() < minSize {
		t.removePreview()
		t.redraw()
		return nil
	}
	t.log.Debug("shape committed", "item", t.preview, "shape", t.kind)
	t.preview = ""
	return t.record()
}

func (t *shapeTool) Cancel(c state.Contact) {
	if t.owns(c) {
		t.revert()
	}
}

func (t *shapeTool) OnGestureStart() {
	if t.active {
		t.revert()
	}
}

func (t *shapeTool) Deactivate() error {
	if !t.active {
		return nil
	}
	return t.commit()
}

func (t *shapeTool) revert() {
	t.removePreview()
	t.stop()
	t.redraw()
}

func (t *shapeTool) removePreview() {
	if t.preview != "" {
		t.env.Doc.RemoveItem(t.preview)
	}
	t.preview = ""
}

func shapeGeometry(kind ShapeKind, box geom.Rect) state.Geometry {
	if kind == Ellipse {
		e := curve.NewEllipseFromRect(box)
		return state.GeometryFromPath(slices.Collect(e.PathElements(circleTolerance))).Close()
	}
	return state.Polygon([]geom.Point{
		geom.Pt(box.X0, box.Y0), geom.Pt(box.X1, box.Y0),
		geom.Pt(box.X1, box.Y1), geom.Pt(box.X0, box.Y1),
	})
}
