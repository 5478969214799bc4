package tool

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// lineTool draws a straight stroked segment from the press point to the
// release point.
type lineTool struct {
	base
	from    geom.Point
	preview state.ItemID
}

func (t *lineTool) Begin(c state.Contact) bool {
	if !t.accept(c) {
		return false
	}
	t.start(c)
	t.from = t.docPoint(c)
	p := t.paint()
	t.preview = t.env.Doc.CreateItem(state.KindLine, lineGeometry(t.from, t.from),
		state.Style{Stroke: p.Color, Width: p.Width})
	t.redraw()
	return true
}

func (t *lineTool) Update(c state.Contact) {
	if !t.owns(c) || t.gesturing() {
		return
	}
	t.moveTo(t.docPoint(c))
}

func (t *lineTool) moveTo(to geom.Point) {
	_ = t.env.Doc.SetGeometry(t.preview, lineGeometry(t.from, to))
	t.redraw()
}

func (t *lineTool) End(c state.Contact) error {
	if !t.owns(c) {
		return nil
	}
	if !t.gesturing() {
		t.moveTo(t.docPoint(c))
	}
	return t.commit()
}

func (t *lineTool) commit() error {
	defer t.reset()
	it, ok := t.env.Doc.Item(t.preview)
	if !ok {
		return nil
	}
	segs := it.Geometry.Segments
	if geom.Distance(segs[0].Point, segs[len(segs)-1].Point) < t.env.Config.LineMinLength {
		t.env.Doc.RemoveItem(t.preview)
		t.redraw()
		return nil
	}
	t.log.Debug("line committed", "item", t.preview)
	return t.record()
}

func (t *lineTool) Cancel(c state.Contact) {
	if t.owns(c) {
		t.revert()
	}
}

func (t *lineTool) OnGestureStart() {
	if t.active {
		t.revert()
	}
}

func (t *lineTool) Deactivate() error {
	if !t.active {
		return nil
	}
	return t.commit()
}

func (t *lineTool) revert() {
	if t.preview != "" {
		t.env.Doc.RemoveItem(t.preview)
	}
	t.reset()
	t.redraw()
}

func (t *lineTool) reset() {
	t.preview = ""
	t.stop()
}

func lineGeometry(from, to geom.Point) state.Geometry {
	return state.Geometry{Segments: []state.Segment{{Point: from}, {Point: to}}}
}
