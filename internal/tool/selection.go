package tool

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// selectTool picks the topmost item under the contact and drags it.
type selectTool struct {
	base
	selected state.ItemID
	prevSel  []state.ItemID
	from     geom.Point
	before   state.Geometry
	offset   geom.Vec
}

func (t *selectTool) Drawing() bool { return false }

// Selected returns the item the tool currently holds.
func (t *selectTool) Selected() state.ItemID { return t.selected }

// Activate adopts the topmost item that is already selected.
func (t *selectTool) Activate() {
	t.selected = ""
	if ids := t.selection(); len(ids) > 0 {
		t.selected = ids[len(ids)-1]
	}
}

func (t *selectTool) Begin(c state.Contact) bool {
	if !t.accept(c) {
		return false
	}
	t.prevSel = t.selection()
	t.env.Doc.DeselectAll()
	t.selected = ""

	pt := t.docPoint(c)
	hit, ok := t.env.Doc.HitTest(pt, state.HitOptions{
		Tolerance: t.env.Config.SelectTolerance / t.zoom(),
		Segments:  true,
		Stroke:    true,
		Fill:      true,
	})
	if !ok {
		t.redraw()
		return false
	}
	it, _ := t.env.Doc.Item(hit.Item)
	t.selected = hit.Item
	_ = t.env.Doc.SetSelected(hit.Item, true)
	t.before = it.Geometry
	t.from = pt
	t.offset = geom.Vec{}
	t.start(c)
	t.redraw()
	return true
}

func (t *selectTool) Update(c state.Contact) {
	if !t.owns(c) || t.gesturing() {
		return
	}
	t.dragTo(t.docPoint(c))
}

func (t *selectTool) dragTo(pt geom.Point) {
	d := pt.Sub(t.from)
	if d == t.offset {
		return
	}
	t.offset = d
	_ = t.env.Doc.SetGeometry(t.selected, t.before.Translate(d))
	t.redraw()
}

func (t *selectTool) End(c state.Contact) error {
	if !t.owns(c) {
		return nil
	}
	if !t.gesturing() {
		t.dragTo(t.docPoint(c))
	}
	return t.commit()
}

// commit records a move. Picking an item without dragging it is not an edit.
func (t *selectTool) commit() error {
	t.stop()
	if t.offset.Hypot2() == 0 {
		return nil
	}
	t.offset = geom.Vec{}
	t.log.Debug("item moved", "item", t.selected)
	return t.record()
}

func (t *selectTool) Cancel(c state.Contact) {
	if t.owns(c) {
		t.revert()
	}
}

func (t *selectTool) OnGestureStart() {
	if t.active {
		t.revert()
	}
}

func (t *selectTool) Deactivate() error {
	if !t.active {
		return nil
	}
	return t.commit()
}

func (t *selectTool) revert() {
	_ = t.env.Doc.SetGeometry(t.selected, t.before)
	t.restoreSelection(t.prevSel)
	t.selected = ""
	if len(t.prevSel) > 0 {
		t.selected = t.prevSel[len(t.prevSel)-1]
	}
	t.offset = geom.Vec{}
	t.stop()
	t.redraw()
}

// ApplyStyle recolors the selected item: its fill when it has one, else its
// stroke. It is ignored while a drag is in progress.
func (t *selectTool) ApplyStyle(p Paint) error {
	if t.active || t.selected == "" {
		return nil
	}
	it, ok := t.env.Doc.Item(t.selected)
	if !ok {
		t.selected = ""
		return nil
	}
	st := it.Style
	switch {
	case st.Fill != "":
		st.Fill = p.Color
	case st.Stroke != "":
		st.Stroke = p.Color
	default:
		return nil
	}
	if st == it.Style {
		return nil
	}
	if err := t.env.Doc.SetStyle(t.selected, st); err != nil {
		return err
	}
	t.redraw()
	return t.record()
}
