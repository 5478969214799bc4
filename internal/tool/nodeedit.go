package tool

import (
	"bytes"

	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

type dragMode int

const (
	dragSegment dragMode = iota
	dragHandleIn
	dragHandleOut
)

// nodeEditTool drags individual anchors and Bézier handles of one item.
type nodeEditTool struct {
	base
	selected state.ItemID
	prevSel  []state.ItemID
	mode     dragMode
	segment  int
	last     geom.Point
	before   state.Geometry
	snapshot []byte
}

func (t *nodeEditTool) Drawing() bool { return false }

func (t *nodeEditTool) Selected() state.ItemID { return t.selected }

// Activate adopts the current selection when it is a single item.
func (t *nodeEditTool) Activate() {
	if ids := t.selection(); len(ids) == 1 {
		t.selected = ids[0]
	}
}

func (t *nodeEditTool) Begin(c state.Contact) bool {
	if !t.accept(c) {
		return false
	}
	pt := t.docPoint(c)
	hit, ok := t.env.Doc.HitTest(pt, state.HitOptions{
		Tolerance: t.env.Config.NodeTolerance / t.zoom(),
		Segments:  true,
		Handles:   true,
	})
	if !ok {
		if t.selected != "" {
			_ = t.env.Doc.SetSelected(t.selected, false)
			t.selected = ""
			t.redraw()
		}
		return false
	}

	snap, err := t.env.Doc.ItemGeometry(hit.Item)
	if err != nil {
		return false
	}
	t.prevSel = t.selection()
	if hit.Item != t.selected {
		if t.selected != "" {
			_ = t.env.Doc.SetSelected(t.selected, false)
		}
		t.selected = hit.Item
		_ = t.env.Doc.SetSelected(hit.Item, true)
	}
	it, _ := t.env.Doc.Item(hit.Item)
	t.before = it.Geometry
	t.snapshot = snap
	t.segment = hit.Segment
	switch hit.Kind {
	case state.HitHandleIn:
		t.mode = dragHandleIn
	case state.HitHandleOut:
		t.mode = dragHandleOut
	default:
		t.mode = dragSegment
	}
	t.last = pt
	t.start(c)
	t.redraw()
	return true
}

func (t *nodeEditTool) Update(c state.Contact) {
	if !t.owns(c) || t.gesturing() {
		return
	}
	t.dragTo(t.docPoint(c))
}

func (t *nodeEditTool) dragTo(pt geom.Point) {
	d := pt.Sub(t.last)
	if d.Hypot2() == 0 {
		return
	}
	t.last = pt

	it, ok := t.env.Doc.Item(t.selected)
	if !ok || t.segment < 0 || t.segment >= len(it.Geometry.Segments) {
		return
	}
	segs := it.Geometry.Segments
	s := &segs[t.segment]
	switch t.mode {
	case dragSegment:
		s.Point = s.Point.Translate(d)
	case dragHandleIn:
		s.HandleIn = s.HandleIn.Add(d)
	case dragHandleOut:
		s.HandleOut = s.HandleOut.Add(d)
	}
	_ = t.env.Doc.SetSegments(t.selected, segs)
	t.redraw()
}

func (t *nodeEditTool) End(c state.Contact) error {
	if !t.owns(c) {
		return nil
	}
	if !t.gesturing() {
		t.dragTo(t.docPoint(c))
	}
	return t.commit()
}

// commit records only when the serialized geometry actually changed.
func (t *nodeEditTool) commit() error {
	t.stop()
	after, err := t.env.Doc.ItemGeometry(t.selected)
	if err != nil || bytes.Equal(after, t.snapshot) {
		return nil
	}
	t.log.Debug("node edited", "item", t.selected, "segment", t.segment)
	return t.record()
}

func (t *nodeEditTool) Cancel(c state.Contact) {
	if t.owns(c) {
		t.revert()
	}
}

func (t *nodeEditTool) OnGestureStart() {
	if t.active {
		t.revert()
	}
}

func (t *nodeEditTool) Deactivate() error {
	if !t.active {
		return nil
	}
	return t.commit()
}

func (t *nodeEditTool) revert() {
	_ = t.env.Doc.SetGeometry(t.selected, t.before)
	t.restoreSelection(t.prevSel)
	if ids := t.prevSel; len(ids) == 1 {
		t.selected = ids[0]
	} else {
		t.selected = ""
	}
	t.stop()
	t.redraw()
}
