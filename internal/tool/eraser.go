package tool

import (
	"InkBoard/internal/geom"
	"InkBoard/internal/state"
)

// eraserTool hides every item it touches and deletes them together when
// the contact ends.
type eraserTool struct {
	base
	pending []state.ItemID
}

func (t *eraserTool) Begin(c state.Contact) bool {
	if !t.accept(c) {
		return false
	}
	t.start(c)
	t.pending = t.pending[:0]
	t.eraseAt(t.docPoint(c))
	return true
}

func (t *eraserTool) Update(c state.Contact) {
	if !t.owns(c) || t.gesturing() {
		return
	}
	t.eraseAt(t.docPoint(c))
}

// eraseAt marks the items within the eraser radius of pt. Hidden items are
// never hit again, so each item is pending at most once.
func (t *eraserTool) eraseAt(pt geom.Point) {
	hits := t.env.Doc.HitTestAll(pt, state.HitOptions{
		Tolerance: t.env.Config.EraserRadius,
		Segments:  true,
		Stroke:    true,
		Fill:      true,
	})
	if len(hits) == 0 {
		return
	}
	for _, h := range hits {
		if err := t.env.Doc.SetVisible(h.Item, false); err == nil {
			t.pending = append(t.pending, h.Item)
		}
	}
	t.redraw()
}

func (t *eraserTool) End(c state.Contact) error {
	if !t.owns(c) {
		return nil
	}
	return t.commit()
}

func (t *eraserTool) commit() error {
	defer t.stop()
	if len(t.pending) == 0 {
		return nil
	}
	for _, id := range t.pending {
		t.env.Doc.RemoveItem(id)
	}
	t.log.Debug("items erased", "count", len(t.pending))
	t.pending = t.pending[:0]
	t.redraw()
	return t.record()
}

func (t *eraserTool) Cancel(c state.Contact) {
	if t.owns(c) {
		t.revert()
	}
}

func (t *eraserTool) OnGestureStart() {
	if t.active {
		t.revert()
	}
}

func (t *eraserTool) Deactivate() error {
	if !t.active {
		return nil
	}
	return t.commit()
}

func (t *eraserTool) revert() {
	for _, id := range t.pending {
		_ = t.env.Doc.SetVisible(id, true)
	}
	t.pending = t.pending[:0]
	t.stop()
	t.redraw()
}
