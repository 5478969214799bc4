package tool

import (
	"InkBoard/internal/state"
	"InkBoard/internal/stroke"

	"honnef.co/go/curve"
)

// circleTolerance is the flattening accuracy used when a dot is turned into
// Bézier segments.
const circleTolerance = 0.1

// pencilTool draws pressure-sensitive freehand strokes. The synthesizer
// builds the outline; the tool keeps a live preview item in the document.
type pencilTool struct {
	base
	synth   *stroke.Synthesizer
	preview state.ItemID
	dot     bool
	color   string
}

func newPencil(b base) *pencilTool {
	return &pencilTool{base: b, synth: stroke.New(b.env.Config.Stroke)}
}

func (t *pencilTool) sample(c state.Contact) stroke.Sample {
	return stroke.Sample{Position: t.docPoint(c), Pressure: c.EffectivePressure(), Pressed: c.Pressed}
}

func (t *pencilTool) Activate() {
	t.discard()
}

func (t *pencilTool) Begin(c state.Contact) bool {
	if !t.accept(c) {
		return false
	}
	t.discard()
	t.start(c)
	t.color = t.paint().Color
	t.apply(t.synth.Begin(t.sample(c)))
	return true
}

func (t *pencilTool) Update(c state.Contact) {
	if !t.owns(c) || t.gesturing() {
		return
	}
	t.apply(t.synth.Extend(t.sample(c)))
}

func (t *pencilTool) End(c state.Contact) error {
	if !t.owns(c) {
		return nil
	}
	return t.finish()
}

func (t *pencilTool) Cancel(c state.Contact) {
	if !t.owns(c) {
		return
	}
	t.discard()
	t.redraw()
}

func (t *pencilTool) OnGestureStart() {
	if !t.active {
		return
	}
	t.log.Debug("stroke dropped for gesture")
	t.discard()
	t.redraw()
}

func (t *pencilTool) Deactivate() error {
	if !t.active {
		return nil
	}
	return t.finish()
}

func (t *pencilTool) apply(d stroke.Delta) {
	switch d.Kind {
	case stroke.DeltaDot:
		t.show(state.KindDot, dotGeometry(d.Center, d.Radius))
		t.dot = true
	case stroke.DeltaOutline:
		if t.dot {
			t.removePreview()
		}
		t.show(state.KindOutline, state.Polygon(d.Polygon))
	default:
		return
	}
	t.redraw()
}

// show creates the preview item or replaces its geometry.
func (t *pencilTool) show(kind state.Kind, g state.Geometry) {
	if t.preview != "" {
		if err := t.env.Doc.SetGeometry(t.preview, g); err == nil {
			return
		}
	}
	t.preview = t.env.Doc.CreateItem(kind, g, state.Style{Fill: t.color})
	t.dot = false
}

func (t *pencilTool) removePreview() {
	if t.preview != "" {
		t.env.Doc.RemoveItem(t.preview)
	}
	t.preview = ""
	t.dot = false
}

func (t *pencilTool) finish() error {
	res := t.synth.Finish()
	t.stop()
	defer t.redraw()

	if !res.Committed {
		t.removePreview()
		return nil
	}
	if res.Dot {
		if !t.dot {
			t.removePreview()
		}
		t.show(state.KindDot, dotGeometry(res.Center, res.Radius))
	} else {
		t.show(state.KindOutline, state.GeometryFromPath(res.Path))
	}
	t.log.Debug("stroke committed", "item", t.preview, "dot", res.Dot)
	t.preview, t.dot = "", false
	return t.record()
}

// discard drops the stroke in progress without touching history.
func (t *pencilTool) discard() {
	t.synth.Cancel()
	t.removePreview()
	t.stop()
}

func dotGeometry(center curve.Point, radius float64) state.Geometry {
	return state.GeometryFromPath(curve.Circle{Center: center, Radius: radius}.Path(circleTolerance))
}
