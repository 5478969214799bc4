// Package stroke turns a stream of pressure samples into a variable-width
// filled outline.
package stroke

import (
	"log/slog"
	"slices"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"

	"honnef.co/go/curve"
)

type Options struct {
	MinWidth          float64
	MaxWidth          float64
	MinDistance       float64
	DotPressure       float64
	DotMinSize        float64
	SimplifyTolerance float64
}

func DefaultOptions() Options {
	return Options{
		MinWidth:          1,
		MaxWidth:          15,
		MinDistance:       1,
		DotPressure:       0.1,
		DotMinSize:        0.1,
		SimplifyTolerance: 1,
	}
}

// Sample is one input reading in document space. Pressure is already
// resolved to the device default when the device reports none.
type Sample struct {
	Position geom.Point
	Pressure float64
	Pressed  bool
}

type DeltaKind int

const (
	// DeltaNone means the preview did not change.
	DeltaNone DeltaKind = iota
	// DeltaDot carries a dot candidate to preview.
	DeltaDot
	// DeltaOutline carries the rebuilt outline polygon. It replaces any dot.
	DeltaOutline
)

// Delta is what a caller needs to update its live preview.
type Delta struct {
	Kind    DeltaKind
	Polygon []geom.Point
	Center  geom.Point
	Radius  float64
}

// Result is the outcome of Finish. When Dot is set the stroke is a filled
// circle; otherwise Path is the smoothed closed outline.
type Result struct {
	Committed bool
	Dot       bool
	Center    geom.Point
	Radius    float64
	Path      curve.BezPath
}

// Synthesizer builds one stroke at a time. It owns no document state.
type Synthesizer struct {
	opts Options
	log  *slog.Logger

	started bool
	moved   bool
	origin  Sample
	last    Sample
	left    []geom.Point
	right   []geom.Point
}

func New(opts Options) *Synthesizer {
	return &Synthesizer{opts: opts, log: logging.For("stroke")}
}

// WidthFor maps pressure in [0,1] linearly onto [MinWidth, MaxWidth].
func (s *Synthesizer) WidthFor(pressure float64) float64 {
	p := geom.Clamp(pressure, 0, 1)
	return geom.MapRange(p, 0, 1, s.opts.MinWidth, s.opts.MaxWidth)
}

// Begin starts a new stroke, discarding any unfinished one.
func (s *Synthesizer) Begin(sample Sample) Delta {
	s.reset()
	s.started = true
	s.origin = sample
	s.last = sample

	if sample.Pressure < s.opts.DotPressure || !sample.Pressed {
		return Delta{Kind: DeltaDot, Center: sample.Position, Radius: s.WidthFor(sample.Pressure) / 2}
	}
	return Delta{Kind: DeltaNone}
}

// Extend adds a sample. The first extension turns a dot candidate into an
// outline seeded at the origin sample.
func (s *Synthesizer) Extend(sample Sample) Delta {
	if !s.started {
		return Delta{Kind: DeltaNone}
	}
	if len(s.left) > 0 && s.last.Position.Distance(sample.Position) < s.opts.MinDistance {
		return Delta{Kind: DeltaNone}
	}

	dir := geom.Direction(s.last.Position, sample.Position)
	n := geom.Normal(dir)

	if len(s.left) == 0 {
		first := n.Mul(s.WidthFor(s.origin.Pressure) / 2)
		s.left = append(s.left, s.last.Position.Translate(first.Negate()))
		s.right = append(s.right, s.last.Position.Translate(first))
	}
	off := n.Mul(s.WidthFor(sample.Pressure) / 2)
	s.left = append(s.left, sample.Position.Translate(off.Negate()))
	s.right = append(s.right, sample.Position.Translate(off))

	s.moved = true
	s.last = sample
	return Delta{Kind: DeltaOutline, Polygon: s.Polygon()}
}

// Finish ends the stroke and reports what should be committed.
func (s *Synthesizer) Finish() Result {
	if !s.started {
		return Result{}
	}
	defer s.reset()

	if !s.moved {
		r := s.WidthFor(s.origin.Pressure) / 2
		if 2*r < s.opts.DotMinSize {
			s.log.Debug("dot discarded", "size", 2*r)
			return Result{}
		}
		return Result{Committed: true, Dot: true, Center: s.origin.Position, Radius: r}
	}
	if len(s.left) < 2 {
		s.log.Debug("outline discarded", "pairs", len(s.left))
		return Result{}
	}

	path := s.commitPath()
	if len(path) == 0 {
		return Result{}
	}
	return Result{Committed: true, Path: path}
}

// Cancel drops the stroke in progress. It is safe to call at any time.
func (s *Synthesizer) Cancel() {
	s.reset()
}

// Active reports whether a stroke is in progress.
func (s *Synthesizer) Active() bool { return s.started }

// Left returns a copy of the left offset sequence.
func (s *Synthesizer) Left() []geom.Point { return slices.Clone(s.left) }

// Right returns a copy of the right offset sequence.
func (s *Synthesizer) Right() []geom.Point { return slices.Clone(s.right) }

// Polygon returns left followed by reversed right. The polygon is implicitly closed.
func (s *Synthesizer) Polygon() []geom.Point {
	out := make([]geom.Point, 0, len(s.left)+len(s.right))
	out = append(out, s.left...)
	for i := len(s.right) - 1; i >= 0; i-- {
		out = append(out, s.right[i])
	}
	return out
}

func (s *Synthesizer) reset() {
	s.started, s.moved = false, false
	s.origin, s.last = Sample{}, Sample{}
	s.left, s.right = nil, nil
}

func (s *Synthesizer) commitPath() curve.BezPath {
	smooth := Smooth(s.Polygon())
	if len(smooth) == 0 {
		return nil
	}
	simplified := curve.BezPath(slices.Collect(
		curve.Simplify(smooth.Elements(), s.opts.SimplifyTolerance, curve.DefaultSimplifyOptions)))
	if len(simplified) == 0 || simplified.IsNaN() || simplified.IsInf() {
		s.log.Warn("simplify produced no usable path, keeping smoothed outline")
		return smooth
	}
	s.log.Debug("outline simplified", "before", len(smooth), "after", len(simplified))
	return simplified
}
