// Package gesture decides whether a contact draws or navigates, and performs
// the navigation itself.
package gesture

import (
	"log/slog"
	"math"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/view"
)

// Target receives the contacts the arbiter hands over. tool.Tool satisfies it.
type Target interface {
	Begin(c state.Contact) bool
	Update(c state.Contact)
	End(c state.Contact) error
	Cancel(c state.Contact)
	OnGestureStart()
	OnGestureEnd()
}

type Config struct {
	// ZoomNoise is the smallest pinch distance change that zooms.
	ZoomNoise float64
	// WheelStep is the zoom factor of one wheel step.
	WheelStep float64
	// SingleContactPan lets one contact pan the view when no tool is active.
	SingleContactPan bool
}

func DefaultConfig() Config {
	return Config{ZoomNoise: 0.5, WheelStep: 1.2, SingleContactPan: true}
}

// Snapshot is a read-only copy of the gesture state.
type Snapshot struct {
	Gesturing         bool
	Contacts          int
	LastPinchDistance float64
	HasPinch          bool
	LastMidpoint      geom.Point
	HasMidpoint       bool
}

// Arbiter owns the contact table in the session and the view transform
// while a gesture runs. It is not safe for concurrent use.
type Arbiter struct {
	session *state.Session
	view    *view.View
	cfg     Config
	target  func() Target
	redraw  func()
	log     *slog.Logger
}

// New creates an arbiter. target returns the active tool, or nil when there
// is none. redraw may be nil.
func New(session *state.Session, v *view.View, cfg Config, target func() Target, redraw func()) *Arbiter {
	return &Arbiter{
		session: session,
		view:    v,
		cfg:     cfg,
		target:  target,
		redraw:  redraw,
		log:     logging.For("gesture"),
	}
}

func (a *Arbiter) gs() *state.GestureState { return &a.session.Gesture }

func (a *Arbiter) active() Target {
	if a.target == nil {
		return nil
	}
	return a.target()
}

func (a *Arbiter) requestRedraw() {
	if a.redraw != nil {
		a.redraw()
	}
}

func (a *Arbiter) State() Snapshot {
	g := a.gs()
	return Snapshot{
		Gesturing:         g.Gesturing,
		Contacts:          g.Len(),
		LastPinchDistance: g.LastPinchDistance,
		HasPinch:          g.HasPinch,
		LastMidpoint:      g.LastMidpoint,
		HasMidpoint:       g.HasMidpoint,
	}
}

// ContactBegin tracks a new contact. Reaching two contacts starts a gesture
// and preempts the active tool; a lone contact goes to the tool.
func (a *Arbiter) ContactBegin(c state.Contact) {
	g := a.gs()
	if !g.Track(c) {
		a.log.Debug("duplicate contact ignored", "id", c.ID)
		return
	}

	switch {
	case g.Len() >= 2 && !g.Gesturing:
		g.Gesturing = true
		a.log.Debug("gesture started", "contacts", g.Len())
		if t := a.active(); t != nil {
			t.OnGestureStart()
		}
		p, q, _ := g.Latest()
		a.seed(p, q)
	case g.Len() == 1:
		if t := a.active(); t != nil {
			t.Begin(c)
		} else if a.cfg.SingleContactPan {
			g.LastMidpoint, g.HasMidpoint = c.Position, true
		}
	}
}

// ContactMove updates a tracked contact and pans, zooms or forwards it.
func (a *Arbiter) ContactMove(c state.Contact) {
	g := a.gs()
	if _, ok := g.Update(c); !ok {
		return
	}

	if g.Gesturing {
		a.pinch()
		return
	}
	if g.Len() != 1 {
		return
	}
	if t := a.active(); t != nil {
		t.Update(c)
		return
	}
	if a.cfg.SingleContactPan && g.HasMidpoint {
		a.view.Pan(c.Position.Sub(g.LastMidpoint))
		g.LastMidpoint = c.Position
		a.requestRedraw()
	}
}

// ContactEnd removes a contact. The tool's commit error is returned.
func (a *Arbiter) ContactEnd(c state.Contact) error {
	return a.release(c, false)
}

// ContactCancel removes a contact and cancels the tool operation it drove.
func (a *Arbiter) ContactCancel(c state.Contact) {
	_ = a.release(c, true)
}

func (a *Arbiter) release(c state.Contact, cancel bool) error {
	g := a.gs()
	if _, ok := g.Untrack(c.ID); !ok {
		return nil
	}

	var err error
	switch {
	case g.Gesturing && g.Len() < 2:
		g.Gesturing = false
		g.ClearPinch()
		a.log.Debug("gesture ended", "contacts", g.Len())
		if t := a.active(); t != nil {
			t.OnGestureEnd()
		}
		if rest := g.Contacts(); len(rest) == 1 {
			g.LastMidpoint, g.HasMidpoint = rest[0].Position, true
		}
	case g.Gesturing:
		p, q, _ := g.Pair()
		a.seed(p, q)
	default:
		if t := a.active(); t != nil {
			if cancel {
				t.Cancel(c)
			} else {
				err = t.End(c)
			}
		}
	}

	if g.Len() == 0 {
		g.ClearAnchors()
	}
	return err
}

func (a *Arbiter) seed(p, q state.Contact) {
	g := a.gs()
	g.LastPinchDistance, g.HasPinch = geom.Distance(p.Position, q.Position), true
	g.LastMidpoint, g.HasMidpoint = geom.Midpoint(p.Position, q.Position), true
}

// pinch pans by the midpoint motion and zooms by the distance ratio,
// anchored at the midpoint.
func (a *Arbiter) pinch() {
	g := a.gs()
	p, q, ok := g.Pair()
	if !ok {
		return
	}
	mid := geom.Midpoint(p.Position, q.Position)
	dist := geom.Distance(p.Position, q.Position)
	if !g.HasMidpoint || !g.HasPinch {
		a.seed(p, q)
		return
	}

	a.view.Pan(mid.Sub(g.LastMidpoint))
	g.LastMidpoint = mid

	if g.LastPinchDistance > 0 && dist > 0 && math.Abs(dist-g.LastPinchDistance) > a.cfg.ZoomNoise {
		z := a.view.ZoomBy(dist/g.LastPinchDistance, mid)
		g.LastPinchDistance = dist
		a.log.Debug("pinch zoom", "zoom", z)
	}
	a.requestRedraw()
}

// Wheel zooms by WheelStep per step, anchored at a screen point.
func (a *Arbiter) Wheel(steps float64, at geom.Point) {
	if steps == 0 || a.cfg.WheelStep <= 0 {
		return
	}
	a.view.ZoomBy(math.Pow(a.cfg.WheelStep, steps), at)
	a.requestRedraw()
}
