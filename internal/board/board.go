// Package board ties one drawing session together: the document, its view,
// history, the gesture arbiter and the active tool.
package board

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"InkBoard/internal/config"
	"InkBoard/internal/geom"
	"InkBoard/internal/gesture"
	"InkBoard/internal/history"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/tool"
	"InkBoard/internal/view"
)

type EventKind int

const (
	Begin EventKind = iota
	Move
	End
	Cancel
)

func (k EventKind) String() string {
	switch k {
	case Begin:
		return "begin"
	case Move:
		return "move"
	case End:
		return "end"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one contact transition in screen space.
type Event struct {
	Kind    EventKind
	Contact state.Contact
}

// Board serializes every entry point on one mutex, so the drawing core sees
// a single logical thread. Redraw callbacks run after the lock is released.
type Board struct {
	mu       sync.Mutex
	doc      *state.Document
	view     *view.View
	session  *state.Session
	history  *history.Manager
	arbiter  *gesture.Arbiter
	active   tool.Tool
	toolCfg  tool.Config
	paint    tool.Paint
	dirty    bool
	onRedraw func()
	log      *slog.Logger
}

// New builds a board with no active tool and records the empty document as
// the first history state.
func New(cfg config.Config) (*Board, error) {
	b := &Board{
		doc:     state.NewDocument(),
		view:    view.New(cfg.Gesture.MinZoom, cfg.Gesture.MaxZoom),
		session: state.NewSession(),
		toolCfg: cfg.ToolConfig(),
		paint:   tool.Paint{Color: cfg.Tools.Color, Width: cfg.Tools.StrokeWidth},
		log:     logging.For("board"),
	}
	b.history = history.New(b.doc, cfg.History.MaxStates)
	b.arbiter = gesture.New(b.session, b.view, cfg.GestureConfig(), b.target, b.requestRedraw)
	b.session.ActiveTool = string(tool.None)

	if err := b.history.Record(); err != nil {
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}
	b.log.Info("board ready", "session", b.session.ID)
	return b, nil
}

// target hands the arbiter the active tool. It returns an untyped nil when
// there is none.
func (b *Board) target() gesture.Target {
	if b.active == nil {
		return nil
	}
	return b.active
}

func (b *Board) requestRedraw() {
	b.dirty = true
}

func (b *Board) lock() {
	b.mu.Lock()
}

// unlock releases the board and runs the redraw callback once if anything
// asked for it.
func (b *Board) unlock() {
	fn, dirty := b.onRedraw, b.dirty
	b.dirty = false
	b.mu.Unlock()
	if dirty && fn != nil {
		fn()
	}
}

// OnRedraw sets the rendering trigger.
func (b *Board) OnRedraw(fn func()) {
	b.lock()
	b.onRedraw = fn
	b.mu.Unlock()
}

func (b *Board) env() tool.Env {
	return tool.Env{
		Doc:     b.doc,
		History: b.history,
		View:    b.view,
		Session: b.session,
		Paint:   func() tool.Paint { return b.paint },
		Redraw:  b.requestRedraw,
		Config:  b.toolCfg,
	}
}

// ActivateTool deactivates the current tool, which commits any operation in
// progress, and activates the named one. A commit error is returned after
// the switch has happened.
func (b *Board) ActivateTool(name tool.Name, opts tool.Options) error {
	b.lock()
	defer b.unlock()

	var next tool.Tool
	if name != tool.None {
		t, err := tool.New(name, b.env(), opts)
		if err != nil {
			return err
		}
		next = t
	}

	var commitErr error
	if prev := b.active; prev != nil {
		commitErr = prev.Deactivate()
		if !prev.Drawing() {
			b.doc.DeselectAll()
			b.requestRedraw()
		}
	}
	b.active = next
	b.session.ActiveTool = string(name)
	if next != nil {
		next.Activate()
	}
	b.log.Info("tool changed", "tool", name)
	if commitErr != nil {
		return fmt.Errorf("deactivate: %w", commitErr)
	}
	return nil
}

func (b *Board) ActiveTool() tool.Name {
	b.lock()
	defer b.unlock()
	return tool.Name(b.session.ActiveTool)
}

// Handle routes one contact event. The contact table is updated before the
// event reaches the tool.
func (b *Board) Handle(ev Event) error {
	b.lock()
	defer b.unlock()

	switch ev.Kind {
	case Begin:
		b.arbiter.ContactBegin(ev.Contact)
	case Move:
		b.arbiter.ContactMove(ev.Contact)
	case End:
		if err := b.arbiter.ContactEnd(ev.Contact); err != nil {
			b.log.Error("commit failed", "err", err)
			return err
		}
	case Cancel:
		b.arbiter.ContactCancel(ev.Contact)
	default:
		return fmt.Errorf("unknown event kind %d", int(ev.Kind))
	}
	return nil
}

// Wheel zooms around a screen point.
func (b *Board) Wheel(steps float64, at geom.Point) {
	b.lock()
	defer b.unlock()
	b.arbiter.Wheel(steps, at)
}

// Pan moves the view by a screen delta.
func (b *Board) Pan(delta geom.Vec) {
	b.lock()
	defer b.unlock()
	b.view.Pan(delta)
	b.requestRedraw()
}

func (b *Board) ResetView() {
	b.lock()
	defer b.unlock()
	b.view.Reset()
	b.requestRedraw()
}

// Undo steps back one history state. An operation in progress is dropped
// first.
func (b *Board) Undo() (bool, error) {
	b.lock()
	defer b.unlock()
	b.dropOperation()
	ok, err := b.history.Undo()
	if ok {
		b.requestRedraw()
		b.log.Info("undo", "cursor", b.history.Cursor())
	}
	return ok, err
}

func (b *Board) Redo() (bool, error) {
	b.lock()
	defer b.unlock()
	b.dropOperation()
	ok, err := b.history.Redo()
	if ok {
		b.requestRedraw()
		b.log.Info("redo", "cursor", b.history.Cursor())
	}
	return ok, err
}

func (b *Board) dropOperation() {
	if b.active != nil && b.active.Active() {
		b.active.OnGestureStart()
	}
}

// Clear empties the document and restarts history from the empty state.
func (b *Board) Clear() error {
	b.lock()
	defer b.unlock()
	b.dropOperation()
	b.doc.Clear()
	b.history.Reset()
	b.requestRedraw()
	b.log.Info("board cleared")
	return b.history.Record()
}

// SetColor changes the paint color and applies it to the active tool's
// target, such as the current selection.
func (b *Board) SetColor(c string) error {
	if _, err := state.ParseColor(c); err != nil {
		return err
	}
	b.lock()
	defer b.unlock()
	b.paint.Color = c
	if b.active == nil {
		return nil
	}
	return b.active.ApplyStyle(b.paint)
}

var errWidth = errors.New("stroke width must be positive")

func (b *Board) SetWidth(w float64) error {
	if !(w > 0) {
		return errWidth
	}
	b.lock()
	defer b.unlock()
	b.paint.Width = w
	return nil
}

// SetStyle updates the paint in one step. An empty color or a zero width
// keeps the current value.
func (b *Board) SetStyle(c string, w float64) error {
	if c != "" {
		if _, err := state.ParseColor(c); err != nil {
			return err
		}
	}
	if w != 0 && !(w > 0) {
		return errWidth
	}
	b.lock()
	defer b.unlock()
	if w > 0 {
		b.paint.Width = w
	}
	if c == "" {
		return nil
	}
	b.paint.Color = c
	if b.active == nil {
		return nil
	}
	return b.active.ApplyStyle(b.paint)
}

// RequestRedraw asks for a repaint without changing anything.
func (b *Board) RequestRedraw() {
	b.lock()
	defer b.unlock()
	b.requestRedraw()
}

// FitView frames every visible item in a w×h screen.
func (b *Board) FitView(w, h, margin float64) {
	b.lock()
	defer b.unlock()
	var box geom.Rect
	found := false
	for _, it := range b.doc.Items() {
		if it.Hidden || len(it.Geometry.Segments) == 0 {
			continue
		}
		r := it.Geometry.Bounds()
		if !found {
			box, found = r, true
		} else {
			box = box.Union(r)
		}
	}
	b.view.Fit(box, w, h, margin)
	b.requestRedraw()
}

func (b *Board) Paint() tool.Paint {
	b.lock()
	defer b.unlock()
	return b.paint
}

// Document returns the scene graph. Its readers are safe to call from any
// goroutine; mutations must go through the board.
func (b *Board) Document() *state.Document { return b.doc }

func (b *Board) View() *view.View { return b.view }

func (b *Board) History() *history.Manager { return b.history }

func (b *Board) SessionID() string { return b.session.ID }

func (b *Board) Gesture() gesture.Snapshot {
	b.lock()
	defer b.unlock()
	return b.arbiter.State()
}

// Snapshot serializes the current document.
func (b *Board) Snapshot() ([]byte, error) {
	return b.doc.ExportState()
}
