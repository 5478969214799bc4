// Package tool implements the interactive editing tools. Every tool follows
// the same lifecycle: Idle until Begin accepts a contact, Active until End,
// Cancel or a gesture takes over.
package tool

import (
	"errors"
	"fmt"
	"log/slog"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/stroke"
	"InkBoard/internal/view"
)

var ErrUnknownTool = errors.New("unknown tool")

type Name string

const (
	None     Name = "none"
	Pencil   Name = "pencil"
	Line     Name = "line"
	Shape    Name = "shape"
	Eraser   Name = "eraser"
	Select   Name = "select"
	NodeEdit Name = "nodeEdit"
)

// Names lists every concrete tool in toolbar order.
var Names = []Name{Pencil, Line, Shape, Eraser, Select, NodeEdit}

func ParseName(s string) (Name, error) {
	switch n := Name(s); n {
	case None, Pencil, Line, Shape, Eraser, Select, NodeEdit:
		return n, nil
	case "":
		return None, nil
	}
	return None, fmt.Errorf("%w: %q", ErrUnknownTool, s)
}

type ShapeKind int

const (
	Rectangle ShapeKind = iota
	Ellipse
)

func (k ShapeKind) String() string {
	if k == Ellipse {
		return "ellipse"
	}
	return "rectangle"
}

func ParseShapeKind(s string) (ShapeKind, error) {
	switch s {
	case "rectangle", "rect", "":
		return Rectangle, nil
	case "ellipse":
		return Ellipse, nil
	}
	return Rectangle, fmt.Errorf("unknown shape %q", s)
}

// Options configures a tool at activation.
type Options struct {
	Shape ShapeKind
}

// Config holds the thresholds shared by all tools. Tolerances marked as
// screen units are divided by the current zoom.
type Config struct {
	Stroke          stroke.Options
	EraserRadius    float64
	NodeTolerance   float64 // screen units
	SelectTolerance float64 // screen units
	ShapeMinSize    float64
	LineMinLength   float64
}

func DefaultConfig() Config {
	return Config{
		Stroke:          stroke.DefaultOptions(),
		EraserRadius:    10,
		NodeTolerance:   8,
		SelectTolerance: 5,
		ShapeMinSize:    2,
		LineMinLength:   2,
	}
}

// Paint is the current drawing style chosen in the UI.
type Paint struct {
	Color string
	Width float64
}

// Recorder captures a committed edit. *history.Manager satisfies it.
type Recorder interface {
	Record() error
}

// Env is everything a tool may touch.
type Env struct {
	Doc     *state.Document
	History Recorder
	View    *view.View
	Session *state.Session
	Paint   func() Paint
	Redraw  func()
	Config  Config
}

// Tool is the lifecycle every editing tool implements. The set of tools is
// closed; use New to build one.
type Tool interface {
	Name() Name
	// Drawing reports whether the tool creates new items, as opposed to
	// selecting or editing existing ones.
	Drawing() bool
	// Active reports whether an operation is in progress.
	Active() bool

	Activate()
	// Deactivate commits any operation in progress, like End would.
	Deactivate() error

	// Begin starts an operation. It reports false when the contact is
	// rejected or when there is nothing to operate on.
	Begin(c state.Contact) bool
	Update(c state.Contact)
	// End commits the operation if it is large enough.
	End(c state.Contact) error
	// Cancel reverts the document to its state before Begin.
	Cancel(c state.Contact)

	OnGestureStart()
	OnGestureEnd()

	// ApplyStyle applies a paint change to the tool's current target.
	ApplyStyle(p Paint) error

	sealed()
}

// New builds the named tool.
func New(name Name, env Env, opts Options) (Tool, error) {
	b := newBase(name, env)
	switch name {
	case Pencil:
		return newPencil(b), nil
	case Line:
		return &lineTool{base: b}, nil
	case Shape:
		return &shapeTool{base: b, kind: opts.Shape}, nil
	case Eraser:
		return &eraserTool{base: b}, nil
	case Select:
		return &selectTool{base: b}, nil
	case NodeEdit:
		return &nodeEditTool{base: b}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}

// base carries the state and defaults shared by every tool.
type base struct {
	name    Name
	env     Env
	log     *slog.Logger
	active  bool
	contact state.ContactID
}

func newBase(name Name, env Env) base {
	return base{name: name, env: env, log: logging.For("tool").With("tool", string(name))}
}

func (b *base) Name() Name { return b.name }
func (b *base) Active() bool { return b.active }
func (b *base) Drawing() bool { return true }
func (b *base) Activate() {}
func (b *base) OnGestureEnd() {}
func (b *base) sealed() {}
func (b *base) ApplyStyle(Paint) error { return nil }

// accept reports whether c may start an operation.
func (b *base) accept(c state.Contact) bool {
	if b.active || !c.PrimaryButton() || b.gesturing() {
		return false
	}
	return true
}

func (b *base) start(c state.Contact) {
	b.active = true
	b.contact = c.ID
}

func (b *base) stop() {
	b.active = false
	b.contact = 0
}

// owns reports whether c belongs to the operation in progress.
func (b *base) owns(c state.Contact) bool {
	return b.active && c.ID == b.contact
}

func (b *base) gesturing() bool {
	return b.env.Session != nil && b.env.Session.IsGesturing()
}

func (b *base) docPoint(c state.Contact) geom.Point {
	if b.env.View == nil {
		return c.Position
	}
	return b.env.View.ProjectToDocument(c.Position)
}

func (b *base) zoom() float64 {
	if b.env.View == nil {
		return 1
	}
	return b.env.View.Zoom()
}

func (b *base) paint() Paint {
	if b.env.Paint == nil {
		return Paint{Color: "black", Width: 2}
	}
	return b.env.Paint()
}

func (b *base) redraw() {
	if b.env.Redraw != nil {
		b.env.Redraw()
	}
}

func (b *base) record() error {
	if b.env.History == nil {
		return nil
	}
	if err := b.env.History.Record(); err != nil {
		return fmt.Errorf("%s: %w", b.name, err)
	}
	return nil
}

func (b *base) selection() []state.ItemID {
	return b.env.Doc.QueryItems(func(it state.Item) bool { return it.Selected })
}

func (b *base) restoreSelection(ids []state.ItemID) {
	b.env.Doc.DeselectAll()
	for _, id := range ids {
		_ = b.env.Doc.SetSelected(id, true)
	}
}
