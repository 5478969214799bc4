package ui

import (
	"image"
	"sync"

	"InkBoard/internal/board"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// wheelNotch is the scroll distance fyne reports for one wheel click.
const wheelNotch = 10.0

// mouseContact is the contact id used for the desktop pointer.
const mouseContact state.ContactID = 0

// BoardWidget shows a board and feeds it desktop pointer events. Drawing is
// done by the board's tools; the widget only converts events and repaints.
type BoardWidget struct {
	widget.BaseWidget
	board *board.Board

	mu      sync.Mutex
	pressed bool
	button  desktop.MouseButton
	last    fyne.Position

	OnError func(error)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board) *BoardWidget {
	w := &BoardWidget{board: b}
	w.ExtendBaseWidget(w)
	return w
}

// Invalidate repaints from any goroutine.
func (w *BoardWidget) Invalidate() {
	fyne.Do(w.Refresh)
}

func (w *BoardWidget) contact(pos fyne.Position, button desktop.MouseButton, pressed bool) state.Contact {
	c := state.Contact{
		ID:       mouseContact,
		Position: geom.Pt(float64(pos.X), float64(pos.Y)),
		Kind:     state.InputMouse,
		Pressed:  pressed,
	}
	switch button {
	case desktop.MouseButtonSecondary:
		c.Button = state.ButtonSecondary
	case desktop.MouseButtonTertiary:
		c.Button = state.ButtonMiddle
	}
	return c
}

func (w *BoardWidget) handle(kind board.EventKind, c state.Contact) {
	if err := w.board.Handle(board.Event{Kind: kind, Contact: c}); err != nil {
		logging.For("ui").Error("event failed", "kind", kind, "err", err)
		if w.OnError != nil {
			w.OnError(err)
		}
	}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	w.mu.Lock()
	w.pressed, w.button, w.last = true, e.Button, e.Position
	w.mu.Unlock()
	if e.Button == desktop.MouseButtonPrimary {
		w.handle(board.Begin, w.contact(e.Position, e.Button, true))
	}
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	w.mu.Lock()
	pressed, button := w.pressed, w.button
	w.pressed = false
	w.mu.Unlock()
	if pressed && button == desktop.MouseButtonPrimary {
		w.handle(board.End, w.contact(e.Position, button, false))
	}
}

// Dragged moves the primary contact, or pans with the other buttons.
func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.mu.Lock()
	pressed, button := w.pressed, w.button
	w.last = e.Position
	w.mu.Unlock()
	if !pressed {
		return
	}
	if button != desktop.MouseButtonPrimary {
		w.board.Pan(geom.V(float64(e.Dragged.DX), float64(e.Dragged.DY)))
		return
	}
	w.handle(board.Move, w.contact(e.Position, button, true))
}

// DragEnd cancels a primary drag whose release landed outside the widget.
func (w *BoardWidget) DragEnd() {
	w.mu.Lock()
	pressed, button, last := w.pressed, w.button, w.last
	w.pressed = false
	w.mu.Unlock()
	if pressed && button == desktop.MouseButtonPrimary {
		w.handle(board.End, w.contact(last, button, false))
	}
}

func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	at := geom.Pt(float64(e.Position.X), float64(e.Position.Y))
	w.board.Wheel(float64(e.Scrolled.DY)/wheelNotch, at)
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: w}
	r.raster = canvas.NewRaster(r.paint)
	return r
}

type boardWidgetRenderer struct {
	board  *BoardWidget
	raster *canvas.Raster
}

// paint rasterizes at device resolution; size is in fyne units.
func (r *boardWidgetRenderer) paint(pw, ph int) image.Image {
	b := r.board.board
	opts := render.DefaultOptions()
	if size := r.board.Size(); size.Width > 0 {
		opts.Scale = float64(pw) / float64(size.Width)
	}
	return render.RasterizeWith(b.Document().Items(), b.View(), pw, ph, opts)
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.raster}
}

func (r *boardWidgetRenderer) Refresh() {
	r.raster.Refresh()
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
