package ui

import (
	"fmt"
	"image/color"

	"InkBoard/internal/board"
	"InkBoard/internal/export"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/tool"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Palette is the set of swatch colors offered in the toolbar.
var Palette = []string{"black", "red", "green", "blue", "orange", "purple"}

type toolChoice struct {
	label string
	name  tool.Name
	opts  tool.Options
}

var toolChoices = []toolChoice{
	{"Pencil", tool.Pencil, tool.Options{}},
	{"Line", tool.Line, tool.Options{}},
	{"Rectangle", tool.Shape, tool.Options{Shape: tool.Rectangle}},
	{"Ellipse", tool.Shape, tool.Options{Shape: tool.Ellipse}},
	{"Eraser", tool.Eraser, tool.Options{}},
	{"Select", tool.Select, tool.Options{}},
	{"Nodes", tool.NodeEdit, tool.Options{}},
}

type colorSwatch struct {
	widget.BaseWidget
	Name     string
	OnTapped func(string)
}

func newColorSwatch(name string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Name: name, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(state.MustColor(s.Name))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Name)
	}
}

// Toolbar holds the controls bound to one board.
type Toolbar struct {
	board  *board.Board
	window fyne.Window

	Tools  *widget.RadioGroup
	Width  *widget.Slider
	Undo   *widget.Button
	Redo   *widget.Button
	Clear  *widget.Button
	Fit    *widget.Button
	Export *widget.Button
	Status *widget.Label
}

func NewToolbar(b *board.Board, win fyne.Window) *Toolbar {
	t := &Toolbar{board: b, window: win, Status: widget.NewLabel("Ready")}

	labels := make([]string, len(toolChoices))
	for i, c := range toolChoices {
		labels[i] = c.label
	}
	t.Tools = widget.NewRadioGroup(labels, t.selectTool)
	t.Tools.Horizontal = true
	t.Tools.Required = true

	t.Width = widget.NewSlider(1, 50)
	t.Width.SetValue(b.Paint().Width)
	t.Width.OnChanged = func(v float64) {
		t.report(b.SetWidth(v))
	}

	t.Undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() {
		_, err := b.Undo()
		t.report(err)
	})
	t.Redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() {
		_, err := b.Redo()
		t.report(err)
	})
	t.Clear = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		t.report(b.Clear())
	})
	t.Fit = widget.NewButtonWithIcon("", theme.ZoomFitIcon(), nil)
	t.Export = widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), t.showExport)

	t.syncHistory(b.History().CanUndo(), b.History().CanRedo())
	b.History().OnChange(func(canUndo, canRedo bool) {
		fyne.Do(func() { t.syncHistory(canUndo, canRedo) })
	})
	return t
}

// Select activates the tool with the given toolbar label.
func (t *Toolbar) Select(label string) {
	t.Tools.SetSelected(label)
}

func (t *Toolbar) selectTool(label string) {
	for _, c := range toolChoices {
		if c.label == label {
			t.report(t.board.ActivateTool(c.name, c.opts))
			return
		}
	}
}

func (t *Toolbar) setColor(name string) {
	t.report(t.board.SetColor(name))
}

func (t *Toolbar) syncHistory(canUndo, canRedo bool) {
	if canUndo {
		t.Undo.Enable()
	} else {
		t.Undo.Disable()
	}
	if canRedo {
		t.Redo.Enable()
	} else {
		t.Redo.Disable()
	}
}

func (t *Toolbar) report(err error) {
	if err == nil {
		return
	}
	logging.For("ui").Warn("action failed", "err", err)
	t.Status.SetText(err.Error())
}

func (t *Toolbar) showExport() {
	if t.window == nil {
		return
	}
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			t.report(err)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()
		if err := t.exportTo(w); err != nil {
			t.report(err)
			return
		}
		t.Status.SetText(fmt.Sprintf("Exported %s", w.URI().Name()))
	}, t.window)
	d.SetFileName("board.pdf")
	d.Show()
}

func (t *Toolbar) exportTo(w fyne.URIWriteCloser) error {
	format, err := export.FormatFor(w.URI().Name())
	if err != nil {
		return err
	}
	return export.Write(w, format, t.board.Document().Items())
}

func (t *Toolbar) Object() fyne.CanvasObject {
	swatches := container.NewHBox()
	for _, name := range Palette {
		swatches.Add(newColorSwatch(name, t.setColor))
	}
	width := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.Width)

	return container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"),
			t.Tools,
		),
		container.NewHBox(
			widget.NewLabel("Color:"),
			swatches,
			widget.NewSeparator(),
			widget.NewLabel("Size:"),
			width,
			widget.NewSeparator(),
			t.Undo, t.Redo, t.Clear, t.Fit, t.Export,
			layout.NewSpacer(),
			t.Status,
		),
	)
}
