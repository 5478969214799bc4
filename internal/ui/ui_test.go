package ui

import (
	"testing"

	"InkBoard/internal/board"
	"InkBoard/internal/config"
	"InkBoard/internal/tool"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(config.Default())
	require.NoError(t, err)
	return b
}

func press(pos fyne.Position) *desktop.MouseEvent {
	return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: pos}, Button: desktop.MouseButtonPrimary}
}

func drag(pos fyne.Position, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: pos}, Dragged: fyne.NewDelta(dx, dy)}
}

func TestWidgetDrawsAndToolbarUndoes(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	b := newBoard(t)
	win := test.NewWindow(nil)
	defer win.Close()

	content, w := NewContent(b, win, "http://example:8888/", nil)
	win.SetContent(content)
	require.Equal(t, tool.Pencil, b.ActiveTool())

	w.MouseDown(press(fyne.NewPos(10, 10)))
	w.Dragged(drag(fyne.NewPos(40, 20), 30, 10))
	w.Dragged(drag(fyne.NewPos(80, 60), 40, 40))
	w.MouseUp(press(fyne.NewPos(80, 60)))
	w.DragEnd()

	require.Equal(t, 1, b.Document().Len())
	assert.Equal(t, 2, b.History().Len())
}

func TestToolbarHistoryButtons(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	b := newBoard(t)
	tb := NewToolbar(b, nil)
	w := NewBoardWidget(b)
	require.NoError(t, b.ActivateTool(tool.Pencil, tool.Options{}))

	assert.True(t, tb.Undo.Disabled())
	assert.True(t, tb.Redo.Disabled())

	w.MouseDown(press(fyne.NewPos(10, 10)))
	w.Dragged(drag(fyne.NewPos(60, 40), 50, 30))
	w.MouseUp(press(fyne.NewPos(60, 40)))
	assert.False(t, tb.Undo.Disabled())

	test.Tap(tb.Undo)
	assert.Zero(t, b.Document().Len())
	assert.True(t, tb.Undo.Disabled())
	assert.False(t, tb.Redo.Disabled())

	test.Tap(tb.Redo)
	assert.Equal(t, 1, b.Document().Len())
	assert.True(t, tb.Redo.Disabled())
}

func TestToolbarSelectsToolAndColor(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	b := newBoard(t)
	tb := NewToolbar(b, nil)

	tb.Select("Ellipse")
	assert.Equal(t, tool.Shape, b.ActiveTool())
	tb.Select("Nodes")
	assert.Equal(t, tool.NodeEdit, b.ActiveTool())

	test.Tap(newColorSwatch("red", tb.setColor))
	assert.Equal(t, "red", b.Paint().Color)

	tb.setColor("not-a-color")
	assert.Equal(t, "red", b.Paint().Color)
	assert.NotEqual(t, "Ready", tb.Status.Text)
}

func TestSecondaryDragPans(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	b := newBoard(t)
	w := NewBoardWidget(b)
	require.NoError(t, b.ActivateTool(tool.Pencil, tool.Options{}))

	ev := press(fyne.NewPos(10, 10))
	ev.Button = desktop.MouseButtonSecondary
	w.MouseDown(ev)
	w.Dragged(drag(fyne.NewPos(30, 10), 20, 0))
	w.MouseUp(ev)

	assert.Zero(t, b.Document().Len())
	assert.InDelta(t, -20, b.View().Origin().X, 1e-9)
}

func TestScrollZooms(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()
	b := newBoard(t)
	w := NewBoardWidget(b)

	w.Scrolled(&fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)}, Scrolled: fyne.NewDelta(0, wheelNotch)})
	assert.InDelta(t, config.Default().Gesture.WheelStep, b.View().Zoom(), 1e-9)
}
