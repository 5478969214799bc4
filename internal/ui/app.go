package ui

import (
	"InkBoard/internal/board"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const fitMargin = 24

// RunApp opens the board window and blocks until it closes. onRedraw, if
// set, runs after every board redraw alongside the widget repaint.
func RunApp(b *board.Board, shareLink string, onRedraw func()) {
	myApp := app.NewWithID("inkboard")
	myWindow := myApp.NewWindow("InkBoard")
	myWindow.Resize(fyne.NewSize(1024, 768))

	content, _ := NewContent(b, myWindow, shareLink, onRedraw)
	myWindow.SetContent(content)
	myWindow.ShowAndRun()
}

// NewContent builds the window body: toolbar on top, board below and the
// share link in the footer.
func NewContent(b *board.Board, win fyne.Window, shareLink string, onRedraw func()) (fyne.CanvasObject, *BoardWidget) {
	canvasWidget := NewBoardWidget(b)
	toolbar := NewToolbar(b, win)
	canvasWidget.OnError = func(err error) {
		fyne.Do(func() { toolbar.report(err) })
	}

	b.OnRedraw(func() {
		canvasWidget.Invalidate()
		if onRedraw != nil {
			onRedraw()
		}
	})
	toolbar.Fit.OnTapped = func() {
		size := canvasWidget.Size()
		b.FitView(float64(size.Width), float64(size.Height), fitMargin)
	}
	toolbar.Select(toolChoices[0].label)

	var footer fyne.CanvasObject
	if shareLink != "" {
		footer = widget.NewLabel("Share: " + shareLink)
	}
	return container.NewBorder(toolbar.Object(), footer, nil, nil, canvasWidget), canvasWidget
}
