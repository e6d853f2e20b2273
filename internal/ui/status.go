package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var (
	connectedGreen = color.NRGBA{G: 180, A: 255}
	offlineRed     = color.NRGBA{R: 200, A: 255}
)

// statusBar shows channel availability.
type statusBar struct {
	dot   *canvas.Circle
	label *widget.Label
	box   fyne.CanvasObject
}

func newStatusBar() *statusBar {
	s := &statusBar{
		dot:   canvas.NewCircle(offlineRed),
		label: widget.NewLabel("Disconnected"),
	}
	s.box = container.NewHBox(
		container.New(layout.NewGridWrapLayout(fyne.NewSize(10, 10)), s.dot),
		s.label)
	return s
}

// SetConnected may be called from any goroutine.
func (s *statusBar) SetConnected(connected bool) {
	fyne.Do(func() {
		if connected {
			s.dot.FillColor = connectedGreen
			s.label.SetText("Connected")
		} else {
			s.dot.FillColor = offlineRed
			s.label.SetText("Disconnected")
		}
		s.dot.Refresh()
	})
}

// errorBanner is the dismissible failure strip above the board.
type errorBanner struct {
	text *widget.Label
	box  *fyne.Container
}

func newErrorBanner() *errorBanner {
	b := &errorBanner{text: widget.NewLabel("")}
	dismiss := widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		b.box.Hide()
	})
	b.box = container.NewBorder(nil, nil, widget.NewIcon(theme.ErrorIcon()), dismiss, b.text)
	b.box.Hide()
	return b
}

// Show may be called from any goroutine. A new message replaces the old one.
func (b *errorBanner) Show(msg string) {
	fyne.Do(func() {
		b.text.SetText(msg)
		b.box.Show()
	})
}
