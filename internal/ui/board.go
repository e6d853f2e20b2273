package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"CollabCanvas/internal/gesture"
	"CollabCanvas/internal/render"
	"CollabCanvas/internal/state"
)

// Board is the drawing surface. It displays the renderer's replay of the
// element state and feeds pointer events into the gesture machine; it holds
// no element state of its own.
type Board struct {
	widget.BaseWidget

	elements *state.Canvas
	renderer *render.Renderer
	machine  *gesture.Machine

	img        *canvas.Image
	inProgress *state.Element

	// last pointer position, for the leave-commits rule.
	lastX, lastY float64
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ fyne.DoubleTappable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)

func NewBoard(elements *state.Canvas, renderer *render.Renderer, machine *gesture.Machine) *Board {
	b := &Board{
		elements: elements,
		renderer: renderer,
		machine:  machine,
	}
	b.img = canvas.NewImageFromImage(renderer.Render(elements, nil))
	b.img.FillMode = canvas.ImageFillStretch
	w, h := renderer.Size()
	b.img.SetMinSize(fyne.NewSize(float32(w), float32(h)))

	machine.OnRedraw = b.redraw
	machine.TextAt = func(x, y float64) (state.Element, bool) {
		return renderer.TextAt(elements, x, y)
	}

	b.ExtendBaseWidget(b)
	return b
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(b.img)
}

func (b *Board) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	w, h := int(size.Width), int(size.Height)
	if w > 0 && h > 0 {
		cw, ch := b.renderer.Size()
		if w != cw || h != ch {
			b.renderer.Resize(w, h)
			b.redraw(b.inProgress)
		}
	}
}

// RefreshFromState repaints after a remote mutation. Safe to call from the
// channel goroutine: the render is hopped onto the UI thread.
func (b *Board) RefreshFromState() {
	fyne.Do(func() {
		b.redraw(b.inProgress)
	})
}

func (b *Board) redraw(inProgress *state.Element) {
	b.inProgress = inProgress
	b.img.Image = b.renderer.Render(b.elements, inProgress)
	b.img.Refresh()
}

func (b *Board) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	b.track(ev.Position)
	b.machine.PointerDown(float64(ev.Position.X), float64(ev.Position.Y))
}

func (b *Board) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	b.track(ev.Position)
	b.machine.PointerUp(float64(ev.Position.X), float64(ev.Position.Y))
}

func (b *Board) Dragged(ev *fyne.DragEvent) {
	b.track(ev.Position)
	b.machine.PointerMove(float64(ev.Position.X), float64(ev.Position.Y))
}

func (b *Board) DragEnd() {}

func (b *Board) MouseIn(ev *desktop.MouseEvent) { b.track(ev.Position) }

func (b *Board) MouseMoved(ev *desktop.MouseEvent) { b.track(ev.Position) }

// MouseOut commits any in-flight gesture at the last seen position, the same
// way lifting the pointer would.
func (b *Board) MouseOut() {
	b.machine.PointerLeave(b.lastX, b.lastY)
}

// DoubleTapped opens the text editor when a committed text element is under
// the pointer.
func (b *Board) DoubleTapped(ev *fyne.PointEvent) {
	b.machine.EditTextAt(float64(ev.Position.X), float64(ev.Position.Y))
}

func (b *Board) track(pos fyne.Position) {
	b.lastX = float64(pos.X)
	b.lastY = float64(pos.Y)
}
