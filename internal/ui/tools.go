package ui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"CollabCanvas/internal/gesture"
)

var toolNames = map[string]gesture.Tool{
	"Pen":       gesture.ToolPen,
	"Rectangle": gesture.ToolRectangle,
	"Circle":    gesture.ToolCircle,
	"Text":      gesture.ToolText,
	"Eraser":    gesture.ToolEraser,
}

// Stroke width choices, thin to thick.
var widthOptions = map[string]float64{
	"Thin":   2,
	"Medium": 5,
	"Thick":  10,
}

var palette = []string{
	"#000000", "#FF0000", "#00AA00", "#0000FF", "#FFCC00", "#800080",
}

// colorSwatch is a tappable square of one palette color.
type colorSwatch struct {
	widget.BaseWidget
	hex      string
	onTapped func(hex string)
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{hex: hex, onTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(parseHex(s.hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.onTapped != nil {
		s.onTapped(s.hex)
	}
}

func parseHex(hex string) color.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return color.Black
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return color.Black
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// NewToolbar builds the tool strip: tool selector, palette, width select,
// clear and export actions.
func NewToolbar(m *gesture.Machine, onClear, onExport func()) fyne.CanvasObject {
	tools := widget.NewRadioGroup([]string{"Pen", "Rectangle", "Circle", "Text", "Eraser"},
		func(name string) {
			if t, ok := toolNames[name]; ok {
				m.SetTool(t)
			}
		})
	tools.Horizontal = true
	tools.SetSelected("Pen")

	colorBox := container.NewHBox()
	for _, hex := range palette {
		colorBox.Add(newColorSwatch(hex, m.SetColor))
	}

	width := widget.NewSelect([]string{"Thin", "Medium", "Thick"}, func(name string) {
		if w, ok := widthOptions[name]; ok {
			m.SetLineWidth(w)
		}
	})
	width.SetSelected("Medium")

	return container.NewHBox(
		tools,
		widget.NewSeparator(),
		colorBox,
		widget.NewSeparator(),
		width,
		widget.NewSeparator(),
		widget.NewButton("Clear", onClear),
		widget.NewButton("Export PDF", onExport),
		layout.NewSpacer(),
	)
}
