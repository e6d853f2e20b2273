// Package export renders a canvas snapshot to PDF.
package export

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"CollabCanvas/internal/state"
)

// pxPerMM converts canvas pixels to page millimetres.
const pxPerMM = 3.0

// PDF writes every element of the canvas to an A4 page at path.
func PDF(path string, c *state.Canvas) error {
	if err := build(c).OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// Write renders the canvas to w instead of a file path.
func Write(w io.Writer, c *state.Canvas) error {
	if err := build(c).Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func build(c *state.Canvas) *gofpdf.Fpdf {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	if offX, offY := pageOffset(c); offX != 0 || offY != 0 {
		p.TransformBegin()
		p.TransformTranslate(offX/pxPerMM, offY/pxPerMM)
		defer p.TransformEnd()
	}
	for _, el := range c.Elements() {
		drawElement(p, el)
	}
	return p
}

// pageOffset shifts content drawn past the canvas origin back onto the
// page. Elements at non-negative coordinates export in place.
func pageOffset(c *state.Canvas) (offX, offY float64) {
	els := c.Elements()
	if len(els) == 0 {
		return 0, 0
	}
	box := elementBox(els[0])
	for _, el := range els[1:] {
		box = box.Union(elementBox(el))
	}
	if box.X < 0 {
		offX = -box.X
	}
	if box.Y < 0 {
		offY = -box.Y
	}
	return offX, offY
}

// elementBox bounds an element's marks, stroke width included. Circles
// extend a radius in every direction from their center point.
func elementBox(el state.Element) state.Box {
	box := state.PointsBox(el.Points)
	if el.Kind == state.KindCircle && len(el.Points) >= 4 {
		radius := math.Hypot(el.Points[2]-el.Points[0], el.Points[3]-el.Points[1])
		box = state.PointsBox(el.Points[:2]).Pad(radius)
	}
	return box.Pad(el.LineWidth / 2)
}

func drawElement(p *gofpdf.Fpdf, el state.Element) {
	r, g, b := hexColor(el.Color)
	p.SetDrawColor(r, g, b)
	p.SetLineWidth(el.LineWidth / pxPerMM)

	switch el.Kind {
	case state.KindPath:
		for i := 3; i < len(el.Points); i += 2 {
			p.Line(
				el.Points[i-3]/pxPerMM, el.Points[i-2]/pxPerMM,
				el.Points[i-1]/pxPerMM, el.Points[i]/pxPerMM,
			)
		}

	case state.KindRectangle:
		if len(el.Points) < 4 {
			return
		}
		x := math.Min(el.Points[0], el.Points[2])
		y := math.Min(el.Points[1], el.Points[3])
		w := math.Abs(el.Points[2] - el.Points[0])
		h := math.Abs(el.Points[3] - el.Points[1])
		p.Rect(x/pxPerMM, y/pxPerMM, w/pxPerMM, h/pxPerMM, "D")

	case state.KindCircle:
		if len(el.Points) < 4 {
			return
		}
		radius := math.Hypot(el.Points[2]-el.Points[0], el.Points[3]-el.Points[1])
		p.Circle(el.Points[0]/pxPerMM, el.Points[1]/pxPerMM, radius/pxPerMM, "D")

	case state.KindText:
		drawText(p, el, r, g, b)

	case state.KindEraser:
		// An eraser mark is a filled page-colored disc at its anchor.
		p.SetFillColor(255, 255, 255)
		p.Circle(el.Points[0]/pxPerMM, el.Points[1]/pxPerMM, el.LineWidth/2/pxPerMM, "F")
	}
}

func drawText(p *gofpdf.Fpdf, el state.Element, r, g, b int) {
	style := ""
	if el.Bold {
		style += "B"
	}
	if el.Italic {
		style += "I"
	}
	if el.Underline {
		style += "U"
	}
	size := el.FontSize
	if size == 0 {
		size = 16
	}
	p.SetFont(fontFamily(el.Font), style, size)
	p.SetTextColor(r, g, b)
	p.Text(el.Points[0]/pxPerMM, el.Points[1]/pxPerMM, el.Text)
}

// fontFamily maps canvas font names onto the PDF core fonts.
func fontFamily(name string) string {
	switch {
	case strings.Contains(strings.ToLower(name), "courier"):
		return "Courier"
	case strings.Contains(strings.ToLower(name), "times"):
		return "Times"
	default:
		return "Helvetica"
	}
}

// hexColor parses #RRGGBB, defaulting to black on anything else.
func hexColor(s string) (r, g, b int) {
	if len(s) != 7 || s[0] != '#' {
		return 0, 0, 0
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
