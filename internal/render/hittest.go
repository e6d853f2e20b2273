package render

import "CollabCanvas/internal/state"

// MeasureText returns the advance width of a text element at its face and
// size, in pixels.
func (r *Renderer) MeasureText(el state.Element) float64 {
	if el.Kind != state.KindText || el.Text == "" {
		return 0
	}
	return r.fonts.face(el).Advance(el.Text)
}

// TextBox returns the hit box of a text element: the measured width to the
// right of the anchor, one font-size tall above the baseline. An ascent-only
// approximation, not a glyph-accurate test.
func (r *Renderer) TextBox(el state.Element) state.Box {
	size := el.FontSize
	if size <= 0 {
		size = DefaultFontSize
	}
	x, y := el.Anchor()
	return state.Box{X: x, Y: y - size, W: r.MeasureText(el), H: size}
}

// HitTestText reports whether the point falls inside the element's text box.
func (r *Renderer) HitTestText(el state.Element, x, y float64) bool {
	if el.Kind != state.KindText {
		return false
	}
	return r.TextBox(el).Contains(x, y)
}

// TextAt returns the topmost text element whose box contains the point.
func (r *Renderer) TextAt(c *state.Canvas, x, y float64) (state.Element, bool) {
	els := c.Elements()
	for i := len(els) - 1; i >= 0; i-- {
		if r.HitTestText(els[i], x, y) {
			return els[i], true
		}
	}
	return state.Element{}, false
}
