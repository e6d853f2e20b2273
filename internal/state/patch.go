package state

// Patch is a partial element update as carried by the update-element wire
// message. Nil fields are left untouched on apply; only set fields merge in.
type Patch struct {
	Points    []float64 `json:"points,omitempty"`
	Text      *string   `json:"text,omitempty"`
	Font      *string   `json:"font,omitempty"`
	FontSize  *float64  `json:"fontSize,omitempty"`
	Bold      *bool     `json:"bold,omitempty"`
	Italic    *bool     `json:"italic,omitempty"`
	Underline *bool     `json:"underline,omitempty"`
	Color     *string   `json:"color,omitempty"`
	LineWidth *float64  `json:"lineWidth,omitempty"`
}

// Apply merges the patch into a copy of el and returns it.
//
// A points payload shorter than the element's geometry overlays the trailing
// coordinates, so a two-value payload moves a shape's far corner (or a text
// anchor) without resending the full geometry. A payload of equal or greater
// length replaces the geometry outright.
func (p Patch) Apply(el Element) Element {
	out := el.Clone()
	if len(p.Points) > 0 {
		if len(p.Points) < len(out.Points) {
			copy(out.Points[len(out.Points)-len(p.Points):], p.Points)
		} else {
			out.Points = append([]float64(nil), p.Points...)
		}
	}
	if p.Text != nil {
		out.Text = *p.Text
	}
	if p.Font != nil {
		out.Font = *p.Font
	}
	if p.FontSize != nil {
		out.FontSize = *p.FontSize
	}
	if p.Bold != nil {
		out.Bold = *p.Bold
	}
	if p.Italic != nil {
		out.Italic = *p.Italic
	}
	if p.Underline != nil {
		out.Underline = *p.Underline
	}
	if p.Color != nil {
		out.Color = *p.Color
	}
	if p.LineWidth != nil {
		out.LineWidth = *p.LineWidth
	}
	return out
}

// PointsPatch is a convenience for the common reposition update.
func PointsPatch(points ...float64) Patch {
	return Patch{Points: points}
}
