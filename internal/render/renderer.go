package render

import (
	"image"
	"math"

	"github.com/gogpu/gg"

	"CollabCanvas/internal/state"
)

// Renderer replays a canvas into a pixel buffer. Rendering is a pure read of
// the element collection: the same collection always produces the same
// pixels, and nothing on the canvas is mutated.
//
// The buffer starts fully transparent; the view composites it over whatever
// background it shows. Eraser strokes punch through every element painted
// before them, background included, which is why they clear pixels instead
// of painting white.
type Renderer struct {
	width  int
	height int
	fonts  *fontSet
}

func NewRenderer(width, height int) (*Renderer, error) {
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Renderer{width: width, height: height, fonts: fonts}, nil
}

// Size returns the output dimensions.
func (r *Renderer) Size() (w, h int) {
	return r.width, r.height
}

// Resize changes the output dimensions for subsequent renders.
func (r *Renderer) Resize(width, height int) {
	r.width = width
	r.height = height
}

// Render paints every element in stacking order, then the in-progress
// element on top if one is being drawn.
func (r *Renderer) Render(c *state.Canvas, inProgress *state.Element) *image.RGBA {
	pm := gg.NewPixmap(r.width, r.height)
	dc := gg.NewContext(r.width, r.height, gg.WithPixmap(pm))

	frame := state.Box{W: float64(r.width), H: float64(r.height)}
	for _, el := range c.Elements() {
		if !r.ElementBox(el).Overlaps(frame) {
			continue
		}
		r.drawElement(dc, pm, el)
	}
	if inProgress != nil && r.ElementBox(*inProgress).Overlaps(frame) {
		r.drawElement(dc, pm, *inProgress)
	}
	return pm.ToImage()
}

// ElementBox returns a conservative bounding box of the element's marks,
// stroke width included. Anything outside it is untouched by the element,
// so Render skips elements whose box misses the frame.
func (r *Renderer) ElementBox(el state.Element) state.Box {
	switch el.Kind {
	case state.KindCircle:
		if len(el.Points) < 4 {
			return state.PointsBox(el.Points)
		}
		radius := math.Hypot(el.Points[2]-el.Points[0], el.Points[3]-el.Points[1])
		center := state.PointsBox(el.Points[:2])
		return center.Pad(radius + el.LineWidth/2)

	case state.KindText:
		// underline sits 2px below the baseline
		return r.TextBox(el).Pad(2)

	case state.KindEraser:
		return state.PointsBox(el.Points).Pad(el.LineWidth / 2)

	default:
		return state.PointsBox(el.Points).Pad(el.LineWidth / 2)
	}
}

func (r *Renderer) drawElement(dc *gg.Context, pm *gg.Pixmap, el state.Element) {
	dc.SetStroke(gg.RoundStroke().WithWidth(el.LineWidth))
	dc.SetHexColor(el.Color)

	switch el.Kind {
	case state.KindPath:
		if len(el.Points) < 4 {
			// a click without a drag; a zero-length stroke paints nothing
			return
		}
		dc.MoveTo(el.Points[0], el.Points[1])
		for i := 2; i+1 < len(el.Points); i += 2 {
			dc.LineTo(el.Points[i], el.Points[i+1])
		}
		dc.Stroke()

	case state.KindRectangle:
		if len(el.Points) < 4 {
			return
		}
		// normalize so drag direction does not matter
		x := math.Min(el.Points[0], el.Points[2])
		y := math.Min(el.Points[1], el.Points[3])
		w := math.Abs(el.Points[2] - el.Points[0])
		h := math.Abs(el.Points[3] - el.Points[1])
		dc.DrawRectangle(x, y, w, h)
		dc.Stroke()

	case state.KindCircle:
		if len(el.Points) < 4 {
			return
		}
		// circle through the drag point, not an ellipse in the drag box
		radius := math.Hypot(el.Points[2]-el.Points[0], el.Points[3]-el.Points[1])
		dc.DrawCircle(el.Points[0], el.Points[1], radius)
		dc.Stroke()

	case state.KindText:
		r.drawText(dc, el)

	case state.KindEraser:
		radius := el.LineWidth / 2
		eraseDisc(pm, el.Points[0], el.Points[1], radius)
	}
}

func (r *Renderer) drawText(dc *gg.Context, el state.Element) {
	face := r.fonts.face(el)
	dc.SetFont(face)
	dc.DrawString(el.Text, el.Points[0], el.Points[1])
	if el.Underline {
		width := face.Advance(el.Text)
		dc.DrawLine(el.Points[0], el.Points[1]+2, el.Points[0]+width, el.Points[1]+2)
		dc.Stroke()
	}
}

// eraseDisc clears every pixel within the disc, the raster equivalent of
// destination-out compositing with a fully opaque source.
func eraseDisc(pm *gg.Pixmap, cx, cy, radius float64) {
	if radius <= 0 {
		return
	}
	x0 := int(math.Floor(cx - radius))
	x1 := int(math.Ceil(cx + radius))
	y0 := int(math.Floor(cy - radius))
	y1 := int(math.Ceil(cy + radius))
	rr := radius * radius
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= rr {
				pm.SetPixel(x, y, gg.RGBA{})
			}
		}
	}
}
