package render

import (
	"bytes"
	"testing"

	"CollabCanvas/internal/state"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(120, 120)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func thickPath(id string, points ...float64) state.Element {
	return state.Element{
		ID:        id,
		Kind:      state.KindPath,
		Points:    points,
		Color:     "#000000",
		LineWidth: 8,
	}
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	c.Add(thickPath("p", 10, 10, 60, 60, 100, 30))
	c.Add(state.Element{ID: "r", Kind: state.KindRectangle, Points: []float64{20, 20, 80, 90}, Color: "#ff0000", LineWidth: 3})
	c.Add(state.Element{ID: "t", Kind: state.KindText, Points: []float64{15, 50}, Text: "hi", Color: "#0000ff", FontSize: 20, LineWidth: 2, Underline: true})

	a := r.Render(c, nil)
	b := r.Render(c, nil)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("two renders of the same canvas differ")
	}
}

func TestRender_ReadOnlyPass(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	c.Add(thickPath("p", 10, 10, 60, 60))
	before := c.Elements()
	r.Render(c, nil)
	after := c.Elements()
	if len(before) != len(after) {
		t.Fatalf("element count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if len(before[i].Points) != len(after[i].Points) {
			t.Errorf("element %s geometry changed", before[i].ID)
		}
	}
}

func TestRender_EmptyCanvasIsBlank(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	img := r.Render(c, nil)
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("pixel byte %d = %d, want 0", i, v)
		}
	}
}

func TestRender_PathPaintsPixels(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	c.Add(thickPath("p", 20, 60, 100, 60))
	img := r.Render(c, nil)
	if img.RGBAAt(60, 60).A == 0 {
		t.Error("no paint on the path midpoint")
	}
	if img.RGBAAt(60, 10).A != 0 {
		t.Error("paint far away from the path")
	}
}

func TestRender_EraserClearsEarlierPaint(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	c.Add(thickPath("p", 20, 60, 100, 60))
	c.Add(state.Element{ID: "e", Kind: state.KindEraser, Points: []float64{60, 60}, Color: "#FFFFFF", LineWidth: 20})
	img := r.Render(c, nil)
	if got := img.RGBAAt(60, 60); got.A != 0 {
		t.Errorf("pixel under eraser = %v, want transparent", got)
	}
	// paint outside the eraser radius survives
	if img.RGBAAt(30, 60).A == 0 {
		t.Error("eraser cleared paint outside its radius")
	}
}

func TestRender_EraserBeforePaintDoesNotBlockIt(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	c.Add(state.Element{ID: "e", Kind: state.KindEraser, Points: []float64{60, 60}, Color: "#FFFFFF", LineWidth: 20})
	c.Add(thickPath("p", 20, 60, 100, 60))
	img := r.Render(c, nil)
	if img.RGBAAt(60, 60).A == 0 {
		t.Error("paint after an eraser should land on a cleared pixel")
	}
}

func TestRender_SkipsElementsOutsideFrame(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	c.Add(thickPath("far", 5000, 5000, 5100, 5100))
	img := r.Render(c, nil)
	for i, v := range img.Pix {
		if v != 0 {
			t.Fatalf("pixel byte %d = %d, want 0 for a fully offscreen canvas", i, v)
		}
	}
}

func TestRender_StraddlingElementStillPaints(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	// starts outside the 120x120 frame, ends inside
	c.Add(thickPath("edge", -200, 60, 60, 60))
	img := r.Render(c, nil)
	if img.RGBAAt(30, 60).A == 0 {
		t.Error("no paint from a path crossing the frame edge")
	}
}

func TestElementBox(t *testing.T) {
	r := newTestRenderer(t)
	tests := []struct {
		name string
		el   state.Element
		want state.Box
	}{
		{
			"path padded by half the stroke",
			thickPath("p", 10, 10, 50, 30),
			state.Box{X: 6, Y: 6, W: 48, H: 28},
		},
		{
			"circle spans the radius from its center",
			state.Element{Kind: state.KindCircle, Points: []float64{50, 50, 80, 50}, LineWidth: 2},
			state.Box{X: 19, Y: 19, W: 62, H: 62},
		},
		{
			"eraser covers its disc",
			state.Element{Kind: state.KindEraser, Points: []float64{60, 60}, LineWidth: 20},
			state.Box{X: 50, Y: 50, W: 20, H: 20},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.ElementBox(tt.el); got != tt.want {
				t.Errorf("ElementBox = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRender_InProgressElementOnTop(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	pending := thickPath("pending", 20, 20, 90, 90)
	img := r.Render(c, &pending)
	if img.RGBAAt(55, 55).A == 0 {
		t.Error("in-progress element not painted")
	}
	if c.Len() != 0 {
		t.Error("rendering committed the in-progress element")
	}
}

func TestRender_RectangleDragDirectionIndependent(t *testing.T) {
	r := newTestRenderer(t)
	a := state.NewCanvas()
	a.Add(state.Element{ID: "x", Kind: state.KindRectangle, Points: []float64{20, 20, 90, 80}, Color: "#000000", LineWidth: 4})
	b := state.NewCanvas()
	b.Add(state.Element{ID: "x", Kind: state.KindRectangle, Points: []float64{90, 80, 20, 20}, Color: "#000000", LineWidth: 4})
	if !bytes.Equal(r.Render(a, nil).Pix, r.Render(b, nil).Pix) {
		t.Error("rectangle renders differently depending on drag direction")
	}
}

func TestHitTestText(t *testing.T) {
	r := newTestRenderer(t)
	el := state.Element{
		ID: "t", Kind: state.KindText, Points: []float64{40, 60},
		Text: "hello world", FontSize: 20, Color: "#000000",
	}
	width := r.MeasureText(el)
	if width <= 0 {
		t.Fatalf("MeasureText = %v, want > 0", width)
	}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside box", 42, 50, true},
		{"on anchor", 40, 60, true},
		{"right of text", 40 + width + 5, 50, false},
		{"left of anchor", 30, 50, false},
		{"below baseline", 42, 70, false},
		{"above ascent", 42, 30, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.HitTestText(el, tt.x, tt.y); got != tt.want {
				t.Errorf("HitTestText(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestTextAt_TopmostWins(t *testing.T) {
	r := newTestRenderer(t)
	c := state.NewCanvas()
	c.Add(state.Element{ID: "under", Kind: state.KindText, Points: []float64{40, 60}, Text: "under", FontSize: 20, Color: "#000000"})
	c.Add(state.Element{ID: "over", Kind: state.KindText, Points: []float64{40, 60}, Text: "over", FontSize: 20, Color: "#000000"})
	got, ok := r.TextAt(c, 45, 50)
	if !ok {
		t.Fatal("TextAt found nothing")
	}
	if got.ID != "over" {
		t.Errorf("TextAt = %s, want over", got.ID)
	}
	if _, ok := r.TextAt(c, 5, 5); ok {
		t.Error("TextAt hit on empty area")
	}
}
