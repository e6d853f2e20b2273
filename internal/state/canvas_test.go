package state

import (
	"fmt"
	"testing"
)

func pathAt(id string, x, y float64) Element {
	return Element{
		ID:     id,
		Kind:   KindPath,
		Points: []float64{x, y, x + 10, y + 10},
		Color:  "#000000",
	}
}

func TestCanvas_AddKeepsInsertionOrder(t *testing.T) {
	c := NewCanvas()
	for i := 0; i < 5; i++ {
		if !c.Add(pathAt(fmt.Sprintf("el-%d", i), float64(i), 0)) {
			t.Fatalf("Add el-%d returned false", i)
		}
	}
	els := c.Elements()
	if len(els) != 5 {
		t.Fatalf("len = %d, want 5", len(els))
	}
	for i, el := range els {
		if el.ID != fmt.Sprintf("el-%d", i) {
			t.Errorf("els[%d].ID = %s, want el-%d", i, el.ID, i)
		}
	}
}

func TestCanvas_AddDuplicateIDIsNoOp(t *testing.T) {
	c := NewCanvas()
	c.Add(pathAt("dup", 0, 0))
	if c.Add(pathAt("dup", 99, 99)) {
		t.Error("second Add with same id returned true")
	}
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
	el, _ := c.Get("dup")
	if el.Points[0] != 0 {
		t.Errorf("duplicate add replaced element: %v", el.Points)
	}
}

func TestCanvas_UpdateMergesPartial(t *testing.T) {
	c := NewCanvas()
	c.Add(Element{ID: "r", Kind: KindRectangle, Points: []float64{10, 10, 50, 40}, Color: "#000000", LineWidth: 5})

	if !c.Update("r", PointsPatch(60, 60)) {
		t.Fatal("Update returned false")
	}
	el, _ := c.Get("r")
	want := []float64{10, 10, 60, 60}
	for i := range want {
		if el.Points[i] != want[i] {
			t.Fatalf("points = %v, want %v", el.Points, want)
		}
	}
	if el.Color != "#000000" || el.LineWidth != 5 {
		t.Errorf("unrelated fields changed: %+v", el)
	}
}

func TestCanvas_UpdateUnknownIDIsNoOp(t *testing.T) {
	c := NewCanvas()
	if c.Update("ghost", PointsPatch(1, 2)) {
		t.Error("Update for unknown id returned true")
	}
	if c.Len() != 0 {
		t.Errorf("len = %d, want 0", c.Len())
	}
}

func TestCanvas_RemoveAbsentIDIsNoOp(t *testing.T) {
	c := NewCanvas()
	c.Add(pathAt("keep", 0, 0))
	if c.Remove("ghost") {
		t.Error("Remove of absent id returned true")
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
	if !c.Remove("keep") {
		t.Error("Remove of present id returned false")
	}
	if c.Len() != 0 {
		t.Errorf("len after remove = %d, want 0", c.Len())
	}
}

func TestCanvas_Clear(t *testing.T) {
	c := NewCanvas()
	c.Add(pathAt("a", 0, 0))
	c.Add(pathAt("b", 1, 1))
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("len = %d, want 0", c.Len())
	}
	// cleared ids can come back
	if !c.Add(pathAt("a", 5, 5)) {
		t.Error("Add after Clear returned false")
	}
}

func TestCanvas_ReplaceAllDropsInvalidAndDuplicates(t *testing.T) {
	c := NewCanvas()
	c.Add(pathAt("old", 0, 0))
	c.ReplaceAll([]Element{
		pathAt("a", 0, 0),
		{ID: "bad", Kind: KindPath}, // empty geometry
		pathAt("a", 9, 9),           // duplicate id
		pathAt("b", 1, 1),
	}, "grid")
	els := c.Elements()
	if len(els) != 2 {
		t.Fatalf("len = %d, want 2", len(els))
	}
	if els[0].ID != "a" || els[1].ID != "b" {
		t.Errorf("order = [%s %s], want [a b]", els[0].ID, els[1].ID)
	}
	if _, ok := c.Get("old"); ok {
		t.Error("ReplaceAll kept a pre-existing element")
	}
	if c.Background() != "grid" {
		t.Errorf("background = %q, want grid", c.Background())
	}
}

func TestCanvas_ElementsReturnsCopies(t *testing.T) {
	c := NewCanvas()
	c.Add(pathAt("a", 0, 0))
	els := c.Elements()
	els[0].Points[0] = 999
	el, _ := c.Get("a")
	if el.Points[0] == 999 {
		t.Error("Elements exposed internal geometry")
	}
}

func TestPointsBox(t *testing.T) {
	b := PointsBox([]float64{10, 20, 30, 5, 15, 40})
	if b.X != 10 || b.Y != 5 || b.W != 20 || b.H != 35 {
		t.Errorf("box = %+v", b)
	}
	if !b.Contains(10, 5) || !b.Contains(30, 40) {
		t.Error("box edges should be inside")
	}
	if b.Contains(31, 5) {
		t.Error("point outside reported inside")
	}
}

func TestBox_UnionOverlaps(t *testing.T) {
	a := Box{X: 0, Y: 0, W: 10, H: 10}
	b := Box{X: 5, Y: 5, W: 10, H: 10}
	if !a.Overlaps(b) {
		t.Error("overlapping boxes reported disjoint")
	}
	u := a.Union(b)
	if u.X != 0 || u.Y != 0 || u.W != 15 || u.H != 15 {
		t.Errorf("union = %+v", u)
	}
	far := Box{X: 100, Y: 100, W: 1, H: 1}
	if a.Overlaps(far) {
		t.Error("disjoint boxes reported overlapping")
	}
}
