package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies how an element's geometry is interpreted. The values are
// the wire names, so they serialize as-is.
type Kind string

const (
	KindPath      Kind = "path"
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindText      Kind = "text"
	KindEraser    Kind = "eraser"
)

var (
	ErrUnknownKind   = errors.New("unknown element kind")
	ErrEmptyGeometry = errors.New("element has no geometry")
	ErrOddGeometry   = errors.New("element geometry has an odd coordinate count")
	ErrMissingText   = errors.New("text element has no content")
	ErrNotPath       = errors.New("element is not a path")
)

// Style carries the stroke and text styling an element is constructed with.
// Font fields are only meaningful for text elements.
type Style struct {
	Color     string
	LineWidth float64
	Font      string
	FontSize  float64
	Bold      bool
	Italic    bool
	Underline bool
}

// Element is one visible mark on the canvas. Once committed to a Canvas it is
// treated as immutable; changes go through Patch via Canvas.Update.
//
// Points is a flat sequence of x,y pairs. For a path these are polyline
// vertices, for rectangle/circle the two drag corners, for text/eraser a
// single anchor point.
type Element struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"type"`
	Points    []float64 `json:"points"`
	Text      string    `json:"text,omitempty"`
	Font      string    `json:"font,omitempty"`
	FontSize  float64   `json:"fontSize,omitempty"`
	Bold      bool      `json:"bold,omitempty"`
	Italic    bool      `json:"italic,omitempty"`
	Underline bool      `json:"underline,omitempty"`
	Color     string    `json:"color"`
	LineWidth float64   `json:"lineWidth"`
	Creator   string    `json:"creator,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// NewElement starts a geometry element (path, rectangle, circle, eraser) at
// the given point. Text elements carry content and are built with NewText.
func NewElement(kind Kind, x, y float64, s Style) (Element, error) {
	switch kind {
	case KindPath, KindRectangle, KindCircle, KindEraser:
	case KindText:
		return Element{}, ErrMissingText
	default:
		return Element{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return Element{
		ID:        uuid.NewString(),
		Kind:      kind,
		Points:    []float64{x, y},
		Color:     s.Color,
		LineWidth: s.LineWidth,
		CreatedAt: time.Now(),
	}, nil
}

// NewText builds a committed text element anchored at (x, y).
func NewText(x, y float64, content string, s Style) (Element, error) {
	if content == "" {
		return Element{}, ErrMissingText
	}
	return Element{
		ID:        uuid.NewString(),
		Kind:      KindText,
		Points:    []float64{x, y},
		Text:      content,
		Font:      s.Font,
		FontSize:  s.FontSize,
		Bold:      s.Bold,
		Italic:    s.Italic,
		Underline: s.Underline,
		Color:     s.Color,
		LineWidth: s.LineWidth,
		CreatedAt: time.Now(),
	}, nil
}

// Validate checks the invariants that every stored element must satisfy.
func (e *Element) Validate() error {
	switch e.Kind {
	case KindPath, KindRectangle, KindCircle, KindText, KindEraser:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, e.Kind)
	}
	if len(e.Points) == 0 {
		return ErrEmptyGeometry
	}
	if len(e.Points)%2 != 0 {
		return ErrOddGeometry
	}
	if e.Kind == KindText && e.Text == "" {
		return ErrMissingText
	}
	return nil
}

// AppendPoint extends a path gesture with one more vertex.
func (e *Element) AppendPoint(x, y float64) error {
	if e.Kind != KindPath {
		return ErrNotPath
	}
	e.Points = append(e.Points, x, y)
	return nil
}

// SetEndpoint replaces the geometry with exactly two points: the original
// start and the current drag position. Used by the shape tools, where only
// the latest pointer position matters.
func (e *Element) SetEndpoint(x, y float64) {
	e.Points = []float64{e.Points[0], e.Points[1], x, y}
}

// Anchor returns the first geometry point.
func (e *Element) Anchor() (x, y float64) {
	return e.Points[0], e.Points[1]
}

// SetAnchor moves the first geometry point, shifting the rest of the
// geometry by the same delta so the element keeps its shape.
func (e *Element) SetAnchor(x, y float64) {
	dx := x - e.Points[0]
	dy := y - e.Points[1]
	for i := 0; i < len(e.Points); i += 2 {
		e.Points[i] += dx
		e.Points[i+1] += dy
	}
}

// Clone returns a deep copy, so callers can hold an element across later
// canvas mutations.
func (e Element) Clone() Element {
	c := e
	c.Points = append([]float64(nil), e.Points...)
	return c
}
