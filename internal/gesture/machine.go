// Package gesture tracks one in-progress pointer interaction and turns it
// into committed elements or element patches. It is UI-toolkit agnostic: the
// board widget feeds it pointer events and it reports back through callbacks.
package gesture

import (
	"log"

	"CollabCanvas/internal/state"
)

// Tool is the active drawing tool.
type Tool string

const (
	ToolPen       Tool = "pen"
	ToolRectangle Tool = "rectangle"
	ToolCircle    Tool = "circle"
	ToolText      Tool = "text"
	ToolEraser    Tool = "eraser"
)

// Eraser gestures ignore the selected style, matching the source behavior.
const (
	eraserColor = "#FFFFFF"
	eraserWidth = 20
)

type phase int

const (
	phaseIdle phase = iota
	phaseActive
	phaseDragging
	phasePendingText
	phaseEditingText
)

// Machine is the interaction state machine. At most one gesture is in flight
// per client; it lives only between pointer-down and pointer-up and is never
// shared with other clients.
//
// All methods must be called from the UI event goroutine.
type Machine struct {
	tool      Tool
	color     string
	lineWidth float64

	phase   phase
	current *state.Element // element under construction (phaseActive)

	dragID             string // text element being dragged (phaseDragging)
	dragOffX, dragOffY float64

	pendingX, pendingY float64 // anchor for new text (phasePendingText)
	editingID          string  // text element being edited (phaseEditingText)

	// TextAt hit-tests committed text elements; wired to the renderer.
	TextAt func(x, y float64) (state.Element, bool)

	// OnCommit delivers a finished element: add to canvas, broadcast, persist.
	OnCommit func(el state.Element)

	// OnPatch delivers a committed mutation of an existing element:
	// apply to canvas, broadcast, persist.
	OnPatch func(id string, p state.Patch)

	// OnPreview delivers a drag position while the pointer is still down:
	// apply to canvas and redraw, but do not broadcast.
	OnPreview func(id string, p state.Patch)

	// OnRedraw asks the view to repaint, with the in-progress element
	// painted on top (nil when the gesture ended).
	OnRedraw func(inProgress *state.Element)

	// OnTextPrompt asks the view to open the text editor. existing is nil
	// for a fresh placement and the element being edited otherwise.
	OnTextPrompt func(existing *state.Element)
}

func NewMachine() *Machine {
	return &Machine{
		tool:      ToolPen,
		color:     "#000000",
		lineWidth: 5,
	}
}

func (m *Machine) SetTool(t Tool)         { m.tool = t }
func (m *Machine) Tool() Tool             { return m.tool }
func (m *Machine) SetColor(c string)      { m.color = c }
func (m *Machine) Color() string          { return m.color }
func (m *Machine) SetLineWidth(w float64) { m.lineWidth = w }
func (m *Machine) LineWidth() float64     { return m.lineWidth }

// Active reports whether a geometry gesture is in flight.
func (m *Machine) Active() bool { return m.phase == phaseActive }

// PointerDown starts a gesture. A press on an existing text element starts a
// drag regardless of the active tool; the text tool suspends awaiting content
// from the editor; every other tool starts accumulating geometry.
func (m *Machine) PointerDown(x, y float64) {
	if m.phase != phaseIdle {
		return
	}

	if m.TextAt != nil {
		if el, ok := m.TextAt(x, y); ok {
			ax, ay := el.Anchor()
			m.phase = phaseDragging
			m.dragID = el.ID
			m.dragOffX = x - ax
			m.dragOffY = y - ay
			return
		}
	}

	if m.tool == ToolText {
		m.phase = phasePendingText
		m.pendingX, m.pendingY = x, y
		if m.OnTextPrompt != nil {
			m.OnTextPrompt(nil)
		}
		return
	}

	el, err := state.NewElement(m.kind(), x, y, m.style())
	if err != nil {
		log.Printf("[gesture] start: %v", err)
		return
	}
	m.phase = phaseActive
	m.current = &el
	m.redraw()
}

// PointerMove extends an active gesture or moves a dragged element. Neither
// broadcasts; remote clients only see the result of the commit.
func (m *Machine) PointerMove(x, y float64) {
	switch m.phase {
	case phaseActive:
		if m.current.Kind == state.KindPath {
			m.current.AppendPoint(x, y)
		} else {
			m.current.SetEndpoint(x, y)
		}
		m.redraw()
	case phaseDragging:
		if m.OnPreview != nil {
			m.OnPreview(m.dragID, state.PointsPatch(m.dragX(x), m.dragY(y)))
		}
		m.redraw()
	}
}

// PointerUp finishes the gesture: an active element commits, a drag
// broadcasts its final position.
func (m *Machine) PointerUp(x, y float64) {
	switch m.phase {
	case phaseActive:
		el := *m.current
		m.current = nil
		m.phase = phaseIdle
		if m.OnCommit != nil {
			m.OnCommit(el)
		}
		m.redraw()
	case phaseDragging:
		id := m.dragID
		m.dragID = ""
		m.phase = phaseIdle
		if m.OnPatch != nil {
			m.OnPatch(id, state.PointsPatch(m.dragX(x), m.dragY(y)))
		}
		m.redraw()
	}
}

// PointerLeave is the pointer exiting the drawing surface. There is no
// cancel path: whatever was accumulated commits, as if the pointer lifted
// at its last position.
func (m *Machine) PointerLeave(x, y float64) {
	m.PointerUp(x, y)
}

// EditTextAt opens the editor for the text element under the point, if any.
// Wired to double-tap on the board.
func (m *Machine) EditTextAt(x, y float64) bool {
	if m.phase != phaseIdle || m.TextAt == nil {
		return false
	}
	el, ok := m.TextAt(x, y)
	if !ok {
		return false
	}
	m.phase = phaseEditingText
	m.editingID = el.ID
	if m.OnTextPrompt != nil {
		m.OnTextPrompt(&el)
	}
	return true
}

// ResolveText completes a suspended text interaction with the editor's
// result. Empty content on a new placement commits nothing.
func (m *Machine) ResolveText(content string, s state.Style) {
	switch m.phase {
	case phasePendingText:
		m.phase = phaseIdle
		if content == "" {
			return
		}
		el, err := state.NewText(m.pendingX, m.pendingY, content, s)
		if err != nil {
			log.Printf("[gesture] text: %v", err)
			return
		}
		if m.OnCommit != nil {
			m.OnCommit(el)
		}
	case phaseEditingText:
		id := m.editingID
		m.editingID = ""
		m.phase = phaseIdle
		if content == "" {
			return
		}
		p := state.Patch{
			Text:      &content,
			Font:      &s.Font,
			FontSize:  &s.FontSize,
			Bold:      &s.Bold,
			Italic:    &s.Italic,
			Underline: &s.Underline,
			Color:     &s.Color,
		}
		if m.OnPatch != nil {
			m.OnPatch(id, p)
		}
	}
}

// CancelText abandons a suspended text interaction.
func (m *Machine) CancelText() {
	if m.phase == phasePendingText || m.phase == phaseEditingText {
		m.phase = phaseIdle
		m.editingID = ""
	}
}

func (m *Machine) kind() state.Kind {
	switch m.tool {
	case ToolRectangle:
		return state.KindRectangle
	case ToolCircle:
		return state.KindCircle
	case ToolEraser:
		return state.KindEraser
	default:
		return state.KindPath
	}
}

func (m *Machine) style() state.Style {
	if m.tool == ToolEraser {
		return state.Style{Color: eraserColor, LineWidth: eraserWidth}
	}
	return state.Style{Color: m.color, LineWidth: m.lineWidth}
}

func (m *Machine) dragX(x float64) float64 { return x - m.dragOffX }
func (m *Machine) dragY(y float64) float64 { return y - m.dragOffY }

func (m *Machine) redraw() {
	if m.OnRedraw != nil {
		m.OnRedraw(m.current)
	}
}
