package realtime

import (
	"encoding/json"
	"fmt"

	"CollabCanvas/internal/presence"
	"CollabCanvas/internal/state"
)

// Channel event names. Outbound events carry the canvas id; inbound events
// are already scoped to the joined canvas by the server.
const (
	EventJoinCanvas     = "join-canvas"
	EventGetActiveUsers = "get-active-users"
	EventDrawElement    = "draw-element"
	EventUpdateElement  = "update-element"
	EventDeleteElement  = "delete-element"
	EventClearCanvas    = "clear-canvas"
	EventSaveCanvas     = "save-canvas"
	EventCanvasData     = "canvas-data"
	EventCanvasSaved    = "canvas-saved"
	EventUserJoined     = "user-joined"
	EventUserLeft       = "user-left"
	EventActiveUsers    = "active-users"
	EventError          = "error"
)

// Envelope frames every channel message: an event name plus a payload whose
// shape depends on the event.
type Envelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Encode frames a payload for the wire.
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding %s payload: %w", event, err)
		}
		env.Payload = raw
	}
	return json.Marshal(env)
}

// DecodeInto unmarshals the envelope payload into v.
func (e *Envelope) DecodeInto(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", e.Event)
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w", e.Event, err)
	}
	return nil
}

// CanvasData is the snapshot shape shared by the canvas-data event, the
// save-canvas payload, and the REST snapshot fetch.
type CanvasData struct {
	Elements   []state.Element `json:"elements"`
	Background string          `json:"background,omitempty"`
}

// JoinPayload announces or queries a canvas session (join-canvas,
// get-active-users, outbound clear-canvas).
type JoinPayload struct {
	CanvasID string `json:"canvasId"`
}

// DrawPayload broadcasts a committed element.
type DrawPayload struct {
	CanvasID string        `json:"canvasId"`
	Element  state.Element `json:"element"`
}

// UpdatePayload broadcasts a partial element mutation. Inbound messages omit
// the canvas id.
type UpdatePayload struct {
	CanvasID  string      `json:"canvasId,omitempty"`
	ElementID string      `json:"elementId"`
	Updates   state.Patch `json:"updates"`
}

// DeletePayload removes one element by id.
type DeletePayload struct {
	CanvasID  string `json:"canvasId,omitempty"`
	ElementID string `json:"elementId"`
}

// SavePayload persists the full element snapshot to the durable store.
type SavePayload struct {
	CanvasID string     `json:"canvasId"`
	Data     CanvasData `json:"data"`
}

// ErrorPayload is a server-pushed failure, surfaced verbatim to the user.
type ErrorPayload struct {
	Message string `json:"message"`
}

// SavedPayload acknowledges a save-canvas.
type SavedPayload struct {
	Success bool `json:"success"`
}

// ActiveUsers is the authoritative roster payload.
type ActiveUsers []presence.User
