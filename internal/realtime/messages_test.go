package realtime

import (
	"encoding/json"
	"strings"
	"testing"

	"CollabCanvas/internal/state"
)

func TestEncodeFramesEventAndPayload(t *testing.T) {
	data, err := Encode(EventJoinCanvas, JoinPayload{CanvasID: "c-42"})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.Event != EventJoinCanvas {
		t.Errorf("event = %q, want %q", env.Event, EventJoinCanvas)
	}

	var join JoinPayload
	if err := env.DecodeInto(&join); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if join.CanvasID != "c-42" {
		t.Errorf("canvasId = %q, want %q", join.CanvasID, "c-42")
	}
}

func TestEncodeNilPayloadOmitsField(t *testing.T) {
	data, err := Encode(EventGetActiveUsers, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(string(data), "payload") {
		t.Errorf("frame %s carries a payload field for a nil payload", data)
	}
}

func TestDecodeIntoEmptyPayloadErrors(t *testing.T) {
	env := Envelope{Event: EventClearCanvas}
	var join JoinPayload
	if err := env.DecodeInto(&join); err == nil {
		t.Error("want error decoding an empty payload")
	}
}

func TestDrawPayloadWireShape(t *testing.T) {
	el, err := state.NewElement(state.KindPath, 1, 2, state.Style{Color: "#000000", LineWidth: 5})
	if err != nil {
		t.Fatalf("NewElement: %v", err)
	}
	data, err := Encode(EventDrawElement, DrawPayload{CanvasID: "c-1", Element: el})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var frame struct {
		Event   string `json:"event"`
		Payload struct {
			CanvasID string `json:"canvasId"`
			Element  struct {
				Kind   string    `json:"type"`
				Points []float64 `json:"points"`
			} `json:"element"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if frame.Payload.Element.Kind != "path" {
		t.Errorf("type = %q, want %q", frame.Payload.Element.Kind, "path")
	}
	if len(frame.Payload.Element.Points) != 2 {
		t.Errorf("points = %v, want one pair", frame.Payload.Element.Points)
	}
}

func TestUpdatePayloadOmitsUnsetFields(t *testing.T) {
	color := "#FF0000"
	data, err := Encode(EventUpdateElement, UpdatePayload{
		CanvasID:  "c-1",
		ElementID: "el-1",
		Updates:   state.Patch{Color: &color},
	})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"color":"#FF0000"`) {
		t.Errorf("frame %s missing color update", s)
	}
	if strings.Contains(s, `"fontSize"`) || strings.Contains(s, `"points"`) {
		t.Errorf("frame %s carries fields the patch never set", s)
	}
}
