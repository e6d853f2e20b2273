package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsServer is a recording websocket peer for channel and coordinator tests.
// It accepts every upgrade, keeps the connections, and collects every
// inbound envelope.
type wsServer struct {
	*httptest.Server

	mu     sync.Mutex
	conns  []*websocket.Conn
	frames []Envelope
}

func newWSServer(t *testing.T) *wsServer {
	t.Helper()
	s := &wsServer{}
	upgrader := websocket.Upgrader{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.mu.Lock()
		s.conns = append(s.conns, ws)
		s.mu.Unlock()
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var env Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				continue
			}
			s.mu.Lock()
			s.frames = append(s.frames, env)
			s.mu.Unlock()
		}
	}))
	t.Cleanup(s.Server.Close)
	return s
}

// push sends an envelope on the most recent connection.
func (s *wsServer) push(t *testing.T, event string, payload any) {
	t.Helper()
	data, err := Encode(event, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.conns) == 0 {
		t.Fatal("no connection to push to")
	}
	conn := s.conns[len(s.conns)-1]
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		t.Fatalf("push: %v", err)
	}
}

// dropConns closes every accepted connection, forcing clients to reconnect.
func (s *wsServer) dropConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.conns {
		c.Close()
	}
	s.conns = nil
}

func (s *wsServer) connCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// received returns the envelopes recorded so far for one event name.
func (s *wsServer) received(event string) []Envelope {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Envelope
	for _, f := range s.frames {
		if f.Event == event {
			out = append(out, f)
		}
	}
	return out
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func quickSettings() *ChannelSettings {
	s := DefaultChannelSettings()
	s.ReconnectBase = 10 * time.Millisecond
	s.ReconnectMax = 20 * time.Millisecond
	s.MaxAttempts = 3
	return s
}

// nextEvent reads one event of the expected type, failing on anything else.
func nextEvent(t *testing.T, ch *Channel, want EventType) Event {
	t.Helper()
	select {
	case ev, ok := <-ch.Events():
		if !ok {
			t.Fatalf("event stream closed while waiting for type %d", want)
		}
		if ev.Type != want {
			t.Fatalf("event type = %d, want %d", ev.Type, want)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event type %d", want)
	}
	return Event{}
}

func TestChannelOpenFailsAgainstDeadServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	ch := NewChannel(url, "c-1", quickSettings())
	if err := ch.Open(context.Background()); err == nil {
		t.Fatal("want error opening against a dead server")
	}
	if _, ok := <-ch.Events(); ok {
		t.Error("event stream should be closed after a failed open")
	}
}

func TestChannelConnectsAndDeliversMessages(t *testing.T) {
	srv := newWSServer(t)
	ch := NewChannel(srv.URL, "c-1", quickSettings())
	if err := ch.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	nextEvent(t, ch, EventConnected)

	srv.push(t, EventClearCanvas, nil)
	ev := nextEvent(t, ch, EventMessage)
	if ev.Envelope.Event != EventClearCanvas {
		t.Errorf("inbound event = %q, want %q", ev.Envelope.Event, EventClearCanvas)
	}
}

func TestChannelSendReachesServer(t *testing.T) {
	srv := newWSServer(t)
	ch := NewChannel(srv.URL, "c-1", quickSettings())
	if err := ch.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	nextEvent(t, ch, EventConnected)

	if err := ch.Send(EventJoinCanvas, JoinPayload{CanvasID: "c-1"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		return len(srv.received(EventJoinCanvas)) == 1
	}, "join-canvas frame never reached the server")

	var join JoinPayload
	env := srv.received(EventJoinCanvas)[0]
	if err := env.DecodeInto(&join); err != nil {
		t.Fatalf("DecodeInto: %v", err)
	}
	if join.CanvasID != "c-1" {
		t.Errorf("canvasId = %q, want %q", join.CanvasID, "c-1")
	}
}

func TestChannelSendDropsWhenQueueFull(t *testing.T) {
	settings := quickSettings()
	settings.SendBuffer = 1
	ch := NewChannel("ws://unused", "c-1", settings)

	if err := ch.Send(EventClearCanvas, nil); err != nil {
		t.Fatalf("first send should queue: %v", err)
	}
	if err := ch.Send(EventClearCanvas, nil); err == nil {
		t.Error("want drop error on a full queue")
	}
}

func TestChannelCloseTearsDownEventStream(t *testing.T) {
	srv := newWSServer(t)
	ch := NewChannel(srv.URL, "c-1", quickSettings())
	if err := ch.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	nextEvent(t, ch, EventConnected)
	ch.Close()

	// Close must unblock the reader even though no frame is in flight.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch.Events():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("event stream still open after Close")
		}
	}
}

func TestChannelReconnectsAfterDrop(t *testing.T) {
	srv := newWSServer(t)
	ch := NewChannel(srv.URL, "c-1", quickSettings())
	if err := ch.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer ch.Close()

	nextEvent(t, ch, EventConnected)
	srv.dropConns()
	nextEvent(t, ch, EventDisconnected)
	nextEvent(t, ch, EventConnected)

	waitFor(t, time.Second, func() bool { return srv.connCount() == 1 },
		"server never saw the reconnect")
}

func TestChannelGoesOfflineWhenReconnectExhausted(t *testing.T) {
	srv := newWSServer(t)
	ch := NewChannel(srv.URL, "c-1", quickSettings())
	if err := ch.Open(context.Background()); err != nil {
		t.Fatalf("Open: %v", err)
	}

	nextEvent(t, ch, EventConnected)
	// Closing the listener kills future dials; hijacked websocket
	// connections have to be dropped separately.
	srv.Close()
	srv.dropConns()

	nextEvent(t, ch, EventDisconnected)
	ev := nextEvent(t, ch, EventOffline)
	if ev.Err == nil {
		t.Error("offline event should carry the final dial error")
	}

	if _, ok := <-ch.Events(); ok {
		t.Error("event stream should be closed after going offline")
	}
}

func TestWSURL(t *testing.T) {
	tests := []struct {
		name   string
		server string
		want   string
		ok     bool
	}{
		{"http", "http://host:3000", "ws://host:3000?canvasId=c-1", true},
		{"https", "https://host", "wss://host?canvasId=c-1", true},
		{"ws passthrough", "ws://host/sync", "ws://host/sync?canvasId=c-1", true},
		{"bad scheme", "ftp://host", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wsURL(tt.server, "c-1")
			if tt.ok != (err == nil) {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if tt.ok && got != tt.want {
				t.Errorf("wsURL = %q, want %q", got, tt.want)
			}
		})
	}
}
