package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ChannelSettings tunes the websocket transport.
type ChannelSettings struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	PingInterval     time.Duration

	// Reconnect backoff: ReconnectBase doubling up to ReconnectMax, giving
	// up after MaxAttempts consecutive failures.
	ReconnectBase time.Duration
	ReconnectMax  time.Duration
	MaxAttempts   int

	SendBuffer  int
	EventBuffer int
}

func DefaultChannelSettings() *ChannelSettings {
	return &ChannelSettings{
		HandshakeTimeout: 5 * time.Second,
		WriteTimeout:     5 * time.Second,
		PingInterval:     15 * time.Second,
		ReconnectBase:    time.Second,
		ReconnectMax:     30 * time.Second,
		MaxAttempts:      6,
		SendBuffer:       32,
		EventBuffer:      32,
	}
}

// EventType classifies what the channel reports to its consumer.
type EventType int

const (
	// EventConnected fires after every successful dial, the first included.
	// The consumer announces itself (and resyncs, after a drop) on it.
	EventConnected EventType = iota
	// EventDisconnected fires when an established connection is lost and a
	// reconnect is about to be attempted.
	EventDisconnected
	// EventOffline fires when reconnection is abandoned after MaxAttempts.
	// The channel is dead afterwards.
	EventOffline
	// EventMessage carries one decoded inbound envelope.
	EventMessage
)

// Event is one item on the channel's event stream.
type Event struct {
	Type     EventType
	Envelope *Envelope
	Err      error
}

// Channel is the realtime connection for one canvas session. It is an
// explicitly owned object with an Open/Close lifecycle; one process holds at
// most one open channel, and entering another canvas must Close this one
// first.
type Channel struct {
	serverURL string
	canvasID  string
	settings  *ChannelSettings

	ctx    context.Context
	cancel context.CancelFunc

	sendC  chan []byte
	events chan Event

	mu     sync.Mutex
	opened bool
}

func NewChannel(serverURL, canvasID string, settings *ChannelSettings) *Channel {
	if settings == nil {
		settings = DefaultChannelSettings()
	}
	return &Channel{
		serverURL: serverURL,
		canvasID:  canvasID,
		settings:  settings,
		sendC:     make(chan []byte, settings.SendBuffer),
		events:    make(chan Event, settings.EventBuffer),
	}
}

// Events is the stream the coordinator consumes. It is closed when the
// channel shuts down, whether by Close or by going offline.
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Open dials the server. The initial dial is synchronous so that a dead
// server surfaces immediately; after that the channel keeps itself connected
// in the background until Close or until reconnection is exhausted.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.opened {
		c.mu.Unlock()
		return fmt.Errorf("channel already open")
	}
	c.opened = true
	c.mu.Unlock()

	c.ctx, c.cancel = context.WithCancel(ctx)

	ws, err := c.dial()
	if err != nil {
		c.cancel()
		close(c.events)
		return fmt.Errorf("opening channel: %w", err)
	}

	go c.run(ws)
	return nil
}

// Close tears down the connection and the event stream.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// Send frames and queues an outbound message, fire-and-forget. A full queue
// or a closed channel drops the message; the debounced snapshot save is the
// durability guarantee, not the broadcast.
func (c *Channel) Send(event string, payload any) error {
	data, err := Encode(event, payload)
	if err != nil {
		return err
	}
	select {
	case c.sendC <- data:
		return nil
	default:
		return fmt.Errorf("send queue full, dropping %s", event)
	}
}

func (c *Channel) dial() (*websocket.Conn, error) {
	u, err := wsURL(c.serverURL, c.canvasID)
	if err != nil {
		return nil, err
	}
	dialer := websocket.Dialer{HandshakeTimeout: c.settings.HandshakeTimeout}
	ws, _, err := dialer.DialContext(c.ctx, u, nil)
	return ws, err
}

// run owns the connection for its lifetime, reconnecting with bounded
// exponential backoff when it drops.
func (c *Channel) run(ws *websocket.Conn) {
	defer close(c.events)
	defer c.cancel()

	for {
		c.emit(Event{Type: EventConnected})
		c.serve(ws)

		select {
		case <-c.ctx.Done():
			return
		default:
		}

		c.emit(Event{Type: EventDisconnected})
		log.Printf("[channel] %s disconnected, reconnecting", c.canvasID)

		var err error
		ws, err = c.redial()
		if err != nil {
			log.Printf("[channel] %s giving up: %v", c.canvasID, err)
			c.emit(Event{Type: EventOffline, Err: err})
			return
		}
	}
}

// serve pumps one live connection until it breaks or the channel closes.
func (c *Channel) serve(ws *websocket.Conn) {
	defer ws.Close()

	connCtx, connCancel := context.WithCancel(c.ctx)
	defer connCancel()

	// ReadMessage only fails when the conn dies, so closing it here is what
	// unblocks the read loop on Close.
	go func() {
		<-connCtx.Done()
		ws.Close()
	}()

	go func() {
		defer connCancel()
		ping := time.NewTicker(c.settings.PingInterval)
		defer ping.Stop()
		for {
			select {
			case <-connCtx.Done():
				return
			case msg := <-c.sendC:
				ws.SetWriteDeadline(time.Now().Add(c.settings.WriteTimeout))
				if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
					log.Printf("[channel] write: %v", err)
					return
				}
			case <-ping.C:
				ws.SetWriteDeadline(time.Now().Add(c.settings.WriteTimeout))
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		select {
		case <-connCtx.Done():
			return
		default:
		}

		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			log.Printf("[channel] bad frame: %v", err)
			continue
		}
		c.emit(Event{Type: EventMessage, Envelope: &env})
	}
}

func (c *Channel) redial() (*websocket.Conn, error) {
	delay := c.settings.ReconnectBase
	var lastErr error
	for attempt := 1; attempt <= c.settings.MaxAttempts; attempt++ {
		select {
		case <-c.ctx.Done():
			return nil, c.ctx.Err()
		case <-time.After(delay):
		}

		ws, err := c.dial()
		if err == nil {
			return ws, nil
		}
		lastErr = err
		log.Printf("[channel] reconnect %d/%d failed: %v", attempt, c.settings.MaxAttempts, err)

		delay *= 2
		if delay > c.settings.ReconnectMax {
			delay = c.settings.ReconnectMax
		}
	}
	return nil, fmt.Errorf("reconnect exhausted after %d attempts: %w", c.settings.MaxAttempts, lastErr)
}

func (c *Channel) emit(ev Event) {
	select {
	case c.events <- ev:
	case <-c.ctx.Done():
	}
}

// wsURL converts the configured server URL to a websocket URL carrying the
// canvas id, mirroring the query-parameter convention of the server.
func wsURL(serverURL, canvasID string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("server url: %w", err)
	}
	switch {
	case u.Scheme == "http":
		u.Scheme = "ws"
	case u.Scheme == "https":
		u.Scheme = "wss"
	case strings.HasPrefix(u.Scheme, "ws"):
	default:
		return "", fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}
	q := u.Query()
	q.Set("canvasId", canvasID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
