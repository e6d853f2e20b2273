package realtime

import (
	"context"
	"log"
	"time"

	"CollabCanvas/internal/presence"
	"CollabCanvas/internal/state"
)

// SnapshotFunc fetches the durable snapshot for a canvas from the store.
type SnapshotFunc func(ctx context.Context, canvasID string) (CanvasData, error)

// Coordinator is the single authority for mapping local commits to outbound
// channel messages and inbound messages to canvas mutations. It owns the
// canvas session: element state, presence roster, channel lifecycle and the
// debounced persistence save.
type Coordinator struct {
	canvasID string
	canvas   *state.Canvas
	roster   *presence.Roster
	channel  *Channel
	fetch    SnapshotFunc
	saver    *Debouncer

	ctx    context.Context
	cancel context.CancelFunc
	joined bool // true once the first join completed; later connects resync

	// OnRedraw asks the view to repaint after any canvas mutation. Invoked
	// from the channel goroutine; the view layer is responsible for hopping
	// onto its own thread.
	OnRedraw func()
	// OnError surfaces a user-visible, dismissible failure banner.
	OnError func(message string)
	// OnConnection reports channel availability for the status indicator.
	OnConnection func(connected bool)
}

// Config assembles a Coordinator.
type Config struct {
	CanvasID     string
	Canvas       *state.Canvas
	Roster       *presence.Roster
	Channel      *Channel
	Fetch        SnapshotFunc
	SaveDebounce time.Duration
}

func NewCoordinator(cfg Config) *Coordinator {
	debounce := cfg.SaveDebounce
	if debounce <= 0 {
		debounce = DefaultSaveDebounce
	}
	return &Coordinator{
		canvasID: cfg.CanvasID,
		canvas:   cfg.Canvas,
		roster:   cfg.Roster,
		channel:  cfg.Channel,
		fetch:    cfg.Fetch,
		saver:    NewDebouncer(debounce),
	}
}

// Join enters the canvas session: hydrate from the durable snapshot, open
// the realtime channel, and start applying remote operations. Either step
// may fail without crashing the session: a failed fetch leaves an empty
// canvas, a failed channel leaves local drawing working unsynced.
func (c *Coordinator) Join(ctx context.Context) {
	c.ctx, c.cancel = context.WithCancel(ctx)

	if data, err := c.fetch(c.ctx, c.canvasID); err != nil {
		log.Printf("[sync] snapshot fetch: %v", err)
		c.reportError("Failed to load canvas")
	} else {
		c.canvas.ReplaceAll(data.Elements, data.Background)
		c.redraw()
	}

	if err := c.channel.Open(c.ctx); err != nil {
		log.Printf("[sync] channel open: %v", err)
		c.reportError("Failed to initialize realtime connection")
		c.setConnected(false)
		return
	}

	go c.loop()
}

// Close leaves the session: pending timers are discarded and the channel is
// torn down. Any in-flight snapshot fetch is abandoned via the context.
func (c *Coordinator) Close() {
	if c.cancel != nil {
		c.cancel()
	}
	c.saver.Stop()
	c.channel.Close()
}

// CommitElement applies a locally finished element and broadcasts it.
// The local mutation and render come first; the broadcast follows.
func (c *Coordinator) CommitElement(el state.Element) {
	if err := el.Validate(); err != nil {
		log.Printf("[sync] refusing commit: %v", err)
		return
	}
	if !c.canvas.Add(el) {
		return
	}
	c.redraw()
	c.send(EventDrawElement, DrawPayload{CanvasID: c.canvasID, Element: el})
	c.scheduleSave()
}

// CommitPatch applies a committed mutation (drag end, text edit) and
// broadcasts it.
func (c *Coordinator) CommitPatch(id string, p state.Patch) {
	c.canvas.Update(id, p)
	c.redraw()
	c.send(EventUpdateElement, UpdatePayload{CanvasID: c.canvasID, ElementID: id, Updates: p})
	c.scheduleSave()
}

// PreviewPatch applies a drag-in-progress position locally only.
func (c *Coordinator) PreviewPatch(id string, p state.Patch) {
	c.canvas.Update(id, p)
	c.redraw()
}

// DeleteElement removes an element and broadcasts the deletion.
func (c *Coordinator) DeleteElement(id string) {
	if !c.canvas.Remove(id) {
		return
	}
	c.redraw()
	c.send(EventDeleteElement, DeletePayload{CanvasID: c.canvasID, ElementID: id})
	c.scheduleSave()
}

// ClearAll empties the canvas for every collaborator.
func (c *Coordinator) ClearAll() {
	c.canvas.Clear()
	c.redraw()
	c.send(EventClearCanvas, JoinPayload{CanvasID: c.canvasID})
	c.scheduleSave()
}

// loop consumes the channel event stream until the session closes.
func (c *Coordinator) loop() {
	for ev := range c.channel.Events() {
		switch ev.Type {
		case EventConnected:
			c.setConnected(true)
			c.announce()
			if c.joined {
				c.resync()
			}
			c.joined = true
		case EventDisconnected:
			c.setConnected(false)
			c.roster.Clear()
		case EventOffline:
			c.setConnected(false)
			c.roster.Clear()
			c.reportError("Connection lost; changes are no longer synced")
		case EventMessage:
			c.dispatch(ev.Envelope)
		}
	}
}

// announce joins the canvas room and requests the current roster.
func (c *Coordinator) announce() {
	c.send(EventJoinCanvas, JoinPayload{CanvasID: c.canvasID})
	c.send(EventGetActiveUsers, JoinPayload{CanvasID: c.canvasID})
}

// resync refetches the authoritative snapshot after a reconnect. Operations
// missed while offline are not replayed; the last saved snapshot wins.
func (c *Coordinator) resync() {
	data, err := c.fetch(c.ctx, c.canvasID)
	if err != nil {
		log.Printf("[sync] resync fetch: %v", err)
		c.reportError("Failed to reload canvas after reconnect")
		return
	}
	c.canvas.ReplaceAll(data.Elements, data.Background)
	c.redraw()
}

func (c *Coordinator) dispatch(env *Envelope) {
	switch env.Event {
	case EventCanvasData:
		var data CanvasData
		if err := env.DecodeInto(&data); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		c.canvas.ReplaceAll(data.Elements, data.Background)
		c.redraw()

	case EventDrawElement:
		var el state.Element
		if err := env.DecodeInto(&el); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		if err := el.Validate(); err != nil {
			log.Printf("[sync] dropping remote element %s: %v", el.ID, err)
			return
		}
		if c.canvas.Add(el) {
			c.redraw()
		}

	case EventUpdateElement:
		var p UpdatePayload
		if err := env.DecodeInto(&p); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		if c.canvas.Update(p.ElementID, p.Updates) {
			c.redraw()
		}

	case EventDeleteElement:
		var p DeletePayload
		if err := env.DecodeInto(&p); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		if c.canvas.Remove(p.ElementID) {
			c.redraw()
		}

	case EventClearCanvas:
		c.canvas.Clear()
		c.redraw()

	case EventUserJoined:
		var u presence.User
		if err := env.DecodeInto(&u); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		c.roster.Join(u)

	case EventUserLeft:
		var userID string
		if err := env.DecodeInto(&userID); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		c.roster.Leave(userID)

	case EventActiveUsers:
		var users ActiveUsers
		if err := env.DecodeInto(&users); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		c.roster.ReplaceAll(users)

	case EventCanvasSaved:
		var p SavedPayload
		if err := env.DecodeInto(&p); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		if !p.Success {
			c.reportError("Failed to save canvas")
		}

	case EventError:
		var p ErrorPayload
		if err := env.DecodeInto(&p); err != nil {
			log.Printf("[sync] %v", err)
			return
		}
		c.reportError(p.Message)

	default:
		log.Printf("[sync] unknown event %q", env.Event)
	}
}

// scheduleSave debounces a full-snapshot save; rapid mutations collapse into
// one save carrying the latest elements.
func (c *Coordinator) scheduleSave() {
	c.saver.Trigger(func() {
		c.send(EventSaveCanvas, SavePayload{
			CanvasID: c.canvasID,
			Data:     CanvasData{Elements: c.canvas.Elements(), Background: c.canvas.Background()},
		})
	})
}

func (c *Coordinator) send(event string, payload any) {
	if err := c.channel.Send(event, payload); err != nil {
		log.Printf("[sync] send %s: %v", event, err)
		if event == EventSaveCanvas {
			c.reportError("Failed to save canvas")
		}
	}
}

func (c *Coordinator) redraw() {
	if c.OnRedraw != nil {
		c.OnRedraw()
	}
}

func (c *Coordinator) reportError(msg string) {
	log.Printf("[sync] %s", msg)
	if c.OnError != nil {
		c.OnError(msg)
	}
}

func (c *Coordinator) setConnected(connected bool) {
	if c.OnConnection != nil {
		c.OnConnection(connected)
	}
}
