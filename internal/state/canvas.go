package state

import (
	"log"
	"sync"
)

// Canvas is the element collection owned by one canvas session. Elements are
// kept in insertion order (stacking order) with an id index for O(1) lookup.
// The channel reader goroutine and the UI both touch it, so all access goes
// through the lock.
type Canvas struct {
	mu         sync.RWMutex
	order      []string
	byID       map[string]Element
	background string
}

func NewCanvas() *Canvas {
	return &Canvas{
		byID: make(map[string]Element),
	}
}

// Add inserts a committed element at the top of the stacking order. Adding an
// id that is already present is a no-op, so duplicate delivery of the same
// create message cannot double-insert.
func (c *Canvas) Add(el Element) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[el.ID]; exists {
		log.Printf("[state] element %s already present, ignoring", el.ID)
		return false
	}
	c.byID[el.ID] = el.Clone()
	c.order = append(c.order, el.ID)
	return true
}

// Update merges a partial patch into the element with the given id. Updates
// for unknown ids are dropped; the element may have been deleted or cleared
// concurrently on another client.
func (c *Canvas) Update(id string, p Patch) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, exists := c.byID[id]
	if !exists {
		log.Printf("[state] update for unknown element %s, ignoring", id)
		return false
	}
	c.byID[id] = p.Apply(el)
	return true
}

// Remove deletes by id. Removing an absent id is a no-op.
func (c *Canvas) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[id]; !exists {
		return false
	}
	delete(c.byID, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the canvas.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = nil
	c.byID = make(map[string]Element)
}

// ReplaceAll swaps in an authoritative snapshot, e.g. the initial hydration
// or a post-reconnect refetch. Elements that fail validation are skipped.
func (c *Canvas) ReplaceAll(elements []Element, background string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order = nil
	c.byID = make(map[string]Element, len(elements))
	c.background = background
	for _, el := range elements {
		if err := el.Validate(); err != nil {
			log.Printf("[state] dropping snapshot element %s: %v", el.ID, err)
			continue
		}
		if _, exists := c.byID[el.ID]; exists {
			continue
		}
		c.byID[el.ID] = el.Clone()
		c.order = append(c.order, el.ID)
	}
}

// Get returns a copy of the element with the given id.
func (c *Canvas) Get(id string) (Element, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	el, ok := c.byID[id]
	if !ok {
		return Element{}, false
	}
	return el.Clone(), true
}

// Elements returns a stacking-ordered copy of the collection.
func (c *Canvas) Elements() []Element {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Element, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id].Clone())
	}
	return out
}

// Len returns the number of elements.
func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Background returns the snapshot's background descriptor, if any.
func (c *Canvas) Background() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.background
}
