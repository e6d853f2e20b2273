// Package presence tracks which collaborators are currently connected to a
// canvas. It only feeds the side panel; nothing on the canvas depends on it.
package presence

import "sync"

// User is one connected collaborator.
type User struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Roster is the set of connected users, keyed by user id, last-write-wins
// per id. Join order is kept for stable display; re-joining keeps the slot.
type Roster struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]User

	// OnChange is invoked with a snapshot after every mutation.
	OnChange func(users []User)
}

func NewRoster() *Roster {
	return &Roster{byID: make(map[string]User)}
}

// Join upserts a user. A stale entry with the same id is replaced, never
// duplicated.
func (r *Roster) Join(u User) {
	r.mu.Lock()
	if _, exists := r.byID[u.UserID]; !exists {
		r.order = append(r.order, u.UserID)
	}
	r.byID[u.UserID] = u
	r.mu.Unlock()
	r.changed()
}

// Leave removes a user. Unknown ids are ignored.
func (r *Roster) Leave(userID string) {
	r.mu.Lock()
	if _, exists := r.byID[userID]; exists {
		delete(r.byID, userID)
		for i, id := range r.order {
			if id == userID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
	}
	r.mu.Unlock()
	r.changed()
}

// ReplaceAll swaps in an authoritative roster, superseding any incremental
// state accumulated so far.
func (r *Roster) ReplaceAll(users []User) {
	r.mu.Lock()
	r.order = nil
	r.byID = make(map[string]User, len(users))
	for _, u := range users {
		if _, exists := r.byID[u.UserID]; !exists {
			r.order = append(r.order, u.UserID)
		}
		r.byID[u.UserID] = u
	}
	r.mu.Unlock()
	r.changed()
}

// Clear empties the roster, e.g. on disconnect.
func (r *Roster) Clear() {
	r.mu.Lock()
	r.order = nil
	r.byID = make(map[string]User)
	r.mu.Unlock()
	r.changed()
}

// List returns the users in join order.
func (r *Roster) List() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Len returns the number of connected users.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Roster) changed() {
	if r.OnChange != nil {
		r.OnChange(r.List())
	}
}
