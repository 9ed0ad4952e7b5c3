package fanout

import (
	"log"
	"sync"
	"time"

	"github.com/jwkim/studyroom-seat-reservation/internal/model"
)

// StaleAfter is how long a push connection may stay silent before the
// reaper removes its presence record.
const StaleAfter = 5 * time.Minute

// Hub is the single owner of presence records and the observer set.
// It is safe for concurrent use; Broadcast never blocks on a slow
// observer because concrete observers either buffer or drop.
type Hub struct {
	mu        sync.RWMutex
	observers map[string]Observer
	presence  map[string]model.PresenceRecord
	peak      int
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		observers: map[string]Observer{},
		presence:  map[string]model.PresenceRecord{},
	}
}

// Attach adds an observer without a presence record.  Pull-mode
// buffers attach this way so they receive every event without
// counting as an online user.
func (h *Hub) Attach(id string, obs Observer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.observers[id] = obs
}

// Register adds a push observer under a connection id and records its
// presence.  The updated observer count is broadcast to everyone,
// including the newcomer.
func (h *Hub) Register(id, name string, obs Observer) {
	now := time.Now()
	h.mu.Lock()
	h.observers[id] = obs
	h.presence[id] = model.PresenceRecord{Name: name, ConnectedAt: now, LastSeen: now}
	if len(h.presence) > h.peak {
		h.peak = len(h.presence)
	}
	count := len(h.presence)
	h.mu.Unlock()
	h.Broadcast(Event{Type: PresenceCountChanged, Payload: PresencePayload{Count: count}})
}

// Unregister drops an observer and its presence record, then
// re-broadcasts the count.  Unknown ids are a no-op.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	_, known := h.observers[id]
	delete(h.observers, id)
	delete(h.presence, id)
	count := len(h.presence)
	h.mu.Unlock()
	if known {
		h.Broadcast(Event{Type: PresenceCountChanged, Payload: PresencePayload{Count: count}})
	}
}

// Heartbeat refreshes the last-seen timestamp of a connection.
func (h *Hub) Heartbeat(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, ok := h.presence[id]; ok {
		rec.LastSeen = time.Now()
		h.presence[id] = rec
	}
}

// Rename updates the display name on a presence record.
func (h *Hub) Rename(id, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if rec, ok := h.presence[id]; ok {
		rec.Name = name
		rec.LastSeen = time.Now()
		h.presence[id] = rec
	}
}

// Count reports the number of live presence records.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.presence)
}

// Peak reports the highest simultaneous observer count seen.
func (h *Hub) Peak() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.peak
}

// Broadcast fans an event out to every registered observer.  Delivery
// is fire-and-forget; a failing observer is the observer's problem.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	targets := make([]Observer, 0, len(h.observers))
	for _, obs := range h.observers {
		targets = append(targets, obs)
	}
	h.mu.RUnlock()
	for _, obs := range targets {
		obs.Notify(ev)
	}
}

// Reap removes presence records whose last-seen timestamp is older
// than the threshold and re-broadcasts the observer count when
// anything was dropped.  Only presence is swept: the observer stays
// attached, so a connection that merely missed heartbeats (a throttled
// background tab, say) keeps receiving events until its socket
// actually closes and Unregister runs.  It returns the number of
// reaped records.
func (h *Hub) Reap(threshold time.Duration) int {
	cutoff := time.Now().Add(-threshold)
	h.mu.Lock()
	reaped := 0
	for id, rec := range h.presence {
		if rec.LastSeen.Before(cutoff) {
			delete(h.presence, id)
			reaped++
		}
	}
	count := len(h.presence)
	h.mu.Unlock()
	if reaped > 0 {
		log.Printf("fanout: reaped %d stale connection(s), %d remain", reaped, count)
		h.Broadcast(Event{Type: PresenceCountChanged, Payload: PresencePayload{Count: count}})
	}
	return reaped
}
