package fanout

import "sync"

// PollBuffer is the pull-mode observer: it retains the most recent
// event of each type so interval pollers can fetch everything that
// changed since their last visit in one request.  It holds no
// presence record and is attached to the hub once at startup.
type PollBuffer struct {
	mu     sync.RWMutex
	latest map[EventType]Event
}

// NewPollBuffer returns an empty buffer.
func NewPollBuffer() *PollBuffer {
	return &PollBuffer{latest: map[EventType]Event{}}
}

// Notify stores the event, replacing any earlier one of the same type.
func (b *PollBuffer) Notify(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest[ev.Type] = ev
}

// Events returns the retained events in a stable order.  Types that
// have never fired are absent.
func (b *PollBuffer) Events() []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	order := []EventType{OccupancyChanged, SessionChanged, MaintenanceChanged, PresenceCountChanged}
	out := make([]Event, 0, len(b.latest))
	for _, t := range order {
		if ev, ok := b.latest[t]; ok {
			out = append(out, ev)
		}
	}
	return out
}
