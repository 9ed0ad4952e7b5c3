package fanout

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// recorder is a test observer collecting everything it was notified of.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Notify(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) byType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func TestRegisterBroadcastsPresenceCount(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	a, b := &recorder{}, &recorder{}

	hub.Register("conn-a", "Kim", a)
	hub.Register("conn-b", "Lee", b)

	req.Equal(2, hub.Count())
	req.Equal(2, hub.Peak())

	// the second registration reached both observers
	got := a.byType(PresenceCountChanged)
	req.NotEmpty(got)
	req.Equal(PresencePayload{Count: 2}, got[len(got)-1].Payload)
}

func TestBroadcastReachesAllObservers(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	a, b := &recorder{}, &recorder{}
	hub.Register("conn-a", "Kim", a)
	hub.Register("conn-b", "Lee", b)

	hub.Broadcast(Event{Type: MaintenanceChanged, Payload: MaintenancePayload{Enabled: true}})

	for _, r := range []*recorder{a, b} {
		got := r.byType(MaintenanceChanged)
		req.Len(got, 1)
		req.Equal(MaintenancePayload{Enabled: true}, got[0].Payload)
	}
}

func TestUnregisterUnknownIsNoop(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	a := &recorder{}
	hub.Register("conn-a", "Kim", a)
	before := len(a.byType(PresenceCountChanged))

	hub.Unregister("never-registered")

	// no event, no count change
	req.Equal(before, len(a.byType(PresenceCountChanged)))
	req.Equal(1, hub.Count())
}

func TestReapSweepsStaleConnections(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	stale, fresh := &recorder{}, &recorder{}
	hub.Register("conn-stale", "Kim", stale)
	hub.Register("conn-fresh", "Lee", fresh)

	// age the stale connection past the threshold, keep the fresh
	// one alive via heartbeat
	time.Sleep(15 * time.Millisecond)
	hub.Heartbeat("conn-fresh")

	reaped := hub.Reap(10 * time.Millisecond)
	req.Equal(1, reaped)
	req.Equal(1, hub.Count())

	// the survivor was told about the new count
	got := fresh.byType(PresenceCountChanged)
	req.NotEmpty(got)
	req.Equal(PresencePayload{Count: 1}, got[len(got)-1].Payload)

	// reaping drops the presence record only; while the socket stays
	// open the connection keeps receiving broadcasts, and a later
	// heartbeat is simply ignored rather than resurrecting the record
	hub.Broadcast(Event{Type: MaintenanceChanged, Payload: MaintenancePayload{Enabled: true}})
	req.NotEmpty(stale.byType(MaintenanceChanged))
	hub.Heartbeat("conn-stale")
	req.Equal(1, hub.Count())
}

func TestReapNothingBroadcastsNothing(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	a := &recorder{}
	hub.Register("conn-a", "Kim", a)
	before := len(a.byType(PresenceCountChanged))

	req.Equal(0, hub.Reap(time.Hour))
	req.Equal(before, len(a.byType(PresenceCountChanged)))
}

func TestAttachedObserverHasNoPresence(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	buf := NewPollBuffer()
	hub.Attach("poll-buffer", buf)

	req.Equal(0, hub.Count(), "attached observers are not online users")

	hub.Broadcast(Event{Type: SessionChanged, Payload: SessionPayload{}})
	req.Len(buf.Events(), 1)
}

func TestPollBufferKeepsLatestPerType(t *testing.T) {
	req := require.New(t)
	buf := NewPollBuffer()

	buf.Notify(Event{Type: PresenceCountChanged, Payload: PresencePayload{Count: 1}})
	buf.Notify(Event{Type: PresenceCountChanged, Payload: PresencePayload{Count: 3}})
	buf.Notify(Event{Type: MaintenanceChanged, Payload: MaintenancePayload{Enabled: true}})

	events := buf.Events()
	req.Len(events, 2)
	// stable order: maintenance before presence
	req.Equal(MaintenanceChanged, events[0].Type)
	req.Equal(PresencePayload{Count: 3}, events[1].Payload)
}

func TestRename(t *testing.T) {
	hub := NewHub()
	hub.Register("conn-a", "anonymous", &recorder{})
	hub.Rename("conn-a", "Kim")
	// renaming an unknown id must not panic
	hub.Rename("ghost", "Lee")
}
