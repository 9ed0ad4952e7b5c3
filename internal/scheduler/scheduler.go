// Package scheduler runs the two background loops of the service:
// the session-transition timer and the presence reaper.  Both take
// the same locks as foreground requests when touching shared state,
// and a failed tick is logged and retried on the next interval rather
// than crashing the process.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
	"github.com/jwkim/studyroom-seat-reservation/internal/session"
	"github.com/jwkim/studyroom-seat-reservation/internal/store"
)

// ReapInterval is how often the presence reaper sweeps.
const ReapInterval = 5 * time.Minute

// SessionTimer sleeps until the next session boundary, then resets
// the store and broadcasts the change.
type SessionTimer struct {
	Store *store.Store
	Hub   *fanout.Hub
	now   func() time.Time
}

// NewSessionTimer constructs a SessionTimer on the real clock.
func NewSessionTimer(st *store.Store, hub *fanout.Hub) *SessionTimer {
	return &SessionTimer{Store: st, Hub: hub, now: time.Now}
}

// Run blocks until ctx is cancelled, firing one transition per
// session boundary.  The extra second past the boundary keeps a
// marginally early timer from re-arming for the same instant.
func (t *SessionTimer) Run(ctx context.Context) error {
	for {
		wait := time.Until(session.NextReset(t.now())) + time.Second
		if wait < time.Second {
			wait = time.Second
		}
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
			t.tick()
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}

// tick performs one transition.  A panic in the store or hub is
// contained here so the loop re-arms for the next boundary.
func (t *SessionTimer) tick() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("scheduler: session transition panicked: %v", r)
		}
	}()
	v := t.Store.ResetOnTransition()
	log.Printf("scheduler: session transitioned to %s, next reset %s", v.Session, v.NextReset.Format(time.RFC3339))
	t.Hub.Broadcast(fanout.Event{Type: fanout.SessionChanged, Payload: fanout.SessionPayload{
		Session:   v.Session,
		NextReset: v.NextReset,
	}})
	t.Hub.Broadcast(fanout.Event{Type: fanout.OccupancyChanged, Payload: fanout.OccupancyPayload{
		Session:      v.Session,
		Reservations: v.Seats,
		NextReset:    v.NextReset,
	}})
}

// PresenceReaper periodically sweeps push connections that stopped
// heartbeating.
type PresenceReaper struct {
	Hub      *fanout.Hub
	Interval time.Duration
}

// NewPresenceReaper constructs a reaper on the default interval.
func NewPresenceReaper(hub *fanout.Hub) *PresenceReaper {
	return &PresenceReaper{Hub: hub, Interval: ReapInterval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (r *PresenceReaper) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.tick()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (r *PresenceReaper) tick() {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("scheduler: presence reap panicked: %v", rec)
		}
	}()
	r.Hub.Reap(fanout.StaleAfter)
}
