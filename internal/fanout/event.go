// Package fanout delivers state-change events to every connected
// observer and tracks which push connections are alive.  It offers
// best-effort delivery only: no ordering guarantee relative to the
// HTTP response that caused a mutation, no retries, no durability.
package fanout

import (
	"time"

	"github.com/jwkim/studyroom-seat-reservation/internal/session"
)

// EventType names the four broadcast kinds.
type EventType string

const (
	OccupancyChanged     EventType = "occupancy-changed"
	SessionChanged       EventType = "session-changed"
	MaintenanceChanged   EventType = "maintenance-changed"
	PresenceCountChanged EventType = "presence-count-changed"
)

// Event is one broadcast unit.  Payload is already in wire shape and
// is marshalled as-is by each observer.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// OccupancyPayload carries the name-only seat snapshot.
type OccupancyPayload struct {
	Session      session.Session   `json:"session"`
	Reservations map[string]string `json:"reservations"`
	NextReset    time.Time         `json:"nextReset"`
}

// SessionPayload announces the newly active session.
type SessionPayload struct {
	Session   session.Session `json:"session"`
	NextReset time.Time       `json:"nextReset"`
}

// MaintenancePayload carries the new maintenance flag.
type MaintenancePayload struct {
	Enabled bool `json:"enabled"`
}

// PresencePayload carries the live observer count.
type PresencePayload struct {
	Count int `json:"count"`
}

// Observer consumes events.  The hub never learns whether a concrete
// observer pushes over a persistent connection or buffers for a
// poller; both sit behind this one capability.
type Observer interface {
	Notify(Event)
}
