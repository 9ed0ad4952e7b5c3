package model

import "time"

// PresenceRecord tracks one live push connection.  Records are ephemeral
// and owned by the fan-out hub; they are never persisted.
type PresenceRecord struct {
	Name        string    // display name, "anonymous" until the client says otherwise
	ConnectedAt time.Time // when the connection registered
	LastSeen    time.Time // refreshed by heartbeats; the reaper sweeps stale entries
}
