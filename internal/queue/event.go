// Package queue defines message payloads exchanged over the message broker.
package queue

// SeatActivityEvent is published for every successful seat mutation
// (reserve, cancel, admin clear, assignment changes).  Downstream
// consumers get enough to log or feed analytics without querying the
// service.  Student ids travel on the broker, never to browsers.
type SeatActivityEvent struct {
	Action     string `json:"action"` // reserved | cancelled | cleared | assigned | unassigned
	Session    string `json:"session"`
	SeatID     string `json:"seat_id,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
	Name       string `json:"name,omitempty"`
	Occupied   int    `json:"occupied_seats"`
	OccurredAt string `json:"occurred_at"`
}
