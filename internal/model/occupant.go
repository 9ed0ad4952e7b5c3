package model

import "time"

// SeatCount is the fixed number of seats in the room.  Seat ids are the
// decimal strings "1" through "13"; there is no seat inventory beyond
// these keys.
const SeatCount = 13

// AssignmentKind tags how an occupant record came to exist.  Ad-hoc
// reservations are self-service claims cleared on every session
// transition; assignments are created by an admin and re-applied after
// each transition.
type AssignmentKind string

const (
	KindReservation AssignmentKind = "reservation" // self-service, session-scoped
	KindAssignment  AssignmentKind = "assignment"  // admin-created, survives resets
)

// OccupantRecord is the single tagged shape stored under a seat key.
// The Kind field distinguishes ad-hoc claims from admin assignments, so
// nothing ever branches on runtime shape.
//
// StartDate and EndDate bound the validity of a dated assignment
// (inclusive, "2006-01-02" local dates).  Both are empty for ad-hoc
// reservations and for permanent assignments without a window.
type OccupantRecord struct {
	StudentID string         `json:"studentId"`
	Name      string         `json:"name"`
	Kind      AssignmentKind `json:"kind"`
	StartDate string         `json:"startDate,omitempty"`
	EndDate   string         `json:"endDate,omitempty"`
	CreatedAt time.Time      `json:"timestamp"`
}

// IsAssignment reports whether the record was placed by an admin.
func (r OccupantRecord) IsAssignment() bool { return r.Kind == KindAssignment }

// ValidSeatID reports whether id names one of the room's fixed seats.
func ValidSeatID(id string) bool {
	if len(id) == 0 || len(id) > 2 {
		return false
	}
	n := 0
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
		n = n*10 + int(id[i]-'0')
	}
	// "01" style keys are not canonical seat ids
	if id[0] == '0' {
		return false
	}
	return n >= 1 && n <= SeatCount
}
