package model

import "time"

// Student mirrors the 'students' table.  Students are the only people
// allowed to claim a seat; a reservation request is rejected when the
// submitted student id is not present in this registry.
//
// Fields:
//  ID        – primary key identifier.
//  StudentID – external student number, unique, used as the opaque
//              occupant id throughout the system.
//  Name      – display name shown on seat snapshots.
//  CreatedAt – creation timestamp.
type Student struct {
	ID        uint64    `json:"id"`        // students.id
	StudentID string    `json:"studentId"` // students.student_id
	Name      string    `json:"name"`      // students.name
	CreatedAt time.Time `json:"createdAt"` // students.created_at
}
