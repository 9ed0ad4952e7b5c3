// Package store owns the in-memory, session-scoped seat reservation
// state.  The sentinel values below are the only failure kinds the
// store surfaces; handlers translate each one into a specific HTTP
// status, so callers never see raw internal errors from this package
// unless something genuinely unexpected happened (those are wrapped
// and mapped to 500 at the boundary).
package store

import "errors"

// ErrMaintenanceActive is returned when the process-wide maintenance
// flag is set and a non-admin mutation is attempted.  HTTP 403.
var ErrMaintenanceActive = errors.New("maintenance mode active")

// ErrUnknownOccupant is returned when the submitted student id is not
// present in the registry.  HTTP 400.
var ErrUnknownOccupant = errors.New("unknown student id")

// ErrUnknownSeat is returned for seat ids outside the room's fixed
// "1".."13" range.  HTTP 400.
var ErrUnknownSeat = errors.New("unknown seat id")

// ErrSeatTaken is returned when the seat already holds a record in the
// active session.  HTTP 409.
var ErrSeatTaken = errors.New("seat already reserved")

// ErrDuplicateClaim is returned when the occupant already holds an
// ad-hoc reservation in the active session.  HTTP 409.
var ErrDuplicateClaim = errors.New("student already holds a seat")

// ErrNoSuchReservation is returned when cancelling an empty seat.
// HTTP 404.
var ErrNoSuchReservation = errors.New("no reservation on seat")

// ErrNotOwner is returned when the cancelling student does not match
// the recorded occupant and the call is not an admin override.
// HTTP 403.
var ErrNotOwner = errors.New("reservation owned by someone else")

// ErrCannotCancelAssigned is returned when a cancel targets an
// admin-assigned seat.  Assigned seats are released only through
// Unassign, override or not.  HTTP 403.
var ErrCannotCancelAssigned = errors.New("assigned seat cannot be cancelled")

// ErrNotAssigned is returned by Unassign when the seat holds no
// assignment record.  HTTP 404.
var ErrNotAssigned = errors.New("seat has no assignment")

// ErrInvalidWindow is returned by Assign when a bounded validity
// window has its start after its end, or a date that is not in the
// "2006-01-02" form.  HTTP 400.
var ErrInvalidWindow = errors.New("invalid assignment window")
