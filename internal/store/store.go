package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jwkim/studyroom-seat-reservation/internal/model"
	"github.com/jwkim/studyroom-seat-reservation/internal/session"
)

// Registry resolves an occupant id to a display name.  The student
// repository implements it; tests substitute a map-backed fake.  The
// ok result distinguishes "not registered" from an infrastructure
// failure.
type Registry interface {
	LookupName(ctx context.Context, studentID string) (name string, ok bool, err error)
}

// SessionStats accumulates per-session counters for the stats
// endpoint.  Reservations counts successful reserves since the last
// reset; PeakOccupancy is the highest simultaneous seat count seen.
type SessionStats struct {
	Reservations  int `json:"totalReservations"`
	PeakOccupancy int `json:"peakOccupancy"`
}

// View is the privacy-preserving snapshot served to non-admin
// consumers: seat id to display name only, never student ids.
type View struct {
	Session   session.Session   `json:"session"`
	Seats     map[string]string `json:"reservations"`
	NextReset time.Time         `json:"nextReset"`
	Occupied  int               `json:"occupiedSeats"`
}

// AdminView is the privileged snapshot including full occupant
// records (student id, timestamp, assignment kind).
type AdminView struct {
	Session   session.Session                 `json:"session"`
	Seats     map[string]model.OccupantRecord `json:"reservations"`
	NextReset time.Time                       `json:"nextReset"`
}

// Store is the single owner of session seat state.  All mutations are
// serialized under one mutex so that check-then-insert sequences
// (seat empty, no duplicate claim, insert) are atomic; snapshots are
// copy-on-read under the read lock.  The active session is resolved
// from the wall clock at the start of each call and is authoritative
// for that call, even if a transition fires mid-request.
type Store struct {
	registry Registry
	now      func() time.Time

	mu          sync.RWMutex
	sessions    map[session.Session]map[string]model.OccupantRecord
	assignments map[string]model.OccupantRecord // standing seat assignments, reseeded on reset
	maintenance bool
	forced      session.Session // admin clock override; empty when following the wall clock
	stats       map[session.Session]*SessionStats
}

// New returns an empty store following the real wall clock.  Both
// session maps start empty and maintenance starts disabled.
func New(registry Registry) *Store {
	return NewWithClock(registry, time.Now)
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(registry Registry, now func() time.Time) *Store {
	return &Store{
		registry: registry,
		now:      now,
		sessions: map[session.Session]map[string]model.OccupantRecord{
			session.Morning:   {},
			session.Afternoon: {},
		},
		assignments: map[string]model.OccupantRecord{},
		stats: map[session.Session]*SessionStats{
			session.Morning:   {},
			session.Afternoon: {},
		},
	}
}

// active resolves the session the current call operates on.  Callers
// must hold at least the read lock.
func (s *Store) active(now time.Time) session.Session {
	if s.forced != "" {
		return s.forced
	}
	return session.Current(now)
}

// ActiveSession reports the session mutations currently target.
func (s *Store) ActiveSession() session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active(s.now())
}

// Reserve claims a seat for a registered student in the active
// session.  Checks run in a fixed order: maintenance flag, seat id,
// registry membership, seat occupancy, duplicate claim.  On success
// the updated name-only view is returned.
func (s *Store) Reserve(ctx context.Context, seatID, studentID string) (View, error) {
	s.mu.RLock()
	blocked := s.maintenance
	s.mu.RUnlock()
	if blocked {
		return View{}, ErrMaintenanceActive
	}
	if !model.ValidSeatID(seatID) {
		return View{}, ErrUnknownSeat
	}

	// Registry lookup happens outside the write lock; it is the only
	// I/O on this path.
	name, ok, err := s.registry.LookupName(ctx, studentID)
	if err != nil {
		return View{}, fmt.Errorf("registry lookup: %w", err)
	}
	if !ok {
		return View{}, ErrUnknownOccupant
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maintenance {
		return View{}, ErrMaintenanceActive
	}
	now := s.now()
	active := s.active(now)
	seats := s.sessions[active]

	if _, taken := seats[seatID]; taken {
		return View{}, ErrSeatTaken
	}
	for _, rec := range seats {
		if rec.Kind == model.KindReservation && rec.StudentID == studentID {
			return View{}, ErrDuplicateClaim
		}
	}

	seats[seatID] = model.OccupantRecord{
		StudentID: studentID,
		Name:      name,
		Kind:      model.KindReservation,
		CreatedAt: now,
	}

	st := s.stats[active]
	st.Reservations++
	if len(seats) > st.PeakOccupancy {
		st.PeakOccupancy = len(seats)
	}
	return s.viewLocked(active, now), nil
}

// Cancel releases a seat in the active session.  Ownership is
// enforced unless override is set (admin path); assigned seats are
// never cancellable here, override or not.  With override the
// maintenance flag and registry check are bypassed as well.
func (s *Store) Cancel(ctx context.Context, seatID, studentID string, override bool) (View, error) {
	if !override {
		s.mu.RLock()
		blocked := s.maintenance
		s.mu.RUnlock()
		if blocked {
			return View{}, ErrMaintenanceActive
		}
	}
	if !model.ValidSeatID(seatID) {
		return View{}, ErrUnknownSeat
	}
	if !override {
		_, ok, err := s.registry.LookupName(ctx, studentID)
		if err != nil {
			return View{}, fmt.Errorf("registry lookup: %w", err)
		}
		if !ok {
			return View{}, ErrUnknownOccupant
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	active := s.active(now)
	seats := s.sessions[active]

	rec, exists := seats[seatID]
	if !exists {
		return View{}, ErrNoSuchReservation
	}
	if rec.IsAssignment() {
		return View{}, ErrCannotCancelAssigned
	}
	if !override && rec.StudentID != studentID {
		return View{}, ErrNotOwner
	}

	delete(seats, seatID)
	return s.viewLocked(active, now), nil
}

// ClearSession empties all ad-hoc records of the active session.
// Assignment records stay in place.  The second result is the number
// of records removed, so callers can skip announcing a no-op.  Admin
// only.
func (s *Store) ClearSession() (View, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	active := s.active(now)
	seats := s.sessions[active]
	removed := 0
	for seat, rec := range seats {
		if !rec.IsAssignment() {
			delete(seats, seat)
			removed++
		}
	}
	return s.viewLocked(active, now), removed
}

// ResetOnTransition is invoked by the scheduler when the session
// clock reports a transition.  It drops any admin clock override,
// clears ad-hoc records of the newly active session (defensive; the
// map should already be empty) and re-materializes standing
// assignments valid today.  The new session's stats start over.
func (s *Store) ResetOnTransition() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = ""
	now := s.now()
	active := session.Current(now)
	s.reseedLocked(active, now)
	s.stats[active] = &SessionStats{}
	return s.viewLocked(active, now)
}

// ForceSession overrides the session clock for testing/ops: the named
// session becomes active regardless of wall clock until the next
// natural transition, with its ad-hoc records cleared and assignments
// reseeded.  Admin only.
func (s *Store) ForceSession(target session.Session) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = target
	now := s.now()
	s.reseedLocked(target, now)
	s.stats[target] = &SessionStats{}
	return s.viewLocked(target, now)
}

// reseedLocked rebuilds a session map from the standing assignments.
func (s *Store) reseedLocked(target session.Session, now time.Time) {
	seats := map[string]model.OccupantRecord{}
	for seat, rec := range s.assignments {
		if assignmentCovers(rec, now) {
			rec.CreatedAt = now
			seats[seat] = rec
		}
	}
	s.sessions[target] = seats
}

// assignmentCovers reports whether a standing assignment applies on
// the day of now.  Unbounded assignments always apply; a dated window
// is inclusive on both ends.
func assignmentCovers(rec model.OccupantRecord, now time.Time) bool {
	if rec.StartDate == "" && rec.EndDate == "" {
		return true
	}
	today := now.Format("2006-01-02")
	if rec.StartDate != "" && today < rec.StartDate {
		return false
	}
	if rec.EndDate != "" && today > rec.EndDate {
		return false
	}
	return true
}

// Assign inserts or overwrites a seat assignment.  The uniqueness-
// per-occupant check does not apply: an admin may assign several
// seats to one person.  An empty window means a permanent
// assignment; a bounded window must use "2006-01-02" dates and must
// not start after it ends.  The
// assignment is materialized into the active session immediately when
// its window covers today.
func (s *Store) Assign(seatID, name, studentID, startDate, endDate string, permanent bool) (View, error) {
	if !model.ValidSeatID(seatID) {
		return View{}, ErrUnknownSeat
	}
	if permanent {
		// the window is meaningless on a permanent assignment
		startDate, endDate = "", ""
	}
	for _, d := range []string{startDate, endDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return View{}, ErrInvalidWindow
		}
	}
	if startDate != "" && endDate != "" && startDate > endDate {
		return View{}, ErrInvalidWindow
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	active := s.active(now)
	rec := model.OccupantRecord{
		StudentID: studentID,
		Name:      name,
		Kind:      model.KindAssignment,
		StartDate: startDate,
		EndDate:   endDate,
		CreatedAt: now,
	}
	s.assignments[seatID] = rec
	if assignmentCovers(rec, now) {
		s.sessions[active][seatID] = rec
	}
	return s.viewLocked(active, now), nil
}

// Unassign removes a seat's standing assignment and its materialized
// record in both sessions.  Ad-hoc reservations are untouched.
func (s *Store) Unassign(seatID string) (View, error) {
	if !model.ValidSeatID(seatID) {
		return View{}, ErrUnknownSeat
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[seatID]; !ok {
		return View{}, ErrNotAssigned
	}
	delete(s.assignments, seatID)
	for _, seats := range s.sessions {
		if rec, ok := seats[seatID]; ok && rec.IsAssignment() {
			delete(seats, seatID)
		}
	}
	now := s.now()
	return s.viewLocked(s.active(now), now), nil
}

// SetMaintenance toggles the process-wide maintenance flag and
// returns the new state.
func (s *Store) SetMaintenance(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = on
	return s.maintenance
}

// ToggleMaintenance flips the maintenance flag and returns the new state.
func (s *Store) ToggleMaintenance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance = !s.maintenance
	return s.maintenance
}

// Maintenance reports the current flag.
func (s *Store) Maintenance() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maintenance
}

// Snapshot returns the name-only view of the active session.
func (s *Store) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	return s.viewLocked(s.active(now), now)
}

// AdminSnapshot returns the privileged view including student ids,
// timestamps and assignment kinds.
func (s *Store) AdminSnapshot() AdminView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	active := s.active(now)
	seats := make(map[string]model.OccupantRecord, len(s.sessions[active]))
	for seat, rec := range s.sessions[active] {
		seats[seat] = rec
	}
	return AdminView{Session: active, Seats: seats, NextReset: session.NextReset(now)}
}

// Stats returns a copy of both sessions' counters.
func (s *Store) Stats() map[session.Session]SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[session.Session]SessionStats, len(s.stats))
	for sess, st := range s.stats {
		out[sess] = *st
	}
	return out
}

// viewLocked builds a name-only view.  Callers hold a lock.
func (s *Store) viewLocked(active session.Session, now time.Time) View {
	seats := make(map[string]string, len(s.sessions[active]))
	for seat, rec := range s.sessions[active] {
		seats[seat] = rec.Name
	}
	return View{
		Session:   active,
		Seats:     seats,
		NextReset: session.NextReset(now),
		Occupied:  len(seats),
	}
}
