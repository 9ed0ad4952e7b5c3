package session // package session derives the active room session from wall-clock time

import (
	"errors"
	"time"
)

// Session names one of the two daily occupancy windows.  Each session
// holds an independent seat map in the reservation store.
type Session string

const (
	Morning   Session = "morning"   // 00:00–11:59
	Afternoon Session = "afternoon" // 12:00–23:59
)

// ErrInvalidSession is returned by Parse for any name other than
// "morning" or "afternoon".  Handlers translate it into HTTP 400.
var ErrInvalidSession = errors.New("invalid session name")

// Current returns the session active at the given instant.  Hours in
// [0,12) belong to the morning session, [12,24) to the afternoon.  The
// function is pure and total; it never fails.
func Current(now time.Time) Session {
	if now.Hour() < 12 {
		return Morning
	}
	return Afternoon
}

// NextReset returns the instant of the next session transition after
// now: same-day 12:00:00 while the morning session is active, next-day
// 00:00:00 during the afternoon.  For any now, NextReset(now) is
// strictly later than now and Current evaluated there differs from
// Current(now).
func NextReset(now time.Time) time.Time {
	y, m, d := now.Date()
	if now.Hour() < 12 {
		return time.Date(y, m, d, 12, 0, 0, 0, now.Location())
	}
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

// Other returns the session that is not s.
func Other(s Session) Session {
	if s == Morning {
		return Afternoon
	}
	return Morning
}

// Parse validates a session name supplied by an admin request.
func Parse(raw string) (Session, error) {
	switch Session(raw) {
	case Morning:
		return Morning, nil
	case Afternoon:
		return Afternoon, nil
	}
	return "", ErrInvalidSession
}
