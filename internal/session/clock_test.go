package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 3, 10, hour, min, 0, 0, time.Local)
}

func TestCurrent(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want Session
	}{
		{"midnight", at(0, 0), Morning},
		{"late morning", at(11, 59), Morning},
		{"noon", at(12, 0), Afternoon},
		{"evening", at(19, 30), Afternoon},
		{"just before midnight", at(23, 59), Afternoon},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Current(tc.now))
		})
	}
}

func TestNextReset(t *testing.T) {
	req := require.New(t)

	// Morning rolls over at noon the same day.
	next := NextReset(at(9, 15))
	req.Equal(at(12, 0), next)

	// Afternoon rolls over at midnight the following day.
	next = NextReset(at(15, 45))
	req.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.Local), next)
}

func TestNextResetIsMonotonicAndFlipsSession(t *testing.T) {
	req := require.New(t)
	// Sample the whole day at 7-minute steps; at every instant the
	// next reset must be strictly later and land in the other session.
	for now := at(0, 0); now.Day() == 10; now = now.Add(7 * time.Minute) {
		next := NextReset(now)
		req.True(next.After(now), "next reset %s not after %s", next, now)
		req.NotEqual(Current(now), Current(next), "session did not flip at %s", now)
	}
}

func TestParse(t *testing.T) {
	req := require.New(t)

	s, err := Parse("morning")
	req.NoError(err)
	req.Equal(Morning, s)

	s, err = Parse("afternoon")
	req.NoError(err)
	req.Equal(Afternoon, s)

	_, err = Parse("evening")
	req.ErrorIs(err, ErrInvalidSession)

	_, err = Parse("Morning") // no case folding
	req.ErrorIs(err, ErrInvalidSession)
}

func TestOther(t *testing.T) {
	require.Equal(t, Afternoon, Other(Morning))
	require.Equal(t, Morning, Other(Afternoon))
}
