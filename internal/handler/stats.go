package handler

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
	"github.com/jwkim/studyroom-seat-reservation/internal/model"
	"github.com/jwkim/studyroom-seat-reservation/internal/store"
)

// StatsHandler serves GET /api/stats: per-session counters plus a
// realtime occupancy summary.
type StatsHandler struct {
	Store *store.Store
	Hub   *fanout.Hub
}

// NewStatsHandler constructs a StatsHandler.
func NewStatsHandler(st *store.Store, hub *fanout.Hub) *StatsHandler {
	if st == nil || hub == nil {
		panic("nil dependency passed to NewStatsHandler")
	}
	return &StatsHandler{Store: st, Hub: hub}
}

// Get handles GET /api/stats.
func (h *StatsHandler) Get(c echo.Context) error {
	v := h.Store.Snapshot()
	rate := int(math.Round(float64(v.Occupied) / float64(model.SeatCount) * 100))
	return c.JSON(http.StatusOK, echo.Map{
		"success":        true,
		"currentSession": v.Session,
		"stats":          h.Store.Stats(),
		"realtime": echo.Map{
			"totalSeats":    model.SeatCount,
			"occupiedSeats": v.Occupied,
			"onlineUsers":   h.Hub.Count(),
			"peakOnline":    h.Hub.Peak(),
			"occupancyRate": rate,
		},
	})
}
