package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
)

// EventsHandler serves pull-mode observers: GET /api/events returns
// the latest event of each type from the poll buffer, so clients that
// cannot hold a websocket open poll this on an interval instead.
type EventsHandler struct {
	Buffer *fanout.PollBuffer
}

// NewEventsHandler constructs an EventsHandler.
func NewEventsHandler(buf *fanout.PollBuffer) *EventsHandler {
	if buf == nil {
		panic("nil buffer passed to NewEventsHandler")
	}
	return &EventsHandler{Buffer: buf}
}

// Get handles GET /api/events.
func (h *EventsHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"success": true, "events": h.Buffer.Events()})
}
