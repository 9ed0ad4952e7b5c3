package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
	"github.com/jwkim/studyroom-seat-reservation/internal/model"
	"github.com/jwkim/studyroom-seat-reservation/internal/queue"
	queue_publisher "github.com/jwkim/studyroom-seat-reservation/internal/service"
	"github.com/jwkim/studyroom-seat-reservation/internal/store"
)

// ReservationHandler serves the public seat endpoints.  Mutations go
// through the reservation store; on success the new snapshot is
// broadcast to all observers and a seat-activity event goes to the
// broker, both fire-and-forget after the response is built.
type ReservationHandler struct {
	Store *store.Store
	Hub   *fanout.Hub
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(st *store.Store, hub *fanout.Hub) *ReservationHandler {
	if st == nil || hub == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{Store: st, Hub: hub}
}

type reserveReq struct {
	SeatID    string `json:"seatId"`
	StudentID string `json:"studentId"`
}

type cancelReq struct {
	StudentID string `json:"studentId"`
}

// snapshotBody is the wire shape of GET /reservations and of the
// success responses of the mutation endpoints.
func snapshotBody(v store.View, online int, maintenance bool) echo.Map {
	return echo.Map{
		"success":      true,
		"session":      v.Session,
		"reservations": v.Seats,
		"nextReset":    v.NextReset,
		"stats": echo.Map{
			"totalSeats":        model.SeatCount,
			"occupiedSeats":     v.Occupied,
			"onlineUsers":       online,
			"isMaintenanceMode": maintenance,
		},
	}
}

// Get handles GET /reservations.  The view never contains student
// ids; only display names leave the server on this path.
func (h *ReservationHandler) Get(c echo.Context) error {
	v := h.Store.Snapshot()
	return c.JSON(http.StatusOK, snapshotBody(v, h.Hub.Count(), h.Store.Maintenance()))
}

// Reserve handles POST /reservations.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if req.SeatID == "" || req.StudentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "seatId and studentId are required"})
	}

	v, err := h.Store.Reserve(c.Request().Context(), req.SeatID, req.StudentID)
	if err != nil {
		return domainError(c, err)
	}

	h.afterMutation(v, "reserved", req.SeatID, req.StudentID)
	return c.JSON(http.StatusOK, snapshotBody(v, h.Hub.Count(), h.Store.Maintenance()))
}

// Cancel handles DELETE /reservations/:seatId.  The requesting
// student must own the reservation; admins release seats through
// their own endpoint with the override flag.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	seatID := c.Param("seatId")
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if req.StudentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "studentId is required"})
	}

	v, err := h.Store.Cancel(c.Request().Context(), seatID, req.StudentID, false)
	if err != nil {
		return domainError(c, err)
	}

	h.afterMutation(v, "cancelled", seatID, req.StudentID)
	return c.JSON(http.StatusOK, snapshotBody(v, h.Hub.Count(), h.Store.Maintenance()))
}

// afterMutation fans the new snapshot out to observers and publishes
// a seat-activity event.  Both are best-effort and must not delay the
// HTTP response, hence the goroutine.
func (h *ReservationHandler) afterMutation(v store.View, action, seatID, studentID string) {
	go func() {
		h.Hub.Broadcast(fanout.Event{Type: fanout.OccupancyChanged, Payload: fanout.OccupancyPayload{
			Session:      v.Session,
			Reservations: v.Seats,
			NextReset:    v.NextReset,
		}})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishSeatActivity(ctx, queue.SeatActivityEvent{
			Action:     action,
			Session:    string(v.Session),
			SeatID:     seatID,
			StudentID:  studentID,
			Occupied:   v.Occupied,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}()
}

// domainError maps store sentinels onto HTTP statuses.  Anything not
// in the table is an unexpected internal fault: logged, reported as a
// generic 500, never a raw error string to the client.
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrMaintenanceActive):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "system is under maintenance"})
	case errors.Is(err, store.ErrUnknownOccupant):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "student id is not registered"})
	case errors.Is(err, store.ErrUnknownSeat):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "unknown seat id"})
	case errors.Is(err, store.ErrSeatTaken):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "seat is already reserved"})
	case errors.Is(err, store.ErrDuplicateClaim):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "you already reserved another seat"})
	case errors.Is(err, store.ErrNoSuchReservation):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "no reservation on this seat"})
	case errors.Is(err, store.ErrNotOwner):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "only the owner can cancel this seat"})
	case errors.Is(err, store.ErrCannotCancelAssigned):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "assigned seats cannot be cancelled"})
	case errors.Is(err, store.ErrNotAssigned):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "seat has no assignment"})
	case errors.Is(err, store.ErrInvalidWindow):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid assignment date window"})
	}
	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal server error"})
}
