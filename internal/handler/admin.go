package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jwkim/studyroom-seat-reservation/internal/config"
	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
	"github.com/jwkim/studyroom-seat-reservation/internal/model"
	"github.com/jwkim/studyroom-seat-reservation/internal/session"
	"github.com/jwkim/studyroom-seat-reservation/internal/store"
	"github.com/jwkim/studyroom-seat-reservation/internal/utils"
)

// AdminHandler implements the control plane.  Every privileged
// mutation routes through the same store operations as the public
// surface; the only extra capabilities are the clear/assign/unassign
// entry points, the cancel override and the maintenance toggle.
type AdminHandler struct {
	Cfg          config.Config
	Store        *store.Store
	Hub          *fanout.Hub
	PasswordHash string    // bcrypt hash of the shared admin secret
	StartedAt    time.Time // for the status endpoint's uptime field
}

// NewAdminHandler hashes the configured admin password once and
// constructs the handler.  The plaintext secret is not retained.
func NewAdminHandler(cfg config.Config, st *store.Store, hub *fanout.Hub) (*AdminHandler, error) {
	if st == nil || hub == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	cfg.AdminPassword = ""
	return &AdminHandler{
		Cfg:          cfg,
		Store:        st,
		Hub:          hub,
		PasswordHash: hash,
		StartedAt:    time.Now(),
	}, nil
}

type loginReq struct {
	Password string `json:"password"`
}

type assignReq struct {
	SeatID      string `json:"seatId"`
	StudentName string `json:"studentName"`
	StudentID   string `json:"studentId"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsPermanent bool   `json:"isPermanent"`
}

type resetSessionReq struct {
	Session string `json:"session"`
}

// Login handles POST /api/admin/login.  Success mints a short-lived
// admin token; failure is binary with no lockout logic here (rate
// limiting lives in the middleware layer).
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "password is required"})
	}
	if !utils.VerifyPassword(h.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "wrong password"})
	}
	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"token":   tok.Token,
		"expires": tok.Exp,
	})
}

// Reservations handles GET /api/admin/reservations: the privileged
// snapshot including student ids, timestamps and assignment kinds.
func (h *AdminHandler) Reservations(c echo.Context) error {
	v := h.Store.AdminSnapshot()
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"session":      v.Session,
		"reservations": v.Seats,
		"nextReset":    v.NextReset,
		"stats": echo.Map{
			"totalSeats":        model.SeatCount,
			"occupiedSeats":     len(v.Seats),
			"onlineUsers":       h.Hub.Count(),
			"isMaintenanceMode": h.Store.Maintenance(),
		},
	})
}

// ClearReservations handles DELETE /api/admin/reservations: all
// ad-hoc records of the active session are dropped, assignments stay.
// Clearing an already-empty session broadcasts nothing.
func (h *AdminHandler) ClearReservations(c echo.Context) error {
	v, removed := h.Store.ClearSession()
	if removed > 0 {
		h.broadcastOccupancy(v)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "all reservations cleared", "reservations": v.Seats})
}

// CancelSeat handles DELETE /api/admin/reservations/:seatId: release
// a single seat with the ownership check bypassed.  Assigned seats
// still refuse this path.
func (h *AdminHandler) CancelSeat(c echo.Context) error {
	seatID := c.Param("seatId")
	v, err := h.Store.Cancel(c.Request().Context(), seatID, "", true)
	if err != nil {
		return domainError(c, err)
	}
	h.broadcastOccupancy(v)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reservations": v.Seats})
}

// Maintenance handles POST /api/admin/maintenance: toggles the flag
// and announces the new state to every observer.
func (h *AdminHandler) Maintenance(c echo.Context) error {
	enabled := h.Store.ToggleMaintenance()
	go h.Hub.Broadcast(fanout.Event{Type: fanout.MaintenanceChanged, Payload: fanout.MaintenancePayload{Enabled: enabled}})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "maintenanceMode": enabled})
}

// ResetSession handles POST /api/admin/reset-session: overrides the
// session clock for testing/ops.  The named session becomes active
// with its ad-hoc records cleared and assignments reseeded, until the
// next natural transition.
func (h *AdminHandler) ResetSession(c echo.Context) error {
	var req resetSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	target, err := session.Parse(req.Session)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid session name"})
	}
	v := h.Store.ForceSession(target)
	go h.Hub.Broadcast(fanout.Event{Type: fanout.SessionChanged, Payload: fanout.SessionPayload{
		Session:   v.Session,
		NextReset: v.NextReset,
	}})
	h.broadcastOccupancy(v)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "session": v.Session})
}

// AssignSeat handles POST /api/admin/assign-seat.  Overwrites
// whatever currently sits on the seat; an admin may assign several
// seats to the same person.
func (h *AdminHandler) AssignSeat(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if req.SeatID == "" || req.StudentName == "" || req.StudentID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "seatId, studentName and studentId are required"})
	}
	v, err := h.Store.Assign(req.SeatID, req.StudentName, req.StudentID, req.StartDate, req.EndDate, req.IsPermanent)
	if err != nil {
		return domainError(c, err)
	}
	h.broadcastOccupancy(v)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reservations": v.Seats})
}

// UnassignSeat handles DELETE /api/admin/assign-seat/:seatId.
func (h *AdminHandler) UnassignSeat(c echo.Context) error {
	seatID := c.Param("seatId")
	v, err := h.Store.Unassign(seatID)
	if err != nil {
		return domainError(c, err)
	}
	h.broadcastOccupancy(v)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reservations": v.Seats})
}

// Status handles GET /api/admin/status.
func (h *AdminHandler) Status(c echo.Context) error {
	v := h.Store.Snapshot()
	return c.JSON(http.StatusOK, echo.Map{
		"success":           true,
		"session":           v.Session,
		"maintenanceMode":   h.Store.Maintenance(),
		"onlineUsers":       h.Hub.Count(),
		"totalReservations": v.Occupied,
		"serverStartTime":   h.StartedAt,
		"uptime":            time.Since(h.StartedAt).Milliseconds(),
	})
}

func (h *AdminHandler) broadcastOccupancy(v store.View) {
	go h.Hub.Broadcast(fanout.Event{Type: fanout.OccupancyChanged, Payload: fanout.OccupancyPayload{
		Session:      v.Session,
		Reservations: v.Seats,
		NextReset:    v.NextReset,
	}})
}
