package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/jwkim/studyroom-seat-reservation/internal/config"
	"github.com/jwkim/studyroom-seat-reservation/internal/fanout"
	"github.com/jwkim/studyroom-seat-reservation/internal/middleware"
	"github.com/jwkim/studyroom-seat-reservation/internal/store"
)

func newAdminHandler(t *testing.T, st *store.Store) *AdminHandler {
	t.Helper()
	return newAdminHandlerWithHub(t, st, fanout.NewHub())
}

func newAdminHandlerWithHub(t *testing.T, st *store.Store, hub *fanout.Hub) *AdminHandler {
	t.Helper()
	cfg := config.Config{
		AdminPassword: "secret",
		JWTSecret:     "test-signing-secret",
		AccessTTLMin:  5,
		BcryptCost:    4,
	}
	h, err := NewAdminHandler(cfg, st, hub)
	require.NoError(t, err)
	return h
}

func TestAdminLogin(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	h := newAdminHandler(t, newTestStore())

	c, rec := jsonCtx(e, http.MethodPost, "/api/admin/login", `{"password":"secret"}`)
	req.NoError(h.Login(c))
	req.Equal(http.StatusOK, rec.Code)
	body := decode(t, rec)
	req.Equal(true, body["success"])
	req.NotEmpty(body["token"])

	c, rec = jsonCtx(e, http.MethodPost, "/api/admin/login", `{"password":"nope"}`)
	req.NoError(h.Login(c))
	req.Equal(http.StatusUnauthorized, rec.Code)

	c, rec = jsonCtx(e, http.MethodPost, "/api/admin/login", `{}`)
	req.NoError(h.Login(c))
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestAdminTokenPassesAuthGate(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	h := newAdminHandler(t, newTestStore())

	c, rec := jsonCtx(e, http.MethodPost, "/api/admin/login", `{"password":"secret"}`)
	req.NoError(h.Login(c))
	token := decode(t, rec)["token"].(string)

	gate := middleware.AdminAuth(h.Cfg.JWTSecret)
	probe := gate(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func(authz string) int {
		httpReq := httptest.NewRequest(http.MethodGet, "/api/admin/status", nil)
		if authz != "" {
			httpReq.Header.Set("Authorization", authz)
		}
		rec := httptest.NewRecorder()
		req.NoError(probe(e.NewContext(httpReq, rec)))
		return rec.Code
	}

	req.Equal(http.StatusOK, call("Bearer "+token))
	req.Equal(http.StatusUnauthorized, call(""))
	req.Equal(http.StatusUnauthorized, call("Bearer garbage"))
}

func TestMaintenanceToggle(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	st := newTestStore()
	h := newAdminHandler(t, st)

	c, rec := jsonCtx(e, http.MethodPost, "/api/admin/maintenance", "")
	req.NoError(h.Maintenance(c))
	req.Equal(true, decode(t, rec)["maintenanceMode"])
	req.True(st.Maintenance())

	c, rec = jsonCtx(e, http.MethodPost, "/api/admin/maintenance", "")
	req.NoError(h.Maintenance(c))
	req.Equal(false, decode(t, rec)["maintenanceMode"])
}

func TestAssignAndUnassignSeat(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	st := newTestStore()
	h := newAdminHandler(t, st)

	c, rec := jsonCtx(e, http.MethodPost, "/api/admin/assign-seat",
		`{"seatId":"7","studentName":"Park","studentId":"S003","isPermanent":true}`)
	req.NoError(h.AssignSeat(c))
	req.Equal(http.StatusOK, rec.Code)
	req.Equal(map[string]any{"7": "Park"}, decode(t, rec)["reservations"])

	// the public cancel path refuses assigned seats
	_, err := st.Cancel(context.Background(), "7", "S003", false)
	req.ErrorIs(err, store.ErrCannotCancelAssigned)

	c, rec = jsonCtx(e, http.MethodDelete, "/api/admin/assign-seat/7", "")
	c.SetParamNames("seatId")
	c.SetParamValues("7")
	req.NoError(h.UnassignSeat(c))
	req.Equal(http.StatusOK, rec.Code)
	req.Empty(decode(t, rec)["reservations"])
}

func TestAssignSeatValidation(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	h := newAdminHandler(t, newTestStore())

	c, rec := jsonCtx(e, http.MethodPost, "/api/admin/assign-seat", `{"seatId":"7"}`)
	req.NoError(h.AssignSeat(c))
	req.Equal(http.StatusBadRequest, rec.Code)

	c, rec = jsonCtx(e, http.MethodPost, "/api/admin/assign-seat",
		`{"seatId":"7","studentName":"Park","studentId":"S003","startDate":"2025-03-20","endDate":"2025-03-10"}`)
	req.NoError(h.AssignSeat(c))
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestAdminCancelOverridesOwnership(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	st := newTestStore()
	h := newAdminHandler(t, st)

	_, err := st.Reserve(context.Background(), "3", "S001")
	req.NoError(err)

	c, rec := jsonCtx(e, http.MethodDelete, "/api/admin/reservations/3", "")
	c.SetParamNames("seatId")
	c.SetParamValues("3")
	req.NoError(h.CancelSeat(c))
	req.Equal(http.StatusOK, rec.Code)
	req.Empty(decode(t, rec)["reservations"])
}

func TestClearReservationsKeepsAssignments(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	st := newTestStore()
	h := newAdminHandler(t, st)

	_, err := st.Assign("1", "Park", "S003", "", "", true)
	req.NoError(err)
	_, err = st.Reserve(context.Background(), "2", "S001")
	req.NoError(err)

	c, rec := jsonCtx(e, http.MethodDelete, "/api/admin/reservations", "")
	req.NoError(h.ClearReservations(c))
	req.Equal(http.StatusOK, rec.Code)
	req.Equal(map[string]any{"1": "Park"}, decode(t, rec)["reservations"])
}

func TestClearReservationsBroadcastsOnlyOnChange(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	st := newTestStore()
	hub := fanout.NewHub()
	buf := fanout.NewPollBuffer()
	hub.Attach("poll-buffer", buf)
	h := newAdminHandlerWithHub(t, st, hub)

	// nothing to clear, nothing to announce
	c, rec := jsonCtx(e, http.MethodDelete, "/api/admin/reservations", "")
	req.NoError(h.ClearReservations(c))
	req.Equal(http.StatusOK, rec.Code)
	time.Sleep(20 * time.Millisecond)
	req.Empty(buf.Events())

	_, err := st.Reserve(context.Background(), "2", "S001")
	req.NoError(err)

	c, _ = jsonCtx(e, http.MethodDelete, "/api/admin/reservations", "")
	req.NoError(h.ClearReservations(c))
	req.Eventually(func() bool { return len(buf.Events()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestResetSession(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	st := newTestStore()
	h := newAdminHandler(t, st)

	c, rec := jsonCtx(e, http.MethodPost, "/api/admin/reset-session", `{"session":"afternoon"}`)
	req.NoError(h.ResetSession(c))
	req.Equal(http.StatusOK, rec.Code)
	req.Equal("afternoon", decode(t, rec)["session"])

	c, rec = jsonCtx(e, http.MethodPost, "/api/admin/reset-session", `{"session":"evening"}`)
	req.NoError(h.ResetSession(c))
	req.Equal(http.StatusBadRequest, rec.Code)
}

func TestAdminReservationsExposeRecords(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	st := newTestStore()
	h := newAdminHandler(t, st)

	_, err := st.Reserve(context.Background(), "5", "S001")
	req.NoError(err)

	c, rec := jsonCtx(e, http.MethodGet, "/api/admin/reservations", "")
	req.NoError(h.Reservations(c))
	req.Equal(http.StatusOK, rec.Code)

	seats := decode(t, rec)["reservations"].(map[string]any)
	rec5 := seats["5"].(map[string]any)
	req.Equal("S001", rec5["studentId"])
	req.Equal("Kim", rec5["name"])
	req.Equal("reservation", rec5["kind"])
}

func TestStatus(t *testing.T) {
	req := require.New(t)
	e := echo.New()
	h := newAdminHandler(t, newTestStore())

	c, rec := jsonCtx(e, http.MethodGet, "/api/admin/status", "")
	req.NoError(h.Status(c))
	req.Equal(http.StatusOK, rec.Code)

	body := decode(t, rec)
	req.Equal(true, body["success"])
	req.Equal("morning", body["session"])
	req.Equal(false, body["maintenanceMode"])
	req.Contains(body, "uptime")
}
