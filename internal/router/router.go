package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/jwkim/studyroom-seat-reservation/internal/handler"
	"github.com/jwkim/studyroom-seat-reservation/internal/middleware"
)

// RegisterRoutes registers routes that need no state: currently only
// the health check used by load balancers and uptime monitors.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic wires the seat endpoints and the push channel.  The
// snapshot GET takes the response-cache middleware so pull-mode
// pollers are served from Redis for a few seconds at a time; cacheMW
// is pass-through when Redis is absent.
func RegisterPublic(e *echo.Echo, res *handler.ReservationHandler, ws *handler.WSHandler, cacheMW echo.MiddlewareFunc) {
	e.GET("/reservations", res.Get, cacheMW)
	e.POST("/reservations", res.Reserve)
	e.DELETE("/reservations/:seatId", res.Cancel)
	e.GET("/ws", ws.Serve)
}

// RegisterAPI wires the /api group: pull-mode events, stats, and the
// admin control plane.  The whole group sits behind the rate limiter;
// everything under /api/admin except login additionally requires a
// valid admin token.
func RegisterAPI(e *echo.Echo, ev *handler.EventsHandler, st *handler.StatsHandler, adm *handler.AdminHandler, stu *handler.StudentHandler, jwtSecret string, limitMW echo.MiddlewareFunc) {
	api := e.Group("/api", limitMW)
	api.GET("/events", ev.Get)
	api.GET("/stats", st.Get)
	api.POST("/admin/login", adm.Login)

	priv := api.Group("/admin", middleware.AdminAuth(jwtSecret))
	priv.GET("/reservations", adm.Reservations)
	priv.DELETE("/reservations", adm.ClearReservations)
	priv.DELETE("/reservations/:seatId", adm.CancelSeat)
	priv.POST("/maintenance", adm.Maintenance)
	priv.POST("/reset-session", adm.ResetSession)
	priv.POST("/assign-seat", adm.AssignSeat)
	priv.DELETE("/assign-seat/:seatId", adm.UnassignSeat)
	priv.GET("/status", adm.Status)
	priv.GET("/students", stu.List)
	priv.POST("/students", stu.Add)
	priv.DELETE("/students/:studentId", stu.Delete)
}
