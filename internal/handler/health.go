package handler // declare the package name; contains HTTP handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a plain liveness endpoint for load balancers and uptime
// monitors.  It answers "ok" with HTTP 200 and touches no state.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
