package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a health-check endpoint for load balancers and monitoring.  It
// answers 200 with a plain "ok" as long as the process serves requests.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
