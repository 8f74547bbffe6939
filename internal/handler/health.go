package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Health handles GET /api/health.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// Healthz is the plain-text probe for load balancers.
func Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
