package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the uniform liveness endpoint every service exposes.
func Health(service string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "OK",
			"service": service,
		})
	}
}
