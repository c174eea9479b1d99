package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// PlatformStats returns the public activity rollup.
func (h *Handler) PlatformStats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}
