package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// FitnessTests returns the active test catalog.
func (h *Handler) FitnessTests(c echo.Context) error {
	tests, err := h.store.Tests().Active(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tests)
}

// BenchmarkComparison places a score against the athlete's age/gender cohort
// for one test.
func (h *Handler) BenchmarkComparison(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	testID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid test id")
	}
	score, err := strconv.ParseFloat(c.QueryParam("score"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "score query parameter is required")
	}

	cmp, err := h.svc.BenchmarkComparison(c.Request().Context(), a.AthleteID, testID, score)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cmp)
}
