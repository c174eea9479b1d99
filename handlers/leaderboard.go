package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// Leaderboard queries ranking rows. Filters: type (national|state), state,
// fitnessTestID (omit for the overall board), ageGroup, gender, limit.
func (h *Handler) Leaderboard(c echo.Context) error {
	q := store.LeaderboardQuery{
		Type:     c.QueryParam("type"),
		State:    c.QueryParam("state"),
		AgeGroup: c.QueryParam("ageGroup"),
		Gender:   c.QueryParam("gender"),
		Limit:    50,
	}
	if q.Type == "" {
		q.Type = models.LeaderboardNational
	}
	if q.Type != models.LeaderboardNational && q.Type != models.LeaderboardState {
		return echo.NewHTTPError(http.StatusBadRequest, "type must be national or state")
	}
	if q.Type == models.LeaderboardState && q.State == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "state is required for state boards")
	}
	if v := c.QueryParam("fitnessTestID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid fitnessTestID")
		}
		q.FitnessTestID = &id
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be 1-200")
		}
		q.Limit = n
	}

	rows, total, err := h.store.Leaderboards().Query(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"entries": rows,
		"total":   total,
	})
}

// MyRankings returns the athlete's rows across every board, with the best
// national rank as a summary.
func (h *Handler) MyRankings(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	rows, err := h.store.Leaderboards().ByAthlete(c.Request().Context(), a.AthleteID)
	if err != nil {
		return httpError(err)
	}

	var best *int
	for _, row := range rows {
		if row.Type != models.LeaderboardNational {
			continue
		}
		if best == nil || row.CurrentRank < *best {
			r := row.CurrentRank
			best = &r
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"rankings":         rows,
		"bestNationalRank": best,
		"totalBoards":      len(rows),
	})
}
