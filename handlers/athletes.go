package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/saitalent/sporty/assessment"
	"github.com/saitalent/sporty/metrics"
	"github.com/saitalent/sporty/middleware"
	"github.com/saitalent/sporty/models"
)

// RegisterAthlete creates the athlete profile for the authenticated user.
// Registering twice returns the existing profile with 200 instead of 201.
func (h *Handler) RegisterAthlete(c echo.Context) error {
	var req assessment.Registration
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.AuthUserID, _ = c.Get(middleware.CtxSubjectID).(string)
	if req.Email == "" {
		req.Email, _ = c.Get(middleware.CtxEmail).(string)
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, created, err := h.svc.RegisterAthlete(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	if !created {
		return c.JSON(http.StatusOK, a)
	}
	metrics.AthletesRegistered.Inc()
	return c.JSON(http.StatusCreated, a)
}

// Me returns the authenticated athlete's profile.
func (h *Handler) Me(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// UpdateMe applies profile edits.
func (h *Handler) UpdateMe(c echo.Context) error {
	var req assessment.Registration
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.AuthUserID, _ = c.Get(middleware.CtxSubjectID).(string)
	if req.Email == "" {
		req.Email, _ = c.Get(middleware.CtxEmail).(string)
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := h.svc.UpdateProfile(c.Request().Context(), req.AuthUserID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, a)
}

// Summary returns the athlete's dashboard: profile, personal bests, badges,
// rankings and submissions.
func (h *Handler) Summary(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	sum, err := h.svc.Summary(c.Request().Context(), a.AthleteID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sum)
}

// Badges returns the athlete's earned badges.
func (h *Handler) Badges(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	earned, err := h.store.Badges().EarnedBy(ctx, a.AthleteID)
	if err != nil {
		return httpError(err)
	}
	catalog, err := h.store.Badges().Active(ctx)
	if err != nil {
		return httpError(err)
	}

	have := make(map[int64]bool, len(earned))
	points := 0
	for _, ab := range earned {
		have[ab.BadgeID] = true
		if ab.Badge != nil {
			points += ab.Badge.PointsReward
		}
	}
	available := make([]models.Badge, 0, len(catalog))
	for _, b := range catalog {
		if !have[b.BadgeID] {
			available = append(available, b)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"earned":           earned,
		"available":        available,
		"pointsFromBadges": points,
	})
}
