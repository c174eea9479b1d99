package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/saitalent/sporty/assessment"
	"github.com/saitalent/sporty/metrics"
	"github.com/saitalent/sporty/middleware"
)

// MySubmissions lists the athlete's SAI submissions.
func (h *Handler) MySubmissions(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	subs, err := h.svc.Submissions(c.Request().Context(), a.AthleteID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, subs)
}

// AllSubmissions lists every submission for SAI officials.
func (h *Handler) AllSubmissions(c echo.Context) error {
	subs, err := h.svc.AllSubmissions(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, subs)
}

// ReviewSubmission records an official's verdict on a submission.
func (h *Handler) ReviewSubmission(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid submission id")
	}
	var req assessment.Review
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	officerID, _ := c.Get(middleware.CtxSubjectID).(string)
	sub, err := h.svc.ReviewSubmission(c.Request().Context(), officerID, id, req)
	if err != nil {
		return httpError(err)
	}
	metrics.SubmissionReviews.WithLabelValues(sub.Status).Inc()
	return c.JSON(http.StatusOK, sub)
}

// VerifyRecording clears a cheat-flagged recording after an official has
// reviewed the footage, putting its scores back into play.
func (h *Handler) VerifyRecording(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid recording id")
	}
	rec, err := h.svc.VerifyRecording(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}
