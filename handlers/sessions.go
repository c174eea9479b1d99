package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/saitalent/sporty/metrics"
)

type startSessionRequest struct {
	SessionName string          `json:"sessionName"`
	DeviceInfo  json.RawMessage `json:"deviceInfo"`
}

// StartSession opens an assessment session, or returns the athlete's
// still-ongoing one.
func (h *Handler) StartSession(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}

	var req startSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	sess, created, err := h.svc.StartSession(c.Request().Context(), a.AthleteID, req.SessionName, req.DeviceInfo)
	if err != nil {
		return httpError(err)
	}
	if !created {
		return c.JSON(http.StatusOK, sess)
	}
	metrics.SessionsStarted.Inc()
	return c.JSON(http.StatusCreated, sess)
}

// Sessions lists the athlete's sessions, newest first.
func (h *Handler) Sessions(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	sessions, err := h.svc.History(c.Request().Context(), a.AthleteID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// Session returns one of the athlete's sessions.
func (h *Handler) Session(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	sess, err := h.svc.Session(c.Request().Context(), a.AthleteID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

// SubmitToSAI hands a completed session to SAI. Idempotent: repeat calls
// return the original submission with 200.
func (h *Handler) SubmitToSAI(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}

	sub, created, err := h.svc.SubmitToSAI(c.Request().Context(), a.AthleteID, id)
	if err != nil {
		return httpError(err)
	}
	if !created {
		return c.JSON(http.StatusOK, sub)
	}
	metrics.SAISubmissions.Inc()
	return c.JSON(http.StatusCreated, sub)
}
