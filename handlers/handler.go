// Package handlers exposes the HTTP surface. Handlers bind and validate
// requests, delegate to the assessment core, and map its errors onto
// response codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/saitalent/sporty/assessment"
	"github.com/saitalent/sporty/middleware"
	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/storage"
	"github.com/saitalent/sporty/store"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	store    store.Store
	svc      *assessment.Service
	blobs    storage.BlobStore
	validate *validator.Validate
}

// New creates a Handler.
func New(st store.Store, svc *assessment.Service, blobs storage.BlobStore) *Handler {
	return &Handler{
		store:    st,
		svc:      svc,
		blobs:    blobs,
		validate: validator.New(),
	}
}

// httpError maps core errors onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, assessment.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	case errors.Is(err, assessment.ErrAlreadyCompleted):
		return echo.NewHTTPError(http.StatusConflict, "session already completed")
	case errors.Is(err, assessment.ErrNotReady):
		return echo.NewHTTPError(http.StatusConflict, "session not ready for submission")
	case errors.Is(err, assessment.ErrRetryExhausted):
		return echo.NewHTTPError(http.StatusConflict, "analysis retries exhausted")
	case errors.Is(err, assessment.ErrInvalidState):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// athlete resolves the authenticated subject to their athlete profile.
func (h *Handler) athlete(c echo.Context) (*models.AthleteProfile, error) {
	subject, _ := c.Get(middleware.CtxSubjectID).(string)
	if subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing subject")
	}
	a, err := h.store.Athletes().ByAuthUserID(c.Request().Context(), subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "athlete profile not registered")
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return a, nil
}
