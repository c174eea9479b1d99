package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saitalent/sporty/analysis"
	"github.com/saitalent/sporty/assessment"
	"github.com/saitalent/sporty/middleware"
	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store/storetest"
)

type nopQueue struct{}

func (nopQueue) Enqueue(context.Context, analysis.Job) error { return nil }

// nopBlobs satisfies storage.BlobStore without touching disk.
type nopBlobs struct{}

func (nopBlobs) Store(_ context.Context, r io.Reader, _ string) (string, error) {
	io.Copy(io.Discard, r)
	return "http://videos.local/test.mp4", nil
}

// asSubject injects an authenticated subject the way Auth would.
func asSubject(subject string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxSubjectID, subject)
			c.Set(middleware.CtxEmail, subject+"@example.in")
			c.Set(middleware.CtxRole, middleware.RoleAthlete)
			return next(c)
		}
	}
}

func newTestServer(t *testing.T) (*echo.Echo, *storetest.Mem) {
	t.Helper()
	mem := storetest.New()
	svc := assessment.New(mem, nopQueue{}, zap.NewNop(), 0.7)
	h := New(mem, svc, nopBlobs{})

	e := echo.New()
	e.GET("/health", h.Health)
	e.GET("/api/device/optimization", h.DeviceOptimization)

	api := e.Group("/api", asSubject("auth-1"))
	api.POST("/athletes", h.RegisterAthlete)
	api.GET("/athletes/me", h.Me)
	api.GET("/leaderboard", h.Leaderboard)
	return e, mem
}

func request(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)
	rec := request(e, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndFetchProfile(t *testing.T) {
	e, _ := newTestServer(t)
	dob := time.Now().AddDate(-16, 0, 0).Format("2006-01-02")

	t.Run("profile required before fetch", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/api/athletes/me", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	body := `{"fullName":"Kiran Kumar","dateOfBirth":"` + dob + `","gender":"male","state":"Karnataka"}`
	rec := request(e, http.MethodPost, "/api/athletes", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var a models.AthleteProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, "auth-1", a.AuthUserID)
	assert.Equal(t, "auth-1@example.in", a.Email, "email falls back to the token claim")

	t.Run("second registration is not a conflict", func(t *testing.T) {
		rec := request(e, http.MethodPost, "/api/athletes", body)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("fetch after registration", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/api/athletes/me", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		rec := request(e, http.MethodPost, "/api/athletes", `{"fullName":"No DOB"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLeaderboardValidation(t *testing.T) {
	e, _ := newTestServer(t)

	cases := []struct {
		target string
		code   int
	}{
		{"/api/leaderboard", http.StatusOK},
		{"/api/leaderboard?type=galactic", http.StatusBadRequest},
		{"/api/leaderboard?type=state", http.StatusBadRequest},
		{"/api/leaderboard?type=state&state=Karnataka", http.StatusOK},
		{"/api/leaderboard?fitnessTestID=abc", http.StatusBadRequest},
		{"/api/leaderboard?limit=0", http.StatusBadRequest},
		{"/api/leaderboard?limit=500", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := request(e, http.MethodGet, tc.target, "")
		assert.Equal(t, tc.code, rec.Code, tc.target)
	}
}

func TestDeviceOptimization(t *testing.T) {
	e, _ := newTestServer(t)

	t.Run("slow network gets compressed low-res profile", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/api/device/optimization?network=3g&ramMB=2048", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var p captureProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "640x360", p.Resolution)
		assert.True(t, p.CompressBefore)
	})

	t.Run("defaults for unknown device", func(t *testing.T) {
		rec := request(e, http.MethodGet, "/api/device/optimization", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var p captureProfile
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
		assert.Equal(t, "1280x720", p.Resolution)
		assert.False(t, p.CompressBefore)
	})
}
