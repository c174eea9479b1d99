package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/saitalent/sporty/analysis"
	"github.com/saitalent/sporty/assessment"
	"github.com/saitalent/sporty/metrics"
	"github.com/saitalent/sporty/models"
)

// maxVideoBytes caps one uploaded video at 200 MB.
const maxVideoBytes = 200 << 20

// UploadRecording receives a test video as multipart form data, stores the
// blob and queues analysis. Re-uploading the same (session, test) replaces
// the previous video.
func (h *Handler) UploadRecording(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	testID, err := strconv.ParseInt(c.FormValue("fitnessTestID"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "fitnessTestID is required")
	}

	fh, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "video file is required")
	}
	if fh.Size > maxVideoBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "video exceeds 200MB")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	url, err := h.blobs.Store(c.Request().Context(), f, fh.Header.Get("Content-Type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sizeMB := float64(fh.Size) / (1 << 20)
	up := assessment.Upload{
		SessionID:        sessionID,
		FitnessTestID:    testID,
		VideoURL:         url,
		VideoSizeMB:      &sizeMB,
		VideoDuration:    optionalFloat(c.FormValue("videoDuration")),
		DeviceScore:      optionalFloat(c.FormValue("deviceScore")),
		DeviceConfidence: optionalFloat(c.FormValue("deviceConfidence")),
	}

	rec, sess, err := h.svc.SubmitRecording(c.Request().Context(), a.AthleteID, up)
	if err != nil {
		return httpError(err)
	}
	metrics.RecordingsUploaded.Inc()
	return c.JSON(http.StatusCreated, echo.Map{
		"recording": rec,
		"session":   sess,
	})
}

type recordingStatus struct {
	Recording       *models.TestRecording `json:"recording"`
	ProgressPercent int                   `json:"progressPercent"`
	RetryAvailable  bool                  `json:"retryAvailable"`
}

// RecordingStatus reports analysis progress for polling clients.
func (h *Handler) RecordingStatus(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid recording id")
	}
	rec, err := h.svc.Recording(c.Request().Context(), a.AthleteID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, recordingStatus{
		Recording:       rec,
		ProgressPercent: rec.ProgressPercent(),
		RetryAvailable:  rec.RetryAvailable(),
	})
}

// RetryAnalysis re-queues a failed recording.
func (h *Handler) RetryAnalysis(c echo.Context) error {
	a, err := h.athlete(c)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid recording id")
	}
	rec, err := h.svc.RetryAnalysis(c.Request().Context(), a.AthleteID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

type analysisResultRequest struct {
	RecordingID int64 `json:"recordingID" validate:"required"`
	Attempt     int   `json:"attempt" validate:"required,gte=1"`

	// Status reports an intermediate stage (analyzing, cheat_checking)
	// instead of a final outcome.
	Status string `json:"status" validate:"omitempty,oneof=analyzing cheat_checking"`

	Score      float64  `json:"score"`
	Percentile float64  `json:"percentile"`
	Points     float64  `json:"points"`
	Confidence float64  `json:"confidence"`
	CheatScore float64  `json:"cheatScore"`
	CheatFlags []string `json:"cheatFlags"`
	Failed     bool     `json:"failed"`
	Error      string   `json:"error"`
}

// AnalysisResult is the callback endpoint for external analysis workers,
// accepting both progress reports and final outcomes. Stale results are
// acknowledged with 202 and discarded.
func (h *Handler) AnalysisResult(c echo.Context) error {
	var req analysisResultRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Status != "" {
		if err := h.svc.MarkAnalysisStage(c.Request().Context(), req.RecordingID, req.Attempt, req.Status); err != nil {
			return httpError(err)
		}
		return c.NoContent(http.StatusAccepted)
	}

	out := analysis.Outcome{
		Score:      req.Score,
		Percentile: req.Percentile,
		Points:     req.Points,
		Confidence: req.Confidence,
		CheatScore: req.CheatScore,
		CheatFlags: req.CheatFlags,
		Failed:     req.Failed,
		Error:      req.Error,
	}
	rec, err := h.svc.ApplyAnalysisResult(c.Request().Context(), req.RecordingID, req.Attempt, out)
	if err != nil {
		return httpError(err)
	}
	if rec == nil {
		return c.NoContent(http.StatusAccepted)
	}
	metrics.AnalysisResults.WithLabelValues(rec.ProcessingStatus).Inc()
	return c.JSON(http.StatusOK, rec)
}

func optionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
