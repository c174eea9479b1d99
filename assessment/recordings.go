package assessment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/saitalent/sporty/analysis"
	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// Upload carries one recording submission.
type Upload struct {
	SessionID     int64
	FitnessTestID int64
	VideoURL      string
	VideoDuration *float64
	VideoSizeMB   *float64

	// On-device pre-analysis, when the mobile client ran one.
	DeviceScore      *float64
	DeviceConfidence *float64
}

// SubmitRecording records a video for one (session, test) slot and queues it
// for analysis. A re-upload to the same slot replaces the previous video and
// invalidates its in-flight analysis; only the first upload advances the
// session's completed-tests counter.
func (s *Service) SubmitRecording(ctx context.Context, athleteID int64, up Upload) (*models.TestRecording, *models.AssessmentSession, error) {
	sess, err := s.Session(ctx, athleteID, up.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess.Done() {
		return nil, nil, ErrAlreadyCompleted
	}

	test, err := s.store.Tests().ByID(ctx, up.FitnessTestID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if !test.IsActive {
		return nil, nil, ErrNotFound
	}

	// A slot whose analysis already settled keeps its result; re-uploads
	// are only a fix for videos still being processed or failed.
	prev, err := s.store.Recordings().BySessionAndTest(ctx, sess.SessionID, test.FitnessTestID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, nil, err
	}
	if prev != nil && prev.AnalysisDone() {
		return nil, nil, ErrAlreadyCompleted
	}

	rec := &models.TestRecording{
		SessionID:        sess.SessionID,
		FitnessTestID:    test.FitnessTestID,
		AthleteID:        athleteID,
		VideoURL:         up.VideoURL,
		VideoDuration:    up.VideoDuration,
		VideoSizeMB:      up.VideoSizeMB,
		DeviceScore:      up.DeviceScore,
		DeviceConfidence: up.DeviceConfidence,
	}
	created, err := s.store.Recordings().Upsert(ctx, rec)
	if err != nil {
		return nil, nil, err
	}

	if created {
		updated, err := s.store.Sessions().MarkTestStarted(ctx, sess.SessionID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, nil, err
		}
		if updated != nil {
			sess = updated
		}
		if sess.CompletedTests >= sess.TotalTests && sess.Status == models.SessionInProgress {
			now := time.Now()
			sess.Status = models.SessionCompleted
			sess.CompletedAt = &now
			if err := s.store.Sessions().Update(ctx, sess); err != nil {
				return nil, nil, err
			}
			// Analyses that finished before this final upload roll up now;
			// later callbacks re-aggregate as they land.
			if err := s.aggregateSession(ctx, sess); err != nil {
				return nil, nil, err
			}
		}
	}

	job := analysis.Job{
		RecordingID: rec.RecordingID,
		Attempt:     rec.Attempt,
		VideoURL:    rec.VideoURL,
		TestName:    test.Name,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.log.Error("analysis enqueue failed",
			zap.Int64("recording", rec.RecordingID), zap.Error(err))
	}
	return rec, sess, nil
}

// Recording loads a recording owned by the athlete.
func (s *Service) Recording(ctx context.Context, athleteID, recordingID int64) (*models.TestRecording, error) {
	rec, err := s.store.Recordings().ByID(ctx, recordingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.AthleteID != athleteID {
		return nil, ErrNotFound
	}
	return rec, nil
}

// MarkAnalysisStage records a recording's progress through the pipeline so
// polling clients see it move past uploaded. Only the intermediate stages
// are accepted; terminal states arrive through ApplyAnalysisResult. Stale
// attempts are ignored.
func (s *Service) MarkAnalysisStage(ctx context.Context, recordingID int64, attempt int, status string) error {
	if status != models.RecordingAnalyzing && status != models.RecordingCheatChecking {
		return ErrInvalidState
	}
	applied, err := s.store.Recordings().MarkInFlight(ctx, recordingID, attempt, status)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !applied {
		s.log.Info("stale analysis progress discarded",
			zap.Int64("recording", recordingID), zap.Int("attempt", attempt))
	}
	return nil
}

// ApplyAnalysisResult writes one analysis outcome and returns the updated
// recording. Outcomes whose attempt no longer matches the stored row, or
// whose row has already left the in-flight states, are discarded and return
// nil. Completed outcomes (re)aggregate the session scores.
func (s *Service) ApplyAnalysisResult(ctx context.Context, recordingID int64, attempt int, out analysis.Outcome) (*models.TestRecording, error) {
	rec, err := s.store.Recordings().ByID(ctx, recordingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if out.Failed {
		msg := out.Error
		rec.ProcessingStatus = models.RecordingFailed
		rec.ProcessingError = &msg
		rec.FinalScore = nil
		rec.PerformanceGrade = nil
		rec.Percentile = nil
		rec.PointsEarned = nil
	} else {
		grade := Grade(out.Score)
		rec.ProcessingStatus = models.RecordingCompleted
		rec.ProcessingError = nil
		rec.FinalScore = &out.Score
		rec.PerformanceGrade = &grade
		rec.Percentile = &out.Percentile
		rec.PointsEarned = &out.Points
		rec.AIConfidence = &out.Confidence
		rec.CheatDetectionScore = &out.CheatScore
		rec.CheatFlags = out.CheatFlags
		if out.CheatScore > s.cheatThreshold {
			rec.ProcessingStatus = models.RecordingFlagged
			rec.IsSuspicious = true
		}
	}

	applied, err := s.store.Recordings().UpdateResult(ctx, rec, attempt)
	if err != nil {
		return nil, err
	}
	if !applied {
		s.log.Info("stale analysis result discarded",
			zap.Int64("recording", recordingID), zap.Int("attempt", attempt))
		return nil, nil
	}

	if rec.ProcessingStatus != models.RecordingCompleted {
		return rec, nil
	}
	sess, err := s.store.Sessions().ByID(ctx, rec.SessionID)
	if err != nil {
		return rec, err
	}
	return rec, s.aggregateSession(ctx, sess)
}

// VerifyRecording reinstates a cheat-flagged recording after manual review.
// The scores from its last analysis pass start counting toward the session
// aggregate and rankings; the suspicious marker stays on the row.
func (s *Service) VerifyRecording(ctx context.Context, recordingID int64) (*models.TestRecording, error) {
	rec, err := s.store.Recordings().ByID(ctx, recordingID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if rec.ProcessingStatus != models.RecordingFlagged {
		return nil, ErrInvalidState
	}

	rec.ProcessingStatus = models.RecordingManuallyVerified
	rec.UpdatedAt = time.Now()
	if err := s.store.Recordings().Update(ctx, rec); err != nil {
		return nil, err
	}

	sess, err := s.store.Sessions().ByID(ctx, rec.SessionID)
	if err != nil {
		return rec, err
	}
	return rec, s.aggregateSession(ctx, sess)
}

// RetryAnalysis re-queues a failed recording. Allowed only in the failed
// state and at most MaxAnalysisRetries times per recording.
func (s *Service) RetryAnalysis(ctx context.Context, athleteID, recordingID int64) (*models.TestRecording, error) {
	rec, err := s.Recording(ctx, athleteID, recordingID)
	if err != nil {
		return nil, err
	}
	if rec.ProcessingStatus != models.RecordingFailed {
		return nil, ErrInvalidState
	}
	if !rec.RetryAvailable() {
		return nil, ErrRetryExhausted
	}

	test, err := s.store.Tests().ByID(ctx, rec.FitnessTestID)
	if err != nil {
		return nil, err
	}

	rec.Attempt++
	rec.RetryCount++
	rec.ProcessingStatus = models.RecordingUploaded
	rec.ProcessingError = nil
	rec.UpdatedAt = time.Now()
	if err := s.store.Recordings().Update(ctx, rec); err != nil {
		return nil, err
	}

	job := analysis.Job{
		RecordingID: rec.RecordingID,
		Attempt:     rec.Attempt,
		VideoURL:    rec.VideoURL,
		TestName:    test.Name,
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.log.Error("analysis enqueue failed",
			zap.Int64("recording", rec.RecordingID), zap.Error(err))
	}
	return rec, nil
}

// BenchmarkComparison places a score against the athlete's age and gender
// cohort for one test.
func (s *Service) BenchmarkComparison(ctx context.Context, athleteID, testID int64, score float64) (*Comparison, error) {
	a, err := s.store.Athletes().ByID(ctx, athleteID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b, err := s.store.Benchmarks().Lookup(ctx, testID, a.Age, a.Gender)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	c := Compare(b, score)
	c.AgeGroup = models.AgeGroup(a.Age)
	c.Gender = a.Gender
	return &c, nil
}
