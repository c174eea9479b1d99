package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// StartSession opens a new assessment session sized to the active test
// catalog. An athlete's still-ongoing session is returned instead of opening
// a second one.
func (s *Service) StartSession(ctx context.Context, athleteID int64, name string, deviceInfo json.RawMessage) (*models.AssessmentSession, bool, error) {
	if ongoing, err := s.store.Sessions().Ongoing(ctx, athleteID); err == nil {
		return ongoing, false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	tests, err := s.store.Tests().Active(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(tests) == 0 {
		return nil, false, fmt.Errorf("%w: no active fitness tests", ErrInvalidState)
	}

	if name == "" {
		name = "Assessment " + time.Now().Format("2 Jan 2006")
	}
	if len(deviceInfo) == 0 {
		deviceInfo = json.RawMessage(`{}`)
	}
	sess := &models.AssessmentSession{
		AthleteID:   athleteID,
		SessionName: name,
		Status:      models.SessionCreated,
		TotalTests:  len(tests),
		DeviceInfo:  deviceInfo,
	}
	if err := s.store.Sessions().Create(ctx, sess); err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Session loads a session owned by the athlete.
func (s *Service) Session(ctx context.Context, athleteID, sessionID int64) (*models.AssessmentSession, error) {
	sess, err := s.store.Sessions().ByID(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sess.AthleteID != athleteID {
		return nil, ErrNotFound
	}
	return sess, nil
}

// History lists the athlete's sessions, newest first.
func (s *Service) History(ctx context.Context, athleteID int64) ([]models.AssessmentSession, error) {
	return s.store.Sessions().History(ctx, athleteID)
}

// aggregateSession recomputes the session's overall score, grade and
// percentile from its completed recordings, then rolls the athlete's talent
// score up from all finished sessions. Sessions still collecting uploads
// carry no overall score, so this is a no-op until the session completes,
// and again when nothing has finished analysis.
func (s *Service) aggregateSession(ctx context.Context, sess *models.AssessmentSession) error {
	if !sess.Done() {
		return nil
	}
	recs, err := s.store.Recordings().CompletedBySession(ctx, sess.SessionID)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}

	var ptsSum, pctSum float64
	pctN := 0
	for _, r := range recs {
		if r.PointsEarned != nil {
			ptsSum += *r.PointsEarned
		}
		if r.Percentile != nil {
			pctSum += *r.Percentile
			pctN++
		}
	}

	score := ptsSum / float64(len(recs))
	grade := Grade(score)
	sess.OverallScore = &score
	sess.OverallGrade = &grade
	sess.PercentileRank = nil
	if pctN > 0 {
		pct := pctSum / float64(pctN)
		sess.PercentileRank = &pct
	}
	if err := s.store.Sessions().Update(ctx, sess); err != nil {
		return err
	}
	return s.recomputeTalent(ctx, sess.AthleteID)
}

// recomputeTalent sets the athlete's overall talent score and grade to the
// mean of their finished sessions' overall scores.
func (s *Service) recomputeTalent(ctx context.Context, athleteID int64) error {
	sessions, err := s.store.Sessions().Finished(ctx, athleteID)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}

	var sum float64
	for _, sess := range sessions {
		sum += *sess.OverallScore
	}
	score := sum / float64(len(sessions))
	grade := Grade(score)

	a, err := s.store.Athletes().ByID(ctx, athleteID)
	if err != nil {
		return err
	}
	a.OverallTalentScore = &score
	a.TalentGrade = &grade
	a.UpdatedAt = time.Now()
	return s.store.Athletes().Update(ctx, a)
}
