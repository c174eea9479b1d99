package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// submissionSnapshot is the immutable payload handed to SAI reviewers.
type submissionSnapshot struct {
	Athlete struct {
		FullName         string `json:"fullName"`
		Age              int    `json:"age"`
		Gender           string `json:"gender"`
		State            string `json:"state"`
		District         string `json:"district"`
		LocationCategory string `json:"locationCategory"`
	} `json:"athlete"`
	Session struct {
		SessionID      int64    `json:"sessionID"`
		OverallScore   *float64 `json:"overallScore"`
		OverallGrade   *string  `json:"overallGrade"`
		PercentileRank *float64 `json:"percentileRank"`
		CompletedTests int      `json:"completedTests"`
		TotalTests     int      `json:"totalTests"`
	} `json:"session"`
	Results []snapshotResult `json:"results"`
}

type snapshotResult struct {
	FitnessTestID int64    `json:"fitnessTestID"`
	FinalScore    *float64 `json:"finalScore"`
	Grade         *string  `json:"grade"`
	Percentile    *float64 `json:"percentile"`
	Points        *float64 `json:"points"`
}

// newReferenceID mints a SAI reference like SAI20260901A1B2C3D4.
func newReferenceID(now time.Time) string {
	return "SAI" + now.Format("20060102") + strings.ToUpper(uuid.NewString()[:8])
}

// SubmitToSAI hands a completed session to SAI exactly once. Repeat calls
// return the original submission unchanged. The first submission ever made
// by the athlete earns the first-submission badge.
func (s *Service) SubmitToSAI(ctx context.Context, athleteID, sessionID int64) (*models.SAISubmission, bool, error) {
	sess, err := s.Session(ctx, athleteID, sessionID)
	if err != nil {
		return nil, false, err
	}
	if !sess.Done() {
		return nil, false, ErrNotReady
	}

	a, err := s.store.Athletes().ByID(ctx, athleteID)
	if err != nil {
		return nil, false, err
	}
	recs, err := s.store.Recordings().CompletedBySession(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	var snap submissionSnapshot
	snap.Athlete.FullName = a.FullName
	snap.Athlete.Age = a.Age
	snap.Athlete.Gender = a.Gender
	snap.Athlete.State = a.State
	snap.Athlete.District = a.District
	snap.Athlete.LocationCategory = a.LocationCategory
	snap.Session.SessionID = sess.SessionID
	snap.Session.OverallScore = sess.OverallScore
	snap.Session.OverallGrade = sess.OverallGrade
	snap.Session.PercentileRank = sess.PercentileRank
	snap.Session.CompletedTests = sess.CompletedTests
	snap.Session.TotalTests = sess.TotalTests
	snap.Results = make([]snapshotResult, 0, len(recs))
	for _, r := range recs {
		snap.Results = append(snap.Results, snapshotResult{
			FitnessTestID: r.FitnessTestID,
			FinalScore:    r.FinalScore,
			Grade:         r.PerformanceGrade,
			Percentile:    r.Percentile,
			Points:        r.PointsEarned,
		})
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, false, err
	}

	sub := &models.SAISubmission{
		SessionID:      sessionID,
		AthleteID:      athleteID,
		SAIReferenceID: newReferenceID(time.Now()),
		SubmittedData:  data,
		Status:         models.SubmissionSubmitted,
	}

	var created bool
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		var existing *models.SAISubmission
		var err error
		created, existing, err = tx.Submissions().CreateIfAbsent(ctx, sub)
		if err != nil {
			return err
		}
		if !created {
			sub = existing
			return nil
		}

		now := time.Now()
		sess.Status = models.SessionSubmittedToSAI
		sess.SubmittedAt = &now
		if err := tx.Sessions().Update(ctx, sess); err != nil {
			return err
		}
		return s.awardBadge(ctx, tx, athleteID, models.BadgeFirstSubmission)
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("session submitted to SAI",
			zap.Int64("session", sessionID),
			zap.String("reference", sub.SAIReferenceID))
	}
	return sub, created, nil
}

// Submissions lists the athlete's submissions.
func (s *Service) Submissions(ctx context.Context, athleteID int64) ([]models.SAISubmission, error) {
	return s.store.Submissions().ByAthlete(ctx, athleteID)
}

// AllSubmissions lists every submission for official review.
func (s *Service) AllSubmissions(ctx context.Context) ([]models.SAISubmission, error) {
	return s.store.Submissions().All(ctx)
}

// Review carries an official's verdict on a submission.
type Review struct {
	Status            string   `json:"status" validate:"required,oneof=under_review approved rejected"`
	Comments          string   `json:"comments"`
	TalentCategory    string   `json:"talentCategory"`
	RecommendedSports []string `json:"recommendedSports"`
}

// ReviewSubmission applies an official's verdict. Approval verifies the
// athlete's profile.
func (s *Service) ReviewSubmission(ctx context.Context, officerID string, submissionID int64, rev Review) (*models.SAISubmission, error) {
	sub, err := s.store.Submissions().ByID(ctx, submissionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if sub.Status == models.SubmissionApproved || sub.Status == models.SubmissionRejected {
		return nil, ErrInvalidState
	}

	now := time.Now()
	sub.Status = rev.Status
	sub.SAIOfficerID = &officerID
	sub.ReviewedAt = &now
	if rev.Comments != "" {
		sub.SAIComments = &rev.Comments
	}
	if rev.TalentCategory != "" {
		sub.TalentCategory = &rev.TalentCategory
	}
	sub.RecommendedSports = rev.RecommendedSports

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		if err := tx.Submissions().Update(ctx, sub); err != nil {
			return err
		}
		if sub.Status != models.SubmissionApproved {
			return nil
		}
		a, err := tx.Athletes().ByID(ctx, sub.AthleteID)
		if err != nil {
			return err
		}
		a.IsVerified = true
		a.VerificationStatus = models.VerificationVerified
		a.UpdatedAt = now
		return tx.Athletes().Update(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("submission reviewed",
		zap.Int64("submission", submissionID),
		zap.String("status", sub.Status),
		zap.String("officer", officerID))
	return sub, nil
}
