package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/saitalent/sporty/models"
)

type sessions struct {
	idb bun.IDB
}

func (r *sessions) ByID(ctx context.Context, id int64) (*models.AssessmentSession, error) {
	s := &models.AssessmentSession{}
	err := r.idb.NewSelect().Model(s).Where("s.session_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *sessions) Ongoing(ctx context.Context, athleteID int64) (*models.AssessmentSession, error) {
	s := &models.AssessmentSession{}
	err := r.idb.NewSelect().Model(s).
		Where("s.athlete_id = ?", athleteID).
		Where("s.status IN (?)", bun.In([]string{models.SessionCreated, models.SessionInProgress})).
		OrderExpr("s.created_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *sessions) Create(ctx context.Context, s *models.AssessmentSession) error {
	_, err := r.idb.NewInsert().Model(s).Exec(ctx)
	return err
}

func (r *sessions) Update(ctx context.Context, s *models.AssessmentSession) error {
	_, err := r.idb.NewUpdate().Model(s).WherePK().Exec(ctx)
	return err
}

func (r *sessions) MarkTestStarted(ctx context.Context, id int64) (*models.AssessmentSession, error) {
	s := &models.AssessmentSession{}
	err := r.idb.NewRaw(`
		UPDATE assessment_sessions
		SET completed_tests = completed_tests + 1,
		    status = CASE WHEN status = ? THEN ? ELSE status END
		WHERE session_id = ? AND completed_tests < total_tests
		RETURNING *`,
		models.SessionCreated, models.SessionInProgress, id,
	).Scan(ctx, s)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

func (r *sessions) Finished(ctx context.Context, athleteID int64) ([]models.AssessmentSession, error) {
	var out []models.AssessmentSession
	err := r.idb.NewSelect().Model(&out).
		Where("s.athlete_id = ?", athleteID).
		Where("s.status IN (?)", bun.In([]string{models.SessionCompleted, models.SessionSubmittedToSAI})).
		Where("s.overall_score IS NOT NULL").
		Scan(ctx)
	return out, err
}

func (r *sessions) History(ctx context.Context, athleteID int64) ([]models.AssessmentSession, error) {
	var out []models.AssessmentSession
	err := r.idb.NewSelect().Model(&out).
		Where("s.athlete_id = ?", athleteID).
		OrderExpr("s.created_at DESC").
		Scan(ctx)
	return out, err
}

func (r *sessions) CountCompleted(ctx context.Context) (int, error) {
	return r.idb.NewSelect().Model((*models.AssessmentSession)(nil)).
		Where("status IN (?)", bun.In([]string{models.SessionCompleted, models.SessionSubmittedToSAI})).
		Count(ctx)
}

func (r *sessions) CountSince(ctx context.Context, t time.Time) (int, error) {
	return r.idb.NewSelect().Model((*models.AssessmentSession)(nil)).
		Where("created_at >= ?", t).
		Count(ctx)
}
