package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/saitalent/sporty/models"
)

type recordings struct {
	idb bun.IDB
}

func (r *recordings) ByID(ctx context.Context, id int64) (*models.TestRecording, error) {
	rec := &models.TestRecording{}
	err := r.idb.NewSelect().Model(rec).Where("tr.recording_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return rec, nil
}

func (r *recordings) BySessionAndTest(ctx context.Context, sessionID, testID int64) (*models.TestRecording, error) {
	rec := &models.TestRecording{}
	err := r.idb.NewSelect().Model(rec).
		Where("tr.session_id = ?", sessionID).
		Where("tr.fitness_test_id = ?", testID).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return rec, nil
}

func (r *recordings) Upsert(ctx context.Context, rec *models.TestRecording) (bool, error) {
	rec.Attempt = 1
	rec.ProcessingStatus = models.RecordingUploaded
	_, err := r.idb.NewInsert().Model(rec).
		On("CONFLICT (session_id, fitness_test_id) DO UPDATE").
		Set("video_url = EXCLUDED.video_url").
		Set("video_duration = EXCLUDED.video_duration").
		Set("video_size_mb = EXCLUDED.video_size_mb").
		Set("device_score = EXCLUDED.device_score").
		Set("device_confidence = EXCLUDED.device_confidence").
		Set("processing_status = EXCLUDED.processing_status").
		Set("processing_error = NULL").
		Set("attempt = tr.attempt + 1").
		Set("updated_at = now()").
		Returning("recording_id, attempt, retry_count").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	// A fresh row keeps attempt = 1; the conflict branch always bumps past it.
	return rec.Attempt == 1, nil
}

func (r *recordings) Update(ctx context.Context, rec *models.TestRecording) error {
	_, err := r.idb.NewUpdate().Model(rec).
		WherePK().
		Set("updated_at = now()").
		Exec(ctx)
	return err
}

func (r *recordings) UpdateResult(ctx context.Context, rec *models.TestRecording, attempt int) (bool, error) {
	res, err := r.idb.NewUpdate().Model(rec).
		Column("processing_status", "processing_error", "final_score",
			"performance_grade", "percentile", "points_earned", "ai_confidence",
			"cheat_detection_score", "cheat_flags", "is_suspicious").
		Set("updated_at = now()").
		Where("tr.recording_id = ?", rec.RecordingID).
		Where("tr.attempt = ?", attempt).
		Where("tr.processing_status IN (?)", bun.In([]string{
			models.RecordingUploaded, models.RecordingAnalyzing, models.RecordingCheatChecking,
		})).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *recordings) MarkInFlight(ctx context.Context, recordingID int64, attempt int, status string) (bool, error) {
	res, err := r.idb.NewUpdate().Model((*models.TestRecording)(nil)).
		Set("processing_status = ?", status).
		Set("updated_at = now()").
		Where("tr.recording_id = ?", recordingID).
		Where("tr.attempt = ?", attempt).
		Where("tr.processing_status IN (?)", bun.In([]string{
			models.RecordingUploaded, models.RecordingAnalyzing, models.RecordingCheatChecking,
		})).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// scoreable are the statuses whose results feed aggregation and rankings.
var scoreable = []string{models.RecordingCompleted, models.RecordingManuallyVerified}

func (r *recordings) CompletedBySession(ctx context.Context, sessionID int64) ([]models.TestRecording, error) {
	var out []models.TestRecording
	err := r.idb.NewSelect().Model(&out).
		Where("tr.session_id = ?", sessionID).
		Where("tr.processing_status IN (?)", bun.In(scoreable)).
		OrderExpr("tr.fitness_test_id ASC").
		Scan(ctx)
	return out, err
}

func (r *recordings) PersonalBests(ctx context.Context, athleteID int64) ([]PersonalBest, error) {
	var out []PersonalBest
	err := r.idb.NewSelect().
		TableExpr("test_recordings tr").
		ColumnExpr("ft.name, ft.display_name, MAX(tr.final_score) AS best_score").
		Join("INNER JOIN fitness_tests ft ON ft.fitness_test_id = tr.fitness_test_id").
		Where("tr.athlete_id = ?", athleteID).
		Where("tr.processing_status IN (?)", bun.In(scoreable)).
		Where("tr.final_score IS NOT NULL").
		GroupExpr("ft.name, ft.display_name").
		Scan(ctx, &out)
	return out, err
}

func (r *recordings) BestScores(ctx context.Context) ([]BestScore, error) {
	var out []BestScore
	err := r.idb.NewSelect().
		TableExpr("test_recordings tr").
		ColumnExpr("tr.athlete_id, tr.fitness_test_id, MAX(tr.points_earned) AS score, a.age, a.gender, a.state").
		Join("INNER JOIN athlete_profiles a ON a.athlete_id = tr.athlete_id").
		Where("tr.processing_status IN (?)", bun.In(scoreable)).
		Where("tr.points_earned IS NOT NULL").
		GroupExpr("tr.athlete_id, tr.fitness_test_id, a.age, a.gender, a.state").
		Scan(ctx, &out)
	return out, err
}

func (r *recordings) CountCompleted(ctx context.Context) (int, error) {
	return r.idb.NewSelect().Model((*models.TestRecording)(nil)).
		Where("processing_status IN (?)", bun.In(scoreable)).
		Count(ctx)
}
