package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/saitalent/sporty/models"
)

type athletes struct {
	idb bun.IDB
}

func (r *athletes) ByID(ctx context.Context, id int64) (*models.AthleteProfile, error) {
	a := &models.AthleteProfile{}
	err := r.idb.NewSelect().Model(a).Where("a.athlete_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *athletes) ByAuthUserID(ctx context.Context, authUserID string) (*models.AthleteProfile, error) {
	a := &models.AthleteProfile{}
	err := r.idb.NewSelect().Model(a).Where("a.auth_user_id = ?", authUserID).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *athletes) Create(ctx context.Context, a *models.AthleteProfile) error {
	_, err := r.idb.NewInsert().Model(a).Exec(ctx)
	return err
}

func (r *athletes) Update(ctx context.Context, a *models.AthleteProfile) error {
	a.UpdatedAt = time.Now()
	_, err := r.idb.NewUpdate().Model(a).WherePK().Exec(ctx)
	return err
}

func (r *athletes) GetOrCreate(ctx context.Context, a *models.AthleteProfile) (bool, error) {
	res, err := r.idb.NewInsert().Model(a).
		On("CONFLICT (auth_user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return true, nil
	}

	existing, err := r.ByAuthUserID(ctx, a.AuthUserID)
	if err != nil {
		return false, err
	}
	*a = *existing
	return false, nil
}

func (r *athletes) AddPoints(ctx context.Context, athleteID int64, pts int) error {
	_, err := r.idb.NewUpdate().
		Model((*models.AthleteProfile)(nil)).
		Set("total_points = total_points + ?", pts).
		Set("level = (total_points + ?) / 100 + 1", pts).
		Set("updated_at = now()").
		Where("athlete_id = ?", athleteID).
		Exec(ctx)
	return err
}

func (r *athletes) Ranked(ctx context.Context) ([]models.AthleteProfile, error) {
	var out []models.AthleteProfile
	err := r.idb.NewSelect().Model(&out).
		Where("a.overall_talent_score IS NOT NULL").
		Scan(ctx)
	return out, err
}

func (r *athletes) Count(ctx context.Context) (int, error) {
	return r.idb.NewSelect().Model((*models.AthleteProfile)(nil)).Count(ctx)
}

func (r *athletes) CountSince(ctx context.Context, t time.Time) (int, error) {
	return r.idb.NewSelect().Model((*models.AthleteProfile)(nil)).
		Where("created_at >= ?", t).
		Count(ctx)
}

func (r *athletes) TopStates(ctx context.Context, limit int) ([]StateScore, error) {
	var out []StateScore
	err := r.idb.NewSelect().
		TableExpr("athlete_profiles").
		ColumnExpr("state, AVG(overall_talent_score) AS avg_score").
		Where("state <> ''").
		GroupExpr("state").
		OrderExpr("avg_score DESC NULLS LAST").
		Limit(limit).
		Scan(ctx, &out)
	return out, err
}

func (r *athletes) AverageTalentScore(ctx context.Context) (*float64, error) {
	var avg *float64
	err := r.idb.NewSelect().
		TableExpr("athlete_profiles").
		ColumnExpr("AVG(overall_talent_score)").
		Scan(ctx, &avg)
	return avg, err
}
