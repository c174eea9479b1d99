package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/saitalent/sporty/models"
)

type submissions struct {
	idb bun.IDB
}

func (r *submissions) ByID(ctx context.Context, id int64) (*models.SAISubmission, error) {
	sub := &models.SAISubmission{}
	err := r.idb.NewSelect().Model(sub).Where("sub.submission_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return sub, nil
}

func (r *submissions) BySession(ctx context.Context, sessionID int64) (*models.SAISubmission, error) {
	sub := &models.SAISubmission{}
	err := r.idb.NewSelect().Model(sub).Where("sub.session_id = ?", sessionID).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return sub, nil
}

func (r *submissions) CreateIfAbsent(ctx context.Context, sub *models.SAISubmission) (bool, *models.SAISubmission, error) {
	res, err := r.idb.NewInsert().Model(sub).
		On("CONFLICT (session_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, nil, err
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return true, sub, nil
	}

	existing, err := r.BySession(ctx, sub.SessionID)
	if err != nil {
		return false, nil, err
	}
	return false, existing, nil
}

func (r *submissions) Update(ctx context.Context, sub *models.SAISubmission) error {
	_, err := r.idb.NewUpdate().Model(sub).WherePK().Exec(ctx)
	return err
}

func (r *submissions) ByAthlete(ctx context.Context, athleteID int64) ([]models.SAISubmission, error) {
	var out []models.SAISubmission
	err := r.idb.NewSelect().Model(&out).
		Where("sub.athlete_id = ?", athleteID).
		OrderExpr("sub.created_at DESC").
		Scan(ctx)
	return out, err
}

func (r *submissions) All(ctx context.Context) ([]models.SAISubmission, error) {
	var out []models.SAISubmission
	err := r.idb.NewSelect().Model(&out).
		OrderExpr("sub.created_at DESC").
		Scan(ctx)
	return out, err
}

type badges struct {
	idb bun.IDB
}

func (r *badges) ByName(ctx context.Context, name string) (*models.Badge, error) {
	b := &models.Badge{}
	err := r.idb.NewSelect().Model(b).Where("b.name = ?", name).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *badges) Active(ctx context.Context) ([]models.Badge, error) {
	var out []models.Badge
	err := r.idb.NewSelect().Model(&out).
		Where("b.is_active").
		OrderExpr("b.badge_id ASC").
		Scan(ctx)
	return out, err
}

func (r *badges) Upsert(ctx context.Context, b *models.Badge) error {
	_, err := r.idb.NewInsert().Model(b).
		On("CONFLICT (name) DO UPDATE").
		Set("description = EXCLUDED.description").
		Set("points_reward = EXCLUDED.points_reward").
		Set("is_active = EXCLUDED.is_active").
		Returning("badge_id").
		Exec(ctx)
	return err
}

func (r *badges) Award(ctx context.Context, athleteID, badgeID int64) (bool, error) {
	ab := &models.AthleteBadge{AthleteID: athleteID, BadgeID: badgeID}
	res, err := r.idb.NewInsert().Model(ab).
		On("CONFLICT (athlete_id, badge_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (r *badges) EarnedBy(ctx context.Context, athleteID int64) ([]models.AthleteBadge, error) {
	var out []models.AthleteBadge
	err := r.idb.NewSelect().Model(&out).
		Relation("Badge").
		Where("abg.athlete_id = ?", athleteID).
		OrderExpr("abg.earned_at ASC").
		Scan(ctx)
	return out, err
}

type leaderboards struct {
	idb bun.IDB
}

func (r *leaderboards) UpsertRank(ctx context.Context, l *models.Leaderboard) error {
	_, err := r.idb.NewInsert().Model(l).
		On("CONFLICT (athlete_id, COALESCE(fitness_test_id, 0), leaderboard_type, state, age_group, gender) DO UPDATE").
		Set("previous_rank = l.current_rank").
		Set("current_rank = EXCLUDED.current_rank").
		Set("score = EXCLUDED.score").
		Set("updated_at = now()").
		Exec(ctx)
	return err
}

func applyLeaderboardFilters(sel *bun.SelectQuery, q LeaderboardQuery) *bun.SelectQuery {
	if q.Type != "" {
		sel = sel.Where("l.leaderboard_type = ?", q.Type)
	}
	if q.State != "" {
		sel = sel.Where("l.state = ?", q.State)
	}
	if q.FitnessTestID != nil {
		sel = sel.Where("l.fitness_test_id = ?", *q.FitnessTestID)
	}
	if q.AgeGroup != "" {
		sel = sel.Where("l.age_group = ?", q.AgeGroup)
	}
	if q.Gender != "" {
		sel = sel.Where("l.gender = ?", q.Gender)
	}
	return sel
}

func (r *leaderboards) Query(ctx context.Context, q LeaderboardQuery) ([]models.Leaderboard, int, error) {
	total, err := applyLeaderboardFilters(
		r.idb.NewSelect().Model((*models.Leaderboard)(nil)), q,
	).Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	var rows []models.Leaderboard
	sel := applyLeaderboardFilters(r.idb.NewSelect().Model(&rows), q).
		OrderExpr("l.current_rank ASC")
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}
	if err := sel.Scan(ctx); err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *leaderboards) ByAthlete(ctx context.Context, athleteID int64) ([]models.Leaderboard, error) {
	var out []models.Leaderboard
	err := r.idb.NewSelect().Model(&out).
		Where("l.athlete_id = ?", athleteID).
		OrderExpr("l.current_rank ASC").
		Scan(ctx)
	return out, err
}
