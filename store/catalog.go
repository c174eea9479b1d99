package store

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/saitalent/sporty/models"
)

type fitnessTests struct {
	idb bun.IDB
}

func (r *fitnessTests) ByID(ctx context.Context, id int64) (*models.FitnessTest, error) {
	t := &models.FitnessTest{}
	err := r.idb.NewSelect().Model(t).Where("ft.fitness_test_id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *fitnessTests) Active(ctx context.Context) ([]models.FitnessTest, error) {
	var out []models.FitnessTest
	err := r.idb.NewSelect().Model(&out).
		Where("ft.is_active").
		OrderExpr("ft.fitness_test_id ASC").
		Scan(ctx)
	return out, err
}

func (r *fitnessTests) Upsert(ctx context.Context, t *models.FitnessTest) error {
	_, err := r.idb.NewInsert().Model(t).
		On("CONFLICT (name) DO UPDATE").
		Set("display_name = EXCLUDED.display_name").
		Set("description = EXCLUDED.description").
		Set("unit = EXCLUDED.unit").
		Set("is_active = EXCLUDED.is_active").
		Returning("fitness_test_id").
		Exec(ctx)
	return err
}

type benchmarks struct {
	idb bun.IDB
}

func (r *benchmarks) Lookup(ctx context.Context, testID int64, age int, gender string) (*models.AgeBenchmark, error) {
	b := &models.AgeBenchmark{}
	err := r.idb.NewSelect().Model(b).
		Where("ab.fitness_test_id = ?", testID).
		Where("ab.age_min <= ?", age).
		Where("ab.age_max >= ?", age).
		Where("ab.gender = ?", gender).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *benchmarks) Upsert(ctx context.Context, b *models.AgeBenchmark) error {
	_, err := r.idb.NewInsert().Model(b).
		On("CONFLICT (fitness_test_id, age_min, age_max, gender) DO UPDATE").
		Set("excellent_threshold = EXCLUDED.excellent_threshold").
		Set("good_threshold = EXCLUDED.good_threshold").
		Set("average_threshold = EXCLUDED.average_threshold").
		Set("below_average_threshold = EXCLUDED.below_average_threshold").
		Exec(ctx)
	return err
}
