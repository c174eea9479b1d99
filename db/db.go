package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/saitalent/sporty/config"
	"github.com/saitalent/sporty/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.AthleteProfile)(nil),
		(*models.FitnessTest)(nil),
		(*models.AgeBenchmark)(nil),
		(*models.AssessmentSession)(nil),
		(*models.TestRecording)(nil),
		(*models.SAISubmission)(nil),
		(*models.Badge)(nil),
		(*models.AthleteBadge)(nil),
		(*models.Leaderboard)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	// These back the concurrency contracts: a recording row is unique per
	// (session, test), a submission is unique per session, a badge is earned
	// at most once, and a leaderboard bucket holds one row per athlete.
	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'test_recordings_no_dupes') THEN ALTER TABLE test_recordings ADD CONSTRAINT test_recordings_no_dupes UNIQUE (session_id, fitness_test_id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'sai_submissions_one_per_session') THEN ALTER TABLE sai_submissions ADD CONSTRAINT sai_submissions_one_per_session UNIQUE (session_id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'athlete_badges_no_dupes') THEN ALTER TABLE athlete_badges ADD CONSTRAINT athlete_badges_no_dupes UNIQUE (athlete_id, badge_id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'leaderboards_no_dupes') THEN CREATE UNIQUE INDEX leaderboards_no_dupes ON leaderboards (athlete_id, COALESCE(fitness_test_id, 0), leaderboard_type, state, age_group, gender); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'age_benchmarks_no_dupes') THEN ALTER TABLE age_benchmarks ADD CONSTRAINT age_benchmarks_no_dupes UNIQUE (fitness_test_id, age_min, age_max, gender); END IF; END $$`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
