// cmd/seed/main.go
// Seeds the reference data: the fitness test catalog, the age/gender
// benchmarks for each test, and the badge catalog. Idempotent; safe to
// re-run after edits.
//
// Usage:
//
//	go run ./cmd/seed
package main

import (
	"context"
	"log"

	"github.com/saitalent/sporty/config"
	bundb "github.com/saitalent/sporty/db"
	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	st := store.New(db)

	tests := []models.FitnessTest{
		{Name: "vertical_jump", DisplayName: "Vertical Jump", Description: "Standing vertical jump height", Unit: "cm", IsActive: true},
		{Name: "shuttle_run", DisplayName: "Shuttle Run", Description: "4x10m shuttle run", Unit: "seconds", IsActive: true},
		{Name: "sit_ups", DisplayName: "Sit Ups", Description: "Sit ups completed in 60 seconds", Unit: "count", IsActive: true},
		{Name: "endurance_run", DisplayName: "Endurance Run", Description: "800m timed run", Unit: "seconds", IsActive: true},
		{Name: "height_weight", DisplayName: "Height & Weight", Description: "Anthropometric measurement", Unit: "", IsActive: true},
	}
	byName := map[string]int64{}
	for i := range tests {
		if err := st.Tests().Upsert(ctx, &tests[i]); err != nil {
			log.Fatalf("seed test %s: %v", tests[i].Name, err)
		}
		byName[tests[i].Name] = tests[i].FitnessTestID
	}
	log.Printf("fitness tests   %d seeded", len(tests))

	// Thresholds are normalized 0-100 scores, not raw measurements; the
	// analysis pipeline scores every test on the same scale.
	type bench struct {
		test                string
		ageMin, ageMax      int
		gender              string
		exc, good, avg, low float64
	}
	var benches []bench
	for _, t := range []string{"vertical_jump", "shuttle_run", "sit_ups", "endurance_run"} {
		for _, g := range []string{"male", "female"} {
			benches = append(benches,
				bench{t, 8, 12, g, 85, 70, 55, 40},
				bench{t, 13, 15, g, 88, 73, 58, 42},
				bench{t, 16, 18, g, 90, 75, 60, 45},
				bench{t, 19, 25, g, 92, 78, 62, 47},
			)
		}
	}
	for _, b := range benches {
		testID, ok := byName[b.test]
		if !ok {
			log.Fatalf("benchmark references unknown test %q", b.test)
		}
		err := st.Benchmarks().Upsert(ctx, &models.AgeBenchmark{
			FitnessTestID:         testID,
			AgeMin:                b.ageMin,
			AgeMax:                b.ageMax,
			Gender:                b.gender,
			ExcellentThreshold:    b.exc,
			GoodThreshold:         b.good,
			AverageThreshold:      b.avg,
			BelowAverageThreshold: b.low,
		})
		if err != nil {
			log.Fatalf("seed benchmark %s %d-%d %s: %v", b.test, b.ageMin, b.ageMax, b.gender, err)
		}
	}
	log.Printf("benchmarks      %d seeded", len(benches))

	badges := []models.Badge{
		{Name: models.BadgeWelcome, Description: "Joined the platform", PointsReward: 10, IsActive: true},
		{Name: models.BadgeFirstSubmission, Description: "First session submitted to SAI", PointsReward: 50, IsActive: true},
		{Name: "Session Master", Description: "Completed five assessment sessions", PointsReward: 100, IsActive: true},
		{Name: "Top Performer", Description: "Scored an A grade or better in a session", PointsReward: 75, IsActive: true},
	}
	for i := range badges {
		if err := st.Badges().Upsert(ctx, &badges[i]); err != nil {
			log.Fatalf("seed badge %s: %v", badges[i].Name, err)
		}
	}
	log.Printf("badges          %d seeded", len(badges))

	log.Println("seed complete")
}
