package models

import "github.com/uptrace/bun"

// AgeBenchmark holds the four ordered performance thresholds for one
// (test, age range, gender) combination. Reference data.
type AgeBenchmark struct {
	bun.BaseModel `bun:"table:age_benchmarks,alias:ab"`

	AgeBenchmarkID int64  `bun:"age_benchmark_id,pk,autoincrement" json:"ageBenchmarkID"`
	FitnessTestID  int64  `bun:"fitness_test_id,notnull,unique:age_benchmarks_no_dupes" json:"fitnessTestID"`
	AgeMin         int    `bun:"age_min,notnull,unique:age_benchmarks_no_dupes" json:"ageMin"`
	AgeMax         int    `bun:"age_max,notnull,unique:age_benchmarks_no_dupes" json:"ageMax"`
	Gender         string `bun:"gender,notnull,unique:age_benchmarks_no_dupes" json:"gender"`

	ExcellentThreshold    float64 `bun:"excellent_threshold,notnull" json:"excellentThreshold"`
	GoodThreshold         float64 `bun:"good_threshold,notnull" json:"goodThreshold"`
	AverageThreshold      float64 `bun:"average_threshold,notnull" json:"averageThreshold"`
	BelowAverageThreshold float64 `bun:"below_average_threshold,notnull" json:"belowAverageThreshold"`
}
