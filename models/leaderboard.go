package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Leaderboard scope values.
const (
	LeaderboardNational = "national"
	LeaderboardState    = "state"
)

// Leaderboard is one derived ranking row per (athlete, test-or-overall,
// scope, age group, gender) bucket. Rows are recomputed out-of-band; the
// previous rank is retained before each overwrite for rank-delta reporting.
// A NULL fitness_test_id means the overall (talent score) board.
type Leaderboard struct {
	bun.BaseModel `bun:"table:leaderboards,alias:l"`

	LeaderboardID int64  `bun:"leaderboard_id,pk,autoincrement" json:"leaderboardID"`
	AthleteID     int64  `bun:"athlete_id,notnull" json:"athleteID"`
	FitnessTestID *int64 `bun:"fitness_test_id" json:"fitnessTestID,omitempty"`
	Type          string `bun:"leaderboard_type,notnull" json:"leaderboardType"`
	State         string `bun:"state,notnull,default:''" json:"state,omitempty"`
	AgeGroup      string `bun:"age_group,notnull" json:"ageGroup"`
	Gender        string `bun:"gender,notnull" json:"gender"`

	Score        float64 `bun:"score,notnull" json:"score"`
	CurrentRank  int     `bun:"current_rank,notnull" json:"currentRank"`
	PreviousRank *int    `bun:"previous_rank" json:"previousRank,omitempty"`

	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
