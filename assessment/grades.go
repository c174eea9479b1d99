package assessment

import (
	"github.com/saitalent/sporty/models"
)

// Grade maps a 0–100 score onto the performance grade ladder.
func Grade(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B+"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C+"
	default:
		return "C"
	}
}

// Comparison places one score against the athlete's age/gender benchmark.
type Comparison struct {
	Level        string   `json:"level"`
	Score        float64  `json:"score"`
	NextLevel    *string  `json:"nextLevel,omitempty"`
	PointsToNext *float64 `json:"pointsToNext,omitempty"`
	AgeGroup     string   `json:"ageGroup"`
	Gender       string   `json:"gender"`
}

// Compare classifies score against b. Thresholds are inclusive lower bounds
// in descending order; below_average is the bottom of the ladder, so its
// threshold never acts as a floor.
func Compare(b *models.AgeBenchmark, score float64) Comparison {
	type level struct {
		name string
		min  float64
	}
	ladder := []level{
		{"excellent", b.ExcellentThreshold},
		{"good", b.GoodThreshold},
		{"average", b.AverageThreshold},
		{"below_average", b.BelowAverageThreshold},
	}

	c := Comparison{Score: score}
	for i, l := range ladder {
		if score < l.min && i < len(ladder)-1 {
			continue
		}
		c.Level = l.name
		if i > 0 {
			next := ladder[i-1]
			gap := next.min - score
			c.NextLevel = &next.name
			c.PointsToNext = &gap
		}
		break
	}
	return c
}
