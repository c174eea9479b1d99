package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Badge names awarded automatically at lifecycle milestones.
const (
	BadgeWelcome         = "Welcome to SAI"
	BadgeFirstSubmission = "First SAI Submission"
)

// Badge is a catalog entry for an earnable badge.
type Badge struct {
	bun.BaseModel `bun:"table:badges,alias:b"`

	BadgeID      int64  `bun:"badge_id,pk,autoincrement" json:"badgeID"`
	Name         string `bun:"name,notnull,unique" json:"name"`
	Description  string `bun:"description,notnull,default:''" json:"description,omitempty"`
	PointsReward int    `bun:"points_reward,notnull,default:0" json:"pointsReward"`
	IsActive     bool   `bun:"is_active,notnull,default:true" json:"isActive"`
}

// AthleteBadge joins an athlete to an earned badge. Unique per
// (athlete, badge) so awards are idempotent.
type AthleteBadge struct {
	bun.BaseModel `bun:"table:athlete_badges,alias:abg"`

	AthleteBadgeID int64     `bun:"athlete_badge_id,pk,autoincrement" json:"athleteBadgeID"`
	AthleteID      int64     `bun:"athlete_id,notnull,unique:athlete_badges_no_dupes" json:"athleteID"`
	BadgeID        int64     `bun:"badge_id,notnull,unique:athlete_badges_no_dupes" json:"badgeID"`
	EarnedAt       time.Time `bun:"earned_at,notnull,default:current_timestamp" json:"earnedAt"`

	Badge *Badge `bun:"rel:belongs-to,join:badge_id=badge_id" json:"badge,omitempty"`
}
