package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// AssessmentSession status values. Terminal at SessionSubmittedToSAI.
const (
	SessionCreated        = "created"
	SessionInProgress     = "in_progress"
	SessionCompleted      = "completed"
	SessionSubmittedToSAI = "submitted_to_sai"
)

// AssessmentSession is one athlete's attempt cycle through the fitness tests.
// completed_tests never exceeds total_tests; overall_score is set only once
// the session reaches completed.
type AssessmentSession struct {
	bun.BaseModel `bun:"table:assessment_sessions,alias:s"`

	SessionID   int64  `bun:"session_id,pk,autoincrement" json:"sessionID"`
	AthleteID   int64  `bun:"athlete_id,notnull" json:"athleteID"`
	SessionName string `bun:"session_name,notnull" json:"sessionName"`
	Status      string `bun:"status,notnull,default:'created'" json:"status"`

	CompletedTests int `bun:"completed_tests,notnull,default:0" json:"completedTests"`
	TotalTests     int `bun:"total_tests,notnull,default:0" json:"totalTests"`

	OverallScore   *float64 `bun:"overall_score" json:"overallScore,omitempty"`
	OverallGrade   *string  `bun:"overall_grade" json:"overallGrade,omitempty"`
	PercentileRank *float64 `bun:"percentile_rank" json:"percentileRank,omitempty"`

	DeviceInfo json.RawMessage `bun:"device_info,type:jsonb,default:'{}'" json:"deviceInfo,omitempty"`

	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	CompletedAt *time.Time `bun:"completed_at" json:"completedAt,omitempty"`
	SubmittedAt *time.Time `bun:"submitted_at" json:"submittedAt,omitempty"`
}

// Done reports whether the session has reached completion, including the
// terminal submitted state.
func (s *AssessmentSession) Done() bool {
	return s.Status == SessionCompleted || s.Status == SessionSubmittedToSAI
}
