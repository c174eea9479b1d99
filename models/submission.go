package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// SAISubmission review status values.
const (
	SubmissionSubmitted   = "submitted"
	SubmissionUnderReview = "under_review"
	SubmissionApproved    = "approved"
	SubmissionRejected    = "rejected"
)

// SAISubmission is the one-shot hand-off of a completed session to the
// national review body. One row per session; submitted_data is an immutable
// snapshot taken at submission time, the review fields are set later by an
// SAI official.
type SAISubmission struct {
	bun.BaseModel `bun:"table:sai_submissions,alias:sub"`

	SubmissionID   int64  `bun:"submission_id,pk,autoincrement" json:"submissionID"`
	SessionID      int64  `bun:"session_id,notnull,unique" json:"sessionID"`
	AthleteID      int64  `bun:"athlete_id,notnull" json:"athleteID"`
	SAIReferenceID string `bun:"sai_reference_id,notnull,unique" json:"saiReferenceID"`

	SubmittedData json.RawMessage `bun:"submitted_data,notnull,type:jsonb" json:"submittedData"`

	Status            string     `bun:"status,notnull,default:'submitted'" json:"status"`
	SAIOfficerID      *string    `bun:"sai_officer_id" json:"saiOfficerID,omitempty"`
	SAIComments       *string    `bun:"sai_comments" json:"saiComments,omitempty"`
	TalentCategory    *string    `bun:"talent_category" json:"talentCategory,omitempty"`
	RecommendedSports []string   `bun:"recommended_sports,array" json:"recommendedSports,omitempty"`
	ReviewedAt        *time.Time `bun:"reviewed_at" json:"reviewedAt,omitempty"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
