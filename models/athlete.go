package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Verification status values for AthleteProfile.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
)

// AthleteProfile holds the identity, demographics and derived talent scores
// for a registered athlete. The auth_user_id comes from the external identity
// provider and is the only link to the auth system.
type AthleteProfile struct {
	bun.BaseModel `bun:"table:athlete_profiles,alias:a"`

	AthleteID        int64     `bun:"athlete_id,pk,autoincrement" json:"athleteID"`
	AuthUserID       string    `bun:"auth_user_id,notnull,unique" json:"authUserID"`
	Email            string    `bun:"email,notnull" json:"email"`
	FullName         string    `bun:"full_name,notnull" json:"fullName"`
	PhoneNumber      string    `bun:"phone_number,notnull,default:''" json:"phoneNumber,omitempty"`
	DateOfBirth      string    `bun:"date_of_birth,notnull,type:date" json:"dateOfBirth"`
	Age              int       `bun:"age,notnull" json:"age"`
	Gender           string    `bun:"gender,notnull" json:"gender"`
	Height           float64   `bun:"height,notnull,default:0" json:"height"`
	Weight           float64   `bun:"weight,notnull,default:0" json:"weight"`
	State            string    `bun:"state,notnull,default:''" json:"state,omitempty"`
	District         string    `bun:"district,notnull,default:''" json:"district,omitempty"`
	Address          string    `bun:"address,notnull,default:''" json:"address,omitempty"`
	PinCode          string    `bun:"pin_code,notnull,default:''" json:"pinCode,omitempty"`
	AadhaarNumber    string    `bun:"aadhaar_number,notnull,default:''" json:"aadhaarNumber,omitempty"`
	LocationCategory string    `bun:"location_category,notnull,default:'urban'" json:"locationCategory,omitempty"`

	OverallTalentScore *float64 `bun:"overall_talent_score" json:"overallTalentScore,omitempty"`
	TalentGrade        *string  `bun:"talent_grade" json:"talentGrade,omitempty"`
	TotalPoints        int      `bun:"total_points,notnull,default:0" json:"totalPoints"`
	Level              int      `bun:"level,notnull,default:1" json:"level"`

	IsVerified         bool   `bun:"is_verified,notnull,default:false" json:"isVerified"`
	VerificationStatus string `bun:"verification_status,notnull,default:'pending'" json:"verificationStatus"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}
