package assessment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// Registration carries the profile fields collected at sign-up.
type Registration struct {
	AuthUserID       string  `json:"-"`
	Email            string  `json:"email" validate:"required,email"`
	FullName         string  `json:"fullName" validate:"required"`
	PhoneNumber      string  `json:"phoneNumber"`
	DateOfBirth      string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Gender           string  `json:"gender" validate:"required,oneof=male female other"`
	Height           float64 `json:"height" validate:"gte=0"`
	Weight           float64 `json:"weight" validate:"gte=0"`
	State            string  `json:"state"`
	District         string  `json:"district"`
	Address          string  `json:"address"`
	PinCode          string  `json:"pinCode"`
	AadhaarNumber    string  `json:"aadhaarNumber"`
	LocationCategory string  `json:"locationCategory" validate:"omitempty,oneof=urban rural tribal"`
}

// AgeOn computes completed years between dob (2006-01-02 form) and now.
func AgeOn(dob string, now time.Time) (int, error) {
	d, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, fmt.Errorf("invalid date of birth: %w", err)
	}
	age := now.Year() - d.Year()
	if now.Month() < d.Month() || (now.Month() == d.Month() && now.Day() < d.Day()) {
		age--
	}
	if age < 0 {
		return 0, fmt.Errorf("date of birth %s is in the future", dob)
	}
	return age, nil
}

// RegisterAthlete creates the profile for the authenticated user, or returns
// the existing one unchanged when the identity already registered. A fresh
// profile earns the welcome badge and its points.
func (s *Service) RegisterAthlete(ctx context.Context, reg Registration) (*models.AthleteProfile, bool, error) {
	age, err := AgeOn(reg.DateOfBirth, time.Now())
	if err != nil {
		return nil, false, err
	}

	a := &models.AthleteProfile{
		AuthUserID:         reg.AuthUserID,
		Email:              reg.Email,
		FullName:           reg.FullName,
		PhoneNumber:        reg.PhoneNumber,
		DateOfBirth:        reg.DateOfBirth,
		Age:                age,
		Gender:             reg.Gender,
		Height:             reg.Height,
		Weight:             reg.Weight,
		State:              reg.State,
		District:           reg.District,
		Address:            reg.Address,
		PinCode:            reg.PinCode,
		AadhaarNumber:      reg.AadhaarNumber,
		LocationCategory:   reg.LocationCategory,
		Level:              1,
		VerificationStatus: models.VerificationPending,
	}
	if a.LocationCategory == "" {
		a.LocationCategory = "urban"
	}

	created, err := s.store.Athletes().GetOrCreate(ctx, a)
	if err != nil {
		return nil, false, err
	}
	if created {
		if err := s.awardBadge(ctx, s.store, a.AthleteID, models.BadgeWelcome); err != nil {
			s.log.Error("welcome badge not awarded", zap.Int64("athlete", a.AthleteID), zap.Error(err))
		}
		// First session opens with the profile so the athlete can record
		// immediately. Failure here is not fatal to registration.
		if _, _, err := s.StartSession(ctx, a.AthleteID, "", nil); err != nil {
			s.log.Warn("initial session not opened", zap.Int64("athlete", a.AthleteID), zap.Error(err))
		}
	}
	return a, created, nil
}

// Profile loads the athlete owned by the authenticated user.
func (s *Service) Profile(ctx context.Context, authUserID string) (*models.AthleteProfile, error) {
	a, err := s.store.Athletes().ByAuthUserID(ctx, authUserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	return a, err
}

// UpdateProfile applies the mutable profile fields.
func (s *Service) UpdateProfile(ctx context.Context, authUserID string, reg Registration) (*models.AthleteProfile, error) {
	a, err := s.Profile(ctx, authUserID)
	if err != nil {
		return nil, err
	}
	age, err := AgeOn(reg.DateOfBirth, time.Now())
	if err != nil {
		return nil, err
	}

	a.FullName = reg.FullName
	a.PhoneNumber = reg.PhoneNumber
	a.DateOfBirth = reg.DateOfBirth
	a.Age = age
	a.Gender = reg.Gender
	a.Height = reg.Height
	a.Weight = reg.Weight
	a.State = reg.State
	a.District = reg.District
	a.Address = reg.Address
	a.PinCode = reg.PinCode
	if reg.AadhaarNumber != "" {
		a.AadhaarNumber = reg.AadhaarNumber
	}
	if reg.LocationCategory != "" {
		a.LocationCategory = reg.LocationCategory
	}
	a.UpdatedAt = time.Now()
	if err := s.store.Athletes().Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// awardBadge earns the named badge for the athlete and credits its points.
// Idempotent: an already-earned badge awards nothing.
func (s *Service) awardBadge(ctx context.Context, st store.Store, athleteID int64, name string) error {
	b, err := st.Badges().ByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		s.log.Warn("badge not in catalog", zap.String("badge", name))
		return nil
	}
	if err != nil {
		return err
	}
	awarded, err := st.Badges().Award(ctx, athleteID, b.BadgeID)
	if err != nil || !awarded {
		return err
	}
	if b.PointsReward > 0 {
		if err := st.Athletes().AddPoints(ctx, athleteID, b.PointsReward); err != nil {
			return err
		}
	}
	s.log.Info("badge awarded", zap.Int64("athlete", athleteID), zap.String("badge", name))
	return nil
}
