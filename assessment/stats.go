package assessment

import (
	"context"
	"time"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// TalentSummary is the athlete's dashboard view.
type TalentSummary struct {
	Athlete       *models.AthleteProfile `json:"athlete"`
	PersonalBests []store.PersonalBest   `json:"personalBests"`
	Badges        []models.AthleteBadge  `json:"badges"`
	Rankings      []models.Leaderboard   `json:"rankings"`
	Submissions   []models.SAISubmission `json:"submissions"`
}

// Summary assembles the athlete's dashboard.
func (s *Service) Summary(ctx context.Context, athleteID int64) (*TalentSummary, error) {
	a, err := s.store.Athletes().ByID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	bests, err := s.store.Recordings().PersonalBests(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	badges, err := s.store.Badges().EarnedBy(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	ranks, err := s.store.Leaderboards().ByAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	subs, err := s.store.Submissions().ByAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	return &TalentSummary{
		Athlete:       a,
		PersonalBests: bests,
		Badges:        badges,
		Rankings:      ranks,
		Submissions:   subs,
	}, nil
}

// PlatformStats is the public rollup of platform activity.
type PlatformStats struct {
	TotalAthletes      int                `json:"totalAthletes"`
	NewAthletesWeek    int                `json:"newAthletesWeek"`
	CompletedSessions  int                `json:"completedSessions"`
	SessionsWeek       int                `json:"sessionsWeek"`
	AnalyzedRecordings int                `json:"analyzedRecordings"`
	AverageTalentScore *float64           `json:"averageTalentScore"`
	TopStates          []store.StateScore `json:"topStates"`
}

// Stats computes the public platform rollup.
func (s *Service) Stats(ctx context.Context) (*PlatformStats, error) {
	weekAgo := time.Now().AddDate(0, 0, -7)

	total, err := s.store.Athletes().Count(ctx)
	if err != nil {
		return nil, err
	}
	newWeek, err := s.store.Athletes().CountSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.Sessions().CountCompleted(ctx)
	if err != nil {
		return nil, err
	}
	sessWeek, err := s.store.Sessions().CountSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}
	analyzed, err := s.store.Recordings().CountCompleted(ctx)
	if err != nil {
		return nil, err
	}
	avg, err := s.store.Athletes().AverageTalentScore(ctx)
	if err != nil {
		return nil, err
	}
	states, err := s.store.Athletes().TopStates(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &PlatformStats{
		TotalAthletes:      total,
		NewAthletesWeek:    newWeek,
		CompletedSessions:  completed,
		SessionsWeek:       sessWeek,
		AnalyzedRecordings: analyzed,
		AverageTalentScore: avg,
		TopStates:          states,
	}, nil
}
