// Package store defines repository interfaces for every persisted entity and
// their PostgreSQL implementations. The assessment and leaderboard cores
// depend only on the interfaces, so they are testable without a live
// database (see storetest).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/saitalent/sporty/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

// Athletes is the repository for athlete profiles.
type Athletes interface {
	ByID(ctx context.Context, id int64) (*models.AthleteProfile, error)
	ByAuthUserID(ctx context.Context, authUserID string) (*models.AthleteProfile, error)
	Create(ctx context.Context, a *models.AthleteProfile) error
	Update(ctx context.Context, a *models.AthleteProfile) error
	// GetOrCreate inserts a if no profile exists for a.AuthUserID, otherwise
	// loads the existing row into a. Pure create-if-absent: existing fields win.
	GetOrCreate(ctx context.Context, a *models.AthleteProfile) (created bool, err error)
	// AddPoints atomically adds pts to total_points and rederives the level.
	AddPoints(ctx context.Context, athleteID int64, pts int) error
	// Ranked returns athletes that have an overall talent score.
	Ranked(ctx context.Context) ([]models.AthleteProfile, error)
	Count(ctx context.Context) (int, error)
	CountSince(ctx context.Context, t time.Time) (int, error)
	TopStates(ctx context.Context, limit int) ([]StateScore, error)
	AverageTalentScore(ctx context.Context) (*float64, error)
}

// FitnessTests is the repository for the test catalog.
type FitnessTests interface {
	ByID(ctx context.Context, id int64) (*models.FitnessTest, error)
	Active(ctx context.Context) ([]models.FitnessTest, error)
	Upsert(ctx context.Context, t *models.FitnessTest) error
}

// Benchmarks is the repository for age/gender benchmark thresholds.
type Benchmarks interface {
	// Lookup selects the benchmark whose [age_min, age_max] contains age for
	// the given test and gender; ErrNotFound when no range matches.
	Lookup(ctx context.Context, testID int64, age int, gender string) (*models.AgeBenchmark, error)
	Upsert(ctx context.Context, b *models.AgeBenchmark) error
}

// Sessions is the repository for assessment sessions.
type Sessions interface {
	ByID(ctx context.Context, id int64) (*models.AssessmentSession, error)
	// Ongoing returns the athlete's created/in_progress session, if any.
	Ongoing(ctx context.Context, athleteID int64) (*models.AssessmentSession, error)
	Create(ctx context.Context, s *models.AssessmentSession) error
	Update(ctx context.Context, s *models.AssessmentSession) error
	// MarkTestStarted atomically increments completed_tests (bounded by
	// total_tests) and moves created to in_progress, returning the updated row.
	MarkTestStarted(ctx context.Context, id int64) (*models.AssessmentSession, error)
	// Finished returns the athlete's sessions that reached completion
	// (completed or submitted_to_sai) and carry an overall score.
	Finished(ctx context.Context, athleteID int64) ([]models.AssessmentSession, error)
	History(ctx context.Context, athleteID int64) ([]models.AssessmentSession, error)
	CountCompleted(ctx context.Context) (int, error)
	CountSince(ctx context.Context, t time.Time) (int, error)
}

// Recordings is the repository for test recordings.
type Recordings interface {
	ByID(ctx context.Context, id int64) (*models.TestRecording, error)
	BySessionAndTest(ctx context.Context, sessionID, testID int64) (*models.TestRecording, error)
	// Upsert inserts the recording or, on the (session, test) uniqueness
	// conflict, replaces the upload content in place and bumps attempt.
	// Reports whether a new row was created; rec is refreshed either way.
	Upsert(ctx context.Context, rec *models.TestRecording) (created bool, err error)
	Update(ctx context.Context, rec *models.TestRecording) error
	// UpdateResult writes analysis-result fields only while the row is still
	// in flight at the given attempt; reports whether the write applied.
	UpdateResult(ctx context.Context, rec *models.TestRecording, attempt int) (applied bool, err error)
	// MarkInFlight moves the recording into an intermediate analysis stage,
	// guarded the same way as UpdateResult so superseded attempts never move.
	MarkInFlight(ctx context.Context, recordingID int64, attempt int, status string) (applied bool, err error)
	CompletedBySession(ctx context.Context, sessionID int64) ([]models.TestRecording, error)
	PersonalBests(ctx context.Context, athleteID int64) ([]PersonalBest, error)
	// BestScores returns each athlete's best completed points per test,
	// joined with the demographics the leaderboard buckets on.
	BestScores(ctx context.Context) ([]BestScore, error)
	CountCompleted(ctx context.Context) (int, error)
}

// Submissions is the repository for SAI submissions.
type Submissions interface {
	ByID(ctx context.Context, id int64) (*models.SAISubmission, error)
	BySession(ctx context.Context, sessionID int64) (*models.SAISubmission, error)
	// CreateIfAbsent atomically inserts sub unless a submission already exists
	// for its session, in which case the existing row is returned untouched.
	CreateIfAbsent(ctx context.Context, sub *models.SAISubmission) (created bool, existing *models.SAISubmission, err error)
	Update(ctx context.Context, sub *models.SAISubmission) error
	ByAthlete(ctx context.Context, athleteID int64) ([]models.SAISubmission, error)
	All(ctx context.Context) ([]models.SAISubmission, error)
}

// Badges is the repository for the badge catalog and earned badges.
type Badges interface {
	ByName(ctx context.Context, name string) (*models.Badge, error)
	Active(ctx context.Context) ([]models.Badge, error)
	Upsert(ctx context.Context, b *models.Badge) error
	// Award earns the badge for the athlete unless already earned
	// (get-or-create); reports whether a new award row was created.
	Award(ctx context.Context, athleteID, badgeID int64) (awarded bool, err error)
	EarnedBy(ctx context.Context, athleteID int64) ([]models.AthleteBadge, error)
}

// Leaderboards is the repository for derived ranking rows.
type Leaderboards interface {
	// UpsertRank writes the bucket row, retaining the old current_rank as
	// previous_rank on overwrite.
	UpsertRank(ctx context.Context, l *models.Leaderboard) error
	Query(ctx context.Context, q LeaderboardQuery) (rows []models.Leaderboard, total int, err error)
	ByAthlete(ctx context.Context, athleteID int64) ([]models.Leaderboard, error)
}

// LeaderboardQuery filters ranking reads. Zero-valued fields are not applied.
type LeaderboardQuery struct {
	Type          string
	State         string
	FitnessTestID *int64
	AgeGroup      string
	Gender        string
	Limit         int
}

// StateScore is a state aggregate for platform stats.
type StateScore struct {
	State    string   `bun:"state" json:"state"`
	AvgScore *float64 `bun:"avg_score" json:"avgScore"`
}

// PersonalBest is an athlete's best final score for one test.
type PersonalBest struct {
	TestName    string  `bun:"name" json:"testName"`
	DisplayName string  `bun:"display_name" json:"displayName"`
	BestScore   float64 `bun:"best_score" json:"bestScore"`
}

// BestScore is the leaderboard recompute input for one (athlete, test).
type BestScore struct {
	AthleteID int64   `bun:"athlete_id"`
	TestID    int64   `bun:"fitness_test_id"`
	Score     float64 `bun:"score"`
	Age       int     `bun:"age"`
	Gender    string  `bun:"gender"`
	State     string  `bun:"state"`
}

// Store bundles the entity repositories behind a single capability surface.
// RunInTx runs fn against a transactional view of the same store; writes made
// through it are committed together or rolled back on error.
type Store interface {
	Athletes() Athletes
	Tests() FitnessTests
	Benchmarks() Benchmarks
	Sessions() Sessions
	Recordings() Recordings
	Submissions() Submissions
	Badges() Badges
	Leaderboards() Leaderboards
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
