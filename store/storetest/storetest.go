// Package storetest provides an in-memory store.Store for tests, so the
// assessment and leaderboard cores can be exercised without PostgreSQL.
// Semantics mirror the SQL implementation: uniqueness per (session, test),
// one submission per session, idempotent badge awards, attempt-guarded
// result writes.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// Mem is an in-memory store.Store.
type Mem struct {
	mu sync.Mutex

	nextID int64

	athletesByID   map[int64]*models.AthleteProfile
	athletesByAuth map[string]int64

	tests      map[int64]*models.FitnessTest
	benchmarks []*models.AgeBenchmark

	sessionsByID map[int64]*models.AssessmentSession

	recordingsByID   map[int64]*models.TestRecording
	recordingsByPair map[[2]int64]int64

	submissionsByID      map[int64]*models.SAISubmission
	submissionsBySession map[int64]int64

	badgesByID   map[int64]*models.Badge
	badgesByName map[string]int64
	earned       map[[2]int64]*models.AthleteBadge

	boards map[string]*models.Leaderboard
}

// New creates an empty in-memory store.
func New() *Mem {
	return &Mem{
		athletesByID:         map[int64]*models.AthleteProfile{},
		athletesByAuth:       map[string]int64{},
		tests:                map[int64]*models.FitnessTest{},
		sessionsByID:         map[int64]*models.AssessmentSession{},
		recordingsByID:       map[int64]*models.TestRecording{},
		recordingsByPair:     map[[2]int64]int64{},
		submissionsByID:      map[int64]*models.SAISubmission{},
		submissionsBySession: map[int64]int64{},
		badgesByID:           map[int64]*models.Badge{},
		badgesByName:         map[string]int64{},
		earned:               map[[2]int64]*models.AthleteBadge{},
		boards:               map[string]*models.Leaderboard{},
	}
}

func (m *Mem) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *Mem) Athletes() store.Athletes         { return (*memAthletes)(m) }
func (m *Mem) Tests() store.FitnessTests        { return (*memTests)(m) }
func (m *Mem) Benchmarks() store.Benchmarks     { return (*memBenchmarks)(m) }
func (m *Mem) Sessions() store.Sessions         { return (*memSessions)(m) }
func (m *Mem) Recordings() store.Recordings     { return (*memRecordings)(m) }
func (m *Mem) Submissions() store.Submissions   { return (*memSubmissions)(m) }
func (m *Mem) Badges() store.Badges             { return (*memBadges)(m) }
func (m *Mem) Leaderboards() store.Leaderboards { return (*memLeaderboards)(m) }

// RunInTx runs fn against the same store. The in-memory implementation does
// not roll back on error; tests that need fault atomicity assert on state
// explicitly.
func (m *Mem) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	return fn(ctx, m)
}

// ---- athletes ----

type memAthletes Mem

func (r *memAthletes) ByID(_ context.Context, id int64) (*models.AthleteProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletesByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memAthletes) ByAuthUserID(_ context.Context, authUserID string) (*models.AthleteProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.athletesByAuth[authUserID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r.athletesByID[id]
	return &cp, nil
}

func (r *memAthletes) Create(_ context.Context, a *models.AthleteProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.athletesByAuth[a.AuthUserID]; dup {
		return fmt.Errorf("duplicate auth_user_id %q", a.AuthUserID)
	}
	a.AthleteID = (*Mem)(r).id()
	a.CreatedAt = time.Now()
	cp := *a
	r.athletesByID[a.AthleteID] = &cp
	r.athletesByAuth[a.AuthUserID] = a.AthleteID
	return nil
}

func (r *memAthletes) Update(_ context.Context, a *models.AthleteProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.athletesByID[a.AthleteID]; !ok {
		return store.ErrNotFound
	}
	cp := *a
	r.athletesByID[a.AthleteID] = &cp
	return nil
}

func (r *memAthletes) GetOrCreate(ctx context.Context, a *models.AthleteProfile) (bool, error) {
	r.mu.Lock()
	if id, ok := r.athletesByAuth[a.AuthUserID]; ok {
		*a = *r.athletesByID[id]
		r.mu.Unlock()
		return false, nil
	}
	r.mu.Unlock()
	return true, r.Create(ctx, a)
}

func (r *memAthletes) AddPoints(_ context.Context, athleteID int64, pts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.athletesByID[athleteID]
	if !ok {
		return store.ErrNotFound
	}
	a.TotalPoints += pts
	a.Level = a.TotalPoints/100 + 1
	return nil
}

func (r *memAthletes) Ranked(_ context.Context) ([]models.AthleteProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AthleteProfile
	for _, a := range r.athletesByID {
		if a.OverallTalentScore != nil {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AthleteID < out[j].AthleteID })
	return out, nil
}

func (r *memAthletes) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.athletesByID), nil
}

func (r *memAthletes) CountSince(_ context.Context, t time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.athletesByID {
		if !a.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

func (r *memAthletes) TopStates(_ context.Context, limit int) ([]store.StateScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[string][2]float64{} // sum, count
	for _, a := range r.athletesByID {
		if a.State == "" || a.OverallTalentScore == nil {
			continue
		}
		s := sums[a.State]
		sums[a.State] = [2]float64{s[0] + *a.OverallTalentScore, s[1] + 1}
	}
	var out []store.StateScore
	for st, s := range sums {
		avg := s[0] / s[1]
		out = append(out, store.StateScore{State: st, AvgScore: &avg})
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].AvgScore > *out[j].AvgScore })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memAthletes) AverageTalentScore(_ context.Context) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sum, n := 0.0, 0
	for _, a := range r.athletesByID {
		if a.OverallTalentScore != nil {
			sum += *a.OverallTalentScore
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

// ---- fitness tests ----

type memTests Mem

func (r *memTests) ByID(_ context.Context, id int64) (*models.FitnessTest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tests[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTests) Active(_ context.Context) ([]models.FitnessTest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.FitnessTest
	for _, t := range r.tests {
		if t.IsActive {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FitnessTestID < out[j].FitnessTestID })
	return out, nil
}

func (r *memTests) Upsert(_ context.Context, t *models.FitnessTest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.tests {
		if existing.Name == t.Name {
			t.FitnessTestID = existing.FitnessTestID
			cp := *t
			r.tests[t.FitnessTestID] = &cp
			return nil
		}
	}
	t.FitnessTestID = (*Mem)(r).id()
	cp := *t
	r.tests[t.FitnessTestID] = &cp
	return nil
}

// ---- benchmarks ----

type memBenchmarks Mem

func (r *memBenchmarks) Lookup(_ context.Context, testID int64, age int, gender string) (*models.AgeBenchmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.benchmarks {
		if b.FitnessTestID == testID && b.Gender == gender && b.AgeMin <= age && age <= b.AgeMax {
			cp := *b
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (r *memBenchmarks) Upsert(_ context.Context, b *models.AgeBenchmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.benchmarks {
		if existing.FitnessTestID == b.FitnessTestID && existing.AgeMin == b.AgeMin &&
			existing.AgeMax == b.AgeMax && existing.Gender == b.Gender {
			b.AgeBenchmarkID = existing.AgeBenchmarkID
			cp := *b
			r.benchmarks[i] = &cp
			return nil
		}
	}
	b.AgeBenchmarkID = (*Mem)(r).id()
	cp := *b
	r.benchmarks = append(r.benchmarks, &cp)
	return nil
}

// ---- sessions ----

type memSessions Mem

func (r *memSessions) ByID(_ context.Context, id int64) (*models.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessionsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSessions) Ongoing(_ context.Context, athleteID int64) (*models.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *models.AssessmentSession
	for _, s := range r.sessionsByID {
		if s.AthleteID != athleteID {
			continue
		}
		if s.Status != models.SessionCreated && s.Status != models.SessionInProgress {
			continue
		}
		if latest == nil || s.CreatedAt.After(latest.CreatedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	cp := *latest
	return &cp, nil
}

func (r *memSessions) Create(_ context.Context, s *models.AssessmentSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.SessionID = (*Mem)(r).id()
	s.CreatedAt = time.Now()
	if s.Status == "" {
		s.Status = models.SessionCreated
	}
	cp := *s
	r.sessionsByID[s.SessionID] = &cp
	return nil
}

func (r *memSessions) Update(_ context.Context, s *models.AssessmentSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessionsByID[s.SessionID]; !ok {
		return store.ErrNotFound
	}
	cp := *s
	r.sessionsByID[s.SessionID] = &cp
	return nil
}

func (r *memSessions) MarkTestStarted(_ context.Context, id int64) (*models.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessionsByID[id]
	if !ok || s.CompletedTests >= s.TotalTests {
		return nil, store.ErrNotFound
	}
	s.CompletedTests++
	if s.Status == models.SessionCreated {
		s.Status = models.SessionInProgress
	}
	cp := *s
	return &cp, nil
}

func (r *memSessions) Finished(_ context.Context, athleteID int64) ([]models.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AssessmentSession
	for _, s := range r.sessionsByID {
		if s.AthleteID == athleteID && s.Done() && s.OverallScore != nil {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out, nil
}

func (r *memSessions) History(_ context.Context, athleteID int64) ([]models.AssessmentSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AssessmentSession
	for _, s := range r.sessionsByID {
		if s.AthleteID == athleteID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memSessions) CountCompleted(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessionsByID {
		if s.Done() {
			n++
		}
	}
	return n, nil
}

func (r *memSessions) CountSince(_ context.Context, t time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sessionsByID {
		if !s.CreatedAt.Before(t) {
			n++
		}
	}
	return n, nil
}

// ---- recordings ----

type memRecordings Mem

func (r *memRecordings) ByID(_ context.Context, id int64) (*models.TestRecording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recordingsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *memRecordings) BySessionAndTest(_ context.Context, sessionID, testID int64) (*models.TestRecording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.recordingsByPair[[2]int64{sessionID, testID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r.recordingsByID[id]
	return &cp, nil
}

func (r *memRecordings) Upsert(_ context.Context, rec *models.TestRecording) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{rec.SessionID, rec.FitnessTestID}
	if id, ok := r.recordingsByPair[key]; ok {
		old := r.recordingsByID[id]
		old.VideoURL = rec.VideoURL
		old.VideoDuration = rec.VideoDuration
		old.VideoSizeMB = rec.VideoSizeMB
		old.DeviceScore = rec.DeviceScore
		old.DeviceConfidence = rec.DeviceConfidence
		old.ProcessingStatus = models.RecordingUploaded
		old.ProcessingError = nil
		old.Attempt++
		old.UpdatedAt = time.Now()
		*rec = *old
		return false, nil
	}
	rec.RecordingID = (*Mem)(r).id()
	rec.Attempt = 1
	rec.ProcessingStatus = models.RecordingUploaded
	rec.CreatedAt = time.Now()
	cp := *rec
	r.recordingsByID[rec.RecordingID] = &cp
	r.recordingsByPair[key] = rec.RecordingID
	return true, nil
}

func (r *memRecordings) Update(_ context.Context, rec *models.TestRecording) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.recordingsByID[rec.RecordingID]; !ok {
		return store.ErrNotFound
	}
	cp := *rec
	r.recordingsByID[rec.RecordingID] = &cp
	return nil
}

func (r *memRecordings) UpdateResult(_ context.Context, rec *models.TestRecording, attempt int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.recordingsByID[rec.RecordingID]
	if !ok {
		return false, store.ErrNotFound
	}
	if cur.Attempt != attempt || !cur.InFlight() {
		return false, nil
	}
	cur.ProcessingStatus = rec.ProcessingStatus
	cur.ProcessingError = rec.ProcessingError
	cur.FinalScore = rec.FinalScore
	cur.PerformanceGrade = rec.PerformanceGrade
	cur.Percentile = rec.Percentile
	cur.PointsEarned = rec.PointsEarned
	cur.AIConfidence = rec.AIConfidence
	cur.CheatDetectionScore = rec.CheatDetectionScore
	cur.CheatFlags = rec.CheatFlags
	cur.IsSuspicious = rec.IsSuspicious
	cur.UpdatedAt = time.Now()
	return true, nil
}

func (r *memRecordings) MarkInFlight(_ context.Context, recordingID int64, attempt int, status string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.recordingsByID[recordingID]
	if !ok {
		return false, store.ErrNotFound
	}
	if cur.Attempt != attempt || !cur.InFlight() {
		return false, nil
	}
	cur.ProcessingStatus = status
	cur.UpdatedAt = time.Now()
	return true, nil
}

// scoreable mirrors the status filter the SQL store applies to aggregation queries.
func scoreable(status string) bool {
	return status == models.RecordingCompleted || status == models.RecordingManuallyVerified
}

func (r *memRecordings) CompletedBySession(_ context.Context, sessionID int64) ([]models.TestRecording, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TestRecording
	for _, rec := range r.recordingsByID {
		if rec.SessionID == sessionID && scoreable(rec.ProcessingStatus) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FitnessTestID < out[j].FitnessTestID })
	return out, nil
}

func (r *memRecordings) PersonalBests(_ context.Context, athleteID int64) ([]store.PersonalBest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	best := map[int64]float64{}
	for _, rec := range r.recordingsByID {
		if rec.AthleteID != athleteID || !scoreable(rec.ProcessingStatus) || rec.FinalScore == nil {
			continue
		}
		if cur, ok := best[rec.FitnessTestID]; !ok || *rec.FinalScore > cur {
			best[rec.FitnessTestID] = *rec.FinalScore
		}
	}
	var out []store.PersonalBest
	for testID, score := range best {
		t := r.tests[testID]
		if t == nil {
			continue
		}
		out = append(out, store.PersonalBest{TestName: t.Name, DisplayName: t.DisplayName, BestScore: score})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TestName < out[j].TestName })
	return out, nil
}

func (r *memRecordings) BestScores(_ context.Context) ([]store.BestScore, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	best := map[[2]int64]float64{}
	for _, rec := range r.recordingsByID {
		if !scoreable(rec.ProcessingStatus) || rec.PointsEarned == nil {
			continue
		}
		key := [2]int64{rec.AthleteID, rec.FitnessTestID}
		if cur, ok := best[key]; !ok || *rec.PointsEarned > cur {
			best[key] = *rec.PointsEarned
		}
	}
	var out []store.BestScore
	for key, score := range best {
		a := r.athletesByID[key[0]]
		if a == nil {
			continue
		}
		out = append(out, store.BestScore{
			AthleteID: key[0],
			TestID:    key[1],
			Score:     score,
			Age:       a.Age,
			Gender:    a.Gender,
			State:     a.State,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AthleteID != out[j].AthleteID {
			return out[i].AthleteID < out[j].AthleteID
		}
		return out[i].TestID < out[j].TestID
	})
	return out, nil
}

func (r *memRecordings) CountCompleted(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rec := range r.recordingsByID {
		if scoreable(rec.ProcessingStatus) {
			n++
		}
	}
	return n, nil
}

// ---- submissions ----

type memSubmissions Mem

func (r *memSubmissions) ByID(_ context.Context, id int64) (*models.SAISubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.submissionsByID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *sub
	return &cp, nil
}

func (r *memSubmissions) BySession(_ context.Context, sessionID int64) (*models.SAISubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.submissionsBySession[sessionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r.submissionsByID[id]
	return &cp, nil
}

func (r *memSubmissions) CreateIfAbsent(_ context.Context, sub *models.SAISubmission) (bool, *models.SAISubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.submissionsBySession[sub.SessionID]; ok {
		cp := *r.submissionsByID[id]
		return false, &cp, nil
	}
	sub.SubmissionID = (*Mem)(r).id()
	sub.CreatedAt = time.Now()
	if sub.Status == "" {
		sub.Status = models.SubmissionSubmitted
	}
	cp := *sub
	r.submissionsByID[sub.SubmissionID] = &cp
	r.submissionsBySession[sub.SessionID] = sub.SubmissionID
	return true, sub, nil
}

func (r *memSubmissions) Update(_ context.Context, sub *models.SAISubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submissionsByID[sub.SubmissionID]; !ok {
		return store.ErrNotFound
	}
	cp := *sub
	r.submissionsByID[sub.SubmissionID] = &cp
	return nil
}

func (r *memSubmissions) ByAthlete(_ context.Context, athleteID int64) ([]models.SAISubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SAISubmission
	for _, sub := range r.submissionsByID {
		if sub.AthleteID == athleteID {
			out = append(out, *sub)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionID < out[j].SubmissionID })
	return out, nil
}

func (r *memSubmissions) All(_ context.Context) ([]models.SAISubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.SAISubmission
	for _, sub := range r.submissionsByID {
		out = append(out, *sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionID < out[j].SubmissionID })
	return out, nil
}

// ---- badges ----

type memBadges Mem

func (r *memBadges) ByName(_ context.Context, name string) (*models.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.badgesByName[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r.badgesByID[id]
	return &cp, nil
}

func (r *memBadges) Active(_ context.Context) ([]models.Badge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Badge
	for _, b := range r.badgesByID {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BadgeID < out[j].BadgeID })
	return out, nil
}

func (r *memBadges) Upsert(_ context.Context, b *models.Badge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.badgesByName[b.Name]; ok {
		b.BadgeID = id
		cp := *b
		r.badgesByID[id] = &cp
		return nil
	}
	b.BadgeID = (*Mem)(r).id()
	cp := *b
	r.badgesByID[b.BadgeID] = &cp
	r.badgesByName[b.Name] = b.BadgeID
	return nil
}

func (r *memBadges) Award(_ context.Context, athleteID, badgeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]int64{athleteID, badgeID}
	if _, ok := r.earned[key]; ok {
		return false, nil
	}
	r.earned[key] = &models.AthleteBadge{
		AthleteBadgeID: (*Mem)(r).id(),
		AthleteID:      athleteID,
		BadgeID:        badgeID,
		EarnedAt:       time.Now(),
	}
	return true, nil
}

func (r *memBadges) EarnedBy(_ context.Context, athleteID int64) ([]models.AthleteBadge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AthleteBadge
	for key, ab := range r.earned {
		if key[0] != athleteID {
			continue
		}
		cp := *ab
		if b, ok := r.badgesByID[ab.BadgeID]; ok {
			bcp := *b
			cp.Badge = &bcp
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AthleteBadgeID < out[j].AthleteBadgeID })
	return out, nil
}

// ---- leaderboards ----

type memLeaderboards Mem

func bucketKey(l *models.Leaderboard) string {
	testID := int64(0)
	if l.FitnessTestID != nil {
		testID = *l.FitnessTestID
	}
	return fmt.Sprintf("%d|%d|%s|%s|%s|%s", l.AthleteID, testID, l.Type, l.State, l.AgeGroup, l.Gender)
}

func (r *memLeaderboards) UpsertRank(_ context.Context, l *models.Leaderboard) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := bucketKey(l)
	if old, ok := r.boards[key]; ok {
		prev := old.CurrentRank
		old.PreviousRank = &prev
		old.CurrentRank = l.CurrentRank
		old.Score = l.Score
		old.UpdatedAt = time.Now()
		return nil
	}
	l.LeaderboardID = (*Mem)(r).id()
	l.UpdatedAt = time.Now()
	cp := *l
	r.boards[key] = &cp
	return nil
}

func (r *memLeaderboards) Query(_ context.Context, q store.LeaderboardQuery) ([]models.Leaderboard, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []models.Leaderboard
	for _, l := range r.boards {
		if q.Type != "" && l.Type != q.Type {
			continue
		}
		if q.State != "" && l.State != q.State {
			continue
		}
		if q.FitnessTestID != nil && (l.FitnessTestID == nil || *l.FitnessTestID != *q.FitnessTestID) {
			continue
		}
		if q.AgeGroup != "" && l.AgeGroup != q.AgeGroup {
			continue
		}
		if q.Gender != "" && l.Gender != q.Gender {
			continue
		}
		all = append(all, *l)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CurrentRank < all[j].CurrentRank })
	total := len(all)
	if q.Limit > 0 && len(all) > q.Limit {
		all = all[:q.Limit]
	}
	return all, total, nil
}

func (r *memLeaderboards) ByAthlete(_ context.Context, athleteID int64) ([]models.Leaderboard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Leaderboard
	for _, l := range r.boards {
		if l.AthleteID == athleteID {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentRank < out[j].CurrentRank })
	return out, nil
}
