package assessment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saitalent/sporty/analysis"
	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store/storetest"
)

// fakeQueue records enqueued jobs instead of running analysis.
type fakeQueue struct {
	jobs []analysis.Job
}

func (q *fakeQueue) Enqueue(_ context.Context, job analysis.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

type fixture struct {
	mem     *storetest.Mem
	queue   *fakeQueue
	svc     *Service
	athlete *models.AthleteProfile
	tests   []models.FitnessTest
}

func dob(years int) string {
	return time.Now().AddDate(-years, -1, 0).Format("2006-01-02")
}

// newFixture seeds three active tests, benchmarks, the badge catalog and one
// registered athlete.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	mem := storetest.New()
	queue := &fakeQueue{}
	svc := New(mem, queue, zap.NewNop(), 0.7)

	f := &fixture{mem: mem, queue: queue, svc: svc}

	require.NoError(t, mem.Badges().Upsert(ctx, &models.Badge{Name: models.BadgeWelcome, PointsReward: 10, IsActive: true}))
	require.NoError(t, mem.Badges().Upsert(ctx, &models.Badge{Name: models.BadgeFirstSubmission, PointsReward: 50, IsActive: true}))

	// Registered before the catalog exists so no session auto-opens; the
	// lifecycle tests drive session creation explicitly.
	a, created, err := svc.RegisterAthlete(ctx, Registration{
		AuthUserID:  "auth-1",
		Email:       "kiran@example.in",
		FullName:    "Kiran Kumar",
		DateOfBirth: dob(15),
		Gender:      "male",
		State:       "Karnataka",
	})
	require.NoError(t, err)
	require.True(t, created)
	f.athlete = a

	f.tests = []models.FitnessTest{
		{Name: "vertical_jump", DisplayName: "Vertical Jump", IsActive: true},
		{Name: "shuttle_run", DisplayName: "Shuttle Run", IsActive: true},
		{Name: "sit_ups", DisplayName: "Sit Ups", IsActive: true},
	}
	for i := range f.tests {
		require.NoError(t, mem.Tests().Upsert(ctx, &f.tests[i]))
	}

	for _, tc := range f.tests {
		for _, g := range []string{"male", "female"} {
			require.NoError(t, mem.Benchmarks().Upsert(ctx, &models.AgeBenchmark{
				FitnessTestID:         tc.FitnessTestID,
				AgeMin:                13,
				AgeMax:                15,
				Gender:                g,
				ExcellentThreshold:    88,
				GoodThreshold:         73,
				AverageThreshold:      58,
				BelowAverageThreshold: 42,
			}))
			require.NoError(t, mem.Benchmarks().Upsert(ctx, &models.AgeBenchmark{
				FitnessTestID:         tc.FitnessTestID,
				AgeMin:                16,
				AgeMax:                18,
				Gender:                g,
				ExcellentThreshold:    90,
				GoodThreshold:         75,
				AverageThreshold:      60,
				BelowAverageThreshold: 45,
			}))
		}
	}

	return f
}

// submitAll uploads one recording per test into the session.
func (f *fixture) submitAll(t *testing.T, sessionID int64) []*models.TestRecording {
	t.Helper()
	recs := make([]*models.TestRecording, 0, len(f.tests))
	for _, tc := range f.tests {
		rec, _, err := f.svc.SubmitRecording(context.Background(), f.athlete.AthleteID, Upload{
			SessionID:     sessionID,
			FitnessTestID: tc.FitnessTestID,
			VideoURL:      "http://videos.local/" + tc.Name + ".mp4",
		})
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return recs
}

func TestAgeOn(t *testing.T) {
	cases := []struct {
		dob  string
		now  string
		want int
	}{
		{"2010-06-15", "2025-06-15", 15},
		{"2010-06-15", "2025-06-14", 14},
		{"2012-02-29", "2026-02-28", 13},
		{"2012-02-29", "2026-03-01", 14},
		// Birthday in a leap year, checked on the birthday of a common year.
		{"2012-03-01", "2026-03-01", 14},
		{"2012-03-01", "2026-02-28", 13},
	}
	for _, tc := range cases {
		now, err := time.Parse("2006-01-02", tc.now)
		require.NoError(t, err)
		age, err := AgeOn(tc.dob, now)
		require.NoError(t, err)
		assert.Equal(t, tc.want, age, "dob %s on %s", tc.dob, tc.now)
	}
}

func TestRegisterAthlete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("sign-up awards the welcome badge and points", func(t *testing.T) {
		assert.Equal(t, 15, f.athlete.Age)

		a, err := f.mem.Athletes().ByID(ctx, f.athlete.AthleteID)
		require.NoError(t, err)
		assert.Equal(t, 10, a.TotalPoints)

		earned, err := f.mem.Badges().EarnedBy(ctx, a.AthleteID)
		require.NoError(t, err)
		require.Len(t, earned, 1)
		assert.Equal(t, models.BadgeWelcome, earned[0].Badge.Name)
	})

	t.Run("registering again returns the existing profile", func(t *testing.T) {
		a, created, err := f.svc.RegisterAthlete(ctx, Registration{
			AuthUserID:  "auth-1",
			Email:       "other@example.in",
			FullName:    "Someone Else",
			DateOfBirth: dob(20),
			Gender:      "female",
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, f.athlete.AthleteID, a.AthleteID)
		assert.Equal(t, "Kiran Kumar", a.FullName)

		a2, err := f.mem.Athletes().ByID(ctx, a.AthleteID)
		require.NoError(t, err)
		assert.Equal(t, 10, a2.TotalPoints, "welcome badge must not pay twice")
	})

	t.Run("sign-up opens the first session when tests exist", func(t *testing.T) {
		a, created, err := f.svc.RegisterAthlete(ctx, Registration{
			AuthUserID:  "auth-3",
			Email:       "meera@example.in",
			FullName:    "Meera Nair",
			DateOfBirth: dob(16),
			Gender:      "female",
		})
		require.NoError(t, err)
		require.True(t, created)

		sess, err := f.mem.Sessions().Ongoing(ctx, a.AthleteID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCreated, sess.Status)
		assert.Equal(t, len(f.tests), sess.TotalTests)
	})

	t.Run("future date of birth is rejected", func(t *testing.T) {
		_, _, err := f.svc.RegisterAthlete(ctx, Registration{
			AuthUserID:  "auth-2",
			Email:       "x@example.in",
			FullName:    "X",
			DateOfBirth: time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
			Gender:      "male",
		})
		assert.Error(t, err)
	})
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, created, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, models.SessionCreated, sess.Status)
	assert.Equal(t, 3, sess.TotalTests)
	assert.Equal(t, 0, sess.CompletedTests)

	t.Run("second start returns the ongoing session", func(t *testing.T) {
		again, created, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "another", nil)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, sess.SessionID, again.SessionID)
	})

	recs := f.submitAll(t, sess.SessionID)
	assert.Len(t, f.queue.jobs, 3)
	for _, rec := range recs {
		assert.Equal(t, models.RecordingUploaded, rec.ProcessingStatus)
		assert.Equal(t, 1, rec.Attempt)
	}

	sess, err = f.svc.Session(ctx, f.athlete.AthleteID, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, sess.Status, "all tests uploaded")
	assert.Equal(t, 3, sess.CompletedTests)
	require.NotNil(t, sess.CompletedAt)

	t.Run("upload into a completed session is rejected", func(t *testing.T) {
		_, _, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
			SessionID:     sess.SessionID,
			FitnessTestID: f.tests[0].FitnessTestID,
			VideoURL:      "http://videos.local/late.mp4",
		})
		assert.ErrorIs(t, err, ErrAlreadyCompleted)
	})

	scores := []float64{92, 80, 65}
	for i, rec := range recs {
		applied, err := f.svc.ApplyAnalysisResult(ctx, rec.RecordingID, rec.Attempt, analysis.Outcome{
			Score:      scores[i],
			Percentile: 70,
			Points:     scores[i],
			Confidence: 0.9,
		})
		require.NoError(t, err)
		require.NotNil(t, applied)
		assert.Equal(t, models.RecordingCompleted, applied.ProcessingStatus)
	}

	sess, err = f.svc.Session(ctx, f.athlete.AthleteID, sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess.OverallScore)
	assert.InDelta(t, 79, *sess.OverallScore, 1e-9) // (92+80+65)/3
	require.NotNil(t, sess.OverallGrade)
	assert.Equal(t, "B+", *sess.OverallGrade)
	require.NotNil(t, sess.PercentileRank)
	assert.InDelta(t, 70, *sess.PercentileRank, 1e-9)

	a, err := f.mem.Athletes().ByID(ctx, f.athlete.AthleteID)
	require.NoError(t, err)
	require.NotNil(t, a.OverallTalentScore)
	assert.InDelta(t, 79, *a.OverallTalentScore, 1e-9)
	require.NotNil(t, a.TalentGrade)
	assert.Equal(t, "B+", *a.TalentGrade)
}

func TestReuploadReplacesRecording(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, _, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)

	first, _, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
		SessionID:     sess.SessionID,
		FitnessTestID: f.tests[0].FitnessTestID,
		VideoURL:      "http://videos.local/v1.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Attempt)

	second, updated, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
		SessionID:     sess.SessionID,
		FitnessTestID: f.tests[0].FitnessTestID,
		VideoURL:      "http://videos.local/v2.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, first.RecordingID, second.RecordingID)
	assert.Equal(t, 2, second.Attempt)
	assert.Equal(t, 1, updated.CompletedTests, "re-upload must not advance the counter")

	t.Run("stale result for the replaced upload is discarded", func(t *testing.T) {
		applied, err := f.svc.ApplyAnalysisResult(ctx, first.RecordingID, 1, analysis.Outcome{Score: 99, Points: 99})
		require.NoError(t, err)
		assert.Nil(t, applied)

		rec, err := f.mem.Recordings().ByID(ctx, first.RecordingID)
		require.NoError(t, err)
		assert.Equal(t, models.RecordingUploaded, rec.ProcessingStatus)
		assert.Nil(t, rec.FinalScore)
	})

	t.Run("result for the current attempt applies", func(t *testing.T) {
		applied, err := f.svc.ApplyAnalysisResult(ctx, first.RecordingID, 2, analysis.Outcome{Score: 77, Points: 77, Percentile: 60})
		require.NoError(t, err)
		require.NotNil(t, applied)
		assert.Equal(t, models.RecordingCompleted, applied.ProcessingStatus)
	})

	t.Run("settled slot rejects further uploads", func(t *testing.T) {
		_, _, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
			SessionID:     sess.SessionID,
			FitnessTestID: f.tests[0].FitnessTestID,
			VideoURL:      "http://videos.local/v3.mp4",
		})
		assert.ErrorIs(t, err, ErrAlreadyCompleted)

		got, err := f.mem.Sessions().ByID(ctx, sess.SessionID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CompletedTests)
	})
}

func TestAnalysisProgressReporting(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, _, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)
	rec, _, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
		SessionID:     sess.SessionID,
		FitnessTestID: f.tests[0].FitnessTestID,
		VideoURL:      "http://videos.local/progress.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, 10, rec.ProgressPercent())

	require.NoError(t, f.svc.MarkAnalysisStage(ctx, rec.RecordingID, rec.Attempt, models.RecordingAnalyzing))
	got, err := f.mem.Recordings().ByID(ctx, rec.RecordingID)
	require.NoError(t, err)
	assert.Equal(t, models.RecordingAnalyzing, got.ProcessingStatus)
	assert.Equal(t, 50, got.ProgressPercent())

	require.NoError(t, f.svc.MarkAnalysisStage(ctx, rec.RecordingID, rec.Attempt, models.RecordingCheatChecking))
	got, err = f.mem.Recordings().ByID(ctx, rec.RecordingID)
	require.NoError(t, err)
	assert.Equal(t, 80, got.ProgressPercent())

	t.Run("terminal states need a full result", func(t *testing.T) {
		err := f.svc.MarkAnalysisStage(ctx, rec.RecordingID, rec.Attempt, models.RecordingCompleted)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("stale attempt leaves the recording alone", func(t *testing.T) {
		require.NoError(t, f.svc.MarkAnalysisStage(ctx, rec.RecordingID, rec.Attempt+1, models.RecordingAnalyzing))
		got, err := f.mem.Recordings().ByID(ctx, rec.RecordingID)
		require.NoError(t, err)
		assert.Equal(t, models.RecordingCheatChecking, got.ProcessingStatus)
	})

	applied, err := f.svc.ApplyAnalysisResult(ctx, rec.RecordingID, rec.Attempt, analysis.Outcome{Score: 75, Points: 75})
	require.NoError(t, err)
	require.NotNil(t, applied)
	assert.Equal(t, models.RecordingCompleted, applied.ProcessingStatus, "result applies from cheat_checking")
}

func TestCheatFlagging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, _, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)
	recs := f.submitAll(t, sess.SessionID)

	flagged, err := f.svc.ApplyAnalysisResult(ctx, recs[0].RecordingID, recs[0].Attempt, analysis.Outcome{
		Score:      95,
		Points:     95,
		CheatScore: 0.85,
		CheatFlags: []string{"video_loop"},
	})
	require.NoError(t, err)
	require.NotNil(t, flagged)
	assert.Equal(t, models.RecordingFlagged, flagged.ProcessingStatus)
	assert.True(t, flagged.IsSuspicious)

	for _, rec := range recs[1:] {
		applied, err := f.svc.ApplyAnalysisResult(ctx, rec.RecordingID, rec.Attempt, analysis.Outcome{
			Score:  80,
			Points: 80,
		})
		require.NoError(t, err)
		require.Equal(t, models.RecordingCompleted, applied.ProcessingStatus)
	}

	// The flagged recording never feeds the session aggregate.
	got, err := f.mem.Sessions().ByID(ctx, sess.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got.OverallScore)
	assert.InDelta(t, 80, *got.OverallScore, 1e-9)

	t.Run("manual verification reinstates the scores", func(t *testing.T) {
		verified, err := f.svc.VerifyRecording(ctx, recs[0].RecordingID)
		require.NoError(t, err)
		assert.Equal(t, models.RecordingManuallyVerified, verified.ProcessingStatus)
		assert.True(t, verified.IsSuspicious)

		got, err := f.mem.Sessions().ByID(ctx, sess.SessionID)
		require.NoError(t, err)
		require.NotNil(t, got.OverallScore)
		assert.InDelta(t, 85, *got.OverallScore, 1e-9) // (95+80+80)/3

		_, err = f.svc.VerifyRecording(ctx, recs[0].RecordingID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestAggregationWaitsForSessionCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, _, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)
	first, _, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
		SessionID:     sess.SessionID,
		FitnessTestID: f.tests[0].FitnessTestID,
		VideoURL:      "http://videos.local/early.mp4",
	})
	require.NoError(t, err)

	applied, err := f.svc.ApplyAnalysisResult(ctx, first.RecordingID, first.Attempt, analysis.Outcome{
		Score:  88,
		Points: 88,
	})
	require.NoError(t, err)
	require.Equal(t, models.RecordingCompleted, applied.ProcessingStatus)

	// One of three tests uploaded: the session is still collecting and must
	// not carry an overall score yet.
	got, err := f.mem.Sessions().ByID(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionInProgress, got.Status)
	assert.Nil(t, got.OverallScore)
	assert.Nil(t, got.OverallGrade)

	a, err := f.mem.Athletes().ByID(ctx, f.athlete.AthleteID)
	require.NoError(t, err)
	assert.Nil(t, a.OverallTalentScore)

	t.Run("early results roll up at the completion transition", func(t *testing.T) {
		for _, tc := range f.tests[1:] {
			_, _, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
				SessionID:     sess.SessionID,
				FitnessTestID: tc.FitnessTestID,
				VideoURL:      "http://videos.local/" + tc.Name + ".mp4",
			})
			require.NoError(t, err)
		}

		got, err := f.mem.Sessions().ByID(ctx, sess.SessionID)
		require.NoError(t, err)
		assert.Equal(t, models.SessionCompleted, got.Status)
		require.NotNil(t, got.OverallScore)
		assert.InDelta(t, 88, *got.OverallScore, 1e-9, "the finished analysis counts as soon as the session completes")
	})
}

func TestRetryAnalysis(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, _, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)
	rec, _, err := f.svc.SubmitRecording(ctx, f.athlete.AthleteID, Upload{
		SessionID:     sess.SessionID,
		FitnessTestID: f.tests[0].FitnessTestID,
		VideoURL:      "http://videos.local/bad.mp4",
	})
	require.NoError(t, err)

	fail := func(attempt int) {
		applied, err := f.svc.ApplyAnalysisResult(ctx, rec.RecordingID, attempt, analysis.Outcome{
			Failed: true,
			Error:  "no athlete detected",
		})
		require.NoError(t, err)
		require.NotNil(t, applied)
		require.Equal(t, models.RecordingFailed, applied.ProcessingStatus)
	}

	t.Run("retry not allowed while in flight", func(t *testing.T) {
		_, err := f.svc.RetryAnalysis(ctx, f.athlete.AthleteID, rec.RecordingID)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	fail(1)
	attempt := 1
	for i := 0; i < models.MaxAnalysisRetries; i++ {
		retried, err := f.svc.RetryAnalysis(ctx, f.athlete.AthleteID, rec.RecordingID)
		require.NoError(t, err)
		attempt++
		assert.Equal(t, attempt, retried.Attempt)
		assert.Equal(t, i+1, retried.RetryCount)
		assert.Equal(t, models.RecordingUploaded, retried.ProcessingStatus)
		fail(attempt)
	}

	t.Run("fourth retry is exhausted", func(t *testing.T) {
		_, err := f.svc.RetryAnalysis(ctx, f.athlete.AthleteID, rec.RecordingID)
		assert.ErrorIs(t, err, ErrRetryExhausted)
	})
}

func TestSubmitToSAI(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sess, _, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)

	t.Run("rejected before the session completes", func(t *testing.T) {
		_, _, err := f.svc.SubmitToSAI(ctx, f.athlete.AthleteID, sess.SessionID)
		assert.ErrorIs(t, err, ErrNotReady)
	})

	recs := f.submitAll(t, sess.SessionID)
	for _, rec := range recs {
		_, err := f.svc.ApplyAnalysisResult(ctx, rec.RecordingID, rec.Attempt, analysis.Outcome{
			Score: 85, Points: 85, Percentile: 75,
		})
		require.NoError(t, err)
	}

	sub, created, err := f.svc.SubmitToSAI(ctx, f.athlete.AthleteID, sess.SessionID)
	require.NoError(t, err)
	require.True(t, created)
	assert.True(t, strings.HasPrefix(sub.SAIReferenceID, "SAI"+time.Now().Format("20060102")))
	assert.Len(t, sub.SAIReferenceID, len("SAI")+8+8)
	assert.Equal(t, sub.SAIReferenceID, strings.ToUpper(sub.SAIReferenceID))
	assert.Equal(t, models.SubmissionSubmitted, sub.Status)
	assert.NotEmpty(t, sub.SubmittedData)

	got, err := f.mem.Sessions().ByID(ctx, sess.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionSubmittedToSAI, got.Status)
	require.NotNil(t, got.SubmittedAt)

	a, err := f.mem.Athletes().ByID(ctx, f.athlete.AthleteID)
	require.NoError(t, err)
	assert.Equal(t, 60, a.TotalPoints, "welcome 10 + first submission 50")

	t.Run("repeat submission returns the original", func(t *testing.T) {
		again, created, err := f.svc.SubmitToSAI(ctx, f.athlete.AthleteID, sess.SessionID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, sub.SAIReferenceID, again.SAIReferenceID)

		a, err := f.mem.Athletes().ByID(ctx, f.athlete.AthleteID)
		require.NoError(t, err)
		assert.Equal(t, 60, a.TotalPoints, "badge must not pay twice")
	})

	t.Run("approval verifies the athlete", func(t *testing.T) {
		reviewed, err := f.svc.ReviewSubmission(ctx, "official-7", sub.SubmissionID, Review{
			Status:         models.SubmissionApproved,
			Comments:       "strong endurance profile",
			TalentCategory: "athletics",
		})
		require.NoError(t, err)
		assert.Equal(t, models.SubmissionApproved, reviewed.Status)
		require.NotNil(t, reviewed.ReviewedAt)

		a, err := f.mem.Athletes().ByID(ctx, f.athlete.AthleteID)
		require.NoError(t, err)
		assert.True(t, a.IsVerified)
		assert.Equal(t, models.VerificationVerified, a.VerificationStatus)
	})

	t.Run("settled submissions cannot be re-reviewed", func(t *testing.T) {
		_, err := f.svc.ReviewSubmission(ctx, "official-7", sub.SubmissionID, Review{
			Status: models.SubmissionRejected,
		})
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestBenchmarkComparison(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Age 15 resolves the 13-15 band (good >= 73), not the 16-18 one.
	cmp, err := f.svc.BenchmarkComparison(ctx, f.athlete.AthleteID, f.tests[0].FitnessTestID, 74)
	require.NoError(t, err)
	assert.Equal(t, "good", cmp.Level)
	assert.Equal(t, "13-15", cmp.AgeGroup)
	assert.Equal(t, "male", cmp.Gender)

	t.Run("unknown test", func(t *testing.T) {
		_, err := f.svc.BenchmarkComparison(ctx, f.athlete.AthleteID, 9999, 50)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestOwnershipIsolation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, created, err := f.svc.RegisterAthlete(ctx, Registration{
		AuthUserID:  "auth-other",
		Email:       "other@example.in",
		FullName:    "Asha Rao",
		DateOfBirth: dob(17),
		Gender:      "female",
	})
	require.NoError(t, err)
	require.True(t, created)

	sess, _, err := f.svc.StartSession(ctx, f.athlete.AthleteID, "", nil)
	require.NoError(t, err)

	_, err = f.svc.Session(ctx, other.AthleteID, sess.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.svc.SubmitToSAI(ctx, other.AthleteID, sess.SessionID)
	assert.ErrorIs(t, err, ErrNotFound)
}
