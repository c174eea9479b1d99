package leaderboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
	"github.com/saitalent/sporty/store/storetest"
)

func seedAthlete(t *testing.T, mem *storetest.Mem, auth, state string, age int, score float64) int64 {
	t.Helper()
	a := &models.AthleteProfile{
		AuthUserID:         auth,
		Email:              auth + "@example.in",
		FullName:           auth,
		DateOfBirth:        "2010-01-01",
		Age:                age,
		Gender:             "male",
		State:              state,
		OverallTalentScore: &score,
	}
	require.NoError(t, mem.Athletes().Create(context.Background(), a))
	return a.AthleteID
}

func TestRecomputeOverallBoards(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()

	first := seedAthlete(t, mem, "a1", "Karnataka", 15, 90)
	second := seedAthlete(t, mem, "a2", "Karnataka", 15, 70)
	third := seedAthlete(t, mem, "a3", "Kerala", 15, 80)

	r := New(mem, zap.NewNop(), time.Minute)
	require.NoError(t, r.RecomputeAll(ctx))

	t.Run("national board ranks all three", func(t *testing.T) {
		rows, total, err := mem.Leaderboards().Query(ctx, store.LeaderboardQuery{
			Type:     models.LeaderboardNational,
			AgeGroup: "13-15",
			Gender:   "male",
		})
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		require.Len(t, rows, 3)
		assert.Equal(t, first, rows[0].AthleteID)
		assert.Equal(t, 1, rows[0].CurrentRank)
		assert.Equal(t, third, rows[1].AthleteID)
		assert.Equal(t, second, rows[2].AthleteID)
		assert.Nil(t, rows[0].FitnessTestID, "overall board has no test")
	})

	t.Run("state board only ranks its athletes", func(t *testing.T) {
		rows, total, err := mem.Leaderboards().Query(ctx, store.LeaderboardQuery{
			Type:     models.LeaderboardState,
			State:    "Karnataka",
			AgeGroup: "13-15",
			Gender:   "male",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, rows, 2)
		assert.Equal(t, first, rows[0].AthleteID)
		assert.Equal(t, second, rows[1].AthleteID)
	})

	t.Run("rank changes keep the previous rank", func(t *testing.T) {
		a, err := mem.Athletes().ByID(ctx, second)
		require.NoError(t, err)
		newScore := 95.0
		a.OverallTalentScore = &newScore
		require.NoError(t, mem.Athletes().Update(ctx, a))

		require.NoError(t, r.RecomputeAll(ctx))

		rows, _, err := mem.Leaderboards().Query(ctx, store.LeaderboardQuery{
			Type:     models.LeaderboardNational,
			AgeGroup: "13-15",
			Gender:   "male",
		})
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, second, rows[0].AthleteID)
		require.NotNil(t, rows[0].PreviousRank)
		assert.Equal(t, 3, *rows[0].PreviousRank)
	})
}

func TestRecomputePerTestBoards(t *testing.T) {
	ctx := context.Background()
	mem := storetest.New()

	athlete := seedAthlete(t, mem, "a1", "Karnataka", 15, 90)
	test := &models.FitnessTest{Name: "vertical_jump", DisplayName: "Vertical Jump", IsActive: true}
	require.NoError(t, mem.Tests().Upsert(ctx, test))

	sess := &models.AssessmentSession{AthleteID: athlete, SessionName: "s", TotalTests: 1}
	require.NoError(t, mem.Sessions().Create(ctx, sess))

	rec := &models.TestRecording{
		SessionID:     sess.SessionID,
		FitnessTestID: test.FitnessTestID,
		AthleteID:     athlete,
		VideoURL:      "http://v/x.mp4",
	}
	_, err := mem.Recordings().Upsert(ctx, rec)
	require.NoError(t, err)
	pts := 88.0
	rec.ProcessingStatus = models.RecordingCompleted
	rec.PointsEarned = &pts
	applied, err := mem.Recordings().UpdateResult(ctx, rec, 1)
	require.NoError(t, err)
	require.True(t, applied)

	require.NoError(t, New(mem, zap.NewNop(), time.Minute).RecomputeAll(ctx))

	testID := test.FitnessTestID
	rows, total, err := mem.Leaderboards().Query(ctx, store.LeaderboardQuery{
		Type:          models.LeaderboardNational,
		FitnessTestID: &testID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, 88.0, rows[0].Score)
	assert.Equal(t, 1, rows[0].CurrentRank)
}
