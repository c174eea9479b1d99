// Package leaderboard derives ranking rows from athlete talent scores and
// per-test best scores. Boards are recomputed periodically out-of-band
// rather than on read.
package leaderboard

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/saitalent/sporty/models"
	"github.com/saitalent/sporty/store"
)

// Recomputer rebuilds every leaderboard bucket on a fixed interval.
type Recomputer struct {
	store    store.Store
	log      *zap.Logger
	interval time.Duration
}

// New wires a recomputer.
func New(st store.Store, log *zap.Logger, interval time.Duration) *Recomputer {
	return &Recomputer{store: st, log: log, interval: interval}
}

// Run recomputes immediately, then on every tick until ctx is cancelled.
func (r *Recomputer) Run(ctx context.Context) {
	r.log.Info("leaderboard recomputer starting", zap.Duration("interval", r.interval))
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		if err := r.RecomputeAll(ctx); err != nil {
			r.log.Error("leaderboard recompute failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			r.log.Info("leaderboard recomputer stopped")
			return
		case <-t.C:
		}
	}
}

// RecomputeAll rebuilds the overall boards from talent scores and the
// per-test boards from best completed recordings.
func (r *Recomputer) RecomputeAll(ctx context.Context) error {
	if err := r.recomputeOverall(ctx); err != nil {
		return err
	}
	return r.recomputePerTest(ctx)
}

type entry struct {
	athleteID int64
	testID    *int64
	state     string
	ageGroup  string
	gender    string
	score     float64
}

func (r *Recomputer) recomputeOverall(ctx context.Context) error {
	athletes, err := r.store.Athletes().Ranked(ctx)
	if err != nil {
		return err
	}
	entries := make([]entry, 0, len(athletes))
	for _, a := range athletes {
		entries = append(entries, entry{
			athleteID: a.AthleteID,
			state:     a.State,
			ageGroup:  models.AgeGroup(a.Age),
			gender:    a.Gender,
			score:     *a.OverallTalentScore,
		})
	}
	return r.writeBoards(ctx, entries)
}

func (r *Recomputer) recomputePerTest(ctx context.Context) error {
	bests, err := r.store.Recordings().BestScores(ctx)
	if err != nil {
		return err
	}
	entries := make([]entry, 0, len(bests))
	for _, b := range bests {
		testID := b.TestID
		entries = append(entries, entry{
			athleteID: b.AthleteID,
			testID:    &testID,
			state:     b.State,
			ageGroup:  models.AgeGroup(b.Age),
			gender:    b.Gender,
			score:     b.Score,
		})
	}
	return r.writeBoards(ctx, entries)
}

// writeBoards ranks entries within each (scope, age group, gender) bucket,
// descending by score, and upserts one row per athlete per bucket. Every
// entry ranks nationally; entries with a state rank in their state board too.
func (r *Recomputer) writeBoards(ctx context.Context, entries []entry) error {
	type bucketKey struct {
		testID   int64 // 0 for the overall board
		scope    string
		state    string
		ageGroup string
		gender   string
	}
	buckets := map[bucketKey][]entry{}
	add := func(k bucketKey, e entry) { buckets[k] = append(buckets[k], e) }

	for _, e := range entries {
		testID := int64(0)
		if e.testID != nil {
			testID = *e.testID
		}
		add(bucketKey{testID, models.LeaderboardNational, "", e.ageGroup, e.gender}, e)
		if e.state != "" {
			add(bucketKey{testID, models.LeaderboardState, e.state, e.ageGroup, e.gender}, e)
		}
	}

	for k, es := range buckets {
		sort.Slice(es, func(i, j int) bool {
			if es[i].score != es[j].score {
				return es[i].score > es[j].score
			}
			return es[i].athleteID < es[j].athleteID
		})
		for rank, e := range es {
			row := &models.Leaderboard{
				AthleteID:     e.athleteID,
				FitnessTestID: e.testID,
				Type:          k.scope,
				State:         k.state,
				AgeGroup:      k.ageGroup,
				Gender:        k.gender,
				Score:         e.score,
				CurrentRank:   rank + 1,
			}
			if err := r.store.Leaderboards().UpsertRank(ctx, row); err != nil {
				return err
			}
		}
	}
	return nil
}
