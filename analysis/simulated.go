package analysis

import (
	"context"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Simulated scores recordings in-process. It stands in for the real computer
// vision worker in development and fills the same outcome shape; results are
// deterministic per (video, test, attempt) so repeat runs agree.
type Simulated struct {
	// Delay imitates processing latency. Zero in tests.
	Delay time.Duration
}

// Analyze derives a plausible outcome from the job identity.
func (s *Simulated) Analyze(ctx context.Context, job Job) (Outcome, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		}
	}

	h := fnv.New64a()
	h.Write([]byte(job.VideoURL))
	h.Write([]byte(job.TestName))
	h.Write([]byte{byte(job.Attempt)})
	rng := rand.New(rand.NewPCG(h.Sum64(), uint64(job.RecordingID)))

	score := 40 + rng.Float64()*55
	out := Outcome{
		Score:      round2(score),
		Percentile: round2(20 + rng.Float64()*75),
		Points:     round2(score),
		Confidence: round2(0.75 + rng.Float64()*0.2),
		CheatScore: round2(rng.Float64() * 0.4),
	}
	if out.CheatScore > 0.3 {
		out.CheatFlags = []string{"irregular_motion"}
	}
	return out, nil
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
