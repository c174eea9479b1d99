// Package analysis runs video analysis for test recordings. A Dispatcher
// feeds queued jobs to an Analyzer through a bounded worker pool and writes
// each outcome back through a Sink. Analysis can run in-process (Simulated)
// or on an external worker that reports back over HTTP (WebhookNotifier).
package analysis

import (
	"context"
	"errors"
)

// Job identifies one recording attempt to analyze. Attempt pins the outcome
// to the upload it belongs to; results for superseded attempts are discarded
// by the sink.
type Job struct {
	RecordingID int64
	Attempt     int
	VideoURL    string
	TestName    string
}

// Outcome is the result of analyzing one recording.
type Outcome struct {
	Score      float64
	Percentile float64
	Points     float64
	Confidence float64

	CheatScore float64
	CheatFlags []string

	// Failed marks an unprocessable video. Error carries the reason.
	Failed bool
	Error  string
}

// Analyzer produces an outcome for a job.
type Analyzer interface {
	Analyze(ctx context.Context, job Job) (Outcome, error)
}

// Sink receives each finished outcome.
type Sink func(ctx context.Context, recordingID int64, attempt int, out Outcome) error

// Marker records a recording's move into an intermediate analysis stage
// (analyzing, cheat_checking) so its progress is observable while the job
// runs. A nil Marker skips progress reporting.
type Marker func(ctx context.Context, recordingID int64, attempt int, status string) error

// ErrResultPending is returned by analyzers that hand the job to an external
// worker; the outcome arrives later through the results callback instead of
// the dispatcher's sink.
var ErrResultPending = errors.New("analysis: result pending")

// Failure builds the outcome recorded when analysis itself errors.
func Failure(err error) Outcome {
	return Outcome{Failed: true, Error: err.Error()}
}
