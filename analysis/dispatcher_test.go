package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saitalent/sporty/models"
)

type stubAnalyzer struct {
	out Outcome
	err error
}

func (s *stubAnalyzer) Analyze(context.Context, Job) (Outcome, error) { return s.out, s.err }

type captureSink struct {
	mu   sync.Mutex
	got  []Outcome
	done chan struct{}
}

func newCaptureSink(n int) *captureSink {
	return &captureSink{done: make(chan struct{}, n)}
}

func (c *captureSink) sink(_ context.Context, _ int64, _ int, out Outcome) error {
	c.mu.Lock()
	c.got = append(c.got, out)
	c.mu.Unlock()
	c.done <- struct{}{}
	return nil
}

func (c *captureSink) wait(t *testing.T) Outcome {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("sink never called")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.got[len(c.got)-1]
}

type captureMarker struct {
	mu       sync.Mutex
	statuses []string
}

func (c *captureMarker) mark(_ context.Context, _ int64, _ int, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses = append(c.statuses, status)
	return nil
}

func (c *captureMarker) seen() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.statuses...)
}

func TestDispatcherDeliversOutcome(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(2, time.Second)
	sink := newCaptureSink(1)
	go d.Start(ctx, &stubAnalyzer{out: Outcome{Score: 81, Points: 81}}, nil, sink.sink)

	require.NoError(t, d.Enqueue(ctx, Job{RecordingID: 1, Attempt: 1}))
	out := sink.wait(t)
	assert.Equal(t, 81.0, out.Score)
	assert.False(t, out.Failed)
}

func TestDispatcherMarksProgress(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(1, time.Second)
	sink := newCaptureSink(1)
	marker := &captureMarker{}
	go d.Start(ctx, &stubAnalyzer{out: Outcome{Score: 70, Points: 70}}, marker.mark, sink.sink)

	require.NoError(t, d.Enqueue(ctx, Job{RecordingID: 4, Attempt: 1}))
	sink.wait(t)
	assert.Equal(t, []string{models.RecordingAnalyzing, models.RecordingCheatChecking}, marker.seen())
}

func TestDispatcherRecordsAnalyzerError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(1, time.Second)
	sink := newCaptureSink(1)
	marker := &captureMarker{}
	go d.Start(ctx, &stubAnalyzer{err: errors.New("decode error")}, marker.mark, sink.sink)

	require.NoError(t, d.Enqueue(ctx, Job{RecordingID: 2, Attempt: 1}))
	out := sink.wait(t)
	assert.True(t, out.Failed)
	assert.Equal(t, "decode error", out.Error)
	assert.Equal(t, []string{models.RecordingAnalyzing}, marker.seen(),
		"a failed analysis never reaches cheat checking")
}

func TestDispatcherSkipsPendingResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewDispatcher(1, time.Second)
	sink := newCaptureSink(2)
	go d.Start(ctx, &stubAnalyzer{err: ErrResultPending}, nil, sink.sink)

	require.NoError(t, d.Enqueue(ctx, Job{RecordingID: 3, Attempt: 1}))
	select {
	case <-sink.done:
		t.Fatal("pending result must not reach the sink")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSimulatedIsDeterministic(t *testing.T) {
	s := &Simulated{}
	job := Job{RecordingID: 7, Attempt: 1, VideoURL: "http://v/x.mp4", TestName: "sit_ups"}

	a, err := s.Analyze(context.Background(), job)
	require.NoError(t, err)
	b, err := s.Analyze(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	job.Attempt = 2
	c, err := s.Analyze(context.Background(), job)
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "different attempts should score differently")

	assert.GreaterOrEqual(t, a.Score, 40.0)
	assert.LessOrEqual(t, a.Score, 95.0)
	assert.GreaterOrEqual(t, a.Confidence, 0.75)
}
