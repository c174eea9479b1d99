// Package assessment implements the talent-assessment core: athlete
// registration, session lifecycle, recording submission and analysis
// results, score aggregation, SAI submission and official review.
package assessment

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/saitalent/sporty/analysis"
	"github.com/saitalent/sporty/store"
)

// Sentinel errors the HTTP layer maps to response codes.
var (
	// ErrNotFound covers missing entities and entities owned by another athlete.
	ErrNotFound = errors.New("assessment: not found")
	// ErrInvalidState rejects an operation the entity's current status forbids.
	ErrInvalidState = errors.New("assessment: invalid state")
	// ErrAlreadyCompleted rejects uploads into a finished session.
	ErrAlreadyCompleted = errors.New("assessment: session already completed")
	// ErrNotReady rejects SAI submission before the session completes.
	ErrNotReady = errors.New("assessment: session not ready for submission")
	// ErrRetryExhausted rejects analysis retries past the cap.
	ErrRetryExhausted = errors.New("assessment: analysis retries exhausted")
)

// Queue accepts analysis work. Satisfied by analysis.Dispatcher.
type Queue interface {
	Enqueue(ctx context.Context, job analysis.Job) error
}

// Service is the assessment core. All persistence goes through the store;
// analysis is fire-and-forget through the queue with results applied via
// ApplyAnalysisResult.
type Service struct {
	store          store.Store
	queue          Queue
	log            *zap.Logger
	cheatThreshold float64
}

// New wires the service. cheatThreshold is the cheat-detection score above
// which a recording is flagged instead of completed.
func New(st store.Store, q Queue, log *zap.Logger, cheatThreshold float64) *Service {
	return &Service{store: st, queue: q, log: log, cheatThreshold: cheatThreshold}
}
