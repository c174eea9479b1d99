// Package metrics exposes Prometheus counters for the assessment pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AthletesRegistered counts new athlete profiles.
	AthletesRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sporty",
		Name:      "athletes_registered_total",
		Help:      "New athlete profiles created.",
	})

	// SessionsStarted counts new assessment sessions.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sporty",
		Name:      "sessions_started_total",
		Help:      "Assessment sessions opened.",
	})

	// RecordingsUploaded counts video uploads, including re-uploads.
	RecordingsUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sporty",
		Name:      "recordings_uploaded_total",
		Help:      "Test recording videos received.",
	})

	// AnalysisResults counts applied analysis outcomes by final status.
	AnalysisResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sporty",
		Name:      "analysis_results_total",
		Help:      "Analysis outcomes applied, by resulting recording status.",
	}, []string{"status"})

	// SAISubmissions counts sessions handed to SAI.
	SAISubmissions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sporty",
		Name:      "sai_submissions_total",
		Help:      "Sessions submitted to SAI.",
	})

	// SubmissionReviews counts official verdicts by status.
	SubmissionReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sporty",
		Name:      "submission_reviews_total",
		Help:      "Official reviews recorded, by verdict.",
	}, []string{"status"})
)
