package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TestRecording processing status values. RecordingFailed is reachable from
// any in-flight state; the other three terminals end the pipeline.
const (
	RecordingUploaded         = "uploaded"
	RecordingAnalyzing        = "analyzing"
	RecordingCheatChecking    = "cheat_checking"
	RecordingCompleted        = "completed"
	RecordingFlagged          = "flagged"
	RecordingManuallyVerified = "manually_verified"
	RecordingFailed           = "failed"
)

// MaxAnalysisRetries caps explicit analysis retries per recording.
const MaxAnalysisRetries = 3

// TestRecording is one (session, fitness test) video attempt with its
// analysis results. Unique per (session, test); a re-upload replaces the row
// content in place. Attempt increases on every upload or retry and guards
// against stale analysis callbacks.
type TestRecording struct {
	bun.BaseModel `bun:"table:test_recordings,alias:tr"`

	RecordingID   int64 `bun:"recording_id,pk,autoincrement" json:"recordingID"`
	SessionID     int64 `bun:"session_id,notnull,unique:test_recordings_no_dupes" json:"sessionID"`
	FitnessTestID int64 `bun:"fitness_test_id,notnull,unique:test_recordings_no_dupes" json:"fitnessTestID"`
	AthleteID     int64 `bun:"athlete_id,notnull" json:"athleteID"`

	VideoURL      string   `bun:"video_url,notnull" json:"videoURL"`
	VideoDuration *float64 `bun:"video_duration" json:"videoDuration,omitempty"`
	VideoSizeMB   *float64 `bun:"video_size_mb" json:"videoSizeMB,omitempty"`

	DeviceScore      *float64 `bun:"device_score" json:"deviceScore,omitempty"`
	DeviceConfidence *float64 `bun:"device_confidence" json:"deviceConfidence,omitempty"`

	ProcessingStatus string `bun:"processing_status,notnull,default:'uploaded'" json:"processingStatus"`
	Attempt          int    `bun:"attempt,notnull,default:1" json:"attempt"`
	RetryCount       int    `bun:"retry_count,notnull,default:0" json:"retryCount"`
	ProcessingError  *string `bun:"processing_error" json:"processingError,omitempty"`

	FinalScore       *float64 `bun:"final_score" json:"finalScore,omitempty"`
	PerformanceGrade *string  `bun:"performance_grade" json:"performanceGrade,omitempty"`
	Percentile       *float64 `bun:"percentile" json:"percentile,omitempty"`
	PointsEarned     *float64 `bun:"points_earned" json:"pointsEarned,omitempty"`
	AIConfidence     *float64 `bun:"ai_confidence" json:"aiConfidence,omitempty"`

	CheatDetectionScore *float64 `bun:"cheat_detection_score" json:"cheatDetectionScore,omitempty"`
	CheatFlags          []string `bun:"cheat_flags,array" json:"cheatFlags,omitempty"`
	IsSuspicious        bool     `bun:"is_suspicious,notnull,default:false" json:"isSuspicious"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

// InFlight reports whether analysis results may still be applied.
func (r *TestRecording) InFlight() bool {
	switch r.ProcessingStatus {
	case RecordingUploaded, RecordingAnalyzing, RecordingCheatChecking:
		return true
	}
	return false
}

// AnalysisDone reports whether the recording carries final analysis results.
func (r *TestRecording) AnalysisDone() bool {
	switch r.ProcessingStatus {
	case RecordingCompleted, RecordingFlagged, RecordingManuallyVerified:
		return true
	}
	return false
}

// ProgressPercent maps processing status to the fixed progress percentage
// reported to polling clients.
func (r *TestRecording) ProgressPercent() int {
	switch r.ProcessingStatus {
	case RecordingUploaded:
		return 10
	case RecordingAnalyzing:
		return 50
	case RecordingCheatChecking:
		return 80
	case RecordingCompleted, RecordingFlagged, RecordingManuallyVerified:
		return 100
	default:
		return 0
	}
}

// RetryAvailable reports whether another explicit analysis retry is allowed.
func (r *TestRecording) RetryAvailable() bool {
	return r.ProcessingStatus == RecordingFailed && r.RetryCount < MaxAnalysisRetries
}
