package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookNotifier posts jobs to an external analysis worker. The worker
// processes the video asynchronously and delivers the outcome to the
// results callback endpoint, so Analyze always ends with ErrResultPending.
type WebhookNotifier struct {
	workerURL string
	client    *http.Client
}

// NewWebhookNotifier targets the worker's job-intake URL.
func NewWebhookNotifier(workerURL string) *WebhookNotifier {
	return &WebhookNotifier{
		workerURL: workerURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type workerJob struct {
	RecordingID int64  `json:"recordingID"`
	Attempt     int    `json:"attempt"`
	VideoURL    string `json:"videoURL"`
	TestName    string `json:"testName"`
}

// Analyze hands the job off and returns ErrResultPending on acceptance.
func (w *WebhookNotifier) Analyze(ctx context.Context, job Job) (Outcome, error) {
	body, err := json.Marshal(workerJob(job))
	if err != nil {
		return Outcome{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.workerURL, bytes.NewReader(body))
	if err != nil {
		return Outcome{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return Outcome{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Outcome{}, fmt.Errorf("analysis worker rejected job: %s", resp.Status)
	}
	return Outcome{}, ErrResultPending
}
