// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package ingest owns the lifecycle of document ingestion jobs. A Tracker
// submits one batch of files, receives the server-assigned job id, and polls
// the job status at a fixed interval until the job reaches a terminal state
// or the polling channel breaks. Exactly one job is tracked at a time; a new
// submission replaces the previous job once that job is terminal.
package ingest

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"nlq/cli/internal/api"
	"nlq/cli/internal/apierrors"
	"nlq/cli/internal/logging"
)

// PollInterval is the fixed delay between job status polls.
// It is not configurable per job.
const PollInterval = 2 * time.Second

// Listener receives every state transition of the tracked job.
// It is invoked under the tracker's lock and must not call back into the Tracker.
type Listener func(api.IngestionJob)

// Tracker tracks a single ingestion job from submission to a terminal state.
//
// Every asynchronous completion is guarded by the submission's generation id:
// once the tracker is closed or a new submission supersedes the job, in-flight
// poll responses are discarded without mutating state.
type Tracker struct {
	client   api.API
	logger   *slog.Logger
	interval time.Duration

	mu       sync.Mutex
	job      *api.IngestionJob
	gen      string
	listener Listener
	cancel   context.CancelFunc
	closed   bool
}

// NewTracker creates a Tracker using the given service client.
func NewTracker(client api.API, logger *slog.Logger) *Tracker {
	return &Tracker{
		client:   client,
		logger:   logging.Default(logger).With("component", "ingest"),
		interval: PollInterval,
	}
}

// SetListener registers the single current subscriber for state transitions.
// Passing nil removes the subscriber.
func (t *Tracker) SetListener(fn Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listener = fn
}

// Job returns a copy of the tracked job, and false when no submission
// has been made yet.
func (t *Tracker) Job() (api.IngestionJob, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.job == nil {
		return api.IngestionJob{}, false
	}
	return *t.job, true
}

// Submit validates and uploads a batch of files, then starts the poll loop.
//
// A submission is allowed only when no job is tracked yet or the tracked job
// is terminal; the new job replaces the old one. When the upload is rejected
// (locally by the pre-filter or by the service) the tracker transitions to
// Failed, no polling starts, and the error is returned.
func (t *Tracker) Submit(ctx context.Context, files []api.UploadFile) error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return apierrors.New(apierrors.UploadRejected, "tracker is closed")
	}
	if t.job != nil && !t.job.Status.Terminal() {
		t.mu.Unlock()
		return apierrors.New(apierrors.UploadRejected, "an ingestion job is already in progress")
	}
	// Pre-filter under the lock; a rejected batch becomes the tracked job's
	// Failed state only when a submission is actually allowed.
	if err := ValidateFiles(files); err != nil {
		t.gen = uuid.NewString()
		t.publishLocked(api.IngestionJob{Status: api.JobFailed, Error: err.Error()})
		t.mu.Unlock()
		return err
	}
	gen := uuid.NewString()
	t.gen = gen
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.publishLocked(api.IngestionJob{Status: api.JobUploading, Total: len(files)})
	t.mu.Unlock()

	jobID, err := t.client.SubmitDocuments(ctx, files)
	if err != nil {
		t.mu.Lock()
		if !t.closed && t.gen == gen {
			t.publishLocked(api.IngestionJob{Status: api.JobFailed, Error: err.Error()})
		}
		t.mu.Unlock()
		return err
	}

	t.mu.Lock()
	if t.closed || t.gen != gen {
		// Superseded or torn down while the upload was in flight.
		t.mu.Unlock()
		return nil
	}
	// Filling in the id is not a state transition; the subscriber was already
	// notified of Uploading when the submission started.
	t.job.ID = jobID
	loopCtx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.mu.Unlock()

	t.logger.Debug("job submitted", "job_id", jobID, "files", len(files))
	go t.pollLoop(loopCtx, gen, jobID)
	return nil
}

// pollLoop waits the fixed interval between polls and applies each status
// snapshot in issue order; a new poll is never started before the previous
// one resolves. The loop exits on a terminal status, a poll failure, or
// cancellation.
func (t *Tracker) pollLoop(ctx context.Context, gen, jobID string) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := t.client.FetchJobStatus(ctx, jobID)
			if err != nil {
				t.failPoll(gen, jobID, err)
				return
			}
			if stop := t.apply(gen, jobID, snap); stop {
				return
			}
		}
	}
}

// apply replaces the tracked job with a fresh snapshot unless the tracker was
// closed or superseded while the poll was in flight. Returns true when polling
// must stop, either because the snapshot is terminal or the job is no longer live.
func (t *Tracker) apply(gen, jobID string, snap *api.IngestionJob) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.gen != gen {
		return true
	}
	job := *snap
	if job.ID == "" {
		job.ID = jobID
	}
	t.publishLocked(job)
	return job.Status.Terminal()
}

// failPoll marks the job Failed after an unrecoverable poll error. Indefinite
// retry on a broken polling channel would spin forever; surfacing the failure
// lets the caller retry with a fresh submission.
func (t *Tracker) failPoll(gen, jobID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.gen != gen {
		return
	}
	t.logger.Debug("poll failed", "job_id", jobID, "error", err)
	t.publishLocked(api.IngestionJob{
		ID:     jobID,
		Status: api.JobFailed,
		Error:  "status polling failed; resubmit the documents to retry",
	})
}

// publishLocked stores the job and notifies the subscriber. Caller holds t.mu.
func (t *Tracker) publishLocked(job api.IngestionJob) {
	t.job = &job
	if t.listener != nil {
		t.listener(job)
	}
}

// Close tears the tracker down. The poll loop stops before its next tick and
// no state mutation occurs afterwards, even when a poll response is still in
// flight.
func (t *Tracker) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
}
