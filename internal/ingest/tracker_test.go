// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nlq/cli/internal/api"
)

const testInterval = 5 * time.Millisecond

// statusReply is one scripted answer of the fake transport.
type statusReply struct {
	job *api.IngestionJob
	err error
}

// fakeAPI scripts SubmitDocuments and FetchJobStatus responses and counts
// polls. When blockPolls is set, each FetchJobStatus call signals pollStarted
// and waits for pollRelease, letting tests interleave teardown with an
// in-flight response.
type fakeAPI struct {
	mu        sync.Mutex
	submitID  string
	submitErr error
	replies   []statusReply
	polls     int

	blockPolls  bool
	pollStarted chan struct{}
	pollRelease chan struct{}
}

func (f *fakeAPI) Connect(context.Context, string) (*api.ConnectionResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) FetchSchema(context.Context) (*api.SchemaSnapshot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) SubmitDocuments(_ context.Context, files []api.UploadFile) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.submitID, nil
}

func (f *fakeAPI) FetchJobStatus(_ context.Context, jobID string) (*api.IngestionJob, error) {
	f.mu.Lock()
	idx := f.polls
	f.polls++
	if idx >= len(f.replies) {
		idx = len(f.replies) - 1
	}
	reply := f.replies[idx]
	f.mu.Unlock()

	if f.blockPolls {
		f.pollStarted <- struct{}{}
		<-f.pollRelease
	}
	if reply.err != nil {
		return nil, reply.err
	}
	job := *reply.job
	return &job, nil
}

func (f *fakeAPI) SubmitQuery(context.Context, string) (*api.QueryResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) FetchHistory(context.Context) ([]api.QueryRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

// recorder collects every published state transition.
type recorder struct {
	mu     sync.Mutex
	states []api.IngestionJob
}

func (r *recorder) listen(job api.IngestionJob) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, job)
}

func (r *recorder) snapshot() []api.IngestionJob {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]api.IngestionJob, len(r.states))
	copy(out, r.states)
	return out
}

func (r *recorder) last() (api.IngestionJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return api.IngestionJob{}, false
	}
	return r.states[len(r.states)-1], true
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func testFiles() []api.UploadFile {
	return []api.UploadFile{{Name: "resume.pdf", Content: []byte("%PDF-1.4")}}
}

func newTestTracker(f *fakeAPI) (*Tracker, *recorder) {
	tr := NewTracker(f, nil)
	tr.interval = testInterval
	rec := &recorder{}
	tr.SetListener(rec.listen)
	return tr, rec
}

func TestTrackerTerminalSequence(t *testing.T) {
	fake := &fakeAPI{
		submitID: "job-1",
		replies: []statusReply{
			{job: &api.IngestionJob{Status: api.JobProcessing, Processed: 1, Total: 3, Progress: 0.3}},
			{job: &api.IngestionJob{Status: api.JobProcessing, Processed: 2, Total: 3, Progress: 0.7}},
			{job: &api.IngestionJob{Status: api.JobCompleted, Processed: 3, Total: 3, Progress: 1.0}},
		},
	}
	tr, rec := newTestTracker(fake)
	defer tr.Close()

	if err := tr.Submit(context.Background(), testFiles()); err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		last, ok := rec.last()
		return ok && last.Status == api.JobCompleted
	})

	states := rec.snapshot()
	wantStatuses := []api.JobStatus{api.JobUploading, api.JobProcessing, api.JobProcessing, api.JobCompleted}
	if len(states) != len(wantStatuses) {
		t.Fatalf("got %d state transitions, want %d: %+v", len(states), len(wantStatuses), states)
	}
	for i, want := range wantStatuses {
		if states[i].Status != want {
			t.Errorf("state[%d].Status = %s, want %s", i, states[i].Status, want)
		}
	}
	if states[1].Progress != 0.3 || states[2].Progress != 0.7 {
		t.Errorf("progress sequence = %v, %v; want 0.3, 0.7", states[1].Progress, states[2].Progress)
	}

	// No poll may be issued after the terminal state.
	polls := fake.pollCount()
	time.Sleep(4 * testInterval)
	if got := fake.pollCount(); got != polls {
		t.Errorf("polls continued after terminal state: %d -> %d", polls, got)
	}
	if polls != 3 {
		t.Errorf("pollCount = %d, want 3", polls)
	}
}

func TestTrackerSubmitFailure(t *testing.T) {
	fake := &fakeAPI{submitErr: errors.New("service unavailable")}
	tr, rec := newTestTracker(fake)
	defer tr.Close()

	if err := tr.Submit(context.Background(), testFiles()); err == nil {
		t.Fatal("Submit() expected error")
	}

	job, ok := tr.Job()
	if !ok || job.Status != api.JobFailed {
		t.Fatalf("tracker state = %+v, want Failed", job)
	}
	last, _ := rec.last()
	if last.Status != api.JobFailed {
		t.Errorf("last published state = %s, want %s", last.Status, api.JobFailed)
	}

	time.Sleep(4 * testInterval)
	if got := fake.pollCount(); got != 0 {
		t.Errorf("pollCount = %d, want 0 after rejected submission", got)
	}
}

func TestTrackerPollFailure(t *testing.T) {
	fake := &fakeAPI{
		submitID: "job-2",
		replies: []statusReply{
			{job: &api.IngestionJob{Status: api.JobProcessing, Progress: 0.5}},
			{err: errors.New("connection reset")},
		},
	}
	tr, rec := newTestTracker(fake)
	defer tr.Close()

	if err := tr.Submit(context.Background(), testFiles()); err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}

	waitFor(t, time.Second, func() bool {
		last, ok := rec.last()
		return ok && last.Status == api.JobFailed
	})

	failed := 0
	for _, s := range rec.snapshot() {
		if s.Status == api.JobFailed {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("Failed published %d times, want exactly once", failed)
	}

	polls := fake.pollCount()
	time.Sleep(4 * testInterval)
	if got := fake.pollCount(); got != polls {
		t.Errorf("polls continued after poll failure: %d -> %d", polls, got)
	}
}

func TestTrackerCloseMidPoll(t *testing.T) {
	fake := &fakeAPI{
		submitID: "job-3",
		replies: []statusReply{
			{job: &api.IngestionJob{Status: api.JobProcessing, Progress: 0.4}},
		},
		blockPolls:  true,
		pollStarted: make(chan struct{}),
		pollRelease: make(chan struct{}),
	}
	tr, rec := newTestTracker(fake)

	if err := tr.Submit(context.Background(), testFiles()); err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}

	// Wait until a poll is in flight, tear down, then let the response arrive.
	<-fake.pollStarted
	tr.Close()
	close(fake.pollRelease)

	time.Sleep(4 * testInterval)
	states := rec.snapshot()
	if len(states) != 1 || states[0].Status != api.JobUploading {
		t.Errorf("states after teardown = %+v, want only the initial Uploading", states)
	}
	if job, ok := tr.Job(); !ok || job.Status != api.JobUploading {
		t.Errorf("Job() after teardown = %+v, want untouched Uploading state", job)
	}
}

func TestTrackerRejectsOverlappingSubmission(t *testing.T) {
	fake := &fakeAPI{
		submitID: "job-4",
		replies: []statusReply{
			{job: &api.IngestionJob{Status: api.JobProcessing, Progress: 0.1}},
		},
	}
	tr, rec := newTestTracker(fake)
	defer tr.Close()

	if err := tr.Submit(context.Background(), testFiles()); err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		last, ok := rec.last()
		return ok && last.Status == api.JobProcessing
	})

	if err := tr.Submit(context.Background(), testFiles()); err == nil {
		t.Error("Submit() while a job is in progress should be rejected")
	}
}

func TestTrackerInvalidBatchKeepsLiveJob(t *testing.T) {
	fake := &fakeAPI{
		submitID: "job-6",
		replies: []statusReply{
			{job: &api.IngestionJob{Status: api.JobProcessing, Processed: 1, Total: 2, Progress: 0.5}},
			{job: &api.IngestionJob{Status: api.JobProcessing, Processed: 1, Total: 2, Progress: 0.5}},
			{job: &api.IngestionJob{Status: api.JobCompleted, Processed: 2, Total: 2, Progress: 1.0}},
		},
	}
	tr, rec := newTestTracker(fake)
	defer tr.Close()

	if err := tr.Submit(context.Background(), testFiles()); err != nil {
		t.Fatalf("Submit() unexpected error: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		last, ok := rec.last()
		return ok && last.Status == api.JobProcessing
	})

	// A batch the pre-filter rejects must not replace the running job.
	bad := []api.UploadFile{{Name: "tool.exe", Content: []byte("MZ")}}
	if err := tr.Submit(context.Background(), bad); err == nil {
		t.Fatal("Submit() of an invalid batch during a live job should be rejected")
	}
	if job, ok := tr.Job(); !ok || job.Status != api.JobProcessing {
		t.Fatalf("live job clobbered: status = %v, want %v", job.Status, api.JobProcessing)
	}
	for _, s := range rec.snapshot() {
		if s.Status == api.JobFailed {
			t.Fatal("rejected batch published a Failed state over the live job")
		}
	}

	// The original poll loop is still running and reaches its terminal state.
	waitFor(t, time.Second, func() bool {
		last, ok := rec.last()
		return ok && last.Status == api.JobCompleted
	})
}

func TestTrackerResubmitAfterTerminal(t *testing.T) {
	fake := &fakeAPI{
		submitID: "job-5",
		replies: []statusReply{
			{job: &api.IngestionJob{Status: api.JobCompleted, Progress: 1.0}},
		},
	}
	tr, rec := newTestTracker(fake)
	defer tr.Close()

	if err := tr.Submit(context.Background(), testFiles()); err != nil {
		t.Fatalf("first Submit() unexpected error: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		last, ok := rec.last()
		return ok && last.Status == api.JobCompleted
	})

	// A new submission replaces the completed job and runs to completion again.
	if err := tr.Submit(context.Background(), testFiles()); err != nil {
		t.Fatalf("second Submit() unexpected error: %v", err)
	}
	waitFor(t, time.Second, func() bool {
		completed := 0
		for _, s := range rec.snapshot() {
			if s.Status == api.JobCompleted {
				completed++
			}
		}
		return completed == 2
	})
}
