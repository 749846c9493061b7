// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package queryflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"nlq/cli/internal/api"
)

// fakeAPI scripts SubmitQuery and FetchHistory. historyGate, when non-nil, is
// received from before each FetchHistory returns, letting tests control the
// order in which overlapping refreshes resolve.
type fakeAPI struct {
	mu          sync.Mutex
	queryErr    error
	queryResult *api.QueryResult
	queryCalls  int

	histories     [][]api.QueryRecord
	historyCalls  int
	historyErr    error
	historyGate   chan struct{}
	gateFirstOnly bool
}

func (f *fakeAPI) Connect(context.Context, string) (*api.ConnectionResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) FetchSchema(context.Context) (*api.SchemaSnapshot, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) SubmitDocuments(context.Context, []api.UploadFile) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeAPI) FetchJobStatus(context.Context, string) (*api.IngestionJob, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeAPI) SubmitQuery(_ context.Context, text string) (*api.QueryResult, error) {
	f.mu.Lock()
	f.queryCalls++
	f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	if f.queryResult != nil {
		return f.queryResult, nil
	}
	return &api.QueryResult{Query: text, QueryType: "document"}, nil
}

func (f *fakeAPI) FetchHistory(context.Context) ([]api.QueryRecord, error) {
	f.mu.Lock()
	idx := f.historyCalls
	f.historyCalls++
	f.mu.Unlock()

	if f.historyGate != nil && (!f.gateFirstOnly || idx == 0) {
		<-f.historyGate
	}
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if idx >= len(f.histories) {
		idx = len(f.histories) - 1
	}
	if idx < 0 {
		return nil, nil
	}
	return f.histories[idx], nil
}

func (f *fakeAPI) calls() (queries, histories int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queryCalls, f.historyCalls
}

func TestHistoryRefreshReversesServerOrder(t *testing.T) {
	fake := &fakeAPI{histories: [][]api.QueryRecord{{
		{Query: "A", Timestamp: "2025-01-01 10:00:00"},
		{Query: "B", Timestamp: "2025-01-01 10:05:00"},
	}}}
	store := NewHistoryStore(fake, nil)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error: %v", err)
	}

	view := store.MostRecent(10)
	if len(view) != 2 || view[0].Query != "B" || view[1].Query != "A" {
		t.Errorf("view = %+v, want [B A]", view)
	}
	recent := store.MostRecent(1)
	if len(recent) != 1 || recent[0].Query != "B" {
		t.Errorf("MostRecent(1) = %+v, want [B]", recent)
	}
}

func TestHistoryRefreshFailureKeepsStaleView(t *testing.T) {
	fake := &fakeAPI{histories: [][]api.QueryRecord{{{Query: "A"}}}}
	store := NewHistoryStore(fake, nil)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() unexpected error: %v", err)
	}

	fake.historyErr = errors.New("service down")
	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() expected error")
	}

	view := store.MostRecent(10)
	if len(view) != 1 || view[0].Query != "A" {
		t.Errorf("stale view lost: %+v", view)
	}
}

func TestHistoryOutOfOrderResponses(t *testing.T) {
	// Two refreshes overlap; the first-issued one resolves last and must not
	// overwrite the result of the later-issued one. Only the first response
	// is gated, so the second lands first by construction.
	fake := &fakeAPI{
		histories: [][]api.QueryRecord{
			{{Query: "old"}},
			{{Query: "old"}, {Query: "new"}},
		},
		historyGate: make(chan struct{}),
		gateFirstOnly: true,
	}
	store := NewHistoryStore(fake, nil)

	first := make(chan error)
	go func() { first <- store.Refresh(context.Background()) }()
	waitUntil(t, func() bool { _, h := fake.calls(); return h == 1 })

	// The second refresh is issued after the first and resolves immediately.
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("second Refresh() unexpected error: %v", err)
	}
	view := store.MostRecent(10)
	if len(view) != 2 || view[0].Query != "new" {
		t.Fatalf("view after second refresh = %+v, want [new old]", view)
	}

	// Now the first-issued response arrives late; it must be discarded.
	close(fake.historyGate)
	if err := <-first; err != nil {
		t.Fatalf("first Refresh() unexpected error: %v", err)
	}

	view = store.MostRecent(10)
	if len(view) != 2 || view[0].Query != "new" {
		t.Errorf("view = %+v, stale first-issued response overwrote fresh one", view)
	}
}

func TestOrchestratorEmptyTextIsNoOp(t *testing.T) {
	fake := &fakeAPI{}
	store := NewHistoryStore(fake, nil)
	orch := NewOrchestrator(fake, store, nil)

	for _, text := range []string{"", "   ", "\t\n"} {
		if res := orch.Submit(context.Background(), text); res != nil {
			t.Errorf("Submit(%q) = %+v, want nil", text, res)
		}
	}

	queries, histories := fake.calls()
	if queries != 0 || histories != 0 {
		t.Errorf("network calls issued for empty text: queries=%d histories=%d", queries, histories)
	}
	if orch.Last() != nil {
		t.Error("Last() changed by empty submission")
	}
}

func TestOrchestratorSuccessTriggersRefresh(t *testing.T) {
	fake := &fakeAPI{
		queryResult: &api.QueryResult{Query: "how many employees", QueryType: "sql"},
		histories:   [][]api.QueryRecord{{{Query: "how many employees"}}},
	}
	store := NewHistoryStore(fake, nil)
	orch := NewOrchestrator(fake, store, nil)

	res := orch.Submit(context.Background(), "how many employees")
	if res == nil || res.Failed() {
		t.Fatalf("Submit() = %+v, want success", res)
	}
	if res.Payload.QueryType != "sql" {
		t.Errorf("QueryType = %q, want sql", res.Payload.QueryType)
	}

	_, histories := fake.calls()
	if histories != 1 {
		t.Errorf("history refreshes = %d, want 1", histories)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestOrchestratorErrorBecomesResult(t *testing.T) {
	fake := &fakeAPI{queryErr: errors.New("model overloaded")}
	store := NewHistoryStore(fake, nil)
	orch := NewOrchestrator(fake, store, nil)

	res := orch.Submit(context.Background(), "who is on leave")
	if res == nil || !res.Failed() {
		t.Fatalf("Submit() = %+v, want error result", res)
	}

	// A failed query must not touch history.
	_, histories := fake.calls()
	if histories != 0 {
		t.Errorf("history refreshes = %d, want 0 after failure", histories)
	}
	if last := orch.Last(); last == nil || !last.Failed() {
		t.Errorf("Last() = %+v, want the error result", last)
	}
}

func TestOrchestratorCloseDiscardsInFlight(t *testing.T) {
	fake := &fakeAPI{}
	orch := NewOrchestrator(fake, nil, nil)
	orch.Close()

	if res := orch.Submit(context.Background(), "late query"); res != nil {
		t.Errorf("Submit() after Close = %+v, want nil", res)
	}
	if orch.Last() != nil {
		t.Error("Last() mutated after Close")
	}
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}
