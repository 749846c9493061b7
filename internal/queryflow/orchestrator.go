// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package queryflow

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"nlq/cli/internal/api"
	"nlq/cli/internal/logging"
)

// Result is the outcome of one query submission. Exactly one of Payload and
// Err is set; a failed query is a normal outcome, not an exceptional one.
type Result struct {
	Payload *api.QueryResult
	Err     string
}

// Failed reports whether the submission produced an error result.
func (r Result) Failed() bool { return r.Err != "" }

// Orchestrator submits natural-language queries and exposes the latest result.
// A successful submission triggers a history refresh. The orchestrator never
// propagates an error past its boundary; every submission resolves to a Result.
type Orchestrator struct {
	client  api.API
	history *HistoryStore
	logger  *slog.Logger

	mu     sync.Mutex
	last   *Result
	closed bool
}

// NewOrchestrator creates an Orchestrator over the given client. history may
// be nil when no history refresh is wanted (tests, one-shot tools).
func NewOrchestrator(client api.API, history *HistoryStore, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		client:  client,
		history: history,
		logger:  logging.Default(logger).With("component", "query"),
	}
}

// Submit sends the query and returns its result. Whitespace-only text is a
// no-op: no request is sent and the previous result is untouched, signalled
// by a nil return.
func (o *Orchestrator) Submit(ctx context.Context, text string) *Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var res Result
	payload, err := o.client.SubmitQuery(ctx, text)
	if err != nil {
		res = Result{Err: err.Error()}
	} else {
		res = Result{Payload: payload}
	}

	o.mu.Lock()
	if o.closed {
		// Torn down while the request was in flight; discard.
		o.mu.Unlock()
		return nil
	}
	o.last = &res
	o.mu.Unlock()

	if !res.Failed() && o.history != nil {
		if err := o.history.Refresh(ctx); err != nil {
			o.logger.Debug("post-query history refresh failed", "error", err)
		}
	}
	return &res
}

// Last returns the most recently published result, or nil before any
// submission completed.
func (o *Orchestrator) Last() *Result {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.last
}

// Close prevents any further state mutation from in-flight submissions.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}
