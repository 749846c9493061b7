// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package queryflow orchestrates natural-language query submissions and the
// client-side cache of the server's query log.
package queryflow

import (
	"context"
	"log/slog"
	"sync"

	"nlq/cli/internal/api"
	"nlq/cli/internal/logging"
)

// RecentDisplayCount caps how many history entries the CLI shows by default.
// The underlying cache retains everything the server returned.
const RecentDisplayCount = 5

// HistoryStore caches the server's query log in display order (newest first).
//
// Refreshes triggered by successive submissions may overlap; responses are
// applied in issue order so a slow earlier refresh can never overwrite the
// result of a later one. A failed refresh keeps the stale view; stale-but-valid
// data beats an empty list.
type HistoryStore struct {
	client api.API
	logger *slog.Logger

	mu      sync.Mutex
	view    []api.QueryRecord
	issued  uint64
	applied uint64
}

// NewHistoryStore creates an empty history cache over the given client.
func NewHistoryStore(client api.API, logger *slog.Logger) *HistoryStore {
	return &HistoryStore{
		client: client,
		logger: logging.Default(logger).With("component", "history"),
	}
}

// Refresh fetches the server's query log and replaces the cached view
// atomically, reversing the server's oldest-first order to newest-first.
func (s *HistoryStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.mu.Unlock()

	records, err := s.client.FetchHistory(ctx)
	if err != nil {
		s.logger.Debug("history refresh failed, keeping cached view", "error", err)
		return err
	}

	view := make([]api.QueryRecord, len(records))
	for i, r := range records {
		view[len(records)-1-i] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		// A refresh issued after this one already landed.
		return nil
	}
	s.applied = seq
	s.view = view
	return nil
}

// MostRecent returns up to n entries of the cached view, newest first.
// The returned slice is a copy; readers never see partial updates.
func (s *HistoryStore) MostRecent(n int) []api.QueryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n > len(s.view) {
		n = len(s.view)
	}
	if n <= 0 {
		return nil
	}
	out := make([]api.QueryRecord, n)
	copy(out, s.view[:n])
	return out
}

// Len returns the number of cached history entries.
func (s *HistoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.view)
}
