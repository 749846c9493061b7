// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package session tracks the data-source connection state and the cached
// schema snapshot. Query and schema functionality is gated until a connection
// has been established; document ingestion runs independently of it.
package session

import (
	"context"
	"log/slog"
	"sync"

	"nlq/cli/internal/api"
	"nlq/cli/internal/logging"
)

// Gate guards query and schema operations behind an established data-source
// session. It may be retried without limit; a failed attempt leaves the gate
// closed and surfaces the error.
type Gate struct {
	client api.API
	logger *slog.Logger

	mu        sync.RWMutex
	connected bool
	result    *api.ConnectionResult
}

// NewGate creates a closed Gate over the given client.
func NewGate(client api.API, logger *slog.Logger) *Gate {
	return &Gate{
		client: client,
		logger: logging.Default(logger).With("component", "session"),
	}
}

// Connect establishes the data-source session. On success the gate opens and
// the connection result is stored; downstream components become usable.
func (g *Gate) Connect(ctx context.Context, connectionString string) (*api.ConnectionResult, error) {
	res, err := g.client.Connect(ctx, connectionString)
	if err != nil {
		g.logger.Debug("connect failed", "error", logging.Mask(err.Error()))
		return nil, err
	}
	g.mu.Lock()
	g.connected = true
	g.result = res
	g.mu.Unlock()
	g.logger.Debug("connected",
		"tables", res.SchemaSummary.TotalTables,
		"columns", res.SchemaSummary.TotalColumns)
	return res, nil
}

// Connected reports whether a session has been established.
func (g *Gate) Connected() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.connected
}

// Result returns the last successful connection result, or nil while the
// gate is closed.
func (g *Gate) Result() *api.ConnectionResult {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.result
}
