// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package session

import (
	"context"
	"log/slog"
	"sync"

	"nlq/cli/internal/api"
	"nlq/cli/internal/logging"
)

// SchemaCache lazily loads and caches the schema snapshot in RAM. The cache
// lives only in process memory; each activation of the schema view triggers
// an explicit Load, and a failed load leaves any previous snapshot intact.
type SchemaCache struct {
	client api.API
	logger *slog.Logger

	mu       sync.RWMutex
	snapshot *api.SchemaSnapshot
}

// NewSchemaCache creates an empty cache over the given client.
func NewSchemaCache(client api.API, logger *slog.Logger) *SchemaCache {
	return &SchemaCache{
		client: client,
		logger: logging.Default(logger).With("component", "schema"),
	}
}

// Load fetches the schema snapshot and replaces the cache on success.
// On failure the previous snapshot, if any, survives and the error surfaces.
func (c *SchemaCache) Load(ctx context.Context) (*api.SchemaSnapshot, error) {
	snap, err := c.client.FetchSchema(ctx)
	if err != nil {
		c.logger.Debug("schema load failed, keeping cached snapshot", "error", err)
		return nil, err
	}
	c.mu.Lock()
	c.snapshot = snap
	c.mu.Unlock()
	return snap, nil
}

// Snapshot returns the cached snapshot, or nil when nothing was loaded yet.
func (c *SchemaCache) Snapshot() *api.SchemaSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Clear drops the cached snapshot (primarily for testing).
func (c *SchemaCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
}
