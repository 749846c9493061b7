// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"

	"nlq/cli/internal/apierrors"
	"nlq/cli/internal/logging"
)

// Connect posts to /api/database/connect with the connection string.
// The service tests the connection, discovers the schema, and returns its
// summary. test_connection is always sent as true per the wire contract.
func (c *Client) Connect(ctx context.Context, connectionString string) (*ConnectionResult, error) {
	body := struct {
		ConnectionString string `json:"connection_string"`
		TestConnection   bool   `json:"test_connection"`
	}{
		ConnectionString: connectionString,
		TestConnection:   true,
	}
	var out ConnectionResult
	if err := c.postJSON(ctx, pathConnect, body, &out); err != nil {
		c.logger.Debug("connect failed", "error", logging.Mask(err.Error()))
		return nil, apierrors.Wrap(apierrors.ConnectionFailed, "establish data-source session", err)
	}
	return &out, nil
}

// FetchSchema retrieves the discovered schema snapshot from /api/database/schema.
// Fails when no connection has been established yet.
func (c *Client) FetchSchema(ctx context.Context) (*SchemaSnapshot, error) {
	var out SchemaSnapshot
	if err := c.getJSON(ctx, pathSchema, &out); err != nil {
		c.logger.Debug("schema fetch failed", "error", err)
		return nil, apierrors.Wrap(apierrors.SchemaRetrievalFailed, "fetch schema snapshot", err)
	}
	return &out, nil
}
