// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"

	"nlq/cli/internal/apierrors"
)

// SubmitQuery posts to /api/query/ and returns the result payload.
// A successful query is guaranteed to appear in subsequent history reads.
func (c *Client) SubmitQuery(ctx context.Context, text string) (*QueryResult, error) {
	body := struct {
		Query string `json:"query"`
	}{Query: text}
	var out QueryResult
	if err := c.postJSON(ctx, pathQuery, body, &out); err != nil {
		c.logger.Debug("query failed", "error", err)
		return nil, apierrors.Wrap(apierrors.QueryFailed, "submit query", err)
	}
	return &out, nil
}

// FetchHistory reads /api/query/history. The service returns at most its last
// 50 entries, oldest first; reordering for display is the caller's concern.
func (c *Client) FetchHistory(ctx context.Context) ([]QueryRecord, error) {
	var out struct {
		History []QueryRecord `json:"history"`
	}
	if err := c.getJSON(ctx, pathHistory, &out); err != nil {
		return nil, apierrors.Wrap(apierrors.QueryFailed, "fetch query history", err)
	}
	return out.History, nil
}
