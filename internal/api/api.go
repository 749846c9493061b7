// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api provides the typed request/response boundary to the query engine service.
// It defines the contract for connection negotiation, schema retrieval, document
// ingestion, and natural-language queries. The package includes both the interface
// definition and the HTTP/JSON implementation; it holds no business logic and no
// state beyond the underlying transport.
package api

import "context"

// API defines the service operations the CLI depends on.
// Implementations may call the real HTTP endpoints or provide fakes for tests.
type API interface {
	// Connect establishes the data-source session on the service and returns
	// the discovered schema summary.
	Connect(ctx context.Context, connectionString string) (*ConnectionResult, error)
	// FetchSchema retrieves the full schema snapshot discovered at connect time.
	FetchSchema(ctx context.Context) (*SchemaSnapshot, error)
	// SubmitDocuments uploads a batch of documents for asynchronous ingestion
	// and returns the server-assigned job id.
	SubmitDocuments(ctx context.Context, files []UploadFile) (jobID string, err error)
	// FetchJobStatus reads the current state of an ingestion job.
	// The read is idempotent and side-effect free.
	FetchJobStatus(ctx context.Context, jobID string) (*IngestionJob, error)
	// SubmitQuery processes a natural-language query and returns its result.
	SubmitQuery(ctx context.Context, text string) (*QueryResult, error)
	// FetchHistory returns past queries in server order (oldest first).
	FetchHistory(ctx context.Context) ([]QueryRecord, error)
}
