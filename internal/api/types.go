// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

// SchemaSummary holds the headline counts returned by connect and schema calls.
// The counts are opaque display data; the client never validates them against
// the table list.
type SchemaSummary struct {
	TotalTables        int `json:"total_tables"`
	TotalColumns       int `json:"total_columns"`
	TotalRelationships int `json:"total_relationships"`
}

// ConnectionResult is produced by a successful connect call.
type ConnectionResult struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	SchemaSummary SchemaSummary `json:"schema_summary"`
}

// ColumnDescriptor describes one column of a discovered table.
type ColumnDescriptor struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableDescriptor describes one discovered table.
type TableDescriptor struct {
	Name    string             `json:"name"`
	Purpose string             `json:"purpose"`
	Columns []ColumnDescriptor `json:"columns"`
}

// RelationshipDescriptor describes a foreign-key relationship between tables.
type RelationshipDescriptor struct {
	FromTable  string `json:"from_table"`
	FromColumn string `json:"from_column"`
	ToTable    string `json:"to_table"`
	ToColumn   string `json:"to_column"`
}

// SchemaSnapshot is the full discovered schema as returned by the service.
type SchemaSnapshot struct {
	Summary       SchemaSummary            `json:"summary"`
	Tables        []TableDescriptor        `json:"tables"`
	Relationships []RelationshipDescriptor `json:"relationships"`
}

// UploadFile is one document submitted for ingestion.
type UploadFile struct {
	Name    string
	Content []byte
}

// JobStatus enumerates ingestion job states.
type JobStatus string

const (
	// JobUploading is the client-side state between submission and the first
	// successful status poll. The server never reports it.
	JobUploading JobStatus = "uploading"
	// JobProcessing means the server is still working through the batch.
	JobProcessing JobStatus = "processing"
	// JobCompleted is terminal: all documents were processed.
	JobCompleted JobStatus = "completed"
	// JobFailed is terminal: processing stopped with an error.
	JobFailed JobStatus = "failed"
)

// Terminal reports whether no further transitions can occur from s.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// IngestionJob is one server-tracked unit of document processing work.
type IngestionJob struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Progress  float64   `json:"progress"`
	Error     string    `json:"error,omitempty"`
}

// QueryResult is the success payload of a query. The fields mirror the service
// response and are passed through to the presentation layer unchanged.
type QueryResult struct {
	Query       string         `json:"query"`
	QueryType   string         `json:"query_type"`
	Results     any            `json:"results"`
	Sources     []any          `json:"sources"`
	Performance map[string]any `json:"performance"`
	Cached      bool           `json:"cached"`
}

// QueryRecord is one entry of the server-side query log.
// Records are immutable; the client only reorders and truncates its local view.
type QueryRecord struct {
	Query     string `json:"query"`
	Timestamp string `json:"timestamp"`
	QueryType string `json:"query_type,omitempty"`
}
