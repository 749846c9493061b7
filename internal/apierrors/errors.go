// Package apierrors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Each kind maps to one remote capability of the query
// engine service, so callers can decide how to recover (reconnect, resubmit, reload)
// without inspecting raw transport errors.
//
// The package supports wrapping underlying errors while maintaining error kind information,
// making it easier to handle different types of failures appropriately.
package apierrors

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConnectionFailed indicates the data-source session could not be established.
	// Recoverable by retrying connect.
	ConnectionFailed Kind = "connection_failed"
	// SchemaRetrievalFailed indicates the schema snapshot could not be fetched.
	// Recoverable by re-activating the schema view.
	SchemaRetrievalFailed Kind = "schema_retrieval_failed"
	// UploadRejected indicates a document submission was rejected or unreachable.
	// The ingestion job never starts; recoverable by resubmitting.
	UploadRejected Kind = "upload_rejected"
	// PollFailed indicates a mid-flight job status poll failed.
	// Terminates the current job; recoverable only by a fresh submission.
	PollFailed Kind = "poll_failed"
	// QueryFailed indicates a natural-language query failed.
	// Does not affect history or connection state; recoverable by resubmitting.
	QueryFailed Kind = "query_failed"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// KindOf returns the kind of err when it is (or wraps) an *E, or "" otherwise.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
