// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"

	"nlq/cli/internal/apierrors"
)

// SubmitDocuments uploads a batch of files to /api/documents/upload as a
// multipart form, one repeated "files" field per document, and returns the
// server-assigned job id.
func (c *Client) SubmitDocuments(ctx context.Context, files []UploadFile) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return "", apierrors.Wrap(apierrors.UploadRejected, "build upload form", err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return "", apierrors.Wrap(apierrors.UploadRejected, "build upload form", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", apierrors.Wrap(apierrors.UploadRejected, "build upload form", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathUpload, &buf)
	if err != nil {
		return "", apierrors.Wrap(apierrors.UploadRejected, "build upload request", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var out struct {
		JobID   string `json:"job_id"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := c.do(req, &out); err != nil {
		c.logger.Debug("upload failed", "files", len(files), "error", err)
		return "", apierrors.Wrap(apierrors.UploadRejected, "submit documents", err)
	}
	if out.JobID == "" {
		return "", apierrors.New(apierrors.UploadRejected, "service returned no job id")
	}
	c.logger.Debug("upload accepted", "job_id", out.JobID, "files", len(files))
	return out.JobID, nil
}

// FetchJobStatus reads /api/documents/status/{job_id}. The server reports the
// job id back in the payload; the path segment is escaped to keep opaque ids safe.
func (c *Client) FetchJobStatus(ctx context.Context, jobID string) (*IngestionJob, error) {
	var out IngestionJob
	if err := c.getJSON(ctx, pathJobStatus+url.PathEscape(jobID), &out); err != nil {
		return nil, apierrors.Wrap(apierrors.PollFailed, "fetch job status", err)
	}
	return &out, nil
}
