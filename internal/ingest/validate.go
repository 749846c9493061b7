// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nlq/cli/internal/api"
	"nlq/cli/internal/apierrors"
)

// MaxFileSize is the per-file upload limit. The service enforces the same
// limit as the authority; the client pre-filters to fail fast.
const MaxFileSize = 10 << 20 // 10 MB

// allowedExtensions lists the document types the service accepts.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
	".txt":  {},
}

// ValidateFiles checks a batch against the service's upload constraints
// before any bytes leave the client.
func ValidateFiles(files []api.UploadFile) error {
	if len(files) == 0 {
		return apierrors.New(apierrors.UploadRejected, "no files to upload")
	}
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Name))
		if _, ok := allowedExtensions[ext]; !ok {
			return apierrors.New(apierrors.UploadRejected,
				fmt.Sprintf("file type not allowed: %s (accepted: pdf, docx, txt)", f.Name))
		}
		if len(f.Content) > MaxFileSize {
			return apierrors.New(apierrors.UploadRejected,
				fmt.Sprintf("file too large: %s (limit 10 MB)", f.Name))
		}
	}
	return nil
}

// LoadFiles reads the given paths into upload payloads. Directories and
// unreadable files fail the whole batch; partial uploads would leave the
// job's total count wrong.
func LoadFiles(paths []string) ([]api.UploadFile, error) {
	files := make([]api.UploadFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, apierrors.Wrap(apierrors.UploadRejected, "read "+p, err)
		}
		files = append(files, api.UploadFile{Name: filepath.Base(p), Content: data})
	}
	return files, nil
}
