// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"nlq/cli/internal/api"
	"nlq/cli/internal/config"
	"nlq/cli/internal/httperrors"
	"nlq/cli/internal/keychain"
	"nlq/cli/internal/logging"
)

// newClient builds the API client from the on-disk config. Missing config is
// not an error; defaults apply.
func newClient() (*api.Client, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg)
	return api.New(cfg.ServerURL, logger), logger, nil
}

// newLogger builds the process logger. NLQ_VERBOSE=1 forces debug output
// regardless of the configured level.
func newLogger(cfg config.Config) *slog.Logger {
	level := cfg.LogLevel
	if os.Getenv("NLQ_VERBOSE") == "1" {
		level = "debug"
	}
	return logging.New(level)
}

// presentServiceError shows a failed engine call to the user. Transport-level
// failures (timeout, DNS, refused connection) get the friendly troubleshooting
// output; server-reported failures are shown inline with credentials masked.
func presentServiceError(err error, context string) {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		_ = httperrors.FormatNetworkError(uerr, context)
		return
	}
	pterm.Println("❌ " + logging.PresentError(context, err))
}

// resolveConnectionString looks up the data-source connection string from the
// environment first, then the OS keychain. The returned source names where it
// came from, for display; both are empty when nothing is configured.
func resolveConnectionString() (cs, source string) {
	if env := strings.TrimSpace(os.Getenv("NLQ_DATABASE_URL")); env != "" {
		return env, "NLQ_DATABASE_URL environment variable"
	}
	if env := strings.TrimSpace(os.Getenv("DATABASE_URL")); env != "" {
		return env, "DATABASE_URL environment variable"
	}
	if km, err := keychain.GetManager(); err == nil {
		if v, err := km.LoadConnectionString(); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), "OS keychain"
		}
	}
	return "", ""
}
