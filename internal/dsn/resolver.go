// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses and normalizes database connection strings before they
// are submitted to the query engine service. The service accepts SQLAlchemy
// style URLs, so schemes may carry a driver suffix (postgresql+asyncpg://,
// sqlite+aiosqlite://). PostgreSQL strings are normalized so that unencoded
// special characters in passwords survive the round trip; sqlite strings are
// opaque file references and pass through unchanged.
package dsn

import (
	"strings"
)

// DetectDBType detects the database type from a connection string.
// Driver suffixes after "+" are ignored for detection.
func DetectDBType(dsn string) DBType {
	lower := strings.ToLower(dsn)
	scheme, _, ok := strings.Cut(lower, "://")
	if !ok {
		return DBTypeUnknown
	}
	base, _, _ := strings.Cut(scheme, "+")
	switch base {
	case "postgres", "postgresql":
		return DBTypePostgreSQL
	case "sqlite":
		return DBTypeSQLite
	case "mysql":
		return DBTypeMySQL
	default:
		return DBTypeUnknown
	}
}

// Parse parses a connection string and returns the normalized form to submit
// to the service. This is the main entry point for connection string handling.
func Parse(dsn string) (string, error) {
	if dsn == "" {
		return "", NewParseError(dsn, "empty connection string", "provide a valid database connection string")
	}

	switch DetectDBType(dsn) {
	case DBTypePostgreSQL:
		info, err := parsePostgres(dsn)
		if err != nil {
			return "", err
		}
		return normalizePostgres(info)
	case DBTypeSQLite:
		// File-backed; no credentials to normalize. The service resolves the
		// path on its side.
		return dsn, nil
	case DBTypeMySQL:
		return "", NewParseError(dsn, "MySQL is not supported by the service", "use a PostgreSQL or SQLite connection string")
	default:
		return "", NewParseError(dsn, "unknown database type", "use postgres://, postgresql://, or sqlite://")
	}
}

// Validate validates a connection string without normalizing it
func Validate(dsn string) error {
	_, err := Parse(dsn)
	return err
}

// ParseInfo parses a PostgreSQL connection string and returns detailed info.
// Useful for inspecting connection details (database name, local verification).
func ParseInfo(dsn string) (*Info, error) {
	if dsn == "" {
		return nil, NewParseError(dsn, "empty connection string", "provide a valid database connection string")
	}
	if DetectDBType(dsn) != DBTypePostgreSQL {
		return nil, NewParseError(dsn, "not a PostgreSQL connection string", "")
	}
	return parsePostgres(dsn)
}

// PgxString returns a pgx-compatible form of a PostgreSQL connection string,
// stripping any SQLAlchemy driver suffix. Used for the optional local
// pre-verification ping before the string is submitted to the service.
func PgxString(dsn string) (string, error) {
	info, err := ParseInfo(dsn)
	if err != nil {
		return "", err
	}
	stripped := *info
	stripped.Driver = ""
	return normalizePostgres(&stripped)
}
