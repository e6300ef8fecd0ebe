// Package core provides the data model and cleaning rules for property imports.
//
// # Error Codes Reference
//
// Failures that abort a run are logged together with a short code so an
// operator can look up the cause quickly.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source not found: no candidate file could be read
//	         Action: Place the input file at one of SOURCE_PATHS
//	SRC002 - Empty source: the file has no header row
//	         Action: Check that the export has a header row
//	SRC003 - Unsupported format: the file extension is not .csv or .xlsx
//	         Action: Export the sheet as CSV or XLSX
//
// # Schema Errors (SCH001-SCH099)
//
//	SCH001 - Schema provisioning failed: a DDL statement errored
//	         Action: Check database permissions for DROP/CREATE TABLE
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key (SQLSTATE 23505)
//	DB003 - Foreign key violation (SQLSTATE 23503)
//	DB004 - Connection refused or unreachable (SQLSTATE class 08)
//	DB006 - Timeout
//	DB008 - Authentication failed (SQLSTATE 28P01, 28000)
//	DB009 - Unsupported driver
//
// # Default Error (ERR000)
//
// Fallback when no specific rule matches.
//
// # Matching
//
// Sentinel errors are checked first with errors.Is, then Postgres errors by
// SQLSTATE, then the text patterns below case-insensitively with
// strings.Contains. The first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared across the loader.
var (
	ErrSourceNotFound    = errors.New("source not found")
	ErrSourceEmpty       = errors.New("source is empty")
	ErrUnsupportedFormat = errors.New("unsupported source format")
	ErrSchema            = errors.New("schema provisioning failed")
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)

// UserMessage provides operator-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// String formats the message for a log line.
func (m UserMessage) String() string {
	return fmt.Sprintf("[%s] %s. %s", m.Code, m.Message, m.Action)
}

type sentinelRule struct {
	err error
	msg UserMessage
}

var sentinelRules = []sentinelRule{
	{ErrSourceNotFound, UserMessage{"No candidate source file could be read", "Place the input file at one of SOURCE_PATHS", "SRC001"}},
	{ErrSourceEmpty, UserMessage{"The source file is empty", "Check that the export has a header row", "SRC002"}},
	{ErrUnsupportedFormat, UserMessage{"The source file format is not supported", "Export the sheet as CSV or XLSX", "SRC003"}},
	{ErrSchema, UserMessage{"Schema provisioning failed", "Check database permissions for DROP/CREATE TABLE", "SCH001"}},
	{ErrUnsupportedDriver, UserMessage{"The configured database driver is not supported", "Set DB_DRIVER to postgres or sqlite", "DB009"}},
}

// sqlStateRules maps Postgres SQLSTATE codes (or class prefixes) to messages.
var sqlStateRules = []struct {
	prefix string
	msg    UserMessage
}{
	{"23505", UserMessage{"A record with this key already exists", "Check the source for duplicate property titles", "DB001"}},
	{"23503", UserMessage{"Referenced property does not exist", "Ensure properties load before dependent tables", "DB003"}},
	{"28", UserMessage{"Database authentication failed", "Check DB_USER and DB_PASSWORD", "DB008"}},
	{"08", UserMessage{"Unable to connect to database", "Check DB_HOST and DB_PORT and that the server is running", "DB004"}},
	{"57014", UserMessage{"Operation timed out", "Try again or raise the database statement timeout", "DB006"}},
}

// errorPattern defines a text pattern to match and its corresponding message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch driver errors that carry no SQLSTATE.
// More specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"unique constraint", UserMessage{"A record with this key already exists", "Check the source for duplicate property titles", "DB001"}},
	{"foreign key constraint", UserMessage{"Referenced property does not exist", "Ensure properties load before dependent tables", "DB003"}},
	{"connection refused", UserMessage{"Unable to connect to database", "Check DB_HOST and DB_PORT and that the server is running", "DB004"}},
	{"no such host", UserMessage{"Unable to connect to database", "Check DB_HOST and DB_PORT and that the server is running", "DB004"}},
	{"password authentication failed", UserMessage{"Database authentication failed", "Check DB_USER and DB_PASSWORD", "DB008"}},
	{"timeout", UserMessage{"Operation timed out", "Try again or raise DB_CONNECT_TIMEOUT", "DB006"}},
	{"deadline exceeded", UserMessage{"Operation timed out", "Try again or raise DB_CONNECT_TIMEOUT", "DB006"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for the underlying error",
	Code:    "ERR000",
}

// MapError converts a technical error into an operator-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, rule := range sentinelRules {
		if errors.Is(err, rule.err) {
			return rule.msg
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, rule := range sqlStateRules {
			if strings.HasPrefix(pgErr.Code, rule.prefix) {
				return rule.msg
			}
		}
	}

	lower := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(lower, p.pattern) {
			return p.msg
		}
	}

	return defaultMessage
}
