package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"

	"github.com/JonMunkholm/PropLoad/internal/core"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrations embed.FS

// VersionTable is where goose records the applied schema version. It is the
// only table written besides the four property tables.
const VersionTable = "propload_schema_version"

// gooseLogger routes goose output through slog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	slog.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

// Provision drops the four property tables and recreates them empty.
// Any data left from a previous run is discarded. Children are dropped
// before parents and created after them.
func (s *Store) Provision(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	goose.SetTableName(VersionTable)

	if err := goose.SetDialect(s.dialect.GooseDialect); err != nil {
		return fmt.Errorf("%w: set dialect: %w", core.ErrSchema, err)
	}

	// Reset rolls back whatever an earlier run applied; Up then drops any
	// stray copies of the tables and creates them fresh.
	if err := goose.ResetContext(ctx, s.db, s.dialect.MigrationsDir); err != nil {
		return fmt.Errorf("%w: reset: %w", core.ErrSchema, err)
	}
	if err := goose.UpContext(ctx, s.db, s.dialect.MigrationsDir); err != nil {
		return fmt.Errorf("%w: create: %w", core.ErrSchema, err)
	}

	version, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return fmt.Errorf("%w: version: %w", core.ErrSchema, err)
	}

	slog.Info("schema provisioned", "dialect", s.dialect.Name, "version", version)
	return nil
}
