// Package store owns the destination database: connection, schema
// provisioning, bulk table replacement and post-load verification.
//
// One *sql.DB is opened per run and capped at a single connection, so every
// statement of a run is issued over the same session. Postgres is reached
// through a one-connection pgx pool wrapped by the stdlib adapter and is
// loaded with COPY; other dialects fall back to batched multi-row INSERT
// statements.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/JonMunkholm/PropLoad/internal/config"
	"github.com/JonMunkholm/PropLoad/internal/core"
)

// Dialect captures the per-engine differences the store cares about.
type Dialect struct {
	Name          string // config driver name
	DriverName    string // database/sql driver name
	GooseDialect  string
	MigrationsDir string
	Copy          bool // load with pgx COPY instead of INSERT
}

var (
	PostgresDialect = Dialect{
		Name:          config.DriverPostgres,
		DriverName:    "pgx",
		GooseDialect:  "postgres",
		MigrationsDir: "migrations/postgres",
		Copy:          true,
	}
	SQLiteDialect = Dialect{
		Name:          config.DriverSQLite,
		DriverName:    "sqlite",
		GooseDialect:  "sqlite",
		MigrationsDir: "migrations/sqlite",
	}
)

// DialectFor returns the dialect for a configured driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case config.DriverPostgres, "postgresql", "pgx":
		return PostgresDialect, nil
	case config.DriverSQLite, "sqlite3":
		return SQLiteDialect, nil
	}
	return Dialect{}, fmt.Errorf("%w: %q", core.ErrUnsupportedDriver, driver)
}

// placeholder returns the n-th (1-based) bind parameter marker.
func (d Dialect) placeholder(n int) string {
	if d.Copy {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Store is the destination database for one run.
type Store struct {
	db        *sql.DB
	pool      *pgxpool.Pool // set for postgres; owns the connection behind db
	dialect   Dialect
	batchSize int
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, batchSize int) (*Store, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	var (
		db   *sql.DB
		pool *pgxpool.Pool
	)
	if dialect.Copy {
		pool, err = openPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db = stdlib.OpenDBFromPool(pool)
	} else {
		db, err = sql.Open(dialect.DriverName, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
		}
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("connect %s: %w", dialect.Name, err)
	}

	slog.Info("connected to database", "driver", dialect.Name, "name", cfg.Name)
	s := New(db, dialect, batchSize)
	s.pool = pool
	return s, nil
}

// openPool builds a single-connection pgx pool for the run.
func openPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}
	poolConfig.MaxConns = 1
	poolConfig.MinConns = 0
	if cfg.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return pool, nil
}

// New wraps an already-open database.
func New(db *sql.DB, dialect Dialect, batchSize int) *Store {
	db.SetMaxOpenConns(1)
	if batchSize <= 0 {
		batchSize = 500
	}
	return &Store{db: db, dialect: dialect, batchSize: batchSize}
}

// DB returns the underlying handle.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns the store's dialect.
func (s *Store) Dialect() Dialect { return s.dialect }

// Close releases the connection.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}
