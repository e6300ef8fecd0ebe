// Package config provides centralized configuration management for the loader.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Driver names accepted by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Source   SourceConfig
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds destination store connection settings.
type DatabaseConfig struct {
	// Driver selects the destination engine: postgres or sqlite (default: postgres)
	Driver string `env:"DB_DRIVER" default:"postgres"`

	// URL is a full connection string that overrides the individual fields below.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// Host is the database server host (default: localhost)
	Host string `env:"DB_HOST" default:"localhost"`

	// Port is the database server port (default: 5432)
	Port int `env:"DB_PORT" default:"5432"`

	// User is the login role (default: db_user)
	User string `env:"DB_USER" default:"db_user"`

	// Password is the login password
	Password string `env:"DB_PASSWORD"`

	// Name is the database name, or the file path for sqlite (default: home_db)
	Name string `env:"DB_NAME" default:"home_db"`

	// Charset is the client encoding (default: UTF8)
	Charset string `env:"DB_CHARSET" default:"UTF8"`

	// SSLMode is the postgres sslmode parameter (default: disable)
	SSLMode string `env:"DB_SSLMODE" default:"disable"`

	// ConnectTimeout bounds the initial connection attempt (default: 10s)
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" default:"10s"`
}

// SourceConfig holds input file discovery settings.
type SourceConfig struct {
	// CandidatePaths are tried in order; the first one that parses wins.
	CandidatePaths []string `env:"SOURCE_PATHS" default:"data/properties.csv,sql/fake_data.csv,../sql/fake_data.csv,fake_data.csv"`

	// Sheet is the worksheet to read from .xlsx sources (default: first sheet)
	Sheet string `env:"SOURCE_SHEET"`
}

// PipelineConfig holds load behaviour settings.
type PipelineConfig struct {
	// BatchSize is the number of rows per multi-row INSERT (default: 500)
	BatchSize int `env:"PIPELINE_BATCH_SIZE" default:"500"`

	// Atomic wraps all four table loads in a single transaction (default: false)
	Atomic bool `env:"PIPELINE_ATOMIC" default:"false"`

	// RunDate overrides the date stamped on valuations, as YYYY-MM-DD
	RunDate string `env:"PIPELINE_RUN_DATE"`

	// SampleSize is the number of properties shown by the verifier (default: 5)
	SampleSize int `env:"VERIFY_SAMPLE_SIZE" default:"5"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File is an optional log sink written in addition to stdout
	File string `env:"LOG_FILE"`
}

// RunDateLayout is the accepted format of PIPELINE_RUN_DATE.
const RunDateLayout = "2006-01-02"

// DSN returns the driver connection string.
// URL wins when set; otherwise one is assembled from the individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	if c.Driver == DriverSQLite {
		return c.Name + "?_pragma=foreign_keys(1)"
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	if c.Charset != "" {
		q.Set("client_encoding", c.Charset)
	}
	if c.ConnectTimeout > 0 {
		q.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: q.Encode(),
	}
	if c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
	} else if c.User != "" {
		u.User = url.User(c.User)
	}
	return u.String()
}

// ParsedRunDate returns the configured run date, or ok=false when unset.
func (c *PipelineConfig) ParsedRunDate() (t time.Time, ok bool, err error) {
	if c.RunDate == "" {
		return time.Time{}, false, nil
	}
	t, err = time.Parse(RunDateLayout, c.RunDate)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}
