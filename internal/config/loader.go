package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		// Recurse into nested structs
		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		// Get tags
		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		// Apply default if not set
		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		// Set the field value
		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		// Handle time.Duration specially
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			// Split comma-separated values, trim whitespace
			parts := strings.Split(value, ",")
			result := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					result = append(result, p)
				}
			}
			field.Set(reflect.ValueOf(result))
		} else {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	switch strings.ToLower(c.Database.Driver) {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("DB_DRIVER (%q) must be one of: postgres, sqlite", c.Database.Driver))
	}
	if c.Database.URL == "" {
		if c.Database.Name == "" {
			errs = append(errs, "DB_NAME is required when DATABASE_URL is not set")
		}
		if strings.EqualFold(c.Database.Driver, DriverPostgres) {
			if c.Database.Host == "" {
				errs = append(errs, "DB_HOST is required when DATABASE_URL is not set")
			}
			if c.Database.Port <= 0 || c.Database.Port > 65535 {
				errs = append(errs, fmt.Sprintf("DB_PORT (%d) must be 1-65535", c.Database.Port))
			}
		}
	}
	if c.Database.ConnectTimeout < 0 {
		errs = append(errs, "DB_CONNECT_TIMEOUT must be non-negative")
	}

	// Source validation
	if len(c.Source.CandidatePaths) == 0 {
		errs = append(errs, "SOURCE_PATHS must list at least one candidate file")
	}

	// Pipeline validation
	if c.Pipeline.BatchSize <= 0 {
		errs = append(errs, "PIPELINE_BATCH_SIZE must be positive")
	}
	if c.Pipeline.SampleSize < 0 {
		errs = append(errs, "VERIFY_SAMPLE_SIZE must be non-negative")
	}
	if _, _, err := c.Pipeline.ParsedRunDate(); err != nil {
		errs = append(errs, fmt.Sprintf("PIPELINE_RUN_DATE (%q) must be formatted as YYYY-MM-DD", c.Pipeline.RunDate))
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	c.Database.Driver = strings.ToLower(c.Database.Driver)
	return nil
}

// String returns a safe string representation of the config for logging.
// Passwords and full connection URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	dbURL := ""
	if c.Database.URL != "" {
		dbURL = "[MASKED]"
	}
	b.WriteString(fmt.Sprintf("Database: {Driver: %q, URL: %q, Host: %q, Port: %d, User: %q, Password: [MASKED], Name: %q}, ",
		c.Database.Driver, dbURL, c.Database.Host, c.Database.Port, c.Database.User, c.Database.Name))
	b.WriteString(fmt.Sprintf("Source: {CandidatePaths: %q, Sheet: %q}, ",
		c.Source.CandidatePaths, c.Source.Sheet))
	b.WriteString(fmt.Sprintf("Pipeline: {BatchSize: %d, Atomic: %v, RunDate: %q, SampleSize: %d}, ",
		c.Pipeline.BatchSize, c.Pipeline.Atomic, c.Pipeline.RunDate, c.Pipeline.SampleSize))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q, File: %q}",
		c.Logging.Level, c.Logging.Format, c.Logging.File))
	b.WriteString("}")
	return b.String()
}
