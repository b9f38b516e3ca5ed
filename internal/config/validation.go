package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dbsmedya/recordsdesk/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the client-side configuration: API endpoint, UI and logging.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateAPI()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

// ValidateServer checks the settings used by the reference backend.
func (c *Config) ValidateServer() error {
	var errors ValidationErrors

	errors = append(errors, c.validateServer()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateAPI() ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(c.API.BaseURL) == "" {
		return append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "base_url is required",
		})
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return append(errors, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL: %v", err),
		})
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "scheme must be 'http' or 'https'",
		})
	}

	if u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "api.base_url",
			Message: "host is required",
		})
	}

	return errors
}

func (c *Config) validateServer() ValidationErrors {
	var errors ValidationErrors

	if c.Server.Listen == "" {
		errors = append(errors, ValidationError{
			Field:   "server.listen",
			Message: "listen address is required",
		})
	}

	if c.Server.Driver != DriverMemory && !sqlutil.IsValidIdentifier(c.Server.Table) {
		errors = append(errors, ValidationError{
			Field:   "server.table",
			Message: "table must contain only alphanumeric characters and underscores",
		})
	}

	switch c.Server.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Server.SQLitePath == "" {
			errors = append(errors, ValidationError{
				Field:   "server.sqlite_path",
				Message: "sqlite_path is required for the sqlite driver",
			})
		}
	case DriverMySQL:
		errors = append(errors, c.validateDatabase("server.database", &c.Server.Database)...)
	default:
		errors = append(errors, ValidationError{
			Field:   "server.driver",
			Message: "driver must be 'memory', 'sqlite', or 'mysql'",
		})
	}

	return errors
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
