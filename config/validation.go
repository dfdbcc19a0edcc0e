package config

import (
	"errors"
	"fmt"
	"strconv"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, invalid("server_port", "must be between 1 and 65535, got %q", c.ServerPort))
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		errs = append(errs, invalid("read_timeout/write_timeout", "must be positive"))
	}

	switch c.DBDriver {
	case "postgres":
		for field, v := range map[string]string{
			"db_host": c.DBHost,
			"db_port": c.DBPort,
			"db_user": c.DBUser,
			"db_name": c.DBName,
		} {
			if v == "" {
				errs = append(errs, invalid(field, "is required for postgres"))
			}
		}
		if c.Environment == CI && c.DBPassword == "" {
			errs = append(errs, invalid("db_password", "TEST_DB_PASSWORD is required in CI environment"))
		}
	case "sqlite":
		if c.SQLitePath == "" {
			errs = append(errs, invalid("sqlite_path", "is required for sqlite"))
		}
	default:
		errs = append(errs, invalid("db_driver", "must be postgres or sqlite, got %q", c.DBDriver))
	}

	if c.RedisEnabled() && c.CacheTTL <= 0 {
		errs = append(errs, invalid("cache_ttl", "must be positive"))
	}
	if c.RateLimitRequests < 0 {
		errs = append(errs, invalid("rate_limit_requests", "must not be negative"))
	}
	if c.RateLimitRequests > 0 && c.RateLimitWindow <= 0 {
		errs = append(errs, invalid("rate_limit_window", "must be positive when rate limiting is on"))
	}
	if c.MaxPageSize < 1 {
		errs = append(errs, invalid("max_page_size", "must be at least 1"))
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		errs = append(errs, invalid("default_page_size", "must be between 1 and max_page_size"))
	}

	return errors.Join(errs...)
}
