package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	lines := make([]string, 0, len(e))
	for _, ve := range e {
		lines = append(lines, ve.Error())
	}
	return strings.Join(lines, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()
	var errs ValidationErrors

	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
		}
	}

	require("server_port", cfg.ServerPort)
	require("jwt_secret", cfg.JWTSecret)

	switch cfg.DBDriver {
	case "postgres":
		require("db_host", cfg.DBHost)
		require("db_port", cfg.DBPort)
		require("db_user", cfg.DBUser)
		require("db_name", cfg.DBName)
		if env == CI || env == Production {
			require("db_password", cfg.DBPassword)
		}
	case "sqlite":
		if env == Production {
			errs = append(errs, ValidationError{Field: "db_driver", Message: "sqlite is not allowed in production"})
		}
		require("sqlite_path", cfg.SQLitePath)
	default:
		errs = append(errs, ValidationError{Field: "db_driver", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if env == Production && len(cfg.JWTSecret) > 0 && len(cfg.JWTSecret) < 16 {
		errs = append(errs, ValidationError{Field: "jwt_secret", Message: "must be at least 16 characters in production"})
	}
	if cfg.RateLimitRequests < 0 {
		errs = append(errs, ValidationError{Field: "rate_limit_requests", Message: "must not be negative"})
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		errs = append(errs, ValidationError{Field: "rate_limit_window", Message: "must be positive when rate limiting is enabled"})
	}
	if cfg.CacheTTL < 0 {
		errs = append(errs, ValidationError{Field: "cache_ttl", Message: "must not be negative"})
	}
	if cfg.RecognitionMaxRetries < 0 {
		errs = append(errs, ValidationError{Field: "recognition_max_retries", Message: "must not be negative"})
	}
	if cfg.RecognitionURL != "" && !strings.HasPrefix(cfg.RecognitionURL, "http://") && !strings.HasPrefix(cfg.RecognitionURL, "https://") {
		errs = append(errs, ValidationError{Field: "recognition_url", Message: "must be an http(s) URL"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
