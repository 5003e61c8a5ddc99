package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	// Field is the dotted path of the offending field.
	Field string

	// Message describes what is wrong with the value.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration field %q: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values. It returns the
// first problem found as a *ValidationError.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateGate(&cfg.Gate); err != nil {
		return err
	}
	if err := validateAudit(&cfg.Audit); err != nil {
		return err
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return err
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return &ValidationError{
			Field:   "server.listen_address",
			Message: fmt.Sprintf("must be host:port, got %q", cfg.ListenAddress),
		}
	}
	if cfg.ReadTimeout < 0 {
		return &ValidationError{Field: "server.read_timeout", Message: "must not be negative"}
	}
	if cfg.WriteTimeout < 0 {
		return &ValidationError{Field: "server.write_timeout", Message: "must not be negative"}
	}
	if cfg.MaxHeaderBytes < 0 {
		return &ValidationError{Field: "server.max_header_bytes", Message: "must not be negative"}
	}
	for i, key := range cfg.APIKeys {
		if strings.TrimSpace(key) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("server.api_keys[%d]", i),
				Message: "must not be blank",
			}
		}
	}
	return nil
}

func validateGate(cfg *GateConfig) error {
	if cfg.Timeout < 0 {
		return &ValidationError{Field: "gate.timeout", Message: "must not be negative"}
	}
	if cfg.BaseURL != "" && !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return &ValidationError{
			Field:   "gate.base_url",
			Message: fmt.Sprintf("must start with http:// or https://, got %q", cfg.BaseURL),
		}
	}
	return nil
}

func validateAudit(cfg *AuditConfig) error {
	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		return &ValidationError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("must be \"memory\" or \"sqlite\", got %q", cfg.Backend),
		}
	}
	switch cfg.SQLite.Driver {
	case "sqlite3", "sqlite":
	default:
		return &ValidationError{
			Field:   "audit.sqlite.driver",
			Message: fmt.Sprintf("must be \"sqlite3\" or \"sqlite\", got %q", cfg.SQLite.Driver),
		}
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		return &ValidationError{Field: "audit.sqlite.path", Message: "must not be empty"}
	}
	if cfg.Retention.Days < 0 {
		return &ValidationError{Field: "audit.retention.days", Message: "must not be negative"}
	}
	if cfg.Retention.MaxRecords < 0 {
		return &ValidationError{Field: "audit.retention.max_records", Message: "must not be negative"}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be debug, info, warn, or error, got %q", cfg.Logging.Level),
		}
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return &ValidationError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be json or text, got %q", cfg.Logging.Format),
		}
	}
	if cfg.Metrics.Path != "" && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return &ValidationError{Field: "telemetry.metrics.path", Message: "must start with /"}
	}
	return nil
}
