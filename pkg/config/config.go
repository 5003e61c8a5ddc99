package config

import "time"

// Config is the root configuration structure for ConvoGuard Verdict.
// It contains all configuration sections for the HTTP server, the external
// risk-analysis gate, audit storage and retention, policy pack overlays,
// and telemetry settings.
type Config struct {
	// Server contains HTTP API server configuration including listen
	// address, timeouts, and API keys.
	Server ServerConfig `yaml:"server"`

	// Gate contains configuration for the external risk-analysis service.
	// When BaseURL or APIKey is empty the gate is disabled and local
	// detection runs alone.
	Gate GateConfig `yaml:"gate"`

	// Audit contains configuration for audit record storage, export, and
	// retention.
	Audit AuditConfig `yaml:"audit"`

	// Packs contains configuration for policy pack overlays loaded on top
	// of the built-in packs.
	Packs PacksConfig `yaml:"packs"`

	// Telemetry contains configuration for observability including logging
	// and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080", "0.0.0.0:8080").
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// APIKeys is the list of accepted client API keys. When empty, the
	// API requires no authentication (development mode).
	APIKeys []string `yaml:"api_keys"`
}

// GateConfig contains configuration for the external risk-analysis gate.
type GateConfig struct {
	// BaseURL is the base URL of the risk-analysis service.
	// Example: "https://risk.example.com"
	BaseURL string `yaml:"base_url"`

	// APIKey is the bearer token for the risk-analysis service. This
	// should typically be loaded from an environment variable.
	APIKey string `yaml:"api_key"`

	// Timeout is the maximum duration for one analysis call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}

// AuditConfig contains configuration for audit record storage.
type AuditConfig struct {
	// Enabled controls whether evaluation results are persisted as audit
	// records. Persistence is best-effort and never fails an evaluation.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage implementation.
	// Options: "memory", "sqlite"
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains settings for the sqlite backend.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Retention contains record retention settings.
	Retention RetentionConfig `yaml:"retention"`
}

// SQLiteConfig contains settings for the SQLite audit backend.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "./verdict-audit.db"
	Path string `yaml:"path"`

	// Driver selects the SQL driver: "sqlite3" (cgo, mattn/go-sqlite3)
	// or "sqlite" (pure Go, modernc.org/sqlite).
	// Default: "sqlite3"
	Driver string `yaml:"driver"`
}

// RetentionConfig contains audit retention settings.
type RetentionConfig struct {
	// Days is the maximum record age. Records older than this are removed
	// by the retention sweep. Zero disables age-based pruning.
	// Default: 365
	Days int `yaml:"days"`

	// MaxRecords caps the total number of stored records. The oldest
	// records are removed first. Zero disables the cap.
	// Default: 0
	MaxRecords int `yaml:"max_records"`

	// Schedule is the cron expression for retention sweeps.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`
}

// PacksConfig contains configuration for policy pack overlays.
type PacksConfig struct {
	// Directory is a directory of *.yaml pack definitions loaded on top
	// of the built-in packs. Empty disables overlays.
	Directory string `yaml:"directory"`

	// Watch enables automatic registry rebuilds when overlay files
	// change.
	// Default: false
	Watch bool `yaml:"watch"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// RedactPII enables redaction of email addresses and phone numbers
	// in log attribute values. Transcript fragments pass through log
	// attributes, so this should stay on outside development.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the Prometheus metric namespace.
	// Default: "convoguard"
	Namespace string `yaml:"namespace"`

	// Subsystem is the Prometheus metric subsystem.
	// Default: "verdict"
	Subsystem string `yaml:"subsystem"`

	// Path is the HTTP path the metrics endpoint is served on.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// EvaluationDurationBuckets are the histogram buckets, in seconds,
	// for evaluation latency. Defaults cover 1ms to 30s: local detection
	// is sub-millisecond but the gate adds network time.
	EvaluationDurationBuckets []float64 `yaml:"evaluation_duration_buckets"`
}
