package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"convoguard/verdict/pkg/config"
)

// New creates a structured logger from the logging configuration. The
// returned logger writes to w (os.Stdout when nil) in the configured
// format and, when PII redaction is enabled, rewrites email addresses and
// phone numbers in string attribute values before they reach the handler.
// Conversation fragments travel through log attributes, so redaction
// should stay enabled outside development.
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json", "":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}

	if cfg.RedactPII {
		handler = newRedactHandler(handler, NewRedactor())
	}

	return slog.New(handler), nil
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
	}
}
