package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"convoguard/verdict/pkg/config"
)

func TestRedactString(t *testing.T) {
	r := NewRedactor()

	tests := []struct {
		name  string
		in    string
		want  string
		leaks string
	}{
		{
			name:  "email",
			in:    "patient wrote to max.mustermann@example.de yesterday",
			leaks: "max.mustermann@example.de",
		},
		{
			name:  "german phone",
			in:    "call me at +49 30 123456 tomorrow",
			leaks: "123456",
		},
		{
			name:  "national phone with slash",
			in:    "erreichbar unter 030/1234567",
			leaks: "1234567",
		},
		{
			name:  "bearer token",
			in:    "header was Bearer abc123def456",
			leaks: "abc123def456",
		},
		{
			name: "plain text untouched",
			in:   "I feel much better today",
			want: "I feel much better today",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Redact(tt.in)
			if tt.want != "" && got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.leaks != "" && strings.Contains(got, tt.leaks) {
				t.Errorf("Redact(%q) = %q, still contains %q", tt.in, got, tt.leaks)
			}
		})
	}
}

func TestRedactShortHotlineNumberSurvives(t *testing.T) {
	// Three-digit crisis hotline references must not be mangled when an
	// escalation is logged.
	r := NewRedactor()
	in := "assistant referred the user to 988"
	got := r.Redact(in)
	if !strings.Contains(got, "988") {
		t.Errorf("Redact(%q) = %q, dropped short hotline number", in, got)
	}
}

func TestLoggerRedactsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", RedactPII: true}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("evaluation complete",
		slog.String("trigger_text", "write to jane.doe@example.com"),
		slog.String("api_key", "sk-abcdef1234567890"),
		slog.Int("score", 85),
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v", err)
	}
	if got := entry["trigger_text"]; got != "write to [email]" {
		t.Errorf("trigger_text = %q, want email redacted", got)
	}
	if got, _ := entry["api_key"].(string); strings.Contains(got, "abcdef1234567890") {
		t.Errorf("api_key = %q, sensitive value leaked", got)
	}
	if got := entry["score"]; got != float64(85) {
		t.Errorf("score = %v, non-string attributes must pass through", got)
	}
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LoggingConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info line emitted below warn level: %q", buf.String())
	}
	logger.Warn("loud")
	if !strings.Contains(buf.String(), "loud") {
		t.Error("warn line missing")
	}
}

func TestNewRejectsUnknownLevelAndFormat(t *testing.T) {
	if _, err := New(config.LoggingConfig{Level: "verbose"}, nil); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(config.LoggingConfig{Format: "xml"}, nil); err == nil {
		t.Error("expected error for unknown format")
	}
}
