package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Redactor rewrites PII in string values before they are logged.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a Redactor with the built-in pattern set: email
// addresses, international and German national phone numbers, bearer
// tokens, and api-key-shaped strings.
func NewRedactor() *Redactor {
	compile := func(name, expr, replacement string) redactPattern {
		return redactPattern{name: name, regex: regexp.MustCompile(expr), replacement: replacement}
	}
	return &Redactor{
		patterns: []redactPattern{
			compile("email", `[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`, "[email]"),
			// +49 30 1234567, 030/123456, (089) 12 34 56, +1-555-123-4567
			compile("phone", `(?:\+\d{1,3}[-.\s]?)?(?:\(\d{2,5}\)|\d{2,5})[-./\s]\d(?:[-.\s]?\d){4,9}`, "[phone]"),
			compile("bearer_token", `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer [token]"),
			compile("api_key", `sk-[a-zA-Z0-9]{8,}`, "[api-key]"),
		},
	}
}

// Redact rewrites every match of the built-in patterns in value.
func (r *Redactor) Redact(value string) string {
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// sensitiveKeys name attributes whose values are masked entirely rather
// than pattern-matched.
var sensitiveKeys = []string{
	"password", "secret", "token", "api_key", "apikey", "authorization",
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// redactHandler is a slog.Handler that redacts attribute values before
// delegating to the wrapped handler.
type redactHandler struct {
	inner    slog.Handler
	redactor *Redactor
}

func newRedactHandler(inner slog.Handler, redactor *Redactor) *redactHandler {
	return &redactHandler{inner: inner, redactor: redactor}
}

func (h *redactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *redactHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, h.redactor.Redact(record.Message), record.PC)
	record.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(h.redactAttr(a))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

func (h *redactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &redactHandler{inner: h.inner.WithAttrs(redacted), redactor: h.redactor}
}

func (h *redactHandler) WithGroup(name string) slog.Handler {
	return &redactHandler{inner: h.inner.WithGroup(name), redactor: h.redactor}
}

func (h *redactHandler) redactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		if isSensitiveKey(a.Key) {
			return slog.String(a.Key, maskValue(a.Value.String()))
		}
		return slog.String(a.Key, h.redactor.Redact(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		clean := make([]any, 0, len(group))
		for _, ga := range group {
			clean = append(clean, h.redactAttr(ga))
		}
		return slog.Group(a.Key, clean...)
	default:
		return a
	}
}

// maskValue hides a sensitive value, keeping a short prefix for
// identification.
func maskValue(v string) string {
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}
