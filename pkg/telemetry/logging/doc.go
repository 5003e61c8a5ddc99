// Package logging builds the structured slog logger used across ConvoGuard
// Verdict. It supports JSON and text output, level filtering, request-id
// propagation through context, and PII redaction of attribute values so
// conversation fragments never reach logs with raw email addresses or
// phone numbers in them.
package logging
