package compliance

import (
	"errors"
	"fmt"
)

// PackNotFoundError indicates the requested policy pack id is not registered.
// There is no fallback to a default pack; callers must surface the id.
type PackNotFoundError struct {
	PackID string
}

// Error returns the error message.
func (e *PackNotFoundError) Error() string {
	return fmt.Sprintf("policy pack not found: %q", e.PackID)
}

// InvalidConversationError indicates the caller supplied an empty or
// otherwise unusable conversation. This is a caller error, never retried
// and never silently defaulted.
type InvalidConversationError struct {
	Reason string
}

// Error returns the error message.
func (e *InvalidConversationError) Error() string {
	return fmt.Sprintf("invalid conversation: %s", e.Reason)
}

// IsPackNotFound reports whether err is a PackNotFoundError.
func IsPackNotFound(err error) bool {
	var target *PackNotFoundError
	return errors.As(err, &target)
}

// IsInvalidConversation reports whether err is an InvalidConversationError.
func IsInvalidConversation(err error) bool {
	var target *InvalidConversationError
	return errors.As(err, &target)
}
