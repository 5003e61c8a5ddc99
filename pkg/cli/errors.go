package cli

import (
	"errors"
	"fmt"
)

// ConfigError indicates the loaded configuration cannot support the
// requested command, for example `verdict audits export` against a
// config with auditing disabled. Field names the offending config key
// in dotted YAML form ("audit.enabled"); it may be empty when the whole
// file failed to load.
type ConfigError struct {
	Field   string
	Message string
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("config error: %s", e.Message)
	}
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError wraps a failure inside a subcommand so the root command
// prints one uniform line naming the command that failed. The cause
// stays reachable through errors.Is and errors.As.
type CommandError struct {
	Command string
	Err     error
}

// Error returns the error message.
func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError for the given config field.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// NewCommandError wraps err as a failure of the named command.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

// IsConfigError reports whether err is a ConfigError. Commands exit
// with a distinct status for configuration problems so operators can
// tell a bad config apart from a runtime failure.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}
