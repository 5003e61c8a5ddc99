package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "names the field",
			err:  NewConfigError("audit.enabled", "auditing is disabled"),
			want: "config error in audit.enabled: auditing is disabled",
		},
		{
			name: "whole file failed",
			err:  NewConfigError("", "open config.yaml: no such file"),
			want: "config error: open config.yaml: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCommandErrorWrapsCause(t *testing.T) {
	cause := errors.New("storage is closed")
	err := NewCommandError("audits export", cause)

	want := "command audits export failed: storage is closed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() does not reach the wrapped cause")
	}
}

func TestIsConfigError(t *testing.T) {
	cfgErr := NewConfigError("audit.storage_type", "unsupported storage type")

	if !IsConfigError(cfgErr) {
		t.Error("IsConfigError() = false for a ConfigError")
	}
	if !IsConfigError(fmt.Errorf("load: %w", cfgErr)) {
		t.Error("IsConfigError() = false for a wrapped ConfigError")
	}
	if IsConfigError(NewCommandError("run", errors.New("listen failed"))) {
		t.Error("IsConfigError() = true for a CommandError")
	}
}
