package cli

import (
	"os"
	"syscall"
	"testing"
	"time"
)

func TestSetupSignalHandlerStartsActive(t *testing.T) {
	ctx := SetupSignalHandler()

	select {
	case <-ctx.Done():
		t.Fatalf("context cancelled before any signal: %v", ctx.Err())
	default:
	}
}

func TestSetupSignalHandlerCancelsOnSIGTERM(t *testing.T) {
	if testing.Short() {
		t.Skip("sends a real signal to the test process")
	}

	ctx := SetupSignalHandler()

	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("FindProcess: %v", err)
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		t.Fatalf("Signal: %v", err)
	}

	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("context not cancelled after SIGTERM")
	}
}
