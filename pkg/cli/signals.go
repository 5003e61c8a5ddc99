package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SetupSignalHandler returns a context cancelled on the first SIGINT or
// SIGTERM. The `verdict run` command passes it to the HTTP server and
// the pack watcher so one Ctrl-C drains in-flight evaluations instead of
// killing them mid-audit. Signal delivery stops with process exit, so
// the stop function is intentionally not surfaced.
func SetupSignalHandler() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
