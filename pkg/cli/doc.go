/*
Package cli provides command-line utilities shared by the verdict
subcommands: typed errors for configuration and command failures, and a
signal-aware context for graceful shutdown.

Subcommands wrap runtime failures in CommandError so the root command
prints one uniform "command X failed: ..." line. Configuration problems
use ConfigError, which names the offending key in dotted YAML form; the
root command detects them with IsConfigError and exits with a distinct
status.

For shutdown, `verdict run` uses

	ctx := cli.SetupSignalHandler()

and hands ctx to the HTTP server so SIGINT/SIGTERM drains in-flight
evaluations before exit.
*/
package cli
