package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"convoguard/verdict/pkg/cli"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Verdict - compliance evaluation engine for conversational agents",
	Long: `Verdict evaluates conversation transcripts against regulatory policy
packs and produces a score, a compliance verdict, and a tamper-evident
audit record.

Built-in policy packs:
  - mental-health-de    DiGA / digital health crisis handling (DE)
  - hr-recruiting-eu    EU AI Act high-risk recruiting bias (EU)
  - gdpr-general-eu     GDPR consent and dark patterns (EU)
  - consumer-sales-de   UWG consumer sales conduct (DE)

Additional packs can be loaded from a YAML overlay directory and reloaded
at runtime when the directory changes.`,
	Version: Version,
}

// Execute runs the root command. Configuration problems exit with
// status 3 so operators can tell a bad config apart from a runtime
// failure; evaluate and verify use status 2 for a failed verdict.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if cli.IsConfigError(err) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
