package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"convoguard/verdict/pkg/cli"
	"convoguard/verdict/pkg/compliance/engine"
	"convoguard/verdict/pkg/conversation"
	"convoguard/verdict/pkg/riskgate"
)

var evaluateFlags struct {
	packID string
	file   string
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a transcript against a policy pack",
	Long: `Evaluate a plain-text conversation transcript against a policy pack
and print the evaluation result as JSON.

The transcript uses "Role: text" lines:

  User: Ich fühle mich heute sehr schlecht.
  Assistant: Das tut mir leid. Möchten Sie darüber sprechen?

Examples:
  # Evaluate a transcript file
  verdict evaluate --pack mental-health-de --file transcript.txt

  # Evaluate from stdin
  cat transcript.txt | verdict evaluate --pack hr-recruiting-eu

The exit code is 0 for a compliant verdict, 2 for non-compliant.`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.packID, "pack", "p", "", "policy pack id (required)")
	evaluateCmd.Flags().StringVarP(&evaluateFlags.file, "file", "f", "", "transcript file (default: stdin)")
	_ = evaluateCmd.MarkFlagRequired("pack")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	var transcript []byte
	if evaluateFlags.file != "" {
		transcript, err = os.ReadFile(evaluateFlags.file)
		if err != nil {
			return cli.NewCommandError("evaluate", fmt.Errorf("read transcript: %w", err))
		}
	} else {
		transcript, err = io.ReadAll(os.Stdin)
		if err != nil {
			return cli.NewCommandError("evaluate", fmt.Errorf("read stdin: %w", err))
		}
	}

	conv, err := conversation.ParseTranscript(string(transcript))
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	var gate *riskgate.Gate
	if cfg.Gate.BaseURL != "" && cfg.Gate.APIKey != "" {
		gate = riskgate.New(riskgate.Config{
			BaseURL: cfg.Gate.BaseURL,
			APIKey:  cfg.Gate.APIKey,
			Timeout: cfg.Gate.Timeout,
		}, logger)
	}

	eng := engine.New(registry, engine.Options{Gate: gate, Logger: logger})
	result, err := eng.Evaluate(cmd.Context(), conv, evaluateFlags.packID)
	if err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return cli.NewCommandError("evaluate", err)
	}

	if !result.Compliant {
		os.Exit(2)
	}
	return nil
}
