package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"convoguard/verdict/pkg/audit"
	"convoguard/verdict/pkg/audit/export"
	"convoguard/verdict/pkg/cli"
)

var auditsCmd = &cobra.Command{
	Use:   "audits",
	Short: "Work with stored audit records",
}

var auditsExportFlags struct {
	format string
	output string
	limit  int
}

var auditsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored audit records",
	Long: `Export audit records from the configured storage backend.

Examples:
  # Export the most recent 100 records as CSV
  verdict audits export --format csv --limit 100 --output audits.csv

  # Export everything as JSON to stdout
  verdict audits export --format json --limit 0`,
	RunE: runAuditsExport,
}

var auditsVerifyCmd = &cobra.Command{
	Use:   "verify [audit-id]",
	Args:  cobra.ExactArgs(1),
	Short: "Verify the integrity hashes of one audit record",
	RunE:  runAuditsVerify,
}

func init() {
	rootCmd.AddCommand(auditsCmd)
	auditsCmd.AddCommand(auditsExportCmd)
	auditsCmd.AddCommand(auditsVerifyCmd)

	auditsExportCmd.Flags().StringVar(&auditsExportFlags.format, "format", "json", "export format (json, csv)")
	auditsExportCmd.Flags().StringVarP(&auditsExportFlags.output, "output", "o", "", "output file (default: stdout)")
	auditsExportCmd.Flags().IntVar(&auditsExportFlags.limit, "limit", 0, "maximum records, newest first (0 = all)")
}

func openConfiguredStorage() (audit.Storage, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openStorage(cfg, logger)
	if err != nil {
		return nil, cli.NewCommandError("audits", err)
	}
	if store == nil {
		return nil, cli.NewConfigError("audit.enabled", "auditing is disabled")
	}
	return store, nil
}

func runAuditsExport(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(cmd.Context(), auditsExportFlags.limit)
	if err != nil {
		return cli.NewCommandError("audits export", err)
	}

	out := os.Stdout
	if auditsExportFlags.output != "" {
		f, err := os.Create(auditsExportFlags.output)
		if err != nil {
			return cli.NewCommandError("audits export", err)
		}
		defer f.Close()
		out = f
	}

	var exporter audit.Exporter
	switch auditsExportFlags.format {
	case "csv":
		exporter = export.NewCSVExporter(true)
	case "json":
		exporter = export.NewJSONExporter(true)
	default:
		return cli.NewConfigError("format", fmt.Sprintf("unsupported format %q", auditsExportFlags.format))
	}

	if err := exporter.Export(cmd.Context(), records, out); err != nil {
		return cli.NewCommandError("audits export", err)
	}
	if auditsExportFlags.output != "" {
		fmt.Printf("✓ Exported %d records to %s\n", len(records), auditsExportFlags.output)
	}
	return nil
}

func runAuditsVerify(cmd *cobra.Command, args []string) error {
	store, err := openConfiguredStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	record, err := store.GetByID(cmd.Context(), args[0])
	if err != nil {
		return cli.NewCommandError("audits verify", err)
	}
	if err := audit.Verify(record); err != nil {
		fmt.Printf("✗ %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("✓ Record %s verified (created %s, score %d)\n",
		record.ID, record.CreatedAt.Format("2006-01-02 15:04:05 MST"), record.Score)
	return nil
}
