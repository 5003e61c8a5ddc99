package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var packsCmd = &cobra.Command{
	Use:   "packs",
	Short: "List registered policy packs",
	Long: `List the built-in policy packs plus any packs loaded from the
configured overlay directory.`,
	RunE: runPacks,
}

func init() {
	rootCmd.AddCommand(packsCmd)
}

func runPacks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tDOMAIN\tJURISDICTION\tRULES")
	for _, info := range registry.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			info.ID, info.Name, info.Version, info.Domain, info.Jurisdiction, info.RuleCount)
	}
	return w.Flush()
}
