package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"escrutinio/internal/format"
	"escrutinio/internal/quality"
)

var checkCmd = &cobra.Command{
	Use:   "check <snapshot.json>",
	Short: "Report data-quality issues in a snapshot",
	Long: `Scan a snapshot for zero-report regions, completeness percentages above
100, and candidate entries that were recovered during ingestion. Warnings
are advisory; they never block projection.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}

	report := quality.NewChecker(cfg).Check(snap)
	fmt.Println(format.Quality(report))
	return nil
}
