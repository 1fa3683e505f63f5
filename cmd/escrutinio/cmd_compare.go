package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"escrutinio/internal/format"
	"escrutinio/internal/projection"
)

var compareFlags struct {
	markdown bool
}

var compareCmd = &cobra.Command{
	Use:   "compare <snapshot.json>",
	Short: "Compare projections at department vs. municipality granularity",
	Long: `Aggregate the same snapshot at both granularities and show per-candidate
projected deltas between them. Large deltas mean the two nesting levels
disagree about where the count is headed.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&compareFlags.markdown, "markdown", false, "Render tables as Markdown")
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}

	mode := format.ASCII
	if compareFlags.markdown {
		mode = format.Markdown
	}

	cmp, err := projection.NewEngine(cfg).Compare(cmd.Context(), snap)
	if errors.Is(err, projection.ErrInsufficientData) {
		fmt.Println("waiting for data: no usable tallies in this snapshot yet")
		return nil
	}
	if err != nil {
		return err
	}

	if cmp.Departments != nil {
		fmt.Println(format.Summary(cmp.Departments, mode))
		fmt.Println()
	}
	if cmp.Municipalities != nil {
		fmt.Println(format.Summary(cmp.Municipalities, mode))
		fmt.Println()
	}
	fmt.Println(format.Comparison(cmp, mode))
	return nil
}
