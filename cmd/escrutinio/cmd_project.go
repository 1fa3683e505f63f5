package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"escrutinio/internal/format"
	"escrutinio/internal/history"
	"escrutinio/internal/projection"
	"escrutinio/internal/quality"
	"escrutinio/internal/results"
	"escrutinio/internal/table"
)

var projectFlags struct {
	granularity string
	markdown    bool
	noTable     bool
	record      bool
	dbPath      string
}

var projectCmd = &cobra.Command{
	Use:   "project <snapshot.json>",
	Short: "Project national results from a tally snapshot",
	Long: `Aggregate a snapshot at the chosen granularity, extrapolate every region
to its full count, and print the ranked summary plus the per-region table.

Usage:
  escrutinio project last_results.json
  escrutinio project last_results.json --granularity=MUNICIPALITIES
  escrutinio project last_results.json --record   # also save a history sample`,
	Args: cobra.ExactArgs(1),
	RunE: runProject,
}

func init() {
	f := projectCmd.Flags()
	f.StringVarP(&projectFlags.granularity, "granularity", "g", "", "DEPARTMENTS or MUNICIPALITIES (default: snapshot's own tag)")
	f.BoolVar(&projectFlags.markdown, "markdown", false, "Render tables as Markdown")
	f.BoolVar(&projectFlags.noTable, "no-table", false, "Print only the ranked summary")
	f.BoolVar(&projectFlags.record, "record", false, "Record a history sample of this run")
	f.StringVar(&projectFlags.dbPath, "db", "", "History DB path (default: config history_path)")
}

func runProject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snap, err := loadSnapshot(args[0])
	if err != nil {
		return err
	}
	g, err := resolveGranularity(projectFlags.granularity, snap)
	if err != nil {
		return err
	}
	if g == results.Both {
		return fmt.Errorf("granularity BOTH is served by `escrutinio compare`")
	}

	mode := format.ASCII
	if projectFlags.markdown {
		mode = format.Markdown
	}

	engine := projection.NewEngine(cfg)
	sum, err := engine.Aggregate(cmd.Context(), snap, g)
	if errors.Is(err, projection.ErrInsufficientData) {
		fmt.Println("waiting for data: no usable tallies in this snapshot yet")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Println(format.Summary(sum, mode))

	if !projectFlags.noTable {
		tbl, err := table.NewBuilder(cfg).Build(snap, g)
		if err != nil && !errors.Is(err, projection.ErrInsufficientData) {
			return err
		}
		if tbl != nil {
			fmt.Println()
			fmt.Println(format.RegionTable(tbl, mode))
		}
	}

	if report := quality.NewChecker(cfg).Check(snap); !report.Empty() {
		fmt.Println()
		fmt.Printf("warnings:\n%s\n", format.Quality(report))
	}

	if projectFlags.record {
		dbPath := projectFlags.dbPath
		if dbPath == "" {
			dbPath = cfg.HistoryPath
		}
		store, err := history.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.Record(sum)
		if err != nil {
			return err
		}
		fmt.Printf("\nrecorded history sample %d\n", id)
	}

	return nil
}
