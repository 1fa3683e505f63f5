package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"escrutinio/internal/format"
	"escrutinio/internal/history"
)

var historyFlags struct {
	dbPath   string
	limit    int
	markdown bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded projection samples",
	Long: `Samples are recorded with "escrutinio project --record". This command
lists them and shows how each candidate's projected percentage has moved
between the first and the latest sample.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded samples, newest first",
	RunE:  runHistoryList,
}

var historyTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show percentage movement from the first to the latest sample",
	RunE:  runHistoryTrend,
}

func init() {
	pf := historyCmd.PersistentFlags()
	pf.StringVar(&historyFlags.dbPath, "db", "", "History DB path (default: config history_path)")
	pf.BoolVar(&historyFlags.markdown, "markdown", false, "Render tables as Markdown")
	historyListCmd.Flags().IntVar(&historyFlags.limit, "limit", 20, "Maximum samples to list (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyTrendCmd)
}

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	path := historyFlags.dbPath
	if path == "" {
		path = cfg.HistoryPath
	}
	return history.Open(path)
}

func historyMode() format.Mode {
	if historyFlags.markdown {
		return format.Markdown
	}
	return format.ASCII
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	samples, err := store.List(historyFlags.limit)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		fmt.Println("no samples recorded; run `escrutinio project --record` first")
		return nil
	}
	fmt.Println(format.History(samples, historyMode()))
	return nil
}

func runHistoryTrend(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	points, err := store.Trend()
	if errors.Is(err, history.ErrNoSamples) {
		fmt.Println("need at least two recorded samples for a trend")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Println(format.Trend(points, historyMode()))
	return nil
}
