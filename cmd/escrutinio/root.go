package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"escrutinio/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
	config    string
}

var rootCmd = &cobra.Command{
	Use:   "escrutinio",
	Short: "Projection engine for partially-reported election tallies",
	Long: "Escrutinio aggregates hierarchical tally snapshots (department → municipality →\ncandidate), extrapolates each region to its full count from its actas percentage,\nand produces ranked national projections and per-region breakdowns.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(rootFlags.logLevel, rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&rootFlags.config, "config", "", "Path to config file (YAML/JSON)")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
