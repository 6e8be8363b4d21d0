package cmd

import (
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:   "banksim",
	Short: "A discrete-time bank balance-sheet simulator",
	Long: `banksim steps a bank's balance sheet forward month by month under a
configurable macro-market model, loan-cohort engine, and player-driven
actions and shocks.

It provides tools for:
  - Seeding a seasoned opening balance sheet
  - Running a scripted simulation from a run-plan file
  - Inspecting run history recorded to the journal
  - Validating and printing configuration files

Complete documentation lives alongside this repository.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "path to a rotated log file (disabled if empty)")
}
