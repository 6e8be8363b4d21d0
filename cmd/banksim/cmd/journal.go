package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/banksim/journal"
)

var journalDBPath string

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query run journal data",
	Long: `Query and display step and event records from a run journal.

Examples:
  banksim journal steps <run-id>
  banksim journal events <run-id>`,
}

var journalStepsCmd = &cobra.Command{
	Use:   "steps <run-id>",
	Short: "List every step recorded for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalSteps,
}

var journalEventsCmd = &cobra.Command{
	Use:   "events <run-id>",
	Short: "List every event recorded for a run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEvents,
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalStepsCmd)
	journalCmd.AddCommand(journalEventsCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./banksim.sqlite", "path to SQLite run journal")
}

func runJournalSteps(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListStepsByRun(args[0])
	if err != nil {
		return fmt.Errorf("list steps: %w", err)
	}

	for _, r := range recs {
		fmt.Printf("step=%-4d date=%s assets=%.2f cet1Ratio=%.4f lcr=%.4f nsfr=%.4f netIncome=%.2f failed=%v\n",
			r.Step, r.Date.Format("2006-01-02"), r.TotalAssets, r.CET1Ratio, r.LCR, r.NSFR, r.NetIncome, r.HasFailed)
	}
	return nil
}

func runJournalEvents(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListEventsByRun(args[0])
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	for _, e := range recs {
		fmt.Printf("step=%-4d [%s] %-24s %s\n", e.Step, e.Severity, e.Kind, e.Message)
	}
	return nil
}
