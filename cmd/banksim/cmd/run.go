package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/engine"
	"github.com/rustyeddy/banksim/journal"
	"github.com/rustyeddy/banksim/obslog"
)

var (
	runPlanPath     string
	runJournalDB    string
	runSeed         int32
	runUseSeed      bool
	runOverridesPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a simulation from a run-plan file",
	Long: `Run steps a seasoned opening balance sheet forward according to a
run-plan file: how many months to simulate, and which actions and
shocks land on which step.

Example:
  banksim run --plan scenarios/base.yaml --db run.sqlite`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runPlanPath, "plan", "p", "", "path to a run-plan file (required)")
	runCmd.Flags().StringVarP(&runJournalDB, "db", "d", "./banksim.sqlite", "path to the SQLite run journal")
	runCmd.Flags().Int32Var(&runSeed, "seed", 0, "override the initial portfolio seed")
	runCmd.Flags().BoolVar(&runUseSeed, "override-seed", false, "apply --seed instead of the config's initialPortfolioSeed")
	runCmd.Flags().StringVar(&runOverridesPath, "overrides", "", "path to a scenario overrides file applied to the opening config and state (optional)")
	runCmd.MarkFlagRequired("plan")
}

func runRun(cmd *cobra.Command, args []string) error {
	if err := obslog.Init(logLevel, logFile); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer obslog.Close()

	plan, err := bankconfig.LoadRunPlan(runPlanPath)
	if err != nil {
		return err
	}

	cfg, err := bankconfig.LoadFromFile(plan.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var seedOverride *int32
	if runUseSeed {
		seedOverride = &runSeed
	}

	s, err := engine.InitialSeasonedPortfolio(cfg, seedOverride)
	if err != nil {
		return fmt.Errorf("seed portfolio: %w", err)
	}

	if runOverridesPath != "" {
		overrides, err := bankconfig.LoadScenarioOverrides(runOverridesPath)
		if err != nil {
			return err
		}
		cfg, s = bankconfig.ApplyScenario(cfg, s, overrides)
	}

	j, err := journal.NewSQLite(runJournalDB)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	runID := uuid.NewString()
	obslog.Infof("starting run %s: %d steps, config=%s", runID, plan.Steps, plan.ConfigPath)

	fmt.Printf("Run %s: seeded opening balance sheet\n", runID)
	fmt.Printf("  Total assets:   %.2f\n", s.TotalAssets())
	fmt.Printf("  CET1:           %.2f\n", s.Capital.CET1)
	fmt.Println()

	for step := 0; step < plan.Steps; step++ {
		actions := plan.ActionsForStep(step)
		shocks := plan.ShocksForStep(step)

		next, events, err := engine.Step(s, cfg, actions, shocks)
		if err != nil {
			return fmt.Errorf("step %d failed: %w", step, err)
		}
		s = next

		if err := j.RecordStep(journal.StepRecord{
			RunID:         runID,
			Step:          s.Clock.Step,
			Date:          s.Clock.Date,
			TotalAssets:   s.TotalAssets(),
			CET1:          s.Capital.CET1,
			CET1Ratio:     s.Risk.CET1Ratio,
			LeverageRatio: s.Risk.LeverageRatio,
			LCR:           s.Risk.LCR,
			NSFR:          s.Risk.NSFR,
			NetIncome:     s.IncomeStatement.NetIncome,
			HasFailed:     s.Status.HasFailed,
		}); err != nil {
			return fmt.Errorf("record step %d: %w", step, err)
		}

		for _, e := range events {
			if err := j.RecordEvent(journal.EventRecord{
				EventID:  ulid.Make().String(),
				RunID:    runID,
				Step:     e.Step,
				Severity: string(e.Severity),
				Kind:     e.Kind,
				Message:  e.Message,
			}); err != nil {
				return fmt.Errorf("record event at step %d: %w", step, err)
			}
			obslog.WithFields(map[string]interface{}{"run": runID, "step": e.Step, "kind": e.Kind}).Warnf("%s", e.Message)
		}

		if s.Status.HasFailed {
			obslog.Warnf("run %s: bank failed at step %d", runID, step)
			break
		}
	}

	fmt.Printf("Final state after %d step(s):\n", s.Clock.Step)
	fmt.Printf("  Total assets:   %.2f\n", s.TotalAssets())
	fmt.Printf("  CET1 ratio:     %.4f\n", s.Risk.CET1Ratio)
	fmt.Printf("  Leverage ratio: %.4f\n", s.Risk.LeverageRatio)
	fmt.Printf("  LCR:            %.4f\n", s.Risk.LCR)
	fmt.Printf("  NSFR:           %.4f\n", s.Risk.NSFR)
	fmt.Printf("  Failed:         %v\n", s.Status.HasFailed)
	fmt.Printf("\nResults saved to %s (run_id=%s)\n", runJournalDB, runID)

	return nil
}
