package bankconfig

import (
	"fmt"
	"os"

	"github.com/rustyeddy/banksim/bankcore/action"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/shock"
	"gopkg.in/yaml.v3"
)

// ActionSpec is the wire form of one scheduled action.Action, decoded
// from a run-plan file. Kind selects which fields apply, mirroring the
// tagged-union shape bankcore/action.Action itself uses.
type ActionSpec struct {
	Step    int          `yaml:"step"`
	Kind    string       `yaml:"kind"`
	Product product.Type `yaml:"product,omitempty"`
	Amount  float64      `yaml:"amount,omitempty"`
	Rate    *float64     `yaml:"rate,omitempty"`
	Delta   float64      `yaml:"delta,omitempty"`
	Direction string     `yaml:"direction,omitempty"`
	Haircut *float64     `yaml:"haircut,omitempty"`
}

// ShockSpec is the wire form of one scheduled shock.Shock.
type ShockSpec struct {
	Step                  int          `yaml:"step"`
	Kind                  string       `yaml:"kind"`
	RetailRateIncrease    float64      `yaml:"retailRateIncrease,omitempty"`
	CorporateRateIncrease *float64     `yaml:"corporateRateIncrease,omitempty"`
	Bps                   float64      `yaml:"bps,omitempty"`
	CorporateLoanBps      float64      `yaml:"corporateLoanBps,omitempty"`
	HaircutIncreasePct    float64      `yaml:"haircutIncreasePct,omitempty"`
	Multiplier            float64      `yaml:"multiplier,omitempty"`
	PDMultiplier          float64      `yaml:"pdMultiplier,omitempty"`
	LGDMultiplier         float64      `yaml:"lgdMultiplier,omitempty"`
	Product               product.Type `yaml:"product,omitempty"`
	LossAmount            float64      `yaml:"lossAmount,omitempty"`
}

// RunPlan describes a full simulation run for the CLI's "run" command:
// how many steps to take, and which actions/shocks land on which step.
// It is the ambient, file-based counterpart to the pure ApplyScenario
// entry point (spec §6, entry point 3).
type RunPlan struct {
	ConfigPath string       `yaml:"configPath"`
	Steps      int          `yaml:"steps"`
	Actions    []ActionSpec `yaml:"actions,omitempty"`
	Shocks     []ShockSpec  `yaml:"shocks,omitempty"`
}

// LoadRunPlan reads a YAML run-plan file.
func LoadRunPlan(path string) (*RunPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run plan: %w", err)
	}
	var rp RunPlan
	if err := yaml.Unmarshal(data, &rp); err != nil {
		return nil, fmt.Errorf("parse run plan: %w", err)
	}
	if rp.Steps <= 0 {
		return nil, fmt.Errorf("run plan: steps must be positive, got %d", rp.Steps)
	}
	return &rp, nil
}

// ActionsForStep converts every ActionSpec scheduled for step into its
// concrete action.Action, falling back to action.Unknown for an
// unrecognised kind so a typo in a run-plan file degrades to a warning
// event rather than aborting the run.
func (rp *RunPlan) ActionsForStep(step int) []action.Action {
	var out []action.Action
	for _, a := range rp.Actions {
		if a.Step != step {
			continue
		}
		switch a.Kind {
		case "adjustRate":
			out = append(out, action.AdjustRate{Product: a.Product, Rate: a.Amount})
		case "issueEquity":
			out = append(out, action.IssueEquity{Amount: a.Amount})
		case "issueDebt":
			out = append(out, action.IssueDebt{Product: a.Product, Amount: a.Amount, Rate: a.Rate})
		case "buySellAsset":
			out = append(out, action.BuySellAsset{Product: a.Product, Delta: a.Delta})
		case "enterRepo":
			dir := action.RepoBorrow
			if a.Direction == "lend" {
				dir = action.RepoLend
			}
			out = append(out, action.EnterRepo{
				Direction:         dir,
				CollateralProduct: a.Product,
				Amount:            a.Amount,
				Haircut:           a.Haircut,
				Rate:              a.Rate,
			})
		default:
			out = append(out, action.Unknown{Tag: a.Kind})
		}
	}
	return out
}

// ShocksForStep converts every ShockSpec scheduled for step into its
// concrete shock.Shock.
func (rp *RunPlan) ShocksForStep(step int) []shock.Shock {
	var out []shock.Shock
	for _, s := range rp.Shocks {
		if s.Step != step {
			continue
		}
		switch s.Kind {
		case "depositCompetition":
			out = append(out, shock.NewDepositCompetition(step, s.RetailRateIncrease, s.CorporateRateIncrease))
		case "marketSpreadShock":
			out = append(out, shock.NewMarketSpreadShock(step, s.Bps, s.CorporateLoanBps, s.HaircutIncreasePct))
		case "idiosyncraticRun":
			out = append(out, shock.NewIdiosyncraticRun(step, s.Multiplier))
		case "macroDownturn":
			out = append(out, shock.NewMacroDownturn(step, s.PDMultiplier, s.LGDMultiplier))
		case "counterpartyDefault":
			out = append(out, shock.NewCounterpartyDefault(step, s.Product, s.LossAmount))
		default:
			out = append(out, shock.Unknown{Tag: s.Kind})
		}
	}
	return out
}
