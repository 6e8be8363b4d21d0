package bankconfig

import (
	"fmt"
	"os"

	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
	"gopkg.in/yaml.v3"
)

// GlobalOverride overrides GlobalConfig field-by-field; nil fields are
// left untouched (spec §6, entry point 3).
type GlobalOverride struct {
	TaxRate                    *float64
	OperatingCostRatio         *float64
	MaxDepositGrowthPerStep    *float64
	MaxLoanGrowthPerStep       *float64
	FixedOperatingCostPerMonth *float64
	InitialPortfolioSeed       *int32
}

// ProductParamsOverride overrides ProductParams field-by-field for one
// product. Loan is replaced wholesale if provided, matching the
// spec's "shallow merge per nested record" rule at the loan sub-record
// boundary.
type ProductParamsOverride struct {
	RiskWeight             *float64
	BaseDefaultRate        *float64
	LossGivenDefault       *float64
	VolumeElasticityToRate *float64
	InitialBalance         *float64
	Loan                   *LoanParams
}

// LiquidityTagOverride overrides LiquidityTagConfig field-by-field.
type LiquidityTagOverride struct {
	HQLALevel      *string
	LCROutflowRate *float64
	LCRInflowRate  *float64
	NSFRAsfFactor  *float64
	NSFRRsfFactor  *float64
}

// RiskLimitsOverride overrides RiskLimits field-by-field.
type RiskLimitsOverride struct {
	MinCET1Ratio     *float64
	MinLeverageRatio *float64
	MinLCR           *float64
	MinNSFR          *float64
}

// BehaviourOverride overrides BehaviourConfig field-by-field.
type BehaviourOverride struct {
	DepositBaselineGrowthMonthly *float64
	LoanBaselineGrowthMonthly    *float64
	MinDepositGrowthPerStep      *float64
	MinLoanGrowthPerStep         *float64
	LoanFeeRateMonthly           *float64
}

// TolerancesOverride overrides Tolerances field-by-field.
type TolerancesOverride struct {
	CashFlowRoundingTolerance *float64
	CashFlowBreachThreshold   *float64
}

// ConfigOverrides is the config-side half of a scenario override set.
type ConfigOverrides struct {
	Global            *GlobalOverride
	ProductParameters map[product.Type]ProductParamsOverride
	LiquidityTags     map[product.Type]LiquidityTagOverride
	RiskLimits        *RiskLimitsOverride
	Behaviour         *BehaviourOverride
	Tolerances        *TolerancesOverride
}

// BalanceSheetItemOverride overrides one balance-sheet line, matched by
// Product (spec §6, "balance-sheet items matched by productType").
type BalanceSheetItemOverride struct {
	Product    product.Type
	Balance    *float64
	AnnualRate *float64
	Encumbered *float64
}

// CapitalOverride overrides CapitalState field-by-field.
type CapitalOverride struct {
	CET1 *float64
	AT1  *float64
}

// MarketOverride overrides MarketState field-by-field, at the
// top-level-scalar and Spreads/Haircuts/Competitor sub-record level.
type MarketOverride struct {
	BaseRate      *float64
	RiskFreeShort *float64
	RiskFreeLong  *float64
	Spreads       *state.Spreads
	Haircuts      *state.Haircuts
	Competitor    *state.CompetitorRates
	MacroModel    *state.MacroModelState
}

// BehaviouralOverride overrides BehaviouralState field-by-field.
type BehaviouralOverride struct {
	DepositFranchiseStrength *float64
	Reputation               *float64
	RatingNotchOffset        *float64
}

// StatusOverride overrides Status field-by-field.
type StatusOverride struct {
	IsInResolution *bool
	HasFailed      *bool
}

// StateOverrides is the state-side half of a scenario override set.
type StateOverrides struct {
	BalanceSheet      []BalanceSheetItemOverride
	Capital           *CapitalOverride
	IncomeStatement   *state.IncomeStatement
	CashFlowStatement *state.CashFlowStatement
	Market            *MarketOverride
	Behaviour         *BehaviouralOverride
	Status            *StatusOverride
}

// ScenarioOverrides bundles config and state overrides — the third
// argument to apply_scenario (spec §6, entry point 3).
type ScenarioOverrides struct {
	Config *ConfigOverrides
	State  *StateOverrides
}

// ApplyScenario folds partial overrides onto cfg and initialState using
// a shallow, field-by-field merge and returns the merged pair. Neither
// input is mutated. This is a pure function — the "no I/O" entry point
// spec §6 describes, distinct from LoadFromFile.
func ApplyScenario(cfg *Config, initialState *state.BankState, overrides ScenarioOverrides) (*Config, *state.BankState) {
	mergedCfg := mergeConfig(cfg, overrides.Config)
	mergedState := mergeState(initialState, overrides.State)
	return mergedCfg, mergedState
}

// LoadScenarioOverrides reads a YAML file of the ambient CLI's override
// wire format and decodes it into a ScenarioOverrides for ApplyScenario.
// This is the only I/O touching apply_scenario's inputs; ApplyScenario
// itself stays pure (spec §6, entry point 3).
func LoadScenarioOverrides(path string) (ScenarioOverrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioOverrides{}, fmt.Errorf("read scenario overrides: %w", err)
	}
	var ov ScenarioOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		return ScenarioOverrides{}, fmt.Errorf("parse scenario overrides: %w", err)
	}
	return ov, nil
}

func mergeConfig(cfg *Config, ov *ConfigOverrides) *Config {
	out := *cfg
	out.ProductParameters = cloneProductParams(cfg.ProductParameters)
	out.LiquidityTags = cloneLiquidityTags(cfg.LiquidityTags)

	if ov == nil {
		return &out
	}

	if g := ov.Global; g != nil {
		if g.TaxRate != nil {
			out.Global.TaxRate = *g.TaxRate
		}
		if g.OperatingCostRatio != nil {
			out.Global.OperatingCostRatio = *g.OperatingCostRatio
		}
		if g.MaxDepositGrowthPerStep != nil {
			out.Global.MaxDepositGrowthPerStep = *g.MaxDepositGrowthPerStep
		}
		if g.MaxLoanGrowthPerStep != nil {
			out.Global.MaxLoanGrowthPerStep = *g.MaxLoanGrowthPerStep
		}
		if g.FixedOperatingCostPerMonth != nil {
			out.Global.FixedOperatingCostPerMonth = *g.FixedOperatingCostPerMonth
		}
		if g.InitialPortfolioSeed != nil {
			out.Global.InitialPortfolioSeed = g.InitialPortfolioSeed
		}
	}

	for t, pov := range ov.ProductParameters {
		p := out.ProductParameters[t]
		if pov.RiskWeight != nil {
			p.RiskWeight = *pov.RiskWeight
		}
		if pov.BaseDefaultRate != nil {
			p.BaseDefaultRate = *pov.BaseDefaultRate
		}
		if pov.LossGivenDefault != nil {
			p.LossGivenDefault = *pov.LossGivenDefault
		}
		if pov.VolumeElasticityToRate != nil {
			p.VolumeElasticityToRate = *pov.VolumeElasticityToRate
		}
		if pov.InitialBalance != nil {
			p.InitialBalance = *pov.InitialBalance
		}
		if pov.Loan != nil {
			loan := *pov.Loan
			p.Loan = &loan
		}
		out.ProductParameters[t] = p
	}

	for t, lov := range ov.LiquidityTags {
		l := out.LiquidityTags[t]
		if lov.HQLALevel != nil {
			l.HQLALevel = *lov.HQLALevel
		}
		if lov.LCROutflowRate != nil {
			l.LCROutflowRate = lov.LCROutflowRate
		}
		if lov.LCRInflowRate != nil {
			l.LCRInflowRate = lov.LCRInflowRate
		}
		if lov.NSFRAsfFactor != nil {
			l.NSFRAsfFactor = lov.NSFRAsfFactor
		}
		if lov.NSFRRsfFactor != nil {
			l.NSFRRsfFactor = lov.NSFRRsfFactor
		}
		out.LiquidityTags[t] = l
	}

	if r := ov.RiskLimits; r != nil {
		if r.MinCET1Ratio != nil {
			out.RiskLimits.MinCET1Ratio = *r.MinCET1Ratio
		}
		if r.MinLeverageRatio != nil {
			out.RiskLimits.MinLeverageRatio = *r.MinLeverageRatio
		}
		if r.MinLCR != nil {
			out.RiskLimits.MinLCR = *r.MinLCR
		}
		if r.MinNSFR != nil {
			out.RiskLimits.MinNSFR = *r.MinNSFR
		}
	}

	if b := ov.Behaviour; b != nil {
		if b.DepositBaselineGrowthMonthly != nil {
			out.Behaviour.DepositBaselineGrowthMonthly = *b.DepositBaselineGrowthMonthly
		}
		if b.LoanBaselineGrowthMonthly != nil {
			out.Behaviour.LoanBaselineGrowthMonthly = *b.LoanBaselineGrowthMonthly
		}
		if b.MinDepositGrowthPerStep != nil {
			out.Behaviour.MinDepositGrowthPerStep = *b.MinDepositGrowthPerStep
		}
		if b.MinLoanGrowthPerStep != nil {
			out.Behaviour.MinLoanGrowthPerStep = *b.MinLoanGrowthPerStep
		}
		if b.LoanFeeRateMonthly != nil {
			out.Behaviour.LoanFeeRateMonthly = *b.LoanFeeRateMonthly
		}
	}

	if to := ov.Tolerances; to != nil {
		if to.CashFlowRoundingTolerance != nil {
			out.Tolerances.CashFlowRoundingTolerance = *to.CashFlowRoundingTolerance
		}
		if to.CashFlowBreachThreshold != nil {
			out.Tolerances.CashFlowBreachThreshold = *to.CashFlowBreachThreshold
		}
	}

	return &out
}

func cloneProductParams(m map[product.Type]ProductParams) map[product.Type]ProductParams {
	out := make(map[product.Type]ProductParams, len(m))
	for t, p := range m {
		cp := p
		if p.Loan != nil {
			loan := *p.Loan
			cp.Loan = &loan
		}
		out[t] = cp
	}
	return out
}

func cloneLiquidityTags(m map[product.Type]LiquidityTagConfig) map[product.Type]LiquidityTagConfig {
	out := make(map[product.Type]LiquidityTagConfig, len(m))
	for t, l := range m {
		out[t] = l
	}
	return out
}

func mergeState(s *state.BankState, ov *StateOverrides) *state.BankState {
	out := s.Clone()
	if ov == nil {
		return out
	}

	for _, bov := range ov.BalanceSheet {
		item := out.Item(bov.Product)
		if bov.Balance != nil {
			item.Balance = *bov.Balance
		}
		if bov.AnnualRate != nil {
			item.AnnualRate = *bov.AnnualRate
		}
		if bov.Encumbered != nil {
			item.Encumbered = *bov.Encumbered
		}
	}

	if c := ov.Capital; c != nil {
		if c.CET1 != nil {
			out.Capital.CET1 = *c.CET1
		}
		if c.AT1 != nil {
			out.Capital.AT1 = *c.AT1
		}
	}

	if ov.IncomeStatement != nil {
		out.IncomeStatement = *ov.IncomeStatement
	}
	if ov.CashFlowStatement != nil {
		out.CashFlowStatement = *ov.CashFlowStatement
	}

	if m := ov.Market; m != nil {
		if m.BaseRate != nil {
			out.Market.BaseRate = *m.BaseRate
		}
		if m.RiskFreeShort != nil {
			out.Market.RiskFreeShort = *m.RiskFreeShort
		}
		if m.RiskFreeLong != nil {
			out.Market.RiskFreeLong = *m.RiskFreeLong
		}
		if m.Spreads != nil {
			out.Market.Spreads = *m.Spreads
		}
		if m.Haircuts != nil {
			out.Market.Haircuts = *m.Haircuts
		}
		if m.Competitor != nil {
			out.Market.Competitor = *m.Competitor
		}
		if m.MacroModel != nil {
			out.Market.MacroModel = *m.MacroModel
		}
	}

	if b := ov.Behaviour; b != nil {
		if b.DepositFranchiseStrength != nil {
			out.Behaviour.DepositFranchiseStrength = *b.DepositFranchiseStrength
		}
		if b.Reputation != nil {
			out.Behaviour.Reputation = *b.Reputation
		}
		if b.RatingNotchOffset != nil {
			out.Behaviour.RatingNotchOffset = *b.RatingNotchOffset
		}
	}

	if st := ov.Status; st != nil {
		if st.IsInResolution != nil {
			out.Status.IsInResolution = *st.IsInResolution
		}
		if st.HasFailed != nil {
			out.Status.HasFailed = *st.HasFailed
		}
	}

	return out
}
