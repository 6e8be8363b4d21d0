// Package bankconfig holds the simulator's configuration record and its
// I/O, following config/config.go in the teacher repository: a plain
// struct with YAML/JSON tags, a Default() constructor, and a Validate()
// method, loaded via LoadFromFile.
//
// This package is part of the ambient layer, not the core: LoadFromFile
// and SaveToFile touch the filesystem. ApplyScenario (scenario.go) is
// the one pure function here, and is one of the three entry points the
// core exposes (spec §6).
package bankconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/banksim/bankcore/product"
	"gopkg.in/yaml.v3"
)

// GlobalConfig holds simulation-wide scalars (spec §6, "global").
type GlobalConfig struct {
	TaxRate                    float64 `json:"taxRate" yaml:"taxRate"`
	OperatingCostRatio         float64 `json:"operatingCostRatio" yaml:"operatingCostRatio"`
	MaxDepositGrowthPerStep    float64 `json:"maxDepositGrowthPerStep" yaml:"maxDepositGrowthPerStep"`
	MaxLoanGrowthPerStep       float64 `json:"maxLoanGrowthPerStep" yaml:"maxLoanGrowthPerStep"`
	FixedOperatingCostPerMonth float64 `json:"fixedOperatingCostPerMonth" yaml:"fixedOperatingCostPerMonth"`
	InitialPortfolioSeed       *int32  `json:"initialPortfolioSeed,omitempty" yaml:"initialPortfolioSeed,omitempty"`
}

// LoanParams configures the loan-cohort engine and its seasoning
// behaviour for one loan product (spec §4.2, §6).
type LoanParams struct {
	DefaultTermMonths          int        `json:"defaultTermMonths" yaml:"defaultTermMonths"`
	MaxTermMonths              int        `json:"maxTermMonths" yaml:"maxTermMonths"`
	InitialSeasoningEnabled    bool       `json:"initialSeasoningEnabled,omitempty" yaml:"initialSeasoningEnabled,omitempty"`
	InitialCouponDispersionBps float64    `json:"initialCouponDispersionBps,omitempty" yaml:"initialCouponDispersionBps,omitempty"`
	InitialPdMultiplierRange   [2]float64 `json:"initialPdMultiplierRange,omitempty" yaml:"initialPdMultiplierRange,omitempty"`
	InitialLgdMultiplierRange  [2]float64 `json:"initialLgdMultiplierRange,omitempty" yaml:"initialLgdMultiplierRange,omitempty"`
	InitialMinBucketOutstanding float64   `json:"initialMinBucketOutstanding,omitempty" yaml:"initialMinBucketOutstanding,omitempty"`
}

// ProductParams configures risk and behavioural parameters for one
// product (spec §6, "productParameters").
type ProductParams struct {
	RiskWeight             float64     `json:"riskWeight" yaml:"riskWeight"`
	BaseDefaultRate        float64     `json:"baseDefaultRate,omitempty" yaml:"baseDefaultRate,omitempty"`
	LossGivenDefault       float64     `json:"lossGivenDefault,omitempty" yaml:"lossGivenDefault,omitempty"`
	VolumeElasticityToRate float64     `json:"volumeElasticityToRate,omitempty" yaml:"volumeElasticityToRate,omitempty"`
	Loan                   *LoanParams `json:"loan,omitempty" yaml:"loan,omitempty"`

	// InitialBalance seeds initial_seasoned_portfolio's opening book
	// (spec §6, entry point 2). It is not itself named as a field of
	// productParameters in spec §6's schema table, but the same section
	// requires initial_seasoned_portfolio to season "until sums match
	// the configured opening balances" — this is where that target
	// balance is configured.
	InitialBalance float64 `json:"initialBalance,omitempty" yaml:"initialBalance,omitempty"`
}

// LiquidityTagConfig configures the LCR/NSFR coefficients for one
// product (spec §6, "liquidityTags").
type LiquidityTagConfig struct {
	HQLALevel      string   `json:"hqlaLevel" yaml:"hqlaLevel"`
	LCROutflowRate *float64 `json:"lcrOutflowRate,omitempty" yaml:"lcrOutflowRate,omitempty"`
	LCRInflowRate  *float64 `json:"lcrInflowRate,omitempty" yaml:"lcrInflowRate,omitempty"`
	NSFRAsfFactor  *float64 `json:"nsfrAsfFactor,omitempty" yaml:"nsfrAsfFactor,omitempty"`
	NSFRRsfFactor  *float64 `json:"nsfrRsfFactor,omitempty" yaml:"nsfrRsfFactor,omitempty"`
}

// RiskLimits are the compliance thresholds (spec §6, "riskLimits").
type RiskLimits struct {
	MinCET1Ratio     float64 `json:"minCet1Ratio" yaml:"minCet1Ratio"`
	MinLeverageRatio float64 `json:"minLeverageRatio" yaml:"minLeverageRatio"`
	MinLCR           float64 `json:"minLcr" yaml:"minLcr"`
	MinNSFR          float64 `json:"minNsfr" yaml:"minNsfr"`
}

// BehaviourConfig configures the deposit/loan behavioural flows
// (spec §6, "behaviour").
type BehaviourConfig struct {
	DepositBaselineGrowthMonthly float64 `json:"depositBaselineGrowthMonthly" yaml:"depositBaselineGrowthMonthly"`
	LoanBaselineGrowthMonthly    float64 `json:"loanBaselineGrowthMonthly" yaml:"loanBaselineGrowthMonthly"`
	MinDepositGrowthPerStep      float64 `json:"minDepositGrowthPerStep" yaml:"minDepositGrowthPerStep"`
	MinLoanGrowthPerStep         float64 `json:"minLoanGrowthPerStep" yaml:"minLoanGrowthPerStep"`
	LoanFeeRateMonthly           float64 `json:"loanFeeRateMonthly" yaml:"loanFeeRateMonthly"`
}

// IdiosyncraticRunParams configures the deposit-run shock's severity
// curve (spec §6, "shockParameters.idiosyncraticRun").
type IdiosyncraticRunParams struct {
	BaseRunOffRate  float64 `json:"baseRunOffRate" yaml:"baseRunOffRate"`
	IncrementalRate float64 `json:"incrementalRate" yaml:"incrementalRate"`
	MaxRunOffRate   float64 `json:"maxRunOffRate" yaml:"maxRunOffRate"`
}

// ShockParameters configures every shock's severity curve.
type ShockParameters struct {
	IdiosyncraticRun IdiosyncraticRunParams `json:"idiosyncraticRun" yaml:"idiosyncraticRun"`
}

// Tolerances configures the pipeline's numeric slack (spec §5, §6).
type Tolerances struct {
	CashFlowRoundingTolerance float64 `json:"cashFlowRoundingTolerance" yaml:"cashFlowRoundingTolerance"`
	CashFlowBreachThreshold   float64 `json:"cashFlowBreachThreshold" yaml:"cashFlowBreachThreshold"`
}

// Config is the single configuration record the core reads (spec §6).
type Config struct {
	Global           GlobalConfig                       `json:"global" yaml:"global"`
	ProductParameters map[product.Type]ProductParams     `json:"productParameters" yaml:"productParameters"`
	LiquidityTags     map[product.Type]LiquidityTagConfig `json:"liquidityTags" yaml:"liquidityTags"`
	RiskLimits        RiskLimits                          `json:"riskLimits" yaml:"riskLimits"`
	Behaviour         BehaviourConfig                     `json:"behaviour" yaml:"behaviour"`
	ShockParameters   ShockParameters                     `json:"shockParameters" yaml:"shockParameters"`
	Tolerances        Tolerances                          `json:"tolerances" yaml:"tolerances"`
}

// Params returns the configured parameters for t, or the zero value if
// unconfigured — callers that need a hard failure should check
// ok themselves via the map form.
func (c *Config) Params(t product.Type) ProductParams {
	return c.ProductParameters[t]
}

// LoadFromFile loads a Config from YAML or JSON, trying YAML first and
// falling back to JSON, exactly like config.LoadFromFile in the teacher.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes cfg as YAML or JSON depending on path's extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the configuration record for the preconditions the
// engine relies on. A missing loan term or a nonsensical tolerance is a
// data-model precondition failure (spec §7) and is caught here before
// the engine ever runs. A missing cash line is not checked here; the
// cohort engine reports it as cohort.ErrMissingCashLine.
func (c *Config) Validate() error {
	if c.Global.TaxRate < 0 || c.Global.TaxRate > 1 {
		return fmt.Errorf("global.taxRate must be in [0,1]")
	}
	if c.Global.OperatingCostRatio < 0 {
		return fmt.Errorf("global.operatingCostRatio must be non-negative")
	}
	for _, t := range product.Loans() {
		p, ok := c.ProductParameters[t]
		if !ok || p.Loan == nil {
			return fmt.Errorf("productParameters[%s].loan is required for loan products", t)
		}
		if p.Loan.DefaultTermMonths <= 0 {
			return fmt.Errorf("productParameters[%s].loan.defaultTermMonths must be positive", t)
		}
		if p.Loan.MaxTermMonths <= 0 || p.Loan.MaxTermMonths > 420 {
			return fmt.Errorf("productParameters[%s].loan.maxTermMonths must be in (0,420]", t)
		}
	}
	if c.RiskLimits.MinCET1Ratio < 0 || c.RiskLimits.MinLeverageRatio < 0 ||
		c.RiskLimits.MinLCR < 0 || c.RiskLimits.MinNSFR < 0 {
		return fmt.Errorf("riskLimits must be non-negative")
	}
	if c.Tolerances.CashFlowRoundingTolerance < 0 || c.Tolerances.CashFlowBreachThreshold < 0 {
		return fmt.Errorf("tolerances must be non-negative")
	}
	if c.Tolerances.CashFlowBreachThreshold < c.Tolerances.CashFlowRoundingTolerance {
		return fmt.Errorf("tolerances.cashFlowBreachThreshold must be >= cashFlowRoundingTolerance")
	}
	return nil
}

// MaxTermMonthsFor returns the configured max term for t, capped at the
// engine-wide ceiling of 420 months (spec §4.2).
func (c *Config) MaxTermMonthsFor(t product.Type) int {
	p := c.ProductParameters[t]
	if p.Loan == nil {
		return 420
	}
	if p.Loan.MaxTermMonths <= 0 || p.Loan.MaxTermMonths > 420 {
		return 420
	}
	return p.Loan.MaxTermMonths
}
