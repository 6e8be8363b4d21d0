package bankconfig

import "github.com/rustyeddy/banksim/bankcore/product"

func f64(v float64) *float64 { return &v }

// Default returns a configuration with sensible defaults for every
// product, following config.Default() in the teacher repository.
func Default() *Config {
	return &Config{
		Global: GlobalConfig{
			TaxRate:                    0.25,
			OperatingCostRatio:         0.015,
			MaxDepositGrowthPerStep:    0.10,
			MaxLoanGrowthPerStep:       0.10,
			FixedOperatingCostPerMonth: 2_000_000,
		},
		ProductParameters: map[product.Type]ProductParams{
			product.CashReserves: {RiskWeight: 0.0, InitialBalance: 400_000_000},
			product.Gilts:        {RiskWeight: 0.0, InitialBalance: 100_000_000},
			product.Mortgages: {
				RiskWeight: 0.35, BaseDefaultRate: 0.007, LossGivenDefault: 0.15,
				VolumeElasticityToRate: 8.0,
				InitialBalance:         600_000_000,
				Loan: &LoanParams{
					DefaultTermMonths:           300,
					MaxTermMonths:               420,
					InitialSeasoningEnabled:     true,
					InitialCouponDispersionBps:  40,
					InitialPdMultiplierRange:    [2]float64{0.7, 1.3},
					InitialLgdMultiplierRange:   [2]float64{0.8, 1.2},
					InitialMinBucketOutstanding: 1_000_000,
				},
			},
			product.CorporateLoans: {
				RiskWeight: 1.0, BaseDefaultRate: 0.02, LossGivenDefault: 0.45,
				VolumeElasticityToRate: 6.0,
				InitialBalance:         300_000_000,
				Loan: &LoanParams{
					DefaultTermMonths:           60,
					MaxTermMonths:               120,
					InitialSeasoningEnabled:     true,
					InitialCouponDispersionBps:  80,
					InitialPdMultiplierRange:    [2]float64{0.7, 1.3},
					InitialLgdMultiplierRange:   [2]float64{0.8, 1.2},
					InitialMinBucketOutstanding: 500_000,
				},
			},
			product.ReverseRepo:          {RiskWeight: 0.2},
			product.RetailDeposits:       {RiskWeight: 0.0, VolumeElasticityToRate: 4.0, InitialBalance: 900_000_000},
			product.CorporateDeposits:    {RiskWeight: 0.0, VolumeElasticityToRate: 3.0, InitialBalance: 250_000_000},
			product.WholesaleFundingST:   {RiskWeight: 0.0},
			product.WholesaleFundingLT:   {RiskWeight: 0.0, InitialBalance: 150_000_000},
			product.RepurchaseAgreements: {RiskWeight: 0.0},
		},
		LiquidityTags: map[product.Type]LiquidityTagConfig{
			product.CashReserves:         {HQLALevel: "Level1"},
			product.Gilts:                {HQLALevel: "Level1"},
			product.Mortgages:            {HQLALevel: "None", NSFRRsfFactor: f64(0.65)},
			product.CorporateLoans:       {HQLALevel: "None", NSFRRsfFactor: f64(0.85)},
			product.ReverseRepo:          {HQLALevel: "None", NSFRRsfFactor: f64(0.10)},
			product.RetailDeposits:       {HQLALevel: "None", LCROutflowRate: f64(0.05), NSFRAsfFactor: f64(0.95)},
			product.CorporateDeposits:    {HQLALevel: "None", LCROutflowRate: f64(0.25), NSFRAsfFactor: f64(0.50)},
			product.WholesaleFundingST:   {HQLALevel: "None", LCROutflowRate: f64(1.00), NSFRAsfFactor: f64(0.0)},
			product.WholesaleFundingLT:   {HQLALevel: "None", NSFRAsfFactor: f64(1.00)},
			product.RepurchaseAgreements: {HQLALevel: "None", LCROutflowRate: f64(0.25), NSFRAsfFactor: f64(0.0)},
		},
		RiskLimits: RiskLimits{
			MinCET1Ratio:     0.045,
			MinLeverageRatio: 0.03,
			MinLCR:           1.00,
			MinNSFR:          1.00,
		},
		Behaviour: BehaviourConfig{
			DepositBaselineGrowthMonthly: 0.002,
			LoanBaselineGrowthMonthly:    0.003,
			MinDepositGrowthPerStep:      -0.20,
			MinLoanGrowthPerStep:         -0.20,
			LoanFeeRateMonthly:           0.0004,
		},
		ShockParameters: ShockParameters{
			IdiosyncraticRun: IdiosyncraticRunParams{
				BaseRunOffRate:  0.02,
				IncrementalRate: 0.15,
				MaxRunOffRate:   0.40,
			},
		},
		Tolerances: Tolerances{
			CashFlowRoundingTolerance: 1e-2,
			CashFlowBreachThreshold:   1000,
		},
	}
}
