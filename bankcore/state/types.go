// Package state defines the bank's balance sheet, capital, income,
// liquidity, market, and behavioural state, and the composite BankState
// that the step pipeline evolves one calendar month at a time.
//
// Every entity here is exclusively owned by the enclosing BankState — a
// step pipeline never aliases a live object between an input state and
// the state it produces. Clone (clone.go) is what makes that guarantee
// cheap to uphold.
package state

import (
	"time"

	"github.com/rustyeddy/banksim/bankcore/product"
)

// HQLALevel classifies an asset's liquidity tier for LCR purposes.
type HQLALevel int

const (
	HQLANone HQLALevel = iota
	HQLALevel1
	HQLALevel2A
	HQLALevel2B
)

// LiquidityTag carries the optional LCR/NSFR coefficients configured
// per product (spec §3, "BalanceSheetItem").
type LiquidityTag struct {
	HQLALevel      HQLALevel
	LCROutflowRate *float64
	LCRInflowRate  *float64
	NSFRAsfFactor  *float64
	NSFRRsfFactor  *float64
}

// BalanceSheetItem is one line on the balance sheet.
type BalanceSheetItem struct {
	Product     product.Type
	Balance     float64
	AnnualRate  float64
	MaturityTag string
	Encumbered  float64
	Liquidity   LiquidityTag
}

// LoanCohort is an ordered bucket of loans sharing product, rate, term,
// age, PD, and LGD (spec §3, "LoanCohort").
type LoanCohort struct {
	Product            product.Type
	CohortID           int
	OriginalPrincipal  float64
	OutstandingPrincipal float64
	AnnualInterestRate float64
	TermMonths         int
	AgeMonths          int
	AnnualPD           float64
	LGD                float64
}

// CapitalState is the bank's regulatory capital.
type CapitalState struct {
	CET1 float64
	AT1  float64
}

// IncomeStatement is the monthly P&L (spec §3).
type IncomeStatement struct {
	InterestIncome    float64
	InterestExpense   float64
	NetInterestIncome float64
	FeeIncome         float64
	CreditLosses      float64
	OperatingExpenses float64
	PreTaxProfit      float64
	Tax               float64
	NetIncome         float64
}

// CashFlowStatement is the monthly cash-flow decomposition (spec §3).
type CashFlowStatement struct {
	CashStart  float64
	CashEnd    float64
	NetChange  float64
	Operating  float64
	Investing  float64
	Financing  float64
}

// RiskMetrics are the regulatory ratios computed each step (spec §4.4).
// Ratios may be +Inf when their denominator is zero but must never be
// NaN or -Inf; the invariant checker (bankcore/invariant) enforces this.
type RiskMetrics struct {
	RWA                  float64
	LeverageExposure     float64
	CET1Ratio            float64
	LeverageRatio        float64
	HQLA                 float64
	LCR                  float64
	LCROutflowMultiplier float64
	ASF                  float64
	RSF                  float64
	NSFR                 float64
}

// Compliance is the 4-tuple of pass/fail flags against configured
// regulatory minimums.
type Compliance struct {
	CET1Breach     bool
	LeverageBreach bool
	LCRBreach      bool
	NSFRBreach     bool
}

// AnyBreach reports whether any of the four ratios is in breach.
func (c Compliance) AnyBreach() bool {
	return c.CET1Breach || c.LeverageBreach || c.LCRBreach || c.NSFRBreach
}

// Spreads are the credit/funding spreads carried on the market state
// (spec §3, "MarketState").
type Spreads struct {
	Mortgage    float64
	Corporate   float64
	Wholesale   float64
	SeniorDebt  float64
	Credit      float64
}

// Haircuts are repo haircuts by collateral class.
type Haircuts struct {
	Gilt      float64
	CorpBond  float64
}

// CompetitorRates are the market's competing prices for deposits and
// mortgages, used by the behavioural flows.
type CompetitorRates struct {
	RetailDeposit    float64
	CorporateDeposit *float64
	Mortgage         float64
}

// MacroObservables are the headline macro series.
type MacroObservables struct {
	GDPGrowthMoM     float64
	UnemploymentRate float64
	InflationRate    float64
	CreditSpread     float64
}

// NelsonSiegelFactors parametrise the fitted gilt curve.
type NelsonSiegelFactors struct {
	Level     float64
	Slope     float64
	Curvature float64
	Lambda    float64
}

// GiltCurve carries both the fitted factors and the explicit tenor
// points the engine evaluates from them.
type GiltCurve struct {
	Factors NelsonSiegelFactors
	Y1      float64
	Y2      float64
	Y3      float64
	Y5      float64
	Y10     float64
	Y20     float64
	Y30     float64
}

// GDPRegime is the macro model's 2-state Markov regime.
type GDPRegime int

const (
	RegimeNormal GDPRegime = iota
	RegimeRecession
)

// MacroModelState is the macro-market model's own internal substate:
// four correlated factors, the regime, latent unemployment, term
// premium, and the RNG seed that lets the model resume its stream
// across steps (spec §4.1, §4.3).
type MacroModelState struct {
	D, S, F, R          float64
	Regime              GDPRegime
	LatentUnemployment  float64
	TermPremium         float64
	RNGSeed             int32
}

// MarketState is the exogenous macro-market state (spec §3, "MarketState").
type MarketState struct {
	BaseRate        float64
	RiskFreeShort   float64
	RiskFreeLong    float64
	Spreads         Spreads
	Haircuts        Haircuts
	Competitor      CompetitorRates
	Macro           MacroObservables
	Curve           GiltCurve
	MacroModel      MacroModelState
}

// BehaviouralState carries the franchise-strength dials referenced by
// the behavioural flows (spec §3).
type BehaviouralState struct {
	DepositFranchiseStrength float64
	Reputation               float64
	RatingNotchOffset        float64
}

// Status is the bank's sticky pass/fail flags (spec §4.5).
type Status struct {
	IsInResolution bool
	HasFailed      bool
}

// Clock is the simulation's calendar (spec §3).
type Clock struct {
	Step             int
	Date             time.Time
	StepLengthMonths float64
}

// BankState composes every piece of state the step pipeline reads and
// evolves. Balance sheet items and loan cohorts are keyed by product
// but their declaration order (product.All()) is the iteration order
// the pipeline must use for deterministic output (spec §9).
type BankState struct {
	Version string

	BalanceSheet map[product.Type]*BalanceSheetItem
	Cohorts      map[product.Type][]*LoanCohort

	Capital           CapitalState
	IncomeStatement   IncomeStatement
	CashFlowStatement CashFlowStatement

	Risk       RiskMetrics
	Compliance Compliance

	Market     MarketState
	Behaviour  BehaviouralState
	Status     Status
	Clock      Clock
}

// CashLine returns the cash reserves line, or nil if the book has none.
func (s *BankState) CashLine() *BalanceSheetItem {
	return s.BalanceSheet[product.CashReserves]
}

// Item returns the balance-sheet line for t, creating a zero-value line
// lazily if none exists yet (spec §3, "Lifecycle": lines for products
// like RepurchaseAgreements/ReverseRepo are created lazily and never
// removed).
func (s *BankState) Item(t product.Type) *BalanceSheetItem {
	if it, ok := s.BalanceSheet[t]; ok {
		return it
	}
	it := &BalanceSheetItem{Product: t}
	s.BalanceSheet[t] = it
	return it
}

// TotalAssets sums every asset-side balance-sheet line.
func (s *BankState) TotalAssets() float64 {
	total := 0.0
	for _, t := range product.All() {
		if product.MetaOf(t).Side != product.SideAsset {
			continue
		}
		if it, ok := s.BalanceSheet[t]; ok {
			total += it.Balance
		}
	}
	return total
}

// TotalLiabilities sums every liability-side balance-sheet line.
func (s *BankState) TotalLiabilities() float64 {
	total := 0.0
	for _, t := range product.All() {
		if product.MetaOf(t).Side != product.SideLiability {
			continue
		}
		if it, ok := s.BalanceSheet[t]; ok {
			total += it.Balance
		}
	}
	return total
}
