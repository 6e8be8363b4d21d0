package engine

import (
	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/cohort"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

func clampGrowth(rate, lo, hi float64) float64 {
	if rate < lo {
		return lo
	}
	if rate > hi {
		return hi
	}
	return rate
}

// depositBehaviour grows or shrinks each customer-deposit product
// organically off its posted rate versus the competitor rate for its
// segment, scaled by franchise strength, and clamped to the configured
// growth band (spec §4.5 step 5).
func depositBehaviour(s *state.BankState, cfg *bankconfig.Config, flow *cashFlowTracker) {
	beh := cfg.Behaviour
	for _, t := range product.All() {
		meta := product.MetaOf(t)
		if !meta.IsCustomerDep {
			continue
		}
		item := s.Item(t)
		competitor := s.Market.Competitor.RetailDeposit
		if meta.DepositSegment == product.DepositSegmentCorporate && s.Market.Competitor.CorporateDeposit != nil {
			competitor = *s.Market.Competitor.CorporateDeposit
		}

		rateDiff := item.AnnualRate - competitor
		growth := beh.DepositBaselineGrowthMonthly + rateDiff*s.Behaviour.DepositFranchiseStrength
		growth = clampGrowth(growth, beh.MinDepositGrowthPerStep, cfg.Global.MaxDepositGrowthPerStep)

		growthFactor := 1 + growth*s.Clock.StepLengthMonths
		if growthFactor < 0 {
			growthFactor = 0
		}
		delta := item.Balance * (growthFactor - 1)
		item.Balance += delta
		if item.Balance < 0 {
			item.Balance = 0
		}
		if cash := s.CashLine(); cash != nil {
			cash.Balance += delta
		}
		flow.bookOperating(delta)
	}
}

// loanBehaviour grows or shrinks organic loan demand off the posted
// rate versus the product's competitor benchmark, feeding new demand
// through cohort.Originate/Prepay so cohort mechanics stay the single
// source of truth for outstanding principal (spec §4.5 step 6).
func loanBehaviour(s *state.BankState, cfg *bankconfig.Config, step int, flow *cashFlowTracker) {
	beh := cfg.Behaviour

	for _, t := range product.Loans() {
		meta := product.MetaOf(t)
		item := s.Item(t)
		params := cfg.Params(t)

		benchmark := s.Market.Competitor.Mortgage
		if meta.LoanBenchmark == product.LoanBenchmarkCorporate {
			benchmark = s.Market.RiskFreeLong + s.Market.Spreads.Corporate
		}
		rateDiff := benchmark - item.AnnualRate

		growth := beh.LoanBaselineGrowthMonthly + rateDiff*params.VolumeElasticityToRate
		growth = clampGrowth(growth, beh.MinLoanGrowthPerStep, cfg.Global.MaxLoanGrowthPerStep)

		growthFactor := 1 + growth*s.Clock.StepLengthMonths
		if growthFactor < 0 {
			growthFactor = 0
		}
		delta := item.Balance * (growthFactor - 1)
		if delta > 0 {
			// Organic originations share cohortID -1-step, distinct
			// from the player-driven BuySellAsset cohortID of step, so
			// the two flows never accidentally merge into one cohort.
			funded, err := cohort.Originate(s, cfg, t, -1-step, delta, item.AnnualRate, 0, params.BaseDefaultRate, params.LossGivenDefault)
			if err == nil {
				flow.bookOperating(-funded)
			}
		} else if delta < 0 {
			paid := cohort.Prepay(s, t, -delta)
			flow.bookOperating(paid)
		}
	}
}
