// Package riskmetrics computes the regulatory ratios the step pipeline
// reports each period: risk-weighted capital, leverage, liquidity
// coverage, and net stable funding, in the spirit of risk.Evaluate's
// deterministic scoring pass in the teacher repository, but scored
// against a balance sheet instead of a single trade.
package riskmetrics

import (
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// hqlaFactor is the LCR haircut applied by asset liquidity tier
// (spec §4.4): Level 1 collateral counts in full, Level 2A at 85%,
// Level 2B at 50%, everything else at 0%.
func hqlaFactor(level state.HQLALevel) float64 {
	switch level {
	case state.HQLALevel1:
		return 1.0
	case state.HQLALevel2A:
		return 0.85
	case state.HQLALevel2B:
		return 0.5
	default:
		return 0
	}
}

// Compute fills s.Risk from the balance sheet, cfg's per-product risk
// weights and liquidity tags, and the stress multiplier applicable at
// this step (1.0 absent any liquidity shock).
func Compute(s *state.BankState, cfg *bankconfig.Config, lcrStressMultiplier float64) {
	rwa := computeRWA(s, cfg)
	leverageExposure := s.TotalAssets()
	hqla := computeHQLA(s, cfg)
	outflows, inflows := computeLCRFlows(s, cfg, lcrStressMultiplier)
	asf, rsf := computeNSFR(s, cfg)

	s.Risk = state.RiskMetrics{
		RWA:                  rwa,
		LeverageExposure:      leverageExposure,
		CET1Ratio:            safeDiv(s.Capital.CET1, rwa),
		LeverageRatio:        safeDiv(s.Capital.CET1+s.Capital.AT1, leverageExposure),
		HQLA:                 hqla,
		LCR:                  safeDiv(hqla, netOutflows(outflows, inflows)),
		LCROutflowMultiplier: lcrStressMultiplier,
		ASF:                  asf,
		RSF:                  rsf,
		NSFR:                 safeDiv(asf, rsf),
	}

	s.Compliance = state.Compliance{
		CET1Breach:     s.Risk.CET1Ratio < cfg.RiskLimits.MinCET1Ratio,
		LeverageBreach: s.Risk.LeverageRatio < cfg.RiskLimits.MinLeverageRatio,
		LCRBreach:      s.Risk.LCR < cfg.RiskLimits.MinLCR,
		NSFRBreach:     s.Risk.NSFR < cfg.RiskLimits.MinNSFR,
	}
}

func computeRWA(s *state.BankState, cfg *bankconfig.Config) float64 {
	rwa := 0.0
	for _, t := range product.All() {
		if product.MetaOf(t).Side != product.SideAsset {
			continue
		}
		item, ok := s.BalanceSheet[t]
		if !ok {
			continue
		}
		rwa += item.Balance * cfg.Params(t).RiskWeight
	}
	return rwa
}

func computeHQLA(s *state.BankState, cfg *bankconfig.Config) float64 {
	hqla := 0.0
	for _, t := range product.All() {
		if product.MetaOf(t).Side != product.SideAsset {
			continue
		}
		item, ok := s.BalanceSheet[t]
		if !ok {
			continue
		}
		factor := hqlaFactor(item.Liquidity.HQLALevel)
		if factor == 0 {
			continue
		}
		available := item.Balance - item.Encumbered
		if available < 0 {
			available = 0
		}
		hqla += available * factor
	}
	return hqla
}

// computeLCRFlows returns gross 30-day outflows and inflows. The stress
// multiplier scales outflows only on customer-deposit products (spec
// §4.4): wholesale and repo lines run off at their configured rate
// regardless of the deposit-run shock's severity.
func computeLCRFlows(s *state.BankState, cfg *bankconfig.Config, stressMultiplier float64) (outflows, inflows float64) {
	for _, t := range product.All() {
		item, ok := s.BalanceSheet[t]
		if !ok {
			continue
		}
		meta := product.MetaOf(t)
		if meta.Side == product.SideLiability {
			if item.Liquidity.LCROutflowRate == nil {
				continue
			}
			rate := *item.Liquidity.LCROutflowRate
			mult := 1.0
			if meta.IsCustomerDep {
				mult = stressMultiplier
			}
			outflows += item.Balance * rate * mult
		} else {
			if item.Liquidity.LCRInflowRate == nil {
				continue
			}
			inflows += item.Balance * (*item.Liquidity.LCRInflowRate)
		}
	}
	return outflows, inflows
}

// netOutflows applies the 75% cap on inflows offsetting outflows
// (spec §4.4).
func netOutflows(outflows, inflows float64) float64 {
	inflowCap := 0.75 * outflows
	if inflows > inflowCap {
		inflows = inflowCap
	}
	net := outflows - inflows
	if net < 0 {
		net = 0
	}
	return net
}

func computeNSFR(s *state.BankState, cfg *bankconfig.Config) (asf, rsf float64) {
	for _, t := range product.All() {
		item, ok := s.BalanceSheet[t]
		if !ok {
			continue
		}
		meta := product.MetaOf(t)
		if meta.Side == product.SideLiability {
			if item.Liquidity.NSFRAsfFactor != nil {
				asf += item.Balance * (*item.Liquidity.NSFRAsfFactor)
			}
		} else {
			if item.Liquidity.NSFRRsfFactor != nil {
				rsf += item.Balance * (*item.Liquidity.NSFRRsfFactor)
			}
		}
	}
	asf += s.Capital.CET1 + s.Capital.AT1
	return asf, rsf
}

// safeDiv returns +Inf rather than NaN when the denominator is zero,
// matching spec §4.4's "ratios may be +Inf ... but must never be NaN".
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return math.Inf(1)
	}
	return num / den
}
