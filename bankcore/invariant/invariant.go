// Package invariant checks the structural and numeric invariants the
// step pipeline must never violate: the balance-sheet identity,
// non-negative balances, cohort/balance-sheet sync, and finiteness of
// every reported ratio (spec §4.6). It never mutates state; it only
// reports what it finds, the way risk.Evaluate in the teacher repository
// scores a position without touching it.
package invariant

import (
	"fmt"
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

const balanceTolerance = 1e-6

// Check runs every invariant against s and returns one message per
// violation found, in a fixed, deterministic order. A nil/empty slice
// means s is internally consistent.
func Check(s *state.BankState, cfg *bankconfig.Config) []string {
	var errs []string
	errs = append(errs, checkIdentity(s)...)
	errs = append(errs, checkNonNegativeBalances(s)...)
	errs = append(errs, checkCohortSync(s, cfg)...)
	errs = append(errs, checkFiniteRatios(s)...)
	return errs
}

func checkIdentity(s *state.BankState) []string {
	assets := s.TotalAssets()
	liabAndCapital := s.TotalLiabilities() + s.Capital.CET1 + s.Capital.AT1
	if diff := math.Abs(assets - liabAndCapital); diff > 1 {
		return []string{fmt.Sprintf("balance sheet identity violated: assets=%.6f liabilities+capital=%.6f diff=%.6f", assets, liabAndCapital, diff)}
	}
	return nil
}

func checkNonNegativeBalances(s *state.BankState) []string {
	var errs []string
	for _, t := range product.All() {
		item, ok := s.BalanceSheet[t]
		if !ok {
			continue
		}
		if item.Balance < -balanceTolerance {
			errs = append(errs, fmt.Sprintf("negative balance on %s: %.6f", t, item.Balance))
		}
	}
	return errs
}

// checkCohortSync verifies that a loan product's balance-sheet line
// balance matches the sum of its outstanding cohort principals, within
// the configured rounding tolerance (spec §4.6, §5).
func checkCohortSync(s *state.BankState, cfg *bankconfig.Config) []string {
	var errs []string
	tol := cfg.Tolerances.CashFlowRoundingTolerance
	if tol <= 0 {
		tol = balanceTolerance
	}
	for _, t := range product.Loans() {
		item, ok := s.BalanceSheet[t]
		if !ok {
			continue
		}
		sum := 0.0
		for _, c := range s.Cohorts[t] {
			sum += c.OutstandingPrincipal
		}
		if diff := math.Abs(item.Balance - sum); diff > tol {
			errs = append(errs, fmt.Sprintf("cohort sync violated on %s: balance=%.6f cohorts=%.6f diff=%.6f", t, item.Balance, sum, diff))
		}
	}
	return errs
}

func checkFiniteRatios(s *state.BankState) []string {
	var errs []string
	ratios := map[string]float64{
		"CET1Ratio":     s.Risk.CET1Ratio,
		"LeverageRatio": s.Risk.LeverageRatio,
		"LCR":           s.Risk.LCR,
		"NSFR":          s.Risk.NSFR,
	}
	for _, name := range []string{"CET1Ratio", "LeverageRatio", "LCR", "NSFR"} {
		v := ratios[name]
		if math.IsNaN(v) {
			errs = append(errs, fmt.Sprintf("%s is NaN", name))
			continue
		}
		if math.IsInf(v, -1) {
			errs = append(errs, fmt.Sprintf("%s is -Inf", name))
		}
	}
	return errs
}
