package cohort

import (
	"math"

	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// StepResult carries the aggregate outputs of one call to Step (spec §4.2).
type StepResult struct {
	LoanInterestIncome  float64
	RecognizedLoanLosses map[product.Type]float64
}

// clampF clamps v to [lo, hi].
func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// payment computes the standard fixed-payment amortisation instalment
// for a loan with the given outstanding balance, monthly rate, and
// remaining term, falling back to straight-line amortisation when the
// rate is negligible (spec §4.2, step_cohorts item 1).
func payment(outstanding, monthlyRate float64, remaining int) float64 {
	if remaining <= 0 {
		return outstanding
	}
	if math.Abs(monthlyRate) < 1e-12 {
		return outstanding / float64(remaining)
	}
	denom := 1 - math.Pow(1+monthlyRate, -float64(remaining))
	if denom == 0 {
		return outstanding / float64(remaining)
	}
	return outstanding * monthlyRate / denom
}

// Step amortises, defaults, and writes down every loan cohort across
// dtMonths whole months, then applies any extra (counterparty-default
// style) losses, and finally removes dead cohorts and resyncs balances
// (spec §4.2, "step_cohorts").
func Step(
	s *state.BankState,
	dtMonths float64,
	pdMult, lgdMult float64,
	extraLossesByProduct map[product.Type]float64,
) StepResult {
	result := StepResult{RecognizedLoanLosses: make(map[product.Type]float64)}

	months := int(math.Round(dtMonths))
	if months < 0 {
		months = 0
	}

	cash := s.CashLine()

	for month := 0; month < months; month++ {
		for _, p := range product.Loans() {
			for _, c := range s.Cohorts[p] {
				if c.OutstandingPrincipal <= 0 || c.AgeMonths >= c.TermMonths {
					continue
				}

				r := c.AnnualInterestRate / 12
				remaining := c.TermMonths - c.AgeMonths
				pmt := payment(c.OutstandingPrincipal, r, remaining)

				interest := c.OutstandingPrincipal * r
				principal := math.Min(c.OutstandingPrincipal, math.Max(0, pmt-interest))

				c.OutstandingPrincipal -= principal
				if cash != nil {
					cash.Balance += interest + principal
				}
				result.LoanInterestIncome += interest

				pdEff := clampF(c.AnnualPD*pdMult, 0, 0.999999)
				monthlyPD := 1 - math.Pow(1-pdEff, 1.0/12.0)
				defaulted := c.OutstandingPrincipal * monthlyPD

				if defaulted > 0 {
					lgdEff := clampF(c.LGD*lgdMult, 0, 1)
					loss := defaulted * lgdEff
					recovery := defaulted - loss

					c.OutstandingPrincipal -= defaulted
					if cash != nil {
						cash.Balance += recovery
					}
					result.RecognizedLoanLosses[p] += loss
				}

				c.AgeMonths++
			}
		}
	}

	for p, extra := range extraLossesByProduct {
		if !product.MetaOf(p).IsLoan || extra <= 0 {
			continue
		}
		cohorts := s.Cohorts[p]
		totalOutstanding := 0.0
		for _, c := range cohorts {
			totalOutstanding += c.OutstandingPrincipal
		}
		if totalOutstanding <= 0 {
			continue
		}
		writeDown := math.Min(extra, totalOutstanding)

		remaining := writeDown
		for i, c := range cohorts {
			var share float64
			if i == len(cohorts)-1 {
				share = remaining
			} else {
				share = writeDown * (c.OutstandingPrincipal / totalOutstanding)
				if share > c.OutstandingPrincipal {
					share = c.OutstandingPrincipal
				}
			}
			c.OutstandingPrincipal -= share
			remaining -= share
		}
		result.RecognizedLoanLosses[p] += writeDown
	}

	for _, p := range product.Loans() {
		s.Cohorts[p] = removeDeadCohorts(s.Cohorts[p])
	}
	SyncBalances(s)

	return result
}
