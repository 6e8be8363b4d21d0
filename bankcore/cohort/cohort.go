// Package cohort implements the loan-cohort engine: amortisation,
// origination, prepayment, default/write-down, and seasoned-portfolio
// generation (spec §4.2). Its mutation methods follow the same
// "operate directly on the owned state, no aliasing" shape as
// sim.Engine's *Locked helpers in the teacher repository, simplified
// because the core here is single-threaded by contract (spec §5) and
// needs no mutex.
package cohort

import (
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// SyncBalances recomputes each loan product's balance-sheet balance as
// the sum of its cohort outstandings (spec §4.2, "sync_balances").
func SyncBalances(s *state.BankState) {
	for _, t := range product.Loans() {
		sum := 0.0
		for _, c := range s.Cohorts[t] {
			sum += c.OutstandingPrincipal
		}
		s.Item(t).Balance = sum
	}
}

func clampTerm(requested, maxTerm int) int {
	if maxTerm <= 0 || maxTerm > 420 {
		maxTerm = 420
	}
	if requested <= 0 {
		return maxTerm
	}
	if requested > maxTerm {
		return maxTerm
	}
	return requested
}

// Originate funds a new or existing loan cohort. funded is capped by
// requested principal and available cash. If no CashReserves line
// exists, it returns ErrMissingCashLine (spec §4.2, §7).
//
// term, if zero, defaults to config.loan.defaultTermMonths; the
// effective term is always clamped to min(maxTermMonths, 420).
func Originate(
	s *state.BankState,
	cfg *bankconfig.Config,
	p product.Type,
	cohortID int,
	requestedPrincipal, rate float64,
	term int,
	annualPD, lgd float64,
) (float64, error) {
	cash := s.CashLine()
	if cash == nil {
		return 0, ErrMissingCashLine
	}
	if requestedPrincipal <= 0 {
		return 0, nil
	}

	params := cfg.Params(p)
	defaultTerm := 0
	maxTerm := 420
	if params.Loan != nil {
		defaultTerm = params.Loan.DefaultTermMonths
		maxTerm = params.Loan.MaxTermMonths
	}
	if term <= 0 {
		term = defaultTerm
	}
	effTerm := clampTerm(term, maxTerm)

	funded := math.Min(requestedPrincipal, cash.Balance)
	if funded <= 0 {
		return 0, nil
	}

	cash.Balance -= funded

	cohorts := s.Cohorts[p]
	for _, c := range cohorts {
		if c.CohortID != cohortID {
			continue
		}
		totalOutstanding := c.OutstandingPrincipal + funded
		if totalOutstanding > 0 {
			c.AnnualInterestRate = weightedAvg(c.OutstandingPrincipal, c.AnnualInterestRate, funded, rate)
			c.AnnualPD = weightedAvg(c.OutstandingPrincipal, c.AnnualPD, funded, annualPD)
			c.LGD = weightedAvg(c.OutstandingPrincipal, c.LGD, funded, lgd)
		}
		c.OriginalPrincipal += funded
		c.OutstandingPrincipal = totalOutstanding
		if effTerm > c.TermMonths {
			c.TermMonths = effTerm
		}
		c.AgeMonths = 0
		SyncBalances(s)
		return funded, nil
	}

	s.Cohorts[p] = append(cohorts, &state.LoanCohort{
		Product:              p,
		CohortID:             cohortID,
		OriginalPrincipal:    funded,
		OutstandingPrincipal: funded,
		AnnualInterestRate:   rate,
		TermMonths:           effTerm,
		AgeMonths:            0,
		AnnualPD:             annualPD,
		LGD:                  lgd,
	})
	SyncBalances(s)
	return funded, nil
}

func weightedAvg(w1, v1, w2, v2 float64) float64 {
	total := w1 + w2
	if total <= 0 {
		return v2
	}
	return (w1*v1 + w2*v2) / total
}

// Prepay allocates a requested prepayment pro-rata across a product's
// cohorts, crediting cash with the amount actually paid. It is a no-op
// for non-loan products (spec §4.2, "prepay"). The final cohort absorbs
// any pro-rata rounding residual so cohort sums never drift from the
// amount paid.
func Prepay(s *state.BankState, p product.Type, requestedAmount float64) float64 {
	if !product.MetaOf(p).IsLoan || requestedAmount <= 0 {
		return 0
	}

	cohorts := s.Cohorts[p]
	totalOutstanding := 0.0
	for _, c := range cohorts {
		totalOutstanding += c.OutstandingPrincipal
	}
	if totalOutstanding <= 0 {
		return 0
	}

	paid := math.Min(requestedAmount, totalOutstanding)

	remaining := paid
	for i, c := range cohorts {
		var share float64
		if i == len(cohorts)-1 {
			share = remaining
		} else {
			share = paid * (c.OutstandingPrincipal / totalOutstanding)
			if share > c.OutstandingPrincipal {
				share = c.OutstandingPrincipal
			}
		}
		c.OutstandingPrincipal -= share
		remaining -= share
	}

	if cash := s.CashLine(); cash != nil {
		cash.Balance += paid
	}

	s.Cohorts[p] = removeDeadCohorts(cohorts)
	SyncBalances(s)
	return paid
}

// removeDeadCohorts drops cohorts with negligible outstanding or that
// have reached term (spec §3, "Lifecycle").
func removeDeadCohorts(cohorts []*state.LoanCohort) []*state.LoanCohort {
	out := cohorts[:0]
	for _, c := range cohorts {
		if c.OutstandingPrincipal <= 1e-2 || c.AgeMonths >= c.TermMonths {
			continue
		}
		out = append(out, c)
	}
	return out
}
