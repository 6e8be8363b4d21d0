package cohort

import (
	"fmt"
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// Validate checks a single cohort against the invariants spec §4.2
// requires of every cohort. It returns a descriptive error on the
// first violation found, matching the "fail loudly" posture spec §7
// assigns to data-model preconditions.
func Validate(c *state.LoanCohort, maxTermMonths int) error {
	fields := []float64{
		c.OriginalPrincipal, c.OutstandingPrincipal, c.AnnualInterestRate,
		c.AnnualPD, c.LGD,
	}
	for _, f := range fields {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("cohort %d: non-finite field", c.CohortID)
		}
	}
	if c.OutstandingPrincipal > c.OriginalPrincipal*(1+1e-6)+1e-6 {
		return fmt.Errorf("cohort %d: outstanding %.4f exceeds original %.4f", c.CohortID, c.OutstandingPrincipal, c.OriginalPrincipal)
	}
	if c.AnnualInterestRate < 0 {
		return fmt.Errorf("cohort %d: negative annual rate", c.CohortID)
	}
	ceiling := maxTermMonths
	if ceiling <= 0 || ceiling > 420 {
		ceiling = 420
	}
	if c.TermMonths <= 0 || c.TermMonths > ceiling {
		return fmt.Errorf("cohort %d: term %d out of range (0,%d]", c.CohortID, c.TermMonths, ceiling)
	}
	if c.AgeMonths < 0 || c.AgeMonths >= c.TermMonths {
		return fmt.Errorf("cohort %d: age %d must be in [0,%d)", c.CohortID, c.AgeMonths, c.TermMonths)
	}
	if c.AnnualPD < 0 || c.AnnualPD >= 1 {
		return fmt.Errorf("cohort %d: annualPd %.6f must be in [0,1)", c.CohortID, c.AnnualPD)
	}
	if c.LGD < 0 || c.LGD > 1 {
		return fmt.Errorf("cohort %d: lgd %.6f must be in [0,1]", c.CohortID, c.LGD)
	}
	return nil
}

// ValidateAll validates every cohort of every loan product in s against
// cfg's configured per-product term ceiling.
func ValidateAll(s *state.BankState, cfg *bankconfig.Config) error {
	for _, t := range product.Loans() {
		ceiling := cfg.MaxTermMonthsFor(t)
		for _, c := range s.Cohorts[t] {
			if err := Validate(c, ceiling); err != nil {
				return err
			}
		}
	}
	return nil
}
