package state

import "github.com/rustyeddy/banksim/bankcore/product"

// Clone returns a structural deep copy of s. Every map and slice is
// rebuilt and every nested record reconstructed; the clone shares no
// mutable state with s (spec §4.7). The step pipeline calls this once
// at the start of every step so it can hold both the pre-step and
// post-step views without aliasing.
func (s *BankState) Clone() *BankState {
	if s == nil {
		return nil
	}

	out := &BankState{
		Version:           s.Version,
		Capital:           s.Capital,
		IncomeStatement:   s.IncomeStatement,
		CashFlowStatement: s.CashFlowStatement,
		Risk:              s.Risk,
		Compliance:        s.Compliance,
		Market:            cloneMarket(s.Market),
		Behaviour:         s.Behaviour,
		Status:            s.Status,
		Clock:             cloneClock(s.Clock),
	}

	out.BalanceSheet = make(map[product.Type]*BalanceSheetItem, len(s.BalanceSheet))
	for _, t := range product.All() {
		it, ok := s.BalanceSheet[t]
		if !ok {
			continue
		}
		cp := *it
		out.BalanceSheet[t] = &cp
	}

	out.Cohorts = make(map[product.Type][]*LoanCohort, len(s.Cohorts))
	for _, t := range product.Loans() {
		cohorts, ok := s.Cohorts[t]
		if !ok {
			continue
		}
		clonedCohorts := make([]*LoanCohort, len(cohorts))
		for i, c := range cohorts {
			cp := *c
			clonedCohorts[i] = &cp
		}
		out.Cohorts[t] = clonedCohorts
	}

	return out
}

func cloneMarket(m MarketState) MarketState {
	out := m
	if m.Competitor.CorporateDeposit != nil {
		v := *m.Competitor.CorporateDeposit
		out.Competitor.CorporateDeposit = &v
	}
	return out
}

func cloneClock(c Clock) Clock {
	out := c
	out.Date = c.Date // time.Time is immutable-by-value; reproduced as a new value
	return out
}
