package engine

import (
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// applyNonLoanLosses writes down every non-loan asset product's balance
// by min(balance, loss) for any counterparty-default-style loss the
// current step's shocks assigned to it, and returns the recognised
// amount per product (spec §4.5 step 9). Loan products are handled by
// cohort.Step instead, which absorbs their share of extraLossesByProduct
// into cohort principal rather than the aggregate item balance.
func applyNonLoanLosses(s *state.BankState, extraLossesByProduct map[product.Type]float64) map[product.Type]float64 {
	losses := make(map[product.Type]float64)
	for p, loss := range extraLossesByProduct {
		meta := product.MetaOf(p)
		if meta.IsLoan || meta.Side != product.SideAsset || loss <= 0 {
			continue
		}
		item := s.Item(p)
		recognised := math.Min(item.Balance, loss)
		item.Balance -= recognised
		losses[p] = recognised
	}
	return losses
}

// recognizeLosses folds the cohort engine's write-downs and any
// non-loan counterparty-default shock losses into the income
// statement's CreditLosses line (spec §4.5 step 9). The write-downs
// themselves were already applied to the affected cohorts or item
// balances; this only records their income-statement effect.
func recognizeLosses(s *state.BankState, lossesByProduct, nonLoanLosses map[product.Type]float64) {
	total := 0.0
	for _, t := range product.All() {
		total += lossesByProduct[t] + nonLoanLosses[t]
	}
	s.IncomeStatement.CreditLosses = total
	s.IncomeStatement.PreTaxProfit -= total
}

// closeCapital computes tax and net income and rolls net income into
// CET1 as retained earnings, then debits cash for the tax paid (spec
// §4.5 step 9).
func closeCapital(s *state.BankState, cfg *bankconfig.Config, flow *cashFlowTracker) {
	preTax := s.IncomeStatement.PreTaxProfit
	tax := 0.0
	if preTax > 0 {
		tax = preTax * cfg.Global.TaxRate
	}
	netIncome := preTax - tax

	s.IncomeStatement.Tax = tax
	s.IncomeStatement.NetIncome = netIncome
	s.Capital.CET1 += netIncome

	if cash := s.CashLine(); cash != nil {
		cash.Balance -= tax
	}
	flow.bookOperating(-tax)
}
