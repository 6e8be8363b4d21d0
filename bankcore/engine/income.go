package engine

import (
	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// accrueIncome builds the monthly income statement from posted rates on
// every balance-sheet line, the loan-cohort engine's own interest
// income, fee income levied on the outstanding loan book, and a
// fixed-plus-proportional operating cost (spec §4.5 step 7).
func accrueIncome(s *state.BankState, cfg *bankconfig.Config, loanInterestIncome float64, flow *cashFlowTracker) {
	interestIncome := loanInterestIncome
	interestExpense := 0.0
	cash := s.CashLine()
	dtMonths := s.Clock.StepLengthMonths
	dtYears := dtMonths / 12

	loanBook := 0.0
	for _, t := range product.Loans() {
		loanBook += s.Item(t).Balance
	}
	feeIncome := cfg.Behaviour.LoanFeeRateMonthly * dtMonths * loanBook

	for _, t := range product.All() {
		item, ok := s.BalanceSheet[t]
		if !ok || item.Balance == 0 {
			continue
		}
		monthlyInterest := item.Balance * item.AnnualRate * dtYears
		meta := product.MetaOf(t)
		if meta.Side == product.SideAsset {
			if meta.IsLoan {
				continue // already captured, and settled in cash, via cohort interest income
			}
			interestIncome += monthlyInterest
			if cash != nil {
				cash.Balance += monthlyInterest
			}
			flow.bookOperating(monthlyInterest)
		} else {
			interestExpense += monthlyInterest
			if cash != nil {
				cash.Balance -= monthlyInterest
			}
			flow.bookOperating(-monthlyInterest)
		}
	}

	nii := interestIncome - interestExpense
	opex := cfg.Global.FixedOperatingCostPerMonth*dtMonths + s.TotalAssets()*cfg.Global.OperatingCostRatio*dtYears
	preTax := nii + feeIncome - opex

	if cash != nil {
		cash.Balance += feeIncome
		cash.Balance -= opex
	}
	flow.bookOperating(feeIncome - opex)

	s.IncomeStatement = state.IncomeStatement{
		InterestIncome:    interestIncome,
		InterestExpense:   interestExpense,
		NetInterestIncome: nii,
		FeeIncome:         feeIncome,
		OperatingExpenses: opex,
		PreTaxProfit:      preTax,
	}
}
