package engine

import (
	"math"
	"testing"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/action"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/shock"
)

func TestInitialSeasonedPortfolioBalances(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.TotalAssets()-(s.TotalLiabilities()+s.Capital.CET1+s.Capital.AT1)) > 1 {
		t.Fatalf("opening balance sheet does not balance: assets=%v liab+cap=%v", s.TotalAssets(), s.TotalLiabilities()+s.Capital.CET1+s.Capital.AT1)
	}
	if s.Item(product.Mortgages).Balance <= 0 {
		t.Fatalf("expected seasoned mortgage book, got %v", s.Item(product.Mortgages).Balance)
	}
}

func TestInitialSeasonedPortfolioDeterministic(t *testing.T) {
	cfg := bankconfig.Default()
	seed := int32(7)
	s1, err := InitialSeasonedPortfolio(cfg, &seed)
	if err != nil {
		t.Fatal(err)
	}
	s2, err := InitialSeasonedPortfolio(cfg, &seed)
	if err != nil {
		t.Fatal(err)
	}
	if s1.Item(product.Mortgages).Balance != s2.Item(product.Mortgages).Balance {
		t.Fatalf("expected identical mortgage balances for identical seeds")
	}
	if len(s1.Cohorts[product.Mortgages]) != len(s2.Cohorts[product.Mortgages]) {
		t.Fatalf("expected identical cohort counts for identical seeds")
	}
}

func TestStepPreservesInputState(t *testing.T) {
	cfg := bankconfig.Default()
	s0, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	cashBefore := s0.CashLine().Balance

	s1, events, err := Step(s0, cfg, nil, nil)
	if err != nil {
		t.Fatalf("step failed: %v, events=%v", err, events)
	}
	if s0.CashLine().Balance != cashBefore {
		t.Fatalf("input state was mutated: cash changed from %v to %v", cashBefore, s0.CashLine().Balance)
	}
	if s1 == s0 {
		t.Fatalf("expected a distinct output state")
	}
	if s1.Clock.Step != s0.Clock.Step+1 {
		t.Fatalf("expected clock to advance by one step")
	}
}

func TestStepMaintainsBalanceSheetIdentity(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 12; i++ {
		s, _, err = Step(s, cfg, nil, nil)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
		diff := math.Abs(s.TotalAssets() - (s.TotalLiabilities() + s.Capital.CET1 + s.Capital.AT1))
		if diff > 1 {
			t.Fatalf("step %d: balance sheet identity violated, diff=%v", i, diff)
		}
	}
}

func TestStepAppliesMacroDownturnShock(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	shocks := []shock.Shock{shock.NewMacroDownturn(s.Clock.Step, 3.0, 1.5)}
	next, events, err := Step(s, cfg, nil, shocks)
	if err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if next.IncomeStatement.CreditLosses <= 0 {
		t.Fatalf("expected elevated credit losses under macro downturn, got %v", next.IncomeStatement.CreditLosses)
	}
	found := false
	for _, e := range events {
		if e.Kind == "macroDownturn" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a macroDownturn event, got %v", events)
	}
}

func TestStepAppliesIdiosyncraticRunStressesLCR(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	baseline, _, err := Step(s, cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}

	shocks := []shock.Shock{shock.NewIdiosyncraticRun(s.Clock.Step, 3.0)}
	stressed, _, err := Step(s, cfg, nil, shocks)
	if err != nil {
		t.Fatal(err)
	}
	if stressed.Risk.LCR >= baseline.Risk.LCR {
		t.Fatalf("expected idiosyncratic run to depress LCR: baseline=%v stressed=%v", baseline.Risk.LCR, stressed.Risk.LCR)
	}
	if stressed.Item(product.RetailDeposits).Balance >= baseline.Item(product.RetailDeposits).Balance {
		t.Fatalf("expected idiosyncratic run to reduce retail deposits: baseline=%v stressed=%v",
			baseline.Item(product.RetailDeposits).Balance, stressed.Item(product.RetailDeposits).Balance)
	}
	if stressed.Item(product.CorporateDeposits).Balance >= baseline.Item(product.CorporateDeposits).Balance {
		t.Fatalf("expected idiosyncratic run to reduce corporate deposits: baseline=%v stressed=%v",
			baseline.Item(product.CorporateDeposits).Balance, stressed.Item(product.CorporateDeposits).Balance)
	}
}

func TestStepIssueEquityIncreasesCapitalAndCash(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	cashBefore := s.CashLine().Balance
	capitalBefore := s.Capital.CET1

	actions := []action.Action{action.IssueEquity{Amount: 50_000_000}}
	next, _, err := Step(s, cfg, actions, nil)
	if err != nil {
		t.Fatal(err)
	}
	if next.Capital.CET1 <= capitalBefore {
		t.Fatalf("expected CET1 to increase after issuing equity, got %v -> %v", capitalBefore, next.Capital.CET1)
	}
	if next.CashLine().Balance < cashBefore {
		t.Fatalf("expected cash to increase, not decrease, on equity issuance")
	}
}

func TestStepCounterpartyDefaultRecognisesImmediateLoss(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	shocks := []shock.Shock{shock.NewCounterpartyDefault(s.Clock.Step, product.CorporateLoans, 10_000_000)}
	next, _, err := Step(s, cfg, nil, shocks)
	if err != nil {
		t.Fatal(err)
	}
	if next.IncomeStatement.CreditLosses < 10_000_000 {
		t.Fatalf("expected counterparty default loss to flow into credit losses, got %v", next.IncomeStatement.CreditLosses)
	}
}

func TestStepCounterpartyDefaultOnNonLoanAssetWritesDownBalance(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	giltsBefore := s.Item(product.Gilts).Balance
	loss := giltsBefore * 0.1

	shocks := []shock.Shock{shock.NewCounterpartyDefault(s.Clock.Step, product.Gilts, loss)}
	next, _, err := Step(s, cfg, nil, shocks)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(next.Item(product.Gilts).Balance-(giltsBefore-loss)) > 1e-6 {
		t.Fatalf("expected gilts balance to be written down by %v, got %v (was %v)", loss, next.Item(product.Gilts).Balance, giltsBefore)
	}
	if next.IncomeStatement.CreditLosses < loss-1e-6 {
		t.Fatalf("expected non-loan counterparty default loss to flow into credit losses, got %v", next.IncomeStatement.CreditLosses)
	}
}

func TestStepZeroDtMonthsIsCohortNoOp(t *testing.T) {
	cfg := bankconfig.Default()
	s, err := InitialSeasonedPortfolio(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Clock.StepLengthMonths = 0
	next, _, err := Step(s, cfg, nil, nil)
	if err != nil {
		t.Fatalf("expected zero-month step to succeed as a no-op amortisation pass, got %v", err)
	}
	if next.IncomeStatement.InterestIncome != 0 || next.IncomeStatement.InterestExpense != 0 {
		t.Fatalf("expected no interest accrual for a zero-month step, got income=%v expense=%v",
			next.IncomeStatement.InterestIncome, next.IncomeStatement.InterestExpense)
	}
	if next.IncomeStatement.OperatingExpenses != 0 {
		t.Fatalf("expected no operating expense for a zero-month step, got %v", next.IncomeStatement.OperatingExpenses)
	}
}
