package invariant

import (
	"math"
	"strings"
	"testing"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

func balancedState() *state.BankState {
	return &state.BankState{
		BalanceSheet: map[product.Type]*state.BalanceSheetItem{
			product.CashReserves: {Product: product.CashReserves, Balance: 100},
			product.Mortgages:    {Product: product.Mortgages, Balance: 900},
			product.RetailDeposits: {Product: product.RetailDeposits, Balance: 920},
		},
		Cohorts: map[product.Type][]*state.LoanCohort{
			product.Mortgages: {{Product: product.Mortgages, OutstandingPrincipal: 900}},
		},
		Capital: state.CapitalState{CET1: 70, AT1: 10},
		Risk:    state.RiskMetrics{CET1Ratio: 0.1, LeverageRatio: 0.05, LCR: 1.2, NSFR: 1.1},
	}
}

func TestCheckPassesOnConsistentState(t *testing.T) {
	s := balancedState()
	cfg := bankconfig.Default()
	if errs := Check(s, cfg); len(errs) != 0 {
		t.Fatalf("expected no violations, got %v", errs)
	}
}

func TestCheckCatchesIdentityViolation(t *testing.T) {
	s := balancedState()
	s.BalanceSheet[product.CashReserves].Balance = 500
	cfg := bankconfig.Default()
	errs := Check(s, cfg)
	if !anyContains(errs, "identity") {
		t.Fatalf("expected identity violation, got %v", errs)
	}
}

func TestCheckCatchesNegativeBalance(t *testing.T) {
	s := balancedState()
	s.BalanceSheet[product.CashReserves].Balance = -50
	cfg := bankconfig.Default()
	errs := Check(s, cfg)
	if !anyContains(errs, "negative balance") {
		t.Fatalf("expected negative balance violation, got %v", errs)
	}
}

func TestCheckCatchesCohortSyncViolation(t *testing.T) {
	s := balancedState()
	s.Cohorts[product.Mortgages][0].OutstandingPrincipal = 500
	cfg := bankconfig.Default()
	errs := Check(s, cfg)
	if !anyContains(errs, "cohort sync") {
		t.Fatalf("expected cohort sync violation, got %v", errs)
	}
}

func TestCheckCatchesNaNRatio(t *testing.T) {
	s := balancedState()
	s.Risk.LCR = math.NaN()
	cfg := bankconfig.Default()
	errs := Check(s, cfg)
	if !anyContains(errs, "LCR is NaN") {
		t.Fatalf("expected NaN ratio violation, got %v", errs)
	}
}

func TestCheckAllowsPositiveInfinityRatio(t *testing.T) {
	s := balancedState()
	s.Risk.LCR = math.Inf(1)
	cfg := bankconfig.Default()
	if errs := Check(s, cfg); anyContains(errs, "LCR") {
		t.Fatalf("did not expect +Inf LCR to be flagged, got %v", errs)
	}
}

func anyContains(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
