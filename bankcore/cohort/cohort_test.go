package cohort

import (
	"math"
	"testing"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func newTestState(cashBalance float64) *state.BankState {
	s := &state.BankState{
		BalanceSheet: map[product.Type]*state.BalanceSheetItem{
			product.CashReserves: {Product: product.CashReserves, Balance: cashBalance},
		},
		Cohorts: map[product.Type][]*state.LoanCohort{},
	}
	return s
}

func TestSyncBalances(t *testing.T) {
	s := newTestState(0)
	s.Cohorts[product.Mortgages] = []*state.LoanCohort{
		{Product: product.Mortgages, OutstandingPrincipal: 100},
		{Product: product.Mortgages, OutstandingPrincipal: 250},
	}
	SyncBalances(s)
	if s.Item(product.Mortgages).Balance != 350 {
		t.Fatalf("expected 350, got %v", s.Item(product.Mortgages).Balance)
	}
}

func TestOriginateFailsWithoutCashLine(t *testing.T) {
	s := &state.BankState{
		BalanceSheet: map[product.Type]*state.BalanceSheetItem{},
		Cohorts:      map[product.Type][]*state.LoanCohort{},
	}
	cfg := bankconfig.Default()
	_, err := Originate(s, cfg, product.Mortgages, 1, 1000, 0.05, 0, 0.01, 0.1)
	if err != ErrMissingCashLine {
		t.Fatalf("expected ErrMissingCashLine, got %v", err)
	}
}

func TestOriginateCapsAtAvailableCash(t *testing.T) {
	s := newTestState(500)
	cfg := bankconfig.Default()
	funded, err := Originate(s, cfg, product.Mortgages, 1, 1000, 0.05, 0, 0.01, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	if funded != 500 {
		t.Fatalf("expected funded capped to cash 500, got %v", funded)
	}
	if s.CashLine().Balance != 0 {
		t.Fatalf("expected cash drained to 0, got %v", s.CashLine().Balance)
	}
}

func TestOriginateMergesSameCohortID(t *testing.T) {
	s := newTestState(10000)
	cfg := bankconfig.Default()
	if _, err := Originate(s, cfg, product.Mortgages, 5, 1000, 0.04, 120, 0.01, 0.1); err != nil {
		t.Fatal(err)
	}
	if _, err := Originate(s, cfg, product.Mortgages, 5, 1000, 0.06, 240, 0.02, 0.2); err != nil {
		t.Fatal(err)
	}
	cohorts := s.Cohorts[product.Mortgages]
	if len(cohorts) != 1 {
		t.Fatalf("expected merge into a single cohort, got %d", len(cohorts))
	}
	c := cohorts[0]
	if !approxEqual(c.OutstandingPrincipal, 2000, 1e-9) {
		t.Fatalf("expected outstanding 2000, got %v", c.OutstandingPrincipal)
	}
	if !approxEqual(c.AnnualInterestRate, 0.05, 1e-9) {
		t.Fatalf("expected blended rate 0.05, got %v", c.AnnualInterestRate)
	}
	if c.TermMonths != 240 {
		t.Fatalf("expected max term 240, got %d", c.TermMonths)
	}
	if c.AgeMonths != 0 {
		t.Fatalf("expected age reset to 0, got %d", c.AgeMonths)
	}
}

func TestPrepayProRataWithResidualOnLastCohort(t *testing.T) {
	s := newTestState(0)
	s.Cohorts[product.Mortgages] = []*state.LoanCohort{
		{Product: product.Mortgages, CohortID: 1, OutstandingPrincipal: 300, OriginalPrincipal: 300, TermMonths: 12, AnnualPD: 0.01, LGD: 0.1},
		{Product: product.Mortgages, CohortID: 2, OutstandingPrincipal: 700, OriginalPrincipal: 700, TermMonths: 12, AnnualPD: 0.01, LGD: 0.1},
	}
	SyncBalances(s)

	paid := Prepay(s, product.Mortgages, 500)
	if paid != 500 {
		t.Fatalf("expected 500 paid, got %v", paid)
	}
	if s.CashLine().Balance != 500 {
		t.Fatalf("expected cash credited 500, got %v", s.CashLine().Balance)
	}

	total := 0.0
	for _, c := range s.Cohorts[product.Mortgages] {
		total += c.OutstandingPrincipal
	}
	if !approxEqual(total, 500, 1e-6) {
		t.Fatalf("expected 500 remaining outstanding, got %v", total)
	}
}

func TestPrepayNoopForNonLoanProduct(t *testing.T) {
	s := newTestState(0)
	paid := Prepay(s, product.Gilts, 100)
	if paid != 0 {
		t.Fatalf("expected no-op, got %v", paid)
	}
}

// TestAmortisationLaw verifies spec's amortisation law: a single cohort
// with principal P, annual rate r, term n, age 0, run one month with
// pdMultiplier=0 and lgdMultiplier=0.
func TestAmortisationLaw(t *testing.T) {
	const P = 100000.0
	const r = 0.06
	const n = 120

	s := newTestState(0)
	s.Cohorts[product.Mortgages] = []*state.LoanCohort{
		{Product: product.Mortgages, CohortID: 1, OriginalPrincipal: P, OutstandingPrincipal: P,
			AnnualInterestRate: r, TermMonths: n, AgeMonths: 0, AnnualPD: 0.02, LGD: 0.3},
	}

	monthlyRate := r / 12
	wantPmt := P * monthlyRate / (1 - math.Pow(1+monthlyRate, -float64(n)))
	wantInterest := P * monthlyRate

	res := Step(s, 1, 0, 0, nil)

	if !approxEqual(res.LoanInterestIncome, wantInterest, 1e-6) {
		t.Fatalf("interest income: got %v want %v", res.LoanInterestIncome, wantInterest)
	}
	if !approxEqual(s.CashLine().Balance, wantPmt, 1e-6) {
		t.Fatalf("cash gained: got %v want %v", s.CashLine().Balance, wantPmt)
	}

	wantOutstanding := P - (wantPmt - wantInterest)
	got := s.Cohorts[product.Mortgages][0].OutstandingPrincipal
	if !approxEqual(got, wantOutstanding, 1e-6) {
		t.Fatalf("outstanding: got %v want %v", got, wantOutstanding)
	}
	if s.Cohorts[product.Mortgages][0].AgeMonths != 1 {
		t.Fatalf("expected age 1, got %d", s.Cohorts[product.Mortgages][0].AgeMonths)
	}
}

func TestStepZeroMonthsIsNoop(t *testing.T) {
	s := newTestState(0)
	s.Cohorts[product.Mortgages] = []*state.LoanCohort{
		{Product: product.Mortgages, CohortID: 1, OriginalPrincipal: 100, OutstandingPrincipal: 100,
			AnnualInterestRate: 0.05, TermMonths: 12, AgeMonths: 0, AnnualPD: 0.01, LGD: 0.1},
	}
	res := Step(s, 0, 1, 1, nil)
	if res.LoanInterestIncome != 0 {
		t.Fatalf("expected no interest income, got %v", res.LoanInterestIncome)
	}
	if s.Cohorts[product.Mortgages][0].AgeMonths != 0 {
		t.Fatalf("expected age unchanged, got %d", s.Cohorts[product.Mortgages][0].AgeMonths)
	}
}

func TestStepRemovesCohortAtFinalAge(t *testing.T) {
	s := newTestState(0)
	s.Cohorts[product.Mortgages] = []*state.LoanCohort{
		{Product: product.Mortgages, CohortID: 1, OriginalPrincipal: 100, OutstandingPrincipal: 100,
			AnnualInterestRate: 0.05, TermMonths: 1, AgeMonths: 0, AnnualPD: 0, LGD: 0},
	}
	Step(s, 1, 1, 1, nil)
	if len(s.Cohorts[product.Mortgages]) != 0 {
		t.Fatalf("expected cohort removed at term, got %d remaining", len(s.Cohorts[product.Mortgages]))
	}
}

func TestGenerateSeasonedRoundTrip(t *testing.T) {
	cfg := bankconfig.Default()
	target := 600_000_000.0

	c1, err := GenerateSeasoned(product.Mortgages, target, 0.045, 0.007, 0.15, cfg, 42)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := GenerateSeasoned(product.Mortgages, target, 0.045, 0.007, 0.15, cfg, 42)
	if err != nil {
		t.Fatal(err)
	}

	if len(c1) != len(c2) {
		t.Fatalf("cohort count differs across identical seeds: %d vs %d", len(c1), len(c2))
	}
	for i := range c1 {
		if *c1[i] != *c2[i] {
			t.Fatalf("cohort %d differs across identical seeds", i)
		}
	}

	sum := 0.0
	for _, c := range c1 {
		sum += c.OutstandingPrincipal
	}
	tol := math.Max(1e6, target*1e-6)
	if !approxEqual(sum, target, tol) {
		t.Fatalf("seasoned sum %v not within %v of target %v", sum, tol, target)
	}
}

func TestGenerateSeasonedDisabledReturnsFreshCohort(t *testing.T) {
	cfg := bankconfig.Default()
	p := cfg.ProductParameters[product.CorporateLoans]
	loan := *p.Loan
	loan.InitialSeasoningEnabled = false
	p.Loan = &loan
	cfg.ProductParameters[product.CorporateLoans] = p

	cohorts, err := GenerateSeasoned(product.CorporateLoans, 300_000_000, 0.06, 0.02, 0.45, cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(cohorts) != 1 || cohorts[0].AgeMonths != 0 {
		t.Fatalf("expected a single fresh cohort, got %+v", cohorts)
	}
}

func TestOutstandingFactorBoundaries(t *testing.T) {
	if OutstandingFactor(0.05, 120, 120) != 0 {
		t.Fatalf("expected 0 at k=n")
	}
	if !approxEqual(OutstandingFactor(0.05, 120, 0), 1, 1e-9) {
		t.Fatalf("expected 1 at k=0")
	}
	if !approxEqual(OutstandingFactor(0, 100, 25), 0.75, 1e-9) {
		t.Fatalf("expected linear fallback 0.75, got %v", OutstandingFactor(0, 100, 25))
	}
}
