package riskmetrics

import (
	"math"
	"testing"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

func ptr(v float64) *float64 { return &v }

func simpleBank() (*state.BankState, *bankconfig.Config) {
	cfg := bankconfig.Default()
	cfg.ProductParameters[product.Mortgages] = bankconfig.ProductParams{
		RiskWeight: 0.5, Loan: cfg.ProductParameters[product.Mortgages].Loan,
	}
	cfg.RiskLimits = bankconfig.RiskLimits{MinCET1Ratio: 0.08, MinLeverageRatio: 0.03, MinLCR: 1.0, MinNSFR: 1.0}

	s := &state.BankState{
		BalanceSheet: map[product.Type]*state.BalanceSheetItem{
			product.CashReserves: {
				Product: product.CashReserves, Balance: 200,
				Liquidity: state.LiquidityTag{HQLALevel: state.HQLALevel1, LCRInflowRate: ptr(0), NSFRRsfFactor: ptr(0.0)},
			},
			product.Mortgages: {
				Product: product.Mortgages, Balance: 800,
				Liquidity: state.LiquidityTag{NSFRRsfFactor: ptr(0.65)},
			},
			product.RetailDeposits: {
				Product: product.RetailDeposits, Balance: 700,
				Liquidity: state.LiquidityTag{LCROutflowRate: ptr(0.05), NSFRAsfFactor: ptr(0.9)},
			},
			product.WholesaleFundingST: {
				Product: product.WholesaleFundingST, Balance: 200,
				Liquidity: state.LiquidityTag{LCROutflowRate: ptr(1.0), NSFRAsfFactor: ptr(0.0)},
			},
		},
		Capital: state.CapitalState{CET1: 90, AT1: 10},
	}
	return s, cfg
}

func TestComputeRWAAndCapitalRatios(t *testing.T) {
	s, cfg := simpleBank()
	Compute(s, cfg, 1.0)

	wantRWA := 800 * 0.5
	if math.Abs(s.Risk.RWA-wantRWA) > 1e-9 {
		t.Fatalf("RWA: got %v want %v", s.Risk.RWA, wantRWA)
	}
	if math.Abs(s.Risk.CET1Ratio-90/wantRWA) > 1e-9 {
		t.Fatalf("CET1Ratio: got %v", s.Risk.CET1Ratio)
	}
	wantLeverage := 100.0 / 1000.0
	if math.Abs(s.Risk.LeverageRatio-wantLeverage) > 1e-9 {
		t.Fatalf("LeverageRatio: got %v want %v", s.Risk.LeverageRatio, wantLeverage)
	}
}

func TestComputeLCRAppliesInflowCapAndStress(t *testing.T) {
	s, cfg := simpleBank()
	Compute(s, cfg, 1.5)

	wantOutflows := 700*0.05*1.5 + 200*1.0
	wantHQLA := 200.0
	wantLCR := wantHQLA / wantOutflows
	if math.Abs(s.Risk.LCR-wantLCR) > 1e-9 {
		t.Fatalf("LCR: got %v want %v", s.Risk.LCR, wantLCR)
	}
}

func TestComputeNSFRIncludesCapitalInASF(t *testing.T) {
	s, cfg := simpleBank()
	Compute(s, cfg, 1.0)

	wantASF := 700*0.9 + 200*0.0 + 100
	wantRSF := 800 * 0.65
	if math.Abs(s.Risk.ASF-wantASF) > 1e-9 {
		t.Fatalf("ASF: got %v want %v", s.Risk.ASF, wantASF)
	}
	if math.Abs(s.Risk.RSF-wantRSF) > 1e-9 {
		t.Fatalf("RSF: got %v want %v", s.Risk.RSF, wantRSF)
	}
}

func TestComplianceFlagsBreaches(t *testing.T) {
	s, cfg := simpleBank()
	cfg.RiskLimits.MinLCR = 100
	Compute(s, cfg, 1.0)
	if !s.Compliance.LCRBreach {
		t.Fatalf("expected LCR breach")
	}
	if !s.Compliance.AnyBreach() {
		t.Fatalf("expected AnyBreach true")
	}
}

func TestSafeDivReturnsInfNotNaN(t *testing.T) {
	s := &state.BankState{BalanceSheet: map[product.Type]*state.BalanceSheetItem{}, Capital: state.CapitalState{CET1: 50}}
	cfg := bankconfig.Default()
	Compute(s, cfg, 1.0)
	if !math.IsInf(s.Risk.CET1Ratio, 1) {
		t.Fatalf("expected +Inf CET1Ratio with zero RWA, got %v", s.Risk.CET1Ratio)
	}
	if math.IsNaN(s.Risk.CET1Ratio) {
		t.Fatalf("CET1Ratio must never be NaN")
	}
}
