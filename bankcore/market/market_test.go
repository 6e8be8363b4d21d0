package market

import (
	"math"
	"testing"

	"github.com/rustyeddy/banksim/bankcore/rng"
	"github.com/rustyeddy/banksim/bankcore/state"
)

func freshMarket() *state.MarketState {
	return &state.MarketState{
		BaseRate:      0.04,
		RiskFreeShort: 0.03,
		RiskFreeLong:  0.045,
		Macro:         state.MacroObservables{InflationRate: 0.02, CreditSpread: 0.01},
		Competitor:    state.CompetitorRates{RetailDeposit: 0.015, Mortgage: 0.05},
	}
}

func TestAdvanceRefusesWhenCoreUnavailable(t *testing.T) {
	savedErr := cholInitErr
	cholInitErr = errNonPositiveDefinite
	defer func() { cholInitErr = savedErr }()

	m := freshMarket()
	if err := Advance(m, 1); err != ErrCoreUnavailable {
		t.Fatalf("expected ErrCoreUnavailable, got %v", err)
	}
}

func TestAdvanceIsDeterministicForEqualSeeds(t *testing.T) {
	m1 := freshMarket()
	m1.MacroModel.RNGSeed = 7
	m2 := freshMarket()
	m2.MacroModel.RNGSeed = 7

	if err := Advance(m1, 12); err != nil {
		t.Fatal(err)
	}
	if err := Advance(m2, 12); err != nil {
		t.Fatal(err)
	}
	if *m1 != *m2 {
		t.Fatalf("expected identical trajectories for identical seeds")
	}
}

func TestAdvanceZeroMonthsStillTicksOnce(t *testing.T) {
	m := freshMarket()
	m.MacroModel.RNGSeed = 3
	if err := Advance(m, 0); err != nil {
		t.Fatal(err)
	}
	if m.MacroModel.D == 0 && m.MacroModel.S == 0 && m.MacroModel.F == 0 && m.MacroModel.R == 0 {
		t.Fatalf("expected at least one tick to perturb the factors")
	}
}

func TestAdvanceKeepsRatesFinite(t *testing.T) {
	m := freshMarket()
	m.MacroModel.RNGSeed = 99
	if err := Advance(m, 240); err != nil {
		t.Fatal(err)
	}
	for _, v := range []float64{m.BaseRate, m.Macro.InflationRate, m.Macro.UnemploymentRate, m.Macro.CreditSpread, m.Curve.Y1, m.Curve.Y10, m.Curve.Y30} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("expected finite value, got %v", v)
		}
	}
	if m.BaseRate < 0 || m.BaseRate > policyRateClampMax {
		t.Fatalf("base rate out of clamp range: %v", m.BaseRate)
	}
}

func TestNextRegimeStaysWithinTwoStates(t *testing.T) {
	r := rng.New(1)
	regime := state.RegimeNormal
	for i := 0; i < 500; i++ {
		regime = nextRegime(regime, r)
		if regime != state.RegimeNormal && regime != state.RegimeRecession {
			t.Fatalf("unexpected regime value %v", regime)
		}
	}
}

func TestFitNelsonSiegelExactlyMatchesAnchors(t *testing.T) {
	factors := fitNelsonSiegel([3]float64{1, 5, 20}, [3]float64{0.03, 0.04, 0.045}, curveLambda, state.NelsonSiegelFactors{})
	got1 := nsYield(factors, 1)
	got5 := nsYield(factors, 5)
	got20 := nsYield(factors, 20)
	if math.Abs(got1-0.03) > 1e-9 || math.Abs(got5-0.04) > 1e-9 || math.Abs(got20-0.045) > 1e-9 {
		t.Fatalf("fitted curve does not pass through anchors: %v %v %v", got1, got5, got20)
	}
}

func TestFitNelsonSiegelFallsBackOnCoincidentMaturities(t *testing.T) {
	prev := state.NelsonSiegelFactors{Level: 0.03, Slope: 0.01, Curvature: -0.005, Lambda: curveLambda}
	factors := fitNelsonSiegel([3]float64{5, 5, 5}, [3]float64{0.04, 0.04, 0.04}, curveLambda, prev)
	if factors != prev {
		t.Fatalf("expected fallback to previous factors, got %+v", factors)
	}
}

func TestFitNelsonSiegelFallsBackToFlatWithoutPrev(t *testing.T) {
	factors := fitNelsonSiegel([3]float64{5, 5, 5}, [3]float64{0.03, 0.05, 0.07}, curveLambda, state.NelsonSiegelFactors{})
	if factors.Slope != 0 || factors.Curvature != 0 {
		t.Fatalf("expected flat fallback, got %+v", factors)
	}
	if math.Abs(factors.Level-0.05) > 1e-9 {
		t.Fatalf("expected flat level at mean of anchors, got %v", factors.Level)
	}
}
