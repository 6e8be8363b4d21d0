package market

import (
	"math"

	"github.com/rustyeddy/banksim/bankcore/rng"
	"github.com/rustyeddy/banksim/bankcore/state"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tick advances the macro-market model by exactly one calendar month,
// mutating m in place, in the order fixed by spec §4.3: correlated
// factors, GDP growth, inflation, unemployment, policy rate, term
// premium, gilt curve, credit spread, product spread/haircut
// pass-through, competitor rates.
func tick(m *state.MarketState, r *rng.RNG) {
	mm := &m.MacroModel

	var z [numFactors]float64
	for i := range z {
		z[i] = r.Normal()
	}
	innovation := multiplyLower(cholFactor, z)

	prevD := mm.D
	mm.D = arCoefficients[0]*mm.D + innovation[0]
	mm.S = arCoefficients[1]*mm.S + innovation[1]
	mm.F = arCoefficients[2]*mm.F + innovation[2]
	mm.R = arCoefficients[3]*mm.R + innovation[3]
	mm.Regime = nextRegime(mm.Regime, r)

	regimeMean := regimeMeanNormal
	regimeSD := regimeSDNormal
	if mm.Regime == state.RegimeRecession {
		regimeMean = regimeMeanRecession
		regimeSD = regimeSDRecession
	}
	gdpGrowth := gdpTrendMoM + regimeMean + alphaD*mm.D - alphaS*mm.S - alphaF*mm.F + regimeSD*r.Normal()
	m.Macro.GDPGrowthMoM = gdpGrowth

	inflation := (1-inflationKappa)*inflationTarget + inflationKappa*m.Macro.InflationRate +
		inflationBetaS*mm.S + inflationBetaD*mm.D + 0.0012*r.Normal()
	m.Macro.InflationRate = clamp(inflation, inflationClampMin, inflationClampMax)

	gdpGap := gdpGrowth - gdpTrendMoM
	latent := mm.LatentUnemployment + unemploymentMeanRevSpeed*(unemploymentXBar-mm.LatentUnemployment) -
		unemploymentGDPGapCoeff*12*gdpGap + unemploymentFactorLoad*mm.F + 0.02*r.Normal()
	mm.LatentUnemployment = latent
	m.Macro.UnemploymentRate = unemploymentBase + unemploymentScale*sigmoid(latent)

	target := realNeutralRate + m.Macro.InflationRate + taylorInflationGap*(m.Macro.InflationRate-inflationTarget) +
		taylorFactorLoad*mm.D
	policyRate := policyRateSmoothing*m.BaseRate + (1-policyRateSmoothing)*target + 0.0007*r.Normal()
	m.BaseRate = clamp(policyRate, 0, policyRateClampMax)

	termPremium := termPremiumMean + termPremiumAR*(mm.TermPremium-termPremiumMean) +
		termPremiumFactorLoad*mm.F + termPremiumInflGap*(m.Macro.InflationRate-inflationTarget) + 0.0012*r.Normal()
	mm.TermPremium = clamp(termPremium, 0, termPremiumClampMax)

	y1 := m.BaseRate + 0.2*mm.TermPremium + 0.0008*r.Normal()
	y5 := m.BaseRate + 0.6*mm.TermPremium + 0.0008*r.Normal()
	y20 := m.BaseRate + 1.0*mm.TermPremium + 0.0008*r.Normal()
	factors := fitNelsonSiegel([3]float64{1, 5, 20}, [3]float64{y1, y5, y20}, curveLambda, m.Curve.Factors)
	m.Curve = evaluateCurve(factors)
	m.RiskFreeShort = m.Curve.Y1
	m.RiskFreeLong = m.Curve.Y30

	creditTarget := creditSpreadBase - creditSpreadBaseD*prevD + creditSpreadBaseS*mm.S
	if creditTarget < 0 {
		creditTarget = 0
	}
	credit := m.Macro.CreditSpread + creditSpreadSpeed*(creditTarget-m.Macro.CreditSpread) + creditSpreadNoiseSD*r.Normal()
	m.Macro.CreditSpread = clamp(credit, 0, spreadClampMax)

	passSpread(&m.Spreads.Mortgage, mortgageSpreadBase+mortgageSpreadLoad*m.Macro.CreditSpread, r)
	passSpread(&m.Spreads.Corporate, corporateSpreadBase+corporateSpreadLoad*m.Macro.CreditSpread, r)
	passSpread(&m.Spreads.Wholesale, wholesaleSpreadBase+wholesaleSpreadLoad*m.Macro.CreditSpread, r)
	passSpread(&m.Spreads.SeniorDebt, seniorSpreadBase+seniorSpreadLoad*m.Macro.CreditSpread, r)
	passSpread(&m.Spreads.Credit, m.Macro.CreditSpread, r)

	passHaircut(&m.Haircuts.Gilt, giltHaircutBase+giltHaircutLoad*m.Macro.CreditSpread, r)
	passHaircut(&m.Haircuts.CorpBond, corpBondHaircutBase+corpBondHaircutLoad*m.Macro.CreditSpread, r)

	retailTarget := math.Max(0, m.BaseRate-competitorRetailMargin)
	m.Competitor.RetailDeposit = clamp(m.Competitor.RetailDeposit+competitorRetailSpeed*(retailTarget-m.Competitor.RetailDeposit), 0, m.BaseRate)

	if m.Competitor.CorporateDeposit != nil {
		corpTarget := retailTarget + competitorCorpUplift
		next := *m.Competitor.CorporateDeposit + competitorCorpSpeed*(corpTarget-*m.Competitor.CorporateDeposit)
		next = clamp(next, 0, m.BaseRate)
		m.Competitor.CorporateDeposit = &next
	}

	mortgageTarget := m.Curve.Y5 + m.Spreads.Mortgage - competitorMortgageMargin
	m.Competitor.Mortgage = clamp(m.Competitor.Mortgage+competitorMortgageSpeed*(mortgageTarget-m.Competitor.Mortgage), 0, competitorMortgageCap)
}

func passSpread(cur *float64, target float64, r *rng.RNG) {
	*cur = clamp(*cur+spreadPassThroughSpeed*(target-*cur)+passThroughNoiseSD*r.Normal(), 0, spreadClampMax)
}

func passHaircut(cur *float64, target float64, r *rng.RNG) {
	*cur = clamp(*cur+haircutPassThroughSpeed*(target-*cur)+passThroughNoiseSD*r.Normal(), 0, haircutClampMax)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
