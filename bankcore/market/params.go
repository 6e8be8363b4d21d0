package market

// The spec (§4.3) pins down the AR coefficients, standard deviations,
// regime transition probabilities, and several exact recursions
// (inflation, unemployment latent, policy rate, term premium) but
// leaves a handful of macro-loading and target constants unspecified.
// Those choices are collected here, in one place, and are recorded as
// Open Question resolutions in DESIGN.md rather than scattered as
// magic numbers through tick.go.
const (
	gdpTrendMoM        = 0.0015
	regimeMeanNormal   = 0.0
	regimeMeanRecession = -0.006
	regimeSDNormal     = 0.0010
	regimeSDRecession  = 0.0020
	alphaD             = 0.40
	alphaS             = 0.30
	alphaF             = 0.20

	inflationKappa  = 0.85
	inflationTarget = 0.02
	inflationBetaS  = 0.02
	inflationBetaD  = 0.01

	unemploymentXBar        = -1.5
	unemploymentMeanRevSpeed = 0.08
	unemploymentGDPGapCoeff = 2.5
	unemploymentFactorLoad  = 0.08
	unemploymentBase        = 0.02
	unemploymentScale       = 0.10

	realNeutralRate    = 0.005
	taylorInflationGap = 1.5
	taylorFactorLoad   = 0.003
	policyRateSmoothing = 0.9

	termPremiumMean     = 0.0185
	termPremiumAR       = 0.97
	termPremiumFactorLoad = 0.0025
	termPremiumInflGap  = 0.08

	creditSpreadSpeed  = 0.30
	creditSpreadBaseD  = 0.05
	creditSpreadBaseS  = 0.03
	creditSpreadBase   = 0.01
	creditSpreadNoiseSD = 0.001

	spreadPassThroughSpeed  = 0.70
	haircutPassThroughSpeed = 0.25
	passThroughNoiseSD      = 0.0003

	mortgageSpreadBase   = 0.010
	mortgageSpreadLoad   = 0.50
	corporateSpreadBase  = 0.020
	corporateSpreadLoad  = 1.00
	wholesaleSpreadBase  = 0.005
	wholesaleSpreadLoad  = 0.60
	seniorSpreadBase     = 0.008
	seniorSpreadLoad     = 0.80

	giltHaircutBase     = 0.010
	giltHaircutLoad     = 0.10
	corpBondHaircutBase = 0.050
	corpBondHaircutLoad = 0.50

	spreadClampMax  = 0.08
	haircutClampMax = 0.40

	competitorRetailSpeed    = 0.25
	competitorRetailMargin   = 0.025
	competitorCorpSpeed      = 0.50
	competitorCorpUplift     = 0.005
	competitorMortgageSpeed  = 0.20
	competitorMortgageMargin = 0.005
	competitorMortgageCap    = 0.20

	curveLambda = 0.75

	inflationClampMin = -0.02
	inflationClampMax = 0.15
	policyRateClampMax = 0.12
	termPremiumClampMax = 0.06
)
