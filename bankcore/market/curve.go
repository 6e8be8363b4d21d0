package market

import (
	"math"

	"github.com/rustyeddy/banksim/bankcore/state"
)

// nsLoadings returns the two Nelson-Siegel basis loadings (slope,
// curvature) for maturity tau at the fixed decay lambda; the level
// loading is always 1.
func nsLoadings(tau, lambda float64) (slopeLoad, curveLoad float64) {
	if tau <= 0 {
		return 1, 0
	}
	x := lambda * tau
	decay := (1 - math.Exp(-x)) / x
	slopeLoad = decay
	curveLoad = decay - math.Exp(-x)
	return slopeLoad, curveLoad
}

// nsYield evaluates the fitted curve at maturity tau.
func nsYield(f state.NelsonSiegelFactors, tau float64) float64 {
	slopeLoad, curveLoad := nsLoadings(tau, f.Lambda)
	return f.Level + f.Slope*slopeLoad + f.Curvature*curveLoad
}

// fitNelsonSiegel solves the 3x3 linear system that makes the curve
// pass exactly through three (maturity, yield) anchor points, using
// Gaussian elimination with partial pivoting (spec §4.3: "three-point
// exact solve"). If the system is singular — most commonly because two
// anchors share (numerically) the same maturity — it falls back to
// prev, and if prev is the zero value, to a flat curve at the mean of
// the anchor yields.
func fitNelsonSiegel(taus, yields [3]float64, lambda float64, prev state.NelsonSiegelFactors) state.NelsonSiegelFactors {
	var a [3][4]float64
	for i := 0; i < 3; i++ {
		slopeLoad, curveLoad := nsLoadings(taus[i], lambda)
		a[i][0] = 1
		a[i][1] = slopeLoad
		a[i][2] = curveLoad
		a[i][3] = yields[i]
	}

	for col := 0; col < 3; col++ {
		pivot := col
		best := math.Abs(a[col][col])
		for r := col + 1; r < 3; r++ {
			if v := math.Abs(a[r][col]); v > best {
				pivot = r
				best = v
			}
		}
		if best < 1e-12 {
			return fallbackCurve(yields, lambda, prev)
		}
		a[col], a[pivot] = a[pivot], a[col]

		for r := 0; r < 3; r++ {
			if r == col {
				continue
			}
			factor := a[r][col] / a[col][col]
			for c := col; c < 4; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	return state.NelsonSiegelFactors{
		Level:     a[0][3] / a[0][0],
		Slope:     a[1][3] / a[1][1],
		Curvature: a[2][3] / a[2][2],
		Lambda:    lambda,
	}
}

func fallbackCurve(yields [3]float64, lambda float64, prev state.NelsonSiegelFactors) state.NelsonSiegelFactors {
	if prev.Lambda != 0 {
		return prev
	}
	mean := (yields[0] + yields[1] + yields[2]) / 3
	return state.NelsonSiegelFactors{Level: mean, Lambda: lambda}
}

// evaluateCurve fills the explicit tenor points from the fitted factors
// (spec §3, "GiltCurve").
func evaluateCurve(f state.NelsonSiegelFactors) state.GiltCurve {
	return state.GiltCurve{
		Factors: f,
		Y1:      nsYield(f, 1),
		Y2:      nsYield(f, 2),
		Y3:      nsYield(f, 3),
		Y5:      nsYield(f, 5),
		Y10:     nsYield(f, 10),
		Y20:     nsYield(f, 20),
		Y30:     nsYield(f, 30),
	}
}
