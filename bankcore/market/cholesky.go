// Package market implements the macro-market model: the correlated
// macro-factor process, the policy-rate/inflation/unemployment block,
// the Nelson-Siegel gilt curve fit, and the pass-through to product
// spreads, haircuts, and competitor rates (spec §4.3).
//
// The 4x4 factor covariance is Cholesky-factored exactly once, at
// package initialisation, following spec §5's resource policy: "no
// global mutable state other than the precomputed Cholesky factor
// (read-only, initialised once at module load and thereafter
// immutable). If that initialisation fails, the module must refuse to
// execute any step."
package market

import "math"

// Factor order: D (demand), S (supply), F (financial), R (regulatory).
const numFactors = 4

// arCoefficients are the AR(1) coefficients for D, S, F, R (spec §4.3).
var arCoefficients = [numFactors]float64{0.85, 0.7, 0.8, 0.97}

// factorStdDev are the innovation standard deviations for D, S, F, R
// (spec §4.3).
var factorStdDev = [numFactors]float64{0.25, 0.22, 0.28, 0.08}

// factorCorrelation is the fixed correlation matrix among the four
// factors' innovations. The spec names the AR coefficients and
// standard deviations exactly but leaves the correlation structure
// itself unspecified; this repository's choice is moderate positive
// D-S and D-F correlation and weak R correlation.
var factorCorrelation = [numFactors][numFactors]float64{
	{1.00, 0.35, 0.25, 0.05},
	{0.35, 1.00, 0.15, 0.05},
	{0.25, 0.15, 1.00, 0.10},
	{0.05, 0.05, 0.10, 1.00},
}

// cholFactor is the lower-triangular Cholesky factor of the factor
// covariance matrix (correlation scaled by the standard deviations).
// It is computed once in init and never mutated again.
var cholFactor [numFactors][numFactors]float64

// cholInitErr records why initialisation failed, if it did. Every
// exported entry point in this package checks it first and refuses to
// run (spec §5).
var cholInitErr error

func init() {
	cov := covarianceFromCorrelation(factorCorrelation, factorStdDev)
	factor, err := choleskyWithJitter(cov, 8)
	if err != nil {
		cholInitErr = err
		return
	}
	cholFactor = factor
}

func covarianceFromCorrelation(corr [numFactors][numFactors]float64, sd [numFactors]float64) [numFactors][numFactors]float64 {
	var cov [numFactors][numFactors]float64
	for i := 0; i < numFactors; i++ {
		for j := 0; j < numFactors; j++ {
			cov[i][j] = corr[i][j] * sd[i] * sd[j]
		}
	}
	return cov
}

// choleskyWithJitter computes the lower-triangular Cholesky factor of a
// symmetric matrix, retrying up to maxRetries times with a small
// diagonal jitter added if the matrix is not (numerically) positive
// definite (spec §4.3: "factored once ... with diagonal jitter retries
// up to 8 times").
func choleskyWithJitter(m [numFactors][numFactors]float64, maxRetries int) ([numFactors][numFactors]float64, error) {
	jitter := 0.0
	for attempt := 0; attempt <= maxRetries; attempt++ {
		trial := m
		if jitter > 0 {
			for i := 0; i < numFactors; i++ {
				trial[i][i] += jitter
			}
		}
		factor, ok := choleskyOnce(trial)
		if ok {
			return factor, nil
		}
		if jitter == 0 {
			jitter = 1e-10
		} else {
			jitter *= 10
		}
	}
	var zero [numFactors][numFactors]float64
	return zero, errNonPositiveDefinite
}

func choleskyOnce(m [numFactors][numFactors]float64) ([numFactors][numFactors]float64, bool) {
	var l [numFactors][numFactors]float64
	for i := 0; i < numFactors; i++ {
		for j := 0; j <= i; j++ {
			sum := m[i][j]
			for k := 0; k < j; k++ {
				sum -= l[i][k] * l[j][k]
			}
			if i == j {
				if sum <= 0 {
					return l, false
				}
				l[i][j] = math.Sqrt(sum)
			} else {
				l[i][j] = sum / l[j][j]
			}
		}
	}
	return l, true
}

// multiplyLower returns factor * z for the lower-triangular factor.
func multiplyLower(factor [numFactors][numFactors]float64, z [numFactors]float64) [numFactors]float64 {
	var out [numFactors]float64
	for i := 0; i < numFactors; i++ {
		sum := 0.0
		for j := 0; j <= i; j++ {
			sum += factor[i][j] * z[j]
		}
		out[i] = sum
	}
	return out
}
