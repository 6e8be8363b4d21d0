package cohort

import (
	"fmt"
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/rng"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// OutstandingFactor returns the fraction of an amortising loan's
// original principal still outstanding after k of n monthly periods at
// annual rate rAnnual (spec §4.2, "outstanding_factor").
func OutstandingFactor(rAnnual float64, n, k int) float64 {
	if k >= n {
		return 0
	}
	if math.Abs(rAnnual) < 1e-9 {
		return float64(n-k) / float64(n)
	}
	rm := 1 + rAnnual/12
	num := math.Pow(rm, float64(n)) - math.Pow(rm, float64(k))
	den := math.Pow(rm, float64(n)) - 1
	if den == 0 {
		return float64(n-k) / float64(n)
	}
	return clampF(num/den, 0, 1)
}

func uniformRange(r *rng.RNG, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + r.Uniform()*(hi-lo)
}

// GenerateSeasoned builds an ordered set of cohorts for p whose
// outstandings sum to targetOutstanding, following an age-bucketed
// amortisation-curve model (spec §4.2, "generate_seasoned"). If
// seasoning is disabled or the target is non-positive, it returns a
// single fresh (age-0) cohort.
func GenerateSeasoned(
	p product.Type,
	targetOutstanding, baseRate, basePD, baseLGD float64,
	cfg *bankconfig.Config,
	seed int32,
) ([]*state.LoanCohort, error) {
	params := cfg.Params(p)
	loan := params.Loan
	if loan == nil {
		return nil, fmt.Errorf("cohort: product %s has no loan parameters configured", p)
	}

	if !loan.InitialSeasoningEnabled || targetOutstanding <= 0 {
		return []*state.LoanCohort{{
			Product:              p,
			CohortID:             0,
			OriginalPrincipal:    targetOutstanding,
			OutstandingPrincipal: targetOutstanding,
			AnnualInterestRate:   baseRate,
			TermMonths:           clampTerm(loan.DefaultTermMonths, loan.MaxTermMonths),
			AgeMonths:            0,
			AnnualPD:             basePD,
			LGD:                  baseLGD,
		}}, nil
	}

	buckets := loan.DefaultTermMonths
	if buckets <= 0 {
		buckets = 1
	}
	r := rng.New(seed)

	weights := make([]float64, buckets)
	for k := 0; k < buckets; k++ {
		weights[k] = OutstandingFactor(baseRate, buckets, k) * math.Exp(r.Normal()*0.12)
	}
	weights = movingAverage3(weights)
	weights = movingAverage3(weights)
	normalize(weights)

	dollars := make([]float64, buckets)
	for k, w := range weights {
		dollars[k] = w * targetOutstanding
	}

	minBucket := loan.InitialMinBucketOutstanding
	type survivor struct {
		age    int
		amount float64
	}
	survivors := make([]survivor, 0, buckets)
	survivingTotal := 0.0
	for k, amt := range dollars {
		if amt < minBucket {
			continue
		}
		survivors = append(survivors, survivor{age: k, amount: amt})
		survivingTotal += amt
	}
	if len(survivors) == 0 {
		survivors = append(survivors, survivor{age: 0, amount: targetOutstanding})
		survivingTotal = targetOutstanding
	}

	dispersion := loan.InitialCouponDispersionBps / 1e4
	pdRange := loan.InitialPdMultiplierRange
	lgdRange := loan.InitialLgdMultiplierRange

	cohorts := make([]*state.LoanCohort, 0, len(survivors))
	sumOutstanding := 0.0
	for _, sv := range survivors {
		amount := sv.amount / survivingTotal * targetOutstanding
		sumOutstanding += amount

		coupon := clampF(baseRate+r.Normal()*dispersion, 1e-4, 0.25)
		pdMult := uniformRange(r, pdRange[0], pdRange[1])
		lgdMult := uniformRange(r, lgdRange[0], lgdRange[1])

		age := sv.age
		term := buckets
		factor := OutstandingFactor(coupon, term, age)
		var original float64
		if factor <= 1e-9 {
			original = amount
		} else {
			original = amount / factor
		}

		cohorts = append(cohorts, &state.LoanCohort{
			Product:              p,
			CohortID:             -age,
			OriginalPrincipal:    original,
			OutstandingPrincipal: amount,
			AnnualInterestRate:   coupon,
			TermMonths:           term,
			AgeMonths:            age,
			AnnualPD:             clampF(basePD*pdMult, 0, 0.999999),
			LGD:                  clampF(baseLGD*lgdMult, 0, 1),
		})
	}

	sortByCohortID(cohorts)

	tol := math.Max(1e6, targetOutstanding*1e-6)
	if math.Abs(sumOutstanding-targetOutstanding) > tol {
		return nil, fmt.Errorf("cohort: seasoned portfolio for %s sums to %.2f, want %.2f (tol %.2f)", p, sumOutstanding, targetOutstanding, tol)
	}

	return cohorts, nil
}

func normalize(w []float64) {
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if sum <= 0 {
		for i := range w {
			w[i] = 1.0 / float64(len(w))
		}
		return
	}
	for i := range w {
		w[i] /= sum
	}
}

func sortByCohortID(cohorts []*state.LoanCohort) {
	for i := 1; i < len(cohorts); i++ {
		for j := i; j > 0 && cohorts[j].CohortID < cohorts[j-1].CohortID; j-- {
			cohorts[j], cohorts[j-1] = cohorts[j-1], cohorts[j]
		}
	}
}
