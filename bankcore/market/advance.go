package market

import (
	"math"

	"github.com/rustyeddy/banksim/bankcore/rng"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// Advance evolves m by dtMonths calendar months, ticking the model once
// per whole month (spec §4.3: "months = max(1, round(dtMonths))"). The
// generator resumes from MacroModel.RNGSeed and the advanced state is
// written back into it, so consecutive calls form one continuous
// stream regardless of how state.Clone splits them across steps.
//
// Per spec §5, this refuses to run at all if the package's one-time
// Cholesky factorisation failed.
func Advance(m *state.MarketState, dtMonths float64) error {
	if cholInitErr != nil {
		return ErrCoreUnavailable
	}

	months := int(math.Round(dtMonths))
	if months < 1 {
		months = 1
	}

	r := rng.New(m.MacroModel.RNGSeed)
	for i := 0; i < months; i++ {
		tick(m, r)
	}
	m.MacroModel.RNGSeed = int32(r.State())
	return nil
}
