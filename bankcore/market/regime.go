package market

import (
	"github.com/rustyeddy/banksim/bankcore/rng"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// Regime transition probabilities (spec §4.3): P(normal->recession) and
// P(recession->recession); the complementary probabilities follow.
const (
	pNormalToRecession  = 0.03
	pRecessionToRecession = 0.90
)

// nextRegime advances the 2-state Markov chain by one monthly tick.
func nextRegime(current state.GDPRegime, r *rng.RNG) state.GDPRegime {
	u := r.Uniform()
	switch current {
	case state.RegimeNormal:
		if u < pNormalToRecession {
			return state.RegimeRecession
		}
		return state.RegimeNormal
	default:
		if u < pRecessionToRecession {
			return state.RegimeRecession
		}
		return state.RegimeNormal
	}
}
