// Package shock defines the closed set of exogenous shocks the step
// pipeline folds into a mutable shock context before applying player
// actions (spec §4.5 step 3, §9 "Shared mutable accumulators during
// shocks").
package shock

import "github.com/rustyeddy/banksim/bankcore/product"

// Shock is implemented by every shock variant.
type Shock interface {
	Kind() string
	Step() int
}

type base struct {
	StepNumber int
}

func (b base) Step() int { return b.StepNumber }

// DepositCompetition raises competitor deposit rates.
type DepositCompetition struct {
	base
	RetailRateIncrease    float64
	CorporateRateIncrease *float64
}

func (DepositCompetition) Kind() string { return "depositCompetition" }

// NewDepositCompetition constructs a DepositCompetition scheduled for step.
func NewDepositCompetition(step int, retailIncrease float64, corporateIncrease *float64) DepositCompetition {
	return DepositCompetition{base: base{step}, RetailRateIncrease: retailIncrease, CorporateRateIncrease: corporateIncrease}
}

// MarketSpreadShock widens funding/credit spreads and repo haircuts.
type MarketSpreadShock struct {
	base
	Bps                 float64
	CorporateLoanBps    float64
	HaircutIncreasePct  float64
}

func (MarketSpreadShock) Kind() string { return "marketSpreadShock" }

// NewMarketSpreadShock constructs a MarketSpreadShock scheduled for step.
func NewMarketSpreadShock(step int, bps, corporateLoanBps, haircutIncreasePct float64) MarketSpreadShock {
	return MarketSpreadShock{base: base{step}, Bps: bps, CorporateLoanBps: corporateLoanBps, HaircutIncreasePct: haircutIncreasePct}
}

// IdiosyncraticRun stresses deposit outflow assumptions and the LCR
// outflow multiplier.
type IdiosyncraticRun struct {
	base
	Multiplier float64
}

func (IdiosyncraticRun) Kind() string { return "idiosyncraticRun" }

// NewIdiosyncraticRun constructs an IdiosyncraticRun scheduled for step.
func NewIdiosyncraticRun(step int, multiplier float64) IdiosyncraticRun {
	return IdiosyncraticRun{base: base{step}, Multiplier: multiplier}
}

// MacroDownturn multiplies loan-cohort PD/LGD for the step.
type MacroDownturn struct {
	base
	PDMultiplier  float64
	LGDMultiplier float64
}

func (MacroDownturn) Kind() string { return "macroDownturn" }

// NewMacroDownturn constructs a MacroDownturn scheduled for step.
func NewMacroDownturn(step int, pdMult, lgdMult float64) MacroDownturn {
	return MacroDownturn{base: base{step}, PDMultiplier: pdMult, LGDMultiplier: lgdMult}
}

// CounterpartyDefault recognises an immediate loss on a product without
// running it through the ordinary cohort default mechanics.
type CounterpartyDefault struct {
	base
	Product    product.Type
	LossAmount float64
}

func (CounterpartyDefault) Kind() string { return "counterpartyDefault" }

// NewCounterpartyDefault constructs a CounterpartyDefault scheduled for step.
func NewCounterpartyDefault(step int, p product.Type, loss float64) CounterpartyDefault {
	return CounterpartyDefault{base: base{step}, Product: p, LossAmount: loss}
}

// Unknown wraps any shock variant the pipeline does not recognise.
type Unknown struct {
	base
	Tag string
}

func (u Unknown) Kind() string { return u.Tag }

// ForStep filters shocks to the subset scheduled for step, preserving
// input order. The caller (spec §6) is responsible for this filtering
// in general; this helper serves callers that keep a flat shock
// schedule.
func ForStep(shocks []Shock, step int) []Shock {
	out := make([]Shock, 0, len(shocks))
	for _, s := range shocks {
		if s.Step() == step {
			out = append(out, s)
		}
	}
	return out
}
