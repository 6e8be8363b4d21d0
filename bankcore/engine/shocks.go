package engine

import (
	"fmt"
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/shock"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// shockContext is the shared mutable accumulator every applicable
// shock folds into before actions and behaviour run (spec §4.5 step 3,
// §9). It starts at the neutral values and is read, never mutated
// again, by every later stage.
type shockContext struct {
	pdMultiplier         float64
	lgdMultiplier        float64
	lcrStressMultiplier  float64
	extraLossesByProduct map[product.Type]float64
}

func newShockContext() shockContext {
	return shockContext{
		pdMultiplier:         1,
		lgdMultiplier:        1,
		lcrStressMultiplier:  1,
		extraLossesByProduct: make(map[product.Type]float64),
	}
}

// applyShocks folds every shock scheduled for this step into the
// market state, behavioural state, and the shock accumulator, in input
// order, and returns one event per shock applied.
func applyShocks(s *state.BankState, cfg *bankconfig.Config, shocks []shock.Shock, step int, flow *cashFlowTracker) (shockContext, []Event) {
	ctx := newShockContext()
	var events []Event

	for _, sh := range shocks {
		if sh.Step() != step {
			continue
		}
		switch v := sh.(type) {
		case shock.DepositCompetition:
			s.Market.Competitor.RetailDeposit += v.RetailRateIncrease
			if v.CorporateRateIncrease != nil {
				if s.Market.Competitor.CorporateDeposit == nil {
					base := s.Market.Competitor.RetailDeposit
					s.Market.Competitor.CorporateDeposit = &base
				}
				*s.Market.Competitor.CorporateDeposit += *v.CorporateRateIncrease
			}
			events = append(events, infoEvent(step, v.Kind(), fmt.Sprintf("deposit competition: retail rate +%.4f", v.RetailRateIncrease)))

		case shock.MarketSpreadShock:
			bump := v.Bps / 1e4
			s.Market.Spreads.Wholesale += bump
			s.Market.Spreads.SeniorDebt += bump
			s.Market.Spreads.Corporate += v.CorporateLoanBps / 1e4
			s.Market.Macro.CreditSpread += bump
			haircutBump := v.HaircutIncreasePct / 100
			s.Market.Haircuts.Gilt += haircutBump
			events = append(events, infoEvent(step, v.Kind(), fmt.Sprintf("market spread shock: +%.0fbps", v.Bps)))

		case shock.IdiosyncraticRun:
			ctx.lcrStressMultiplier *= v.Multiplier
			paid, requested := applyDepositRunOff(s, cfg, v.Multiplier, flow)
			events = append(events, warningEvent(step, v.Kind(), fmt.Sprintf("idiosyncratic run: LCR outflow stress x%.2f, deposit run-off %.2f", v.Multiplier, paid)))
			if paid < requested-1e-6 {
				s.Status.HasFailed = true
				events = append(events, criticalEvent(step, v.Kind(), fmt.Sprintf("idiosyncratic run: shortfall of %.2f funding deposit run-off", requested-paid)))
			}

		case shock.MacroDownturn:
			ctx.pdMultiplier *= v.PDMultiplier
			ctx.lgdMultiplier *= v.LGDMultiplier
			events = append(events, warningEvent(step, v.Kind(), fmt.Sprintf("macro downturn: PD x%.2f LGD x%.2f", v.PDMultiplier, v.LGDMultiplier)))

		case shock.CounterpartyDefault:
			ctx.extraLossesByProduct[v.Product] += v.LossAmount
			events = append(events, criticalEvent(step, v.Kind(), fmt.Sprintf("counterparty default on %s: loss %.2f", v.Product, v.LossAmount)))

		case shock.Unknown:
			events = append(events, warningEvent(step, v.Kind(), "unrecognised shock variant ignored"))

		default:
			events = append(events, warningEvent(step, sh.Kind(), "unrecognised shock variant ignored"))
		}
	}

	return ctx, events
}

// applyDepositRunOff withdraws retail and corporate deposits under an
// idiosyncraticRun shock: the run-off rate escalates with the LCR
// outflow multiplier above 1, the combined requested withdrawal is
// funded out of cash up to what's available, retail is paid first up
// to its own request, and corporate absorbs whatever is left of the
// funded amount (spec §4.5 step 3). It returns the amount actually paid
// and the amount requested, so the caller can flag a shortfall.
func applyDepositRunOff(s *state.BankState, cfg *bankconfig.Config, outflowMultiplier float64, flow *cashFlowTracker) (paid, requested float64) {
	p := cfg.ShockParameters.IdiosyncraticRun
	runOff := math.Min(p.MaxRunOffRate, p.BaseRunOffRate+math.Max(0, outflowMultiplier-1)*p.IncrementalRate)

	retail := s.Item(product.RetailDeposits)
	corporate := s.Item(product.CorporateDeposits)
	retailRequested := retail.Balance * runOff
	corporateRequested := corporate.Balance * runOff
	requested = retailRequested + corporateRequested

	cash := s.CashLine()
	if cash != nil {
		paid = math.Min(requested, cash.Balance)
	}

	retailPaid := math.Min(retailRequested, paid)
	corporatePaid := math.Min(corporateRequested, paid-retailPaid)

	retail.Balance -= retailPaid
	corporate.Balance -= corporatePaid
	if cash != nil {
		cash.Balance -= paid
	}
	flow.bookOperating(-paid)

	return paid, requested
}
