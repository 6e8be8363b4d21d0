package engine

import (
	"fmt"
	"math"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/action"
	"github.com/rustyeddy/banksim/bankcore/cohort"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/state"
)

func blendRate(balance, rate, delta, newRate float64) float64 {
	total := balance + delta
	if total <= 0 {
		return newRate
	}
	return (balance*rate + delta*newRate) / total
}

// applyActions dispatches every player action against s, in input
// order, booking each action's cash effect into flow, and returns the
// events the actions raise (spec §4.5 step 4). An equity issue with a
// non-positive amount and a loan trade with a zero delta are skipped
// without an event.
func applyActions(s *state.BankState, cfg *bankconfig.Config, actions []action.Action, step int, flow *cashFlowTracker) []Event {
	var events []Event
	for _, a := range actions {
		switch v := a.(type) {
		case action.AdjustRate:
			s.Item(v.Product).AnnualRate = v.Rate
			events = append(events, infoEvent(step, v.Kind(), fmt.Sprintf("rate on %s set to %.4f", v.Product, v.Rate)))

		case action.IssueEquity:
			if v.Amount <= 0 {
				continue
			}
			s.Capital.CET1 += v.Amount
			if cash := s.CashLine(); cash != nil {
				cash.Balance += v.Amount
			}
			flow.bookFinancing(v.Amount)
			events = append(events, infoEvent(step, v.Kind(), fmt.Sprintf("issued equity %.2f", v.Amount)))

		case action.IssueDebt:
			events = append(events, applyIssueDebt(s, v, step, flow))

		case action.BuySellAsset:
			events = append(events, applyBuySellAsset(s, cfg, v, step, flow)...)

		case action.EnterRepo:
			events = append(events, applyEnterRepo(s, v, step, flow))

		case action.Unknown:
			events = append(events, warningEvent(step, v.Kind(), "unrecognised action variant ignored"))

		default:
			events = append(events, warningEvent(step, a.Kind(), "unrecognised action variant ignored"))
		}
	}
	return events
}

func applyIssueDebt(s *state.BankState, v action.IssueDebt, step int, flow *cashFlowTracker) Event {
	if v.Product != product.WholesaleFundingST && v.Product != product.WholesaleFundingLT {
		return warningEvent(step, v.Kind(), fmt.Sprintf("issueDebt rejected: %s is not a wholesale funding product", v.Product))
	}
	if v.Amount <= 0 {
		return warningEvent(step, v.Kind(), "issueDebt rejected: non-positive amount")
	}
	rate := s.Market.RiskFreeShort + s.Market.Spreads.Wholesale
	if v.Product == product.WholesaleFundingLT {
		rate = s.Market.RiskFreeLong + s.Market.Spreads.SeniorDebt
	}
	if v.Rate != nil {
		rate = *v.Rate
	}
	item := s.Item(v.Product)
	item.AnnualRate = blendRate(item.Balance, item.AnnualRate, v.Amount, rate)
	item.Balance += v.Amount
	if cash := s.CashLine(); cash != nil {
		cash.Balance += v.Amount
	}
	if v.Product == product.WholesaleFundingLT {
		flow.bookFinancing(v.Amount)
	} else {
		flow.bookOperating(v.Amount)
	}
	return infoEvent(step, v.Kind(), fmt.Sprintf("issued %.2f of %s at %.4f", v.Amount, v.Product, rate))
}

func applyBuySellAsset(s *state.BankState, cfg *bankconfig.Config, v action.BuySellAsset, step int, flow *cashFlowTracker) []Event {
	meta := product.MetaOf(v.Product)
	if meta.IsLoan {
		return applyLoanTrade(s, cfg, v, step, flow)
	}
	return applyNonLoanTrade(s, v, step, flow)
}

func applyLoanTrade(s *state.BankState, cfg *bankconfig.Config, v action.BuySellAsset, step int, flow *cashFlowTracker) []Event {
	if v.Delta > 0 {
		item := s.Item(v.Product)
		rate := item.AnnualRate
		params := cfg.Params(v.Product)
		funded, err := cohort.Originate(s, cfg, v.Product, step, v.Delta, rate, 0, params.BaseDefaultRate, params.LossGivenDefault)
		if err != nil {
			return []Event{warningEvent(step, v.Kind(), fmt.Sprintf("origination on %s failed: %v", v.Product, err))}
		}
		flow.bookOperating(-funded)
		return []Event{infoEvent(step, v.Kind(), fmt.Sprintf("originated %.2f of %s", funded, v.Product))}
	}
	if v.Delta < 0 {
		paid := cohort.Prepay(s, v.Product, -v.Delta)
		flow.bookOperating(paid)
		return []Event{infoEvent(step, v.Kind(), fmt.Sprintf("prepaid %.2f of %s", paid, v.Product))}
	}
	return nil
}

func applyNonLoanTrade(s *state.BankState, v action.BuySellAsset, step int, flow *cashFlowTracker) []Event {
	item := s.Item(v.Product)
	cash := s.CashLine()
	if cash == nil {
		return []Event{warningEvent(step, v.Kind(), "trade rejected: no cash reserves line")}
	}
	bucket := flow.bookOperating
	if v.Product == product.Gilts {
		bucket = flow.bookInvesting
	}
	if v.Delta > 0 {
		amount := math.Min(v.Delta, cash.Balance)
		cash.Balance -= amount
		item.Balance += amount
		bucket(-amount)
		return []Event{infoEvent(step, v.Kind(), fmt.Sprintf("bought %.2f of %s", amount, v.Product))}
	}
	amount := math.Min(-v.Delta, item.Balance-item.Encumbered)
	if amount < 0 {
		amount = 0
	}
	item.Balance -= amount
	cash.Balance += amount
	bucket(amount)
	return []Event{infoEvent(step, v.Kind(), fmt.Sprintf("sold %.2f of %s", amount, v.Product))}
}

func applyEnterRepo(s *state.BankState, v action.EnterRepo, step int, flow *cashFlowTracker) Event {
	cash := s.CashLine()
	if cash == nil {
		return warningEvent(step, v.Kind(), "repo rejected: no cash reserves line")
	}
	haircut := s.Market.Haircuts.CorpBond
	if v.CollateralProduct == product.Gilts {
		haircut = s.Market.Haircuts.Gilt
	}
	if v.Haircut != nil {
		haircut = *v.Haircut
	}
	rate := s.Market.BaseRate
	if v.Rate != nil {
		rate = *v.Rate
	}

	if v.Direction == action.RepoLend {
		amount := math.Min(v.Amount, cash.Balance)
		cash.Balance -= amount
		item := s.Item(product.ReverseRepo)
		item.AnnualRate = blendRate(item.Balance, item.AnnualRate, amount, rate)
		item.Balance += amount
		flow.bookOperating(-amount)
		return infoEvent(step, v.Kind(), fmt.Sprintf("lent %.2f as reverse repo at %.4f", amount, rate))
	}

	collateral := s.Item(v.CollateralProduct)
	available := collateral.Balance - collateral.Encumbered
	maxBorrowable := available / (1 + haircut)
	amount := math.Min(v.Amount, maxBorrowable)
	if amount < 0 {
		amount = 0
	}
	collateral.Encumbered += amount * (1 + haircut)
	item := s.Item(product.RepurchaseAgreements)
	item.AnnualRate = blendRate(item.Balance, item.AnnualRate, amount, rate)
	item.Balance += amount
	cash.Balance += amount
	flow.bookOperating(amount)
	return infoEvent(step, v.Kind(), fmt.Sprintf("borrowed %.2f via repo against %s at %.4f", amount, v.CollateralProduct, rate))
}
