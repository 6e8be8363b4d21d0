// Package engine orchestrates the monthly step pipeline: it clones the
// input state, applies shocks and player actions, runs the behavioural
// flows and the loan-cohort engine, closes the books, computes risk
// metrics, checks invariants, and advances the macro-market model
// (spec §4.5). It is the one place that calls every other bankcore
// package in the order the balance sheet actually settles.
package engine

import (
	"fmt"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/action"
	"github.com/rustyeddy/banksim/bankcore/cohort"
	"github.com/rustyeddy/banksim/bankcore/invariant"
	"github.com/rustyeddy/banksim/bankcore/market"
	"github.com/rustyeddy/banksim/bankcore/riskmetrics"
	"github.com/rustyeddy/banksim/bankcore/shock"
	"github.com/rustyeddy/banksim/bankcore/state"
)

// Step advances prev by one step of Clock.StepLengthMonths calendar
// months and returns the new state and the events raised along the way. prev is never mutated;
// the returned state shares no storage with it (spec §4.7). actions
// and shocks are expected to already be pre-filtered to this step by
// the caller — shock.ForStep is provided for callers that keep a flat
// shock schedule instead.
func Step(prev *state.BankState, cfg *bankconfig.Config, actions []action.Action, shocks []shock.Shock) (*state.BankState, []Event, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("engine: invalid config: %w", err)
	}

	s := prev.Clone()
	step := s.Clock.Step

	cohort.SyncBalances(s)

	flow := &cashFlowTracker{}
	cashStart := 0.0
	if cash := s.CashLine(); cash != nil {
		cashStart = cash.Balance
	}

	var events []Event
	shockCtx, shockEvents := applyShocks(s, cfg, shocks, step, flow)
	events = append(events, shockEvents...)

	actionEvents := applyActions(s, cfg, actions, step, flow)
	events = append(events, actionEvents...)

	depositBehaviour(s, cfg, flow)
	loanBehaviour(s, cfg, step, flow)

	cashBeforeCohortStep := 0.0
	if cash := s.CashLine(); cash != nil {
		cashBeforeCohortStep = cash.Balance
	}
	cohortResult := cohort.Step(s, s.Clock.StepLengthMonths, shockCtx.pdMultiplier, shockCtx.lgdMultiplier, shockCtx.extraLossesByProduct)
	if cash := s.CashLine(); cash != nil {
		flow.bookOperating(cash.Balance - cashBeforeCohortStep)
	}
	if err := cohort.ValidateAll(s, cfg); err != nil {
		return nil, nil, fmt.Errorf("engine: %w", err)
	}

	nonLoanLosses := applyNonLoanLosses(s, shockCtx.extraLossesByProduct)

	accrueIncome(s, cfg, cohortResult.LoanInterestIncome, flow)
	recognizeLosses(s, cohortResult.RecognizedLoanLosses, nonLoanLosses)
	closeCapital(s, cfg, flow)

	riskmetrics.Compute(s, cfg, shockCtx.lcrStressMultiplier)

	cashEnd := 0.0
	if cash := s.CashLine(); cash != nil {
		cashEnd = cash.Balance
	}
	s.CashFlowStatement = flow.finalize(cashStart, cashEnd)

	if violations := invariant.Check(s, cfg); len(violations) > 0 {
		s.Status.HasFailed = true
		for _, v := range violations {
			events = append(events, criticalEvent(step, "invariantViolation", v))
		}
	}

	if s.Compliance.AnyBreach() {
		events = append(events, warningEvent(step, "complianceBreach", "one or more regulatory ratios are below their configured minimum"))
	}
	if s.Capital.CET1 <= 0 {
		s.Status.HasFailed = true
		events = append(events, criticalEvent(step, "bankFailed", "CET1 capital has been exhausted"))
	}

	if err := market.Advance(&s.Market, s.Clock.StepLengthMonths); err != nil {
		return nil, events, fmt.Errorf("engine: market model unavailable: %w", err)
	}

	s.Clock.Step++
	if months := int(s.Clock.StepLengthMonths + 0.5); months > 0 {
		s.Clock.Date = s.Clock.Date.AddDate(0, months, 0)
	}

	return s, events, nil
}
