package engine

import "github.com/rustyeddy/banksim/bankcore/state"

// cashFlowTracker accumulates cash movements into the three classical
// buckets as each pipeline stage books them, rather than being
// reverse-engineered from balance-sheet deltas after the fact — a
// write-down inside a loan cohort changes that cohort's balance with
// no cash movement at all, so deltas alone can't be trusted to net out
// correctly.
//
// The classification follows the convention spec §4.5's
// "cash_flow_statement" step names for the lines it does name
// (Gilts -> investing; customer deposits, short-term wholesale funding,
// and repos -> operating; long-term wholesale funding and external
// capital -> financing) and extends it in the same spirit for the
// lines it leaves unnamed: loans and reverse repo are treated as
// operating, alongside deposits, since they are the bank's core
// lending business rather than a treasury/investment activity.
type cashFlowTracker struct {
	Operating float64
	Investing float64
	Financing float64
}

func (t *cashFlowTracker) bookOperating(amount float64) { t.Operating += amount }
func (t *cashFlowTracker) bookInvesting(amount float64) { t.Investing += amount }
func (t *cashFlowTracker) bookFinancing(amount float64) { t.Financing += amount }

// finalize builds the reported CashFlowStatement from the tracked
// buckets and the cash line's start/end balances (spec §3,
// "CashFlowStatement").
func (t *cashFlowTracker) finalize(cashStart, cashEnd float64) state.CashFlowStatement {
	return state.CashFlowStatement{
		CashStart: cashStart,
		CashEnd:   cashEnd,
		NetChange: cashEnd - cashStart,
		Operating: t.Operating,
		Investing: t.Investing,
		Financing: t.Financing,
	}
}
