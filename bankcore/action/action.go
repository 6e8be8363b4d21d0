// Package action defines the closed set of player actions the step
// pipeline applies each month, following the same "tagged struct behind
// an interface, dispatch by type switch" shape the teacher uses for
// broker.MarketOrderRequest-like request objects, generalised to a sum
// type per spec §9 ("PlayerAction and Shock are closed sum types").
package action

import "github.com/rustyeddy/banksim/bankcore/product"

// Action is implemented by every player-action variant. Kind lets the
// pipeline log an unrecognised variant without a type assertion.
type Action interface {
	Kind() string
}

// AdjustRate sets a product's posted annual interest rate.
type AdjustRate struct {
	Product product.Type
	Rate    float64
}

func (AdjustRate) Kind() string { return "adjustRate" }

// IssueEquity raises CET1 capital, crediting cash by the same amount.
type IssueEquity struct {
	Amount float64
}

func (IssueEquity) Kind() string { return "issueEquity" }

// IssueDebt raises wholesale funding. Product must be WholesaleFundingST
// or WholesaleFundingLT. Rate, if nil, is priced off the market state
// (spec §4.5, step 4).
type IssueDebt struct {
	Product product.Type
	Amount  float64
	Rate    *float64
}

func (IssueDebt) Kind() string { return "issueDebt" }

// BuySellAsset originates/prepays a loan cohort (loan products) or
// buys/sells a non-loan asset. Positive Delta buys/originates; negative
// Delta sells/prepays.
type BuySellAsset struct {
	Product product.Type
	Delta   float64
}

func (BuySellAsset) Kind() string { return "buySellAsset" }

// RepoDirection distinguishes borrowing cash against collateral from
// lending cash out (reverse repo).
type RepoDirection int

const (
	RepoBorrow RepoDirection = iota
	RepoLend
)

// EnterRepo borrows cash collateralised by CollateralProduct, or lends
// cash out as a reverse repo, per spec §4.5 step 4.
type EnterRepo struct {
	Direction         RepoDirection
	CollateralProduct product.Type
	Amount            float64
	Haircut           *float64
	Rate              *float64
}

func (EnterRepo) Kind() string { return "enterRepo" }

// Unknown wraps any action variant the pipeline does not recognise, so
// forward-compatible callers degrade to a warning instead of aborting
// the step (spec §9).
type Unknown struct {
	Tag string
}

func (u Unknown) Kind() string { return u.Tag }
