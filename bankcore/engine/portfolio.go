package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/banksim/bankconfig"
	"github.com/rustyeddy/banksim/bankcore/cohort"
	"github.com/rustyeddy/banksim/bankcore/product"
	"github.com/rustyeddy/banksim/bankcore/riskmetrics"
	"github.com/rustyeddy/banksim/bankcore/state"
)

const defaultPortfolioSeed int32 = 20240101

// InitialSeasonedPortfolio builds the opening BankState from cfg's
// configured product balances, seasoning the two loan books with
// cohort.GenerateSeasoned so the simulation starts mid-cycle rather
// than from a single fresh cohort (spec §6, entry point 2). Mortgages
// season from baseSeed+0 and corporate loans from baseSeed+1, so the
// two books never share a stream. seedOverride takes precedence over
// cfg.Global.InitialPortfolioSeed when non-nil.
func InitialSeasonedPortfolio(cfg *bankconfig.Config, seedOverride *int32) (*state.BankState, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseSeed := defaultPortfolioSeed
	if cfg.Global.InitialPortfolioSeed != nil {
		baseSeed = *cfg.Global.InitialPortfolioSeed
	}
	if seedOverride != nil {
		baseSeed = *seedOverride
	}

	s := &state.BankState{
		Version:      "1",
		BalanceSheet: make(map[product.Type]*state.BalanceSheetItem, len(product.All())),
		Cohorts:      make(map[product.Type][]*state.LoanCohort),
		Behaviour: state.BehaviouralState{
			DepositFranchiseStrength: 1.0,
			Reputation:               1.0,
		},
		Clock: state.Clock{
			Step:             0,
			Date:             time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			StepLengthMonths: 1,
		},
	}

	for i, t := range product.Loans() {
		params := cfg.Params(t)
		seed := baseSeed + int32(i)
		cohorts, err := cohort.GenerateSeasoned(t, params.InitialBalance, marketRateFor(cfg, t), params.BaseDefaultRate, params.LossGivenDefault, cfg, seed)
		if err != nil {
			return nil, err
		}
		s.Cohorts[t] = cohorts
	}
	cohort.SyncBalances(s)
	if err := cohort.ValidateAll(s, cfg); err != nil {
		return nil, fmt.Errorf("seed portfolio: %w", err)
	}

	for _, t := range product.All() {
		if product.MetaOf(t).IsLoan {
			continue
		}
		params := cfg.Params(t)
		s.Item(t).Balance = params.InitialBalance
		s.Item(t).AnnualRate = marketRateFor(cfg, t)
		s.Item(t).Liquidity = liquidityTagFrom(cfg.LiquidityTags[t])
	}
	for _, t := range product.Loans() {
		item := s.Item(t)
		item.Liquidity = liquidityTagFrom(cfg.LiquidityTags[t])
		item.AnnualRate = weightedCohortRate(s.Cohorts[t], marketRateFor(cfg, t))
	}

	totalAssets := s.TotalAssets()
	totalLiabilities := s.TotalLiabilities()
	s.Capital = state.CapitalState{CET1: totalAssets - totalLiabilities, AT1: 0}

	s.Market = state.MarketState{
		BaseRate:      0.04,
		RiskFreeShort: 0.035,
		RiskFreeLong:  0.045,
		Spreads: state.Spreads{
			Mortgage: 0.015, Corporate: 0.025, Wholesale: 0.008, SeniorDebt: 0.010, Credit: 0.010,
		},
		Haircuts:   state.Haircuts{Gilt: 0.02, CorpBond: 0.08},
		Competitor: state.CompetitorRates{RetailDeposit: 0.015, Mortgage: 0.045},
		Macro:      state.MacroObservables{GDPGrowthMoM: 0.0015, UnemploymentRate: 0.045, InflationRate: 0.02, CreditSpread: 0.01},
		MacroModel: state.MacroModelState{RNGSeed: baseSeed},
	}

	riskmetrics.Compute(s, cfg, 1.0)

	return s, nil
}

func weightedCohortRate(cohorts []*state.LoanCohort, fallback float64) float64 {
	totalOutstanding, weighted := 0.0, 0.0
	for _, c := range cohorts {
		totalOutstanding += c.OutstandingPrincipal
		weighted += c.OutstandingPrincipal * c.AnnualInterestRate
	}
	if totalOutstanding <= 0 {
		return fallback
	}
	return weighted / totalOutstanding
}

func marketRateFor(cfg *bankconfig.Config, t product.Type) float64 {
	switch t {
	case product.Mortgages:
		return 0.045
	case product.CorporateLoans:
		return 0.06
	default:
		return 0
	}
}

func liquidityTagFrom(c bankconfig.LiquidityTagConfig) state.LiquidityTag {
	return state.LiquidityTag{
		HQLALevel:      parseHQLALevel(c.HQLALevel),
		LCROutflowRate: c.LCROutflowRate,
		LCRInflowRate:  c.LCRInflowRate,
		NSFRAsfFactor:  c.NSFRAsfFactor,
		NSFRRsfFactor:  c.NSFRRsfFactor,
	}
}

func parseHQLALevel(s string) state.HQLALevel {
	switch strings.ToLower(s) {
	case "level1":
		return state.HQLALevel1
	case "level2a":
		return state.HQLALevel2A
	case "level2b":
		return state.HQLALevel2B
	default:
		return state.HQLANone
	}
}
