// Package product defines the closed enumeration of balance-sheet line
// items the simulator understands, mirroring how market.Instruments
// carries fixed per-instrument metadata in the teacher repository.
package product

import "fmt"

// Side identifies which side of the balance sheet a product sits on.
type Side int

const (
	SideAsset Side = iota
	SideLiability
)

func (s Side) String() string {
	if s == SideAsset {
		return "asset"
	}
	return "liability"
}

// DepositSegment classifies a customer-deposit product for behavioural
// and shock purposes.
type DepositSegment int

const (
	DepositSegmentNone DepositSegment = iota
	DepositSegmentRetail
	DepositSegmentCorporate
)

// LoanBenchmark identifies which competitor rate a loan product's
// behavioural flow reverts toward.
type LoanBenchmark int

const (
	LoanBenchmarkNone LoanBenchmark = iota
	LoanBenchmarkMortgage
	LoanBenchmarkCorporate
)

// Type is a closed enumeration of balance-sheet products.
type Type int

const (
	CashReserves Type = iota
	Gilts
	Mortgages
	CorporateLoans
	ReverseRepo

	RetailDeposits
	CorporateDeposits
	WholesaleFundingST
	WholesaleFundingLT
	RepurchaseAgreements

	numTypes
)

// Meta carries the fixed, per-product behaviour flags described in
// spec §3 ("Product taxonomy").
type Meta struct {
	Type            Type
	Label           string
	Side            Side
	IsLoan          bool
	IsCustomerDep   bool
	DepositSegment  DepositSegment
	LoanBenchmark   LoanBenchmark
}

// registry is populated once at init and never mutated afterward,
// matching the teacher's read-only market.Instruments map.
var registry = map[Type]Meta{
	CashReserves: {
		Type: CashReserves, Label: "Cash & Reserves", Side: SideAsset,
	},
	Gilts: {
		Type: Gilts, Label: "Gilts", Side: SideAsset,
	},
	Mortgages: {
		Type: Mortgages, Label: "Mortgages", Side: SideAsset,
		IsLoan: true, LoanBenchmark: LoanBenchmarkMortgage,
	},
	CorporateLoans: {
		Type: CorporateLoans, Label: "Corporate Loans", Side: SideAsset,
		IsLoan: true, LoanBenchmark: LoanBenchmarkCorporate,
	},
	ReverseRepo: {
		Type: ReverseRepo, Label: "Reverse Repo", Side: SideAsset,
	},
	RetailDeposits: {
		Type: RetailDeposits, Label: "Retail Deposits", Side: SideLiability,
		IsCustomerDep: true, DepositSegment: DepositSegmentRetail,
	},
	CorporateDeposits: {
		Type: CorporateDeposits, Label: "Corporate Deposits", Side: SideLiability,
		IsCustomerDep: true, DepositSegment: DepositSegmentCorporate,
	},
	WholesaleFundingST: {
		Type: WholesaleFundingST, Label: "Wholesale Funding (ST)", Side: SideLiability,
	},
	WholesaleFundingLT: {
		Type: WholesaleFundingLT, Label: "Wholesale Funding (LT)", Side: SideLiability,
	},
	RepurchaseAgreements: {
		Type: RepurchaseAgreements, Label: "Repurchase Agreements", Side: SideLiability,
	},
}

// All returns every product type in declaration order. Callers that
// need deterministic iteration (behavioural flows, cohort stepping)
// must use this instead of ranging over a map.
func All() []Type {
	out := make([]Type, 0, int(numTypes))
	for t := CashReserves; t < numTypes; t++ {
		out = append(out, t)
	}
	return out
}

// Loans returns the closed set of loan product types, in declaration order.
func Loans() []Type {
	out := make([]Type, 0, 2)
	for _, t := range All() {
		if MetaOf(t).IsLoan {
			out = append(out, t)
		}
	}
	return out
}

// MetaOf returns the fixed metadata for t. It panics if t is not a
// member of the closed enumeration, the same "this is a programmer
// error" posture the teacher takes for unknown instruments.
func MetaOf(t Type) Meta {
	m, ok := registry[t]
	if !ok {
		panic("product: unknown product type")
	}
	return m
}

// String returns the product's fixed label.
func (t Type) String() string {
	return MetaOf(t).Label
}

var byName = map[string]Type{
	"cashReserves":          CashReserves,
	"gilts":                 Gilts,
	"mortgages":             Mortgages,
	"corporateLoans":        CorporateLoans,
	"reverseRepo":           ReverseRepo,
	"retailDeposits":        RetailDeposits,
	"corporateDeposits":     CorporateDeposits,
	"wholesaleFundingST":    WholesaleFundingST,
	"wholesaleFundingLT":    WholesaleFundingLT,
	"repurchaseAgreements":  RepurchaseAgreements,
}

// ParseType maps a run-plan or config file's product name (the
// identifier form, not the display Label) back to its Type. Used by
// the ambient config/CLI layer wherever a product is named from
// outside the program (spec §6, config schema's product-keyed maps).
func ParseType(name string) (Type, error) {
	t, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("product: unknown product name %q", name)
	}
	return t, nil
}

// UnmarshalYAML lets Type be decoded directly from its identifier name
// in YAML config and run-plan files.
func (t *Type) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalYAML renders Type as its identifier name.
func (t Type) MarshalYAML() (interface{}, error) {
	for name, v := range byName {
		if v == t {
			return name, nil
		}
	}
	return nil, fmt.Errorf("product: unknown product type %d", int(t))
}
