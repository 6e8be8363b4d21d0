package cohort

import "errors"

// ErrMissingCashLine is returned by Originate when the bank state has
// no CashReserves balance-sheet line to fund the loan from (spec §4.2,
// §7 "data-model preconditions").
var ErrMissingCashLine = errors.New("cohort: no CashReserves line on the balance sheet")
