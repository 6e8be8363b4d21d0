package market

import "errors"

// errNonPositiveDefinite is wrapped into cholInitErr if the factor
// covariance matrix cannot be Cholesky-factored even after jitter
// retries.
var errNonPositiveDefinite = errors.New("market: factor covariance is not positive definite after jitter retries")

// ErrCoreUnavailable is returned by Advance if the package's one-time
// Cholesky initialisation failed; per spec §5, the module must then
// refuse to execute any step.
var ErrCoreUnavailable = errors.New("market: macro-market model unavailable, Cholesky initialisation failed")
