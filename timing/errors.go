package timing

import "errors"

// Error classes shared by the timing packages. Errors returned by the
// subpackages wrap exactly one of these, so callers can branch with
// [errors.Is].
var (
	// ErrData marks malformed or insufficient samples.
	ErrData = errors.New("invalid sample data")

	// ErrConfig marks an invalid frequency grid, normalization, or option.
	ErrConfig = errors.New("invalid configuration")

	// ErrDegenerate marks input for which the periodogram is undefined,
	// e.g. a zero-variance series.
	ErrDegenerate = errors.New("degenerate data")

	// ErrRange marks a query outside the computable domain, e.g. a FAP
	// level outside (0, 1) or a frequency outside the evaluated grid.
	ErrRange = errors.New("value out of range")
)
