package model

import "errors"

// Sentinel errors for the two failure classes the pipeline can report.
// Both are terminal for a run; there are no retryable conditions.
var (
	// ErrInvalidConfig indicates a generation profile or request that
	// cannot produce records (e.g., negative record count, inverted bounds)
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDivisionUndefined indicates a rate or average computed over an
	// empty denominator group
	ErrDivisionUndefined = errors.New("division undefined: empty denominator")
)
