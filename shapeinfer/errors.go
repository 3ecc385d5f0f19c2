package shapeinfer

import "github.com/pkg/errors"

// The error kinds reported by the engine. Every returned error wraps exactly one of these,
// so callers can classify failures with errors.Is while the message carries the offending
// ranks, values and axis.
var (
	// ErrRankMismatch: two shapes (or a shape and an asserted rank) have different known
	// ranks. Returned by WithRank and friends, Merge and Subshape.
	ErrRankMismatch = errors.New("rank mismatch")

	// ErrDimensionMismatch: two dimensions have different known values. Returned by
	// WithValue, MergeDims and Merge; for Merge the message names the conflicting axis.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidArgument: malformed call parameters, e.g. a negative Subshape start or a
	// constant shape tensor of the wrong rank or element type.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParse: a malformed textual shape spec.
	ErrParse = errors.New("invalid shape spec")
)
