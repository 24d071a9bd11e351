package simplify

import "errors"

var (
	// ErrInvalidRatio is returned when the removal ratio is outside [0, 1).
	ErrInvalidRatio = errors.New("ratio must be in [0, 1)")

	// ErrDegenerateTriangle is returned under DegenerateReject when an input
	// triangle has no well-defined normal.
	ErrDegenerateTriangle = errors.New("degenerate triangle")
)
