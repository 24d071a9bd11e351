package simplify

import "fmt"

// Reference thresholds. They are large enough that no finite candidate is
// ever rejected.
const (
	DefaultMaxDistanceSq     = 1e50
	DefaultMaxCost           = 1e50
	DefaultDegenerateEpsilon = 1e-12
)

// DegeneratePolicy selects how input triangles without a well-defined normal
// (zero or near-zero area) are treated.
type DegeneratePolicy int

const (
	// DegenerateZero gives such a triangle a zero face quadric. It stays in
	// the mesh but does not pull merged vertices toward any plane.
	DegenerateZero DegeneratePolicy = iota
	// DegenerateReject fails the call with ErrDegenerateTriangle.
	DegenerateReject
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateZero:
		return "zero"
	case DegenerateReject:
		return "reject"
	}
	return fmt.Sprintf("DegeneratePolicy(%d)", int(p))
}

// ParseDegeneratePolicy parses "zero" or "reject".
func ParseDegeneratePolicy(s string) (DegeneratePolicy, error) {
	switch s {
	case "", "zero":
		return DegenerateZero, nil
	case "reject":
		return DegenerateReject, nil
	}
	return 0, fmt.Errorf("unknown degenerate policy %q (use zero or reject)", s)
}

// Options tunes the simplifier. Non-positive numeric fields fall back to
// their defaults, so the zero Options behaves like DefaultOptions.
type Options struct {
	// MaxDistanceSq rejects candidate pairs whose squared distance is at or
	// above it. Zero or below means unset (DefaultMaxDistanceSq), not
	// "reject everything"; to forbid all collapses use a tiny positive value.
	MaxDistanceSq float64
	// MaxCost rejects candidates whose quadric error is at or above it.
	// Zero or below means unset (DefaultMaxCost).
	MaxCost float64

	Degenerate DegeneratePolicy
	// DegenerateEpsilon is the cross product length at or below which a
	// triangle counts as degenerate.
	DegenerateEpsilon float64
}

// DefaultOptions returns options matching the reference configuration.
func DefaultOptions() Options {
	return Options{
		MaxDistanceSq:     DefaultMaxDistanceSq,
		MaxCost:           DefaultMaxCost,
		Degenerate:        DegenerateZero,
		DegenerateEpsilon: DefaultDegenerateEpsilon,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if !(o.MaxDistanceSq > 0) {
		o.MaxDistanceSq = d.MaxDistanceSq
	}
	if !(o.MaxCost > 0) {
		o.MaxCost = d.MaxCost
	}
	if !(o.DegenerateEpsilon > 0) {
		o.DegenerateEpsilon = d.DegenerateEpsilon
	}
	return o
}
