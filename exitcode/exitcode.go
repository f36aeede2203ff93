// Package exitcode defines the closed set of termination codes the
// solver driver can report, mirroring the enum idiom used by the
// teacher's sqpMode and iterTask types: named integer constants plus a
// String method for diagnostics.
package exitcode

import "fmt"

// Code is a closed enum of solver termination reasons.
type Code int

const (
	// RhoEnd means the trust radius reached its lower bound, the normal
	// convergence exit.
	RhoEnd Code = 0
	// FTarget means the objective reached the caller's target value.
	FTarget Code = 1
	// TrustStepFailed means the trust-region step computation failed to
	// produce a usable step.
	TrustStepFailed Code = 2
	// MaxFunExhausted means the evaluation budget ran out.
	MaxFunExhausted Code = 3
	// DenominatorCancellation means a model-update denominator suffered
	// catastrophic cancellation.
	DenominatorCancellation Code = 4
	// NPTOutOfRange means the interpolation-set size argument was invalid.
	NPTOutOfRange Code = 5
	// BoundGap means a bound pair left no feasible gap.
	BoundGap Code = 6
	// DamagingRounding means rounding error has corrupted the trust-region
	// ratio beyond recovery.
	DamagingRounding Code = 7
	// RoundingPreventsChange means rounding error stalled the simplex
	// update with no progress possible.
	RoundingPreventsChange Code = 8
	// ZeroDenominator means a model-update denominator is exactly zero.
	ZeroDenominator Code = 9
	// DimensionTooSmall means n < 2.
	DimensionTooSmall Code = 10
	// MaxFunTooSmall means maxfun < npt+1.
	MaxFunTooSmall Code = 11
	// ZeroConstraintGradient means a constraint gradient vanished at the
	// current iterate.
	ZeroConstraintGradient Code = 12
	// NaNInX means the caller's starting point contains NaN.
	NaNInX Code = -1
	// NaNInF means the objective/constraint callback returned NaN or a
	// value too large to trust.
	NaNInF Code = -2
)

var names = map[Code]string{
	RhoEnd:                  "rho_end reached",
	FTarget:                 "target objective reached",
	TrustStepFailed:         "trust-region step computation failed",
	MaxFunExhausted:         "evaluation budget exhausted",
	DenominatorCancellation: "model-update denominator cancellation",
	NPTOutOfRange:           "npt out of range",
	BoundGap:                "bound pair leaves no feasible gap",
	DamagingRounding:        "rounding error damaged trust-region ratio",
	RoundingPreventsChange:  "rounding error prevents further change",
	ZeroDenominator:         "zero model-update denominator",
	DimensionTooSmall:       "dimension n < 2",
	MaxFunTooSmall:          "maxfun smaller than npt+1",
	ZeroConstraintGradient:  "zero constraint gradient",
	NaNInX:                  "NaN in starting point x",
	NaNInF:                  "NaN or near-infinite function value",
}

// String implements fmt.Stringer.
func (c Code) String() string {
	if s, ok := names[c]; ok {
		return s
	}
	return fmt.Sprintf("exitcode.Code(%d)", int(c))
}

// Success reports whether c represents a normal, usable result (the two
// convergence exits, not a hard failure).
func (c Code) Success() bool {
	return c == RhoEnd || c == FTarget
}
