package cobyla

import (
	"fmt"
	"math"

	"github.com/zequipe/neupdfo/internal/optutil"
)

// ArgumentError reports an invalid entry-time argument to Solve, in the
// style of the teacher's Problem.New validation (a named field plus a
// description, never a panic).
type ArgumentError struct {
	Field   string
	Problem string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("cobyla: invalid %s: %s", e.Field, e.Problem)
}

// BoundMax is the threshold beyond which a bound is treated as absent,
// matching the legacy solver's BOUNDMAX = 0.25*HUGE(X) convention.
const BoundMax = 0.25 * math.MaxFloat64

// Options carries every recognized tuning parameter of spec.md §6 plus
// the linear/bound constraint and selection-filter supplements of
// §3.1/§3.2.
type Options struct {
	RhoBeg float64
	RhoEnd float64

	FTarget float64
	CTol    float64

	MaxFun  int
	MaxHist int
	IPrint  int

	HasF0   bool
	F0      float64
	Constr0 []float64

	// Aineq/Bineq encode Aineq*x <= Bineq; each row of Aineq has length n.
	Aineq [][]float64
	Bineq []float64
	// Aeq/Beq encode Aeq*x = Beq.
	Aeq [][]float64
	Beq []float64

	XLower []float64
	XUpper []float64

	MaxFilt int
	CWeight float64

	Eta1, Eta2 float64
	Gamma2     float64

	Logger *optutil.Logger
}

// resolved holds Options after validation and defaulting, ready for the
// driver.
type resolved struct {
	n, m int

	rhoBeg, rhoEnd  float64
	ftarget, ctol   float64
	maxfun, maxhist int

	hasF0   bool
	f0      float64
	constr0 []float64

	lin LinearConstraints

	maxfilt int
	cweight float64

	eta1, eta2, gamma2 float64

	logger *optutil.Logger
}

const epsMach = 2.220446049250313e-16

func resolveOptions(n, m int, opts Options) (resolved, error) {
	var r resolved
	r.n = n

	if n < 1 {
		return r, &ArgumentError{"n", "dimension must be >= 1"}
	}

	if m < 0 {
		return r, &ArgumentError{"m", "must be >= 0"}
	}
	r.m = m

	rhobeg, rhoend := opts.RhoBeg, opts.RhoEnd
	switch {
	case rhobeg == 0 && rhoend == 0:
		rhobeg, rhoend = 1.0, 1e-6
	case rhobeg == 0:
		rhobeg = math.Max(10*rhoend, 1.0)
	case rhoend == 0:
		rhoend = math.Min(1e-6, 0.1*rhobeg)
	}
	if rhobeg <= 0 || !isFiniteNum(rhobeg) {
		return r, &ArgumentError{"RhoBeg", "must be finite and positive"}
	}
	if rhoend > rhobeg {
		rhoend = rhobeg
	}
	if rhoend < 0 {
		return r, &ArgumentError{"RhoEnd", "must be >= 0"}
	}
	r.rhoBeg, r.rhoEnd = rhobeg, rhoend

	r.ftarget = opts.FTarget
	if r.ftarget == 0 {
		r.ftarget = math.Inf(-1)
	}

	ctol := opts.CTol
	if ctol == 0 {
		ctol = math.Sqrt(epsMach)
	}
	r.ctol = ctol

	maxfun := opts.MaxFun
	if maxfun <= 0 {
		maxfun = 500 * n
	}
	r.maxfun = maxfun

	maxhist := opts.MaxHist
	if maxhist <= 0 {
		maxhist = maxfun
	}
	r.maxhist = maxhist

	r.hasF0 = opts.HasF0
	r.f0 = opts.F0
	r.constr0 = opts.Constr0

	lin, err := buildLinearConstraints(n, opts)
	if err != nil {
		return r, err
	}
	r.lin = lin

	maxfilt := opts.MaxFilt
	if maxfilt <= 0 {
		maxfilt = 2000
	}
	r.maxfilt = maxfilt

	cweight := opts.CWeight
	if cweight == 0 {
		cweight = 1e8
	}
	r.cweight = cweight

	eta1, eta2 := opts.Eta1, opts.Eta2
	switch {
	case eta1 == 0 && eta2 == 0:
		eta1, eta2 = 0.1, 0.7
	case eta1 == 0:
		eta1 = math.Min(0.1, eta2/7)
	case eta2 == 0:
		eta2 = math.Max(0.7, 7*eta1)
	}
	r.eta1, r.eta2 = eta1, eta2

	gamma2 := opts.Gamma2
	if gamma2 == 0 {
		gamma2 = 0.5
	}
	r.gamma2 = gamma2

	// IPrint, the Fortran-style verbosity level, maps onto the logger's
	// own Level: a caller-supplied Logger's level is overridden by a
	// nonzero IPrint, and IPrint alone is enough to get a default
	// stderr-writing Logger without constructing one explicitly.
	r.logger = opts.Logger
	if opts.IPrint != 0 {
		lvl := optutil.Level(opts.IPrint)
		if r.logger == nil {
			r.logger = optutil.NewLogger(lvl)
		} else {
			r.logger.Level = lvl
		}
	}

	return r, nil
}

func isFiniteNum(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
