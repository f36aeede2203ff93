package cobyla

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolveRejectsNilCallback(t *testing.T) {
	_, err := Solve(nil, []float64{0}, 0, Options{})
	assert.Error(t, err)
}

func TestSolveRejectsEmptyX0(t *testing.T) {
	cb := func(x []float64, constr []float64) float64 { return 0 }
	_, err := Solve(cb, nil, 0, Options{})
	assert.Error(t, err)
}

func TestSolveClampsRhoEndAboveRhoBeg(t *testing.T) {
	cb := func(x []float64, constr []float64) float64 { return 0 }
	res, err := Solve(cb, []float64{0}, 0, Options{RhoBeg: 1, RhoEnd: 10})
	assert.NoError(t, err)
	assert.NotNil(t, res)
	// RhoEnd above RhoBeg is clamped down rather than rejected outright.
}

// An unconstrained quadratic bowl, m=0, so TrustStep reduces to plain
// trust-region steepest descent with an empty working set.
func TestSolveUnconstrainedQuadraticConverges(t *testing.T) {
	target := []float64{1, 2}
	cb := func(x []float64, constr []float64) float64 {
		dx, dy := x[0]-target[0], x[1]-target[1]
		return dx*dx + dy*dy
	}
	res, err := Solve(cb, []float64{0, 0}, 0, Options{
		RhoBeg: 0.5,
		RhoEnd: 1e-7,
		MaxFun: 2000,
	})
	assert.NoError(t, err)
	assert.True(t, res.Info.Success(), "info=%s", res.Info)
	assert.InDelta(t, 0.0, res.F, 1e-4)
	assert.InDelta(t, target[0], res.X[0], 1e-2)
	assert.InDelta(t, target[1], res.X[1], 1e-2)
}

// A single linear inequality constraint x0 + x1 <= 1 pulls the
// unconstrained optimum at (1, 2) back onto the constraint boundary.
func TestSolveRespectsLinearInequality(t *testing.T) {
	target := []float64{1, 2}
	cb := func(x []float64, constr []float64) float64 {
		dx, dy := x[0]-target[0], x[1]-target[1]
		return dx*dx + dy*dy
	}
	res, err := Solve(cb, []float64{0, 0}, 0, Options{
		RhoBeg: 0.3,
		RhoEnd: 1e-6,
		MaxFun: 3000,
		Aineq:  [][]float64{{1, 1}},
		Bineq:  []float64{1},
	})
	assert.NoError(t, err)
	assert.LessOrEqual(t, res.X[0]+res.X[1], 1.0+1e-3)
}

// spec.md §8 scenario 2: a linear objective pulled onto a quadratic
// inequality constraint, exercised through the callback's constr slot
// rather than the linear/bound wrapper.
func TestSolveQuadraticConstraintScenario(t *testing.T) {
	cb := func(x []float64, constr []float64) float64 {
		constr[0] = 1 - x[0]*x[0] - x[1]*x[1]
		return -x[0] - x[1]
	}
	res, err := Solve(cb, []float64{0, 0}, 1, Options{
		RhoBeg: 0.5,
		RhoEnd: 1e-6,
		CTol:   1e-6,
		MaxFun: 3000,
	})
	assert.NoError(t, err)
	assert.True(t, res.Info.Success(), "info=%s", res.Info)
	want := 1 / math.Sqrt2
	assert.InDelta(t, want, res.X[0], 1e-3)
	assert.InDelta(t, want, res.X[1], 1e-3)
	assert.InDelta(t, -math.Sqrt2, res.F, 1e-3)
	assert.LessOrEqual(t, res.CV, 1e-6+1e-9)
}

// spec.md §8 scenario 3: an infeasible starting point with two
// nonlinear inequality constraints that pin the optimum away from the
// unconstrained minimizer.
func TestSolveInfeasibleStartScenario(t *testing.T) {
	cb := func(x []float64, constr []float64) float64 {
		constr[0] = x[0] - 2
		constr[1] = x[1] - 2
		return x[0]*x[0] + x[1]*x[1]
	}
	res, err := Solve(cb, []float64{0, 0}, 2, Options{
		RhoBeg: 0.5,
		RhoEnd: 1e-6,
		CTol:   1e-6,
		MaxFun: 3000,
	})
	assert.NoError(t, err)
	assert.LessOrEqual(t, res.CV, 1e-6+1e-9)
	assert.InDelta(t, 2.0, res.X[0], 1e-3)
	assert.InDelta(t, 2.0, res.X[1], 1e-3)
}

func TestSolveReportsNaNInFirstEvaluation(t *testing.T) {
	cb := func(x []float64, constr []float64) float64 { return math.NaN() }
	res, err := Solve(cb, []float64{0}, 0, Options{})
	assert.NoError(t, err)
	assert.Equal(t, 1, res.NF)
}

func TestSolveHonorsMaxFun(t *testing.T) {
	calls := 0
	cb := func(x []float64, constr []float64) float64 {
		calls++
		return x[0] * x[0]
	}
	res, err := Solve(cb, []float64{5}, 0, Options{MaxFun: 3})
	assert.NoError(t, err)
	assert.LessOrEqual(t, res.NF, 3)
}
