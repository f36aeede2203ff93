package cobyla

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLinearConstraintsFromBounds(t *testing.T) {
	opts := Options{
		XLower: []float64{0, -BoundMax},
		XUpper: []float64{1, BoundMax},
	}
	lc, err := buildLinearConstraints(2, opts)
	assert.NoError(t, err)
	// Only the finite bounds (x0 >= 0, x0 <= 1) become rows; the
	// BoundMax-magnitude entries for x1 are treated as unbounded.
	assert.Equal(t, 2, lc.MLin)

	resid := make([]float64, lc.MLin)
	lc.Residual([]float64{0.5, 100}, resid)
	for _, r := range resid {
		assert.GreaterOrEqual(t, r, 0.0)
	}

	resid2 := make([]float64, lc.MLin)
	lc.Residual([]float64{-1, 100}, resid2)
	assert.Less(t, resid2[0], 0.0)
}

func TestBuildLinearConstraintsFromEquality(t *testing.T) {
	opts := Options{
		Aeq: [][]float64{{1, 1}},
		Beq: []float64{3},
	}
	lc, err := buildLinearConstraints(2, opts)
	assert.NoError(t, err)
	assert.Equal(t, 2, lc.MLin) // one equality becomes two opposed inequalities

	resid := make([]float64, lc.MLin)
	lc.Residual([]float64{1, 2}, resid)
	for _, r := range resid {
		assert.InDelta(t, 0.0, r, 1e-12)
	}

	resid2 := make([]float64, lc.MLin)
	lc.Residual([]float64{1, 1}, resid2)
	assert.True(t, resid2[0] < 0 || resid2[1] < 0)
}

func TestBuildLinearConstraintsFromInequality(t *testing.T) {
	opts := Options{
		Aineq: [][]float64{{1, 0}},
		Bineq: []float64{5},
	}
	lc, err := buildLinearConstraints(2, opts)
	assert.NoError(t, err)
	assert.Equal(t, 1, lc.MLin)

	resid := make([]float64, lc.MLin)
	lc.Residual([]float64{4, 0}, resid)
	assert.InDelta(t, 1.0, resid[0], 1e-12)
}

func TestBuildLinearConstraintsRejectsMismatchedLengths(t *testing.T) {
	_, err := buildLinearConstraints(2, Options{XLower: []float64{0}})
	assert.Error(t, err)

	_, err = buildLinearConstraints(2, Options{Aeq: [][]float64{{1, 1}}})
	assert.Error(t, err)

	_, err = buildLinearConstraints(2, Options{Aineq: [][]float64{{1, 1}}})
	assert.Error(t, err)
}
