package getact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionEmptyWorkingSet(t *testing.T) {
	const n = 2
	s := NewState(n, 0)
	g := []float64{-1, -1}
	d := make([]float64, n)

	s.Direction(nil, g, 1.0, d)

	assert.Equal(t, 0, s.NAct)
	assert.InDelta(t, 1.0, d[0], 1e-12)
	assert.InDelta(t, 1.0, d[1], 1e-12)
}

// TestDirectionActivatesBindingBounds walks through n=3, two constraint
// normals e1 and e2 (as from lower bounds x1>=0, x2>=0 linearized at a
// point where both are nearly binding), an empty working set, and a
// gradient pointing into both bounds plus a free third coordinate. The
// descent direction should end up confined to the one coordinate neither
// constraint restricts.
func TestDirectionActivatesBindingBounds(t *testing.T) {
	const n = 3
	const m = 2

	a := []float64{
		1, 0, 0,
		0, 1, 0,
	}

	s := NewState(n, m)
	s.ResNew[0] = 0.1
	s.ResNew[1] = 0.1

	g := []float64{-1, -1, -1}
	d := make([]float64, n)

	s.Direction(a, g, 1.0, d)

	assert.Equal(t, 2, s.NAct)
	assert.ElementsMatch(t, []int{0, 1}, s.IAct[:s.NAct])
	assert.InDelta(t, 0, d[0], 1e-9)
	assert.InDelta(t, 0, d[1], 1e-9)
	assert.InDelta(t, 1, d[2], 1e-9)
}

func TestDirectionReturnsZeroAtVertex(t *testing.T) {
	const n = 2
	const m = 2

	a := []float64{
		1, 0,
		0, 1,
	}
	s := NewState(n, m)
	s.IAct[0], s.IAct[1] = 0, 1
	s.NAct = 2
	s.Q[0], s.Q[1], s.Q[2], s.Q[3] = 1, 0, 0, 1
	s.R[0], s.R[1], s.R[2], s.R[3] = 1, 0, 0, 1
	s.ResAct[0], s.ResAct[1] = 0, 0
	s.VLam[0], s.VLam[1] = -1, -1

	g := []float64{-1, -1}
	d := make([]float64, n)
	s.Direction(a, g, 1.0, d)

	assert.Equal(t, 2, s.NAct)
	assert.InDelta(t, 0, d[0], 1e-12)
	assert.InDelta(t, 0, d[1], 1e-12)
}
