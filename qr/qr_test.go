package qr

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func identity(n int) []float64 {
	q := make([]float64, n*n)
	for i := 0; i < n; i++ {
		q[i*n+i] = 1
	}
	return q
}

// matmul computes C = A*B for n x n column-major matrices.
func matmul(a, b []float64, n int) []float64 {
	c := make([]float64, n*n)
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			bkj := b[j*n+k]
			if bkj == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				c[j*n+i] += a[k*n+i] * bkj
			}
		}
	}
	return c
}

func TestAddBuildsOrthogonalFactorization(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	const n = 5

	q := identity(n)
	r := make([]float64, n*n)
	a := make([]float64, n*n)
	y := make([]float64, n)

	for k := 0; k < n; k++ {
		col := make([]float64, n)
		for i := range col {
			col[i] = rng.NormFloat64()
		}
		copy(a[k*n:k*n+n], col)
		Add(q, r, n, k, col, y)
	}

	tol := 1e-9
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			dot := 0.0
			for k := 0; k < n; k++ {
				dot += q[i*n+k] * q[j*n+k]
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDeltaf(t, want, dot, tol, "Q not orthogonal at (%d,%d)", i, j)
		}
	}

	for j := 0; j < n; j++ {
		for i := j + 1; i < n; i++ {
			assert.InDeltaf(t, 0, r[j*n+i], tol, "R not upper triangular at (%d,%d)", i, j)
		}
		assert.GreaterOrEqualf(t, r[j*n+j], 0.0, "R diagonal entry %d is negative", j)
	}

	qr := matmul(q, r, n)
	for i := range qr {
		assert.InDelta(t, a[i], qr[i], tol)
	}
}

func TestExchangeIsNoOpAtLastPosition(t *testing.T) {
	const n = 4
	q := identity(n)
	r := make([]float64, n*n)
	y := make([]float64, n)
	for k := 0; k < n; k++ {
		col := make([]float64, n)
		col[k] = float64(k + 1)
		Add(q, r, n, k, col, y)
	}
	rBefore := append([]float64{}, r...)
	Exchange(q, r, n, n, n-1)
	assert.Equal(t, rBefore, r)
}

func TestExchangePreservesFactorizationUpToColumnOrder(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	const n = 4

	q := identity(n)
	r := make([]float64, n*n)
	y := make([]float64, n)
	cols := make([][]float64, n)
	for k := 0; k < n; k++ {
		col := make([]float64, n)
		for i := range col {
			col[i] = rng.NormFloat64()
		}
		cols[k] = col
		Add(q, r, n, k, col, y)
	}

	Exchange(q, r, n, n, 1)

	qr := matmul(q, r, n)
	tol := 1e-9
	// column 1's original content now occupies the last position.
	for i := 0; i < n; i++ {
		assert.InDelta(t, cols[1][i], qr[(n-1)*n+i], tol)
	}

	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			dot := 0.0
			for k := 0; k < n; k++ {
				dot += q[i*n+k] * q[j*n+k]
			}
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDeltaf(t, want, dot, tol, "Q not orthogonal after exchange at (%d,%d)", i, j)
		}
	}
	for j := 0; j < n; j++ {
		for i := j + 1; i < n; i++ {
			assert.InDeltaf(t, 0, r[j*n+i], tol, "R not upper triangular after exchange at (%d,%d)", i, j)
		}
	}
}

func TestGivensZeroesSecondComponent(t *testing.T) {
	c, s, r := givens(3, 4)
	x, y := rotate(c, s, 3, 4)
	assert.InDelta(t, r, x, 1e-12)
	assert.InDelta(t, 0, y, 1e-12)
	assert.InDelta(t, 1, c*c+s*s, 1e-12)
	assert.True(t, !math.IsNaN(r))
}
