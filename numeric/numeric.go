// Package numeric provides the floating-point vector/matrix primitives
// shared by the qr, getact and cobyla packages: inner products,
// matrix-vector products, norms, NaN/Inf guards, and the predicates used
// by the debug assertions in package cobyla.
package numeric

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Dot computes the inner product of x and y.
func Dot(x, y []float64) float64 {
	return floats.Dot(x, y)
}

// Norm2 computes the Euclidean norm of x.
func Norm2(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, 2)
}

// NormInf computes the infinity norm (max absolute value) of x.
// NormInf of an empty slice is 0, matching the convention in spec.md §4.2
// step 7 for the empty active set.
func NormInf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return floats.Norm(x, math.Inf(1))
}

// MatVec computes y = A*x for A stored column-major with ld rows per
// column (ld >= rows), reading only the first "cols" columns.
func MatVec(a []float64, ld, rows, cols int, x []float64, y []float64) {
	for i := 0; i < rows; i++ {
		y[i] = 0
	}
	for j := 0; j < cols; j++ {
		xj := x[j]
		if xj == 0 {
			continue
		}
		col := a[j*ld : j*ld+rows]
		for i, aij := range col {
			y[i] += aij * xj
		}
	}
}

// MatTVec computes y = Aᵀ*x for A stored column-major with ld rows per
// column, reading only the first "cols" columns; y has length cols.
func MatTVec(a []float64, ld, rows, cols int, x []float64, y []float64) {
	for j := 0; j < cols; j++ {
		y[j] = Dot(a[j*ld:j*ld+rows], x[:rows])
	}
}

// AnyNaN reports whether any element of x is NaN.
func AnyNaN(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// NearInfinite reports whether v's magnitude is so large that arithmetic
// on it is no longer trustworthy, matching the moderation threshold used
// by the legacy solver (a magnitude of at least a quarter of the maximum
// representable value is treated as practically infinite).
func NearInfinite(v float64) bool {
	const almostInf = 0.25 * math.MaxFloat64
	return math.IsInf(v, 0) || math.Abs(v) >= almostInf
}

// Grow returns a slice with capacity at least n, reusing buf's backing
// array when it is already large enough and zeroing the returned slice
// otherwise.
func Grow(buf []float64, n int) []float64 {
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// IsOrthogonal reports whether the n x n matrix Q (column-major, leading
// dimension n) is orthogonal within tol: ‖QᵀQ - I‖∞ <= tol.
func IsOrthogonal(q []float64, n int, tol float64) bool {
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			got := Dot(q[i*n:i*n+n], q[j*n:j*n+n])
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(got-want) > tol {
				return false
			}
		}
	}
	return true
}

// IsUpperTriangular reports whether the n x n matrix R (column-major,
// leading dimension ld) has all strictly-below-diagonal entries exactly
// zero for the leading "active" x "active" block.
func IsUpperTriangular(r []float64, ld, active int) bool {
	for j := 0; j < active; j++ {
		for i := j + 1; i < active; i++ {
			if r[j*ld+i] != 0 {
				return false
			}
		}
	}
	return true
}

// Tol computes the assertion tolerance spec.md §7 prescribes for GETACT's
// debug-mode orthogonality/triangularity checks: max(1e-10, min(0.1, 1e8*eps*(m+1))).
func Tol(m int) float64 {
	const eps = 2.220446049250313e-16
	return math.Max(1e-10, math.Min(0.1, 1e8*eps*float64(m+1)))
}
