// Package qr implements the incremental QR factorization kernel used by
// package getact to maintain the working-set factorization Q*R through
// Goldfarb-Idnani rank-one column updates, per spec.md §4.1. Both Add and
// Exchange operate in place on Q and R, which are n x n, column-major
// (leading dimension n).
package qr

import "github.com/zequipe/neupdfo/numeric"

// Add augments the factorization so that [A | c] = Q'*R' with k' = k+1,
// where A = Q*R[:, :k]. It zeros y[k+1:n] (y = Qᵀc) by a sequence of
// Givens rotations applied to rows k+1..n-1 of R's existing columns and
// the corresponding columns of Q, then stores y[:k+1] as the new column k
// of R, flipping its sign (and the matching column of Q) so that
// R[k,k] > 0. Returns the new active-column count k+1.
//
// No failure modes: a degenerate addition (near-singular new column) is
// tolerated by downstream consumers, per spec.md §4.1.
func Add(q, r []float64, n, k int, c []float64, y []float64) int {
	numeric.MatTVec(q, n, n, n, c, y)

	for i := n - 1; i > k; i-- {
		a, b := y[i-1], y[i]
		cs, sn, sig := givens(a, b)
		y[i-1], y[i] = sig, 0

		for col := 0; col < k; col++ {
			ra, rb := r[col*n+i-1], r[col*n+i]
			r[col*n+i-1], r[col*n+i] = rotate(cs, sn, ra, rb)
		}
		for row := 0; row < n; row++ {
			qa, qb := q[(i-1)*n+row], q[i*n+row]
			q[(i-1)*n+row], q[i*n+row] = rotate(cs, sn, qa, qb)
		}
	}

	copy(r[k*n:k*n+k+1], y[:k+1])

	if y[k] < 0 {
		r[k*n+k] = -r[k*n+k]
		col := q[k*n : k*n+n]
		for i := range col {
			col[i] = -col[i]
		}
	}

	return k + 1
}

// Exchange cyclically shifts the ic-th active column of [Q,R]'s working
// set to position nact-1 via adjacent column swaps, each restored to
// upper-triangular form by a single Givens rotation, per spec.md §4.1.
// No-op when ic == nact-1. Only the leading nact columns of R (the
// active block) are touched.
func Exchange(q, r []float64, n, nact, ic int) {
	if ic == nact-1 {
		return
	}
	for j := ic; j < nact-1; j++ {
		for row := 0; row < n; row++ {
			a, b := r[j*n+row], r[(j+1)*n+row]
			r[j*n+row], r[(j+1)*n+row] = b, a
		}

		a, b := r[j*n+j], r[j*n+j+1]
		cs, sn, sig := givens(a, b)
		r[j*n+j], r[j*n+j+1] = sig, 0

		for col := j + 1; col < nact; col++ {
			x, y := r[col*n+j], r[col*n+j+1]
			r[col*n+j], r[col*n+j+1] = rotate(cs, sn, x, y)
		}
		for row := 0; row < n; row++ {
			x, y := q[j*n+row], q[(j+1)*n+row]
			q[j*n+row], q[(j+1)*n+row] = rotate(cs, sn, x, y)
		}
	}
}
