package qr

import "math"

// givens computes the 2x2 rotation matrix G = [[c, s], [-s, c]] such that
// G*[a,b]ᵀ = [r,0]ᵀ.
//
// Adapted from the Lawson-Hanson g1 rotation-construction primitive
// (slsqp/tool.go in the teacher package), repurposed here for the
// incremental QR column updates of spec.md §4.1 instead of least-squares
// row reduction.
func givens(a, b float64) (c, s, r float64) {
	var xr, yr float64
	switch xa, xb := math.Abs(a), math.Abs(b); {
	case xa > xb:
		xr = b / a
		yr = math.Sqrt(1 + xr*xr)
		c = math.Copysign(1/yr, a)
		s = c * xr
		r = xa * yr
	case xb > 0:
		xr = a / b
		yr = math.Sqrt(1 + xr*xr)
		s = math.Copysign(1/yr, b)
		c = s * xr
		r = xb * yr
	default:
		c = 1
	}
	return
}

// rotate applies G = [[c, s], [-s, c]] to the column vector [x, y]ᵀ.
func rotate(c, s, x, y float64) (xr, yr float64) {
	return c*x + s*y, -s*x + c*y
}
