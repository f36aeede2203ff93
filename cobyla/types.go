// Package cobyla implements Powell's COBYLA algorithm: derivative-free
// minimization of a scalar objective subject to inequality constraints,
// using linear interpolation models maintained on an n+1-vertex simplex
// and a Byrd-Omojokun-style trust-region step. The active-set direction
// finding inside the trust-region step is delegated to package getact.
package cobyla

import "github.com/zequipe/neupdfo/exitcode"

// Callback evaluates the objective and the m nonlinear constraints at x.
// It must be pure and synchronous; it may return NaN or an infinite
// value, which Solve guards against. constr has length m and is filled
// with cᵢ(x) such that feasibility means constr[i] >= 0 for all i.
type Callback func(x []float64, constr []float64) (f float64)

// Result is the outcome of a Solve call.
type Result struct {
	X      []float64
	F      float64
	CV     float64
	Constr []float64

	NF   int
	Info exitcode.Code

	XHist   [][]float64
	FHist   []float64
	ConHist [][]float64
	CVHist  []float64
}
