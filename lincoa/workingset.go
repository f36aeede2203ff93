// Package lincoa supplies the persisted active-set container that
// LINCOA's outer trust-region loop owns and passes into package getact
// as a warm start across successive inner sub-steps, per spec.md §3's
// GETACT-state lifecycle note and §9's design note on persisted
// cross-call state. It does not implement LINCOA's quadratic
// trust-region subproblem (truncated CG, model Hessian updates) — that
// outer loop is out of scope; this package only carries the state
// getact.Direction needs between calls.
package lincoa

import "github.com/zequipe/neupdfo/getact"

// WorkingSet is a persisted active-set container that survives across
// the successive inner calls a trust-region subproblem makes to GETACT,
// warm-starting each call from the previous one's working set rather
// than rebuilding Q, R and the active list from scratch.
type WorkingSet struct {
	state *getact.State
}

// NewWorkingSet allocates a WorkingSet for an n-dimensional problem with
// mtotal constraint normals, starting from an empty active set.
func NewWorkingSet(n, mtotal int) *WorkingSet {
	return &WorkingSet{state: getact.NewState(n, mtotal)}
}

// Reset clears the active set (Q back to the identity, R and every
// ResNew residual to zero, nact to zero; ResAct and VLam are left as they
// are) without reallocating, for reuse across outer
// iterations that should not warm-start from stale state.
func (w *WorkingSet) Reset() {
	n := w.state.N
	for i := range w.state.Q {
		w.state.Q[i] = 0
	}
	for i := 0; i < n; i++ {
		w.state.Q[i*n+i] = 1
	}
	for i := range w.state.R {
		w.state.R[i] = 0
	}
	w.state.NAct = 0
	for i := range w.state.ResNew {
		w.state.ResNew[i] = 0
	}
}

// Direction computes the projected descent direction for gradient g and
// trust radius delta against constraint normals a (n x mtotal,
// column-major), warm-starting from and updating the persisted working
// set.
func (w *WorkingSet) Direction(a, g []float64, delta float64, d []float64) {
	w.state.Direction(a, g, delta, d)
}

// Active returns the number of constraints currently in the working set
// and their original indices.
func (w *WorkingSet) Active() (nact int, iact []int) {
	return w.state.NAct, w.state.IAct[:w.state.NAct]
}

// SetResNew sets constraint j's "distance to activation" residual, the
// quantity GETACT's Stage C compares against tdel.
func (w *WorkingSet) SetResNew(j int, v float64) {
	w.state.ResNew[j] = v
}

// N reports the problem dimension and MTotal the number of constraint
// normals the WorkingSet was sized for.
func (w *WorkingSet) N() int      { return w.state.N }
func (w *WorkingSet) MTotal() int { return w.state.MTotal }

// QR exposes the persisted factorization for the debug-assertion checks
// of spec.md §7; callers must treat the returned slices as read-only.
func (w *WorkingSet) QR() (q, r []float64) {
	return w.state.Q, w.state.R
}
