package cobyla

import (
	"math"

	"github.com/zequipe/neupdfo/numeric"
)

// history is the append-only evaluation record, allocated to capacity
// once and never reallocated mid-loop, per spec.md §5's resource policy.
type history struct {
	cap int

	x  [][]float64
	f  []float64
	c  [][]float64
	cv []float64
}

func newHistory(capacity int) *history {
	return &history{
		cap: capacity,
		x:   make([][]float64, 0, capacity),
		f:   make([]float64, 0, capacity),
		c:   make([][]float64, 0, capacity),
		cv:  make([]float64, 0, capacity),
	}
}

func (h *history) record(x []float64, f float64, c []float64, cv float64) {
	if h.cap > 0 && len(h.f) >= h.cap {
		return
	}
	h.x = append(h.x, append([]float64{}, x...))
	h.f = append(h.f, f)
	h.c = append(h.c, append([]float64{}, c...))
	h.cv = append(h.cv, cv)
}

// evaluate invokes cb at x, guarding against a misbehaving callback
// (panic-recover, mirroring the teacher's recover-to-error pattern in
// sqpSolver's evaluation path) and against non-finite outputs. ok is
// false when the evaluation should be treated as a NaNInF termination.
func evaluate(cb Callback, x []float64, constr []float64) (f float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			f = math.NaN()
			ok = false
		}
	}()
	f = cb(x, constr)
	if !numeric.IsFinite(f) || numeric.NearInfinite(f) || numeric.AnyNaN(constr) {
		return f, false
	}
	return f, true
}
