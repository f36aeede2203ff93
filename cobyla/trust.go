package cobyla

import (
	"github.com/zequipe/neupdfo/lincoa"
	"github.com/zequipe/neupdfo/numeric"
)

// TrustStep computes the trust-region step per spec.md §4.4: a
// Byrd-Omojokun-style two-phase procedure built on package getact's
// active-set direction finder (shared through the persisted working set
// ws, matching spec.md §9's note that the QR kernel and the active-set
// engine are the one piece of code COBYLA and LINCOA-GETACT share).
//
// a is the combined constraint-normal matrix (n x mtotal, column-major,
// leading dimension n) oriented so that moving along column j increases
// constraint j's violation. resnew holds each constraint's current
// slack (bvec - Amat*x for the synthetic linear/bound block, the
// observed cᵢ(X[kopt]) for the nonlinear block). objGrad is the
// objective model's gradient at the incumbent.
//
// Phase one moves to reduce the violation of any currently-infeasible
// constraint; phase two then descends the objective within whatever
// working set phase one activated. The combined step is clipped to
// ‖d‖ <= delta. Returns the non-negative predicted objective-model
// reduction along d.
func TrustStep(ws *lincoa.WorkingSet, a []float64, resnew []float64, objGrad []float64, delta float64, d []float64) float64 {
	n := len(d)
	mtotal := len(resnew)

	for j := 0; j < mtotal; j++ {
		ws.SetResNew(j, resnew[j])
	}

	g1 := make([]float64, n)
	for j := 0; j < mtotal; j++ {
		if resnew[j] < 0 {
			col := a[j*n : j*n+n]
			for i := range g1 {
				g1[i] += col[i]
			}
		}
	}

	d1 := make([]float64, n)
	if numeric.Dot(g1, g1) > 0 {
		ws.Direction(a, g1, delta, d1)
		if DebugAssertions {
			nact, iact := ws.Active()
			q, r := ws.QR()
			checkWorkingSet(q, r, n, nact, iact, mtotal)
		}
	}

	d2 := make([]float64, n)
	ws.Direction(a, objGrad, delta, d2)
	if DebugAssertions {
		nact, iact := ws.Active()
		q, r := ws.QR()
		checkWorkingSet(q, r, n, nact, iact, mtotal)
	}

	for i := 0; i < n; i++ {
		d[i] = d1[i] + d2[i]
	}

	if norm := numeric.Norm2(d); norm > delta && norm > 0 {
		scale := delta / norm
		for i := range d {
			d[i] *= scale
		}
	}

	pred := -numeric.Dot(objGrad, d)
	if pred < 0 {
		pred = 0
	}
	return pred
}
