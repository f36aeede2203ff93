package cobyla

import (
	"math"

	"github.com/zequipe/neupdfo/exitcode"
	"github.com/zequipe/neupdfo/lincoa"
	"github.com/zequipe/neupdfo/numeric"
)

// incumbent tracks the best finite evaluation seen so far, used only by
// the NaN-in-F abort path (fail, below): once a callback returns NaN or
// an untrustworthy value there is no simplex or filter state left to
// consult, so the last finite evaluation is the only thing left to
// return. Every normal exit instead goes through finishBest, which
// consults the filter and the simplex, per spec.md §6.
type incumbent struct {
	x  []float64
	f  float64
	c  []float64
	cv float64
	ok bool
}

func (inc *incumbent) update(x []float64, f float64, c []float64, cv float64) {
	inc.x = append([]float64{}, x...)
	inc.f = f
	inc.c = append([]float64{}, c...)
	inc.cv = cv
	inc.ok = true
}

// drive runs the COBYLB state machine of spec.md §4.7:
// INIT -> SIMPLEX_FILL -> MAIN_LOOP -> {GEOMETRY_STEP|TRUST_STEP} ->
// EVALUATE -> UPDATE_MODELS -> ACCEPT_OR_REJECT -> {MAIN_LOOP|SHRINK_RHO|TERMINATE}.
func drive(cb Callback, r resolved, x0 []float64) *Result {
	n, m := r.n, r.m

	if numeric.AnyNaN(x0) {
		return &Result{X: append([]float64{}, x0...), Info: exitcode.NaNInX}
	}

	hist := newHistory(r.maxhist)
	filter := NewFilter(r.maxfilt)
	inc := &incumbent{x: append([]float64{}, x0...)}

	simplex := NewSimplex(n, m)
	simplex.Lin = r.lin
	simplex.InitVertices(x0, r.rhoBeg)

	nf := 0
	constrBuf := make([]float64, m)

	fail := func() *Result {
		x, f, c, cv := inc.x, inc.f, inc.c, inc.cv
		if !inc.ok {
			x, f, c, cv = x0, math.NaN(), make([]float64, m), math.NaN()
		}
		return finish(hist, x, f, c, cv, nf, exitcode.NaNInF)
	}
	done := func(info exitcode.Code) *Result {
		return finishBest(hist, filter, simplex, x0, m, nf, info, r.ctol, r.cweight)
	}

	for k := 0; k <= n; k++ {
		var f float64
		var ok bool
		if k == 0 && r.hasF0 {
			f, ok = r.f0, true
			copy(constrBuf, r.constr0)
		} else {
			f, ok = evaluate(cb, simplex.X[k], constrBuf)
			nf++
		}
		if !ok {
			hist.record(simplex.X[k], f, constrBuf, math.NaN())
			return fail()
		}
		cv := simplex.violationAt(simplex.X[k], constrBuf)
		simplex.SetVertex(k, f, constrBuf)
		hist.record(simplex.X[k], f, constrBuf, cv)
		filter.Add(simplex.X[k], f, constrBuf, cv)
		inc.update(simplex.X[k], f, constrBuf, cv)
	}
	simplex.Kopt = bestVertex(simplex)

	rho := r.rhoBeg
	delta := r.rhoBeg
	sigma := 0.0
	ws := lincoa.NewWorkingSet(n, r.lin.MLin+m)

	for iter := 0; ; iter++ {
		if nf >= r.maxfun {
			return done(exitcode.MaxFunExhausted)
		}

		ws.Reset()

		kopt := simplex.Kopt
		fk, cvk := simplex.F[kopt], simplex.CV[kopt]
		if fk <= r.ftarget && cvk <= r.ctol {
			return done(exitcode.FTarget)
		}

		pivots, ok := simplex.BuildModels()
		if !ok {
			return done(exitcode.ZeroDenominator)
		}

		geometryThreshold := 0.1 * rho
		needGeometry := minAbs(pivots) < geometryThreshold

		a, resnew := buildCombined(r.lin, simplex)

		d := make([]float64, n)
		var pred float64
		if needGeometry {
			d, pred = geometryStep(simplex, pivots, delta)
		} else {
			objGrad := simplex.G[m*n : m*n+n]
			pred = TrustStep(ws, a, resnew, objGrad, delta, d)
		}

		if !needGeometry && pred <= 0 {
			if delta > rho {
				delta = maxF64(rho, 0.5*delta)
				continue
			}
			return done(exitcode.TrustStepFailed)
		}

		if !needGeometry && delta <= rho && damagingRounding(pred, fk) {
			return done(exitcode.DamagingRounding)
		}

		r.logger.Verbose("cobyla: iter=%d nf=%d rho=%g delta=%g fk=%g cvk=%g needGeometry=%v pred=%g\n",
			iter, nf, rho, delta, fk, cvk, needGeometry, pred)

		xnew := make([]float64, n)
		for i := 0; i < n; i++ {
			xnew[i] = simplex.X[kopt][i] + d[i]
		}

		f, ok := evaluate(cb, xnew, constrBuf)
		nf++
		if !ok {
			hist.record(xnew, f, constrBuf, math.NaN())
			return fail()
		}
		cvnew := simplex.violationAt(xnew, constrBuf)
		hist.record(xnew, f, constrBuf, cvnew)
		filter.Add(xnew, f, constrBuf, cvnew)
		inc.update(xnew, f, constrBuf, cvnew)

		ared := Merit(fk, cvk, sigma) - Merit(f, cvnew, sigma)
		cvLinearized := linearizedCV(a, resnew, d, n)
		sigma = UpdatePenalty(sigma, pred, cvk, cvLinearized)

		ratio := 0.0
		if pred > 0 {
			ratio = ared / pred
		}

		accepted := Accept(fk, cvk, f, cvnew, sigma)
		kdrop := simplex.DropVertex(pivots)
		if accepted {
			simplex.Kopt = kdrop
		}
		newPivots, ok := simplex.Replace(kdrop, xnew, f, constrBuf)
		if !ok {
			return done(exitcode.ZeroDenominator)
		}

		if needGeometry && delta <= rho && roundingPreventsChange(minAbs(pivots), minAbs(newPivots)) {
			return done(exitcode.RoundingPreventsChange)
		}

		r.logger.Iteration("cobyla: iter=%d nf=%d accepted=%v f=%g cv=%g ratio=%g sigma=%g\n",
			iter, nf, accepted, f, cvnew, ratio, sigma)

		if !needGeometry {
			delta = TrustRadius(delta, rho, r.rhoBeg, ratio, r.eta1, r.eta2)
		}

		if !accepted && !needGeometry && delta <= rho {
			if rho <= r.rhoEnd {
				return done(exitcode.RhoEnd)
			}
			rho = ShrinkRho(rho, r.rhoEnd, r.gamma2)
			delta = rho
		}
	}
}

func bestVertex(s *Simplex) int {
	best := 0
	for k := 1; k <= s.N; k++ {
		if betterVertex(s, k, best) {
			best = k
		}
	}
	return best
}

func betterVertex(s *Simplex, a, b int) bool {
	if s.CV[a] != s.CV[b] {
		return s.CV[a] < s.CV[b]
	}
	return s.F[a] < s.F[b]
}

func minAbs(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	m := math.Abs(v[0])
	for _, x := range v[1:] {
		if a := math.Abs(x); a < m {
			m = a
		}
	}
	return m
}

// geometryStep re-interpolates the worst-conditioned vertex by stepping
// a full trust radius along the coordinate direction its pivot is
// weakest on, restoring simplex affine independence per spec.md §4.7.
func geometryStep(s *Simplex, pivots []float64, delta float64) ([]float64, float64) {
	worst := 0
	worstVal := math.Abs(pivots[0])
	for i, v := range pivots {
		if a := math.Abs(v); a < worstVal {
			worstVal, worst = a, i
		}
	}
	j := worst % s.N
	d := make([]float64, s.N)
	d[j] = delta
	return d, 0
}

// buildCombined assembles the combined constraint-normal matrix and
// slack vector GETACT needs: the synthetic linear/bound block followed
// by the negated nonlinear constraint-model gradients, per SPEC_FULL.md
// §3.1 (no distinction is made between the two once combined). The same
// pair feeds linearizedCV below, so CV prediction uses exactly the
// constraint set GETACT steers against.
func buildCombined(lin LinearConstraints, s *Simplex) ([]float64, []float64) {
	n := lin.N
	mlin := lin.MLin
	m := s.M
	mtotal := mlin + m

	a := make([]float64, n*mtotal)
	resnew := make([]float64, mtotal)

	copy(a[:n*mlin], lin.Amat)
	lin.Residual(s.X[s.Kopt], resnew[:mlin])

	for i := 0; i < m; i++ {
		col := a[(mlin+i)*n : (mlin+i)*n+n]
		grad := s.G[i*n : i*n+n]
		for k := range col {
			col[k] = -grad[k]
		}
		resnew[mlin+i] = s.C[s.Kopt][i]
	}
	return a, resnew
}

// linearizedCV estimates the combined constraint violation the models
// predict after stepping by d from the incumbent, using the same
// (a, resnew) pair buildCombined hands to GETACT: column j of a is
// oriented so that moving along it decreases slack j uniformly for
// both the linear/bound block and the negated nonlinear gradients, so
// one formula covers both per SPEC_FULL.md §3.1.
func linearizedCV(a, resnew, d []float64, n int) float64 {
	cv := 0.0
	for j := 0; j < len(resnew); j++ {
		col := a[j*n : j*n+n]
		pred := resnew[j] - numeric.Dot(col, d)
		if v := -pred; v > cv {
			cv = v
		}
	}
	return cv
}

// roundingNoiseFloor is the magnitude below which a predicted reduction
// is indistinguishable from floating-point noise, scaled to the current
// function value the way the legacy solver scales its cancellation
// checks.
func roundingNoiseFloor(fval float64) float64 {
	const roundingFactor = 1e3 * epsMach
	return roundingFactor * maxF64(math.Abs(fval), 1)
}

// damagingRounding reports whether a nominally-positive predicted
// reduction is too small to trust: spec.md §4.7's "rounding damage
// detected" termination source, reached when the trust radius can no
// longer shrink (delta<=rho) and the model step promises only
// noise-level progress.
func damagingRounding(pred, fk float64) bool {
	return pred > 0 && pred < roundingNoiseFloor(fk)
}

// roundingPreventsChange reports whether a geometry step, whose entire
// purpose is to repair the simplex's worst conditioning pivot, left
// that pivot no better than before: spec.md §4.7's companion rounding
// termination source, checked only when delta has fallen to rho.
func roundingPreventsChange(oldWorst, newWorst float64) bool {
	return newWorst <= oldWorst*(1+1e3*epsMach)
}

// finishBest resolves the returned point per spec.md §6: the filter's
// preferred candidate, falling back to the simplex's current incumbent
// vertex only when the filter holds nothing (which cannot happen once
// any evaluation has succeeded, since every accepted evaluation feeds
// the filter too).
func finishBest(hist *history, filter *Filter, s *Simplex, x0 []float64, m, nf int, info exitcode.Code, ctol, cweight float64) *Result {
	if x, f, c, cv, ok := filter.Best(ctol, cweight); ok {
		return finish(hist, x, f, c, cv, nf, info)
	}
	if len(s.F) > 0 {
		k := s.Kopt
		return finish(hist, s.X[k], s.F[k], s.C[k], s.CV[k], nf, info)
	}
	return finish(hist, x0, math.NaN(), make([]float64, m), math.NaN(), nf, info)
}

func finish(h *history, x []float64, f float64, c []float64, cv float64, nf int, info exitcode.Code) *Result {
	res := &Result{
		X: x, F: f, Constr: c, CV: cv,
		NF: nf, Info: info,
	}
	res.XHist, res.FHist, res.ConHist, res.CVHist = h.x, h.f, h.c, h.cv
	return res
}
