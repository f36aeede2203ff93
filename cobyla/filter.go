package cobyla

// filterEntry is one retained (x, f, c, cv) candidate in a Filter. c
// holds the nonlinear constraint values measured at x (the same vector
// Simplex.C stores), not the combined linear+nonlinear residual.
type filterEntry struct {
	x  []float64
	f  float64
	c  []float64
	cv float64
}

// Filter is a capped collection of non-dominated (x, f, cv) candidates,
// per SPEC_FULL.md §3.2: entry b is dominated by entry a iff
// a.f <= b.f and a.cv <= b.cv with at least one strict. Best selects the
// entry with the least f among feasible entries (cv <= ctol); when none
// are feasible it selects the minimizer of f + cweight*(cv-ctol), which
// is not necessarily the least-infeasible entry.
// This is what Solve actually returns as Result.X/F/CV/Constr — the
// returned point need not be the final iterate, per the original's
// "CTOL is used only when selecting the returned X".
type Filter struct {
	cap     int
	entries []filterEntry
}

// NewFilter returns an empty Filter with the given capacity.
func NewFilter(capacity int) *Filter {
	return &Filter{cap: capacity}
}

func dominates(a, b filterEntry) bool {
	return a.f <= b.f && a.cv <= b.cv && (a.f < b.f || a.cv < b.cv)
}

// Add inserts (x, f, c, cv), discarding entries it dominates and
// skipping the insertion if an existing entry already dominates it. x
// and c are copied.
func (flt *Filter) Add(x []float64, f float64, c []float64, cv float64) {
	cand := filterEntry{x: append([]float64{}, x...), f: f, c: append([]float64{}, c...), cv: cv}

	for _, e := range flt.entries {
		if dominates(e, cand) {
			return
		}
	}

	kept := flt.entries[:0]
	for _, e := range flt.entries {
		if !dominates(cand, e) {
			kept = append(kept, e)
		}
	}
	flt.entries = append(kept, cand)

	if flt.cap > 0 && len(flt.entries) > flt.cap {
		flt.entries = flt.entries[1:]
	}
}

// Best returns the filter's preferred candidate under the given
// tolerance and constraint-violation weight, and whether any entry is
// present at all.
func (flt *Filter) Best(ctol, cweight float64) ([]float64, float64, []float64, float64, bool) {
	if len(flt.entries) == 0 {
		return nil, 0, nil, 0, false
	}

	bestIdx, bestScore := -1, 0.0
	feasibleSeen := false
	for i, e := range flt.entries {
		feasible := e.cv <= ctol
		if feasibleSeen && !feasible {
			continue
		}
		score := e.f + cweight*maxF64(0, e.cv-ctol)
		if !feasibleSeen && feasible {
			feasibleSeen = true
			bestIdx, bestScore = i, score
			continue
		}
		if bestIdx < 0 || score < bestScore {
			bestIdx, bestScore = i, score
		}
	}

	e := flt.entries[bestIdx]
	return e.x, e.f, e.c, e.cv, true
}

func maxF64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
