package cobyla

// Merit computes φ(x;σ) = f(x) + σ·cv(x), the penalized objective COBYLA
// compares candidate steps against, per spec.md §4.5.
func Merit(f, cv, sigma float64) float64 {
	return f + sigma*cv
}

// UpdatePenalty raises sigma, never lowers it, just enough that the
// predicted objective-only reduction predObj remains credible against
// the feasibility gap the step is expected to close
// (cvOld - cvLinearized): spec.md §4.5 requires
// pred >= 0.5*sigma*max(cvOld-cvLinearized, 0).
func UpdatePenalty(sigma, predObj, cvOld, cvLinearized float64) float64 {
	gap := maxF64(cvOld-cvLinearized, 0)
	if gap <= 0 || predObj <= 0 {
		return sigma
	}
	need := 2 * predObj / gap
	return maxF64(sigma, need)
}

// Accept reports whether the candidate (fNew, cvNew) replaces the
// incumbent (fOld, cvOld) under penalty sigma: strictly lower merit, or
// a merit tie broken by strictly lower constraint violation.
func Accept(fOld, cvOld, fNew, cvNew, sigma float64) bool {
	mOld := Merit(fOld, cvOld, sigma)
	mNew := Merit(fNew, cvNew, sigma)
	if mNew < mOld {
		return true
	}
	return mNew == mOld && cvNew < cvOld
}
