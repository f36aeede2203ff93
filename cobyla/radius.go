package cobyla

// TrustRadius applies spec.md §4.6's inner-radius update: delta doubles
// on a very successful step (ratio > eta2), halves on an unsuccessful
// one (ratio < eta1), and is always clipped to [rho, rhobeg].
func TrustRadius(delta, rho, rhobeg, ratio, eta1, eta2 float64) float64 {
	switch {
	case ratio > eta2:
		delta *= 2
	case ratio < eta1:
		delta *= 0.5
	}
	if delta < rho {
		delta = rho
	}
	if delta > rhobeg {
		delta = rhobeg
	}
	return delta
}

// ShrinkRho implements the outer-radius geometric shrink
// rho <- max(rhoend, gamma2*rho), gamma2 = 0.5 by default.
func ShrinkRho(rho, rhoend, gamma2 float64) float64 {
	return maxF64(rhoend, gamma2*rho)
}
