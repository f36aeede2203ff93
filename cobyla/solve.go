package cobyla

// Solve runs COBYLA on cb starting from x0, subject to m nonlinear
// constraints and the linear/bound constraints and tuning parameters in
// opts, following SPEC_FULL.md §6.2's option-defaulting cascade.
//
// x0 is read only; the solution is returned in Result.X, never written
// back into x0. Argument violations fail immediately with a non-nil
// error; runtime outcomes are never returned as an error, only through
// Result.Info, per spec.md §7.
func Solve(cb Callback, x0 []float64, m int, opts Options) (*Result, error) {
	if cb == nil {
		return nil, &ArgumentError{"cb", "callback must not be nil"}
	}
	if len(x0) == 0 {
		return nil, &ArgumentError{"x0", "must have length >= 1"}
	}

	r, err := resolveOptions(len(x0), m, opts)
	if err != nil {
		return nil, err
	}

	res := drive(cb, r, x0)

	if r.logger != nil {
		r.logger.Summary("cobyla: nf=%d info=%s f=%g cv=%g\n", res.NF, res.Info, res.F, res.CV)
	}

	return res, nil
}
