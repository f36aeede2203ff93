package cobyla

// LinearConstraints is the pre-processing layer that wraps box bounds,
// linear equalities and linear inequalities into a single block
// `Amat*x <= Bvec`, prepended as synthetic constraints ahead of the m
// nonlinear constraints the callback evaluates. Amat is stored
// column-major with leading dimension n, matching the rest of the
// module's matrix convention.
type LinearConstraints struct {
	N    int
	MLin int
	Amat []float64
	Bvec []float64
}

// Residual returns Bvec - Amat^T*x, the slack of every synthetic
// constraint at x (negative entries are violations).
func (l LinearConstraints) Residual(x []float64, out []float64) {
	for j := 0; j < l.MLin; j++ {
		dot := 0.0
		col := l.Amat[j*l.N : j*l.N+l.N]
		for i, a := range col {
			dot += a * x[i]
		}
		out[j] = l.Bvec[j] - dot
	}
}

// buildLinearConstraints implements SPEC_FULL.md §3.1: bounds become two
// one-sided inequalities per bounded variable, equalities become two
// opposed inequalities, and the whole block is concatenated with
// Aineq*x <= Bineq.
func buildLinearConstraints(n int, opts Options) (LinearConstraints, error) {
	var rows [][]float64
	var rhs []float64

	addRow := func(a []float64, b float64) {
		rows = append(rows, a)
		rhs = append(rhs, b)
	}

	if opts.XLower != nil {
		if len(opts.XLower) != n {
			return LinearConstraints{}, &ArgumentError{"XLower", "length must equal n"}
		}
		for i, lo := range opts.XLower {
			if lo <= -BoundMax {
				continue
			}
			row := make([]float64, n)
			row[i] = -1
			addRow(row, -lo)
		}
	}
	if opts.XUpper != nil {
		if len(opts.XUpper) != n {
			return LinearConstraints{}, &ArgumentError{"XUpper", "length must equal n"}
		}
		for i, up := range opts.XUpper {
			if up >= BoundMax {
				continue
			}
			row := make([]float64, n)
			row[i] = 1
			addRow(row, up)
		}
	}

	for k, row := range opts.Aeq {
		if len(row) != n {
			return LinearConstraints{}, &ArgumentError{"Aeq", "every row must have length n"}
		}
		if k >= len(opts.Beq) {
			return LinearConstraints{}, &ArgumentError{"Beq", "must have one entry per row of Aeq"}
		}
		neg := make([]float64, n)
		for i, v := range row {
			neg[i] = -v
		}
		addRow(neg, -opts.Beq[k])
		addRow(append([]float64{}, row...), opts.Beq[k])
	}

	for k, row := range opts.Aineq {
		if len(row) != n {
			return LinearConstraints{}, &ArgumentError{"Aineq", "every row must have length n"}
		}
		if k >= len(opts.Bineq) {
			return LinearConstraints{}, &ArgumentError{"Bineq", "must have one entry per row of Aineq"}
		}
		addRow(append([]float64{}, row...), opts.Bineq[k])
	}

	mlin := len(rows)
	amat := make([]float64, mlin*n)
	for j, row := range rows {
		copy(amat[j*n:j*n+n], row)
	}

	return LinearConstraints{N: n, MLin: mlin, Amat: amat, Bvec: rhs}, nil
}
