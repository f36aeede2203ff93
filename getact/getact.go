// Package getact implements the active-set direction-finding engine:
// given a gradient g, a trust-region radius Delta and a set of linear
// constraint normals, it computes the projected-steepest-descent step d
// subject to the working set, maintaining the working set's QR
// factorization (package qr) across calls via Goldfarb-Idnani rank-one
// updates. This is the engine LINCOA calls "GETACT".
package getact

import (
	"math"

	"github.com/zequipe/neupdfo/numeric"
	"github.com/zequipe/neupdfo/qr"
)

const tiny = 1e-60

// State is the persisted working-set factorization carried between
// successive Direction calls: Q and R (n x n, column-major, leading
// dimension n) factor the active constraint normals, IAct lists the
// original constraint index behind each active column, ResAct holds
// each active constraint's last-known residual, ResNew tracks how far
// an inactive constraint is from becoming active (zero once it has been
// folded into the active set), and VLam holds the Lagrange multiplier
// estimate for each active constraint.
type State struct {
	N      int
	MTotal int

	Q []float64
	R []float64

	IAct   []int
	NAct   int
	ResAct []float64
	ResNew []float64
	VLam   []float64
}

// NewState allocates a State for an n-dimensional problem with mtotal
// constraint normals, with Q the identity and an empty working set.
func NewState(n, mtotal int) *State {
	s := &State{
		N:      n,
		MTotal: mtotal,
		Q:      make([]float64, n*n),
		R:      make([]float64, n*n),
		IAct:   make([]int, mtotal),
		ResAct: make([]float64, mtotal),
		ResNew: make([]float64, mtotal),
		VLam:   make([]float64, mtotal),
	}
	for i := 0; i < n; i++ {
		s.Q[i*n+i] = 1
	}
	return s
}

// deleteActive removes the ic-th active constraint from the working
// set: it cycles the corresponding QR column to the end via qr.Exchange,
// shifts IAct/ResAct/VLam to match, decrements NAct, and reopens the
// removed constraint for re-activation by giving it a fresh ResNew.
func (s *State) deleteActive(ic int) {
	n := s.N
	qr.Exchange(s.Q, s.R, n, s.NAct, ic)

	j := s.IAct[ic]
	ra := s.ResAct[ic]
	copy(s.IAct[ic:s.NAct-1], s.IAct[ic+1:s.NAct])
	copy(s.ResAct[ic:s.NAct-1], s.ResAct[ic+1:s.NAct])
	copy(s.VLam[ic:s.NAct-1], s.VLam[ic+1:s.NAct])
	s.IAct[s.NAct-1] = j
	s.ResAct[s.NAct-1] = ra

	s.NAct--
	s.ResNew[j] = math.Max(ra, tiny)
}

// backSolveUpper solves R[:k,:k]*x = rhs where R is stored column-major
// with leading dimension n and is upper triangular on its leading k x k
// block.
func backSolveUpper(r []float64, n, k int, rhs, x []float64) {
	for i := k - 1; i >= 0; i-- {
		sum := rhs[i]
		for j := i + 1; j < k; j++ {
			sum -= r[j*n+i] * x[j]
		}
		x[i] = sum / r[i*n+i]
	}
}

// Direction computes the projected-steepest-descent step d for gradient
// g and trust radius delta, given constraint normals stored as the
// columns of a (n x MTotal, column-major, leading dimension n). It
// mutates s's working set in place: constraints with excessive residual
// or a non-negative multiplier are dropped (Stage A/B) before the
// descent loop activates newly-binding constraints as it walks downhill
// (Stage C), for at most 2*(MTotal+n) iterations.
func (s *State) Direction(a, g []float64, delta float64, d []float64) {
	n := s.N
	tdel := 0.2 * delta

	// Stage A: drop constraints whose residual has drifted past tdel.
	for ic := s.NAct - 1; ic >= 0; ic-- {
		if s.ResAct[ic] > tdel {
			s.deleteActive(ic)
		}
	}

	// Stage B: drop constraints whose multiplier estimate is non-negative.
	qtg := make([]float64, n)
	vlam := make([]float64, n)
	for s.NAct > 0 {
		numeric.MatTVec(s.Q, n, n, n, g, qtg)
		backSolveUpper(s.R, n, s.NAct, qtg[:s.NAct], vlam[:s.NAct])
		copy(s.VLam[:s.NAct], vlam[:s.NAct])

		worst := -1
		for i := 0; i < s.NAct; i++ {
			if s.VLam[i] >= 0 {
				worst = i
			}
		}
		if worst < 0 {
			break
		}
		s.deleteActive(worst)
	}

	// Stage C: projected descent, activating newly-binding constraints.
	for i := range d {
		d[i] = 0
	}
	ddsav := 2 * numeric.Dot(g, g)
	maxIter := 2 * (s.MTotal + n)

	apsd := make([]float64, s.MTotal)
	pg := make([]float64, n)
	mu := make([]float64, n)

	for iter := 0; iter < maxIter; iter++ {
		if s.NAct == n {
			for i := range d {
				d[i] = 0
			}
			return
		}
		nfree := n - s.NAct
		free := s.Q[s.NAct*n:]

		numeric.MatTVec(free, n, n, nfree, g, pg[:nfree])
		numeric.MatVec(free, n, n, nfree, pg[:nfree], d)
		for i := range d {
			d[i] = -d[i]
		}

		dd := numeric.Dot(d, d)
		if dd >= ddsav {
			for i := range d {
				d[i] = 0
			}
			return
		}
		if dd == 0 {
			return
		}
		ddsav = dd
		dnorm := math.Sqrt(dd)

		numeric.MatTVec(a, n, n, s.MTotal, d, apsd)

		worstJ := -1
		worstVal := 0.0
		for j := 0; j < s.MTotal; j++ {
			rn := s.ResNew[j]
			if rn > 0 && rn <= tdel {
				if apsd[j] > (dnorm/delta)*rn && (worstJ < 0 || apsd[j] > worstVal) {
					worstJ = j
					worstVal = apsd[j]
				}
			}
		}
		if worstJ < 0 {
			return
		}
		violmx := worstVal

		iactInf := 0.0
		for ic := 0; ic < s.NAct; ic++ {
			if v := math.Abs(apsd[s.IAct[ic]]); v > iactInf {
				iactInf = v
			}
		}
		if violmx <= 0.01*dnorm && violmx <= 10*iactInf {
			return
		}

		// Activate the worst-violated constraint.
		col := a[worstJ*n : worstJ*n+n]
		scratch := make([]float64, n)
		qr.Add(s.Q, s.R, n, s.NAct, col, scratch)
		s.IAct[s.NAct] = worstJ
		s.ResAct[s.NAct] = s.ResNew[worstJ]
		s.VLam[s.NAct] = 0
		s.NAct++
		s.ResNew[worstJ] = 0

		// Repair multiplier signs introduced by the new activation.
		for violmx > 0 && s.NAct > 0 {
			nk := s.NAct
			rkk := s.R[(nk-1)*n+(nk-1)]
			mu[nk-1] = 1 / (rkk * rkk)
			for i := nk - 2; i >= 0; i-- {
				sum := 0.0
				for c := i + 1; c < nk; c++ {
					sum += s.R[c*n+i] * mu[c]
				}
				mu[i] = -sum / s.R[i*n+i]
			}

			// Ties at the running minimum favor the largest index, per
			// spec.md §4.2 step 9's max{i : ... <= vmult} - 1 rule.
			ic := -1
			vmult := violmx
			for i := 0; i < nk; i++ {
				if mu[i] < 0 {
					if f := s.VLam[i] / mu[i]; f <= vmult {
						vmult = f
						ic = i
					}
				}
			}

			violmx = math.Max(violmx-vmult, 0)
			for i := 0; i < nk; i++ {
				s.VLam[i] -= vmult * mu[i]
			}
			if ic >= 0 {
				s.VLam[ic] = 0
			}

			for icp := nk - 1; icp >= 0; icp-- {
				if s.VLam[icp] >= 0 {
					s.deleteActive(icp)
				}
			}
		}
	}
}
