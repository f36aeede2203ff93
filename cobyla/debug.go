package cobyla

import "github.com/zequipe/neupdfo/numeric"

// DebugAssertions gates the orthogonality/triangularity/invariant checks
// spec.md §7 restricts to debug builds. It is a checked runtime flag
// rather than a build tag so tests can flip it, matching
// original_source's DEBUGGING-style runtime switch; it must stay false
// in release use.
var DebugAssertions = false

// checkWorkingSet asserts Q's orthogonality, R's upper-triangularity on
// its active block, and that iact has no duplicates, panicking if
// DebugAssertions is enabled and a check fails. No-op otherwise.
func checkWorkingSet(q, r []float64, n, nact int, iact []int, m int) {
	if !DebugAssertions {
		return
	}
	tol := numeric.Tol(m)
	if !numeric.IsOrthogonal(q, n, tol) {
		panic("cobyla: Q is not orthogonal within tolerance")
	}
	if !numeric.IsUpperTriangular(r, n, nact) {
		panic("cobyla: R is not upper triangular on its active block")
	}
	seen := make(map[int]bool, nact)
	for _, j := range iact[:nact] {
		if seen[j] {
			panic("cobyla: iact contains a duplicate index")
		}
		seen[j] = true
	}
}
