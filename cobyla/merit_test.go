package cobyla

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerit(t *testing.T) {
	assert.InDelta(t, 5.0, Merit(2, 3, 1), 1e-12)
	assert.InDelta(t, 2.0, Merit(2, 3, 0), 1e-12)
}

func TestAcceptStrictlyLowerMerit(t *testing.T) {
	assert.True(t, Accept(1, 0, 0.5, 0, 1))
	assert.False(t, Accept(1, 0, 1.5, 0, 1))
}

func TestAcceptTieBrokenByFeasibility(t *testing.T) {
	// Same merit (2) but the candidate is strictly less infeasible.
	assert.True(t, Accept(0, 2, 1, 1, 1))
	assert.False(t, Accept(1, 1, 0, 2, 1))
}

func TestUpdatePenaltyNeverDecreases(t *testing.T) {
	sigma := 5.0
	got := UpdatePenalty(sigma, 0.01, 1.0, 0.9)
	assert.GreaterOrEqual(t, got, sigma)
}

func TestUpdatePenaltyNoOpWhenNoGap(t *testing.T) {
	sigma := 5.0
	got := UpdatePenalty(sigma, 1.0, 0.5, 0.6)
	assert.Equal(t, sigma, got)
}
