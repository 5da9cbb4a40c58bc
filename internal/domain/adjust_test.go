package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustRiskScore(t *testing.T) {
	t.Run("no signals leaves the base score untouched", func(t *testing.T) {
		assert.Equal(t, 50.0, AdjustRiskScore(50, nil))
		assert.Equal(t, 50.0, AdjustRiskScore(50, []int{}))
	})

	t.Run("each signal adds 5% of the base in one factor", func(t *testing.T) {
		assert.InDelta(t, 55.0, AdjustRiskScore(50, []int{1, 1}), 1e-9)
		assert.InDelta(t, 52.5, AdjustRiskScore(50, []int{1}), 1e-9)
	})

	t.Run("clamps to 100 after summing all signals", func(t *testing.T) {
		assert.Equal(t, 100.0, AdjustRiskScore(99, []int{1, 1, 1, 1, 1}))
	})

	t.Run("count indicators weigh by their value", func(t *testing.T) {
		// A single count-of-3 signal equals three binary signals.
		assert.Equal(t, AdjustRiskScore(40, []int{1, 1, 1}), AdjustRiskScore(40, []int{3}))
	})
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0.0, ClampScore(-35.76))
	assert.Equal(t, 100.0, ClampScore(172.97))
	assert.Equal(t, 42.42, ClampScore(42.42))
}
