package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitAtInfinity(t *testing.T) {
	t.Run("Proper rational tends to zero", func(t *testing.T) {
		lim := LimitAtInfinity(parse(t, "1/(x-2)"), "x", true)
		require.True(t, lim.Finite())
		assert.InDelta(t, 0.0, lim.Value, 1e-9)
	})

	t.Run("Equal degrees tend to the leading ratio", func(t *testing.T) {
		lim := LimitAtInfinity(parse(t, "(2*x^2 + 1)/(x^2 - 5)"), "x", true)
		require.True(t, lim.Finite())
		assert.InDelta(t, 2.0, lim.Value, 1e-9)
	})

	t.Run("Polynomial diverges", func(t *testing.T) {
		assert.Equal(t, LimitPosInf, LimitAtInfinity(parse(t, "x^2"), "x", true).Kind)
		assert.Equal(t, LimitPosInf, LimitAtInfinity(parse(t, "x^2"), "x", false).Kind)
		assert.Equal(t, LimitPosInf, LimitAtInfinity(parse(t, "x^3"), "x", true).Kind)
		assert.Equal(t, LimitNegInf, LimitAtInfinity(parse(t, "x^3"), "x", false).Kind)
	})

	t.Run("Decaying exponential converges", func(t *testing.T) {
		lim := LimitAtInfinity(parse(t, "exp(-x)"), "x", true)
		require.True(t, lim.Finite())
		assert.InDelta(t, 0.0, lim.Value, 1e-9)
	})

	t.Run("Oscillation stays unknown", func(t *testing.T) {
		assert.Equal(t, LimitUnknown, LimitAtInfinity(parse(t, "sin(x)"), "x", true).Kind)
	})

	t.Run("Constant is its own limit", func(t *testing.T) {
		lim := LimitAtInfinity(parse(t, "7"), "x", true)
		require.True(t, lim.Finite())
		assert.InDelta(t, 7.0, lim.Value, 1e-12)
	})
}

func TestLimitOneSided(t *testing.T) {
	t.Run("Simple pole", func(t *testing.T) {
		expr := parse(t, "1/(x-2)")
		assert.Equal(t, LimitPosInf, LimitOneSided(expr, "x", 2, true).Kind)
		assert.Equal(t, LimitNegInf, LimitOneSided(expr, "x", 2, false).Kind)
	})

	t.Run("Even-order pole diverges both sides up", func(t *testing.T) {
		expr := parse(t, "1/(x-2)^2")
		assert.Equal(t, LimitPosInf, LimitOneSided(expr, "x", 2, true).Kind)
		assert.Equal(t, LimitPosInf, LimitOneSided(expr, "x", 2, false).Kind)
	})

	t.Run("Logarithmic divergence", func(t *testing.T) {
		assert.Equal(t, LimitNegInf, LimitOneSided(parse(t, "ln(x)"), "x", 0, true).Kind)
	})

	t.Run("Continuous point converges to its value", func(t *testing.T) {
		lim := LimitOneSided(parse(t, "x^2"), "x", 3, true)
		require.True(t, lim.Finite())
		assert.InDelta(t, 9.0, lim.Value, 1e-3)
	})

	t.Run("Undefined side stays unknown", func(t *testing.T) {
		// sqrt is not real left of zero, so no left limit exists.
		assert.Equal(t, LimitUnknown, LimitOneSided(parse(t, "sqrt(x)"), "x", 0, false).Kind)
	})
}
