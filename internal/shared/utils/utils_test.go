package utils

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExpression(t *testing.T) {
	t.Run("accepts a normal expression", func(t *testing.T) {
		require.NoError(t, ValidateExpression("a*x^2 + b*x + c"))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		assert.Error(t, ValidateExpression(""))
	})

	t.Run("rejects oversized input", func(t *testing.T) {
		assert.Error(t, ValidateExpression(strings.Repeat("x+", MaxExpressionLength)))
	})

	t.Run("rejects invalid UTF-8", func(t *testing.T) {
		assert.Error(t, ValidateExpression("x + \xff"))
	})
}

func TestValidateBindings(t *testing.T) {
	t.Run("accepts well formed bindings", func(t *testing.T) {
		require.NoError(t, ValidateBindings(map[string]float64{"a": 1, "b_2": -0.5}))
	})

	t.Run("rejects malformed names", func(t *testing.T) {
		assert.Error(t, ValidateBindings(map[string]float64{"2a": 1}))
		assert.Error(t, ValidateBindings(map[string]float64{"a-b": 1}))
		assert.Error(t, ValidateBindings(map[string]float64{"": 1}))
	})

	t.Run("rejects non-finite values", func(t *testing.T) {
		assert.Error(t, ValidateBindings(map[string]float64{"a": math.NaN()}))
		assert.Error(t, ValidateBindings(map[string]float64{"a": math.Inf(1)}))
	})

	t.Run("rejects too many bindings", func(t *testing.T) {
		bindings := make(map[string]float64)
		for i := 0; i < MaxParameterCount+1; i++ {
			bindings["p"+strings.Repeat("x", i+1)] = 1
		}
		assert.Error(t, ValidateBindings(bindings))
	})
}

func TestFingerprint(t *testing.T) {
	h := DefaultHasher()

	t.Run("deterministic across binding order", func(t *testing.T) {
		a := h.Fingerprint("a*x + b", map[string]float64{"a": 1, "b": 2})
		b := h.Fingerprint("a*x + b", map[string]float64{"b": 2, "a": 1})
		assert.Equal(t, a, b)
	})

	t.Run("sensitive to expression and values", func(t *testing.T) {
		base := h.Fingerprint("a*x", map[string]float64{"a": 1})
		assert.NotEqual(t, base, h.Fingerprint("a*x", map[string]float64{"a": 2}))
		assert.NotEqual(t, base, h.Fingerprint("a*x + 1", map[string]float64{"a": 1}))
	})

	t.Run("short hash", func(t *testing.T) {
		full := h.HashString("abc")
		assert.Len(t, ShortHash(full), 8)
		assert.Equal(t, "ab", ShortHash("ab"))
	})
}
