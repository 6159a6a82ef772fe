package symbolic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPolynomial(t *testing.T) {
	assert.True(t, IsPolynomial(parse(t, "x^2 - 2*x + 1"), "x"))
	assert.True(t, IsPolynomial(parse(t, "(x+1)^3"), "x"))
	assert.True(t, IsPolynomial(parse(t, "7"), "x"))
	assert.False(t, IsPolynomial(parse(t, "sin(x)"), "x"))
	assert.False(t, IsPolynomial(parse(t, "1/(x-2)"), "x"))
	assert.False(t, IsPolynomial(parse(t, "sqrt(x)"), "x"))
}

func TestDegree(t *testing.T) {
	cases := []struct {
		input string
		deg   int
	}{
		{"5", 0},
		{"3*x + 1", 1},
		{"x^2 - 2*x + 1", 2},
		{"(x+1)^3", 3},
		{"x * x^4", 5},
	}
	for _, tc := range cases {
		deg, ok := Degree(parse(t, tc.input), "x")
		require.True(t, ok, "Degree(%q)", tc.input)
		assert.Equal(t, tc.deg, deg, "Degree(%q)", tc.input)
	}

	_, ok := Degree(parse(t, "sin(x)"), "x")
	assert.False(t, ok)
}

func TestCoeffs(t *testing.T) {
	t.Run("Quadratic", func(t *testing.T) {
		coeffs, ok := Coeffs(parse(t, "x^2 - 2*x + 1"), "x")
		require.True(t, ok)
		require.Len(t, coeffs, 3)
		assert.InDelta(t, 1.0, coeffs[0], 1e-12)
		assert.InDelta(t, -2.0, coeffs[1], 1e-12)
		assert.InDelta(t, 1.0, coeffs[2], 1e-12)
	})

	t.Run("Expanded binomial", func(t *testing.T) {
		coeffs, ok := Coeffs(parse(t, "(x+1)^2"), "x")
		require.True(t, ok)
		require.Len(t, coeffs, 3)
		assert.InDelta(t, 1.0, coeffs[0], 1e-12)
		assert.InDelta(t, 2.0, coeffs[1], 1e-12)
		assert.InDelta(t, 1.0, coeffs[2], 1e-12)
	})

	t.Run("Constant function coefficients", func(t *testing.T) {
		// sin(1) does not depend on x and must act as a plain coefficient.
		coeffs, ok := Coeffs(parse(t, "sin(1) + x"), "x")
		require.True(t, ok)
		require.Len(t, coeffs, 2)
		assert.InDelta(t, 1.0, coeffs[1], 1e-12)
	})

	t.Run("Non-polynomial rejected", func(t *testing.T) {
		_, ok := Coeffs(parse(t, "sin(x)"), "x")
		assert.False(t, ok)
	})

	t.Run("Symbolic coefficients rejected", func(t *testing.T) {
		_, ok := Coeffs(parse(t, "a*x^2"), "x")
		assert.False(t, ok)
	})
}

func TestRatio(t *testing.T) {
	t.Run("Simple reciprocal", func(t *testing.T) {
		num, den := Ratio(parse(t, "1/(x-2)"))
		nv, ok := num.Eval(nil)
		require.True(t, ok)
		assert.InDelta(t, 1.0, nv, 1e-12)

		coeffs, ok := Coeffs(den, "x")
		require.True(t, ok)
		require.Len(t, coeffs, 2)
		assert.InDelta(t, -2.0, coeffs[0], 1e-12)
		assert.InDelta(t, 1.0, coeffs[1], 1e-12)
	})

	t.Run("Polynomial has unit denominator", func(t *testing.T) {
		_, den := Ratio(parse(t, "x^2 + 1"))
		n, ok := den.(*Number)
		require.True(t, ok)
		assert.True(t, n.IsOne())
	})

	t.Run("Sum of fractions combines", func(t *testing.T) {
		// 1/x + 1/(x+1) == (2x+1) / (x*(x+1)); verify pointwise.
		num, den := Ratio(parse(t, "1/x + 1/(x+1)"))
		for _, x := range []float64{1, 2, 0.5, -3} {
			nv, ok1 := num.Eval(map[string]float64{"x": x})
			dv, ok2 := den.Eval(map[string]float64{"x": x})
			require.True(t, ok1)
			require.True(t, ok2)
			assert.InDelta(t, 1/x+1/(x+1), nv/dv, 1e-9)
		}
	})
}

func TestExpand(t *testing.T) {
	t.Run("Binomial square", func(t *testing.T) {
		expanded := Expand(parse(t, "(x+1)^2"))
		diff := Subtract(expanded, parse(t, "x^2 + 2*x + 1")).Simplify()
		assert.True(t, IsZero(diff))
	})

	t.Run("Product of sums", func(t *testing.T) {
		expanded := Expand(parse(t, "(x+1)*(x-1)"))
		diff := Subtract(expanded, parse(t, "x^2 - 1")).Simplify()
		assert.True(t, IsZero(diff))
	})

	t.Run("Binomial cube", func(t *testing.T) {
		expanded := Expand(parse(t, "(x+1)^3"))
		diff := Subtract(expanded, parse(t, "x^3 + 3*x^2 + 3*x + 1")).Simplify()
		assert.True(t, IsZero(diff))
	})
}
