package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalAt(t *testing.T, input string, x float64) float64 {
	t.Helper()
	expr, err := Parse(input)
	require.NoError(t, err)
	v, ok := expr.Eval(map[string]float64{"x": x})
	require.True(t, ok, "expression %q not evaluable at %v", input, x)
	return v
}

func TestParse(t *testing.T) {
	t.Run("Arithmetic", func(t *testing.T) {
		assert.InDelta(t, 4.0, evalAt(t, "x^2 - 2*x + 1", 3), 1e-12)
		assert.InDelta(t, 7.0, evalAt(t, "1 + 2 * 3", 0), 1e-12)
		assert.InDelta(t, 2.5, evalAt(t, "5 / 2", 0), 1e-12)
		assert.InDelta(t, 1024.0, evalAt(t, "2^10", 0), 1e-12)
	})

	t.Run("Double star is exponentiation", func(t *testing.T) {
		assert.InDelta(t, 9.0, evalAt(t, "x**2", 3), 1e-12)
	})

	t.Run("Power is right associative", func(t *testing.T) {
		assert.InDelta(t, 512.0, evalAt(t, "2^3^2", 0), 1e-12)
	})

	t.Run("Unary minus binds looser than power", func(t *testing.T) {
		assert.InDelta(t, -4.0, evalAt(t, "-x^2", 2), 1e-12)
		assert.InDelta(t, 4.0, evalAt(t, "(-x)^2", 2), 1e-12)
	})

	t.Run("Constants", func(t *testing.T) {
		assert.InDelta(t, math.Pi, evalAt(t, "pi", 0), 1e-12)
		assert.InDelta(t, math.E, evalAt(t, "e", 0), 1e-12)
		assert.InDelta(t, 2*math.Pi, evalAt(t, "2*pi", 0), 1e-12)
	})

	t.Run("Scientific notation", func(t *testing.T) {
		assert.InDelta(t, 2000.0, evalAt(t, "2e3", 0), 1e-12)
		assert.InDelta(t, 0.015, evalAt(t, "1.5e-2", 0), 1e-15)
	})

	t.Run("Functions", func(t *testing.T) {
		assert.InDelta(t, 1.0, evalAt(t, "sin(x)", math.Pi/2), 1e-12)
		assert.InDelta(t, 3.0, evalAt(t, "sqrt(x)", 9), 1e-12)
		assert.InDelta(t, 1.0, evalAt(t, "ln(e)", 0), 1e-12)
		assert.InDelta(t, 2.0, evalAt(t, "abs(-2)", 0), 1e-12)
	})

	t.Run("Log is natural log", func(t *testing.T) {
		assert.InDelta(t, 1.0, evalAt(t, "log(x)", math.E), 1e-12)
	})

	t.Run("Free symbols", func(t *testing.T) {
		expr, err := Parse("a*x^2 + b*x + c")
		require.NoError(t, err)
		free := FreeSymbols(expr)
		assert.Len(t, free, 4)
		for _, name := range []string{"a", "b", "c", "x"} {
			assert.Contains(t, free, name)
		}
	})

	t.Run("Reserved names are not symbols", func(t *testing.T) {
		expr, err := Parse("pi * x + e")
		require.NoError(t, err)
		free := FreeSymbols(expr)
		assert.Len(t, free, 1)
		assert.Contains(t, free, "x")
	})
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"Empty", ""},
		{"Whitespace only", "   "},
		{"Adjacent operators", "x +* 2"},
		{"Trailing operator", "x ^"},
		{"Missing closing paren", "sin(x"},
		{"Unbalanced paren", "(x + 1"},
		{"Unknown function", "foo(x)"},
		{"Equation", "x = 2"},
		{"Comma", "max(x, 2)"},
		{"Unexpected character", "x $ 2"},
		{"Implicit multiplication", "2x"},
		{"Function without argument", "sin"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.input)
			require.Error(t, err)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.NotEmpty(t, perr.Msg)
		})
	}
}
