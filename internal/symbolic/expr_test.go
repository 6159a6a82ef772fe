package symbolic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, input string) Expr {
	t.Helper()
	expr, err := Parse(input)
	require.NoError(t, err)
	return expr
}

func TestNumberExactness(t *testing.T) {
	t.Run("Rational arithmetic stays exact", func(t *testing.T) {
		sum := Add(Rat(1, 3), Rat(2, 3))
		n, ok := sum.(*Number)
		require.True(t, ok)
		assert.True(t, n.IsOne())
	})

	t.Run("Integer powers fold exactly", func(t *testing.T) {
		v := parse(t, "(1/3)^2")
		n, ok := v.(*Number)
		require.True(t, ok)
		assert.Equal(t, 0, n.Rat().Cmp(Rat(1, 9).Rat()))
	})

	t.Run("Repeated tenth stays a tenth", func(t *testing.T) {
		sum := Add(Rat(1, 10), Rat(1, 10), Rat(1, 10))
		n, ok := sum.(*Number)
		require.True(t, ok)
		assert.Equal(t, 0, n.Rat().Cmp(Rat(3, 10).Rat()))
	})
}

func TestSimplify(t *testing.T) {
	t.Run("Like terms cancel", func(t *testing.T) {
		diff := Subtract(parse(t, "x^2 + x"), parse(t, "x + x^2")).Simplify()
		assert.True(t, IsZero(diff))
	})

	t.Run("Negated sums distribute and cancel", func(t *testing.T) {
		diff := Subtract(parse(t, "x^2 + cos(x)"), parse(t, "cos(x) + x^2")).Simplify()
		assert.True(t, IsZero(diff))

		scaled := Add(parse(t, "2*(x + 1)"), parse(t, "-2*x - 2")).Simplify()
		assert.True(t, IsZero(scaled))
	})

	t.Run("Coefficient collection", func(t *testing.T) {
		expr := parse(t, "2*x + 3*x")
		v, ok := expr.Eval(map[string]float64{"x": 7})
		require.True(t, ok)
		assert.InDelta(t, 35.0, v, 1e-12)
	})

	t.Run("Zero annihilates products", func(t *testing.T) {
		assert.True(t, IsZero(Mul(Int(0), Var("x"), Sin(Var("x")))))
	})

	t.Run("Power identities", func(t *testing.T) {
		assert.True(t, parse(t, "x^1").Equal(Var("x")))
		one, ok := parse(t, "x^0").(*Number)
		require.True(t, ok)
		assert.True(t, one.IsOne())
	})

	t.Run("Odd function parity", func(t *testing.T) {
		assert.True(t, IsZero(parse(t, "sin(-x) + sin(x)")))
		assert.True(t, IsZero(parse(t, "tan(-x) + tan(x)")))
	})

	t.Run("Even function parity", func(t *testing.T) {
		assert.True(t, IsZero(parse(t, "cos(-x) - cos(x)")))
		assert.True(t, IsZero(parse(t, "abs(-x) - abs(x)")))
	})

	t.Run("Inverse pairs collapse", func(t *testing.T) {
		assert.True(t, Ln(Exp(Var("x"))).Equal(Var("x")))
		assert.True(t, Exp(Ln(Var("x"))).Equal(Var("x")))
	})

	t.Run("Exact special values survive simplification", func(t *testing.T) {
		// sin(1) must not be folded into a decimal.
		c, ok := parse(t, "sin(1)").(*Call)
		require.True(t, ok)
		assert.Equal(t, "sin", c.Name())
	})
}

func TestSubstitution(t *testing.T) {
	expr := parse(t, "a*x^2 + b*x + c")
	bound := expr.
		Sub("a", Int(2)).
		Sub("b", Int(-3)).
		Sub("c", Int(1)).
		Simplify()

	v, ok := bound.Eval(map[string]float64{"x": 2})
	require.True(t, ok)
	assert.InDelta(t, 3.0, v, 1e-12)

	free := FreeSymbols(bound)
	assert.Len(t, free, 1)
	assert.Contains(t, free, "x")
}

func TestDiff(t *testing.T) {
	derivAt := func(input string, x float64) float64 {
		d := parse(t, input).Diff("x").Simplify()
		v, ok := d.Eval(map[string]float64{"x": x})
		require.True(t, ok, "derivative of %q not evaluable at %v", input, x)
		return v
	}

	t.Run("Power rule", func(t *testing.T) {
		assert.InDelta(t, 12.0, derivAt("x^3", 2), 1e-12)
		assert.InDelta(t, -0.25, derivAt("1/x", 2), 1e-12)
	})

	t.Run("Chain rule", func(t *testing.T) {
		assert.InDelta(t, 2.0, derivAt("exp(2*x)", 0), 1e-12)
		assert.InDelta(t, 2.0, derivAt("sin(2*x)", 0), 1e-12)
	})

	t.Run("Product rule", func(t *testing.T) {
		// d/dx x*sin(x) = sin(x) + x*cos(x)
		assert.InDelta(t, math.Sin(1)+math.Cos(1), derivAt("x * sin(x)", 1), 1e-12)
	})

	t.Run("Quotient via negative power", func(t *testing.T) {
		// d/dx 1/(x-2) = -(x-2)^-2
		assert.InDelta(t, -1.0, derivAt("1/(x-2)", 3), 1e-12)
	})

	t.Run("Elementary functions", func(t *testing.T) {
		assert.InDelta(t, 1.0, derivAt("sin(x)", 0), 1e-12)
		assert.InDelta(t, 0.5, derivAt("ln(x)", 2), 1e-12)
		assert.InDelta(t, 0.0, derivAt("cos(x)", 0), 1e-12)
	})

	t.Run("Constants vanish", func(t *testing.T) {
		assert.True(t, IsZero(parse(t, "pi + e + 7").Diff("x").Simplify()))
	})

	t.Run("Second derivative", func(t *testing.T) {
		d2 := parse(t, "x^3").Diff("x").Simplify().Diff("x").Simplify()
		v, ok := d2.Eval(map[string]float64{"x": 2})
		require.True(t, ok)
		assert.InDelta(t, 12.0, v, 1e-12)
	})
}

func TestEvalPartiality(t *testing.T) {
	t.Run("Division by zero", func(t *testing.T) {
		_, ok := parse(t, "1/x").Eval(map[string]float64{"x": 0})
		assert.False(t, ok)
	})

	t.Run("Log of non-positive", func(t *testing.T) {
		_, ok := parse(t, "ln(x)").Eval(map[string]float64{"x": -1})
		assert.False(t, ok)
	})

	t.Run("Even root of negative", func(t *testing.T) {
		_, ok := parse(t, "sqrt(x)").Eval(map[string]float64{"x": -4})
		assert.False(t, ok)
	})

	t.Run("Missing binding", func(t *testing.T) {
		_, ok := parse(t, "a + x").Eval(map[string]float64{"x": 1})
		assert.False(t, ok)
	})
}

func TestLaTeX(t *testing.T) {
	t.Run("Renders without panicking", func(t *testing.T) {
		for _, input := range []string{
			"x^2 - 2*x + 1",
			"1/(x-2)",
			"sin(x) * cos(x)",
			"sqrt(1 - x^2)",
			"a*x^2 + b*x + c",
		} {
			assert.NotEmpty(t, parse(t, input).LaTeX())
		}
	})
}
