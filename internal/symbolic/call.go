package symbolic

import (
	"math"
	"math/big"
)

// Call is an elementary function applied to a single argument.
type Call struct {
	fn  string
	arg Expr
}

// Fn builds a simplified function application. The name must be one of the
// supported elementary functions; unknown names are rejected by the parser
// before a Call is ever constructed.
func Fn(name string, arg Expr) Expr { return (&Call{fn: name, arg: arg}).Simplify() }

func Sin(arg Expr) Expr  { return Fn("sin", arg) }
func Cos(arg Expr) Expr  { return Fn("cos", arg) }
func Tan(arg Expr) Expr  { return Fn("tan", arg) }
func Exp(arg Expr) Expr  { return Fn("exp", arg) }
func Ln(arg Expr) Expr   { return Fn("ln", arg) }
func Abs(arg Expr) Expr  { return Fn("abs", arg) }
func Asin(arg Expr) Expr { return Fn("asin", arg) }
func Acos(arg Expr) Expr { return Fn("acos", arg) }
func Atan(arg Expr) Expr { return Fn("atan", arg) }

func (c *Call) Name() string { return c.fn }
func (c *Call) Arg() Expr    { return c.arg }

// evalFn applies the named function to a float argument. ok is false for
// values outside the function's real domain.
func evalFn(name string, v float64) (float64, bool) {
	var r float64
	switch name {
	case "sin":
		r = math.Sin(v)
	case "cos":
		r = math.Cos(v)
	case "tan":
		r = math.Tan(v)
	case "asin":
		r = math.Asin(v)
	case "acos":
		r = math.Acos(v)
	case "atan":
		r = math.Atan(v)
	case "sinh":
		r = math.Sinh(v)
	case "cosh":
		r = math.Cosh(v)
	case "tanh":
		r = math.Tanh(v)
	case "exp":
		r = math.Exp(v)
	case "ln":
		r = math.Log(v)
	case "abs":
		r = math.Abs(v)
	case "sign":
		switch {
		case v > 0:
			r = 1
		case v < 0:
			r = -1
		default:
			r = 0
		}
	default:
		return 0, false
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// parity of the supported functions under argument negation.
func fnParity(name string) (odd, even bool) {
	switch name {
	case "sin", "tan", "asin", "atan", "sinh", "tanh", "sign":
		return true, false
	case "cos", "cosh", "abs":
		return false, true
	}
	return false, false
}

// negatedArg reports whether e is a product with a negative numeric
// coefficient and returns its negation.
func negatedArg(e Expr) (Expr, bool) {
	switch v := e.(type) {
	case *Number:
		if v.Sign() < 0 {
			return &Number{val: new(big.Rat).Neg(v.val)}, true
		}
	case *Product:
		if n, ok := v.factors[0].(*Number); ok && n.Sign() < 0 {
			out := make([]Expr, 0, len(v.factors))
			out = append(out, &Number{val: new(big.Rat).Neg(n.val)})
			out = append(out, v.factors[1:]...)
			return Mul(out...), true
		}
	}
	return nil, false
}

func (c *Call) Simplify() Expr {
	arg := c.arg.Simplify()

	// Exact special values.
	if n, ok := arg.(*Number); ok && n.IsZero() {
		switch c.fn {
		case "sin", "tan", "asin", "atan", "sinh", "tanh", "abs", "sign":
			return Int(0)
		case "cos", "cosh", "exp":
			return Int(1)
		case "acos":
			return Div(Pi, Int(2))
		}
	}
	if n, ok := arg.(*Number); ok && n.IsOne() && c.fn == "ln" {
		return Int(0)
	}
	if cst, ok := arg.(*Constant); ok && cst.name == "e" && c.fn == "ln" {
		return Int(1)
	}

	// Inverse pairs.
	if inner, ok := arg.(*Call); ok {
		if c.fn == "ln" && inner.fn == "exp" {
			return inner.arg
		}
		if c.fn == "exp" && inner.fn == "ln" {
			return inner.arg
		}
	}

	// Parity: pull or drop a negative coefficient on the argument.
	if neg, ok := negatedArg(arg); ok {
		odd, even := fnParity(c.fn)
		if even {
			return Fn(c.fn, neg)
		}
		if odd {
			return Neg(Fn(c.fn, neg))
		}
	}

	// Numeric folding for rational arguments is deliberately avoided: it
	// would replace exact forms like sin(1) with truncated decimals.
	return &Call{fn: c.fn, arg: arg}
}

func (c *Call) Sub(name string, value Expr) Expr {
	return Fn(c.fn, c.arg.Sub(name, value))
}

func (c *Call) Diff(name string) Expr {
	du := c.arg.Diff(name)
	var outer Expr
	switch c.fn {
	case "sin":
		outer = Cos(c.arg)
	case "cos":
		outer = Neg(Sin(c.arg))
	case "tan":
		outer = Add(Int(1), Pow(Tan(c.arg), Int(2)))
	case "exp":
		outer = Exp(c.arg)
	case "ln":
		outer = Pow(c.arg, Int(-1))
	case "asin":
		outer = Pow(Subtract(Int(1), Pow(c.arg, Int(2))), Rat(-1, 2))
	case "acos":
		outer = Neg(Pow(Subtract(Int(1), Pow(c.arg, Int(2))), Rat(-1, 2)))
	case "atan":
		outer = Pow(Add(Int(1), Pow(c.arg, Int(2))), Int(-1))
	case "sinh":
		outer = Fn("cosh", c.arg)
	case "cosh":
		outer = Fn("sinh", c.arg)
	case "tanh":
		outer = Subtract(Int(1), Pow(Fn("tanh", c.arg), Int(2)))
	case "abs":
		outer = Fn("sign", c.arg)
	case "sign":
		// Zero almost everywhere; the step discontinuity is handled by the
		// domain and classification layers, not the derivative.
		return Int(0)
	default:
		return Int(0)
	}
	return Mul(outer, du)
}

func (c *Call) Eval(env map[string]float64) (float64, bool) {
	v, ok := c.arg.Eval(env)
	if !ok {
		return 0, false
	}
	return evalFn(c.fn, v)
}

func (c *Call) String() string { return c.fn + "(" + c.arg.String() + ")" }

func (c *Call) LaTeX() string {
	inner := `\left(` + c.arg.LaTeX() + `\right)`
	switch c.fn {
	case "sin", "cos", "tan", "exp", "ln", "sinh", "cosh", "tanh":
		return `\` + c.fn + inner
	case "asin":
		return `\arcsin` + inner
	case "acos":
		return `\arccos` + inner
	case "atan":
		return `\arctan` + inner
	case "abs":
		return `\left|` + c.arg.LaTeX() + `\right|`
	}
	return `\operatorname{` + c.fn + `}` + inner
}

func (c *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && c.fn == o.fn && c.arg.Equal(o.arg)
}
