package analysis

import (
	"fmt"

	"github.com/curvelab/backend/internal/symbolic"
)

// Calculator computes symbolic derivatives of a fixed expression, cached
// per order. A differentiation failure is cached as an error marker so
// downstream consumers treat the order as unavailable rather than fatal.
type Calculator struct {
	expr    symbolic.Expr
	varName string

	derivs map[int]symbolic.Expr
	errs   map[int]*Error
}

// NewCalculator creates a calculator for expr with respect to varName.
func NewCalculator(expr symbolic.Expr, varName string) *Calculator {
	return &Calculator{
		expr:    expr,
		varName: varName,
		derivs:  map[int]symbolic.Expr{0: expr},
		errs:    map[int]*Error{},
	}
}

// Derivative returns the symbolic derivative of the given order.
// Order 0 is the expression itself.
func (c *Calculator) Derivative(order int) (symbolic.Expr, error) {
	if order < 0 {
		return nil, fmt.Errorf("derivative order must be non-negative, got %d", order)
	}
	if err, failed := c.errs[order]; failed {
		return nil, err
	}
	if d, cached := c.derivs[order]; cached {
		return d, nil
	}

	prev, err := c.Derivative(order - 1)
	if err != nil {
		marker := newError(KindEvaluation, "derivative of order %d unavailable: %v", order, err)
		c.errs[order] = marker
		return nil, marker
	}

	d, derr := safeDiff(prev, c.varName)
	if derr != nil {
		c.errs[order] = derr
		return nil, derr
	}
	c.derivs[order] = d
	return d, nil
}

// safeDiff differentiates with panic isolation, downgrading unsupported
// constructs to an evaluation error marker.
func safeDiff(e symbolic.Expr, varName string) (d symbolic.Expr, err *Error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = newError(KindEvaluation, "differentiation failed: %v", r)
		}
	}()
	return e.Diff(varName).Simplify(), nil
}

// EvaluateAt substitutes x0 into the derivative of the given order.
// ok is false when the derivative is unavailable or the value is
// undefined, complex, or non-finite at x0.
func (c *Calculator) EvaluateAt(order int, x0 float64) (float64, bool) {
	d, err := c.Derivative(order)
	if err != nil {
		return 0, false
	}
	return d.Eval(map[string]float64{c.varName: x0})
}
