package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/curvelab/backend/internal/symbolic"
)

// VariableName is the fixed analysis variable.
const VariableName = "x"

// DefaultParameterValue is assigned to every free parameter on creation.
const DefaultParameterValue = 1.0

// Function owns a parsed expression, its free parameters, and the working
// expression with current parameter values substituted. The working
// expression is always re-derived from the original; it is never edited in
// place. Any parameter mutation invalidates every derived cache.
type Function struct {
	input    string
	original symbolic.Expr

	paramNames  []string
	paramValues map[string]float64

	working symbolic.Expr
	calc    *Calculator
}

// NewFunction parses the input string and discovers its free parameters:
// every free symbol except the variable and the reserved names, sorted
// alphabetically, each initialized to DefaultParameterValue.
func NewFunction(input string) (*Function, error) {
	expr, err := symbolic.Parse(input)
	if err != nil {
		return nil, &Error{Kind: KindParse, Message: err.Error()}
	}

	reserved := symbolic.ReservedNames()
	names := []string{}
	values := map[string]float64{}
	for name := range symbolic.FreeSymbols(expr) {
		if name == VariableName || reserved[name] {
			continue
		}
		names = append(names, name)
		values[name] = DefaultParameterValue
	}
	sort.Strings(names)

	return &Function{
		input:       input,
		original:    expr,
		paramNames:  names,
		paramValues: values,
	}, nil
}

// Input returns the raw expression string.
func (f *Function) Input() string { return f.input }

// Original returns the parsed expression before parameter substitution.
func (f *Function) Original() symbolic.Expr { return f.original }

// ParameterNames returns the sorted free-parameter names.
func (f *Function) ParameterNames() []string {
	out := make([]string, len(f.paramNames))
	copy(out, f.paramNames)
	return out
}

// Parameters returns a copy of the current parameter bindings.
func (f *Function) Parameters() map[string]float64 {
	out := make(map[string]float64, len(f.paramValues))
	for k, v := range f.paramValues {
		out[k] = v
	}
	return out
}

// Bind assigns a value to a named parameter. The value must be a finite
// real number and the name must be a known parameter; on failure the
// previous binding is kept. A successful bind discards the working
// expression and every derived cache.
func (f *Function) Bind(name string, value float64) error {
	if _, known := f.paramValues[name]; !known {
		return fmt.Errorf("unknown parameter %q", name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("parameter %q requires a finite real number", name)
	}
	f.paramValues[name] = value
	f.invalidate()
	return nil
}

// BindAll applies multiple bindings; it stops at the first failure.
func (f *Function) BindAll(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := f.Bind(name, values[name]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Function) invalidate() {
	f.working = nil
	f.calc = nil
}

// Working returns the expression with current parameter values
// substituted, rebuilding it after any rebind.
func (f *Function) Working() symbolic.Expr {
	if f.working == nil {
		expr := f.original
		for _, name := range f.paramNames {
			expr = expr.Sub(name, symbolic.Float(f.paramValues[name]))
		}
		f.working = expr.Simplify()
	}
	return f.working
}

// Calculator returns the derivative calculator for the current working
// expression. It is replaced wholesale on rebind.
func (f *Function) Calculator() *Calculator {
	if f.calc == nil {
		f.calc = NewCalculator(f.Working(), VariableName)
	}
	return f.calc
}

// EvalAt evaluates the working expression at x. ok is false when the
// result is undefined or non-finite there.
func (f *Function) EvalAt(x float64) (float64, bool) {
	return f.Working().Eval(map[string]float64{VariableName: x})
}
