package analysis

import (
	"math"

	"github.com/curvelab/backend/internal/symbolic"
)

var symmetryProbes = []float64{0.7, 1.3, 2.1, 3.7}

// detectSymmetry classifies expr as even, odd, or neither by simplifying
// f(x) -/+ f(-x) to zero. When the simplifier leaves a residual but
// numeric probing still agrees with a symmetry, the verdict is
// undetermined rather than a guess either way.
func detectSymmetry(expr symbolic.Expr, varName string) Symmetry {
	if !dependsOnVar(expr, varName) {
		return SymmetryEven
	}

	mirrored := expr.Sub(varName, symbolic.Neg(symbolic.Var(varName))).Simplify()
	if symbolic.IsZero(symbolic.Subtract(expr, mirrored).Simplify()) {
		return SymmetryEven
	}
	if symbolic.IsZero(symbolic.Add(expr, mirrored).Simplify()) {
		return SymmetryOdd
	}

	evenOK, oddOK, usable := true, true, 0
	for _, x := range symmetryProbes {
		v, ok1 := expr.Eval(map[string]float64{varName: x})
		w, ok2 := expr.Eval(map[string]float64{varName: -x})
		if !ok1 || !ok2 || math.IsNaN(v) || math.IsNaN(w) {
			continue
		}
		usable++
		scale := math.Max(1, math.Max(math.Abs(v), math.Abs(w)))
		if math.Abs(v-w) > Tolerance*scale {
			evenOK = false
		}
		if math.Abs(v+w) > Tolerance*scale {
			oddOK = false
		}
	}
	if usable < 2 {
		return SymmetryUndetermined
	}
	if evenOK || oddOK {
		// Sampling agrees with a symmetry the simplifier could not prove.
		return SymmetryUndetermined
	}
	return SymmetryNeither
}
