package analysis

import (
	"math"

	"github.com/curvelab/backend/internal/symbolic"
)

// asymptoteDetector locates vertical, horizontal, and oblique asymptotes
// via the limit machinery.
type asymptoteDetector struct {
	varName string
	solver  *Solver
}

func newAsymptoteDetector(solver *Solver) *asymptoteDetector {
	return &asymptoteDetector{varName: solver.varName, solver: solver}
}

// Detect computes the complete asymptote set of expr over its domain.
func (d *asymptoteDetector) Detect(expr symbolic.Expr, dom Domain) (Asymptotes, *Error) {
	out := Asymptotes{
		Vertical:   []float64{},
		Horizontal: []float64{},
		Oblique:    []ObliqueAsymptote{},
	}

	for _, x0 := range d.verticalCandidates(expr, dom) {
		left := symbolic.LimitOneSided(expr, d.varName, x0, false)
		right := symbolic.LimitOneSided(expr, d.varName, x0, true)
		if left.Infinite() || right.Infinite() {
			out.Vertical = append(out.Vertical, x0)
		}
	}
	out.Vertical = clusterPoints(out.Vertical)

	// A finite limit at either end of the line is a horizontal asymptote;
	// an end without one may carry an oblique asymptote instead.
	for _, toPositive := range []bool{false, true} {
		lim := symbolic.LimitAtInfinity(expr, d.varName, toPositive)
		if lim.Finite() {
			out.Horizontal = appendUnique(out.Horizontal, lim.Value)
			continue
		}
		if ob, found := d.obliqueAt(expr, toPositive); found {
			out.Oblique = appendUniqueOblique(out.Oblique, ob)
		}
	}
	return out, nil
}

// verticalCandidates gathers the points where a pole can occur: real
// denominator roots and the finite boundaries of open domain gaps.
func (d *asymptoteDetector) verticalCandidates(expr symbolic.Expr, dom Domain) []float64 {
	candidates := dom.FiniteBoundaries()

	_, den := symbolic.Ratio(expr)
	if n, isNum := den.(*symbolic.Number); !isNum || !n.IsOne() {
		roots, err := d.solver.Roots(den)
		if err == nil {
			candidates = append(candidates, roots...)
		}
	}

	// Poles sit outside the domain. A closed boundary the function is
	// defined at cannot be one.
	kept := []float64{}
	for _, x0 := range clusterPoints(candidates) {
		if _, evalOK := expr.Eval(map[string]float64{d.varName: x0}); !evalOK {
			kept = append(kept, x0)
		}
	}
	return kept
}

// obliqueAt checks one end of the line for a slant asymptote: a finite
// nonzero slope m = lim f/x with finite intercept b = lim (f - m*x).
func (d *asymptoteDetector) obliqueAt(expr symbolic.Expr, toPositive bool) (ObliqueAsymptote, bool) {
	x := symbolic.Var(d.varName)
	slope := symbolic.LimitAtInfinity(symbolic.Div(expr, x), d.varName, toPositive)
	if !slope.Finite() || math.Abs(slope.Value) <= Tolerance {
		return ObliqueAsymptote{}, false
	}
	rest := symbolic.Subtract(expr, symbolic.Mul(symbolic.Float(slope.Value), x))
	intercept := symbolic.LimitAtInfinity(rest, d.varName, toPositive)
	if !intercept.Finite() {
		return ObliqueAsymptote{}, false
	}
	return ObliqueAsymptote{Slope: slope.Value, Intercept: intercept.Value}, true
}

func appendUnique(vals []float64, v float64) []float64 {
	for _, existing := range vals {
		if near(existing, v) {
			return vals
		}
	}
	return append(vals, v)
}

func appendUniqueOblique(obs []ObliqueAsymptote, ob ObliqueAsymptote) []ObliqueAsymptote {
	for _, existing := range obs {
		if near(existing.Slope, ob.Slope) && near(existing.Intercept, ob.Intercept) {
			return obs
		}
	}
	return append(obs, ob)
}
