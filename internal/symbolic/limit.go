package symbolic

import "math"

// LimitKind tags the outcome of a limit computation.
type LimitKind int

const (
	LimitUnknown LimitKind = iota
	LimitFinite
	LimitPosInf
	LimitNegInf
)

// LimitValue is the result of a limit computation. Value is meaningful only
// for LimitFinite.
type LimitValue struct {
	Kind  LimitKind
	Value float64
}

func (l LimitValue) Finite() bool   { return l.Kind == LimitFinite }
func (l LimitValue) Infinite() bool { return l.Kind == LimitPosInf || l.Kind == LimitNegInf }

// LimitAtInfinity computes lim of e as the named symbol tends to +inf
// (toPositive) or -inf. Rational expressions are resolved structurally by
// comparing numerator and denominator degrees; everything else falls back
// to a guarded numeric approach sequence.
func LimitAtInfinity(e Expr, name string, toPositive bool) LimitValue {
	e = e.Simplify()
	if !dependsOn(e, name) {
		if v, ok := e.Eval(nil); ok {
			return LimitValue{Kind: LimitFinite, Value: v}
		}
		return LimitValue{Kind: LimitUnknown}
	}

	if lv, ok := rationalLimitAtInfinity(e, name, toPositive); ok {
		return lv
	}
	return numericLimitAtInfinity(e, name, toPositive)
}

func rationalLimitAtInfinity(e Expr, name string, toPositive bool) (LimitValue, bool) {
	num, den := Ratio(e)
	nc, ok1 := Coeffs(num, name)
	dc, ok2 := Coeffs(den, name)
	if !ok1 || !ok2 {
		return LimitValue{}, false
	}
	nc = trimLeading(nc)
	dc = trimLeading(dc)
	if len(dc) == 0 {
		return LimitValue{}, false
	}
	if len(nc) == 0 {
		return LimitValue{Kind: LimitFinite, Value: 0}, true
	}
	nd, dd := len(nc)-1, len(dc)-1
	lead := nc[nd] / dc[dd]
	switch {
	case nd < dd:
		return LimitValue{Kind: LimitFinite, Value: 0}, true
	case nd == dd:
		return LimitValue{Kind: LimitFinite, Value: lead}, true
	default:
		sign := lead
		if !toPositive && (nd-dd)%2 == 1 {
			sign = -sign
		}
		if sign > 0 {
			return LimitValue{Kind: LimitPosInf}, true
		}
		return LimitValue{Kind: LimitNegInf}, true
	}
}

func trimLeading(c []float64) []float64 {
	for len(c) > 0 && math.Abs(c[len(c)-1]) < 1e-12 {
		c = c[:len(c)-1]
	}
	return c
}

func numericLimitAtInfinity(e Expr, name string, toPositive bool) LimitValue {
	xs := []float64{1e3, 1e4, 1e5, 1e6, 1e7, 1e8}
	vals := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !toPositive {
			x = -x
		}
		v, ok := e.Eval(map[string]float64{name: x})
		if !ok {
			// Overflow on the way out is treated as divergence when the
			// earlier samples already grew consistently.
			break
		}
		vals = append(vals, v)
	}
	return judgeApproach(vals, len(xs))
}

// LimitOneSided computes the one-sided limit of e as the named symbol tends
// to at from the right (fromRight) or the left, by a shrinking numeric
// approach sequence.
func LimitOneSided(e Expr, name string, at float64, fromRight bool) LimitValue {
	e = e.Simplify()
	steps := []float64{1e-2, 1e-3, 1e-4, 1e-5, 1e-6, 1e-7}
	vals := make([]float64, 0, len(steps))
	for _, h := range steps {
		x := at + h
		if !fromRight {
			x = at - h
		}
		v, ok := e.Eval(map[string]float64{name: x})
		if !ok {
			break
		}
		vals = append(vals, v)
	}
	return judgeApproach(vals, len(steps))
}

// judgeApproach classifies a sequence of samples taken ever closer to the
// limit point: convergent, divergent with a consistent sign, or neither.
// want is the intended sample count; a shorter slice means evaluation
// failed (typically float overflow on the way out).
func judgeApproach(vals []float64, want int) LimitValue {
	if len(vals) < 3 {
		return LimitValue{Kind: LimitUnknown}
	}

	last := vals[len(vals)-1]
	prev := vals[len(vals)-2]

	// Convergence first: successive samples settle within tolerance. Only a
	// full sequence counts; a truncated one already hinted at overflow.
	if len(vals) == want {
		tol := 1e-5 * math.Max(1, math.Abs(last))
		if math.Abs(last-prev) <= tol {
			return LimitValue{Kind: LimitFinite, Value: last}
		}
	}

	// Divergence: magnitude strictly grows across the whole approach with a
	// stable sign near the end. The relative-growth form also catches slow
	// divergence (logarithmic, fractional powers).
	growing := true
	for i := 0; i+1 < len(vals); i++ {
		if math.Abs(vals[i+1]) <= math.Abs(vals[i]) {
			growing = false
			break
		}
	}
	signStable := sameSign(last, prev) && sameSign(prev, vals[len(vals)-3])
	if growing && signStable && math.Abs(last) > 10 && math.Abs(last) > 2*math.Abs(vals[0]) {
		if last > 0 {
			return LimitValue{Kind: LimitPosInf}
		}
		return LimitValue{Kind: LimitNegInf}
	}
	return LimitValue{Kind: LimitUnknown}
}

func sameSign(a, b float64) bool { return (a >= 0) == (b >= 0) }
