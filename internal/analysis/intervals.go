package analysis

import (
	"math"

	"github.com/curvelab/backend/internal/symbolic"
)

// SignClass is the sign of a derivative over one test interval.
type SignClass int

const (
	SignUnknown SignClass = iota
	SignPositive
	SignNegative
)

// classifiedInterval pairs a test interval with the derivative sign
// observed on it.
type classifiedInterval struct {
	Interval
	Class SignClass
}

// buildTestIntervals splits every domain component at the breakpoints
// strictly inside it, yielding open intervals on which a continuous
// derivative keeps one sign. Breakpoints must be sorted.
func buildTestIntervals(dom Domain, breakpoints []float64) []Interval {
	out := []Interval{}
	for _, comp := range dom.Intervals {
		cuts := []float64{comp.Start}
		for _, bp := range breakpoints {
			inside := bp > comp.Start && bp < comp.End &&
				!near(bp, comp.Start) && !near(bp, comp.End)
			if inside {
				cuts = append(cuts, bp)
			}
		}
		cuts = append(cuts, comp.End)
		for i := 0; i+1 < len(cuts); i++ {
			iv := Interval{Start: cuts[i], End: cuts[i+1], LeftOpen: true, RightOpen: true}
			if !iv.IsEmpty() {
				out = append(out, iv)
			}
		}
	}
	return out
}

// classifySign evaluates g at each interval's representative point and
// records the observed sign. A value within tolerance of zero, or an
// unevaluable point, classifies as unknown.
func classifySign(g symbolic.Expr, varName string, intervals []Interval) []classifiedInterval {
	out := make([]classifiedInterval, 0, len(intervals))
	for _, iv := range intervals {
		ci := classifiedInterval{Interval: iv, Class: SignUnknown}
		v, evalOK := g.Eval(map[string]float64{varName: iv.Representative()})
		if evalOK && !math.IsNaN(v) && !math.IsInf(v, 0) {
			switch {
			case v > Tolerance:
				ci.Class = SignPositive
			case v < -Tolerance:
				ci.Class = SignNegative
			}
		}
		out = append(out, ci)
	}
	return out
}

// mergeByClass collapses runs of adjacent same-class intervals into the
// positive and negative interval lists. Two neighbors merge only when
// they share a finite endpoint at which the function is defined; a
// domain gap or singularity between them blocks the merge.
func mergeByClass(classified []classifiedInterval, definedAt func(float64) bool) (positive, negative []Interval) {
	var run *classifiedInterval
	flush := func() {
		if run == nil {
			return
		}
		switch run.Class {
		case SignPositive:
			positive = append(positive, run.Interval)
		case SignNegative:
			negative = append(negative, run.Interval)
		}
		run = nil
	}

	for i := range classified {
		ci := classified[i]
		if ci.Class == SignUnknown {
			flush()
			continue
		}
		if run != nil && run.Class == ci.Class && joinable(run.Interval, ci.Interval, definedAt) {
			run.End = ci.End
			run.RightOpen = ci.RightOpen
			continue
		}
		flush()
		c := ci
		run = &c
	}
	flush()
	return positive, negative
}

func joinable(a, b Interval, definedAt func(float64) bool) bool {
	if math.IsInf(a.End, 0) || !near(a.End, b.Start) {
		return false
	}
	return definedAt(a.End)
}
