package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/curvelab/backend/internal/symbolic"
)

// Tolerance is the shared absolute/relative tolerance for root collapsing,
// boundary matching, and sign decisions.
const Tolerance = 1e-9

// near reports approximate equality under the shared tolerance,
// absolute or relative.
func near(a, b float64) bool {
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return a == b
	}
	d := math.Abs(a - b)
	return d <= Tolerance || d <= Tolerance*math.Max(math.Abs(a), math.Abs(b))
}

// Interval is one connected real interval. Start and End may be ±Inf;
// an infinite bound is always open.
type Interval struct {
	Start     float64 `json:"start"`
	End       float64 `json:"end"`
	LeftOpen  bool    `json:"left_open"`
	RightOpen bool    `json:"right_open"`
}

// FullInterval covers the whole real line.
func FullInterval() Interval {
	return Interval{Start: math.Inf(-1), End: math.Inf(1), LeftOpen: true, RightOpen: true}
}

// IsEmpty reports whether the interval contains no points.
func (iv Interval) IsEmpty() bool {
	if iv.Start > iv.End {
		return true
	}
	if iv.Start == iv.End {
		return iv.LeftOpen || iv.RightOpen
	}
	return false
}

// Contains reports strict membership (no tolerance).
func (iv Interval) Contains(x float64) bool {
	if x < iv.Start || x > iv.End {
		return false
	}
	if x == iv.Start && iv.LeftOpen {
		return false
	}
	if x == iv.End && iv.RightOpen {
		return false
	}
	return true
}

// Intersect returns the overlap of two intervals.
func (iv Interval) Intersect(other Interval) Interval {
	out := iv
	if other.Start > out.Start || (other.Start == out.Start && other.LeftOpen) {
		out.Start = other.Start
		out.LeftOpen = other.LeftOpen
	}
	if other.End < out.End || (other.End == out.End && other.RightOpen) {
		out.End = other.End
		out.RightOpen = other.RightOpen
	}
	return out
}

// Representative picks a sign-test point inside the interval: the midpoint
// for finite bounds, boundary±1 for a single infinite bound, 0 when both
// bounds are infinite.
func (iv Interval) Representative() float64 {
	leftInf := math.IsInf(iv.Start, -1)
	rightInf := math.IsInf(iv.End, 1)
	switch {
	case leftInf && rightInf:
		return 0
	case leftInf:
		return iv.End - 1
	case rightInf:
		return iv.Start + 1
	default:
		return (iv.Start + iv.End) / 2
	}
}

func formatBound(v float64) string {
	if math.IsInf(v, -1) {
		return "-oo"
	}
	if math.IsInf(v, 1) {
		return "oo"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (iv Interval) String() string {
	lb, rb := "[", "]"
	if iv.LeftOpen {
		lb = "("
	}
	if iv.RightOpen {
		rb = ")"
	}
	return lb + formatBound(iv.Start) + ", " + formatBound(iv.End) + rb
}

// Domain is an ordered set of disjoint intervals: sorted by start,
// non-overlapping, adjacent same-class runs merged.
type Domain struct {
	Intervals []Interval `json:"intervals"`
}

// FullLine is the domain covering all reals.
func FullLine() Domain { return Domain{Intervals: []Interval{FullInterval()}} }

// EmptyDomain contains no points.
func EmptyDomain() Domain { return Domain{} }

// NewDomain normalizes a set of intervals into a valid domain: empties
// dropped, sorted, overlapping or touching pieces merged.
func NewDomain(intervals []Interval) Domain {
	kept := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.IsEmpty() {
			kept = append(kept, iv)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].Start != kept[j].Start {
			return kept[i].Start < kept[j].Start
		}
		return !kept[i].LeftOpen && kept[j].LeftOpen
	})
	merged := make([]Interval, 0, len(kept))
	for _, iv := range kept {
		if len(merged) == 0 {
			merged = append(merged, iv)
			continue
		}
		last := &merged[len(merged)-1]
		touching := iv.Start < last.End ||
			(iv.Start == last.End && (!iv.LeftOpen || !last.RightOpen))
		if touching {
			if iv.End > last.End || (iv.End == last.End && !iv.RightOpen) {
				last.End = iv.End
				last.RightOpen = iv.RightOpen
			}
			continue
		}
		merged = append(merged, iv)
	}
	return Domain{Intervals: merged}
}

// IsEmpty reports whether the domain contains no points.
func (d Domain) IsEmpty() bool { return len(d.Intervals) == 0 }

// IsFullLine reports whether the domain is all of R.
func (d Domain) IsFullLine() bool {
	return len(d.Intervals) == 1 &&
		math.IsInf(d.Intervals[0].Start, -1) && math.IsInf(d.Intervals[0].End, 1)
}

// Contains reports membership with boundary tolerance: a point within
// tolerance of a closed bound is in, a point within tolerance of an open
// bound (an excluded puncture or constraint edge) is out.
func (d Domain) Contains(x float64) bool {
	for _, iv := range d.Intervals {
		if !iv.LeftOpen && near(x, iv.Start) {
			return true
		}
		if !iv.RightOpen && near(x, iv.End) {
			return true
		}
	}
	for _, iv := range d.Intervals {
		if iv.LeftOpen && near(x, iv.Start) {
			return false
		}
		if iv.RightOpen && near(x, iv.End) {
			return false
		}
	}
	for _, iv := range d.Intervals {
		if iv.Contains(x) {
			return true
		}
	}
	return false
}

// Intersect returns the pointwise intersection of two domains.
func (d Domain) Intersect(other Domain) Domain {
	out := []Interval{}
	for _, a := range d.Intervals {
		for _, b := range other.Intervals {
			if iv := a.Intersect(b); !iv.IsEmpty() {
				out = append(out, iv)
			}
		}
	}
	return NewDomain(out)
}

// ExcludePoints removes single points, splitting intervals open at each.
func (d Domain) ExcludePoints(points []float64) Domain {
	out := d
	for _, p := range points {
		next := []Interval{}
		for _, iv := range out.Intervals {
			if !iv.Contains(p) {
				next = append(next, iv)
				continue
			}
			left := Interval{Start: iv.Start, End: p, LeftOpen: iv.LeftOpen, RightOpen: true}
			right := Interval{Start: p, End: iv.End, LeftOpen: true, RightOpen: iv.RightOpen}
			if !left.IsEmpty() {
				next = append(next, left)
			}
			if !right.IsEmpty() {
				next = append(next, right)
			}
		}
		out = Domain{Intervals: next}
	}
	return out
}

// FiniteBoundaries returns every finite interval endpoint, deduplicated
// and sorted. These are the singularity candidates of the domain.
func (d Domain) FiniteBoundaries() []float64 {
	pts := []float64{}
	for _, iv := range d.Intervals {
		if !math.IsInf(iv.Start, 0) {
			pts = append(pts, iv.Start)
		}
		if !math.IsInf(iv.End, 0) {
			pts = append(pts, iv.End)
		}
	}
	return clusterPoints(pts)
}

func (d Domain) String() string {
	if d.IsEmpty() {
		return "EmptySet"
	}
	if d.IsFullLine() {
		return "(-oo, oo)"
	}
	parts := make([]string, len(d.Intervals))
	for i, iv := range d.Intervals {
		parts[i] = iv.String()
	}
	return strings.Join(parts, " U ")
}

// clusterPoints sorts values and collapses near-duplicates (tolerance
// 1e-9, absolute or relative) into their first representative.
func clusterPoints(pts []float64) []float64 {
	if len(pts) == 0 {
		return pts
	}
	sorted := make([]float64, len(pts))
	copy(sorted, pts)
	sort.Float64s(sorted)
	out := sorted[:1]
	for _, p := range sorted[1:] {
		if !near(p, out[len(out)-1]) {
			out = append(out, p)
		}
	}
	return out
}

// DomainResolver computes the maximal real continuity domain of an
// expression by propagating constraints over its tree: denominators
// nonzero, even-root radicands non-negative, logarithm arguments positive,
// inverse-trigonometric arguments within [-1, 1].
type DomainResolver struct {
	solver  *Solver
	varName string
}

// NewDomainResolver creates a resolver backed by the given root finder.
func NewDomainResolver(solver *Solver) *DomainResolver {
	return &DomainResolver{solver: solver, varName: solver.varName}
}

// Resolve computes the continuity domain of e. When the primary
// constraint walk cannot resolve a construct, it falls back to the
// rational-function rule (exclude denominator roots not canceled by the
// numerator) and finally to the full real line.
func (r *DomainResolver) Resolve(e symbolic.Expr) Domain {
	e = e.Simplify()
	dom, err := r.walk(e)
	if err == nil {
		return dom
	}
	return r.fallback(e)
}

func (r *DomainResolver) walk(e symbolic.Expr) (Domain, error) {
	switch v := e.(type) {
	case *symbolic.Number, *symbolic.Constant, *symbolic.Symbol:
		return FullLine(), nil
	case *symbolic.Sum:
		dom := FullLine()
		for _, t := range v.Terms() {
			child, err := r.walk(t)
			if err != nil {
				return Domain{}, err
			}
			dom = dom.Intersect(child)
		}
		return dom, nil
	case *symbolic.Product:
		dom := FullLine()
		for _, f := range v.Factors() {
			child, err := r.walk(f)
			if err != nil {
				return Domain{}, err
			}
			dom = dom.Intersect(child)
		}
		return dom, nil
	case *symbolic.Power:
		return r.walkPower(v)
	case *symbolic.Call:
		return r.walkCall(v)
	}
	return FullLine(), errUnsupportedNode
}

var errUnsupportedNode = newError(KindSolver, "unsupported construct in domain resolution")

func (r *DomainResolver) walkPower(p *symbolic.Power) (Domain, error) {
	dom, err := r.walk(p.Base())
	if err != nil {
		return Domain{}, err
	}
	expDom, err := r.walk(p.Exponent())
	if err != nil {
		return Domain{}, err
	}
	dom = dom.Intersect(expDom)

	exp, exponentFixed := p.Exponent().(*symbolic.Number)
	if !exponentFixed {
		// Variable exponent: u(x)^v(x) is real and continuous where the
		// base is positive.
		region, err := r.signRegion(p.Base(), true)
		if err != nil {
			return Domain{}, err
		}
		return dom.Intersect(region), nil
	}

	if exp.IsInteger() {
		if exp.Sign() < 0 {
			roots, err := r.solver.Roots(p.Base())
			if err != nil {
				return Domain{}, err
			}
			return dom.ExcludePoints(roots), nil
		}
		return dom, nil
	}

	// Fractional exponent: the principal real branch needs a non-negative
	// radicand, strictly positive when the exponent is negative.
	region, err := r.signRegion(p.Base(), exp.Sign() < 0)
	if err != nil {
		return Domain{}, err
	}
	return dom.Intersect(region), nil
}

func (r *DomainResolver) walkCall(c *symbolic.Call) (Domain, error) {
	dom, err := r.walk(c.Arg())
	if err != nil {
		return Domain{}, err
	}
	switch c.Name() {
	case "ln":
		region, err := r.signRegion(c.Arg(), true)
		if err != nil {
			return Domain{}, err
		}
		return dom.Intersect(region), nil
	case "asin", "acos":
		// Argument within [-1, 1]: region where 1 - arg^2 >= 0.
		g := symbolic.Subtract(symbolic.Int(1), symbolic.Pow(c.Arg(), symbolic.Int(2)))
		region, err := r.signRegion(g, false)
		if err != nil {
			return Domain{}, err
		}
		return dom.Intersect(region), nil
	case "tan":
		// Poles where cos(arg) = 0. Periodic, so the exclusion is limited
		// to the finite search window.
		roots, err := r.solver.Roots(symbolic.Cos(c.Arg()))
		if err != nil {
			return Domain{}, err
		}
		return dom.ExcludePoints(roots), nil
	}
	return dom, nil
}

// signRegion returns the sub-domain where g > 0 (strict) or g >= 0.
func (r *DomainResolver) signRegion(g symbolic.Expr, strict bool) (Domain, error) {
	if !dependsOnVar(g, r.varName) {
		v, evalOK := g.Eval(nil)
		if !evalOK {
			return Domain{}, newError(KindEvaluation, "constant constraint unevaluable")
		}
		if v > 0 || (!strict && v == 0) {
			return FullLine(), nil
		}
		return EmptyDomain(), nil
	}

	roots, err := r.solver.Roots(g)
	if err != nil {
		return Domain{}, err
	}

	bounds := append([]float64{math.Inf(-1)}, roots...)
	bounds = append(bounds, math.Inf(1))
	out := []Interval{}
	for i := 0; i+1 < len(bounds); i++ {
		iv := Interval{Start: bounds[i], End: bounds[i+1], LeftOpen: true, RightOpen: true}
		if iv.IsEmpty() {
			continue
		}
		v, evalOK := g.Eval(map[string]float64{r.varName: iv.Representative()})
		if !evalOK || v <= 0 {
			continue
		}
		if !strict {
			if !math.IsInf(iv.Start, 0) {
				iv.LeftOpen = false
			}
			if !math.IsInf(iv.End, 0) {
				iv.RightOpen = false
			}
		}
		out = append(out, iv)
	}
	if !strict {
		// Isolated zeros between negative regions still belong to g >= 0.
		for _, root := range roots {
			out = append(out, Interval{Start: root, End: root})
		}
	}
	return NewDomain(out), nil
}

// fallback applies the rational-function rule, defaulting to the full line.
func (r *DomainResolver) fallback(e symbolic.Expr) Domain {
	num, den := symbolic.Ratio(e)
	if n, isNum := den.(*symbolic.Number); isNum && n.IsOne() {
		return FullLine()
	}
	if _, isPoly := symbolic.Degree(den, r.varName); !isPoly {
		return FullLine()
	}
	roots, err := r.solver.Roots(den)
	if err != nil {
		return FullLine()
	}
	excluded := []float64{}
	for _, root := range roots {
		nv, evalOK := num.Eval(map[string]float64{r.varName: root})
		if !evalOK || math.Abs(nv) >= Tolerance {
			excluded = append(excluded, root)
		}
	}
	return FullLine().ExcludePoints(excluded)
}

func dependsOnVar(e symbolic.Expr, name string) bool {
	_, found := symbolic.FreeSymbols(e)[name]
	return found
}
