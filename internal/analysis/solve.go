package analysis

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/curvelab/backend/internal/symbolic"
)

// DefaultSearchWindow bounds numeric root search for non-polynomial
// expressions. Roots outside it are not reported.
const (
	DefaultSearchLo = -10.0
	DefaultSearchHi = 10.0
)

const (
	scanSamples      = 2001
	bisectIterations = 80
	residualZero     = 1e-12
)

// Solver finds real roots of expressions in one variable. Polynomials are
// solved exactly up to degree two and via companion-matrix eigenvalues
// beyond; everything else is sampled over the search window with
// bisection refinement, so only window-local roots are found.
type Solver struct {
	varName string
	lo, hi  float64
}

// NewSolver creates a solver over the given search window.
func NewSolver(varName string, lo, hi float64) *Solver {
	if lo >= hi {
		lo, hi = DefaultSearchLo, DefaultSearchHi
	}
	return &Solver{varName: varName, lo: lo, hi: hi}
}

// Roots returns the sorted, deduplicated real roots of e. Polynomial
// roots are global; other roots are limited to the search window.
func (s *Solver) Roots(e symbolic.Expr) ([]float64, error) {
	e = e.Simplify()
	if symbolic.IsZero(e) {
		return nil, newError(KindSolver, "expression is identically zero")
	}
	if !dependsOnVar(e, s.varName) {
		return []float64{}, nil
	}
	if coeffs, isPoly := symbolic.Coeffs(e, s.varName); isPoly {
		return s.polyRoots(coeffs)
	}
	return s.scanRoots(e)
}

// RootsIn filters Roots down to the given domain, with boundary
// tolerance on closed endpoints.
func (s *Solver) RootsIn(e symbolic.Expr, dom Domain) ([]float64, error) {
	roots, err := s.Roots(e)
	if err != nil {
		return nil, err
	}
	kept := []float64{}
	for _, root := range roots {
		if dom.Contains(root) {
			kept = append(kept, root)
		}
	}
	return kept, nil
}

func (s *Solver) polyRoots(coeffs []float64) ([]float64, error) {
	// Trim trailing (highest-degree) zeros.
	n := len(coeffs)
	for n > 0 && coeffs[n-1] == 0 {
		n--
	}
	coeffs = coeffs[:n]

	switch len(coeffs) {
	case 0:
		return nil, newError(KindSolver, "expression is identically zero")
	case 1:
		return []float64{}, nil
	case 2:
		return []float64{-coeffs[0] / coeffs[1]}, nil
	case 3:
		return quadraticRoots(coeffs[0], coeffs[1], coeffs[2]), nil
	}
	return companionRoots(coeffs)
}

// quadraticRoots solves c + b*x + a*x^2 = 0 with the numerically stable
// form of the quadratic formula.
func quadraticRoots(c, b, a float64) []float64 {
	disc := b*b - 4*a*c
	if disc < 0 {
		if disc > -Tolerance*math.Max(1, b*b) {
			return []float64{-b / (2 * a)}
		}
		return []float64{}
	}
	if disc == 0 {
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(disc)
	var q float64
	if b >= 0 {
		q = -(b + sq) / 2
	} else {
		q = -(b - sq) / 2
	}
	r1 := q / a
	r2 := c / q
	return clusterPoints([]float64{r1, r2})
}

// companionRoots extracts the real eigenvalues of the monic companion
// matrix of the polynomial, which are exactly its roots.
func companionRoots(coeffs []float64) ([]float64, error) {
	deg := len(coeffs) - 1
	lead := coeffs[deg]
	m := mat.NewDense(deg, deg, nil)
	for i := 1; i < deg; i++ {
		m.Set(i, i-1, 1)
	}
	for i := 0; i < deg; i++ {
		m.Set(i, deg-1, -coeffs[i]/lead)
	}

	var eig mat.Eigen
	if !eig.Factorize(m, mat.EigenNone) {
		return nil, newError(KindSolver, "eigenvalue factorization failed for degree %d polynomial", deg)
	}
	roots := []float64{}
	for _, v := range eig.Values(nil) {
		if math.Abs(imag(v)) <= 1e-8*math.Max(1, math.Abs(real(v))) {
			roots = append(roots, real(v))
		}
	}
	return clusterPoints(roots), nil
}

// scanRoots samples e uniformly over the window and refines every sign
// change by bisection. Sample points with a vanishing residual are
// accepted directly, which catches tangential roots.
func (s *Solver) scanRoots(e symbolic.Expr) ([]float64, error) {
	step := (s.hi - s.lo) / float64(scanSamples-1)
	roots := []float64{}
	evaluable := 0

	prevX := math.NaN()
	prevV := math.NaN()
	prevOK := false
	for i := 0; i < scanSamples; i++ {
		x := s.lo + float64(i)*step
		v, valueOK := e.Eval(map[string]float64{s.varName: x})
		if valueOK && (math.IsNaN(v) || math.IsInf(v, 0)) {
			valueOK = false
		}
		if valueOK {
			evaluable++
			if math.Abs(v) <= residualZero {
				roots = append(roots, x)
			} else if prevOK && math.Abs(prevV) > residualZero && (v < 0) != (prevV < 0) {
				if root, found := s.bisect(e, prevX, x, prevV); found {
					roots = append(roots, root)
				}
			}
		}
		prevX, prevV, prevOK = x, v, valueOK
	}

	if evaluable == 0 {
		return nil, newError(KindSolver, "expression is not evaluable anywhere in the search window")
	}
	return clusterPoints(roots), nil
}

func (s *Solver) bisect(e symbolic.Expr, lo, hi, loVal float64) (float64, bool) {
	loNeg := loVal < 0
	for i := 0; i < bisectIterations && hi-lo > 1e-14*math.Max(1, math.Abs(lo)); i++ {
		mid := (lo + hi) / 2
		v, valueOK := e.Eval(map[string]float64{s.varName: mid})
		if !valueOK || math.IsNaN(v) {
			return 0, false
		}
		if math.Abs(v) <= residualZero {
			return mid, true
		}
		if (v < 0) == loNeg {
			lo = mid
		} else {
			hi = mid
		}
	}
	mid := (lo + hi) / 2

	// A sign flip across a pole is not a root. Keep only candidates whose
	// residual actually collapses near the midpoint.
	v, valueOK := e.Eval(map[string]float64{s.varName: mid})
	if !valueOK || math.IsNaN(v) || math.Abs(v) > 1e-6 {
		return 0, false
	}
	return mid, true
}
