package analysis

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/curvelab/backend/internal/logging"
	"github.com/curvelab/backend/internal/symbolic"
)

var samplePoints = []float64{-2, -1, 0, 1, 2}

// Analyzer runs the full analysis pipeline over a Function and assembles
// an immutable AnalysisResult snapshot. Sections are isolated bulkheads:
// a failing or panicking section degrades to its own error marker while
// the rest of the result is still produced.
type Analyzer struct {
	log    *logging.Logger
	lo, hi float64
}

// NewAnalyzer creates an analyzer with the default search window.
func NewAnalyzer(log *logging.Logger) *Analyzer {
	return NewAnalyzerWithWindow(log, DefaultSearchLo, DefaultSearchHi)
}

// NewAnalyzerWithWindow creates an analyzer with a custom numeric search
// window for non-polynomial root finding.
func NewAnalyzerWithWindow(log *logging.Logger, lo, hi float64) *Analyzer {
	if log == nil {
		log = logging.NewDefault()
	}
	return &Analyzer{log: log, lo: lo, hi: hi}
}

// AnalyzeExpression parses input, applies parameter bindings, and runs
// the full analysis. A parse failure or bad binding yields a failed
// result with only Err populated.
func (a *Analyzer) AnalyzeExpression(input string, params map[string]float64) *AnalysisResult {
	f, err := NewFunction(input)
	if err != nil {
		a.log.Warn("expression rejected", zap.String("expression", input), zap.Error(err))
		return failedResult(input, err)
	}
	if err := f.BindAll(params); err != nil {
		return failedResult(input, newError(KindParse, "%v", err))
	}
	return a.Analyze(f)
}

func failedResult(input string, err error) *AnalysisResult {
	scoped, isScoped := err.(*Error)
	if !isScoped {
		scoped = newError(KindParse, "%v", err)
	}
	return &AnalysisResult{
		ID:         uuid.NewString(),
		Status:     StatusFailed,
		Timestamp:  time.Now().UTC(),
		Expression: input,
		Err:        scoped,
	}
}

// Analyze runs every section against the function's working expression.
func (a *Analyzer) Analyze(f *Function) *AnalysisResult {
	start := time.Now()
	expr := f.Working()
	calc := f.Calculator()
	solver := NewSolver(VariableName, a.lo, a.hi)
	resolver := NewDomainResolver(solver)

	result := &AnalysisResult{
		ID:         uuid.NewString(),
		Status:     StatusCompleted,
		Timestamp:  start.UTC(),
		Expression: f.Input(),
		Parameters: f.Parameters(),
	}

	result.Domain = runSection(a.log, "domain", func() (Domain, *Error) {
		return resolver.Resolve(expr), nil
	})
	dom := FullLine()
	if result.Domain.Ok() {
		dom = result.Domain.Value
	}

	result.XIntercepts = runSection(a.log, "x_intercepts", func() ([]float64, *Error) {
		roots, err := solver.RootsIn(expr, dom)
		if err != nil {
			if scoped, isScoped := err.(*Error); isScoped {
				return nil, scoped
			}
			return nil, newError(KindSolver, "%v", err)
		}
		return roots, nil
	})

	result.YIntercept = runSection(a.log, "y_intercept", func() (*float64, *Error) {
		if !dom.Contains(0) {
			return nil, nil
		}
		y, evalOK := f.EvalAt(0)
		if !evalOK {
			return nil, newError(KindEvaluation, "function undefined at x = 0")
		}
		return &y, nil
	})

	result.Symmetry = runSection(a.log, "symmetry", func() (Symmetry, *Error) {
		return detectSymmetry(expr, VariableName), nil
	})

	result.Asymptotes = runSection(a.log, "asymptotes", func() (Asymptotes, *Error) {
		return newAsymptoteDetector(solver).Detect(expr, dom)
	})

	result.FirstDerivative = derivativeSection(a.log, calc, 1)
	result.SecondDerivative = derivativeSection(a.log, calc, 2)

	definedAt := func(x float64) bool {
		_, evalOK := f.EvalAt(x)
		return evalOK
	}

	firstOrder := a.signPass(f, calc, solver, dom, 1)
	result.Monotonicity = runSection(a.log, "monotonicity", func() (Monotonicity, *Error) {
		if firstOrder.err != nil {
			return Monotonicity{}, firstOrder.err
		}
		inc, dec := mergeByClass(firstOrder.classified, definedAt)
		return Monotonicity{Increasing: orEmpty(inc), Decreasing: orEmpty(dec)}, nil
	})
	result.CriticalPoints = runSection(a.log, "critical_points", func() ([]ClassifiedPoint, *Error) {
		if firstOrder.err != nil {
			return nil, firstOrder.err
		}
		return classifyCandidates(f, firstOrder.candidates, firstOrder.classified), nil
	})

	secondOrder := a.signPass(f, calc, solver, dom, 2)
	result.Concavity = runSection(a.log, "concavity", func() (Concavity, *Error) {
		if secondOrder.err != nil {
			return Concavity{}, secondOrder.err
		}
		up, down := mergeByClass(secondOrder.classified, definedAt)
		return Concavity{ConcaveUp: orEmpty(up), ConcaveDown: orEmpty(down)}, nil
	})
	result.InflectionPoints = runSection(a.log, "inflection_points", func() ([]float64, *Error) {
		if secondOrder.err != nil {
			return nil, secondOrder.err
		}
		return inflectionPoints(secondOrder.candidates, secondOrder.classified), nil
	})

	result.SampleEvaluations = map[string]float64{}
	for _, x := range samplePoints {
		if v, evalOK := f.EvalAt(x); evalOK {
			result.SampleEvaluations[strconv.FormatFloat(x, 'g', -1, 64)] = v
		}
	}

	a.log.Debug("analysis completed",
		zap.String("analysis_id", result.ID),
		zap.String("expression", result.Expression),
		zap.Duration("duration", time.Since(start)))
	return result
}

// signPassResult carries the shared intermediates of one derivative
// order: its in-domain roots and the sign-classified test intervals.
type signPassResult struct {
	candidates []float64
	classified []classifiedInterval
	err        *Error
}

func (a *Analyzer) signPass(f *Function, calc *Calculator, solver *Solver, dom Domain, order int) signPassResult {
	d, err := calc.Derivative(order)
	if err != nil {
		scoped, isScoped := err.(*Error)
		if !isScoped {
			scoped = newError(KindEvaluation, "%v", err)
		}
		return signPassResult{err: scoped}
	}
	if symbolic.IsZero(d) {
		// Constant sections have no candidates and a uniformly zero sign.
		return signPassResult{candidates: []float64{}, classified: []classifiedInterval{}}
	}

	candidates, rootsErr := solver.RootsIn(d, dom)
	if rootsErr != nil {
		scoped, isScoped := rootsErr.(*Error)
		if !isScoped {
			scoped = newError(KindSolver, "%v", rootsErr)
		}
		return signPassResult{err: scoped}
	}
	candidates = append(candidates, derivativeGaps(f, d, solver, dom)...)
	candidates = clusterPoints(candidates)

	intervals := buildTestIntervals(dom, candidates)
	return signPassResult{
		candidates: candidates,
		classified: classifySign(d, VariableName, intervals),
	}
}

// derivativeGaps finds the candidates the root scan misses: points where
// the derivative is undefined while the function itself is defined, as in
// |x| or x^(2/3) at zero. They come from the finite boundaries of the
// derivative's own continuity domain.
func derivativeGaps(f *Function, d symbolic.Expr, solver *Solver, dom Domain) []float64 {
	gaps := []float64{}
	dDom := NewDomainResolver(solver).Resolve(d)
	for _, x0 := range dDom.FiniteBoundaries() {
		if !dom.Contains(x0) {
			continue
		}
		if _, evalOK := f.EvalAt(x0); !evalOK {
			continue
		}
		if _, evalOK := d.Eval(map[string]float64{VariableName: x0}); evalOK {
			continue
		}
		gaps = append(gaps, x0)
	}
	return gaps
}

func derivativeSection(log *logging.Logger, calc *Calculator, order int) Section[DerivativeInfo] {
	return runSection(log, "derivative", func() (DerivativeInfo, *Error) {
		d, err := calc.Derivative(order)
		if err != nil {
			scoped, isScoped := err.(*Error)
			if !isScoped {
				scoped = newError(KindEvaluation, "%v", err)
			}
			return DerivativeInfo{}, scoped
		}
		return DerivativeInfo{Expression: d.String(), LaTeX: d.LaTeX()}, nil
	})
}

// runSection executes one analysis bulkhead. A returned error or a panic
// degrades the section to an error marker without touching the others.
func runSection[T any](log *logging.Logger, name string, fn func() (T, *Error)) (out Section[T]) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("analysis section panicked",
				zap.String("section", name),
				zap.Any("cause", r))
			out = fail[T](newError(KindEvaluation, "%s computation failed: %v", name, r))
		}
	}()
	v, err := fn()
	if err != nil {
		log.Debug("analysis section degraded",
			zap.String("section", name),
			zap.String("error", err.Error()))
		return fail[T](err)
	}
	return ok(v)
}

func orEmpty(ivs []Interval) []Interval {
	if ivs == nil {
		return []Interval{}
	}
	return ivs
}
