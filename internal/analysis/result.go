package analysis

import (
	"fmt"
	"time"
)

// ErrorKind classifies analysis failures.
type ErrorKind string

const (
	// KindParse marks malformed or unsupported input; fatal for the whole
	// analysis.
	KindParse ErrorKind = "parse_error"
	// KindEvaluation marks an undefined numeric substitution (complex
	// result, division by zero, domain violation).
	KindEvaluation ErrorKind = "evaluation_error"
	// KindSolver marks a construct the root finder or limit machinery
	// cannot resolve.
	KindSolver ErrorKind = "solver_error"
	// KindClassification marks an inconclusive derivative test for a
	// specific candidate point.
	KindClassification ErrorKind = "classification_ambiguous"
)

// Error is a scoped analysis failure. Every section of AnalysisResult
// carries at most one; only KindParse aborts the analysis.
type Error struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Section is a tagged per-analysis result: either a value or a scoped
// error, never both. Consumers must check Err before reading Value.
type Section[T any] struct {
	Value T      `json:"value,omitempty"`
	Err   *Error `json:"error,omitempty"`
}

// Ok reports whether the section holds a usable value.
func (s Section[T]) Ok() bool { return s.Err == nil }

func ok[T any](v T) Section[T]          { return Section[T]{Value: v} }
func fail[T any](err *Error) Section[T] { return Section[T]{Err: err} }

// PointKind classifies a critical point.
type PointKind string

const (
	PointMin          PointKind = "min"
	PointMax          PointKind = "max"
	PointUnclassified PointKind = "unclassified"
)

// ClassifiedPoint is a critical point with its function value, when the
// function is evaluable there.
type ClassifiedPoint struct {
	X    float64   `json:"x"`
	Y    *float64  `json:"y,omitempty"`
	Kind PointKind `json:"kind"`
}

// ObliqueAsymptote is the line y = Slope*x + Intercept.
type ObliqueAsymptote struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// Asymptotes aggregates every asymptote of the function.
type Asymptotes struct {
	Vertical   []float64          `json:"vertical"`
	Horizontal []float64          `json:"horizontal"`
	Oblique    []ObliqueAsymptote `json:"oblique"`
}

// Symmetry is the even/odd classification of the function.
type Symmetry string

const (
	SymmetryEven    Symmetry = "even"
	SymmetryOdd     Symmetry = "odd"
	SymmetryNeither Symmetry = "neither"
	// SymmetryUndetermined is reported when simplification cannot decide;
	// it is never silently folded into "neither".
	SymmetryUndetermined Symmetry = "undetermined"
)

// Monotonicity holds the merged increasing/decreasing intervals.
type Monotonicity struct {
	Increasing []Interval `json:"increasing"`
	Decreasing []Interval `json:"decreasing"`
}

// Concavity holds the merged concave-up/concave-down intervals.
type Concavity struct {
	ConcaveUp   []Interval `json:"concave_up"`
	ConcaveDown []Interval `json:"concave_down"`
}

// DerivativeInfo is the rendered form of a derivative expression.
type DerivativeInfo struct {
	Expression string `json:"expression"`
	LaTeX      string `json:"latex"`
}

// Status is the overall outcome of an analysis run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// AnalysisResult is one immutable snapshot produced by Analyzer.Analyze.
// Every section may carry a scoped error instead of a value.
type AnalysisResult struct {
	ID         string             `json:"id"`
	Status     Status             `json:"status"`
	Timestamp  time.Time          `json:"timestamp"`
	Expression string             `json:"expression"`
	Parameters map[string]float64 `json:"parameters,omitempty"`

	// Err is set only for a fatal parse failure (Status == StatusFailed).
	Err *Error `json:"error,omitempty"`

	Domain           Section[Domain]            `json:"domain"`
	XIntercepts      Section[[]float64]         `json:"x_intercepts"`
	YIntercept       Section[*float64]          `json:"y_intercept"`
	Symmetry         Section[Symmetry]          `json:"symmetry"`
	Asymptotes       Section[Asymptotes]        `json:"asymptotes"`
	CriticalPoints   Section[[]ClassifiedPoint] `json:"critical_points"`
	InflectionPoints Section[[]float64]         `json:"inflection_points"`
	Monotonicity     Section[Monotonicity]      `json:"monotonicity"`
	Concavity        Section[Concavity]         `json:"concavity"`
	FirstDerivative  Section[DerivativeInfo]    `json:"first_derivative"`
	SecondDerivative Section[DerivativeInfo]    `json:"second_derivative"`

	// SampleEvaluations holds f at a few fixed probe points for display.
	SampleEvaluations map[string]float64 `json:"sample_evaluations,omitempty"`
}

// FailedSections lists the degraded sections of a completed result by
// name. Empty for a fully clean analysis.
func (r *AnalysisResult) FailedSections() map[string]*Error {
	out := map[string]*Error{}
	collect := func(name string, err *Error) {
		if err != nil {
			out[name] = err
		}
	}
	collect("domain", r.Domain.Err)
	collect("x_intercepts", r.XIntercepts.Err)
	collect("y_intercept", r.YIntercept.Err)
	collect("symmetry", r.Symmetry.Err)
	collect("asymptotes", r.Asymptotes.Err)
	collect("critical_points", r.CriticalPoints.Err)
	collect("inflection_points", r.InflectionPoints.Err)
	collect("monotonicity", r.Monotonicity.Err)
	collect("concavity", r.Concavity.Err)
	collect("first_derivative", r.FirstDerivative.Err)
	collect("second_derivative", r.SecondDerivative.Err)
	return out
}

// Summary is the condensed view of an AnalysisResult.
type Summary struct {
	Expression              string   `json:"expression"`
	Domain                  string   `json:"domain"`
	Symmetry                Symmetry `json:"symmetry"`
	CriticalPointCount      int      `json:"critical_point_count"`
	InflectionPointCount    int      `json:"inflection_point_count"`
	HasVerticalAsymptotes   bool     `json:"has_vertical_asymptotes"`
	HasHorizontalAsymptotes bool     `json:"has_horizontal_asymptotes"`
	YIntercept              *float64 `json:"y_intercept,omitempty"`
	FirstDerivative         string   `json:"first_derivative"`
	SecondDerivative        string   `json:"second_derivative"`
}

// Summarize condenses a full result into its headline facts.
func (r *AnalysisResult) Summarize() Summary {
	s := Summary{
		Expression: r.Expression,
		Symmetry:   SymmetryUndetermined,
	}
	if r.Domain.Ok() {
		s.Domain = r.Domain.Value.String()
	}
	if r.Symmetry.Ok() {
		s.Symmetry = r.Symmetry.Value
	}
	if r.CriticalPoints.Ok() {
		s.CriticalPointCount = len(r.CriticalPoints.Value)
	}
	if r.InflectionPoints.Ok() {
		s.InflectionPointCount = len(r.InflectionPoints.Value)
	}
	if r.Asymptotes.Ok() {
		s.HasVerticalAsymptotes = len(r.Asymptotes.Value.Vertical) > 0
		s.HasHorizontalAsymptotes = len(r.Asymptotes.Value.Horizontal) > 0
	}
	if r.YIntercept.Ok() {
		s.YIntercept = r.YIntercept.Value
	}
	if r.FirstDerivative.Ok() {
		s.FirstDerivative = r.FirstDerivative.Value.Expression
	}
	if r.SecondDerivative.Ok() {
		s.SecondDerivative = r.SecondDerivative.Value.Expression
	}
	return s
}
