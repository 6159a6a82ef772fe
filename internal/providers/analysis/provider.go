package analysis

import (
	"context"
	"fmt"
	"sync"
	"time"

	engine "github.com/curvelab/backend/internal/analysis"
	"github.com/curvelab/backend/internal/logging"
	"github.com/curvelab/backend/internal/monitoring"
	"github.com/curvelab/backend/internal/shared/types"
	"github.com/curvelab/backend/internal/shared/utils"
)

// analysisCacheSize bounds the memoized result set. Analysis is
// deterministic, so identical expression and bindings reuse the
// completed document.
const analysisCacheSize = 128

// Provider exposes the function analysis engine as a service
type Provider struct {
	analyzer *engine.Analyzer
	metrics  *monitoring.Metrics
	hasher   *utils.Hasher

	cacheMu sync.Mutex
	cache   map[string]*engine.AnalysisResult
}

// NewProvider creates an analysis provider
func NewProvider(log *logging.Logger) *Provider {
	return &Provider{
		analyzer: engine.NewAnalyzer(log),
		hasher:   utils.DefaultHasher(),
		cache:    make(map[string]*engine.AnalysisResult),
	}
}

// NewProviderWithWindow creates a provider with a custom root search window
func NewProviderWithWindow(log *logging.Logger, lo, hi float64) *Provider {
	return &Provider{
		analyzer: engine.NewAnalyzerWithWindow(log, lo, hi),
		hasher:   utils.DefaultHasher(),
		cache:    make(map[string]*engine.AnalysisResult),
	}
}

// WithMetrics attaches a metrics collector
func (p *Provider) WithMetrics(m *monitoring.Metrics) *Provider {
	p.metrics = m
	return p
}

var parameterDefs = []types.Parameter{
	{Name: "expression", Type: "string", Description: "Function of x, e.g. a*x^2 + b*x + c", Required: true},
	{Name: "parameters", Type: "object", Description: "Free parameter bindings, name to number", Required: false},
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "analysis",
		Name:        "Function Analysis Service",
		Description: "Full qualitative analysis of single-variable real functions",
		Category:    types.CategoryAnalysis,
		Capabilities: []string{
			"domain",
			"intercepts",
			"symmetry",
			"asymptotes",
			"critical_points",
			"monotonicity",
			"concavity",
			"derivatives",
		},
		Tools: []types.Tool{
			{
				ID:          "analysis.analyze",
				Name:        "Analyze Function",
				Description: "Run the full analysis pipeline over an expression",
				Parameters:  parameterDefs,
				Returns:     "object",
			},
			{
				ID:          "analysis.summary",
				Name:        "Summarize Function",
				Description: "Condensed headline facts of a full analysis",
				Parameters:  parameterDefs,
				Returns:     "object",
			},
			{
				ID:          "analysis.derivative",
				Name:        "Symbolic Derivative",
				Description: "Derivative of the given order as text and LaTeX",
				Parameters: append([]types.Parameter{
					{Name: "order", Type: "number", Description: "Derivative order, default 1", Required: false},
				}, parameterDefs...),
				Returns: "object",
			},
			{
				ID:          "analysis.evaluate",
				Name:        "Evaluate Function",
				Description: "Numeric value of the expression at a point",
				Parameters: append([]types.Parameter{
					{Name: "x", Type: "number", Description: "Evaluation point", Required: true},
				}, parameterDefs...),
				Returns: "number",
			},
		},
	}
}

// Execute routes to the requested tool
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if err := ctx.Err(); err != nil {
		return Failure(fmt.Sprintf("request cancelled: %v", err))
	}

	var timer *monitoring.Timer
	if p.metrics != nil {
		timer = monitoring.NewTimer(p.metrics, "analysis", toolID)
	}
	result, err := p.dispatch(toolID, params)
	if timer != nil {
		status := "success"
		if result == nil || !result.Success {
			status = "error"
		}
		timer.Stop(status)
	}
	return result, err
}

func (p *Provider) dispatch(toolID string, params map[string]interface{}) (*types.Result, error) {
	switch toolID {
	case "analysis.analyze":
		return p.analyze(params)
	case "analysis.summary":
		return p.summary(params)
	case "analysis.derivative":
		return p.derivative(params)
	case "analysis.evaluate":
		return p.evaluate(params)
	default:
		return Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) run(params map[string]interface{}) (*engine.AnalysisResult, *types.Result, error) {
	expr, bindings, verr := p.input(params)
	if verr != nil {
		r, e := Failure(verr.Error())
		return nil, r, e
	}

	key := p.hasher.Fingerprint(expr, bindings)
	if cached := p.lookup(key); cached != nil {
		return cached, nil, nil
	}

	start := time.Now()
	result := p.analyzer.AnalyzeExpression(expr, bindings)
	if p.metrics != nil {
		p.metrics.RecordAnalysis(string(result.Status), time.Since(start))
		for section, serr := range result.FailedSections() {
			p.metrics.RecordSectionError(section, string(serr.Kind))
		}
	}
	if result.Status == engine.StatusCompleted {
		p.store(key, result)
	}
	return result, nil, nil
}

// input extracts and validates the expression and bindings parameters.
func (p *Provider) input(params map[string]interface{}) (string, map[string]float64, error) {
	expr, err := getString(params, "expression")
	if err != nil {
		return "", nil, err
	}
	if verr := utils.ValidateExpression(expr); verr != nil {
		return "", nil, verr
	}
	bindings, err := getBindings(params)
	if err != nil {
		return "", nil, err
	}
	if verr := utils.ValidateBindings(bindings); verr != nil {
		return "", nil, verr
	}
	return expr, bindings, nil
}

func (p *Provider) lookup(key string) *engine.AnalysisResult {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	return p.cache[key]
}

func (p *Provider) store(key string, result *engine.AnalysisResult) {
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	if len(p.cache) >= analysisCacheSize {
		// Full reset beats tracking recency for a cache this small.
		p.cache = make(map[string]*engine.AnalysisResult)
	}
	p.cache[key] = result
}

func (p *Provider) analyze(params map[string]interface{}) (*types.Result, error) {
	result, failed, err := p.run(params)
	if failed != nil {
		return failed, err
	}

	data, merr := toMap(result)
	if merr != nil {
		return Failure(fmt.Sprintf("failed to serialize result: %v", merr))
	}
	if result.Status == engine.StatusFailed {
		// The failed document is still returned so callers see the scoped
		// error taxonomy, not just a message.
		return &types.Result{Success: false, Data: data, Error: &result.Err.Message}, nil
	}
	return Success(data)
}

func (p *Provider) summary(params map[string]interface{}) (*types.Result, error) {
	result, failed, err := p.run(params)
	if failed != nil {
		return failed, err
	}
	if result.Status == engine.StatusFailed {
		return Failure(result.Err.Message)
	}

	data, merr := toMap(result.Summarize())
	if merr != nil {
		return Failure(fmt.Sprintf("failed to serialize summary: %v", merr))
	}
	return Success(data)
}

func (p *Provider) derivative(params map[string]interface{}) (*types.Result, error) {
	expr, bindings, err := p.input(params)
	if err != nil {
		return Failure(err.Error())
	}

	order := 1
	if raw, present := params["order"]; present {
		v, numeric := getFloat(raw)
		if !numeric || v != float64(int(v)) || v < 0 {
			return Failure("order must be a non-negative integer")
		}
		order = int(v)
	}

	f, ferr := engine.NewFunction(expr)
	if ferr != nil {
		return Failure(ferr.Error())
	}
	if berr := f.BindAll(bindings); berr != nil {
		return Failure(berr.Error())
	}

	d, derr := f.Calculator().Derivative(order)
	if derr != nil {
		return Failure(derr.Error())
	}
	// Numbers travel as float64 in result payloads, same as JSON decoding.
	return Success(map[string]interface{}{
		"expression": d.String(),
		"latex":      d.LaTeX(),
		"order":      float64(order),
	})
}

func (p *Provider) evaluate(params map[string]interface{}) (*types.Result, error) {
	expr, bindings, err := p.input(params)
	if err != nil {
		return Failure(err.Error())
	}
	x, numeric := getFloat(params["x"])
	if !numeric {
		return Failure("x parameter required and must be numeric")
	}

	f, ferr := engine.NewFunction(expr)
	if ferr != nil {
		return Failure(ferr.Error())
	}
	if berr := f.BindAll(bindings); berr != nil {
		return Failure(berr.Error())
	}

	v, defined := f.EvalAt(x)
	if !defined {
		return Failure(fmt.Sprintf("function undefined at x = %v", x))
	}
	return Success(map[string]interface{}{"result": v, "x": x})
}
