package unit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvelab/backend/internal/providers/analysis"
	"github.com/curvelab/backend/tests/helpers/testutil"
)

func TestAnalysisProvider(t *testing.T) {
	provider := analysis.NewProvider(nil)
	ctx := context.Background()

	t.Run("Definition", func(t *testing.T) {
		def := provider.Definition()
		assert.Equal(t, "analysis", def.ID)
		assert.Len(t, def.Tools, 4)

		ids := make([]string, 0, len(def.Tools))
		for _, tool := range def.Tools {
			ids = append(ids, tool.ID)
		}
		assert.Contains(t, ids, "analysis.analyze")
		assert.Contains(t, ids, "analysis.summary")
		assert.Contains(t, ids, "analysis.derivative")
		assert.Contains(t, ids, "analysis.evaluate")
	})

	t.Run("Analyze", func(t *testing.T) {
		t.Run("Parabola", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.analyze", map[string]interface{}{
				"expression": "x^2 - 2*x + 1",
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, "completed", result.Data["status"])
			assert.Equal(t, "x^2 - 2*x + 1", result.Data["expression"])

			symmetry, okSym := result.Data["symmetry"].(map[string]interface{})
			require.True(t, okSym)
			assert.Equal(t, "neither", symmetry["value"])
		})

		t.Run("With parameter bindings", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.analyze", map[string]interface{}{
				"expression": "a*x^2",
				"parameters": map[string]interface{}{"a": 2.0},
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, "completed", result.Data["status"])
		})

		t.Run("Malformed expression", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.analyze", map[string]interface{}{
				"expression": "x +* 2",
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
			// The failed analysis document is still included.
			assert.Equal(t, "failed", result.Data["status"])
		})

		t.Run("Unknown binding", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.analyze", map[string]interface{}{
				"expression": "a*x",
				"parameters": map[string]interface{}{"q": 1.0},
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})

		t.Run("Missing expression", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.analyze", map[string]interface{}{}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})

		t.Run("Non-numeric binding", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.analyze", map[string]interface{}{
				"expression": "a*x",
				"parameters": map[string]interface{}{"a": "two"},
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})
	})

	t.Run("Summary", func(t *testing.T) {
		t.Run("Reciprocal shifted", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.summary", map[string]interface{}{
				"expression": "1/(x-2)",
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, true, result.Data["has_vertical_asymptotes"])
			assert.Equal(t, true, result.Data["has_horizontal_asymptotes"])
			assert.Equal(t, 0.0, result.Data["critical_point_count"])
		})

		t.Run("Malformed expression", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.summary", map[string]interface{}{
				"expression": "2x",
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})
	})

	t.Run("Derivative", func(t *testing.T) {
		t.Run("Default order", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.derivative", map[string]interface{}{
				"expression": "x^3",
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, "3*x^2", result.Data["expression"])
			assert.Equal(t, 1.0, result.Data["order"])
		})

		t.Run("Second order", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.derivative", map[string]interface{}{
				"expression": "x^3",
				"order":      2,
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, "6*x", result.Data["expression"])
		})

		t.Run("Order zero returns the function", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.derivative", map[string]interface{}{
				"expression": "sin(x)",
				"order":      0,
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, "sin(x)", result.Data["expression"])
		})

		t.Run("Fractional order rejected", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.derivative", map[string]interface{}{
				"expression": "x^2",
				"order":      1.5,
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})

		t.Run("Negative order rejected", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.derivative", map[string]interface{}{
				"expression": "x^2",
				"order":      -1,
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})
	})

	t.Run("Evaluate", func(t *testing.T) {
		t.Run("At a point", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.evaluate", map[string]interface{}{
				"expression": "x^2 + 1",
				"x":          3.0,
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, 10.0, result.Data["result"])
		})

		t.Run("With bindings", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.evaluate", map[string]interface{}{
				"expression": "a*x + b",
				"parameters": map[string]interface{}{"a": 2.0, "b": 1.0},
				"x":          4.0,
			}, nil)
			require.NoError(t, err)
			testutil.AssertSuccess(t, result)
			assert.Equal(t, 9.0, result.Data["result"])
		})

		t.Run("Undefined point", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.evaluate", map[string]interface{}{
				"expression": "1/x",
				"x":          0.0,
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})

		t.Run("Missing x", func(t *testing.T) {
			result, err := provider.Execute(ctx, "analysis.evaluate", map[string]interface{}{
				"expression": "x^2",
			}, nil)
			require.NoError(t, err)
			testutil.AssertError(t, result)
		})
	})

	t.Run("Unknown tool", func(t *testing.T) {
		result, err := provider.Execute(ctx, "analysis.bogus", map[string]interface{}{
			"expression": "x",
		}, nil)
		require.NoError(t, err)
		testutil.AssertError(t, result)
	})
}
