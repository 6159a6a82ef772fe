package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCandidates(t *testing.T) {
	openInterval := func(start, end float64) Interval {
		return Interval{Start: start, End: end, LeftOpen: true, RightOpen: true}
	}

	t.Run("Candidate outside the graph is dropped", func(t *testing.T) {
		f, err := NewFunction("1/x")
		require.NoError(t, err)

		classified := []classifiedInterval{
			{Interval: openInterval(math.Inf(-1), 0), Class: SignNegative},
			{Interval: openInterval(0, math.Inf(1)), Class: SignPositive},
		}
		points := classifyCandidates(f, []float64{0}, classified)
		assert.Empty(t, points)
	})

	t.Run("Kept points always carry a value", func(t *testing.T) {
		f, err := NewFunction("x^2")
		require.NoError(t, err)

		classified := []classifiedInterval{
			{Interval: openInterval(math.Inf(-1), 0), Class: SignNegative},
			{Interval: openInterval(0, math.Inf(1)), Class: SignPositive},
		}
		points := classifyCandidates(f, []float64{0}, classified)
		require.Len(t, points, 1)
		assert.Equal(t, PointMin, points[0].Kind)
		require.NotNil(t, points[0].Y)
		assert.InDelta(t, 0.0, *points[0].Y, 1e-12)
	})
}
