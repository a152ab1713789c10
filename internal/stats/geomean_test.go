package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightedGeometricMean(t *testing.T) {
	t.Run("single value returns the value", func(t *testing.T) {
		for _, w := range []float64{0.25, 1, 3} {
			assert.InDelta(t, 17.0, WeightedGeometricMean([]Weighted{{Value: 17, Weight: w}}), 1e-9)
		}
	})

	t.Run("ignores non-positive values", func(t *testing.T) {
		with := WeightedGeometricMean([]Weighted{{Value: 10, Weight: 1}, {Value: 0, Weight: 0.5}, {Value: -3, Weight: 2}})
		without := WeightedGeometricMean([]Weighted{{Value: 10, Weight: 1}})
		assert.InDelta(t, without, with, 1e-12)
	})

	t.Run("all non-positive returns zero", func(t *testing.T) {
		assert.Equal(t, 0.0, WeightedGeometricMean([]Weighted{{Value: 0, Weight: 1}, {Value: -1, Weight: 1}}))
		assert.Equal(t, 0.0, WeightedGeometricMean(nil))
	})

	t.Run("zero weights return zero", func(t *testing.T) {
		assert.Equal(t, 0.0, WeightedGeometricMean([]Weighted{{Value: 5, Weight: 0}}))
	})

	t.Run("copy and unpicked weights", func(t *testing.T) {
		got := WeightedGeometricMean([]Weighted{{Value: 5, Weight: 1}, {Value: 400, Weight: 0.25}})
		want := math.Exp((math.Log(5) + 0.25*math.Log(400)) / 1.25)
		assert.InDelta(t, want, got, 1e-9)
	})
}

func TestGeometricMean(t *testing.T) {
	assert.InDelta(t, 4.0, GeometricMean([]float64{2, 8}), 1e-9)
	assert.InDelta(t, 6.0, GeometricMean([]float64{6, 0}), 1e-9)
	assert.Equal(t, 0.0, GeometricMean(nil))
}
