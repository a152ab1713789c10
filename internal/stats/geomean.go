package stats

import "math"

// Weighted is a value paired with the weight it carries in a mean.
type Weighted struct {
	Value  float64
	Weight float64
}

// WeightedGeometricMean returns exp(Σ w·ln(v) / Σ w).
// Non-positive values are skipped because their logarithm is undefined.
// Returns 0 when nothing usable is left or the weights sum to zero.
func WeightedGeometricMean(values []Weighted) float64 {
	var logSum, weightSum float64
	for _, v := range values {
		if v.Value <= 0 {
			continue
		}
		logSum += v.Weight * math.Log(v.Value)
		weightSum += v.Weight
	}

	if weightSum <= 0 {
		return 0
	}

	result := math.Exp(logSum / weightSum)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}

// GeometricMean is WeightedGeometricMean with every value weighted equally.
func GeometricMean(values []float64) float64 {
	weighted := make([]Weighted, len(values))
	for i, v := range values {
		weighted[i] = Weighted{Value: v, Weight: 1}
	}
	return WeightedGeometricMean(weighted)
}
