package corenet

import (
	"math"
	"math/rand"
)

// EqualsWithMaxDelta reports whether x and y differ by no more than
// maxDelta. Used throughout the test suite in place of exact float
// equality, since sigmoid outputs accumulate floating-point error.
func EqualsWithMaxDelta(x, y, maxDelta float64) bool {
	delta := math.Abs(x - y)
	return delta <= maxDelta
}

// RandomInRange returns a uniform random float64 in [min, max).
func RandomInRange(min, max float64) float64 {
	return rand.Float64()*(max-min) + min
}

// RandomWeights returns length weights drawn uniformly from
// [-pi, pi), the range used for freshly minted connections before any
// learning has adjusted them.
func RandomWeights(length int) []float64 {
	weights := make([]float64, 0, length)
	for i := 0; i < length; i++ {
		weights = append(weights, RandomInRange(-1*math.Pi, math.Pi))
	}
	return weights
}

// FixedWeights returns length copies of weight; handy for building a
// sensor's fan-out connections in tests without drawing randoms.
func FixedWeights(length int, weight float64) []float64 {
	weights := make([]float64, 0, length)
	for i := 0; i < length; i++ {
		weights = append(weights, weight)
	}
	return weights
}
