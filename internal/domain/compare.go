package domain

import "math"

// RelativeEpsilon is the tolerance used when comparing parameter values
const RelativeEpsilon = 1e-5

// AreValuesEqual compares two values within RelativeEpsilon.
// Two NaN values are considered equal.
func AreValuesEqual(a, b float64) bool {
	return AreValuesEqualWithin(a, b, RelativeEpsilon)
}

// AreValuesEqualWithin compares two values within a relative tolerance
func AreValuesEqualWithin(a, b, epsilon float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	scale := math.Max(math.Abs(a), math.Abs(b))
	return diff <= epsilon*scale
}
