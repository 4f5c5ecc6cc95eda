package util

import (
	"golang.org/x/exp/constraints"
)

// Avg calculates the average of all values in the given array
func Avg(values []float64) float64 {
	sum := 0.0
	for i := 0; i < len(values); i++ {
		sum += values[i]
	}
	return sum / (float64(len(values)))
}

// Coerce returns a value that is at least min and at most max
func Coerce[T constraints.Ordered](value, min, max T) T {
	if value > max {
		return max
	}
	if value < min {
		return min
	}
	return value
}
