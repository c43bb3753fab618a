package analytics

import (
	"math"
	"slices"
)

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percent computes part/total as a percentage, guarded against a zero
// denominator. Every rate in this package goes through this or Ratio so
// empty inputs yield 0 rather than NaN.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round1(float64(part) / float64(total) * 100)
}

// Ratio computes part/total as a fraction, 0 when total is 0.
func Ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total))
}

// Mean averages a slice of day counts, 0 for empty input.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return Round1(float64(sum) / float64(len(values)))
}

// MedianDiscrete finds the median of a slice of integers, working on a
// copy so the caller's data is never reordered.
func MedianDiscrete(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]int, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return float64(temp[n/2])
	}
	return float64(temp[n/2-1]+temp[n/2]) / 2.0
}
