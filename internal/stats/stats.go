// Package stats implements the descriptive statistics, regression,
// decomposition, and smoothing primitives used by the analytics engine.
package stats

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of values.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// CoefficientOfVariation returns std/mean, or 0 when the mean is 0.
func CoefficientOfVariation(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return StdDev(values) / mean
}

// ZScores returns the z-score of every value against the whole slice.
// A constant series yields all zeros.
func ZScores(values []float64) []float64 {
	scores := make([]float64, len(values))
	std := StdDev(values)
	if std == 0 {
		return scores
	}
	mean := Mean(values)
	for i, v := range values {
		scores[i] = (v - mean) / std
	}
	return scores
}

// Percentile returns the q-th percentile (0-100) of values using linear
// interpolation between closest ranks.
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 100 {
		return sorted[len(sorted)-1]
	}

	rank := q / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}

// PercentileRank returns the percentage of values less than or equal to v.
func PercentileRank(values []float64, v float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, x := range values {
		if x <= v {
			count++
		}
	}
	return float64(count) / float64(len(values)) * 100
}

// RollingStd returns the mean of the standard deviations computed over a
// sliding window. Series shorter than the window yield a single full-series
// std.
func RollingStd(values []float64, window int) float64 {
	if len(values) == 0 || window <= 0 {
		return 0
	}
	if len(values) <= window {
		return StdDev(values)
	}
	sum := 0.0
	n := 0
	for i := 0; i+window <= len(values); i++ {
		sum += StdDev(values[i : i+window])
		n++
	}
	return sum / float64(n)
}
