package detect

import "math"

// baselineStats returns the mean and sample standard deviation (n-1 divisor)
// of the baseline counts. A single-element baseline has stddev 0 by definition.
func baselineStats(counts []int64) (mean, stddev float64) {
	n := len(counts)
	if n == 0 {
		return 0, 0
	}

	var sum float64
	for _, c := range counts {
		sum += float64(c)
	}
	mean = sum / float64(n)

	if n == 1 {
		return mean, 0
	}

	var ss float64
	for _, c := range counts {
		d := float64(c) - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(n-1))
}
