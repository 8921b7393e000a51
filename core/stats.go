package core

import (
	"math"
	"sort"
)

// statEps is the scale below which a MAD or standard deviation is treated
// as zero when computing robust z-scores.
const statEps = 1e-9

// isMissing reports whether a sample is a missing-value sentinel.
func isMissing(x float64) bool { return math.IsNaN(x) }

// median returns the median of the non-missing samples in xs, or NaN when
// none are present.
func median(xs []float64) float64 {
	valid := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !isMissing(x) {
			valid = append(valid, x)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}
	sort.Float64s(valid)
	n := len(valid)
	if n%2 == 1 {
		return valid[n/2]
	}
	return (valid[n/2-1] + valid[n/2]) / 2
}

// rollingMedian computes a centered rolling median with the given window,
// requiring at least one valid sample per position. Missing samples inside
// a window are ignored; a window with no valid samples yields NaN.
func rollingMedian(xs []float64, window int) []float64 {
	out := make([]float64, len(xs))
	half := window / 2
	for i := range xs {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(xs) {
			hi = len(xs)
		}
		out[i] = median(xs[lo:hi])
	}
	return out
}

// mean returns the arithmetic mean of xs, or NaN for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStd returns the sample standard deviation (n−1 denominator) of xs.
// Fewer than two samples yield 0.
func sampleStd(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}

// popStd returns the population standard deviation (n denominator) of xs.
func popStd(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)))
}

// madZScores computes robust z-scores via the median absolute deviation,
// z = 0.6745·(x−med)/mad. When the MAD degenerates (below statEps) it falls
// back to the classic (x−mean)/std score, and when the deviation is likewise
// negligible every score is zero.
func madZScores(xs []float64) []float64 {
	out := make([]float64, len(xs))
	med := median(xs)

	devs := make([]float64, len(xs))
	for i, x := range xs {
		devs[i] = math.Abs(x - med)
	}
	mad := median(devs)

	if isMissing(mad) || mad < statEps {
		m := mean(xs)
		sd := popStd(xs)
		if isMissing(sd) || sd < statEps {
			return out
		}
		for i, x := range xs {
			out[i] = (x - m) / sd
		}
		return out
	}

	for i, x := range xs {
		out[i] = 0.6745 * (x - med) / mad
	}
	return out
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
