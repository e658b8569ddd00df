package indicator

import "math"

// stdDevFloor keeps standardization away from division blow-up when the
// train window is degenerate (constant prices).
const stdDevFloor = 1e-8

// ZClip bounds standardized scores to limit outlier influence on the
// probabilities derived from them.
const ZClip = 3.0

// TrainStats holds the mean and standard deviation of the delta series over
// a train range. It must be recomputed whenever the smoothing parameter
// changes, because the delta distribution shifts with it.
type TrainStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ComputeTrainStats computes mean/stdDev of series restricted to
// [start, end). A range with one bar or fewer defaults to (0, 1) so the
// caller can standardize without special cases.
func ComputeTrainStats(series []float64, start, end int) TrainStats {
	if start < 0 {
		start = 0
	}
	if end > len(series) {
		end = len(series)
	}
	n := end - start
	if n <= 1 {
		return TrainStats{Mean: 0, StdDev: 1}
	}

	var sum float64
	for _, v := range series[start:end] {
		sum += v
	}
	mean := sum / float64(n)

	var variance float64
	for _, v := range series[start:end] {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(n))
	if std < stdDevFloor {
		std = stdDevFloor
	}

	return TrainStats{Mean: mean, StdDev: std}
}

// ZScores standardizes a series with the given train statistics and clips
// every score to [-ZClip, ZClip].
func ZScores(series []float64, stats TrainStats) []float64 {
	out := make([]float64, len(series))
	for t, v := range series {
		z := (v - stats.Mean) / stats.StdDev
		if z > ZClip {
			z = ZClip
		} else if z < -ZClip {
			z = -ZClip
		}
		out[t] = z
	}
	return out
}
