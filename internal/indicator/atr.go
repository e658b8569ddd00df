package indicator

import (
	"math"

	"github.com/quantfold/quantfold/internal/core"
)

// TrueRange computes the per-bar true range:
//
//	max(high-low, |high-prevClose|, |low-prevClose|)
//
// The first bar has no previous close and uses high-low alone.
func TrueRange(candles []core.Candle) []float64 {
	out := make([]float64, len(candles))
	for t, c := range candles {
		tr := c.High - c.Low
		if t > 0 {
			prev := candles[t-1].Close
			if hc := math.Abs(c.High - prev); hc > tr {
				tr = hc
			}
			if lc := math.Abs(c.Low - prev); lc > tr {
				tr = lc
			}
		}
		out[t] = tr
	}
	return out
}

// ATR computes Wilder's average true range: seeded with a simple average
// over the first period bars, then exponentially smoothed with weight
// 1/period. Bars before the seed completes carry the running average of the
// true ranges seen so far.
func ATR(candles []core.Candle, period int) []float64 {
	if period < 1 {
		period = 1
	}

	tr := TrueRange(candles)
	out := make([]float64, len(tr))

	var sum float64
	for t := range tr {
		if t < period {
			sum += tr[t]
			out[t] = sum / float64(t+1)
			continue
		}
		out[t] = (out[t-1]*float64(period-1) + tr[t]) / float64(period)
	}
	return out
}
