package indicator

import (
	"math"

	"github.com/quantfold/quantfold/internal/core"
)

// EWMAVolatility computes an exponentially weighted volatility estimate from
// squared log-returns with decay theta:
//
//	v2[t] = theta*v2[t-1] + (1-theta)*r[t]^2
//
// The recursion is seeded with the simple average of squared returns over
// the first seedBars bars. Output is a standard deviation, not a variance.
func EWMAVolatility(candles []core.Candle, theta float64, seedBars int) []float64 {
	out := make([]float64, len(candles))
	if len(candles) < 2 {
		return out
	}
	if seedBars < 1 {
		seedBars = 1
	}
	if seedBars > len(candles)-1 {
		seedBars = len(candles) - 1
	}

	// Squared log-returns; returns[0] has no prior close and stays zero.
	sq := make([]float64, len(candles))
	for t := 1; t < len(candles); t++ {
		r := math.Log(candles[t].Close / candles[t-1].Close)
		sq[t] = r * r
	}

	var seed float64
	for t := 1; t <= seedBars; t++ {
		seed += sq[t]
	}
	seed /= float64(seedBars)

	v2 := seed
	for t := range out {
		if t > seedBars {
			v2 = theta*v2 + (1-theta)*sq[t]
		}
		out[t] = math.Sqrt(v2)
	}
	return out
}
