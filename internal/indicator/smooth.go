// Package indicator provides pure, stateless transforms over an OHLCV
// series. Every function is deterministic and side-effect-free: calling it
// twice with the same inputs yields bit-identical output. All series are
// returned at full input length so downstream code can index them by bar.
package indicator

import (
	"math"

	"github.com/quantfold/quantfold/internal/core"
)

// SmoothedLogPrice computes an exponential recursion on log(close) with
// decay lambda, seeded with the first bar's log-price:
//
//	s[0] = log(close[0])
//	s[t] = lambda*s[t-1] + (1-lambda)*log(close[t])
func SmoothedLogPrice(candles []core.Candle, lambda float64) []float64 {
	if len(candles) == 0 {
		return []float64{}
	}

	out := make([]float64, len(candles))
	out[0] = math.Log(candles[0].Close)
	for t := 1; t < len(candles); t++ {
		out[t] = lambda*out[t-1] + (1-lambda)*math.Log(candles[t].Close)
	}
	return out
}

// Delta computes the first difference of a series. The first element has no
// prior value and is defined as zero.
func Delta(series []float64) []float64 {
	if len(series) == 0 {
		return []float64{}
	}

	out := make([]float64, len(series))
	for t := 1; t < len(series); t++ {
		out[t] = series[t] - series[t-1]
	}
	return out
}

// RollingMean computes a trailing simple moving average at every bar. Bars
// before the window is full average over the bars seen so far.
func RollingMean(series []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	out := make([]float64, len(series))
	var sum float64
	for t := range series {
		sum += series[t]
		if t >= window {
			sum -= series[t-window]
			out[t] = sum / float64(window)
		} else {
			out[t] = sum / float64(t+1)
		}
	}
	return out
}
