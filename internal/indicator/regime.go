package indicator

import "github.com/quantfold/quantfold/internal/core"

// TrendRegime returns a suppression series that vetoes entries while price
// sits below a declining long-window moving average. It marks bar t when
// close[t] < sma[t] and sma[t] < sma[t-1].
func TrendRegime(candles []core.Candle, window int) []bool {
	out := make([]bool, len(candles))
	sma := RollingMean(core.Closes(candles), window)
	for t := 1; t < len(candles); t++ {
		out[t] = candles[t].Close < sma[t] && sma[t] < sma[t-1]
	}
	return out
}

// ZScoreRegime returns a suppression series that vetoes entries while the
// rolling average of the standardized score stays below threshold.
func ZScoreRegime(zscores []float64, window int, threshold float64) []bool {
	out := make([]bool, len(zscores))
	avg := RollingMean(zscores, window)
	for t := range zscores {
		out[t] = avg[t] < threshold
	}
	return out
}
