package indicator

import "github.com/quantfold/quantfold/internal/core"

// Momentum returns a binary series: true where close[t]/close[t-lookback]
// exceeds 1. Bars without a full lookback are false.
func Momentum(candles []core.Candle, lookback int) []bool {
	out := make([]bool, len(candles))
	if lookback < 1 {
		return out
	}
	for t := lookback; t < len(candles); t++ {
		out[t] = candles[t].Close/candles[t-lookback].Close > 1
	}
	return out
}
