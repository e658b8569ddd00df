package dataset

import (
	"math"
	"time"

	"github.com/quantfold/quantfold/internal/core"
)

// Synthetic generates a deterministic daily candle series for tests and
// dry runs: a cyclical pattern (up for 20 bars, down for 15) with a small
// sinusoidal wobble so volatility and true range stay nonzero.
func Synthetic(n int, startPrice float64) []core.Candle {
	candles := make([]core.Candle, n)
	price := startPrice
	base := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		if i%35 < 20 {
			price *= 1.01
		} else {
			price *= 0.99
		}
		wobble := 0.003 * math.Sin(float64(i)*0.7)
		candles[i] = core.Candle{
			Time:   base.AddDate(0, 0, i),
			Open:   price * (1 - wobble),
			High:   price * (1.005 + math.Abs(wobble)),
			Low:    price * (0.995 - math.Abs(wobble)),
			Close:  price,
			Volume: 1_000_000,
		}
	}
	return candles
}
