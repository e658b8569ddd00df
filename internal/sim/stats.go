package sim

import "math"

// Stats holds the aggregate performance summary for one equity curve.
type Stats struct {
	TradeCount  int                `json:"trade_count"`
	WinRate     float64            `json:"win_rate"`
	TotalReturn float64            `json:"total_return"`
	Sharpe      float64            `json:"sharpe"`
	MaxDrawdown float64            `json:"max_drawdown"`
	AvgHoldBars float64            `json:"avg_hold_bars"`
	ExitCounts  map[ExitReason]int `json:"exit_counts"`
}

// ComputeStats derives the performance summary from a per-bar equity curve
// and the trades that produced it. Sharpe is computed from daily
// equity-curve returns with flat days included, never from per-trade
// returns, which ignore holding period and flat-day variance. All metrics
// default to zero on empty input.
func ComputeStats(curve []float64, trades []Trade, annualization float64) Stats {
	stats := Stats{
		TradeCount: len(trades),
		ExitCounts: make(map[ExitReason]int),
	}

	var wins int
	var heldBars int
	for _, t := range trades {
		stats.ExitCounts[t.Reason]++
		heldBars += t.BarsHeld
		if t.NetReturn > 0 {
			wins++
		}
	}
	if len(trades) > 0 {
		stats.WinRate = float64(wins) / float64(len(trades))
		stats.AvgHoldBars = float64(heldBars) / float64(len(trades))
	}

	if len(curve) == 0 {
		return stats
	}

	stats.TotalReturn = curve[len(curve)-1] - 1
	stats.MaxDrawdown = MaxDrawdown(curve)
	stats.Sharpe = SharpeRatio(curveReturns(curve), annualization)
	return stats
}

// curveReturns converts an equity curve into bar-to-bar returns.
func curveReturns(curve []float64) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1] == 0 {
			continue
		}
		returns[i-1] = curve[i]/curve[i-1] - 1
	}
	return returns
}

// SharpeRatio computes mean/stdDev of the return series scaled by the
// square root of the annualization factor. A zero-variance or too-short
// series yields 0 rather than dividing by zero.
func SharpeRatio(returns []float64, annualization float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))
	if stdDev == 0 {
		return 0
	}

	return mean / stdDev * math.Sqrt(annualization)
}

// MaxDrawdown finds the largest running peak-to-trough percentage drop.
// Always >= 0, and exactly 0 iff the curve is non-decreasing.
func MaxDrawdown(curve []float64) float64 {
	if len(curve) == 0 {
		return 0
	}

	var maxDD float64
	peak := curve[0]
	for _, v := range curve {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (peak - v) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}
