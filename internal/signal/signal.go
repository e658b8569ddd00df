// Package signal combines indicators with a parameter pair and
// train-window-only statistics to produce per-bar signal records. The
// signal list is the sole interface the simulation loop consumes.
package signal

import (
	"time"

	"github.com/quantfold/quantfold/internal/core"
	"github.com/quantfold/quantfold/internal/indicator"
	"github.com/quantfold/quantfold/internal/strategy"
)

// Signal is one bar's worth of derived state. Immutable once emitted.
type Signal struct {
	Index      int
	Time       time.Time
	Smoothed   float64
	Delta      float64
	ZScore     float64
	PBull      float64
	PBear      float64
	ATR        float64
	Vol        float64
	Close      float64
	Low        float64
	LongEntry  bool
	ShortEntry bool
	Suppressed bool
}

// Request describes one signal-generation pass: which parameter pair to use,
// which range the train statistics come from, and which range to emit
// signals for. All ranges are half-open bar-index intervals.
type Request struct {
	Params      core.ParameterPair
	TrainStart  int
	TrainEnd    int
	SignalStart int
	SignalEnd   int
}

// leaks reports whether the request would let validation-period bars
// influence their own statistics. The grid-search training path
// intentionally reuses the train range as the signal range; everything else
// must start at or after trainEnd.
func (r Request) leaks() bool {
	if r.SignalStart >= r.TrainEnd {
		return false
	}
	return !(r.SignalStart == r.TrainStart && r.SignalEnd == r.TrainEnd)
}

// Generate computes all indicators once over the full candle array, derives
// train statistics from the train range only, and emits one Signal per bar
// of [SignalStart, SignalEnd).
func Generate(candles []core.Candle, cfg strategy.Config, req Request) ([]Signal, indicator.TrainStats, error) {
	n := len(candles)
	if n == 0 {
		return nil, indicator.TrainStats{}, core.ErrNoData
	}
	if req.TrainStart < 0 || req.TrainEnd > n || req.TrainStart > req.TrainEnd ||
		req.SignalStart < 0 || req.SignalEnd > n || req.SignalStart > req.SignalEnd {
		return nil, indicator.TrainStats{}, core.ErrBadRange
	}
	if req.leaks() {
		return nil, indicator.TrainStats{}, core.ErrLeakage
	}

	smoothed := indicator.SmoothedLogPrice(candles, req.Params.Lambda)
	delta := indicator.Delta(smoothed)
	stats := indicator.ComputeTrainStats(delta, req.TrainStart, req.TrainEnd)
	zscores := indicator.ZScores(delta, stats)
	vol := indicator.EWMAVolatility(candles, req.Params.Theta, cfg.EWMASeedBars)
	atr := indicator.ATR(candles, cfg.ATRPeriod)
	momentum := indicator.Momentum(candles, cfg.MomentumLookback)

	var suppressed []bool
	switch cfg.RegimeFilter {
	case strategy.RegimeTrend:
		suppressed = indicator.TrendRegime(candles, cfg.RegimeWindow)
	case strategy.RegimeZScore:
		suppressed = indicator.ZScoreRegime(zscores, cfg.RegimeWindow, cfg.RegimeZThreshold)
	default:
		suppressed = make([]bool, n)
	}

	signals := make([]Signal, 0, req.SignalEnd-req.SignalStart)
	for t := req.SignalStart; t < req.SignalEnd; t++ {
		// Trend term: linear remap of the clipped z-score to [0,1].
		pTrend := (zscores[t] + indicator.ZClip) / (2 * indicator.ZClip)
		momTerm := 0.0
		if momentum[t] {
			momTerm = 1.0
		}
		pBull := cfg.BlendWeight*pTrend + (1-cfg.BlendWeight)*momTerm
		pBear := 1 - pBull

		s := Signal{
			Index:      t,
			Time:       candles[t].Time,
			Smoothed:   smoothed[t],
			Delta:      delta[t],
			ZScore:     zscores[t],
			PBull:      pBull,
			PBear:      pBear,
			ATR:        atr[t],
			Vol:        vol[t],
			Close:      candles[t].Close,
			Low:        candles[t].Low,
			Suppressed: suppressed[t],
		}
		s.LongEntry = pBull > cfg.ActivationThreshold && delta[t] > 0 && !suppressed[t]
		s.ShortEntry = pBear > cfg.ActivationThreshold && delta[t] < 0 && !suppressed[t]
		signals = append(signals, s)
	}

	return signals, stats, nil
}
