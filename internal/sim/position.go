// Package sim contains the position state machine and the simulation loop
// that drives it across a signal sequence. A position moves Flat -> Open ->
// Closed; closing always produces exactly one Trade, including the forced
// close at the end of data. At most one position is open at a time.
package sim

import (
	"time"

	"github.com/quantfold/quantfold/internal/signal"
	"github.com/quantfold/quantfold/internal/strategy"
)

// ExitReason identifies which exit condition closed a trade.
type ExitReason string

const (
	ExitHardStop     ExitReason = "hard_stop"
	ExitTrailingStop ExitReason = "trailing_stop"
	ExitTimeout      ExitReason = "timeout"
	ExitDerisk       ExitReason = "derisk"
	// ExitEndOfData marks the forced close at the last available bar. It is
	// recorded distinctly so it can be excluded from organic exit statistics.
	ExitEndOfData ExitReason = "end_of_data"
)

// Trade is the immutable record of a closed position. Stop levels and the
// extreme-price tracker are snapshotted at exit for post-hoc auditing.
type Trade struct {
	EntryIndex   int        `json:"entry_index"`
	EntryTime    time.Time  `json:"entry_time"`
	EntryPrice   float64    `json:"entry_price"`
	ExitIndex    int        `json:"exit_index"`
	ExitTime     time.Time  `json:"exit_time"`
	ExitPrice    float64    `json:"exit_price"`
	Reason       ExitReason `json:"reason"`
	Direction    int        `json:"direction"` // +1 long, -1 short
	Weight       float64    `json:"weight"`
	NetReturn    float64    `json:"net_return"` // post-friction
	BarsHeld     int        `json:"bars_held"`
	HardStop     float64    `json:"hard_stop"`
	TrailingStop float64    `json:"trailing_stop"`
	ExtremePrice float64    `json:"extreme_price"`
	EntryProb    float64    `json:"entry_prob"` // directional probability at entry
	EntryATR     float64    `json:"entry_atr"`
}

// Position is the single mutable object in the pipeline. It is scoped to
// one open trade inside one simulation pass and never aliased across
// parallel evaluations.
type Position struct {
	EntryIndex   int
	EntryTime    time.Time
	EntryPrice   float64
	Direction    int
	Weight       float64
	HardStop     float64
	TrailingStop float64
	ExtremePrice float64 // peak for longs, trough for shorts
	BarsHeld     int
	EntryProb    float64
	EntryATR     float64
}

const volEpsilon = 1e-12

// PositionWeight sizes an entry:
//
//	min(leverageCap, volTarget/vol) * max(0, (p-0.5)/0.5) * kellyFraction
//
// Near-zero volatility yields zero weight rather than unbounded leverage.
func PositionWeight(cfg strategy.Config, prob, vol float64) float64 {
	if vol < volEpsilon {
		return 0
	}
	volScale := cfg.VolTarget / vol
	if volScale > cfg.LeverageCap {
		volScale = cfg.LeverageCap
	}
	edge := (prob - 0.5) / 0.5
	if edge < 0 {
		edge = 0
	}
	return volScale * edge * cfg.KellyFraction
}

// openPosition attempts the Flat -> Open transition on an entry signal.
// Returns nil when the computed weight falls below the activation minimum;
// that is a sizing policy decision, not an error.
func openPosition(s signal.Signal, direction int, cfg strategy.Config) *Position {
	prob := s.PBull
	if direction < 0 {
		prob = s.PBear
	}
	weight := PositionWeight(cfg, prob, s.Vol)
	if weight < cfg.MinWeight {
		return nil
	}

	hardStop := s.Close - float64(direction)*cfg.HardStopATR*s.ATR
	return &Position{
		EntryIndex:   s.Index,
		EntryTime:    s.Time,
		EntryPrice:   s.Close,
		Direction:    direction,
		Weight:       weight,
		HardStop:     hardStop,
		TrailingStop: hardStop, // trailing starts at the hard-stop level
		ExtremePrice: s.Close,
		EntryProb:    prob,
		EntryATR:     s.ATR,
	}
}

// update applies the per-bar mutation while Open, before exits are checked:
// the trailing stop ratchets from the new extreme using the current bar's
// ATR (so the trailing distance tracks current volatility), and bars-held
// increments.
func (p *Position) update(s signal.Signal, cfg strategy.Config) {
	if p.Direction > 0 {
		if s.Close > p.ExtremePrice {
			p.ExtremePrice = s.Close
			p.TrailingStop = p.ExtremePrice - cfg.TrailStopATR*s.ATR
		}
	} else {
		if s.Close < p.ExtremePrice {
			p.ExtremePrice = s.Close
			p.TrailingStop = p.ExtremePrice + cfg.TrailStopATR*s.ATR
		}
	}
	p.BarsHeld++
}

// close converts the position into a Trade at the bar's close price.
// Round-trip friction is charged on both sides of the position weight.
func (p *Position) close(s signal.Signal, reason ExitReason, cfg strategy.Config) Trade {
	directionalReturn := float64(p.Direction) * (s.Close - p.EntryPrice) / p.EntryPrice
	netReturn := p.Weight*directionalReturn - 2*cfg.FrictionRate*p.Weight

	return Trade{
		EntryIndex:   p.EntryIndex,
		EntryTime:    p.EntryTime,
		EntryPrice:   p.EntryPrice,
		ExitIndex:    s.Index,
		ExitTime:     s.Time,
		ExitPrice:    s.Close,
		Reason:       reason,
		Direction:    p.Direction,
		Weight:       p.Weight,
		NetReturn:    netReturn,
		BarsHeld:     p.BarsHeld,
		HardStop:     p.HardStop,
		TrailingStop: p.TrailingStop,
		ExtremePrice: p.ExtremePrice,
		EntryProb:    p.EntryProb,
		EntryATR:     p.EntryATR,
	}
}
