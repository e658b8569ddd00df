package sim

import (
	"github.com/quantfold/quantfold/internal/signal"
	"github.com/quantfold/quantfold/internal/strategy"
)

// ExitRule is one exit condition, evaluated against the bar's close price
// after the per-bar position update.
type ExitRule struct {
	Reason    ExitReason
	Triggered func(p *Position, s signal.Signal, cfg strategy.Config) bool
}

// exitRules returns the exit conditions in priority order; the first match
// wins. End-of-data is not a rule here: the loop forces it when the series
// runs out.
func exitRules() []ExitRule {
	return []ExitRule{
		{
			Reason: ExitHardStop,
			Triggered: func(p *Position, s signal.Signal, _ strategy.Config) bool {
				return breached(p.Direction, s.Close, p.HardStop)
			},
		},
		{
			Reason: ExitTrailingStop,
			Triggered: func(p *Position, s signal.Signal, _ strategy.Config) bool {
				return breached(p.Direction, s.Close, p.TrailingStop)
			},
		},
		{
			Reason: ExitTimeout,
			Triggered: func(p *Position, _ signal.Signal, cfg strategy.Config) bool {
				return p.BarsHeld >= cfg.MaxHoldBars
			},
		},
		{
			// De-risk: the opposing directional probability crossed 0.5,
			// a conviction reversal independent of price stops.
			Reason: ExitDerisk,
			Triggered: func(p *Position, s signal.Signal, _ strategy.Config) bool {
				if p.Direction > 0 {
					return s.PBear > 0.5
				}
				return s.PBull > 0.5
			},
		},
	}
}

// breached reports whether close crossed a stop level against the position.
func breached(direction int, close, stop float64) bool {
	if direction > 0 {
		return close <= stop
	}
	return close >= stop
}
