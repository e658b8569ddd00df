package sim

import (
	"github.com/quantfold/quantfold/internal/signal"
	"github.com/quantfold/quantfold/internal/strategy"
)

// Result is the output of one simulation pass.
type Result struct {
	Trades []Trade   `json:"trades"`
	Equity []float64 `json:"equity"` // per-bar, same length as the signal list
	Stats  Stats     `json:"stats"`
}

// Run drives the position state machine across a signal sequence. Equity
// starts at 1.0 (100% of capital) and compounds multiplicatively as trades
// realize; open positions carry no mark-to-market, so flat days show zero
// return. Any position still open after the last signal is force-closed
// with ExitEndOfData.
func Run(signals []signal.Signal, cfg strategy.Config) Result {
	rules := exitRules()
	equity := 1.0
	curve := make([]float64, len(signals))
	var trades []Trade
	var pos *Position

	for i, s := range signals {
		if pos != nil {
			pos.update(s, cfg)
			for _, rule := range rules {
				if rule.Triggered(pos, s, cfg) {
					trade := pos.close(s, rule.Reason, cfg)
					equity *= 1 + trade.NetReturn
					trades = append(trades, trade)
					pos = nil
					break
				}
			}
		}

		// A bar that closed a position is re-evaluated for entry.
		if pos == nil {
			pos = tryEnter(s, cfg)
		}

		curve[i] = equity
	}

	if pos != nil {
		last := signals[len(signals)-1]
		trade := pos.close(last, ExitEndOfData, cfg)
		equity *= 1 + trade.NetReturn
		trades = append(trades, trade)
		curve[len(curve)-1] = equity
	}

	return Result{
		Trades: trades,
		Equity: curve,
		Stats:  ComputeStats(curve, trades, cfg.Annualization),
	}
}

// tryEnter evaluates entry conditions on the current signal, respecting the
// configured direction mode. Long entries take precedence when both flags
// fire, which the generator's delta condition makes mutually exclusive
// anyway.
func tryEnter(s signal.Signal, cfg strategy.Config) *Position {
	if s.LongEntry && cfg.Direction != strategy.ShortOnly {
		return openPosition(s, +1, cfg)
	}
	if s.ShortEntry && cfg.Direction != strategy.LongOnly {
		return openPosition(s, -1, cfg)
	}
	return nil
}
