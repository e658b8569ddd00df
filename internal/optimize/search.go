package optimize

import (
	"runtime"
	"sync"
	"time"

	"github.com/quantfold/quantfold/internal/core"
	"github.com/quantfold/quantfold/internal/metrics"
	"github.com/quantfold/quantfold/internal/signal"
	"github.com/quantfold/quantfold/internal/sim"
	"github.com/quantfold/quantfold/internal/strategy"
)

// Result is the outcome of one grid search over a train window.
type Result struct {
	Params      core.ParameterPair `json:"params"`
	TrainSharpe float64            `json:"train_sharpe"`
	TradeCount  int                `json:"trade_count"`
}

// Searcher evaluates every grid combination on a train range and selects
// the one maximizing train Sharpe. Combinations are independent: each
// evaluation only reads the shared candle slice, so they fan out across a
// bounded worker pool with no synchronization beyond the result slot.
type Searcher struct {
	Grid    Grid
	Workers int               // <= 0 means GOMAXPROCS
	Metrics *metrics.Registry // optional
}

// Search runs the grid search on [trainStart, trainEnd). Signals for the
// training evaluation intentionally reuse the train range, so the training
// Sharpe is in-sample by construction. Ties on Sharpe resolve to the
// lowest pair index (lambda-outer, theta-inner), independent of goroutine
// scheduling.
func (s Searcher) Search(candles []core.Candle, cfg strategy.Config, trainStart, trainEnd int) (Result, error) {
	pairs := s.Grid.Pairs()
	if len(pairs) == 0 {
		return Result{}, core.ErrEmptyGrid
	}
	if trainStart < 0 || trainEnd > len(candles) || trainStart >= trainEnd {
		return Result{}, core.ErrBadRange
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(pairs) {
		workers = len(pairs)
	}

	start := time.Now()

	type evaluation struct {
		sharpe float64
		trades int
		err    error
	}
	results := make([]evaluation, len(pairs))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				signals, _, err := signal.Generate(candles, cfg, signal.Request{
					Params:      pairs[idx],
					TrainStart:  trainStart,
					TrainEnd:    trainEnd,
					SignalStart: trainStart,
					SignalEnd:   trainEnd,
				})
				if err != nil {
					results[idx] = evaluation{err: err}
					continue
				}
				res := sim.Run(signals, cfg)
				results[idx] = evaluation{sharpe: res.Stats.Sharpe, trades: len(res.Trades)}
			}
		}()
	}
	for idx := range pairs {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	s.Metrics.AddGridEvaluations(len(pairs))
	s.Metrics.ObserveSearchDuration(time.Since(start).Seconds())

	best := -1
	for idx, ev := range results {
		if ev.err != nil {
			return Result{}, ev.err
		}
		if best < 0 || ev.sharpe > results[best].sharpe {
			best = idx
		}
	}

	return Result{
		Params:      pairs[best],
		TrainSharpe: results[best].sharpe,
		TradeCount:  results[best].trades,
	}, nil
}
