// Package walkforward slides train/validation windows across a candle
// history, re-optimizes parameters per window, and aggregates the
// out-of-sample results into a single report.
package walkforward

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quantfold/quantfold/internal/core"
	"github.com/quantfold/quantfold/internal/metrics"
	"github.com/quantfold/quantfold/internal/optimize"
	"github.com/quantfold/quantfold/internal/signal"
	"github.com/quantfold/quantfold/internal/sim"
	"github.com/quantfold/quantfold/internal/strategy"
)

// Window records one walk-forward iteration.
type Window struct {
	Index       int                `json:"index"`
	TrainStart  int                `json:"train_start"`
	TrainEnd    int                `json:"train_end"`
	ValStart    int                `json:"val_start"`
	ValEnd      int                `json:"val_end"`
	Params      core.ParameterPair `json:"params"`
	TrainSharpe float64            `json:"train_sharpe"`
	ValSharpe   float64            `json:"val_sharpe"`
	Trades      []sim.Trade        `json:"trades"`
	Pass        bool               `json:"pass"` // validation Sharpe > 0
}

// Report is the aggregate result of a walk-forward run: plain structured
// data, serializable as-is.
//
// PassRate counts only windows that produced at least one trade; zero-trade
// windows are excluded from the denominator rather than treated as
// failures. Quiet regimes should not penalize the strategy, though this
// can flatter one that rarely trades.
type Report struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Windows     []Window           `json:"windows"`
	PassRate    float64            `json:"pass_rate"`
	OOSTrades   []sim.Trade        `json:"oos_trades"`
	FinalParams core.ParameterPair `json:"final_params"` // from the most recent window
	Equity      []float64          `json:"equity"`       // stitched OOS curve
	Summary     sim.Stats          `json:"summary"`
}

// Driver owns the walk-forward protocol configuration.
type Driver struct {
	TrainBars         int
	ValBars           int
	SlideBars         int
	MinValidationBars int // remaining-OOS floor; the loop stops early below it

	Searcher      optimize.Searcher
	Config        strategy.Config
	WindowWorkers int // parallelism of the winner-selection phase; <= 1 is sequential

	Logger  *zap.Logger       // optional
	Metrics *metrics.Registry // optional
}

// span is one window's index geometry, fixed before any optimization runs.
type span struct {
	trainStart, trainEnd, valStart, valEnd int
}

// spans enumerates window geometry: slide from index 0 while a full
// train+validation window fits, stopping early once the remaining OOS
// segment drops below the minimum viable length.
func (d Driver) spans(total int) []span {
	var out []span
	for trainStart := 0; trainStart+d.TrainBars+d.ValBars <= total; trainStart += d.SlideBars {
		valStart := trainStart + d.TrainBars
		if total-valStart < d.MinValidationBars {
			break
		}
		out = append(out, span{
			trainStart: trainStart,
			trainEnd:   valStart,
			valStart:   valStart,
			valEnd:     valStart + d.ValBars,
		})
	}
	return out
}

// Run executes the full walk-forward protocol. Winner selection per window
// is independent and optionally parallel; the OOS timeline is always
// assembled sequentially so equity compounds in time order.
func (d Driver) Run(candles []core.Candle) (*Report, error) {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if d.TrainBars < 1 || d.ValBars < 1 || d.SlideBars < 1 {
		return nil, core.ErrConfigInvalid
	}
	if len(candles) == 0 {
		return nil, core.ErrNoData
	}

	windows := d.spans(len(candles))
	if len(windows) == 0 {
		return nil, core.ErrNoWindows
	}
	log.Info("walk-forward start",
		zap.Int("bars", len(candles)),
		zap.Int("windows", len(windows)),
		zap.Int("train_bars", d.TrainBars),
		zap.Int("val_bars", d.ValBars),
		zap.Int("slide_bars", d.SlideBars),
	)

	winners, err := d.selectWinners(candles, windows)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	// Sequential OOS assembly: validation signals use the winning pair but
	// statistics from the train range only. Validation bars never see
	// validation-period statistics.
	scale := 1.0
	var stitched []float64
	passed, tradedWindows := 0, 0

	for i, w := range windows {
		signals, _, err := signal.Generate(candles, d.Config, signal.Request{
			Params:      winners[i].Params,
			TrainStart:  w.trainStart,
			TrainEnd:    w.trainEnd,
			SignalStart: w.valStart,
			SignalEnd:   w.valEnd,
		})
		if err != nil {
			return nil, err
		}
		res := sim.Run(signals, d.Config)

		win := Window{
			Index:       i,
			TrainStart:  w.trainStart,
			TrainEnd:    w.trainEnd,
			ValStart:    w.valStart,
			ValEnd:      w.valEnd,
			Params:      winners[i].Params,
			TrainSharpe: winners[i].TrainSharpe,
			ValSharpe:   res.Stats.Sharpe,
			Trades:      res.Trades,
			Pass:        res.Stats.Sharpe > 0,
		}
		report.Windows = append(report.Windows, win)
		report.OOSTrades = append(report.OOSTrades, res.Trades...)

		for _, eq := range res.Equity {
			stitched = append(stitched, scale*eq)
		}
		if len(res.Equity) > 0 {
			scale *= res.Equity[len(res.Equity)-1]
		}

		if len(res.Trades) > 0 {
			tradedWindows++
			if win.Pass {
				passed++
			}
		}

		d.Metrics.IncWindowsProcessed()
		d.Metrics.AddTradesSimulated(len(res.Trades))
		log.Info("window complete",
			zap.Int("window", i),
			zap.Float64("lambda", win.Params.Lambda),
			zap.Float64("theta", win.Params.Theta),
			zap.Float64("train_sharpe", win.TrainSharpe),
			zap.Float64("val_sharpe", win.ValSharpe),
			zap.Int("trades", len(res.Trades)),
			zap.Bool("pass", win.Pass),
		)
	}

	if tradedWindows > 0 {
		report.PassRate = float64(passed) / float64(tradedWindows)
	}
	report.FinalParams = report.Windows[len(report.Windows)-1].Params
	report.Equity = stitched

	// Aggregate metrics come from the full stitched OOS curve, not an
	// average of per-window Sharpes: averaging would misrepresent
	// compounding.
	report.Summary = sim.ComputeStats(stitched, report.OOSTrades, d.Config.Annualization)

	d.Metrics.SetOOSPassRate(report.PassRate)
	log.Info("walk-forward complete",
		zap.String("run_id", report.RunID),
		zap.Float64("pass_rate", report.PassRate),
		zap.Float64("oos_sharpe", report.Summary.Sharpe),
		zap.Float64("total_return", report.Summary.TotalReturn),
		zap.Int("oos_trades", len(report.OOSTrades)),
	)
	return report, nil
}

// selectWinners runs the grid search per window. Windows are independent
// until OOS assembly, so this phase may fan out.
func (d Driver) selectWinners(candles []core.Candle, windows []span) ([]optimize.Result, error) {
	winners := make([]optimize.Result, len(windows))
	errs := make([]error, len(windows))

	workers := d.WindowWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(windows) {
		workers = len(windows)
	}

	if workers == 1 {
		for i, w := range windows {
			winners[i], errs[i] = d.Searcher.Search(candles, d.Config, w.trainStart, w.trainEnd)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for n := 0; n < workers; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					winners[i], errs[i] = d.Searcher.Search(candles, d.Config, windows[i].trainStart, windows[i].trainEnd)
				}
			}()
		}
		for i := range windows {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return winners, nil
}
