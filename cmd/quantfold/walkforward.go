package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quantfold/quantfold/internal/config"
	"github.com/quantfold/quantfold/internal/core"
	"github.com/quantfold/quantfold/internal/dataset"
	"github.com/quantfold/quantfold/internal/logger"
	"github.com/quantfold/quantfold/internal/metrics"
	"github.com/quantfold/quantfold/internal/narrate"
	"github.com/quantfold/quantfold/internal/narrate/factory"
	"github.com/quantfold/quantfold/internal/optimize"
	"github.com/quantfold/quantfold/internal/storage/report"
	"github.com/quantfold/quantfold/internal/walkforward"
)

var (
	wfCSVPath   string
	wfSynthetic bool
	wfNoSave    bool
)

var walkforwardCmd = &cobra.Command{
	Use:   "walkforward",
	Short: "Run the full walk-forward optimization",
	Long: "Slide train/validation windows over the candle history, grid-search " +
		"parameters on each train range, score them out-of-sample, and persist " +
		"the stitched report.",
	RunE: runWalkForward,
}

func init() {
	walkforwardCmd.Flags().StringVar(&wfCSVPath, "csv", "", "candle CSV path (overrides config)")
	walkforwardCmd.Flags().BoolVar(&wfSynthetic, "synthetic", false, "use a synthetic candle series")
	walkforwardCmd.Flags().BoolVar(&wfNoSave, "no-save", false, "skip persisting the report artifact")

	rootCmd.AddCommand(walkforwardCmd)
}

func runWalkForward(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if wfCSVPath != "" {
		cfg.Data.CSVPath = wfCSVPath
		cfg.Data.Synthetic = false
	}
	if wfSynthetic {
		cfg.Data.Synthetic = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Must(debug)
	defer log.Sync()

	candles, err := loadCandles(cfg)
	if err != nil {
		return err
	}
	log.Info("candles loaded",
		zap.Int("bars", len(candles)),
		zap.Time("first", candles[0].Time),
		zap.Time("last", candles[len(candles)-1].Time))

	reg := metrics.NewRegistry()
	driver := walkforward.Driver{
		TrainBars:         cfg.WalkForward.TrainBars,
		ValBars:           cfg.WalkForward.ValBars,
		SlideBars:         cfg.WalkForward.SlideBars,
		MinValidationBars: cfg.WalkForward.MinValidationBars,
		Searcher: optimize.Searcher{
			Grid:    cfg.GridSpec(),
			Workers: cfg.WalkForward.GridWorkers,
			Metrics: reg,
		},
		Config:        cfg.StrategyConfig(),
		WindowWorkers: cfg.WalkForward.WindowWorkers,
		Logger:        log,
		Metrics:       reg,
	}

	started := time.Now()
	rep, err := driver.Run(candles)
	if err != nil {
		return err
	}

	printReport(rep, time.Since(started))

	if !wfNoSave {
		store, err := newStore(cfg.Storage)
		if err != nil {
			return err
		}
		path, err := report.Save(context.Background(), store, rep)
		if err != nil {
			return err
		}
		fmt.Printf("Report saved to %s\n", path)
	}

	if cfg.Narrate.Enabled {
		if err := narrateReport(cmd.Context(), cfg, rep); err != nil {
			// Narration is a convenience layer: never fail the run over it.
			log.Warn("narration failed", zap.Error(err))
		}
	}

	return nil
}

func loadCandles(cfg *config.Config) ([]core.Candle, error) {
	var candles []core.Candle
	var err error
	if cfg.Data.Synthetic {
		candles = dataset.Synthetic(cfg.Data.SyntheticBars, 100)
	} else {
		candles, err = dataset.LoadCSVFile(cfg.Data.CSVPath)
		if err != nil {
			return nil, err
		}
	}
	if len(candles) == 0 {
		return nil, core.ErrNoData
	}
	if err := dataset.Check(candles); err != nil {
		return nil, err
	}
	return candles, nil
}

func newStore(cfg config.StorageConfig) (report.Storage, error) {
	switch cfg.Type {
	case "s3":
		return report.NewS3(report.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return report.NewLocalFS(cfg.Path)
	}
}

func narrateReport(ctx context.Context, cfg *config.Config, rep *walkforward.Report) error {
	provider, err := factory.New(cfg.Narrate)
	if err != nil {
		return err
	}
	summary, err := narrate.Summarize(ctx, provider, rep)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println("=== Narrative ===")
	fmt.Println(summary)
	return nil
}

func printReport(rep *walkforward.Report, elapsed time.Duration) {
	fmt.Println("=== QUANTFOLD Walk-Forward ===")
	fmt.Printf("Run ID:       %s\n", rep.RunID)
	fmt.Printf("Windows:      %d\n", len(rep.Windows))
	fmt.Printf("Pass rate:    %.1f%%\n", rep.PassRate*100)
	fmt.Printf("Final params: lambda=%.2f theta=%.2f\n", rep.FinalParams.Lambda, rep.FinalParams.Theta)
	fmt.Println()
	fmt.Printf("OOS trades:   %d\n", len(rep.OOSTrades))
	fmt.Printf("OOS Sharpe:   %.4f\n", rep.Summary.Sharpe)
	fmt.Printf("Max drawdown: %.2f%%\n", rep.Summary.MaxDrawdown*100)
	fmt.Printf("Win rate:     %.1f%%\n", rep.Summary.WinRate*100)
	if n := len(rep.Equity); n > 0 {
		fmt.Printf("Final equity: %.4f\n", rep.Equity[n-1])
	}
	fmt.Printf("Elapsed:      %s\n", elapsed.Round(time.Millisecond))
}
