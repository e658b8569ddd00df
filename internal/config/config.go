// Package config loads the run configuration from YAML with environment
// overrides. The engine core never reads this package: the CLI converts a
// Config into the immutable plain values (strategy.Config, optimize.Grid,
// walkforward.Driver fields) that are threaded explicitly through the
// engine.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/quantfold/quantfold/internal/core"
	"github.com/quantfold/quantfold/internal/optimize"
	"github.com/quantfold/quantfold/internal/strategy"
)

type Config struct {
	Data        DataConfig        `mapstructure:"data"`
	Strategy    StrategyConfig    `mapstructure:"strategy"`
	Grid        GridConfig        `mapstructure:"grid"`
	WalkForward WalkForwardConfig `mapstructure:"walkforward"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Narrate     NarrateConfig     `mapstructure:"narrate"`
}

// DataConfig locates the candle source.
type DataConfig struct {
	CSVPath       string `mapstructure:"csv_path"`
	Synthetic     bool   `mapstructure:"synthetic"`
	SyntheticBars int    `mapstructure:"synthetic_bars"`
}

// StrategyConfig mirrors the fixed strategy constants (see strategy.Config).
type StrategyConfig struct {
	ActivationThreshold float64 `mapstructure:"activation_threshold"`
	BlendWeight         float64 `mapstructure:"blend_weight"`
	MomentumLookback    int     `mapstructure:"momentum_lookback"`
	EWMASeedBars        int     `mapstructure:"ewma_seed_bars"`
	ATRPeriod           int     `mapstructure:"atr_period"`
	RegimeFilter        string  `mapstructure:"regime_filter"`
	RegimeWindow        int     `mapstructure:"regime_window"`
	RegimeZThreshold    float64 `mapstructure:"regime_z_threshold"`
	VolTarget           float64 `mapstructure:"vol_target"`
	LeverageCap         float64 `mapstructure:"leverage_cap"`
	KellyFraction       float64 `mapstructure:"kelly_fraction"`
	MinWeight           float64 `mapstructure:"min_weight"`
	HardStopATR         float64 `mapstructure:"hard_stop_atr"`
	TrailStopATR        float64 `mapstructure:"trail_stop_atr"`
	MaxHoldBars         int     `mapstructure:"max_hold_bars"`
	Direction           string  `mapstructure:"direction"`
	FrictionRate        float64 `mapstructure:"friction_rate"`
	Annualization       float64 `mapstructure:"annualization"`
}

// GridConfig bounds the parameter search lattice.
type GridConfig struct {
	LambdaMin  float64 `mapstructure:"lambda_min"`
	LambdaMax  float64 `mapstructure:"lambda_max"`
	LambdaStep float64 `mapstructure:"lambda_step"`
	ThetaMin   float64 `mapstructure:"theta_min"`
	ThetaMax   float64 `mapstructure:"theta_max"`
	ThetaStep  float64 `mapstructure:"theta_step"`
}

// WalkForwardConfig sets the window protocol and parallelism.
type WalkForwardConfig struct {
	TrainBars         int `mapstructure:"train_bars"`
	ValBars           int `mapstructure:"val_bars"`
	SlideBars         int `mapstructure:"slide_bars"`
	MinValidationBars int `mapstructure:"min_validation_bars"`
	GridWorkers       int `mapstructure:"grid_workers"`
	WindowWorkers     int `mapstructure:"window_workers"`
}

// StorageConfig selects the report artifact backend.
type StorageConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // for localfs
	S3   S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

// NarrateConfig enables the optional LLM report summary.
type NarrateConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"` // "claude" or "openai"
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// Load reads configuration from file with environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvPrefix("QUANTFOLD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with the daily-bar defaults.
func Defaults() *Config {
	strat := strategy.DefaultConfig()
	grid := optimize.DefaultGrid()

	return &Config{
		Data: DataConfig{
			SyntheticBars: 500,
		},
		Strategy: StrategyConfig{
			ActivationThreshold: strat.ActivationThreshold,
			BlendWeight:         strat.BlendWeight,
			MomentumLookback:    strat.MomentumLookback,
			EWMASeedBars:        strat.EWMASeedBars,
			ATRPeriod:           strat.ATRPeriod,
			RegimeFilter:        string(strat.RegimeFilter),
			RegimeWindow:        strat.RegimeWindow,
			RegimeZThreshold:    strat.RegimeZThreshold,
			VolTarget:           strat.VolTarget,
			LeverageCap:         strat.LeverageCap,
			KellyFraction:       strat.KellyFraction,
			MinWeight:           strat.MinWeight,
			HardStopATR:         strat.HardStopATR,
			TrailStopATR:        strat.TrailStopATR,
			MaxHoldBars:         strat.MaxHoldBars,
			Direction:           string(strat.Direction),
			FrictionRate:        strat.FrictionRate,
			Annualization:       strat.Annualization,
		},
		Grid: GridConfig{
			LambdaMin: grid.LambdaMin, LambdaMax: grid.LambdaMax, LambdaStep: grid.LambdaStep,
			ThetaMin: grid.ThetaMin, ThetaMax: grid.ThetaMax, ThetaStep: grid.ThetaStep,
		},
		WalkForward: WalkForwardConfig{
			TrainBars:         252,
			ValBars:           63,
			SlideBars:         63,
			MinValidationBars: 21,
			WindowWorkers:     1,
		},
		Storage: StorageConfig{
			Type: "localfs",
			Path: "artifacts",
		},
		Narrate: NarrateConfig{
			Provider: "claude",
		},
	}
}

// StrategyConfig converts the file representation into the immutable value
// the engine consumes.
func (c *Config) StrategyConfig() strategy.Config {
	s := c.Strategy
	return strategy.Config{
		ActivationThreshold: s.ActivationThreshold,
		BlendWeight:         s.BlendWeight,
		MomentumLookback:    s.MomentumLookback,
		EWMASeedBars:        s.EWMASeedBars,
		ATRPeriod:           s.ATRPeriod,
		RegimeFilter:        strategy.RegimeFilter(s.RegimeFilter),
		RegimeWindow:        s.RegimeWindow,
		RegimeZThreshold:    s.RegimeZThreshold,
		VolTarget:           s.VolTarget,
		LeverageCap:         s.LeverageCap,
		KellyFraction:       s.KellyFraction,
		MinWeight:           s.MinWeight,
		HardStopATR:         s.HardStopATR,
		TrailStopATR:        s.TrailStopATR,
		MaxHoldBars:         s.MaxHoldBars,
		Direction:           strategy.Direction(s.Direction),
		FrictionRate:        s.FrictionRate,
		Annualization:       s.Annualization,
	}
}

// GridSpec converts the file representation into the optimizer lattice.
func (c *Config) GridSpec() optimize.Grid {
	g := c.Grid
	return optimize.Grid{
		LambdaMin: g.LambdaMin, LambdaMax: g.LambdaMax, LambdaStep: g.LambdaStep,
		ThetaMin: g.ThetaMin, ThetaMax: g.ThetaMax, ThetaStep: g.ThetaStep,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.StrategyConfig().Validate(); err != nil {
		return err
	}

	wf := c.WalkForward
	if wf.TrainBars < 1 || wf.ValBars < 1 || wf.SlideBars < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("train_bars, val_bars and slide_bars must all be >= 1"))
	}
	if wf.MinValidationBars < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("min_validation_bars must be >= 1, got %d", wf.MinValidationBars))
	}

	if len(c.GridSpec().Pairs()) == 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("grid bounds/step yield no parameter combinations"))
	}

	switch c.Storage.Type {
	case "localfs", "s3":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("storage type must be localfs or s3, got %q", c.Storage.Type))
	}

	if c.Narrate.Enabled {
		switch c.Narrate.Provider {
		case "claude", "openai":
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("narrate provider must be claude or openai, got %q", c.Narrate.Provider))
		}
	}

	if !c.Data.Synthetic && c.Data.CSVPath == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("either data.csv_path or data.synthetic is required"))
	}

	return nil
}
