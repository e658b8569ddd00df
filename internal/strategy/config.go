// Package strategy defines the fixed strategy constants the engine consumes.
// A Config is constructed once per run and threaded explicitly through
// signal generation, simulation and optimization; nothing in the engine
// reads process-wide mutable state.
package strategy

import "github.com/quantfold/quantfold/internal/core"

// Direction selects which entry signals the simulation acts on.
type Direction string

const (
	LongOnly  Direction = "long"
	ShortOnly Direction = "short"
	Both      Direction = "both"
)

// RegimeFilter selects the optional entry-suppression series.
type RegimeFilter string

const (
	RegimeOff    RegimeFilter = "off"
	RegimeTrend  RegimeFilter = "trend"
	RegimeZScore RegimeFilter = "zscore"
)

// Config holds the fixed (non-optimized) strategy constants. Immutable per
// run; the optimizer only searches the ParameterPair axes, never these.
type Config struct {
	// Signal generation
	ActivationThreshold float64 // directional probability needed to fire an entry
	BlendWeight         float64 // weight of the trend term vs the momentum term
	MomentumLookback    int
	EWMASeedBars        int
	ATRPeriod           int
	RegimeFilter        RegimeFilter
	RegimeWindow        int
	RegimeZThreshold    float64

	// Position sizing
	VolTarget     float64
	LeverageCap   float64
	KellyFraction float64
	MinWeight     float64 // entries sized below this are skipped

	// Exits
	HardStopATR  float64 // hard stop distance in ATR multiples
	TrailStopATR float64 // trailing stop distance in ATR multiples
	MaxHoldBars  int

	// Simulation
	Direction     Direction
	FrictionRate  float64 // round-trip cost charged per side
	Annualization float64 // bars per year for Sharpe scaling
}

// DefaultConfig returns a Config with the constants used for daily bars.
func DefaultConfig() Config {
	return Config{
		ActivationThreshold: 0.60,
		BlendWeight:         0.70,
		MomentumLookback:    20,
		EWMASeedBars:        20,
		ATRPeriod:           14,
		RegimeFilter:        RegimeOff,
		RegimeWindow:        200,
		RegimeZThreshold:    -0.5,
		VolTarget:           0.01,
		LeverageCap:         2.0,
		KellyFraction:       0.5,
		MinWeight:           0.01,
		HardStopATR:         2.0,
		TrailStopATR:        3.0,
		MaxHoldBars:         10,
		Direction:           Both,
		FrictionRate:        0.0005,
		Annualization:       252,
	}
}

// Validate checks the constants for values the engine cannot work with.
func (c Config) Validate() error {
	switch c.Direction {
	case LongOnly, ShortOnly, Both:
	default:
		return core.WrapError(core.ErrConfigInvalid, fieldError("direction", string(c.Direction)))
	}
	switch c.RegimeFilter {
	case RegimeOff, RegimeTrend, RegimeZScore:
	default:
		return core.WrapError(core.ErrConfigInvalid, fieldError("regime_filter", string(c.RegimeFilter)))
	}
	if c.ActivationThreshold <= 0.5 || c.ActivationThreshold >= 1 {
		return core.WrapError(core.ErrConfigInvalid, fieldError("activation_threshold", "must be in (0.5, 1)"))
	}
	if c.BlendWeight < 0 || c.BlendWeight > 1 {
		return core.WrapError(core.ErrConfigInvalid, fieldError("blend_weight", "must be in [0, 1]"))
	}
	if c.ATRPeriod < 1 || c.MomentumLookback < 1 || c.EWMASeedBars < 1 {
		return core.WrapError(core.ErrConfigInvalid, fieldError("periods", "must be >= 1"))
	}
	if c.LeverageCap <= 0 || c.KellyFraction <= 0 || c.VolTarget <= 0 {
		return core.WrapError(core.ErrConfigInvalid, fieldError("sizing", "vol_target, leverage_cap and kelly_fraction must be > 0"))
	}
	if c.HardStopATR <= 0 || c.TrailStopATR <= 0 || c.MaxHoldBars < 1 {
		return core.WrapError(core.ErrConfigInvalid, fieldError("exits", "stop multiples must be > 0 and max_hold_bars >= 1"))
	}
	if c.FrictionRate < 0 {
		return core.WrapError(core.ErrConfigInvalid, fieldError("friction_rate", "must be >= 0"))
	}
	if c.Annualization <= 0 {
		return core.WrapError(core.ErrConfigInvalid, fieldError("annualization", "must be > 0"))
	}
	return nil
}

type fieldErr struct {
	field, detail string
}

func (e fieldErr) Error() string { return e.field + ": " + e.detail }

func fieldError(field, detail string) error {
	return fieldErr{field: field, detail: detail}
}
