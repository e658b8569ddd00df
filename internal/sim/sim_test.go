package sim_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/quantfold/internal/signal"
	"github.com/quantfold/quantfold/internal/sim"
	"github.com/quantfold/quantfold/internal/strategy"
)

func testConfig() strategy.Config {
	cfg := strategy.DefaultConfig()
	cfg.MaxHoldBars = 100 // keep timeout out of the way unless a test wants it
	cfg.FrictionRate = 0
	return cfg
}

// bar builds a signal with enough volatility for full-size entries
// (vol == volTarget so the vol scale is exactly 1).
func bar(idx int, close, atr, pBull float64, longEntry bool) signal.Signal {
	return signal.Signal{
		Index:     idx,
		Time:      time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, idx),
		Close:     close,
		Low:       close,
		ATR:       atr,
		Vol:       0.01,
		PBull:     pBull,
		PBear:     1 - pBull,
		LongEntry: longEntry,
	}
}

func TestRun_HardStopExit(t *testing.T) {
	cfg := testConfig()

	// Entry at 100 with ATR 1 puts the hard stop at 98; the next close
	// breaches it.
	signals := []signal.Signal{
		bar(0, 100, 1, 0.9, true),
		bar(1, 97, 1, 0.9, false),
	}

	res := sim.Run(signals, cfg)
	require.Len(t, res.Trades, 1)

	trade := res.Trades[0]
	assert.Equal(t, sim.ExitHardStop, trade.Reason)
	assert.Equal(t, 0, trade.EntryIndex)
	assert.Equal(t, 1, trade.ExitIndex)
	assert.Equal(t, 100.0, trade.EntryPrice)
	assert.Equal(t, 97.0, trade.ExitPrice)
	assert.Equal(t, 98.0, trade.HardStop)
	assert.Equal(t, 1, trade.BarsHeld)
	assert.Less(t, trade.NetReturn, 0.0)
}

func TestRun_TrailingStopRatchet(t *testing.T) {
	cfg := testConfig()
	cfg.HardStopATR = 2
	cfg.TrailStopATR = 3

	// Entry at 100: hard stop 98, trailing starts there too. The rally to
	// 110 ratchets the trailing stop to 110-3 = 107; the pullback to 106
	// hits the trailing stop while the hard stop stays untouched.
	signals := []signal.Signal{
		bar(0, 100, 1, 0.9, true),
		bar(1, 110, 1, 0.9, false),
		bar(2, 106, 1, 0.9, false),
	}

	res := sim.Run(signals, cfg)
	require.Len(t, res.Trades, 1)

	trade := res.Trades[0]
	assert.Equal(t, sim.ExitTrailingStop, trade.Reason)
	assert.Equal(t, 107.0, trade.TrailingStop)
	assert.Equal(t, 110.0, trade.ExtremePrice)
	assert.Greater(t, trade.NetReturn, 0.0)
}

func TestRun_TimeoutExit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHoldBars = 3

	signals := []signal.Signal{
		bar(0, 100, 1, 0.9, true),
		bar(1, 100.5, 1, 0.9, false),
		bar(2, 100.5, 1, 0.9, false),
		bar(3, 100.5, 1, 0.9, false),
		bar(4, 100.5, 1, 0.9, false),
	}

	res := sim.Run(signals, cfg)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, sim.ExitTimeout, res.Trades[0].Reason)
	assert.Equal(t, 3, res.Trades[0].BarsHeld)
}

func TestRun_DeriskExit(t *testing.T) {
	cfg := testConfig()

	// Price holds above both stops but conviction flips: pBear crosses 0.5.
	signals := []signal.Signal{
		bar(0, 100, 1, 0.9, true),
		bar(1, 100.5, 1, 0.4, false),
	}

	res := sim.Run(signals, cfg)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, sim.ExitDerisk, res.Trades[0].Reason)
}

func TestRun_ForcedExitAtEndOfData(t *testing.T) {
	cfg := testConfig()

	signals := []signal.Signal{
		bar(0, 100, 1, 0.9, true),
		bar(1, 101, 1, 0.9, false),
	}

	res := sim.Run(signals, cfg)
	require.Len(t, res.Trades, 1)

	trade := res.Trades[0]
	assert.Equal(t, sim.ExitEndOfData, trade.Reason)
	assert.Equal(t, 101.0, trade.ExitPrice, "forced exit must use the final bar's close")
	assert.Equal(t, 1, trade.ExitIndex)
	assert.Equal(t, 1+trade.NetReturn, res.Equity[len(res.Equity)-1])
}

func TestRun_FlatMarketNeverHitsPriceStops(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHoldBars = 5

	// Constant close: no price movement can trigger a hard or trailing
	// stop; any exit must be timeout, de-risk or end-of-data.
	signals := make([]signal.Signal, 40)
	for i := range signals {
		signals[i] = bar(i, 100, 0.5, 0.9, i%7 == 0)
	}

	res := sim.Run(signals, cfg)
	for _, trade := range res.Trades {
		assert.NotEqual(t, sim.ExitHardStop, trade.Reason)
		assert.NotEqual(t, sim.ExitTrailingStop, trade.Reason)
	}
}

func TestRun_SinglePositionInvariant(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHoldBars = 2

	// Entry flags on every bar: trades must still never overlap.
	signals := make([]signal.Signal, 30)
	for i := range signals {
		signals[i] = bar(i, 100+float64(i%5), 1, 0.9, true)
	}

	res := sim.Run(signals, cfg)
	require.NotEmpty(t, res.Trades)
	for i := 1; i < len(res.Trades); i++ {
		assert.GreaterOrEqual(t, res.Trades[i].EntryIndex, res.Trades[i-1].ExitIndex,
			"trade %d entered before trade %d exited", i, i-1)
	}
}

func TestRun_WeightBelowMinimumSkipsEntry(t *testing.T) {
	cfg := testConfig()

	// Probability barely above 0.5 gives a tiny edge; with kelly damping
	// the weight lands under MinWeight and the entry is silently skipped.
	s := bar(0, 100, 1, 0.501, true)
	res := sim.Run([]signal.Signal{s, bar(1, 100, 1, 0.5, false)}, cfg)
	assert.Empty(t, res.Trades)
	assert.Equal(t, []float64{1, 1}, res.Equity)
}

func TestRun_DirectionModes(t *testing.T) {
	long := bar(0, 100, 1, 0.9, true)
	short := signal.Signal{Index: 1, Close: 100, ATR: 1, Vol: 0.01, PBull: 0.1, PBear: 0.9, ShortEntry: true}

	cfg := testConfig()
	cfg.Direction = strategy.ShortOnly
	res := sim.Run([]signal.Signal{long, {Index: 1, Close: 100, Vol: 0.01, PBull: 0.5, PBear: 0.5}}, cfg)
	assert.Empty(t, res.Trades, "short-only must ignore long entries")

	cfg.Direction = strategy.LongOnly
	res = sim.Run([]signal.Signal{short}, cfg)
	assert.Empty(t, res.Trades, "long-only must ignore short entries")
}

func TestRun_ShortDirectionProfit(t *testing.T) {
	cfg := testConfig()
	cfg.MaxHoldBars = 1

	short := signal.Signal{Index: 0, Close: 100, ATR: 1, Vol: 0.01, PBull: 0.1, PBear: 0.9, ShortEntry: true}
	next := signal.Signal{Index: 1, Close: 95, ATR: 1, Vol: 0.01, PBull: 0.1, PBear: 0.9}

	res := sim.Run([]signal.Signal{short, next}, cfg)
	require.Len(t, res.Trades, 1)
	assert.Equal(t, -1, res.Trades[0].Direction)
	assert.Greater(t, res.Trades[0].NetReturn, 0.0, "short profits when price falls")
}

func TestRun_DoublingFrictionNeverHelps(t *testing.T) {
	signals := make([]signal.Signal, 60)
	price := 100.0
	for i := range signals {
		if i%3 == 0 {
			price += 2
		} else {
			price -= 0.5
		}
		signals[i] = bar(i, price, 1, 0.85, i%4 == 0)
	}

	lo := testConfig()
	lo.FrictionRate = 0.001
	hi := testConfig()
	hi.FrictionRate = 0.002

	resLo := sim.Run(signals, lo)
	resHi := sim.Run(signals, hi)
	require.Equal(t, len(resLo.Trades), len(resHi.Trades), "friction must not change trade selection")

	for i := range resLo.Trades {
		assert.LessOrEqual(t, resHi.Trades[i].NetReturn, resLo.Trades[i].NetReturn)
	}
}

func TestRun_EquityStaysPositive(t *testing.T) {
	cfg := testConfig()
	cfg.FrictionRate = 0.01

	// A brutal crash: the loss per trade is bounded by weight <= cap, so
	// equity never reaches zero.
	signals := make([]signal.Signal, 50)
	price := 100.0
	for i := range signals {
		price *= 0.9
		signals[i] = bar(i, price, price*0.02, 0.9, true)
	}

	res := sim.Run(signals, cfg)
	for i, eq := range res.Equity {
		assert.Greater(t, eq, 0.0, "equity at bar %d", i)
	}
}

func TestPositionWeight(t *testing.T) {
	cfg := strategy.DefaultConfig()
	cfg.VolTarget = 0.01
	cfg.LeverageCap = 2
	cfg.KellyFraction = 0.5

	// vol == target: scale 1; p=1.0: edge 1 -> 1 * 1 * 0.5
	assert.InDelta(t, 0.5, sim.PositionWeight(cfg, 1.0, 0.01), 1e-12)

	// Low vol hits the leverage cap: min(2, 0.01/0.001=10) = 2.
	assert.InDelta(t, 1.0, sim.PositionWeight(cfg, 1.0, 0.001), 1e-12)

	// p below 0.5 has no edge.
	assert.Equal(t, 0.0, sim.PositionWeight(cfg, 0.4, 0.01))

	// Near-zero vol yields zero weight, not unbounded leverage.
	assert.Equal(t, 0.0, sim.PositionWeight(cfg, 1.0, 0))
}
