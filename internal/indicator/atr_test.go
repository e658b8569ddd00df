package indicator

import (
	"testing"

	"github.com/quantfold/quantfold/internal/core"
)

func TestTrueRange(t *testing.T) {
	candles := []core.Candle{
		{Open: 9, High: 10, Low: 8, Close: 9},
		{Open: 11, High: 12, Low: 11, Close: 12},
	}

	tr := TrueRange(candles)

	// Bar 0 has no previous close: high-low = 2.
	if tr[0] != 2 {
		t.Errorf("tr[0] = %f, want 2", tr[0])
	}
	// Bar 1: max(12-11, |12-9|, |11-9|) = 3 (gap up dominates).
	if tr[1] != 3 {
		t.Errorf("tr[1] = %f, want 3", tr[1])
	}
}

func TestATR_WilderSmoothing(t *testing.T) {
	// True ranges come out as [2, 3, 5]; with period=2:
	// atr[0] = 2 (running average)
	// atr[1] = (2+3)/2 = 2.5 (seed)
	// atr[2] = (2.5*1 + 5)/2 = 3.75
	candles := []core.Candle{
		{Open: 9, High: 10, Low: 8, Close: 9},
		{Open: 11, High: 12, Low: 11, Close: 12},
		{Open: 12, High: 14, Low: 9, Close: 10},
	}

	atr := ATR(candles, 2)

	expected := []float64{2, 2.5, 3.75}
	for i, want := range expected {
		if !almostEqual(atr[i], want, 1e-12) {
			t.Errorf("atr[%d] = %f, want %f", i, atr[i], want)
		}
	}
}

func TestATR_FlatMarket(t *testing.T) {
	// Constant prices: every true range is zero, so ATR stays zero.
	candles := candlesFromCloses([]float64{100, 100, 100, 100, 100})
	for i, v := range ATR(candles, 3) {
		if v != 0 {
			t.Errorf("atr[%d] = %f, want 0 in flat market", i, v)
		}
	}
}
