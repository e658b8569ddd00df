package indicator

import (
	"math"
	"testing"

	"github.com/quantfold/quantfold/internal/core"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) < tolerance
}

func candlesFromCloses(closes []float64) []core.Candle {
	out := make([]core.Candle, len(closes))
	for i, c := range closes {
		out[i] = core.Candle{Open: c, High: c, Low: c, Close: c}
	}
	return out
}

func TestSmoothedLogPrice(t *testing.T) {
	// closes {1, e, e} with lambda=0.5:
	// s[0] = log(1) = 0
	// s[1] = 0.5*0 + 0.5*1 = 0.5
	// s[2] = 0.5*0.5 + 0.5*1 = 0.75
	candles := candlesFromCloses([]float64{1, math.E, math.E})
	s := SmoothedLogPrice(candles, 0.5)

	expected := []float64{0, 0.5, 0.75}
	if len(s) != len(expected) {
		t.Fatalf("expected %d values, got %d", len(expected), len(s))
	}
	for i, want := range expected {
		if !almostEqual(s[i], want, 1e-12) {
			t.Errorf("s[%d] = %f, want %f", i, s[i], want)
		}
	}
}

func TestSmoothedLogPrice_Empty(t *testing.T) {
	if s := SmoothedLogPrice(nil, 0.95); len(s) != 0 {
		t.Errorf("expected empty slice, got %d values", len(s))
	}
}

func TestDelta(t *testing.T) {
	d := Delta([]float64{1, 3, 6})

	// First element is defined as zero (no prior value).
	expected := []float64{0, 2, 3}
	for i, want := range expected {
		if d[i] != want {
			t.Errorf("d[%d] = %f, want %f", i, d[i], want)
		}
	}
}

func TestDelta_Idempotent(t *testing.T) {
	in := []float64{1.1, 2.7, 2.2, 9.9}
	a := Delta(in)
	b := Delta(in)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("delta not bit-identical at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRollingMean(t *testing.T) {
	// window 2 over [2,4,6,8]: partial mean at t=0, then pairwise means
	got := RollingMean([]float64{2, 4, 6, 8}, 2)
	expected := []float64{2, 3, 5, 7}
	for i, want := range expected {
		if got[i] != want {
			t.Errorf("mean[%d] = %f, want %f", i, got[i], want)
		}
	}
}
