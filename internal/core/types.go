package core

import "time"

// Candle represents one OHLCV bar. Candles are immutable once produced and
// must be ordered chronologically with no duplicate timestamps; the data
// loader guarantees the ordering, the engine does not re-validate it.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// IsConsistent checks the OHLC relationship the data contract requires:
// high is at least max(open, close) and low is at most min(open, close).
func (c Candle) IsConsistent() bool {
	hi := c.Open
	if c.Close > hi {
		hi = c.Close
	}
	lo := c.Open
	if c.Close < lo {
		lo = c.Close
	}
	return c.High >= hi && c.Low <= lo
}

// ParameterPair holds the two smoothing constants the optimizer searches
// over: Lambda decays the smoothed log-price, Theta decays the EWMA
// variance. A pair is immutable per evaluation.
type ParameterPair struct {
	Lambda float64 `json:"lambda"`
	Theta  float64 `json:"theta"`
}

// Closes extracts the close series from a candle slice.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}
