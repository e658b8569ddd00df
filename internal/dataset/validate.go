package dataset

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/quantfold/quantfold/internal/core"
)

// IssueKind classifies a validation finding.
type IssueKind string

const (
	IssueOrdering     IssueKind = "ordering"      // timestamp not strictly increasing
	IssueOHLC         IssueKind = "ohlc"          // high/low inconsistent with open/close
	IssueNonFinite    IssueKind = "non_finite"    // NaN/Inf or non-positive price
	IssueGap          IssueKind = "gap"           // bar spacing well above the typical interval
)

// Issue is one validation finding, indexed by bar.
type Issue struct {
	Index  int       `json:"index"`
	Kind   IssueKind `json:"kind"`
	Detail string    `json:"detail"`
}

// Validate runs the pre-flight checks the engine itself does not perform:
// strict timestamp ordering, OHLC consistency, finite positive prices, and
// coarse gap detection against the median bar interval. Gaps are reported
// but are informational; the other kinds are contract violations.
func Validate(candles []core.Candle) []Issue {
	var issues []Issue

	for i, c := range candles {
		if !finitePositive(c.Open) || !finitePositive(c.High) || !finitePositive(c.Low) || !finitePositive(c.Close) {
			issues = append(issues, Issue{Index: i, Kind: IssueNonFinite,
				Detail: fmt.Sprintf("o=%g h=%g l=%g c=%g", c.Open, c.High, c.Low, c.Close)})
			continue
		}
		if !c.IsConsistent() {
			issues = append(issues, Issue{Index: i, Kind: IssueOHLC,
				Detail: fmt.Sprintf("high %g / low %g inconsistent with open %g close %g", c.High, c.Low, c.Open, c.Close)})
		}
		if i > 0 && !c.Time.After(candles[i-1].Time) {
			issues = append(issues, Issue{Index: i, Kind: IssueOrdering,
				Detail: fmt.Sprintf("%s not after %s", c.Time, candles[i-1].Time)})
		}
	}

	if typical := medianInterval(candles); typical > 0 {
		for i := 1; i < len(candles); i++ {
			delta := candles[i].Time.Sub(candles[i-1].Time)
			if delta > 3*typical {
				issues = append(issues, Issue{Index: i, Kind: IssueGap,
					Detail: fmt.Sprintf("gap of %s (typical %s)", delta, typical)})
			}
		}
	}

	return issues
}

// Check returns an error wrapping the first contract violation, ignoring
// informational gap findings. Use it as a gate before handing candles to
// the engine.
func Check(candles []core.Candle) error {
	for _, issue := range Validate(candles) {
		if issue.Kind == IssueGap {
			continue
		}
		return core.WrapError(core.ErrBadCandles,
			fmt.Errorf("bar %d: %s: %s", issue.Index, issue.Kind, issue.Detail))
	}
	return nil
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func medianInterval(candles []core.Candle) time.Duration {
	if len(candles) < 2 {
		return 0
	}
	deltas := make([]time.Duration, 0, len(candles)-1)
	for i := 1; i < len(candles); i++ {
		deltas = append(deltas, candles[i].Time.Sub(candles[i-1].Time))
	}
	sort.Slice(deltas, func(i, j int) bool { return deltas[i] < deltas[j] })
	return deltas[len(deltas)/2]
}
