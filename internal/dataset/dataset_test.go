package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/quantfold/quantfold/internal/core"
)

func TestLoadCSV_WithHeader(t *testing.T) {
	data := `time,open,high,low,close,volume
2020-01-02,100,105,98,103,50000
2020-01-03,103,108,101,107,61000
`
	candles, err := LoadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Close != 103 || candles[1].Volume != 61000 {
		t.Errorf("unexpected values: %+v", candles)
	}
}

func TestLoadCSV_UnixAndRFC3339Timestamps(t *testing.T) {
	data := "1577923200,100,105,98,103,50000\n2020-01-03T00:00:00Z,103,108,101,107,61000\n"
	candles, err := LoadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	if !candles[0].Time.Equal(want) {
		t.Errorf("time = %s, want %s", candles[0].Time, want)
	}
}

func TestLoadCSV_BadRow(t *testing.T) {
	data := "2020-01-02,100,abc,98,103,50000\n"
	_, err := LoadCSV(strings.NewReader(data))
	if !errors.Is(err, core.ErrBadCandles) {
		t.Errorf("expected BAD_CANDLES, got %v", err)
	}
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("time,open,high,low,close,volume\n"))
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected NO_DATA, got %v", err)
	}
}

func day(i int) time.Time {
	return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func TestValidate_FindsContractViolations(t *testing.T) {
	candles := []core.Candle{
		{Time: day(0), Open: 100, High: 105, Low: 98, Close: 103},
		{Time: day(0), Open: 103, High: 108, Low: 101, Close: 107}, // duplicate timestamp
		{Time: day(2), Open: 107, High: 105, Low: 101, Close: 104}, // high < open
		{Time: day(3), Open: math.NaN(), High: 105, Low: 98, Close: 103},
	}

	issues := Validate(candles)

	kinds := map[IssueKind]int{}
	for _, issue := range issues {
		kinds[issue.Kind]++
	}
	if kinds[IssueOrdering] != 1 {
		t.Errorf("expected 1 ordering issue, got %d", kinds[IssueOrdering])
	}
	if kinds[IssueOHLC] != 1 {
		t.Errorf("expected 1 ohlc issue, got %d", kinds[IssueOHLC])
	}
	if kinds[IssueNonFinite] != 1 {
		t.Errorf("expected 1 non-finite issue, got %d", kinds[IssueNonFinite])
	}
}

func TestValidate_ReportsGaps(t *testing.T) {
	candles := []core.Candle{
		{Time: day(0), Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: day(1), Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: day(2), Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: day(30), Open: 1, High: 2, Low: 0.5, Close: 1.5},
	}

	var gaps int
	for _, issue := range Validate(candles) {
		if issue.Kind == IssueGap {
			gaps++
		}
	}
	if gaps != 1 {
		t.Errorf("expected 1 gap, got %d", gaps)
	}
}

func TestCheck_IgnoresGaps(t *testing.T) {
	candles := []core.Candle{
		{Time: day(0), Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: day(1), Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: day(2), Open: 1, High: 2, Low: 0.5, Close: 1.5},
		{Time: day(30), Open: 1, High: 2, Low: 0.5, Close: 1.5},
	}
	if err := Check(candles); err != nil {
		t.Errorf("gaps alone should pass Check: %v", err)
	}

	candles[1].Time = candles[0].Time
	if err := Check(candles); !errors.Is(err, core.ErrBadCandles) {
		t.Errorf("expected BAD_CANDLES, got %v", err)
	}
}

func TestSynthetic_PassesCheck(t *testing.T) {
	candles := Synthetic(300, 100)
	if len(candles) != 300 {
		t.Fatalf("expected 300 candles, got %d", len(candles))
	}
	if err := Check(candles); err != nil {
		t.Fatalf("synthetic data must satisfy the data contract: %v", err)
	}

	// Deterministic: two calls produce the same series.
	again := Synthetic(300, 100)
	for i := range candles {
		if candles[i] != again[i] {
			t.Fatalf("synthetic series not deterministic at bar %d", i)
		}
	}
}
