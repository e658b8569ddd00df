// Package dataset loads and validates candle series for the engine. The
// engine itself assumes clean input; this package is the collaborator that
// guarantees it.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/quantfold/internal/core"
)

// LoadCSVFile reads candles from a CSV file with columns
// time,open,high,low,close,volume. A header row is detected and skipped.
func LoadCSVFile(path string) ([]core.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, core.WrapError(core.ErrNoData, err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV reads candles from CSV data. Timestamps may be RFC3339, a plain
// date (2006-01-02), or unix seconds.
func LoadCSV(r io.Reader) ([]core.Candle, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 6
	reader.TrimLeadingSpace = true

	var candles []core.Candle
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.WrapError(core.ErrBadCandles, err)
		}
		row++

		// Header detection: first row with a non-numeric, non-date time field.
		if row == 1 {
			if _, tsErr := parseTime(record[0]); tsErr != nil {
				continue
			}
		}

		candle, err := parseRecord(record)
		if err != nil {
			return nil, core.WrapError(core.ErrBadCandles, fmt.Errorf("row %d: %w", row, err))
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, core.ErrNoData
	}
	return candles, nil
}

func parseRecord(record []string) (core.Candle, error) {
	ts, err := parseTime(record[0])
	if err != nil {
		return core.Candle{}, fmt.Errorf("time %q: %w", record[0], err)
	}

	fields := make([]float64, 5)
	for i, name := range []string{"open", "high", "low", "close", "volume"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return core.Candle{}, fmt.Errorf("%s %q: %w", name, record[i+1], err)
		}
		fields[i] = v
	}

	return core.Candle{
		Time:   ts,
		Open:   fields[0],
		High:   fields[1],
		Low:    fields[2],
		Close:  fields[3],
		Volume: fields[4],
	}, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format")
}
