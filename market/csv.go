package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadCSV reads an OHLCV candle series from a CSV file.
//
// Expected columns: time,open,high,low,close,volume. A header row is
// allowed. Time is RFC3339, "2006-01-02", or a unix timestamp in seconds.
func LoadCSV(path string) ([]Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var candles []Candle
	sawFirst := false

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		if len(row) < 5 {
			return nil, fmt.Errorf("csv %s: row has %d columns, want at least 5", path, len(row))
		}

		c, err := parseCandleRow(row)
		if err != nil {
			return nil, fmt.Errorf("csv %s: %w", path, err)
		}
		candles = append(candles, c)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("csv %s: %w", path, ErrUnavailable)
	}
	return candles, nil
}

func parseCandleRow(row []string) (Candle, error) {
	t, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return Candle{}, err
	}

	vals := make([]float64, 0, 5)
	for _, field := range row[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("bad number %q: %w", field, err)
		}
		vals = append(vals, v)
	}

	c := Candle{Time: t, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3]}
	if len(vals) > 4 {
		c.Volume = vals[4]
	}
	return c, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}
