package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/vitos/trade_backtest/internal/domain"
)

// csvCandle is one row of a candle file: timestamp,open,high,low,close,volume
// with the timestamp in unix milliseconds.
type csvCandle struct {
	Timestamp int64   `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

// CSVProvider reads candle series from files named <symbol>_<granularity>.csv
// under a data directory. CSV files carry no indicator columns, so indicator
// ids are ignored.
type CSVProvider struct {
	dir string
}

func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{dir: dir}
}

func (p *CSVProvider) Load(_ context.Context, symbol string, start, end time.Time, granularity string, _ []string) ([]domain.Candle, error) {
	path := filepath.Join(p.dir, fmt.Sprintf("%s_%s.csv", symbol, granularity))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candle file: %w", err)
	}
	defer f.Close()

	var rows []csvCandle
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var candles []domain.Candle
	for _, row := range rows {
		ts := time.UnixMilli(row.Timestamp).UTC()
		if ts.Before(start) || ts.After(end) {
			continue
		}
		candles = append(candles, domain.Candle{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	return candles, nil
}
