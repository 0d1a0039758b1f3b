package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vitos/trade_backtest/internal/domain"
)

const (
	BybitBaseURL = "https://api.bybit.com"

	// Bybit v5 kline returns at most 1000 rows per request.
	bybitKlineLimit = 1000
)

// bybitIntervals maps our granularity strings to Bybit v5 interval codes.
var bybitIntervals = map[string]string{
	"1m":  "1",
	"3m":  "3",
	"5m":  "5",
	"15m": "15",
	"30m": "30",
	"1h":  "60",
	"2h":  "120",
	"4h":  "240",
	"1d":  "D",
}

// BybitProvider fetches historical klines from the Bybit v5 public REST API.
// The kline endpoint is public, so no request signing is needed.
type BybitProvider struct {
	baseURL string
	client  *http.Client
}

func NewBybitProvider(baseURL string) *BybitProvider {
	if baseURL == "" {
		baseURL = BybitBaseURL
	}
	return &BybitProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Load pages through the kline endpoint until the whole [start, end] range
// is covered and returns the candles oldest first. Bybit has no server-side
// indicators, so indicator ids are ignored.
func (p *BybitProvider) Load(ctx context.Context, symbol string, start, end time.Time, granularity string, _ []string) ([]domain.Candle, error) {
	interval, ok := bybitIntervals[granularity]
	if !ok {
		return nil, fmt.Errorf("unsupported granularity: %q", granularity)
	}

	var candles []domain.Candle
	cursor := start.UnixMilli()
	endMs := end.UnixMilli()

	for cursor <= endMs {
		batch, err := p.fetchKlines(ctx, symbol, interval, cursor, endMs)
		if err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}

		candles = append(candles, batch...)
		last := batch[len(batch)-1].Timestamp.UnixMilli()
		if last <= cursor {
			break
		}
		cursor = last + 1
	}

	return candles, nil
}

func (p *BybitProvider) fetchKlines(ctx context.Context, symbol, interval string, startMs, endMs int64) ([]domain.Candle, error) {
	url := fmt.Sprintf("%s/v5/market/kline?category=linear&symbol=%s&interval=%s&start=%d&end=%d&limit=%d",
		p.baseURL, symbol, interval, startMs, endMs, bybitKlineLimit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("bybit API error: %s", string(body))
	}

	var result struct {
		RetCode int    `json:"retCode"`
		RetMsg  string `json:"retMsg"`
		Result  struct {
			List [][]string `json:"list"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	if result.RetCode != 0 {
		return nil, fmt.Errorf("bybit kline error %d: %s", result.RetCode, result.RetMsg)
	}

	var candles []domain.Candle
	for _, raw := range result.Result.List {
		// Format: [startTime, open, high, low, close, volume, turnover]
		if len(raw) < 6 {
			continue
		}

		ts, _ := strconv.ParseInt(raw[0], 10, 64)
		open, _ := strconv.ParseFloat(raw[1], 64)
		high, _ := strconv.ParseFloat(raw[2], 64)
		low, _ := strconv.ParseFloat(raw[3], 64)
		closePrice, _ := strconv.ParseFloat(raw[4], 64)
		volume, _ := strconv.ParseFloat(raw[5], 64)

		candles = append(candles, domain.Candle{
			Timestamp: time.UnixMilli(ts).UTC(),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     closePrice,
			Volume:    volume,
		})
	}

	// Bybit returns klines newest first; reverse to chronological order.
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}

	return candles, nil
}
