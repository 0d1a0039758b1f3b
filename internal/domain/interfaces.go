package domain

import (
	"context"
	"time"
)

// DataProvider supplies historical candle data. Implementations must return
// candles in ascending time order and a non-empty slice on success.
type DataProvider interface {
	Load(ctx context.Context, symbol string, start, end time.Time, granularity string, indicators []string) ([]Candle, error)
}

// CandleStore persists candle series for later backtesting.
type CandleStore interface {
	SaveCandles(ctx context.Context, symbol, granularity string, candles []Candle) error
}

// PriceSource resolves the current price for a symbol at a given instant.
// A return of 0 means no price is available. The backtest engine implements
// this with the close of the candle under processing.
type PriceSource interface {
	PriceAt(symbol string, at time.Time) float64
}

// Strategy emits at most one trade signal per candle. OnCandle is the only
// required hook; the lifecycle hooks below are optional interfaces.
type Strategy interface {
	Name() string
	Symbol() string
	OnCandle(candle Candle) *Signal
}

// StartHandler is implemented by strategies that want the account snapshot
// before the first candle.
type StartHandler interface {
	OnStart(account TradingAccount)
}

// TradeHandler is implemented by strategies that want to observe their fills.
type TradeHandler interface {
	OnTrade(trade Trade)
}

// EndHandler is implemented by strategies that want the final metrics.
type EndHandler interface {
	OnEnd(metrics PerformanceMetrics)
}
