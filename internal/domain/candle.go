package domain

import "time"

// Candle is one OHLCV bar, optionally carrying precomputed indicator values
// keyed by indicator id (e.g. "sma_20", "rsi_14").
type Candle struct {
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	Indicators map[string]float64
}

// Signal is a strategy's trade request for the candle it was produced on.
// Price and StopPrice are interpreted per the order type, as on Order.
type Signal struct {
	Side      Side
	Type      OrderType
	Quantity  float64
	Price     float64
	StopPrice float64
}
