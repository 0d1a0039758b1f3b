package domain

import "time"

// PerformanceMetrics summarizes a completed-trade log. All fields are zero
// for an empty log.
type PerformanceMetrics struct {
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64
	TotalPnL      float64
	AvgWin        float64
	AvgLoss       float64
	ProfitFactor  float64
	Expectancy    float64
	MaxDrawdown   float64
	SharpeRatio   float64
}

type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

type DrawdownPoint struct {
	Timestamp time.Time
	Drawdown  float64
}

// BacktestResult is the immutable snapshot handed to results consumers after
// a run.
type BacktestResult struct {
	Strategy      string
	Symbol        string
	StartDate     time.Time
	EndDate       time.Time
	Metrics       PerformanceMetrics
	Trades        []CompletedTrade
	EquityCurve   []EquityPoint
	DrawdownCurve []DrawdownPoint
	Account       TradingAccount
}
