package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/trade_backtest/internal/domain"
	"github.com/vitos/trade_backtest/internal/usecase"
)

func completedTrade(pnl, pnlPercent float64, exit time.Time) domain.CompletedTrade {
	return domain.CompletedTrade{
		Symbol:     "BTCUSDT",
		Side:       domain.PositionSideLong,
		Quantity:   1,
		PnL:        pnl,
		PnLPercent: pnlPercent,
		EntryTime:  exit.Add(-time.Hour),
		ExitTime:   exit,
	}
}

func TestCalculateMetrics_Empty(t *testing.T) {
	m := usecase.CalculateMetrics(nil, domain.TradingAccount{StartingBalance: 100000})
	assert.Equal(t, domain.PerformanceMetrics{}, m)
}

func TestCalculateMetrics(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []domain.CompletedTrade{
		completedTrade(2000, 4, t0),
		completedTrade(-1000, -2, t0.Add(time.Hour)),
		completedTrade(3000, 6, t0.Add(2*time.Hour)),
		completedTrade(-500, -1, t0.Add(3*time.Hour)),
	}
	account := domain.TradingAccount{StartingBalance: 100000}

	m := usecase.CalculateMetrics(trades, account)
	assert.Equal(t, 4, m.TotalTrades)
	assert.Equal(t, 2, m.WinningTrades)
	assert.Equal(t, 2, m.LosingTrades)
	assert.Equal(t, 50.0, m.WinRate)
	assert.Equal(t, 3500.0, m.TotalPnL)
	assert.Equal(t, 2500.0, m.AvgWin)
	assert.Equal(t, 750.0, m.AvgLoss)
	assert.InDelta(t, 2500.0/750.0, m.ProfitFactor, 1e-9)
	assert.Equal(t, 875.0, m.Expectancy)
	assert.Greater(t, m.MaxDrawdown, 0.0)
	assert.NotZero(t, m.SharpeRatio)
}

func TestCalculateMetrics_NoLosers(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []domain.CompletedTrade{
		completedTrade(1000, 2, t0),
		completedTrade(2000, 4, t0.Add(time.Hour)),
	}

	m := usecase.CalculateMetrics(trades, domain.TradingAccount{StartingBalance: 100000})
	assert.Equal(t, 100.0, m.WinRate)
	assert.Equal(t, 0.0, m.ProfitFactor)
	assert.Equal(t, 0.0, m.AvgLoss)
	assert.Equal(t, 0.0, m.MaxDrawdown)
}

func TestCalculateMaxDrawdown(t *testing.T) {
	assert.Equal(t, 0.0, usecase.CalculateMaxDrawdown(nil, 100000))

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []domain.CompletedTrade{
		completedTrade(10000, 10, t0),   // 110000, peak
		completedTrade(-22000, -20, t0), // 88000: 20% off the peak
		completedTrade(5000, 5, t0),     // 93000
	}
	assert.InDelta(t, 20.0, usecase.CalculateMaxDrawdown(trades, 100000), 1e-9)
}

func TestCalculateSharpeRatio(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Fewer than two trades.
	assert.Equal(t, 0.0, usecase.CalculateSharpeRatio(nil))
	assert.Equal(t, 0.0, usecase.CalculateSharpeRatio([]domain.CompletedTrade{completedTrade(100, 1, t0)}))

	// Zero standard deviation.
	flat := []domain.CompletedTrade{completedTrade(100, 2, t0), completedTrade(100, 2, t0)}
	assert.Equal(t, 0.0, usecase.CalculateSharpeRatio(flat))

	// Returns 2 and 4: mean 3, population stddev 1.
	trades := []domain.CompletedTrade{completedTrade(100, 2, t0), completedTrade(200, 4, t0)}
	assert.InDelta(t, 3.0, usecase.CalculateSharpeRatio(trades), 1e-9)
}

func TestGenerateEquityCurve(t *testing.T) {
	assert.Empty(t, usecase.GenerateEquityCurve(nil, 100000))

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []domain.CompletedTrade{
		completedTrade(2000, 4, t0),
		completedTrade(-1000, -2, t0.Add(time.Hour)),
	}

	curve := usecase.GenerateEquityCurve(trades, 100000)
	require.Len(t, curve, len(trades)+1)

	assert.Equal(t, trades[0].EntryTime, curve[0].Timestamp)
	assert.Equal(t, 100000.0, curve[0].Equity)
	assert.Equal(t, 102000.0, curve[1].Equity)
	assert.Equal(t, 101000.0, curve[2].Equity)
	assert.Equal(t, trades[1].ExitTime, curve[2].Timestamp)
}

func TestCalculateDrawdownCurve(t *testing.T) {
	assert.Empty(t, usecase.CalculateDrawdownCurve(nil, 100000))

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	trades := []domain.CompletedTrade{
		completedTrade(10000, 10, t0),
		completedTrade(-11000, -10, t0.Add(time.Hour)),
	}

	curve := usecase.CalculateDrawdownCurve(trades, 100000)
	require.Len(t, curve, len(trades)+1)
	assert.Equal(t, 0.0, curve[0].Drawdown)
	assert.Equal(t, 0.0, curve[1].Drawdown)
	assert.InDelta(t, 10.0, curve[2].Drawdown, 1e-9) // 99000 vs a 110000 peak
}
