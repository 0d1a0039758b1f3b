package usecase

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/vitos/trade_backtest/internal/domain"
)

// Performance analytics over a completed-trade log. All functions are
// stateless; an empty trade list yields zero-valued output, never nil
// metrics.

// CalculateMetrics derives the full metrics set from the realized trade log
// and the final account state.
func CalculateMetrics(trades []domain.CompletedTrade, account domain.TradingAccount) domain.PerformanceMetrics {
	m := domain.PerformanceMetrics{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return m
	}

	var wins, losses []float64
	var totalPnL float64
	for _, t := range trades {
		totalPnL += t.PnL
		if t.PnL > 0 {
			wins = append(wins, t.PnL)
		} else if t.PnL < 0 {
			losses = append(losses, math.Abs(t.PnL))
		}
	}

	m.WinningTrades = len(wins)
	m.LosingTrades = len(losses)
	m.TotalPnL = totalPnL
	m.WinRate = float64(len(wins)) / float64(len(trades)) * 100
	m.Expectancy = totalPnL / float64(len(trades))

	if len(wins) > 0 {
		m.AvgWin, _ = stats.Mean(wins)
	}
	if len(losses) > 0 {
		m.AvgLoss, _ = stats.Mean(losses)
		if m.AvgLoss != 0 {
			m.ProfitFactor = m.AvgWin / m.AvgLoss
		}
	}

	m.MaxDrawdown = CalculateMaxDrawdown(trades, account.StartingBalance)
	m.SharpeRatio = CalculateSharpeRatio(trades)
	return m
}

// CalculateMaxDrawdown walks the trade sequence accumulating a running
// balance and reports the largest percentage decline from the running peak.
func CalculateMaxDrawdown(trades []domain.CompletedTrade, startingBalance float64) float64 {
	if len(trades) == 0 {
		return 0
	}

	running := startingBalance
	peak := startingBalance
	maxDrawdown := 0.0

	for _, t := range trades {
		running += t.PnL
		if running > peak {
			peak = running
		}
		if peak > 0 {
			drawdown := (peak - running) / peak * 100
			if drawdown > maxDrawdown {
				maxDrawdown = drawdown
			}
		}
	}
	return maxDrawdown
}

// CalculateSharpeRatio is the mean per-trade return divided by the
// population standard deviation of those returns. Zero for fewer than two
// trades or a flat return series.
func CalculateSharpeRatio(trades []domain.CompletedTrade) float64 {
	if len(trades) < 2 {
		return 0
	}

	returns := make([]float64, len(trades))
	for i, t := range trades {
		returns[i] = t.PnLPercent
	}

	mean, err := stats.Mean(returns)
	if err != nil {
		return 0
	}
	stddev, err := stats.StandardDeviationPopulation(returns)
	if err != nil || stddev == 0 {
		return 0
	}
	return mean / stddev
}

// GenerateEquityCurve seeds with the starting balance at the first trade's
// entry time, then one point per trade at its exit time.
func GenerateEquityCurve(trades []domain.CompletedTrade, startingBalance float64) []domain.EquityPoint {
	if len(trades) == 0 {
		return []domain.EquityPoint{}
	}

	curve := make([]domain.EquityPoint, 0, len(trades)+1)
	curve = append(curve, domain.EquityPoint{
		Timestamp: trades[0].EntryTime,
		Equity:    startingBalance,
	})

	running := startingBalance
	for _, t := range trades {
		running += t.PnL
		curve = append(curve, domain.EquityPoint{Timestamp: t.ExitTime, Equity: running})
	}
	return curve
}

// CalculateDrawdownCurve mirrors the equity curve, reporting the percentage
// distance below the running peak at each trade exit.
func CalculateDrawdownCurve(trades []domain.CompletedTrade, startingBalance float64) []domain.DrawdownPoint {
	if len(trades) == 0 {
		return []domain.DrawdownPoint{}
	}

	curve := make([]domain.DrawdownPoint, 0, len(trades)+1)
	curve = append(curve, domain.DrawdownPoint{Timestamp: trades[0].EntryTime})

	running := startingBalance
	peak := startingBalance
	for _, t := range trades {
		running += t.PnL
		if running > peak {
			peak = running
		}
		var drawdown float64
		if peak > 0 {
			drawdown = (peak - running) / peak * 100
		}
		curve = append(curve, domain.DrawdownPoint{Timestamp: t.ExitTime, Drawdown: drawdown})
	}
	return curve
}
