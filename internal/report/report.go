// Package report renders a backtest result for human or machine consumers.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/vitos/trade_backtest/internal/domain"
)

// Write prints the metrics summary and the realized trade log as text
// tables.
func Write(w io.Writer, result *domain.BacktestResult) {
	fmt.Fprintf(w, "Backtest: %s on %s (%s - %s)\n\n",
		result.Strategy, result.Symbol,
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))

	m := result.Metrics
	a := result.Account

	summary := tablewriter.NewWriter(w)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.Append([]string{"Starting Balance", fmt.Sprintf("%.2f", a.StartingBalance)})
	summary.Append([]string{"Final Equity", fmt.Sprintf("%.2f", a.Equity)})
	summary.Append([]string{"Total PnL", fmt.Sprintf("%.2f (%.2f%%)", a.TotalPnL, a.TotalPnLPercent)})
	summary.Append([]string{"Total Trades", fmt.Sprintf("%d", m.TotalTrades)})
	summary.Append([]string{"Win Rate", fmt.Sprintf("%.2f%%", m.WinRate)})
	summary.Append([]string{"Avg Win / Avg Loss", fmt.Sprintf("%.2f / %.2f", m.AvgWin, m.AvgLoss)})
	summary.Append([]string{"Profit Factor", fmt.Sprintf("%.2f", m.ProfitFactor)})
	summary.Append([]string{"Expectancy", fmt.Sprintf("%.2f", m.Expectancy)})
	summary.Append([]string{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdown)})
	summary.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)})
	summary.Render()

	if len(result.Trades) == 0 {
		fmt.Fprintln(w, "\nNo completed trades.")
		return
	}

	fmt.Fprintln(w)
	trades := tablewriter.NewWriter(w)
	trades.SetHeader([]string{"Side", "Qty", "Entry", "Exit", "PnL", "PnL %", "Duration"})
	for _, t := range result.Trades {
		trades.Append([]string{
			string(t.Side),
			fmt.Sprintf("%.4f", t.Quantity),
			fmt.Sprintf("%.2f", t.EntryPrice),
			fmt.Sprintf("%.2f", t.ExitPrice),
			fmt.Sprintf("%.2f", t.PnL),
			fmt.Sprintf("%.2f", t.PnLPercent),
			t.Duration.Round(time.Second).String(),
		})
	}
	trades.Render()
}

// WriteJSON dumps the full result snapshot, including the equity and
// drawdown curves, as indented JSON.
func WriteJSON(w io.Writer, result *domain.BacktestResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
