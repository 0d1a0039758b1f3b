package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vitos/trade_backtest/internal/domain"
)

var (
	ErrNoData        = errors.New("no candles in range")
	ErrDataNotLoaded = errors.New("historical data not loaded")
)

// progressInterval is how many candles pass between progress events.
const progressInterval = 100

// BacktestEngine drives a strategy over pre-loaded historical candles. It
// owns the per-symbol series, acts as the TradingEngine's price source (the
// close of the candle under processing) and assembles the final result.
//
// One engine instance owns one run's state; concurrent runs need one engine
// each.
type BacktestEngine struct {
	*TradingEngine

	log      *zap.Logger
	provider domain.DataProvider

	startingBalance float64
	candles         map[string][]domain.Candle

	current    domain.Candle
	hasCurrent bool
}

func NewBacktestEngine(provider domain.DataProvider, startingBalance float64, log *zap.Logger) *BacktestEngine {
	if log == nil {
		log = zap.NewNop()
	}
	b := &BacktestEngine{
		log:             log,
		provider:        provider,
		startingBalance: startingBalance,
		candles:         make(map[string][]domain.Candle),
	}
	b.TradingEngine = NewTradingEngine(b, startingBalance, log)
	b.SetClock(b.simTime)
	return b
}

// PriceAt implements domain.PriceSource: during a run, the only price is the
// close of the candle currently being processed.
func (b *BacktestEngine) PriceAt(symbol string, _ time.Time) float64 {
	if !b.hasCurrent {
		return 0
	}
	if _, ok := b.candles[symbol]; !ok {
		return 0
	}
	return b.current.Close
}

func (b *BacktestEngine) simTime() time.Time {
	if b.hasCurrent {
		return b.current.Timestamp
	}
	return time.Now()
}

// LoadHistoricalData fetches the candle series for symbol from the provider
// and keeps it in memory for RunBacktest. An empty range is fatal.
func (b *BacktestEngine) LoadHistoricalData(ctx context.Context, symbol string, start, end time.Time, granularity string, indicators []string) error {
	candles, err := b.provider.Load(ctx, symbol, start, end, granularity, indicators)
	if err != nil {
		return fmt.Errorf("load historical data for %s: %w", symbol, err)
	}
	if len(candles) == 0 {
		return fmt.Errorf("%w: %s %s [%s, %s]", ErrNoData, symbol, granularity,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	b.candles[symbol] = candles
	b.log.Info("historical data loaded",
		zap.String("symbol", symbol),
		zap.String("granularity", granularity),
		zap.Int("candles", len(candles)))
	b.events.emit(domain.DataLoadedEvent{Symbol: symbol, Candles: len(candles)})
	return nil
}

// RunBacktest replays the loaded series for the strategy's symbol through
// the strategy, one candle per step, then force-closes anything still open
// at the final close so the trade log reflects fully realized P&L.
func (b *BacktestEngine) RunBacktest(strategy domain.Strategy) (*domain.BacktestResult, error) {
	symbol := strategy.Symbol()
	series, ok := b.candles[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrDataNotLoaded, symbol)
	}

	b.Reset(b.startingBalance)
	b.hasCurrent = false

	if h, ok := strategy.(domain.StartHandler); ok {
		h.OnStart(b.Account())
	}

	total := len(series)
	for i, candle := range series {
		b.current = candle
		b.hasCurrent = true

		if signal := strategy.OnCandle(candle); signal != nil {
			order := &domain.Order{
				ID:        uuid.NewString(),
				Symbol:    symbol,
				Side:      signal.Side,
				Type:      signal.Type,
				Quantity:  signal.Quantity,
				Price:     signal.Price,
				StopPrice: signal.StopPrice,
				Status:    domain.OrderStatusSubmitted,
				CreatedAt: candle.Timestamp,
			}
			if trade := b.ExecuteOrder(order); trade != nil {
				if h, ok := strategy.(domain.TradeHandler); ok {
					h.OnTrade(*trade)
				}
			}
		}

		b.MarkPrice(symbol, candle.Close)

		if (i+1)%progressInterval == 0 || i == total-1 {
			b.events.emit(domain.ProgressEvent{Processed: i + 1, Total: total})
		}
	}

	for _, pos := range b.Positions() {
		b.ClosePosition(pos.Symbol)
	}

	trades := b.CompletedTrades()
	account := b.Account()
	metrics := CalculateMetrics(trades, account)

	result := &domain.BacktestResult{
		Strategy:      strategy.Name(),
		Symbol:        symbol,
		StartDate:     series[0].Timestamp,
		EndDate:       series[total-1].Timestamp,
		Metrics:       metrics,
		Trades:        trades,
		EquityCurve:   GenerateEquityCurve(trades, account.StartingBalance),
		DrawdownCurve: CalculateDrawdownCurve(trades, account.StartingBalance),
		Account:       account,
	}

	b.hasCurrent = false

	if h, ok := strategy.(domain.EndHandler); ok {
		h.OnEnd(metrics)
	}

	b.log.Info("backtest complete",
		zap.String("strategy", strategy.Name()),
		zap.String("symbol", symbol),
		zap.Int("trades", metrics.TotalTrades),
		zap.Float64("total_pnl", account.TotalPnL))

	return result, nil
}
