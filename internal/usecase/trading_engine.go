package usecase

import (
	"time"

	"go.uber.org/zap"

	"github.com/vitos/trade_backtest/internal/domain"
)

const (
	rejectPriceNotAvailable = "Price not available"
	rejectInsufficientFunds = "Insufficient funds"
)

// TradingEngine composes the account, position and execution logic and
// emits lifecycle events. Price resolution is delegated to an injected
// PriceSource; the backtest engine supplies the candle under processing.
//
// Per-order failures are reported through an order-rejected event and a nil
// return, never through errors: the engine stays usable for the next candle.
type TradingEngine struct {
	log *zap.Logger

	prices   domain.PriceSource
	now      func() time.Time
	account  *AccountManager
	book     *PositionManager
	executor *OrderExecutor

	completed []domain.CompletedTrade
	events    *emitter
}

func NewTradingEngine(prices domain.PriceSource, startingBalance float64, log *zap.Logger) *TradingEngine {
	if log == nil {
		log = zap.NewNop()
	}
	return &TradingEngine{
		log:      log,
		prices:   prices,
		now:      time.Now,
		account:  NewAccountManager(startingBalance),
		book:     NewPositionManager(),
		executor: NewOrderExecutor(),
		events:   newEmitter(),
	}
}

// Subscribe registers a listener for the named event. Dispatch is
// synchronous, in registration order, within the engine's own run.
func (e *TradingEngine) Subscribe(name domain.EventName, fn func(domain.Event)) {
	e.events.subscribe(name, fn)
}

// SetClock overrides the engine's notion of "now". The backtest engine sets
// this to the timestamp of the candle under processing.
func (e *TradingEngine) SetClock(now func() time.Time) {
	e.now = now
}

// Account returns a copy of the current account state.
func (e *TradingEngine) Account() domain.TradingAccount {
	return e.account.Account()
}

// Positions returns all open positions.
func (e *TradingEngine) Positions() []*domain.Position {
	return e.book.Positions()
}

// Position returns the open position for symbol, if any.
func (e *TradingEngine) Position(symbol string) (*domain.Position, bool) {
	return e.book.Position(symbol)
}

// CompletedTrades returns a copy of the append-only realized trade log.
func (e *TradingEngine) CompletedTrades() []domain.CompletedTrade {
	out := make([]domain.CompletedTrade, len(e.completed))
	copy(out, e.completed)
	return out
}

// ExecuteOrder runs the order through price lookup, funds check and the
// type-specific fill decision. A nil return without a rejection event means
// the order's condition simply did not trigger.
func (e *TradingEngine) ExecuteOrder(order *domain.Order) *domain.Trade {
	if err := order.Validate(); err != nil {
		e.reject(order, err.Error())
		return nil
	}

	now := e.now()
	price := e.prices.PriceAt(order.Symbol, now)
	if price == 0 {
		e.reject(order, rejectPriceNotAvailable)
		return nil
	}

	if !e.account.DeductOrderCost(order, price) {
		e.reject(order, rejectInsufficientFunds)
		return nil
	}

	trade := e.executor.Fill(order, price, now)
	if trade == nil {
		// Silent no-fill: undo the reservation so the account is untouched.
		e.account.RefundOrderCost(order, price)
		return nil
	}

	order.Status = domain.OrderStatusFilled
	pos, closed := e.book.UpdatePosition(trade)

	if trade.Side == domain.SideSell {
		e.account.CreditOrderProceeds(trade)
	}
	if closed != nil {
		e.completed = append(e.completed, *closed)
	}

	e.refreshEquity()

	e.log.Debug("trade executed",
		zap.String("symbol", trade.Symbol),
		zap.String("side", string(trade.Side)),
		zap.Float64("quantity", trade.Quantity),
		zap.Float64("price", trade.Price))

	e.events.emit(domain.TradeExecutedEvent{Trade: *trade})
	if closed != nil {
		e.events.emit(domain.PositionClosedEvent{Completed: *closed})
	} else if pos != nil {
		e.events.emit(domain.PositionUpdatedEvent{Position: *pos})
	}
	e.events.emit(domain.AccountUpdatedEvent{Account: e.account.Account()})

	return trade
}

// ClosePosition force-closes the open position for symbol at the current
// price, settling its cash value directly. Returns nil if there is no
// position or no price.
func (e *TradingEngine) ClosePosition(symbol string) *domain.CompletedTrade {
	now := e.now()
	price := e.prices.PriceAt(symbol, now)
	if price == 0 {
		return nil
	}

	completed := e.book.ClosePosition(symbol, price, now)
	if completed == nil {
		return nil
	}

	e.account.SettleClose(completed.Side, completed.Quantity, completed.ExitPrice)
	e.completed = append(e.completed, *completed)
	e.refreshEquity()

	e.events.emit(domain.PositionClosedEvent{Completed: *completed})
	e.events.emit(domain.AccountUpdatedEvent{Account: e.account.Account()})

	return completed
}

// MarkPrice refreshes a position's mark price and the account equity from an
// external price update, without any trade.
func (e *TradingEngine) MarkPrice(symbol string, price float64) {
	e.book.UpdatePositionPrice(symbol, price)
	e.refreshEquity()
}

// Reset clears the account, the position book and the trade log.
func (e *TradingEngine) Reset(startingBalance float64) {
	e.account.Reset(startingBalance)
	e.book.Reset()
	e.completed = nil
	e.events.emit(domain.ResetEvent{StartingBalance: startingBalance})
}

func (e *TradingEngine) reject(order *domain.Order, reason string) {
	order.Status = domain.OrderStatusRejected
	e.log.Debug("order rejected",
		zap.String("symbol", order.Symbol),
		zap.String("reason", reason))
	e.events.emit(domain.OrderRejectedEvent{Order: *order, Reason: reason})
}

func (e *TradingEngine) refreshEquity() {
	positions := e.book.Positions()
	prices := make(map[string]float64, len(positions))
	for _, pos := range positions {
		prices[pos.Symbol] = pos.CurrentPrice
	}
	e.account.UpdateEquity(positions, prices)
}
