package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitos/trade_backtest/internal/domain"
)

// OrderExecutor holds the pure fill-decision logic. Each check evaluates a
// single price sample: either the whole order fills or nothing happens.
// Orders are never resubmitted; a non-firing check simply returns nil and
// the caller re-evaluates on the next price sample.
type OrderExecutor struct{}

func NewOrderExecutor() *OrderExecutor {
	return &OrderExecutor{}
}

// Fill decides whether the order executes against currentPrice and at what
// price. Returns nil when the order's condition does not trigger.
func (e *OrderExecutor) Fill(order *domain.Order, currentPrice float64, at time.Time) *domain.Trade {
	switch order.Type {
	case domain.OrderTypeMarket:
		return e.fillMarket(order, currentPrice, at)
	case domain.OrderTypeLimit:
		return e.fillLimit(order, currentPrice, at)
	case domain.OrderTypeStop:
		return e.fillStop(order, currentPrice, at)
	case domain.OrderTypeStopLimit:
		return e.fillStopLimit(order, currentPrice, at)
	default:
		return nil
	}
}

// fillMarket always fills at the current price.
func (e *OrderExecutor) fillMarket(order *domain.Order, currentPrice float64, at time.Time) *domain.Trade {
	return newTrade(order, currentPrice, at)
}

// fillLimit fills at the limit price when the market trades at or through it:
// buys when the price is at or below the limit, sells at or above.
func (e *OrderExecutor) fillLimit(order *domain.Order, currentPrice float64, at time.Time) *domain.Trade {
	if !limitSatisfied(order.Side, currentPrice, order.Price) {
		return nil
	}
	return newTrade(order, order.Price, at)
}

// fillStop fills at the current price once the trigger is crossed: a stop
// buy is a breakout entry (price at or above the trigger), a stop sell a
// protective stop (price at or below).
func (e *OrderExecutor) fillStop(order *domain.Order, currentPrice float64, at time.Time) *domain.Trade {
	if !stopTriggered(order.Side, currentPrice, order.StopPrice) {
		return nil
	}
	return newTrade(order, currentPrice, at)
}

// fillStopLimit requires both the stop trigger and the limit condition, and
// fills at the limit price rather than the trigger price.
func (e *OrderExecutor) fillStopLimit(order *domain.Order, currentPrice float64, at time.Time) *domain.Trade {
	if !stopTriggered(order.Side, currentPrice, order.StopPrice) {
		return nil
	}
	if !limitSatisfied(order.Side, currentPrice, order.Price) {
		return nil
	}
	return newTrade(order, order.Price, at)
}

func limitSatisfied(side domain.Side, currentPrice, limitPrice float64) bool {
	if side == domain.SideBuy {
		return currentPrice <= limitPrice
	}
	return currentPrice >= limitPrice
}

func stopTriggered(side domain.Side, currentPrice, stopPrice float64) bool {
	if side == domain.SideBuy {
		return currentPrice >= stopPrice
	}
	return currentPrice <= stopPrice
}

func newTrade(order *domain.Order, fillPrice float64, at time.Time) *domain.Trade {
	return &domain.Trade{
		ID:        uuid.NewString(),
		OrderID:   order.ID,
		Symbol:    order.Symbol,
		Side:      order.Side,
		Type:      order.Type,
		Quantity:  order.Quantity,
		Price:     fillPrice,
		Timestamp: at,
	}
}
