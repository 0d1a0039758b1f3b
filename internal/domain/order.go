package domain

import (
	"errors"
	"fmt"
	"time"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

type OrderType string

const (
	OrderTypeMarket    OrderType = "market"
	OrderTypeLimit     OrderType = "limit"
	OrderTypeStop      OrderType = "stop"
	OrderTypeStopLimit OrderType = "stop_limit"
)

type OrderStatus string

const (
	OrderStatusSubmitted OrderStatus = "submitted"
	OrderStatusFilled    OrderStatus = "filled"
	OrderStatusRejected  OrderStatus = "rejected"
)

var (
	ErrInvalidQuantity  = errors.New("order quantity must be positive")
	ErrMissingLimit     = errors.New("limit price required")
	ErrMissingStop      = errors.New("stop price required")
	ErrUnknownSide      = errors.New("unknown order side")
	ErrUnknownOrderType = errors.New("unknown order type")
)

// Order is a request to trade, immutable once submitted except for its
// status transitions (submitted -> filled | rejected).
type Order struct {
	ID        string
	Symbol    string
	Side      Side
	Type      OrderType
	Quantity  float64
	Price     float64 // limit price, required for limit and stop_limit
	StopPrice float64 // trigger price, required for stop and stop_limit
	Status    OrderStatus
	CreatedAt time.Time
}

// Validate checks the fields required by the order's type. Limit and stop
// prices are only meaningful for the types that use them.
func (o *Order) Validate() error {
	if o.Side != SideBuy && o.Side != SideSell {
		return fmt.Errorf("%w: %q", ErrUnknownSide, o.Side)
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	switch o.Type {
	case OrderTypeMarket:
	case OrderTypeLimit:
		if o.Price <= 0 {
			return ErrMissingLimit
		}
	case OrderTypeStop:
		if o.StopPrice <= 0 {
			return ErrMissingStop
		}
	case OrderTypeStopLimit:
		if o.Price <= 0 {
			return ErrMissingLimit
		}
		if o.StopPrice <= 0 {
			return ErrMissingStop
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOrderType, o.Type)
	}
	return nil
}

// Trade is a single fill produced by the executor. Never mutated after
// creation.
type Trade struct {
	ID        string
	OrderID   string
	Symbol    string
	Side      Side
	Type      OrderType
	Quantity  float64
	Price     float64
	Fees      float64
	Timestamp time.Time
}
