package usecase_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitos/trade_backtest/internal/domain"
	"github.com/vitos/trade_backtest/internal/usecase"
)

func TestOrderExecutor_Fill(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		order        domain.Order
		currentPrice float64
		wantFill     bool
		wantPrice    float64
	}{
		{
			name:         "market buy fills at current price",
			order:        domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeMarket, Quantity: 1},
			currentPrice: 50000,
			wantFill:     true,
			wantPrice:    50000,
		},
		{
			name:         "limit buy fills at limit when price at or below",
			order:        domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeLimit, Quantity: 1, Price: 50000},
			currentPrice: 49500,
			wantFill:     true,
			wantPrice:    50000,
		},
		{
			name:         "limit buy does not fill above limit",
			order:        domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeLimit, Quantity: 1, Price: 50000},
			currentPrice: 50001,
			wantFill:     false,
		},
		{
			name:         "limit sell fills at limit when price at or above",
			order:        domain.Order{Side: domain.SideSell, Type: domain.OrderTypeLimit, Quantity: 1, Price: 52000},
			currentPrice: 52500,
			wantFill:     true,
			wantPrice:    52000,
		},
		{
			name:         "limit sell does not fill below limit",
			order:        domain.Order{Side: domain.SideSell, Type: domain.OrderTypeLimit, Quantity: 1, Price: 52000},
			currentPrice: 51999,
			wantFill:     false,
		},
		{
			name:         "stop buy triggers on breakout at current price",
			order:        domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeStop, Quantity: 1, StopPrice: 51000},
			currentPrice: 51200,
			wantFill:     true,
			wantPrice:    51200,
		},
		{
			name:         "stop buy does not trigger below stop",
			order:        domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeStop, Quantity: 1, StopPrice: 51000},
			currentPrice: 50900,
			wantFill:     false,
		},
		{
			name:         "protective stop sell triggers at or below stop",
			order:        domain.Order{Side: domain.SideSell, Type: domain.OrderTypeStop, Quantity: 1, StopPrice: 49000},
			currentPrice: 48800,
			wantFill:     true,
			wantPrice:    48800,
		},
		{
			name:         "stop sell does not trigger above stop",
			order:        domain.Order{Side: domain.SideSell, Type: domain.OrderTypeStop, Quantity: 1, StopPrice: 49000},
			currentPrice: 49100,
			wantFill:     false,
		},
		{
			name: "stop limit buy fills at limit when both conditions met",
			order: domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeStopLimit, Quantity: 1,
				StopPrice: 50000, Price: 50500},
			currentPrice: 50200,
			wantFill:     true,
			wantPrice:    50500,
		},
		{
			name: "stop limit buy blocked when limit exceeded",
			order: domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeStopLimit, Quantity: 1,
				StopPrice: 50000, Price: 50500},
			currentPrice: 50600,
			wantFill:     false,
		},
		{
			name: "stop limit buy blocked when stop not triggered",
			order: domain.Order{Side: domain.SideBuy, Type: domain.OrderTypeStopLimit, Quantity: 1,
				StopPrice: 50000, Price: 50500},
			currentPrice: 49900,
			wantFill:     false,
		},
		{
			name: "stop limit sell fills at limit",
			order: domain.Order{Side: domain.SideSell, Type: domain.OrderTypeStopLimit, Quantity: 1,
				StopPrice: 49000, Price: 48500},
			currentPrice: 48700,
			wantFill:     true,
			wantPrice:    48500,
		},
	}

	executor := usecase.NewOrderExecutor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.order.ID = "order-1"
			tt.order.Symbol = "BTCUSDT"

			trade := executor.Fill(&tt.order, tt.currentPrice, now)
			if !tt.wantFill {
				assert.Nil(t, trade)
				return
			}

			require.NotNil(t, trade)
			assert.Equal(t, tt.wantPrice, trade.Price)
			assert.Equal(t, tt.order.Quantity, trade.Quantity)
			assert.Equal(t, tt.order.Side, trade.Side)
			assert.Equal(t, "order-1", trade.OrderID)
			assert.Equal(t, now, trade.Timestamp)
		})
	}
}
