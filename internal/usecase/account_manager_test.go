package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vitos/trade_backtest/internal/domain"
	"github.com/vitos/trade_backtest/internal/usecase"
)

func TestAccountManager_DeductOrderCost(t *testing.T) {
	m := usecase.NewAccountManager(100000)

	buy := &domain.Order{Side: domain.SideBuy, Quantity: 1}
	ok := m.DeductOrderCost(buy, 50000)
	assert.True(t, ok)
	assert.Equal(t, 50000.0, m.Account().Balance)
	assert.Equal(t, 50000.0, m.Account().BuyingPower)

	// Oversized order leaves the account untouched.
	big := &domain.Order{Side: domain.SideBuy, Quantity: 10}
	ok = m.DeductOrderCost(big, 50000)
	assert.False(t, ok)
	assert.Equal(t, 50000.0, m.Account().Balance)

	// Sell orders never deduct.
	sell := &domain.Order{Side: domain.SideSell, Quantity: 100}
	ok = m.DeductOrderCost(sell, 50000)
	assert.True(t, ok)
	assert.Equal(t, 50000.0, m.Account().Balance)
}

func TestAccountManager_CreditOrderProceeds(t *testing.T) {
	m := usecase.NewAccountManager(1000)

	m.CreditOrderProceeds(&domain.Trade{Side: domain.SideSell, Quantity: 2, Price: 500, Fees: 10})
	assert.Equal(t, 1990.0, m.Account().Balance)
	assert.Equal(t, 1990.0, m.Account().BuyingPower)

	// Buy trades are a no-op.
	m.CreditOrderProceeds(&domain.Trade{Side: domain.SideBuy, Quantity: 2, Price: 500})
	assert.Equal(t, 1990.0, m.Account().Balance)
}

func TestAccountManager_RefundOrderCost(t *testing.T) {
	m := usecase.NewAccountManager(100000)

	order := &domain.Order{Side: domain.SideBuy, Quantity: 1}
	m.DeductOrderCost(order, 50000)
	m.RefundOrderCost(order, 50000)

	assert.Equal(t, 100000.0, m.Account().Balance)
	assert.Equal(t, 100000.0, m.Account().BuyingPower)
}

func TestAccountManager_UpdateEquity(t *testing.T) {
	m := usecase.NewAccountManager(100000)
	m.DeductOrderCost(&domain.Order{Side: domain.SideBuy, Quantity: 1}, 50000)

	positions := []*domain.Position{
		{Symbol: "BTCUSDT", Quantity: 1, AvgEntryPrice: 50000},
	}

	m.UpdateEquity(positions, map[string]float64{"BTCUSDT": 52000})
	assert.Equal(t, 102000.0, m.Account().Equity)
	assert.Equal(t, 2000.0, m.Account().TotalPnL)
	assert.InDelta(t, 2.0, m.Account().TotalPnLPercent, 1e-9)

	// Missing price falls back to the average entry price.
	m.UpdateEquity(positions, map[string]float64{})
	assert.Equal(t, 100000.0, m.Account().Equity)
	assert.Equal(t, 0.0, m.Account().TotalPnL)
}

func TestAccountManager_Reset(t *testing.T) {
	m := usecase.NewAccountManager(100000)
	m.DeductOrderCost(&domain.Order{Side: domain.SideBuy, Quantity: 1}, 50000)

	m.Reset(25000)
	account := m.Account()
	assert.Equal(t, 25000.0, account.Balance)
	assert.Equal(t, 25000.0, account.StartingBalance)
	assert.Equal(t, 25000.0, account.Equity)
	assert.Equal(t, 25000.0, account.BuyingPower)
	assert.Equal(t, 0.0, account.TotalPnL)
}
