package usecase

import "github.com/vitos/trade_backtest/internal/domain"

// AccountManager owns the cash balance, buying power, equity and total P&L
// for one engine run. All operations are in-memory state transitions.
type AccountManager struct {
	account domain.TradingAccount
}

func NewAccountManager(startingBalance float64) *AccountManager {
	m := &AccountManager{}
	m.Reset(startingBalance)
	return m
}

// Account returns a copy of the current account state.
func (m *AccountManager) Account() domain.TradingAccount {
	return m.account
}

// DeductOrderCost reserves the cash for a buy order at the given price.
// Returns false and leaves the account untouched if buying power is
// insufficient. Sell orders always succeed without touching the account.
func (m *AccountManager) DeductOrderCost(order *domain.Order, price float64) bool {
	if order.Side != domain.SideBuy {
		return true
	}
	cost := order.Quantity * price
	if cost > m.account.BuyingPower {
		return false
	}
	m.account.Balance -= cost
	m.account.BuyingPower -= cost
	return true
}

// RefundOrderCost undoes a DeductOrderCost for a buy order whose fill
// condition did not trigger, so a no-fill leaves the account unchanged.
func (m *AccountManager) RefundOrderCost(order *domain.Order, price float64) {
	if order.Side != domain.SideBuy {
		return
	}
	cost := order.Quantity * price
	m.account.Balance += cost
	m.account.BuyingPower += cost
}

// CreditOrderProceeds adds the proceeds of a sell fill, net of fees. Buy
// trades are a no-op.
func (m *AccountManager) CreditOrderProceeds(trade *domain.Trade) {
	if trade.Side != domain.SideSell {
		return
	}
	proceeds := trade.Quantity*trade.Price - trade.Fees
	m.account.Balance += proceeds
	m.account.BuyingPower += proceeds
}

// SettleClose applies the cash movement of a forced position close that did
// not go through an order: closing a long sells the quantity, closing a
// short buys it back.
func (m *AccountManager) SettleClose(side domain.PositionSide, quantity, exitPrice float64) {
	value := quantity * exitPrice
	if side == domain.PositionSideLong {
		m.account.Balance += value
		m.account.BuyingPower += value
	} else {
		m.account.Balance -= value
		m.account.BuyingPower -= value
	}
}

// UpdateEquity recomputes equity as balance plus the mark-to-market value of
// all open positions, falling back to the average entry price for symbols
// without a current price.
func (m *AccountManager) UpdateEquity(positions []*domain.Position, currentPrices map[string]float64) {
	equity := m.account.Balance
	for _, pos := range positions {
		price, ok := currentPrices[pos.Symbol]
		if !ok || price == 0 {
			price = pos.AvgEntryPrice
		}
		equity += pos.Quantity * price
	}
	m.account.Equity = equity
	m.account.TotalPnL = equity - m.account.StartingBalance
	if m.account.StartingBalance != 0 {
		m.account.TotalPnLPercent = m.account.TotalPnL / m.account.StartingBalance * 100
	} else {
		m.account.TotalPnLPercent = 0
	}
}

// Reset reinitializes every field to the given starting balance.
func (m *AccountManager) Reset(startingBalance float64) {
	m.account = domain.TradingAccount{
		Balance:         startingBalance,
		StartingBalance: startingBalance,
		Equity:          startingBalance,
		BuyingPower:     startingBalance,
	}
}
