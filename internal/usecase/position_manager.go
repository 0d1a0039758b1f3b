package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/vitos/trade_backtest/internal/domain"
)

// PositionManager owns the set of open positions, keyed by symbol.
type PositionManager struct {
	positions map[string]*domain.Position
}

func NewPositionManager() *PositionManager {
	return &PositionManager{positions: make(map[string]*domain.Position)}
}

// Position returns the open position for symbol, if any.
func (m *PositionManager) Position(symbol string) (*domain.Position, bool) {
	pos, ok := m.positions[symbol]
	return pos, ok
}

// Positions returns all open positions.
func (m *PositionManager) Positions() []*domain.Position {
	out := make([]*domain.Position, 0, len(m.positions))
	for _, pos := range m.positions {
		out = append(out, pos)
	}
	return out
}

func (m *PositionManager) Count() int {
	return len(m.positions)
}

func tradeSide(side domain.Side) domain.PositionSide {
	if side == domain.SideBuy {
		return domain.PositionSideLong
	}
	return domain.PositionSideShort
}

// UpdatePosition applies a fill to the position book. Same-side trades open
// or average the position; opposite-side trades reduce, close or flip it.
// A CompletedTrade is returned only when the trade fully closes an existing
// position (including the close leg of a flip). Partial reductions shrink
// quantity and cost basis proportionally without realizing a trade record.
func (m *PositionManager) UpdatePosition(trade *domain.Trade) (*domain.Position, *domain.CompletedTrade) {
	side := tradeSide(trade.Side)

	pos, ok := m.positions[trade.Symbol]
	if !ok {
		pos = &domain.Position{
			Symbol:        trade.Symbol,
			Quantity:      trade.Quantity,
			Side:          side,
			AvgEntryPrice: trade.Price,
			CurrentPrice:  trade.Price,
			EntryTime:     trade.Timestamp,
			CostBasis:     trade.Quantity * trade.Price,
		}
		m.positions[trade.Symbol] = pos
		return pos, nil
	}

	if pos.Side == side {
		newQuantity := pos.Quantity + trade.Quantity
		newBasis := pos.CostBasis + trade.Quantity*trade.Price
		pos.AvgEntryPrice = newBasis / newQuantity
		pos.Quantity = newQuantity
		pos.CostBasis = newBasis
		m.refreshPnL(pos, trade.Price)
		return pos, nil
	}

	switch {
	case trade.Quantity < pos.Quantity:
		ratio := (pos.Quantity - trade.Quantity) / pos.Quantity
		pos.Quantity -= trade.Quantity
		pos.CostBasis *= ratio
		m.refreshPnL(pos, trade.Price)
		return pos, nil

	case trade.Quantity == pos.Quantity:
		completed := m.buildCompletedTrade(pos, trade.Price, trade.Timestamp)
		delete(m.positions, trade.Symbol)
		return nil, completed

	default:
		completed := m.buildCompletedTrade(pos, trade.Price, trade.Timestamp)
		excess := trade.Quantity - pos.Quantity
		flipped := &domain.Position{
			Symbol:        trade.Symbol,
			Quantity:      excess,
			Side:          side,
			AvgEntryPrice: trade.Price,
			CurrentPrice:  trade.Price,
			EntryTime:     trade.Timestamp,
			CostBasis:     excess * trade.Price,
		}
		m.positions[trade.Symbol] = flipped
		return flipped, completed
	}
}

// CalculatePnL returns the unrealized P&L of a position marked at
// currentPrice, and the same as a percentage of cost basis.
func (m *PositionManager) CalculatePnL(pos *domain.Position, currentPrice float64) (pnl, pct float64) {
	if pos.Side == domain.PositionSideLong {
		pnl = (currentPrice - pos.AvgEntryPrice) * pos.Quantity
	} else {
		pnl = (pos.AvgEntryPrice - currentPrice) * pos.Quantity
	}
	if pos.CostBasis != 0 {
		pct = pnl / pos.CostBasis * 100
	}
	return pnl, pct
}

// ClosePosition removes the position for symbol at exitPrice and returns the
// realized round trip. Returns nil if no position is open.
func (m *PositionManager) ClosePosition(symbol string, exitPrice float64, at time.Time) *domain.CompletedTrade {
	pos, ok := m.positions[symbol]
	if !ok {
		return nil
	}
	completed := m.buildCompletedTrade(pos, exitPrice, at)
	delete(m.positions, symbol)
	return completed
}

// UpdatePositionPrice refreshes the mark price and unrealized P&L of a
// position without any trade.
func (m *PositionManager) UpdatePositionPrice(symbol string, price float64) {
	if pos, ok := m.positions[symbol]; ok {
		m.refreshPnL(pos, price)
	}
}

func (m *PositionManager) Reset() {
	m.positions = make(map[string]*domain.Position)
}

func (m *PositionManager) refreshPnL(pos *domain.Position, price float64) {
	pos.CurrentPrice = price
	pos.UnrealizedPnL, pos.UnrealizedPnLPercent = m.CalculatePnL(pos, price)
}

func (m *PositionManager) buildCompletedTrade(pos *domain.Position, exitPrice float64, at time.Time) *domain.CompletedTrade {
	pnl, pct := m.CalculatePnL(pos, exitPrice)
	return &domain.CompletedTrade{
		ID:         uuid.NewString(),
		Symbol:     pos.Symbol,
		Side:       pos.Side,
		Quantity:   pos.Quantity,
		EntryPrice: pos.AvgEntryPrice,
		ExitPrice:  exitPrice,
		PnL:        pnl,
		PnLPercent: pct,
		EntryTime:  pos.EntryTime,
		ExitTime:   at,
		Duration:   at.Sub(pos.EntryTime),
	}
}
