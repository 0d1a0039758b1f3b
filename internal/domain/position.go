package domain

import "time"

type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// Position is the net open exposure to a symbol. At most one position exists
// per symbol; it is owned and mutated exclusively by the position manager.
type Position struct {
	Symbol               string
	Quantity             float64
	Side                 PositionSide
	AvgEntryPrice        float64
	CurrentPrice         float64
	UnrealizedPnL        float64
	UnrealizedPnLPercent float64
	EntryTime            time.Time
	CostBasis            float64
}

// CompletedTrade is a closed round trip with realized P&L. Recorded only
// when a position is fully closed or flipped, never on partial reductions.
type CompletedTrade struct {
	ID         string
	Symbol     string
	Side       PositionSide
	Quantity   float64
	EntryPrice float64
	ExitPrice  float64
	PnL        float64
	PnLPercent float64
	EntryTime  time.Time
	ExitTime   time.Time
	Duration   time.Duration
}
