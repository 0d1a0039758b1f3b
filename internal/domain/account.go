package domain

// TradingAccount holds the cash state for one engine run. BuyingPower always
// equals Balance: no margin is modeled.
type TradingAccount struct {
	Balance         float64
	StartingBalance float64
	Equity          float64
	BuyingPower     float64
	TotalPnL        float64
	TotalPnLPercent float64
}
