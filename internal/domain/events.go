package domain

type EventName string

const (
	EventTradeExecuted   EventName = "trade-executed"
	EventOrderRejected   EventName = "order-rejected"
	EventPositionClosed  EventName = "position-closed"
	EventPositionUpdated EventName = "position-updated"
	EventAccountUpdated  EventName = "account-updated"
	EventProgress        EventName = "progress"
	EventDataLoaded      EventName = "data-loaded"
	EventReset           EventName = "reset"
)

// Event is implemented by one payload struct per event name. Listeners
// type-switch on the concrete payload rather than decoding loose maps.
type Event interface {
	EventName() EventName
}

type TradeExecutedEvent struct {
	Trade Trade
}

func (TradeExecutedEvent) EventName() EventName { return EventTradeExecuted }

type OrderRejectedEvent struct {
	Order  Order
	Reason string
}

func (OrderRejectedEvent) EventName() EventName { return EventOrderRejected }

type PositionClosedEvent struct {
	Completed CompletedTrade
}

func (PositionClosedEvent) EventName() EventName { return EventPositionClosed }

type PositionUpdatedEvent struct {
	Position Position
}

func (PositionUpdatedEvent) EventName() EventName { return EventPositionUpdated }

type AccountUpdatedEvent struct {
	Account TradingAccount
}

func (AccountUpdatedEvent) EventName() EventName { return EventAccountUpdated }

type ProgressEvent struct {
	Processed int
	Total     int
}

func (ProgressEvent) EventName() EventName { return EventProgress }

type DataLoadedEvent struct {
	Symbol  string
	Candles int
}

func (DataLoadedEvent) EventName() EventName { return EventDataLoaded }

type ResetEvent struct {
	StartingBalance float64
}

func (ResetEvent) EventName() EventName { return EventReset }
