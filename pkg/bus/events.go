package bus

type EventId uint8

const (
	BarEvent EventId = iota
	SignalEvent
	PositionOpenEvent
	TradeEvent
	EquityEvent
)
