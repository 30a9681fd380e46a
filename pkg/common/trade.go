package common

type ExitReason string

const (
	ExitReasonStop   ExitReason = "stop"
	ExitReasonTarget ExitReason = "target"
	ExitReasonSignal ExitReason = "signal"
	ExitReasonEnd    ExitReason = "end"
)

// Trade is a closed position. PnL is net of spread and fee.
type Trade struct {
	Side       PositionSide `json:"type"`
	EntryPrice float64      `json:"entryPrice"`
	ExitPrice  float64      `json:"exitPrice"`
	EntryTime  int64        `json:"entryTime"`
	ExitTime   int64        `json:"exitTime"`
	PnL        float64      `json:"pnl"`
	ExitReason ExitReason   `json:"exitReason"`
}

func (t Trade) Winning() bool { return t.PnL > 0 }
func (t Trade) Losing() bool  { return t.PnL < 0 }
