package common

type PositionSide string

const (
	PositionSideLong  PositionSide = "long"
	PositionSideShort PositionSide = "short"
)

// Position is the single open position the replay may hold. EntryPrice is
// already spread-adjusted.
type Position struct {
	Side       PositionSide `json:"type"`
	EntryPrice float64      `json:"entryPrice"`
	EntryTime  int64        `json:"entryTime"`
}
