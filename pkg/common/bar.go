package common

import (
	"time"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/utility"
)

// Bar is one OHLC sample. Time is a Unix timestamp in seconds; callers are
// expected to deliver bars strictly increasing in time.
type Bar struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume,omitempty"`

	Source  string          `json:"src,omitempty"`
	Symbol  string          `json:"symbol,omitempty"`
	TraceID utility.TraceID `json:"tid,omitempty"`
}

func (b Bar) TimeUTC() time.Time {
	return time.Unix(b.Time, 0).UTC()
}

// DateUTC is the UTC calendar day the bar falls on, used for daily P&L
// bucketing.
func (b Bar) DateUTC() string {
	return b.TimeUTC().Format(time.DateOnly)
}
