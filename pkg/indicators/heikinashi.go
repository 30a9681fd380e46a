package indicators

import (
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

// HABar is one Heikin-Ashi transformed candle.
type HABar struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

func (b HABar) Bullish() bool {
	return b.Close > b.Open
}

// HeikinAshi applies the smoothed-candle recurrence. Each output depends on
// the previous output, so bars must be fed strictly in time order.
type HeikinAshi struct {
	current   HABar
	prevClose float64
	count     int
}

func NewHeikinAshi() *HeikinAshi {
	return &HeikinAshi{}
}

func (h *HeikinAshi) OnBar(b common.Bar) HABar {
	haClose := (b.Open + b.High + b.Low + b.Close) / 4

	var haOpen float64
	if h.count == 0 {
		haOpen = (b.Open + b.Close) / 2
	} else {
		haOpen = (h.current.Open + h.current.Close) / 2
	}

	if h.count > 0 {
		h.prevClose = h.current.Close
	}

	h.current = HABar{
		Open:  haOpen,
		High:  max(b.High, haOpen, haClose),
		Low:   min(b.Low, haOpen, haClose),
		Close: haClose,
	}
	h.count++

	return h.current
}

func (h *HeikinAshi) Current() HABar {
	return h.current
}

// PrevClose returns the close of the candle before the current one. The
// second return is false until two bars have been processed.
func (h *HeikinAshi) PrevClose() (float64, bool) {
	return h.prevClose, h.count > 1
}

func (h *HeikinAshi) Ready() bool {
	return h.count > 0
}

func (h *HeikinAshi) Reset() {
	h.current = HABar{}
	h.prevClose = 0
	h.count = 0
}
