package datasource

import (
	"errors"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

var ErrEof = errors.New("EOF")

// ReplaySource feeds an in-memory bar slice in order. It adapts bulk loaders
// like the duckdb candle reader to the one-bar-at-a-time dispatcher.
type ReplaySource struct {
	bars  []common.Bar
	index int
}

func NewReplaySource(bars []common.Bar) *ReplaySource {
	return &ReplaySource{bars: bars}
}

func (s *ReplaySource) GetNext() (common.Bar, error) {
	if s.index >= len(s.bars) {
		return common.Bar{}, ErrEof
	}
	bar := s.bars[s.index]
	s.index++
	return bar, nil
}

func (s *ReplaySource) EntryCount() int64 {
	return int64(len(s.bars))
}
