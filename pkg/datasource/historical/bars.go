package historical

import (
	"fmt"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

const barSourceComponentName = "datasource.historical.bars"

// BinaryBar is the on-disk record layout. Field order matters; the struct
// must stay free of padding.
type BinaryBar struct {
	Time   int64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

func (b BinaryBar) ToBar(symbol string, bar *common.Bar) {
	bar.Time = b.Time
	bar.Open = b.Open
	bar.High = b.High
	bar.Low = b.Low
	bar.Close = b.Close
	bar.Volume = b.Volume
	bar.Symbol = symbol
	bar.Source = barSourceComponentName
}

// BarSource iterates a memory-mapped bar file in time order.
type BarSource struct {
	symbol string
	source *Source[BinaryBar]
	index  int64
}

func OpenBarSource(symbol, path string) (*BarSource, error) {
	source, err := OpenSource[BinaryBar](path)
	if err != nil {
		return nil, err
	}
	return &BarSource{symbol: symbol, source: source}, nil
}

func (s *BarSource) Close() {
	_ = s.source.Close()
}

func (s *BarSource) EntryCount() int64 {
	return s.source.Len()
}

func (s *BarSource) GetNext() (common.Bar, error) {
	var bar common.Bar

	var record BinaryBar
	if err := s.source.At(s.index, &record); err != nil {
		return bar, err
	}
	s.index++

	record.ToBar(s.symbol, &bar)
	return bar, nil
}

// SeekTime positions the iterator on the first bar at or after the given
// unix timestamp. Records are assumed sorted by time.
func (s *BarSource) SeekTime(unix int64) error {
	lo, hi := int64(0), s.source.Len()
	for lo < hi {
		mid := lo + (hi-lo)/2
		var record BinaryBar
		if err := s.source.At(mid, &record); err != nil {
			return fmt.Errorf("seek read at %d: %w", mid, err)
		}
		if record.Time < unix {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	s.index = lo
	return nil
}
