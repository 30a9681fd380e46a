package datasource

import (
	"errors"
	"testing"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

func TestReplaySource(t *testing.T) {
	bars := []common.Bar{
		{Time: 100, Close: 1.0},
		{Time: 200, Close: 1.1},
		{Time: 300, Close: 1.2},
	}
	source := NewReplaySource(bars)

	if source.EntryCount() != 3 {
		t.Errorf("Expected 3 entries, got %d", source.EntryCount())
	}

	for i := range bars {
		bar, err := source.GetNext()
		if err != nil {
			t.Fatalf("Unexpected error at %d: %v", i, err)
		}
		if bar.Time != bars[i].Time {
			t.Errorf("Expected time %d, got %d", bars[i].Time, bar.Time)
		}
	}

	if _, err := source.GetNext(); !errors.Is(err, ErrEof) {
		t.Errorf("Expected ErrEof after exhaustion, got %v", err)
	}
}

func TestReplaySourceEmpty(t *testing.T) {
	source := NewReplaySource(nil)
	if _, err := source.GetNext(); !errors.Is(err, ErrEof) {
		t.Errorf("Expected ErrEof on empty source, got %v", err)
	}
}
