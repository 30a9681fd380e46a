package indicators

import (
	"math"
	"testing"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func Test_NewHeikinAshi(t *testing.T) {
	ha := NewHeikinAshi()

	if ha.Ready() {
		t.Error("Expected HeikinAshi to not be ready initially")
	}

	if _, ok := ha.PrevClose(); ok {
		t.Error("Expected no previous close initially")
	}
}

func TestHeikinAshi_FirstBar(t *testing.T) {
	ha := NewHeikinAshi()

	bar := common.Bar{Open: 100, High: 110, Low: 90, Close: 105}
	out := ha.OnBar(bar)

	wantClose := (100.0 + 110.0 + 90.0 + 105.0) / 4
	wantOpen := (100.0 + 105.0) / 2

	if !almostEqual(out.Close, wantClose) {
		t.Errorf("Expected haClose %v, got %v", wantClose, out.Close)
	}
	if !almostEqual(out.Open, wantOpen) {
		t.Errorf("Expected haOpen %v, got %v", wantOpen, out.Open)
	}
	if !almostEqual(out.High, 110) {
		t.Errorf("Expected haHigh 110, got %v", out.High)
	}
	if !almostEqual(out.Low, 90) {
		t.Errorf("Expected haLow 90, got %v", out.Low)
	}

	if _, ok := ha.PrevClose(); ok {
		t.Error("Expected no previous close after a single bar")
	}
}

func TestHeikinAshi_Recurrence(t *testing.T) {
	ha := NewHeikinAshi()

	first := ha.OnBar(common.Bar{Open: 100, High: 110, Low: 90, Close: 105})
	second := ha.OnBar(common.Bar{Open: 105, High: 115, Low: 100, Close: 112})

	wantOpen := (first.Open + first.Close) / 2
	wantClose := (105.0 + 115.0 + 100.0 + 112.0) / 4

	if !almostEqual(second.Open, wantOpen) {
		t.Errorf("Expected haOpen %v, got %v", wantOpen, second.Open)
	}
	if !almostEqual(second.Close, wantClose) {
		t.Errorf("Expected haClose %v, got %v", wantClose, second.Close)
	}

	prev, ok := ha.PrevClose()
	if !ok {
		t.Fatal("Expected previous close after two bars")
	}
	if !almostEqual(prev, first.Close) {
		t.Errorf("Expected previous close %v, got %v", first.Close, prev)
	}
}

func TestHeikinAshi_HighLowEnvelope(t *testing.T) {
	ha := NewHeikinAshi()
	ha.OnBar(common.Bar{Open: 100, High: 101, Low: 99, Close: 100.5})

	// A gap-down bar where haOpen sits above the raw high.
	out := ha.OnBar(common.Bar{Open: 90, High: 92, Low: 88, Close: 91})

	if out.High < out.Open || out.High < out.Close {
		t.Errorf("haHigh %v must envelope haOpen %v and haClose %v", out.High, out.Open, out.Close)
	}
	if out.Low > out.Open || out.Low > out.Close {
		t.Errorf("haLow %v must envelope haOpen %v and haClose %v", out.Low, out.Open, out.Close)
	}
}

func TestHeikinAshi_Bullish(t *testing.T) {
	up := HABar{Open: 100, Close: 101}
	down := HABar{Open: 101, Close: 100}
	flat := HABar{Open: 100, Close: 100}

	if !up.Bullish() {
		t.Error("Expected rising candle to be bullish")
	}
	if down.Bullish() {
		t.Error("Expected falling candle to not be bullish")
	}
	if flat.Bullish() {
		t.Error("Expected flat candle to not be bullish")
	}
}

func TestHeikinAshi_Reset(t *testing.T) {
	ha := NewHeikinAshi()
	ha.OnBar(common.Bar{Open: 100, High: 110, Low: 90, Close: 105})
	ha.OnBar(common.Bar{Open: 105, High: 115, Low: 100, Close: 112})

	ha.Reset()

	if ha.Ready() {
		t.Error("Expected HeikinAshi to not be ready after reset")
	}
	if _, ok := ha.PrevClose(); ok {
		t.Error("Expected no previous close after reset")
	}
}
