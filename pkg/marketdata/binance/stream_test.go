package binance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func klineMessage(symbol string, closed bool) []byte {
	return []byte(fmt.Sprintf(`{
		"stream": "%s@kline_1m",
		"data": {
			"e": "kline",
			"E": 1700000061234,
			"s": "%s",
			"k": {
				"t": 1700000000000,
				"T": 1700000059999,
				"s": "%s",
				"i": "1m",
				"o": "1.05500",
				"c": "1.05590",
				"h": "1.05620",
				"l": "1.05480",
				"v": "1250.40",
				"x": %t
			}
		}
	}`, symbol, symbol, symbol, closed))
}

func TestStreamParseKlineClosed(t *testing.T) {
	s := NewStream(zap.NewNop(), "")

	bar, ok, err := s.parseKline(klineMessage("EURUSDT", true))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, int64(1700000000), bar.Time)
	assert.Equal(t, 1.055, bar.Open)
	assert.Equal(t, 1.0562, bar.High)
	assert.Equal(t, 1.0548, bar.Low)
	assert.Equal(t, 1.0559, bar.Close)
	assert.Equal(t, 1250.4, bar.Volume)
	assert.Equal(t, "eurusdt", bar.Symbol)
}

func TestStreamParseKlineInProgress(t *testing.T) {
	s := NewStream(zap.NewNop(), "")

	_, ok, err := s.parseKline(klineMessage("EURUSDT", false))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStreamParseKlineMalformed(t *testing.T) {
	s := NewStream(zap.NewNop(), "")

	_, _, err := s.parseKline([]byte(`{"stream":"x"}`))
	require.Error(t, err)

	_, _, err = s.parseKline([]byte(`not json`))
	require.Error(t, err)
}

func TestStreamBuildURL(t *testing.T) {
	s := NewStream(zap.NewNop(), "wss://example.test")

	url := s.buildStreamURL([]string{"btcusd", "ethusd"}, "1m")
	assert.Equal(t, "wss://example.test/stream?streams=btcusdt@kline_1m/ethusdt@kline_1m", url)
}
