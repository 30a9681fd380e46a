package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

var testBase = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()

func testBar(hour int, o, h, l, c float64) common.Bar {
	return common.Bar{
		Time:  testBase + int64(hour)*3600,
		Open:  o,
		High:  h,
		Low:   l,
		Close: c,
	}
}

func flatBars(n int, price float64) []common.Bar {
	bars := make([]common.Bar, n)
	for i := range bars {
		bars[i] = testBar(i, price, price, price, price)
	}
	return bars
}

func fp(v float64) *float64 { return &v }
func bp(v bool) *bool       { return &v }
func ip(v int) *int         { return &v }

func TestEngine_FlatBarsNoMomentumSignal(t *testing.T) {
	settings := Settings{
		UseOBV:        bp(false),
		UseHeikinAshi: bp(false),
	}

	res, err := Run(flatBars(10, 100), settings)
	require.NoError(t, err)

	assert.Equal(t, 0, res.TotalTrades)
	assert.Equal(t, defaultInitialCapital, res.FinalCapital)
	assert.Len(t, res.Equity, 10)
	for _, v := range res.Equity {
		assert.Equal(t, defaultInitialCapital, v)
	}
}

func TestEngine_StopLossExit(t *testing.T) {
	settings := Settings{
		Asset:       "something-unlisted", // falls back to 0.01 / 1000
		TradeType:   TradeTypeLong,
		StopLoss:    fp(100), // 1.0 in price units
		UseOrderFee: true,
		UseSpread:   true,
		OBVPeriod:   ip(2),
	}

	bars := []common.Bar{
		testBar(0, 100, 100.5, 99.5, 100),
		testBar(1, 100, 101.5, 100, 101),
		testBar(2, 101, 102.5, 101, 102),
		testBar(3, 102, 103.5, 102, 103),      // HA bullish + OBV rising: entry
		testBar(4, 103, 103.2, 101.9, 102.02), // exactly stopLoss points below entry
	}

	res, err := Run(bars, settings)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	trade := res.Trades[0]
	assert.Equal(t, common.PositionSideLong, trade.Side)
	assert.Equal(t, common.ExitReasonStop, trade.ExitReason)
	assert.Equal(t, bars[3].Time, trade.EntryTime)
	assert.Equal(t, bars[4].Time, trade.ExitTime)
	assert.InDelta(t, 103.02, trade.EntryPrice, 1e-9)

	// -stopLoss*pointValue*size*contract - spread*size*contract - fee
	wantPnL := -100*0.01*0.5*1000 - 2*0.01*0.5*1000 - 7.0
	assert.InDelta(t, wantPnL, trade.PnL, 1e-6)

	// Entry fee is charged on top of the exit-side fee baked into the trade.
	assert.InDelta(t, defaultInitialCapital+wantPnL-7.0, res.FinalCapital, 1e-6)
	assert.Len(t, res.Equity, len(bars))
}

func TestEngine_UnknownAssetFallback(t *testing.T) {
	spec := LookupAsset("no-such-asset")
	assert.Equal(t, 0.01, spec.PointValue)
	assert.Equal(t, float64(1000), spec.ContractValue)

	_, err := Run(flatBars(3, 50), Settings{Asset: "no-such-asset"})
	assert.NoError(t, err)
}

func TestEngine_OBVWarmupBlocksEntries(t *testing.T) {
	settings := Settings{
		UseHeikinAshi: bp(false), // OBV-only mode
	}

	// Rising closes, but fewer than obvPeriod+1 accumulated values.
	bars := []common.Bar{
		testBar(0, 100, 100.5, 99.5, 100),
		testBar(1, 100, 101.5, 100, 101),
		testBar(2, 101, 102.5, 101, 102),
		testBar(3, 102, 103.5, 102, 103),
		testBar(4, 103, 104.5, 103, 104),
	}

	res, err := Run(bars, settings)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalTrades)
	assert.Equal(t, defaultInitialCapital, res.FinalCapital)
}

func TestEngine_ForcedCloseUsesFixedContractValue(t *testing.T) {
	settings := Settings{
		Asset:         "dax", // contract value 25, point value 1
		UseOBV:        bp(false),
		UseHeikinAshi: bp(false),
	}

	bars := []common.Bar{
		testBar(0, 100, 100.5, 99.5, 100),
		testBar(1, 100, 101.5, 100, 101), // momentum buy
		testBar(2, 101.5, 102.5, 101, 102),
	}

	res, err := Run(bars, settings)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	trade := res.Trades[0]
	assert.Equal(t, common.ExitReasonEnd, trade.ExitReason)

	// The forced close multiplies by the fixed 1000, not the dax contract
	// value of 25.
	wantPnL := (102.0 - 101.0) * 0.5 * finalCloseContractValue
	assert.InDelta(t, wantPnL, trade.PnL, 1e-9)
	assert.InDelta(t, defaultInitialCapital+wantPnL, res.FinalCapital, 1e-9)

	// The equity curve is sealed before the forced close.
	assert.Len(t, res.Equity, len(bars))
	assert.Equal(t, defaultInitialCapital, res.Equity[len(res.Equity)-1])
}

func TestEngine_HeikinAshiOnlyFirstBarEntry(t *testing.T) {
	settings := Settings{
		UseOBV: bp(false), // Heikin-Ashi-only mode
	}

	// The first transformed bar has no previous HA close; its bullish
	// direction alone opens the position.
	bars := []common.Bar{
		testBar(0, 100, 100.5, 99.5, 100),
		testBar(1, 100, 103, 99.5, 101), // first HA bar, bullish
		testBar(2, 101, 101.2, 98, 99),  // HA turns bearish: signal exit
	}

	res, err := Run(bars, settings)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	trade := res.Trades[0]
	assert.Equal(t, common.PositionSideLong, trade.Side)
	assert.Equal(t, bars[1].Time, trade.EntryTime)
	assert.Equal(t, common.ExitReasonSignal, trade.ExitReason)
	assert.InDelta(t, (99.0-101.0)*0.5*1000, trade.PnL, 1e-9)
}

func TestEngine_Determinism(t *testing.T) {
	settings := Settings{OBVPeriod: ip(3)}
	bars := zigzagBars(40)

	first, err := Run(bars, settings)
	require.NoError(t, err)
	second, err := Run(bars, settings)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_ConservationInvariants(t *testing.T) {
	// Fees and spread off so the ledger accounts for every capital move.
	settings := Settings{
		UseOBV: bp(false),
	}
	bars := zigzagBars(60)

	res, err := Run(bars, settings)
	require.NoError(t, err)

	assert.Equal(t, res.TotalTrades, res.WinningTrades+res.LosingTrades+res.NeutralTrades)

	sum := 0.0
	for _, trade := range res.Trades {
		sum += trade.PnL
	}
	assert.InDelta(t, res.InitialCapital+sum, res.FinalCapital, 1e-6)

	assert.LessOrEqual(t, res.MaxDrawdown, 0.0)
	assert.GreaterOrEqual(t, res.MaxRunup, 0.0)
	assert.Len(t, res.Equity, len(bars))
}

func TestEngine_TradeTypeRestriction(t *testing.T) {
	falling := []common.Bar{
		testBar(0, 100, 100.5, 99.5, 100),
		testBar(1, 100, 100.2, 98.5, 99), // momentum sell
		testBar(2, 99, 99.2, 97.5, 98),
	}
	settings := Settings{
		UseOBV:        bp(false),
		UseHeikinAshi: bp(false),
	}

	settings.TradeType = TradeTypeLong
	res, err := Run(falling, settings)
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalTrades)

	settings.TradeType = TradeTypeShort
	res, err = Run(falling, settings)
	require.NoError(t, err)
	require.NotEmpty(t, res.Trades)
	assert.Equal(t, common.PositionSideShort, res.Trades[0].Side)
}

func TestEngine_TakeProfitExit(t *testing.T) {
	settings := Settings{
		UseOBV:        bp(false),
		UseHeikinAshi: bp(false),
		TakeProfit:    fp(100), // 1.0 in price units with the fallback asset
	}

	bars := []common.Bar{
		testBar(0, 100, 100.5, 99.5, 100),
		testBar(1, 100, 101.5, 100, 101), // momentum buy at 101
		testBar(2, 101, 102.5, 101, 102.5),
	}

	res, err := Run(bars, settings)
	require.NoError(t, err)

	require.Equal(t, 1, res.TotalTrades)
	assert.Equal(t, common.ExitReasonTarget, res.Trades[0].ExitReason)
	assert.InDelta(t, (102.5-101.0)*0.5*1000, res.Trades[0].PnL, 1e-9)
}

func TestEngine_DegenerateInputs(t *testing.T) {
	res, err := Run(nil, Settings{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalTrades)

	res, err = Run(flatBars(1, 100), Settings{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalTrades)
	assert.Len(t, res.Equity, 1)
	assert.Equal(t, defaultInitialCapital, res.Equity[0])
}

func TestEngine_RejectsNonFiniteInput(t *testing.T) {
	bars := flatBars(5, 100)
	bars[2].Close = math.NaN()

	_, err := Run(bars, Settings{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "bars[2].close")

	_, err = Run(flatBars(5, 100), Settings{InitialCapital: fp(math.Inf(1))})
	require.ErrorAs(t, err, &verr)
}

func TestEngine_Handlers(t *testing.T) {
	var trades []common.Trade
	var curve []common.EquityPoint

	bars := zigzagBars(30)
	engine := NewEngine(Settings{UseOBV: bp(false)},
		WithTradeHandler(func(tr common.Trade) { trades = append(trades, tr) }),
		WithEquityHandler(func(p common.EquityPoint) { curve = append(curve, p) }),
	)

	res, err := engine.Run(bars)
	require.NoError(t, err)

	require.NotEmpty(t, trades)
	assert.Equal(t, res.Trades, trades)
	require.Len(t, curve, len(res.Equity))
	for i, p := range curve {
		assert.Equal(t, res.Equity[i], p.Value)
	}
}

// zigzagBars alternates three rising and three falling bars so signal-based
// strategies open and close repeatedly.
func zigzagBars(n int) []common.Bar {
	bars := make([]common.Bar, n)
	price := 100.0
	for i := range bars {
		up := (i/3)%2 == 0
		open := price
		if up {
			price += 1.5
		} else {
			price -= 1.5
		}
		high := max(open, price) + 0.4
		low := min(open, price) - 0.4
		bars[i] = testBar(i, open, high, low, price)
	}
	return bars
}
