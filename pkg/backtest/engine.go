package backtest

import (
	"fmt"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/indicators"
)

// finalCloseContractValue is the contract multiplier applied when a position
// is still open after the last bar and has to be force-closed. It ignores the
// per-asset contract value on purpose: stored results depend on this figure,
// so it must not change without product sign-off. See DESIGN.md.
const finalCloseContractValue = 1000.0

type Option func(*Engine)

// WithTradeHandler emits every closed trade as it happens.
func WithTradeHandler(h func(common.Trade)) Option {
	return func(e *Engine) {
		e.onTrade = h
	}
}

// WithEquityHandler emits the running capital once per replayed bar.
func WithEquityHandler(h func(common.EquityPoint)) Option {
	return func(e *Engine) {
		e.onEquity = h
	}
}

// Engine replays a bar sequence against the configured strategy. A single
// Run is a pure function of (bars, settings); the engine keeps no state
// between runs. The service layer builds one per request instead of sharing.
type Engine struct {
	settings Settings
	onTrade  func(common.Trade)
	onEquity func(common.EquityPoint)
}

func NewEngine(settings Settings, options ...Option) *Engine {
	e := &Engine{settings: settings}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run is shorthand for NewEngine(settings).Run(bars).
func Run(bars []common.Bar, settings Settings) (*Result, error) {
	return NewEngine(settings).Run(bars)
}

// Run walks the bars strictly in order, updating indicator state on every
// bar, managing at most one open position and appending the running capital
// to the equity curve once per iterated bar. The first bar only seeds the
// previous-close reference; iteration starts at the second bar.
func (e *Engine) Run(bars []common.Bar) (*Result, error) {
	cfg, err := e.settings.resolve()
	if err != nil {
		return nil, err
	}
	if err := validateBars(bars); err != nil {
		return nil, err
	}

	ha := indicators.NewHeikinAshi()
	obv := indicators.NewObv()

	capital := cfg.initialCapital
	equity := make([]float64, 0, len(bars)+1)
	equity = append(equity, capital)

	var trades []common.Trade
	var position *common.Position
	daily := make(map[string]*dayTally)
	barsInMarket := 0

	var prevClose float64
	if len(bars) > 0 {
		prevClose = bars[0].Close
		obv.OnClose(bars[0].Close)
		e.emitEquity(bars[0].Time, capital)
	}

	for i := 1; i < len(bars); i++ {
		bar := bars[i]

		obv.OnClose(bar.Close)
		haBar := ha.OnBar(bar)
		prevHAClose, hasPrevHA := ha.PrevClose()

		obvSignal := obv.Signal(cfg.obvPeriod)
		bullish := haBar.Bullish()

		if position != nil {
			barsInMarket++

			priceDiff := bar.Close - position.EntryPrice
			if position.Side == common.PositionSideShort {
				priceDiff = position.EntryPrice - bar.Close
			}

			// Exit priority: stop, then target, then indicator signal.
			var reason common.ExitReason
			switch {
			case priceDiff <= -cfg.stopLossPoints:
				reason = common.ExitReasonStop
			case priceDiff >= cfg.takeProfitPoints:
				reason = common.ExitReasonTarget
			case cfg.useHeikinAshi && exitOnSignal(position.Side, bullish):
				reason = common.ExitReasonSignal
			}

			if reason != "" {
				pnl := priceDiff * cfg.positionSize * cfg.asset.ContractValue
				net := pnl - cfg.spreadCost*cfg.positionSize*cfg.asset.ContractValue - cfg.feePerTrade
				capital += net

				trade := common.Trade{
					Side:       position.Side,
					EntryPrice: position.EntryPrice,
					ExitPrice:  bar.Close,
					EntryTime:  position.EntryTime,
					ExitTime:   bar.Time,
					PnL:        net,
					ExitReason: reason,
				}
				trades = append(trades, trade)
				tallyDay(daily, bar.DateUTC(), net)
				e.emitTrade(trade)
				position = nil
			}
		} else {
			buy, sell := cfg.mode.evaluate(signalInputs{
				bullishHA:   bullish,
				obvSignal:   obvSignal,
				haClose:     haBar.Close,
				prevHAClose: prevHAClose,
				hasPrevHA:   hasPrevHA,
				open:        bar.Open,
				close:       bar.Close,
				prevClose:   prevClose,
			})

			if buy && cfg.allowLong {
				position = &common.Position{
					Side:       common.PositionSideLong,
					EntryPrice: bar.Close + cfg.spreadCost,
					EntryTime:  bar.Time,
				}
				capital -= cfg.feePerTrade
			} else if sell && cfg.allowShort {
				position = &common.Position{
					Side:       common.PositionSideShort,
					EntryPrice: bar.Close - cfg.spreadCost,
					EntryTime:  bar.Time,
				}
				capital -= cfg.feePerTrade
			}
		}

		equity = append(equity, capital)
		e.emitEquity(bar.Time, capital)
		prevClose = bar.Close
	}

	// Data exhausted with a position still open: force-close against the
	// final close.
	if position != nil {
		last := bars[len(bars)-1]

		priceDiff := last.Close - position.EntryPrice
		if position.Side == common.PositionSideShort {
			priceDiff = position.EntryPrice - last.Close
		}

		pnl := priceDiff * cfg.positionSize * finalCloseContractValue
		net := pnl - cfg.spreadCost*cfg.positionSize*finalCloseContractValue - cfg.feePerTrade
		capital += net

		trade := common.Trade{
			Side:       position.Side,
			EntryPrice: position.EntryPrice,
			ExitPrice:  last.Close,
			EntryTime:  position.EntryTime,
			ExitTime:   last.Time,
			PnL:        net,
			ExitReason: common.ExitReasonEnd,
		}
		trades = append(trades, trade)
		tallyDay(daily, last.DateUTC(), net)
		e.emitTrade(trade)
	}

	return buildResult(cfg, bars, equity, trades, daily, barsInMarket, capital), nil
}

func exitOnSignal(side common.PositionSide, bullish bool) bool {
	if side == common.PositionSideLong {
		return !bullish
	}
	return bullish
}

func (e *Engine) emitTrade(trade common.Trade) {
	if e.onTrade != nil {
		e.onTrade(trade)
	}
}

func (e *Engine) emitEquity(ts int64, value float64) {
	if e.onEquity != nil {
		e.onEquity(common.EquityPoint{Time: ts, Value: value})
	}
}

func validateBars(bars []common.Bar) error {
	for i, b := range bars {
		fields := []struct {
			name  string
			value float64
		}{
			{"open", b.Open},
			{"high", b.High},
			{"low", b.Low},
			{"close", b.Close},
		}
		for _, f := range fields {
			if !isFinite(f.value) {
				return &ValidationError{
					Field: fmt.Sprintf("bars[%d].%s", i, f.name),
					Msg:   "must be a finite number",
				}
			}
		}
	}
	return nil
}
