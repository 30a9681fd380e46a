package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/bus"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

// Telemetry counts events flowing through the wrapped handlers.
type Telemetry struct {
	logger *zap.Logger

	barEventCounter          int64
	signalEventCounter       int64
	positionOpenEventCounter int64
	tradeEventCounter        int64
	equityEventCounter       int64
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
	}
}

func (t *Telemetry) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		t.barEventCounter++
		handler(ctx, bar)
	}
}

func (t *Telemetry) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) {
		t.signalEventCounter++
		handler(ctx, signal)
	}
}

func (t *Telemetry) WithPositionOpen(handler bus.PositionOpenEventHandler) bus.PositionOpenEventHandler {
	return func(ctx context.Context, position common.Position) {
		t.positionOpenEventCounter++
		handler(ctx, position)
	}
}

func (t *Telemetry) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, trade common.Trade) {
		t.tradeEventCounter++
		handler(ctx, trade)
	}
}

func (t *Telemetry) WithEquity(handler bus.EquityEventHandler) bus.EquityEventHandler {
	return func(ctx context.Context, point common.EquityPoint) {
		t.equityEventCounter++
		handler(ctx, point)
	}
}

func (t *Telemetry) PrintStatistics() {
	t.logger.Info("event statistics",
		zap.Int64("bar_events", t.barEventCounter),
		zap.Int64("signal_events", t.signalEventCounter),
		zap.Int64("position_open_events", t.positionOpenEventCounter),
		zap.Int64("trade_events", t.tradeEventCounter),
		zap.Int64("equity_events", t.equityEventCounter))
}
