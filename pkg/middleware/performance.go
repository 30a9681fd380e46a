package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/bus"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

// Performance accumulates time spent inside the wrapped handlers.
type Performance struct {
	logger *zap.Logger

	totalBarHandlerDur     time.Duration
	totalSignalHandlerDur  time.Duration
	totalPosOpenHandlerDur time.Duration
	totalTradeHandlerDur   time.Duration
	totalEquityHandlerDur  time.Duration
}

func NewPerformance(logger *zap.Logger) *Performance {
	return &Performance{
		logger: logger,
	}
}

func (p *Performance) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		startTime := time.Now()
		handler(ctx, bar)
		p.totalBarHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) {
		startTime := time.Now()
		handler(ctx, signal)
		p.totalSignalHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) WithPositionOpen(handler bus.PositionOpenEventHandler) bus.PositionOpenEventHandler {
	return func(ctx context.Context, position common.Position) {
		startTime := time.Now()
		handler(ctx, position)
		p.totalPosOpenHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, trade common.Trade) {
		startTime := time.Now()
		handler(ctx, trade)
		p.totalTradeHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) WithEquity(handler bus.EquityEventHandler) bus.EquityEventHandler {
	return func(ctx context.Context, point common.EquityPoint) {
		startTime := time.Now()
		handler(ctx, point)
		p.totalEquityHandlerDur += time.Since(startTime)
	}
}

func (p *Performance) PrintStatistics(t *Telemetry) {
	if t == nil {
		p.logger.Warn("telemetry is nil; cannot compute performance statistics")
		return
	}

	var fields []zap.Field

	if t.barEventCounter > 0 {
		fields = append(fields,
			zap.Duration("bar_avg_duration", p.totalBarHandlerDur/time.Duration(t.barEventCounter)),
			zap.Duration("bar_total_duration", p.totalBarHandlerDur))
	}
	if t.signalEventCounter > 0 {
		fields = append(fields,
			zap.Duration("signal_avg_duration", p.totalSignalHandlerDur/time.Duration(t.signalEventCounter)),
			zap.Duration("signal_total_duration", p.totalSignalHandlerDur))
	}
	if t.positionOpenEventCounter > 0 {
		fields = append(fields,
			zap.Duration("position_open_avg_duration", p.totalPosOpenHandlerDur/time.Duration(t.positionOpenEventCounter)),
			zap.Duration("position_open_total_duration", p.totalPosOpenHandlerDur))
	}
	if t.tradeEventCounter > 0 {
		fields = append(fields,
			zap.Duration("trade_avg_duration", p.totalTradeHandlerDur/time.Duration(t.tradeEventCounter)),
			zap.Duration("trade_total_duration", p.totalTradeHandlerDur))
	}
	if t.equityEventCounter > 0 {
		fields = append(fields,
			zap.Duration("equity_avg_duration", p.totalEquityHandlerDur/time.Duration(t.equityEventCounter)),
			zap.Duration("equity_total_duration", p.totalEquityHandlerDur))
	}

	p.logger.Info("performance statistics", fields...)
}
