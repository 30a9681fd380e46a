package middleware

import (
	"context"

	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/bus"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

type MonitorFlags uint8

const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorBars
	MonitorSignals
	MonitorPositionsOpened
	MonitorTrades
	MonitorEquity
)

// Monitor logs events selected by the flag mask and passes them through.
type Monitor struct {
	logger *zap.Logger
	flags  MonitorFlags
}

func NewMonitor(logger *zap.Logger, flags MonitorFlags) *Monitor {
	return &Monitor{
		logger: logger,
		flags:  flags,
	}
}

func (m *Monitor) WithBar(handler bus.BarEventHandler) bus.BarEventHandler {
	return func(ctx context.Context, bar common.Bar) {
		if m.flags&MonitorBars != 0 || m.flags&MonitorAll != 0 {
			m.logger.Info("event", zap.Any("bar", bar))
		}
		handler(ctx, bar)
	}
}

func (m *Monitor) WithSignal(handler bus.SignalEventHandler) bus.SignalEventHandler {
	return func(ctx context.Context, signal common.Signal) {
		if m.flags&MonitorSignals != 0 || m.flags&MonitorAll != 0 {
			m.logger.Info("event", zap.Any("signal", signal))
		}
		handler(ctx, signal)
	}
}

func (m *Monitor) WithPositionOpen(handler bus.PositionOpenEventHandler) bus.PositionOpenEventHandler {
	return func(ctx context.Context, position common.Position) {
		if m.flags&MonitorPositionsOpened != 0 || m.flags&MonitorAll != 0 {
			m.logger.Info("event", zap.Any("position_open", position))
		}
		handler(ctx, position)
	}
}

func (m *Monitor) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, trade common.Trade) {
		if m.flags&MonitorTrades != 0 || m.flags&MonitorAll != 0 {
			m.logger.Info("event", zap.Any("trade", trade))
		}
		handler(ctx, trade)
	}
}

func (m *Monitor) WithEquity(handler bus.EquityEventHandler) bus.EquityEventHandler {
	return func(ctx context.Context, point common.EquityPoint) {
		if m.flags&MonitorEquity != 0 || m.flags&MonitorAll != 0 {
			m.logger.Info("event", zap.Any("equity", point))
		}
		handler(ctx, point)
	}
}
