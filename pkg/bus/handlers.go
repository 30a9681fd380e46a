package bus

import (
	"context"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

type EventHandler[T any] = func(context.Context, T)

type BarEventHandler EventHandler[common.Bar]
type SignalEventHandler EventHandler[common.Signal]
type PositionOpenEventHandler EventHandler[common.Position]
type TradeEventHandler EventHandler[common.Trade]
type EquityEventHandler EventHandler[common.EquityPoint]

func MergeHandlers[T any](handlers ...EventHandler[T]) EventHandler[T] {
	return func(ctx context.Context, event T) {
		for _, handler := range handlers {
			handler(ctx, event)
		}
	}
}
