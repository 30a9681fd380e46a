package bus

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

type event struct {
	id   EventId
	data interface{}
}

// Router is a single-consumer event queue. Post is safe from any goroutine,
// dispatch happens on the goroutine running Exec or ExecLoop so handlers
// never need their own locking.
type Router struct {
	logger *zap.Logger
	events chan event

	OnBar          BarEventHandler
	OnSignal       SignalEventHandler
	OnPositionOpen PositionOpenEventHandler
	OnTrade        TradeEventHandler
	OnEquity       EquityEventHandler

	runTime       time.Duration
	postCount     atomic.Uint64
	postFails     atomic.Uint64
	dispatchCount atomic.Uint64
	dispatchFails atomic.Uint64
}

func NewRouter(logger *zap.Logger, eventCapacity int) *Router {
	return &Router{
		logger: logger,
		events: make(chan event, eventCapacity),
	}
}

func (r *Router) Post(id EventId, data interface{}) error {
	select {
	case r.events <- event{id, data}:
		r.postCount.Add(1)
		return nil
	default:
		r.postFails.Add(1)
		return errors.New("event capacity reached")
	}
}

// Exec drains the queue until ctx is cancelled. The context error is
// delivered on the returned channel.
func (r *Router) Exec(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	go func() {
		start := time.Now()
		defer func() { r.runTime += time.Since(start) }()

		for {
			select {
			case <-ctx.Done():
				done <- ctx.Err()
				return
			case ev := <-r.events:
				r.dispatchCount.Add(1)
				if err := r.dispatch(ctx, ev); err != nil {
					r.dispatchFails.Add(1)
					r.logger.Warn("dispatch failed", zap.Error(err), zap.Uint8("event_id", uint8(ev.id)))
				}
			}
		}
	}()

	return done
}

// ExecLoop interleaves queue drains with doOnceCb, which drives a data
// source one step at a time. The loop stops when doOnceCb errors or ctx is
// cancelled; io.EOF is the usual way a source reports exhaustion.
func (r *Router) ExecLoop(ctx context.Context, doOnceCb func() error) <-chan error {
	done := make(chan error, 1)

	go func() {
		start := time.Now()
		defer func() { r.runTime += time.Since(start) }()

		for {
			select {
			case <-ctx.Done():
				done <- ctx.Err()
				return
			case ev := <-r.events:
				r.dispatchCount.Add(1)
				if err := r.dispatch(ctx, ev); err != nil {
					r.dispatchFails.Add(1)
					r.logger.Warn("dispatch failed", zap.Error(err), zap.Uint8("event_id", uint8(ev.id)))
				}
			default:
				if err := doOnceCb(); err != nil {
					done <- err
					return
				}
			}
		}
	}()

	return done
}

func (r *Router) Statistics() Statistics {
	runTime := r.runTime
	throughput := 0.0
	if runTime > 0 {
		throughput = float64(r.postCount.Load()) / runTime.Seconds()
	}
	return Statistics{
		RunTime:       runTime,
		PostCount:     r.postCount.Load(),
		PostFails:     r.postFails.Load(),
		DispatchCount: r.dispatchCount.Load(),
		DispatchFails: r.dispatchFails.Load(),
		Throughput:    throughput,
	}
}

func (r *Router) dispatch(ctx context.Context, ev event) error {
	switch ev.id {
	case BarEvent:
		bar, ok := ev.data.(common.Bar)
		if !ok {
			return errors.New("invalid type assertion for bar event")
		}
		if r.OnBar != nil {
			r.OnBar(ctx, bar)
		}
	case SignalEvent:
		sig, ok := ev.data.(common.Signal)
		if !ok {
			return errors.New("invalid type assertion for signal event")
		}
		if r.OnSignal != nil {
			r.OnSignal(ctx, sig)
		}
	case PositionOpenEvent:
		pos, ok := ev.data.(common.Position)
		if !ok {
			return errors.New("invalid type assertion for position open event")
		}
		if r.OnPositionOpen != nil {
			r.OnPositionOpen(ctx, pos)
		}
	case TradeEvent:
		trade, ok := ev.data.(common.Trade)
		if !ok {
			return errors.New("invalid type assertion for trade event")
		}
		if r.OnTrade != nil {
			r.OnTrade(ctx, trade)
		}
	case EquityEvent:
		point, ok := ev.data.(common.EquityPoint)
		if !ok {
			return errors.New("invalid type assertion for equity event")
		}
		if r.OnEquity != nil {
			r.OnEquity(ctx, point)
		}
	default:
		return fmt.Errorf("unsupported event id: %v", ev.id)
	}
	return nil
}
