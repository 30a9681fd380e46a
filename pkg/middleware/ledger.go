package middleware

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/bus"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/data/duckdb"
)

// Ledger persists every closed trade under the run it belongs to. Inserts
// run off the hot path; a failed insert is logged, never fatal.
type Ledger struct {
	logger *zap.Logger
	db     *sql.DB
	runID  uuid.UUID
	wg     sync.WaitGroup
}

func NewLedger(logger *zap.Logger, db *sql.DB, runID uuid.UUID) *Ledger {
	return &Ledger{
		logger: logger,
		db:     db,
		runID:  runID,
	}
}

func (l *Ledger) WithTrade(handler bus.TradeEventHandler) bus.TradeEventHandler {
	return func(ctx context.Context, trade common.Trade) {
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			if err := duckdb.InsertTrade(ctx, l.db, l.runID, trade); err != nil {
				l.logger.Warn("unable to insert trade", zap.Error(err))
			}
		}()
		handler(ctx, trade)
	}
}

// Wait blocks until every pending insert has finished.
func (l *Ledger) Wait() {
	l.wg.Wait()
}
