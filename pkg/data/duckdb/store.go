package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/backtest"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
)

var ErrRunNotFound = errors.New("run not found")

// RunRecord is one persisted simulation run. Settings and Result are stored
// as JSON so the schema survives field additions.
type RunRecord struct {
	ID          uuid.UUID         `json:"id"`
	ExecutionID uuid.UUID         `json:"executionId"`
	CreatedAt   time.Time         `json:"createdAt"`
	Settings    backtest.Settings `json:"settings"`
	Result      *backtest.Result  `json:"result"`
}

// RunSummary is the list view of a persisted run.
type RunSummary struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Asset       string    `json:"asset"`
	TotalGain   float64   `json:"totalGain"`
	TotalTrades int       `json:"totalTrades"`
}

// Store persists simulation runs and their trade ledgers.
type Store struct {
	dataSourceName string
	db             *sql.DB
}

func NewStore(dataSourceName string) *Store {
	return &Store{
		dataSourceName: dataSourceName,
	}
}

func (s *Store) Connect(ctx context.Context) error {
	db, err := sql.Open("duckdb", s.dataSourceName)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping: %w", err)
	}
	s.db = db
	return s.createTables(ctx)
}

func (s *Store) Close() {
	_ = s.db.Close()
}

// DB exposes the underlying handle for the trade ledger middleware.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id UUID PRIMARY KEY,
			execution_id UUID NOT NULL,
			created_at TIMESTAMP NOT NULL,
			asset VARCHAR NOT NULL,
			total_gain DOUBLE NOT NULL,
			total_trades INTEGER NOT NULL,
			settings JSON NOT NULL,
			result JSON NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS run_trades (
			run_id UUID NOT NULL,
			side VARCHAR NOT NULL,
			entry_price DOUBLE NOT NULL,
			exit_price DOUBLE NOT NULL,
			entry_time BIGINT NOT NULL,
			exit_time BIGINT NOT NULL,
			pnl DOUBLE NOT NULL,
			exit_reason VARCHAR NOT NULL
		)`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("create tables: %w", err)
		}
	}
	return nil
}

func (s *Store) SaveRun(ctx context.Context, record RunRecord) error {
	settingsJSON, err := json.Marshal(record.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	query := `INSERT INTO runs (id, execution_id, created_at, asset, total_gain, total_trades, settings, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		record.ID,
		record.ExecutionID,
		record.CreatedAt,
		record.Result.Asset,
		record.Result.TotalGain,
		record.Result.TotalTrades,
		string(settingsJSON),
		string(resultJSON),
	)
	return err
}

func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `SELECT id, created_at, asset, total_gain, total_trades FROM runs ORDER BY created_at DESC LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error preparing query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	summaries := make([]RunSummary, 0, limit)
	for rows.Next() {
		var summary RunSummary
		if err := rows.Scan(&summary.ID, &summary.CreatedAt, &summary.Asset, &summary.TotalGain, &summary.TotalTrades); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (RunRecord, error) {
	query := `SELECT id, execution_id, created_at, settings, result FROM runs WHERE id = ?`

	record := RunRecord{}
	var settingsJSON, resultJSON string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&record.ID, &record.ExecutionID, &record.CreatedAt, &settingsJSON, &resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, ErrRunNotFound
	}
	if err != nil {
		return RunRecord{}, err
	}

	if err := json.Unmarshal([]byte(settingsJSON), &record.Settings); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &record.Result); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshal result: %w", err)
	}
	return record, nil
}

// RunTrades returns the ledger of a persisted run, ErrRunNotFound when the
// run id is unknown.
func (s *Store) RunTrades(ctx context.Context, id uuid.UUID) ([]common.Trade, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, id).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrRunNotFound
	}
	return TradesForRun(ctx, s.db, id)
}

// InsertTrade appends one closed trade to the run ledger. Used standalone by
// the ledger middleware while a run is still in flight.
func InsertTrade(ctx context.Context, db *sql.DB, runID uuid.UUID, trade common.Trade) error {
	query := `INSERT INTO run_trades (
		run_id,
		side,
		entry_price,
		exit_price,
		entry_time,
		exit_time,
		pnl,
		exit_reason
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(
		ctx,
		query,
		runID,
		string(trade.Side),
		trade.EntryPrice,
		trade.ExitPrice,
		trade.EntryTime,
		trade.ExitTime,
		trade.PnL,
		string(trade.ExitReason),
	)

	return err
}

// TradesForRun reads the ledger back in execution order.
func TradesForRun(ctx context.Context, db *sql.DB, runID uuid.UUID) ([]common.Trade, error) {
	query := `SELECT side, entry_price, exit_price, entry_time, exit_time, pnl, exit_reason
		FROM run_trades WHERE run_id = ? ORDER BY exit_time`

	rows, err := db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("error preparing query: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var trades []common.Trade
	for rows.Next() {
		var trade common.Trade
		var side, reason string
		if err := rows.Scan(&side, &trade.EntryPrice, &trade.ExitPrice, &trade.EntryTime, &trade.ExitTime, &trade.PnL, &reason); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		trade.Side = common.PositionSide(side)
		trade.ExitReason = common.ExitReason(reason)
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}
