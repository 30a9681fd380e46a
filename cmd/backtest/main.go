package main

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/internal/dbg"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/backtest"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/bus"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/data/duckdb"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/datasource"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/datasource/historical"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/datasource/synthetic"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/middleware"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/utility"
)

func main() {

	opts := parseFlags()

	logger := dbg.NewDevLogger()
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting backtest run", zap.String("execution_id", utility.GetExecutionID().String()))

	settings, err := loadSettings(opts.settingsPath, opts.symbol)
	if err != nil {
		logger.Fatal("unable to load settings", zap.Error(err))
	}

	source, cleanup, err := openBarSource(ctx, opts)
	if err != nil {
		logger.Fatal("unable to open bar source", zap.Error(err))
	}
	defer cleanup()

	monitorFlags := middleware.MonitorNone
	if opts.monitorAll {
		monitorFlags = middleware.MonitorAll
	}

	monitor := middleware.NewMonitor(logger, monitorFlags)
	telemetry := middleware.NewTelemetry(logger)
	performance := middleware.NewPerformance(logger)

	defer telemetry.PrintStatistics()
	defer performance.PrintStatistics(telemetry)

	var bars []common.Bar
	collect := func(_ context.Context, bar common.Bar) {
		bars = append(bars, bar)
	}

	router := bus.NewRouter(logger, routerEventCapacity)
	router.OnBar = middleware.Chain(
		performance.WithBar,
		telemetry.WithBar,
		monitor.WithBar,
	)(collect)

	defer func() { router.Statistics().Print(logger) }()

	errChan := router.ExecLoop(ctx, datasource.CreateBarDispatcher(router, source))

	if err := <-errChan; err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("feed interrupted")
			return
		}
		if !errors.Is(err, historical.ErrEof) && !errors.Is(err, synthetic.ErrEof) && !errors.Is(err, datasource.ErrEof) {
			logger.Fatal("feed failed", zap.Error(err))
		}
	}

	logger.Info("feed complete", zap.Int("bars", len(bars)))

	tradeMiddlewares := []middleware.Middleware[bus.TradeEventHandler]{
		performance.WithTrade,
		telemetry.WithTrade,
		monitor.WithTrade,
	}

	var store *duckdb.Store
	var ledger *middleware.Ledger
	runID := uuid.Must(uuid.NewV7())
	if opts.storePath != "" {
		store = duckdb.NewStore(opts.storePath)
		if err := store.Connect(ctx); err != nil {
			logger.Fatal("unable to open run store", zap.Error(err))
		}
		defer store.Close()

		ledger = middleware.NewLedger(logger, store.DB(), runID)
		tradeMiddlewares = append(tradeMiddlewares, ledger.WithTrade)
	}

	onTrade := middleware.Chain(tradeMiddlewares...)(func(_ context.Context, _ common.Trade) {})

	onEquity := middleware.Chain(
		performance.WithEquity,
		telemetry.WithEquity,
		monitor.WithEquity,
	)(func(_ context.Context, _ common.EquityPoint) {})

	engine := backtest.NewEngine(settings,
		backtest.WithTradeHandler(func(trade common.Trade) {
			onTrade(ctx, trade)
		}),
		backtest.WithEquityHandler(func(point common.EquityPoint) {
			onEquity(ctx, point)
		}))

	result, err := engine.Run(bars)
	if err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}

	result.Print(logger)

	if store != nil {
		ledger.Wait()
		record := duckdb.RunRecord{
			ID:          runID,
			ExecutionID: utility.GetExecutionID(),
			CreatedAt:   time.Now().UTC(),
			Settings:    settings,
			Result:      result,
		}
		if err := store.SaveRun(ctx, record); err != nil {
			logger.Warn("unable to persist run", zap.Error(err))
		} else {
			logger.Info("run persisted", zap.String("run_id", runID.String()))
		}
	}
}

func openBarSource(ctx context.Context, opts runOptions) (datasource.BarDataSource, func(), error) {

	if opts.synthetic {
		rng := rand.New(rand.NewSource(opts.seed))
		generator := synthetic.NewEURUSDBarGenerator(opts.symbol, rng, opts.syntheticDur, 0.05, 0.12)
		return generator, func() {}, nil
	}

	if opts.duckdbPath != "" {
		reader := duckdb.NewReader(opts.duckdbPath)
		if err := reader.Connect(); err != nil {
			return nil, nil, err
		}
		defer reader.Close()

		var bars []common.Bar
		err := reader.LoadBars(ctx, opts.symbol, time.Unix(0, 0), time.Now(), func(bar common.Bar) error {
			bars = append(bars, bar)
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		return datasource.NewReplaySource(bars), func() {}, nil
	}

	if opts.dataPath == "" {
		return nil, nil, errors.New("one of -data, -duckdb or -synthetic is required")
	}

	source, err := historical.OpenBarSource(opts.symbol, opts.dataPath)
	if err != nil {
		return nil, nil, err
	}
	return source, source.Close, nil
}
