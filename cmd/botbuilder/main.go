package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/internal/api"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/internal/config"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/internal/dbg"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/internal/feed"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/bus"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/data/duckdb"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/marketdata/binance"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/utility"
)

func main() {

	configPath := flag.String("config", "", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("unable to load config: " + err.Error())
	}

	logger := dbg.NewLogger(cfg.Env)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting service", zap.String("env", cfg.Env),
		zap.String("execution_id", utility.GetExecutionID().String()))

	store := duckdb.NewStore(cfg.Store.Path)
	if err := store.Connect(ctx); err != nil {
		logger.Fatal("unable to open run store", zap.Error(err))
	}
	defer store.Close()

	provider := binance.NewClient(cfg.MarketData.BaseURL)

	hub := feed.NewHub(logger)
	defer hub.Close()

	if cfg.MarketData.StreamLive {
		stream := binance.NewStream(logger, cfg.MarketData.StreamURL)
		if err := stream.Subscribe(ctx, cfg.MarketData.Symbols, cfg.MarketData.Interval); err != nil {
			logger.Fatal("unable to subscribe to market data", zap.Error(err))
		}
		defer stream.Close()

		router := bus.NewRouter(logger, cfg.Bus.EventCapacity)
		router.OnBar = func(_ context.Context, bar common.Bar) {
			hub.Broadcast("bar", bar)
		}
		router.Exec(ctx)

		go func() {
			for bar := range stream.Bars() {
				if err := router.Post(bus.BarEvent, bar); err != nil {
					logger.Warn("bar dropped", zap.Error(err), zap.String("symbol", bar.Symbol))
				}
			}
		}()
	}

	server := api.NewServer(logger,
		api.WithStore(store),
		api.WithProvider(provider),
		api.WithHub(hub, hub.ServeWS),
		api.WithCandleLimit(cfg.MarketData.KlineLimit))

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}
