package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/backtest"
)

const routerEventCapacity = 4096

type runOptions struct {
	dataPath     string
	duckdbPath   string
	settingsPath string
	storePath    string
	symbol       string
	synthetic    bool
	syntheticDur time.Duration
	seed         int64
	monitorAll   bool
}

func parseFlags() runOptions {
	var opts runOptions

	flag.StringVar(&opts.dataPath, "data", "", "path to a binary bar file")
	flag.StringVar(&opts.duckdbPath, "duckdb", "", "duckdb file holding a <symbol>_bars table")
	flag.StringVar(&opts.settingsPath, "settings", "", "path to a simulation settings JSON file")
	flag.StringVar(&opts.storePath, "store", "", "duckdb file to persist the run into")
	flag.StringVar(&opts.symbol, "symbol", "eurusd", "asset symbol")
	flag.BoolVar(&opts.synthetic, "synthetic", false, "generate synthetic bars instead of reading a file")
	flag.DurationVar(&opts.syntheticDur, "synthetic-duration", 24*time.Hour, "synthetic data span")
	flag.Int64Var(&opts.seed, "seed", 1, "synthetic data rng seed")
	flag.BoolVar(&opts.monitorAll, "monitor", false, "log every event")
	flag.Parse()

	return opts
}

func loadSettings(path, symbol string) (backtest.Settings, error) {
	settings := backtest.Settings{Asset: symbol}
	if path == "" {
		return settings, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		return settings, fmt.Errorf("parse settings: %w", err)
	}
	if settings.Asset == "" {
		settings.Asset = symbol
	}
	return settings, nil
}
