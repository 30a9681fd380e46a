package backtest

import (
	"fmt"
	"math"
)

type TradeType string

const (
	TradeTypeLong  TradeType = "long"
	TradeTypeShort TradeType = "short"
	TradeTypeBoth  TradeType = "both"
)

// Settings is the caller-supplied configuration for one simulation run.
// Every field is optional; pointer fields distinguish "absent" from an
// explicit zero/false so defaults can be applied faithfully.
type Settings struct {
	InitialCapital  *float64  `json:"initialCapital,omitempty"`
	PositionSize    *float64  `json:"positionSize,omitempty"`
	MaxPositionSize *float64  `json:"maxPositionSize,omitempty"`
	UseOrderFee     bool      `json:"useOrderFee,omitempty"`
	OrderFee        *float64  `json:"orderFee,omitempty"`
	UseSpread       bool      `json:"useSpread,omitempty"`
	SpreadPips      *float64  `json:"spreadPips,omitempty"`
	StopLoss        *float64  `json:"stopLoss,omitempty"`
	TakeProfit      *float64  `json:"takeProfit,omitempty"`
	TradeType       TradeType `json:"tradeType,omitempty"`
	Asset           string    `json:"asset,omitempty"`
	UseOBV          *bool     `json:"useOBV,omitempty"`
	UseHeikinAshi   *bool     `json:"useHeikinAshi,omitempty"`
	OBVPeriod       *int      `json:"obvPeriod,omitempty"`
}

const (
	defaultInitialCapital  = 2000.0
	defaultPositionSize    = 0.5
	defaultMaxPositionSize = 1.0
	defaultOrderFee        = 7.0
	defaultSpreadPips      = 2.0
	defaultStopLoss        = 7000.0
	defaultTakeProfit      = 300.0
	defaultOBVPeriod       = 5
)

// runConfig is the fully resolved configuration the replay loop works with.
// All defaults are applied, points are converted to price distances and the
// signal mode is picked once up front.
type runConfig struct {
	initialCapital   float64
	positionSize     float64
	feePerTrade      float64
	spreadCost       float64
	stopLossPoints   float64
	takeProfitPoints float64
	allowLong        bool
	allowShort       bool
	useOBV           bool
	useHeikinAshi    bool
	obvPeriod        int
	asset            AssetSpec
	mode             signalMode
}

func (s Settings) resolve() (runConfig, error) {
	if err := s.validate(); err != nil {
		return runConfig{}, err
	}

	asset := LookupAsset(s.Asset)

	positionSize := floatOrDefault(s.PositionSize, defaultPositionSize)
	maxPositionSize := floatOrDefault(s.MaxPositionSize, defaultMaxPositionSize)
	if positionSize > maxPositionSize {
		positionSize = maxPositionSize
	}

	feePerTrade := 0.0
	if s.UseOrderFee {
		feePerTrade = floatOrDefault(s.OrderFee, defaultOrderFee)
	}

	spreadCost := 0.0
	if s.UseSpread {
		spreadCost = floatOrDefault(s.SpreadPips, defaultSpreadPips) * asset.PointValue
	}

	tradeType := s.TradeType
	if tradeType == "" {
		tradeType = TradeTypeBoth
	}

	cfg := runConfig{
		initialCapital:   floatOrDefault(s.InitialCapital, defaultInitialCapital),
		positionSize:     positionSize,
		feePerTrade:      feePerTrade,
		spreadCost:       spreadCost,
		stopLossPoints:   floatOrDefault(s.StopLoss, defaultStopLoss) * asset.PointValue,
		takeProfitPoints: floatOrDefault(s.TakeProfit, defaultTakeProfit) * asset.PointValue,
		allowLong:        tradeType == TradeTypeLong || tradeType == TradeTypeBoth,
		allowShort:       tradeType == TradeTypeShort || tradeType == TradeTypeBoth,
		useOBV:           boolOrDefault(s.UseOBV, true),
		useHeikinAshi:    boolOrDefault(s.UseHeikinAshi, true),
		obvPeriod:        intOrDefault(s.OBVPeriod, defaultOBVPeriod),
		asset:            asset,
	}
	cfg.mode = resolveSignalMode(cfg.useOBV, cfg.useHeikinAshi)

	return cfg, nil
}

func (s Settings) validate() error {
	fields := []struct {
		name  string
		value *float64
	}{
		{"initialCapital", s.InitialCapital},
		{"positionSize", s.PositionSize},
		{"maxPositionSize", s.MaxPositionSize},
		{"orderFee", s.OrderFee},
		{"spreadPips", s.SpreadPips},
		{"stopLoss", s.StopLoss},
		{"takeProfit", s.TakeProfit},
	}
	for _, f := range fields {
		if f.value != nil && !isFinite(*f.value) {
			return &ValidationError{Field: "settings." + f.name, Msg: "must be a finite number"}
		}
	}

	switch s.TradeType {
	case "", TradeTypeLong, TradeTypeShort, TradeTypeBoth:
	default:
		return &ValidationError{
			Field: "settings.tradeType",
			Msg:   fmt.Sprintf("unknown trade type %q", s.TradeType),
		}
	}

	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func floatOrDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOrDefault(v *int, def int) int {
	if v == nil || *v <= 0 {
		return def
	}
	return *v
}
