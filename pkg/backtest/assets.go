package backtest

import (
	"sort"
	"strings"
)

// AssetSpec carries the per-asset conversion constants: PointValue is the
// minimum meaningful price increment and converts stop/target "points" into
// price distance, ContractValue converts one price point of movement into
// cash P&L per unit of position size.
type AssetSpec struct {
	Symbol        string  `json:"symbol"`
	PointValue    float64 `json:"pointValue"`
	ContractValue float64 `json:"contractValue"`
}

const (
	defaultPointValue    = 0.01
	defaultContractValue = 1000
)

var assetSpecs = map[string]AssetSpec{
	"eurusd": {Symbol: "eurusd", PointValue: 0.0001, ContractValue: 100000},
	"gbpusd": {Symbol: "gbpusd", PointValue: 0.0001, ContractValue: 100000},
	"usdjpy": {Symbol: "usdjpy", PointValue: 0.01, ContractValue: 100000},
	"gold":   {Symbol: "gold", PointValue: 0.1, ContractValue: 100},
	"silver": {Symbol: "silver", PointValue: 0.01, ContractValue: 5000},
	"oil":    {Symbol: "oil", PointValue: 0.01, ContractValue: 1000},
	"dax":    {Symbol: "dax", PointValue: 1, ContractValue: 25},
	"sp500":  {Symbol: "sp500", PointValue: 0.25, ContractValue: 50},
	"nasdaq": {Symbol: "nasdaq", PointValue: 0.25, ContractValue: 20},
	"btcusd": {Symbol: "btcusd", PointValue: 1, ContractValue: 1},
	"ethusd": {Symbol: "ethusd", PointValue: 0.1, ContractValue: 10},
}

// LookupAsset resolves the conversion constants for a symbol. Unknown symbols
// fall back to generic defaults instead of erroring.
func LookupAsset(symbol string) AssetSpec {
	if spec, ok := assetSpecs[strings.ToLower(strings.TrimSpace(symbol))]; ok {
		return spec
	}
	return AssetSpec{
		Symbol:        symbol,
		PointValue:    defaultPointValue,
		ContractValue: defaultContractValue,
	}
}

// Assets lists the known asset specs sorted by symbol.
func Assets() []AssetSpec {
	out := make([]AssetSpec, 0, len(assetSpecs))
	for _, spec := range assetSpecs {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
