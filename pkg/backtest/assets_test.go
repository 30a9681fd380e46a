package backtest

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupAssetNormalizesSymbol(t *testing.T) {
	for _, symbol := range []string{"dax", "DAX", "  Dax "} {
		spec := LookupAsset(symbol)
		assert.Equal(t, "dax", spec.Symbol, symbol)
		assert.Equal(t, 1.0, spec.PointValue)
		assert.Equal(t, 25.0, spec.ContractValue)
	}
}

func TestLookupAssetFallback(t *testing.T) {
	spec := LookupAsset("unlisted")
	assert.Equal(t, "unlisted", spec.Symbol)
	assert.Equal(t, defaultPointValue, spec.PointValue)
	assert.Equal(t, float64(defaultContractValue), spec.ContractValue)
}

func TestAssetsSortedAndPositive(t *testing.T) {
	specs := Assets()
	require.NotEmpty(t, specs)

	assert.True(t, sort.SliceIsSorted(specs, func(i, j int) bool {
		return specs[i].Symbol < specs[j].Symbol
	}))
	for _, spec := range specs {
		assert.Greater(t, spec.PointValue, 0.0, spec.Symbol)
		assert.Greater(t, spec.ContractValue, 0.0, spec.Symbol)
	}
}
