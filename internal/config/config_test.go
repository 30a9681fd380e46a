package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "botbuilder.duckdb", cfg.Store.Path)
	assert.Equal(t, "1m", cfg.MarketData.Interval)
	assert.Equal(t, 500, cfg.MarketData.KlineLimit)
	assert.Equal(t, 1024, cfg.Bus.EventCapacity)
	assert.False(t, cfg.MarketData.StreamLive)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
env: production
http:
  addr: ":9090"
store:
  path: /tmp/runs.duckdb
marketdata:
  symbols:
    - eurusd
    - dax
  interval: 5m
bus:
  event_capacity: 64
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "/tmp/runs.duckdb", cfg.Store.Path)
	assert.Equal(t, []string{"eurusd", "dax"}, cfg.MarketData.Symbols)
	assert.Equal(t, "5m", cfg.MarketData.Interval)
	assert.Equal(t, 64, cfg.Bus.EventCapacity)

	// Untouched keys keep their defaults.
	assert.Equal(t, 15, cfg.HTTP.ReadTimeout)
}
