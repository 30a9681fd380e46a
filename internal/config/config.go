package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the service configuration. Values come from config.yaml next to
// the binary, overridable through BOTBUILDER_* environment variables.
type Config struct {
	Env string `mapstructure:"env"`

	HTTP struct {
		Addr         string `mapstructure:"addr"`
		ReadTimeout  int    `mapstructure:"read_timeout_sec"`
		WriteTimeout int    `mapstructure:"write_timeout_sec"`
	} `mapstructure:"http"`

	Store struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"store"`

	MarketData struct {
		BaseURL    string   `mapstructure:"base_url"`
		StreamURL  string   `mapstructure:"stream_url"`
		Symbols    []string `mapstructure:"symbols"`
		Interval   string   `mapstructure:"interval"`
		KlineLimit int      `mapstructure:"kline_limit"`
		StreamLive bool     `mapstructure:"stream_live"`
	} `mapstructure:"marketdata"`

	Bus struct {
		EventCapacity int `mapstructure:"event_capacity"`
	} `mapstructure:"bus"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("BOTBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Defaults plus environment are enough to run.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout_sec", 15)
	v.SetDefault("http.write_timeout_sec", 30)
	v.SetDefault("store.path", "botbuilder.duckdb")
	v.SetDefault("marketdata.base_url", "")
	v.SetDefault("marketdata.stream_url", "")
	v.SetDefault("marketdata.symbols", []string{"btcusd"})
	v.SetDefault("marketdata.interval", "1m")
	v.SetDefault("marketdata.kline_limit", 500)
	v.SetDefault("marketdata.stream_live", false)
	v.SetDefault("bus.event_capacity", 1024)
}
