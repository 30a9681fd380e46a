package dbg

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger picks the builder for the configured environment. Anything that
// is not "production" gets the human-readable development encoder.
func NewLogger(env string) *zap.Logger {
	if env == "production" {
		return NewProdLogger()
	}
	return NewDevLogger()
}

func NewDevLogger() *zap.Logger {
	return build(zap.NewDevelopmentConfig())
}

func NewProdLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	// Sampling hides repeated dispatch warnings during long replays.
	cfg.Sampling = nil
	return build(cfg)
}

func build(cfg zap.Config) *zap.Logger {
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableCaller = true

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
