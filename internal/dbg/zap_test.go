package dbg

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerEnvSelection(t *testing.T) {
	prod := NewLogger("production")
	if prod.Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not log at debug level")
	}

	dev := NewLogger("development")
	if !dev.Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should log at debug level")
	}
}
