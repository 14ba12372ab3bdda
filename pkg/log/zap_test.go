package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogSingleton(t *testing.T) {
	first := Log()
	if first == nil {
		t.Fatalf("Log() returned nil")
	}
	if second := Log(); second != first {
		t.Fatalf("Log() is not a singleton")
	}
}

func TestLogLevelGate(t *testing.T) {
	core := Log().Core()
	if !core.Enabled(zapcore.FatalLevel) {
		t.Fatalf("fatal diagnostics must pass the level gate")
	}
	if core.Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug must be gated out by default")
	}
}
