package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want *zapcore.Level
	}{
		{"debug", levelPtr(zapcore.DebugLevel)},
		{"WARN", levelPtr(zapcore.WarnLevel)},
		{"error", levelPtr(zapcore.ErrorLevel)},
		{"loud", nil},
		{"", levelPtr(zapcore.InfoLevel)},
	}

	for _, tt := range tests {
		got := parseLevel(tt.in)
		switch {
		case tt.want == nil && got != nil:
			t.Errorf("parseLevel(%q) = %v, want nil", tt.in, *got)
		case tt.want != nil && (got == nil || *got != *tt.want):
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, *tt.want)
		}
	}
}

func TestNamedAndNop(t *testing.T) {
	log := Nop().Named("store")
	log.Info("discarded", String("k", "v"), Int("n", 1), Bool("b", true), Error(errors.New("x")))
	if err := log.Sync(); err != nil {
		t.Errorf("Sync() on nop logger = %v", err)
	}
}

func levelPtr(l zapcore.Level) *zapcore.Level { return &l }
