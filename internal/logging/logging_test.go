package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		debug   bool
		debugOn bool
		warnOn  bool
	}{
		{debug: true, debugOn: true, warnOn: true},
		{debug: false, debugOn: false, warnOn: true},
	}
	for _, tt := range tests {
		logger, err := New(tt.debug)
		if err != nil {
			t.Fatalf("New(%v): %v", tt.debug, err)
		}
		core := logger.Desugar().Core()
		if got := core.Enabled(zapcore.DebugLevel); got != tt.debugOn {
			t.Errorf("New(%v): debug enabled = %v; want %v", tt.debug, got, tt.debugOn)
		}
		if got := core.Enabled(zapcore.WarnLevel); got != tt.warnOn {
			t.Errorf("New(%v): warn enabled = %v; want %v", tt.debug, got, tt.warnOn)
		}
	}
}
