package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("layout computed") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("stage complete") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("stage complete") }, true},
		{"warn at info level", log.InfoLevel, func(l *log.Logger) { l.Warn("unknown config key") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressStages(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.DebugLevel))

	prog.stage("load", "nodes", 12)
	prog.done("Rendered 2 format(s)")

	out := buf.String()
	for _, want := range []string{"stage complete", "load", "nodes=12", "Rendered 2 format(s) ("} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressStageHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.stage("load")
	if buf.Len() != 0 {
		t.Errorf("stage logged at info level: %q", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	got := loggerFromContext(withLogger(context.Background(), logger))
	if got != logger {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
	got.Info("attached")
	if buf.Len() == 0 {
		t.Error("attached logger should write to buffer")
	}

	fallback := loggerFromContext(context.Background())
	if fallback == nil {
		t.Fatal("loggerFromContext returned nil without a logger")
	}
	fallback.Error("discarded")
}
