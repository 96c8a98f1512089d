package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("test message")
	require.NotZero(t, buf.Len())
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			require.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Smoothed graph.txt", "epsilon", "0.5")

	require.Contains(t, buf.String(), "Smoothed graph.txt (")
	require.Contains(t, buf.String(), "epsilon=0.5")
	require.GreaterOrEqual(t, prog.elapsed(), 10*time.Millisecond)
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	require.Zero(t, buf.Len(), "debug line logged at info level")

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")
	require.Contains(t, buf.String(), "shown")
}
