package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"ERROR":   LogLevelError,
		"warn":    LogLevelWarn,
		" Debug ": LogLevelDebug,
		"TRACE":   LogLevelTrace,
		"INFO":    LogLevelInfo,
		"":        LogLevelInfo,
		"verbose": LogLevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLoggerLevels(t *testing.T) {
	l := NewLogger(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, l.GetLevel())
	assert.Equal(t, LogLevelDebug, l.With("station", "ring").GetLevel())

	nop := NewNopLogger()
	assert.NotPanics(t, func() {
		nop.Info("wrote %d rows", 3)
		nop.Trace("hidden")
	})
}
