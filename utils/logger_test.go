package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerWritesTaggedLines(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf).With("run", "abc123")

	logger.Info("scraped %d cards", 3)

	require.Contains(t, buf.String(), "scraped 3 cards")
	require.Contains(t, buf.String(), "abc123")
}

func TestLoggerSetLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)
	logger.SetLevel("info")

	logger.Debug("hidden")
	require.Zero(t, buf.Len(), "debug line written at info level")

	logger.SetLevel("debug")
	logger.Debug("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestLoggerSetLevelIgnoresUnknown(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf)
	logger.SetLevel("warn")
	logger.SetLevel("loud")

	logger.Info("still hidden")
	require.Zero(t, buf.Len(), "unknown level name reset the filter")
}

func TestNopLoggerDiscards(t *testing.T) {
	l := NewNopLogger()
	require.NotPanics(t, func() {
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		l.Debug("x")
	})
}
