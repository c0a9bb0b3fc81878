package utils

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithOptions("info", "production", &buf)

	l.Info("[gateway] fetched %d rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "[gateway] fetched 3 rows", entry["message"])
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithOptions("warn", "production", &buf)

	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

type countingStringer struct{ calls *int }

func (s countingStringer) String() string {
	*s.calls++
	return "formatted"
}

func TestLoggerSkipsFormattingBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithOptions("warn", "production", &buf)

	calls := 0
	l.Debug("value %s", countingStringer{&calls})
	l.Info("value %s", countingStringer{&calls})
	assert.Zero(t, calls)

	l.Warn("value %s", countingStringer{&calls})
	assert.Equal(t, 1, calls)
	assert.Contains(t, buf.String(), "value formatted")
}

func TestLoggerLeavesGlobalTimeFormat(t *testing.T) {
	before := zerolog.TimeFieldFormat
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	defer func() { zerolog.TimeFieldFormat = before }()

	NewLoggerWithOptions("info", "production", &bytes.Buffer{})
	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
}
