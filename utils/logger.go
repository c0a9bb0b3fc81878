package utils

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger provides leveled, printf-style logging throughout the application.
// Messages keep their "[component]" prefix; zerolog handles levels and output.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger creates a development Logger writing human-readable lines to stdout.
func NewLogger() *Logger {
	return NewLoggerWithOptions("info", "development", os.Stdout)
}

// NewLoggerWithOptions builds a Logger for the given level and environment.
// In "development" output is a console writer; anywhere else it is JSON.
func NewLoggerWithOptions(level, env string, out io.Writer) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if env == "development" {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		})
	} else {
		zl = zerolog.New(out)
	}

	return &Logger{zl: zl.Level(lvl).With().Timestamp().Str("service", "analytics-dashboard").Logger()}
}

// Zerolog exposes the underlying logger for structured fields.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zl
}

func (l *Logger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}
