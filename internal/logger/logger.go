package logger

import (
	"strings"

	"github.com/xraph/go-utils/log"
	"go.uber.org/zap/zapcore"
)

// Logger represents the logging interface.
type Logger = log.Logger

// Field represents a structured log field.
type Field = log.Field

type LogLevel = log.LogLevel

const (
	LevelInfo  = log.LevelInfo
	LevelWarn  = log.LevelWarn
	LevelError = log.LevelError
	LevelDebug = log.LevelDebug
)

// NewDevelopmentLogger creates a development logger with enhanced colors.
func NewDevelopmentLogger() Logger {
	return log.NewDevelopmentLogger()
}

// NewDevelopmentLoggerWithLevel creates a development logger with specified level.
func NewDevelopmentLoggerWithLevel(level zapcore.Level) Logger {
	return log.NewDevelopmentLoggerWithLevel(level)
}

// NewProductionLogger creates a production logger.
func NewProductionLogger() Logger {
	return log.NewProductionLogger()
}

// NewNoopLogger creates a logger that does nothing.
func NewNoopLogger() Logger {
	return log.NewNoopLogger()
}

// ParseLevel maps a configured level name onto a zap level.
// The empty string is reported as ok=false so callers can keep their default.
func ParseLevel(name string) (zapcore.Level, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return zapcore.InfoLevel, false, nil
	}
	level, err := zapcore.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zapcore.InfoLevel, false, err
	}
	return level, true, nil
}

// FromLevelName builds a development logger for a configured level name, or a
// noop logger when no level is configured.
func FromLevelName(name string) (Logger, error) {
	level, ok, err := ParseLevel(name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return NewNoopLogger(), nil
	}
	return NewDevelopmentLoggerWithLevel(level), nil
}
