// Package logging wraps zerolog behind the same small call-site shape the
// rest of the codebase expects: a Level enum plus Debugf/Infof/Warnf/Errorf.
// Every call site still reads like an interpolated string, but the
// underlying record is structured.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Level controls which log statements are emitted.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "info"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case LevelError:
		return zerolog.ErrorLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel converts a string level into the enum.
func ParseLevel(value string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "info":
		return LevelInfo, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelInfo, fmt.Errorf("invalid log level %q", value)
	}
}

var (
	mu     sync.Mutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// SetLevel updates the global logger threshold.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(level.zerolog())
}

// Debugf logs at debug level.
func Debugf(format string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

// Infof logs at info level.
func Infof(format string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Info().Msg(fmt.Sprintf(format, args...))
}

// Warnf logs at warn level.
func Warnf(format string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

// Errorf logs at error level.
func Errorf(format string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Error().Msg(fmt.Sprintf(format, args...))
}

// Event starts a structured record at the given level, for call sites that
// want fields (path=, mode=, duration_ms=) instead of an interpolated
// string. Returns nil when the level is disabled, matching zerolog's own
// nil-event short-circuit so chained field calls stay cheap.
func Event(level Level) *zerolog.Event {
	mu.Lock()
	l := logger
	mu.Unlock()
	switch level {
	case LevelError:
		return l.Error()
	case LevelWarn:
		return l.Warn()
	case LevelDebug:
		return l.Debug()
	default:
		return l.Info()
	}
}
