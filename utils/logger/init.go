package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

// GlobalContext wraps Logger with request-scoped attributes.
var GlobalContext *ContextLogger

func init() {
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	GlobalContext = NewContextLogger(Logger)
}

// InitLogger initializes the stdout JSON logger. When enableOTel is set, records are
// also exported through the OpenTelemetry log bridge.
func InitLogger(level string, enableOTel bool) *slog.Logger {
	lvl := ParseLevel(level)

	jsonHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: lvl,
	})

	var handler slog.Handler
	if enableOTel {
		handler = NewMultiHandler(NewRequestContextHandler(jsonHandler), lvl)
	} else {
		handler = NewRequestContextHandler(jsonHandler)
	}

	Logger = slog.New(handler)
	slog.SetDefault(Logger)
	GlobalContext = NewContextLogger(Logger)

	Logger.Info("Logger initialized", "level", lvl.String(), "otel_enabled", enableOTel)

	return Logger
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetLogger replaces the package logger, e.g. for CLI output or tests.
func SetLogger(l *slog.Logger) {
	Logger = l
	GlobalContext = NewContextLogger(l)
}
