package logger

import (
	"context"
	"log/slog"
	"os"
)

// Logger emits structured JSON log entries with service and hostname
// context on every record.
type Logger struct {
	service  string
	hostname string
	handler  *slog.Logger
}

// New creates a logger for the named service, writing JSON to stdout.
func New(service string) *Logger {
	hostname, _ := os.Hostname()

	handler := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	return &Logger{
		service:  service,
		hostname: hostname,
		handler:  handler,
	}
}

func (l *Logger) log(level slog.Level, action, message string, err error, fields map[string]any) {
	attrs := []slog.Attr{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.handler.LogAttrs(context.Background(), level, message, attrs...)
}

func (l *Logger) Info(action, message string, fields map[string]any) {
	l.log(slog.LevelInfo, action, message, nil, fields)
}

func (l *Logger) Debug(action, message string, fields map[string]any) {
	l.log(slog.LevelDebug, action, message, nil, fields)
}

func (l *Logger) Error(action, message string, err error, fields map[string]any) {
	l.log(slog.LevelError, action, message, err, fields)
}
