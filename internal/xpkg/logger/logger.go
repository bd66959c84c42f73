package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
)

// Logger is the structured logger shared by every service mode.
type Logger interface {
	Action(action string) Logger
	With(args ...any) Logger
	WithGroup(name string) Logger
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
}

type logger struct {
	log *slog.Logger
}

// New builds a JSON logger writing to stdout. Level is one of debug, info, warn, error.
func New(service, level string) Logger {
	return NewWithWriter(os.Stdout, service, level)
}

func NewWithWriter(w io.Writer, service, level string) Logger {
	hostname, _ := os.Hostname()

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: replaceAttr,
	})
	return &logger{
		log: slog.New(h).With("service", service, "hostname", hostname),
	}
}

func (l *logger) Action(action string) Logger {
	return &logger{log: l.log.With("action", action)}
}

func (l *logger) With(args ...any) Logger {
	return &logger{log: l.log.With(args...)}
}

func (l *logger) WithGroup(name string) Logger {
	return &logger{log: l.log.WithGroup(name)}
}

func (l *logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

func (l *logger) Error(msg string, err error, args ...any) {
	if err == nil {
		l.log.Error(msg, args...)
		return
	}

	buf := make([]byte, 1024)
	n := runtime.Stack(buf, false)

	args = append(args, slog.Group("error",
		slog.String("msg", err.Error()),
		slog.String("stack", string(buf[:n])),
	))
	l.log.Log(context.Background(), slog.LevelError, msg, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// replaceAttr renames slog's default keys to the log schema used across services.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
		a.Value = slog.StringValue(a.Value.Time().UTC().Format("2006-01-02T15:04:05Z07:00"))
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// Nop discards everything. Handy in tests.
func Nop() Logger {
	return &logger{log: slog.New(slog.NewJSONHandler(io.Discard, nil))}
}
