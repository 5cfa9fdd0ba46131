package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
)

type Level = log.Level

const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

var std = log.NewWithOptions(os.Stderr, log.Options{
	Level:           LevelInfo,
	ReportTimestamp: true,
	Prefix:          "taskmanager",
})

func SetLevel(level Level) {
	std.SetLevel(level)
}

func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// ParseLevel понимает debug/info/warn/error в любом регистре
func ParseLevel(s string) (Level, error) {
	return log.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}

func Debug(ctx context.Context, msg string, keyvals ...any) {
	std.Debug(msg, withContext(ctx, keyvals)...)
}

func Info(ctx context.Context, msg string, keyvals ...any) {
	std.Info(msg, withContext(ctx, keyvals)...)
}

func Warn(ctx context.Context, msg string, keyvals ...any) {
	std.Warn(msg, withContext(ctx, keyvals)...)
}

// Error пишет сообщение и, если err != nil, поле err
func Error(ctx context.Context, err error, msg string, keyvals ...any) {
	if err != nil {
		keyvals = append(keyvals, "err", err)
	}
	std.Error(msg, withContext(ctx, keyvals)...)
}

// withContext добавляет request_id из chi, если он есть
func withContext(ctx context.Context, keyvals []any) []any {
	if ctx == nil {
		return keyvals
	}
	if id := middleware.GetReqID(ctx); id != "" {
		return append([]any{"request_id", id}, keyvals...)
	}
	return keyvals
}
