package logging

import (
	"context"
	"io"
	"log/slog"
)

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	l *slog.Logger
}

func NewSlogLogger(l *slog.Logger) *SlogLogger {
	return &SlogLogger{l: l}
}

// NewTextLogger is the console logger used by the CLI.
func NewTextLogger(w io.Writer, level slog.Level) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// NewJSONLogger is the structured logger used by the emulator.
func NewJSONLogger(w io.Writer, level slog.Level) *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// Nop returns a logger that drops everything.
func Nop() *SlogLogger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelDebug, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelInfo, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelWarn, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.l.Log(ctx, slog.LevelError, msg, args...)
}

func (s *SlogLogger) With(args ...any) Logger {
	return NewSlogLogger(s.l.With(args...))
}
