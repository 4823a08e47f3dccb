// Package logging provides the structured logger used across vgl and the
// debug file sink it writes to. Logs never go to stdout, which carries the
// rendered report.
package logging

import (
	"io"
	"log/slog"
)

// Logger is the leveled logger handed to the engine and the repository
// reader. With returns a logger that adds attrs to every record.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// handlerLogger adapts *slog.Logger; its level methods come from embedding.
type handlerLogger struct {
	*slog.Logger
}

func (l handlerLogger) With(args ...any) Logger {
	return handlerLogger{l.Logger.With(args...)}
}

// NewText returns a logger writing logfmt records at or above level to w.
// A nil writer yields Nop.
func NewText(w io.Writer, level slog.Leveler) Logger {
	if w == nil {
		return Nop()
	}
	return handlerLogger{slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))}
}

// Nop returns a logger that drops everything.
func Nop() Logger { return nop{} }

type nop struct{}

func (nop) Debug(string, ...any) {}
func (nop) Info(string, ...any) {}
func (nop) Warn(string, ...any) {}
func (nop) Error(string, ...any) {}
func (n nop) With(...any) Logger { return n }
