package logger

import (
	"fmt"
	"log/slog"
	"os"
)

// Logger is a thin wrapper around slog that carries the package/function
// context of the caller and offers error helpers that both log and return
// a wrapped error.
type Logger struct {
	log *slog.Logger
}

var defaultHandler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelDebug,
})

func New(pkg string) Logger {
	return Logger{
		log: slog.New(defaultHandler).With("package", pkg),
	}
}

func (l Logger) Function(function string) Logger {
	return Logger{log: l.log.With("function", function)}
}

func (l Logger) File(file string) Logger {
	return Logger{log: l.log.With("file", file)}
}

func (l Logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l Logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l Logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

// Er logs an error without returning it.
func (l Logger) Er(msg string, err error, args ...any) {
	l.log.Error(msg, append(args, "error", err)...)
}

// Err logs the message with the underlying error and returns a wrapped error.
func (l Logger) Err(msg string, err error, args ...any) error {
	l.log.Error(msg, append(args, "error", err)...)
	return fmt.Errorf("%s: %w", msg, err)
}

// Error logs an error-level message and returns it as an error.
func (l Logger) Error(msg string, args ...any) error {
	l.log.Error(msg, args...)
	return fmt.Errorf("%s", msg)
}

// ErrMsg is Error without structured arguments.
func (l Logger) ErrMsg(msg string) error {
	l.log.Error(msg)
	return fmt.Errorf("%s", msg)
}
