// Package log wraps [log/slog] with the project's leveled, optionally
// colorized logging conventions.
//
// A zero-value [Logger] is safe to use and discards everything, so library
// packages can hold one without caring whether the caller configured
// logging.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger is a leveled logger with a fixed configuration. Construct one with
// [New]; the zero value discards all messages.
type Logger struct {
	*slog.Logger
	level  Level
	format Format
}

// New creates a Logger writing to w with [DefaultLevel], [DefaultFormat],
// [DefaultTimeLayout], and pretty text output, overridden by any options.
func New(w io.Writer, opts ...Option) Logger {
	return newFromConfig(makeConfig(w, opts...))
}

// Level returns the minimum level this logger emits.
func (l Logger) Level() Level {
	if l.Logger == nil {
		return DefaultLevel
	}

	return l.level
}

// Format returns the logger's output format.
func (l Logger) Format() Format {
	if l.Logger == nil {
		return DefaultFormat
	}

	return l.format
}

// With returns a Logger that includes attrs in every message.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	l.Logger = slog.New(l.Handler().WithAttrs(attrs))

	return l
}

// Trace logs a message at Trace level.
func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.log(LevelTrace, msg, attrs...)
}

// Debug logs a message at Debug level.
func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.log(LevelDebug, msg, attrs...)
}

// Info logs a message at Info level.
func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.log(LevelInfo, msg, attrs...)
}

// Warn logs a message at Warn level.
func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.log(LevelWarn, msg, attrs...)
}

// Error logs a message at Error level.
func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.log(LevelError, msg, attrs...)
}

func (l Logger) log(level Level, msg string, attrs ...slog.Attr) {
	if l.Logger == nil {
		return
	}

	ctx := context.Background()
	if !l.Enabled(ctx, slog.Level(level)) {
		return
	}

	r := slog.NewRecord(time.Now(), slog.Level(level), msg, 0)
	r.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, r)
}

// The process-wide logger used by the package-level helpers. [Config]
// reconfigures it incrementally, so flag parsing can adjust one value at a
// time as flags are encountered.
var (
	defCfg = makeConfig(os.Stderr)
	def    = newFromConfig(defCfg)
)

func newFromConfig(cfg config) Logger {
	return Logger{
		Logger: slog.New(cfg.handler()),
		level:  cfg.level,
		format: cfg.format,
	}
}

// Default returns the process-wide logger.
func Default() Logger { return def }

// Config applies options on top of the process-wide logger's current
// configuration and returns the rebuilt logger.
func Config(opts ...Option) Logger {
	for _, opt := range opts {
		opt(&defCfg)
	}

	def = newFromConfig(defCfg)

	return def
}

// Trace logs a message at Trace level on the default logger.
func Trace(msg string, attrs ...slog.Attr) { def.Trace(msg, attrs...) }

// Debug logs a message at Debug level on the default logger.
func Debug(msg string, attrs ...slog.Attr) { def.Debug(msg, attrs...) }

// Info logs a message at Info level on the default logger.
func Info(msg string, attrs ...slog.Attr) { def.Info(msg, attrs...) }

// Warn logs a message at Warn level on the default logger.
func Warn(msg string, attrs ...slog.Attr) { def.Warn(msg, attrs...) }

// Error logs a message at Error level on the default logger.
func Error(msg string, attrs ...slog.Attr) { def.Error(msg, attrs...) }
