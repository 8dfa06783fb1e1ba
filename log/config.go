package log

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// Level represents the severity of a log message.
type Level slog.Level

const (
	LevelTrace Level = Level(slog.LevelDebug) - 4
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// DefaultLevel is the default minimum log level.
const DefaultLevel = LevelInfo

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}

	return slog.Level(l).String()
}

// Levels lists the defined level names in ascending severity.
func Levels() []string {
	return []string{"trace", "debug", "info", "warn", "error"}
}

// ParseLevel parses a level name, falling back to [DefaultLevel] for
// anything unrecognized. Offsets like "warn+2" parse per
// [slog.Level.UnmarshalText].
func ParseLevel(s string) Level {
	if strings.EqualFold(strings.TrimSpace(s), "trace") {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format represents the output format for log messages.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the default log message format.
const DefaultFormat = FormatText

// String returns the lowercase format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "text"
}

// Formats lists the defined format names.
func Formats() []string {
	return []string{"text", "json"}
}

// ParseFormat parses a format name, falling back to [DefaultFormat] for
// anything unrecognized.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "text":
		return FormatText
	}

	return DefaultFormat
}

// DefaultTimeLayout is the timestamp layout used when none is configured.
const DefaultTimeLayout = time.Kitchen

type config struct {
	output     io.Writer
	level      Level
	format     Format
	timeLayout string
	caller     bool
	pretty     bool
}

// Option overrides one configuration value of a [Logger] under
// construction.
type Option func(*config)

func makeConfig(w io.Writer, opts ...Option) config {
	if w == nil {
		w = io.Discard
	}

	c := config{
		output:     w,
		level:      DefaultLevel,
		format:     DefaultFormat,
		timeLayout: DefaultTimeLayout,
		pretty:     true,
	}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithLevel sets the minimum level emitted.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout sets the timestamp layout. Named layouts from the [time]
// package are recognized case-insensitively ("rfc3339", "kitchen", …);
// anything else passes verbatim to [time.Time.Format]. An empty layout, or
// the name "none", disables timestamps.
func WithTimeLayout(layout string) Option {
	return func(c *config) { c.timeLayout = namedLayout(layout) }
}

// WithCaller controls whether source location is included.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty controls ANSI-colorized text output. It has no effect on the
// JSON format.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

// handler builds the slog.Handler described by the configuration.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource: c.caller,
		Level:     slog.Level(c.level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if t, ok := a.Value.Any().(time.Time); ok {
					if c.timeLayout == "" {
						return slog.Attr{}
					}
					a.Value = slog.StringValue(t.Format(c.timeLayout))
				}

			case slog.LevelKey:
				// Render "TRACE" instead of slog's "DEBUG-4".
				if level, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(Level(level).String()))
				}
			}

			return a
		},
	}

	if c.format == FormatJSON {
		return slog.NewJSONHandler(c.output, opts)
	}

	if c.pretty {
		return newPrettyTextHandler(c.output, c.timeLayout, c.level)
	}

	return slog.NewTextHandler(c.output, opts)
}

var timeLayouts = map[string]string{
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"ansic":       time.ANSIC,
	"unixdate":    time.UnixDate,
	"rfc822":      time.RFC822,
	"rfc822z":     time.RFC822Z,
	"rfc850":      time.RFC850,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"none":        "",
}

func namedLayout(layout string) string {
	if std, ok := timeLayouts[strings.ToLower(strings.TrimSpace(layout))]; ok {
		return std
	}

	return layout
}
