package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyTextHandler renders records as a single colorized line:
// time, level, message, then key=value attributes with gray keys.
type prettyTextHandler struct {
	mu         *sync.Mutex
	w          io.Writer
	timeLayout string
	level      Level
	attrs      []slog.Attr
	groups     []string
}

func newPrettyTextHandler(w io.Writer, timeLayout string, level Level) *prettyTextHandler {
	return &prettyTextHandler{
		mu:         &sync.Mutex{},
		w:          w,
		timeLayout: timeLayout,
		level:      level,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.Level(h.level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() && h.timeLayout != "" {
		buf.WriteString(colorGray)
		buf.WriteString(r.Time.Format(h.timeLayout))
		buf.WriteString(colorReset)
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(levelColor(Level(r.Level)))
	buf.WriteString(levelTag(Level(r.Level)))
	buf.WriteString(colorReset)
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	for _, a := range h.attrs {
		h.writeAttr(buf, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...)

	return &clone
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &clone
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, member := range a.Value.Group() {
			member.Key = a.Key + "." + member.Key
			h.writeAttr(buf, member)
		}

		return
	}

	if a.Equal(slog.Attr{}) {
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(colorGray)

	for _, g := range h.groups {
		buf.WriteString(g)
		buf.WriteByte('.')
	}

	buf.WriteString(a.Key)
	buf.WriteByte('=')
	buf.WriteString(colorReset)
	buf.WriteString(valueText(a.Value))
}

// valueText renders an attribute value, quoting strings that contain
// whitespace.
func valueText(v slog.Value) string {
	if v.Kind() == slog.KindString {
		s := v.String()
		if strconv.CanBackquote(s) && !bytes.ContainsAny([]byte(s), " \t") {
			return s
		}

		return strconv.Quote(s)
	}

	return fmt.Sprint(v.Any())
}

func levelTag(l Level) string {
	switch l {
	case LevelTrace:
		return "TRC"
	case LevelDebug:
		return "DBG"
	case LevelInfo:
		return "INF"
	case LevelWarn:
		return "WRN"
	case LevelError:
		return "ERR"
	}

	return slog.Level(l).String()
}

func levelColor(l Level) string {
	switch {
	case l <= LevelTrace:
		return colorMagenta
	case l <= LevelDebug:
		return colorCyan
	case l <= LevelInfo:
		return colorGreen
	case l <= LevelWarn:
		return colorYellow
	}

	return colorRed
}
