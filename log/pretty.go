package log

import (
	"bytes"
	"context"
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
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized single-line text records.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	prefix string      // group qualifier for attrs added after WithGroup
	attrs  []slog.Attr // attrs from WithAttrs, already qualified
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, "", h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	h.writeAttr(buf, "", h.replace(slog.Any(slog.LevelKey, r.Level)))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeAttr(buf, "", slog.String(slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	h.writeAttr(buf, "", slog.String(slog.MessageKey, r.Message))

	for _, a := range h.attrs {
		h.writeAttr(buf, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.prefix, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := make([]slog.Attr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(qualified, h.attrs)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		qualified = append(qualified, a)
	}

	c := *h
	c.attrs = qualified

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// replace applies the configured ReplaceAttr to a built-in attribute.
func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) writeAttr(buf *bytes.Buffer, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, group, ga)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(colorGray)
	buf.WriteString(prefix + a.Key)
	buf.WriteString(colorReset)
	buf.WriteByte('=')

	h.writeValue(buf, a.Key, a.Value)
}

func (h *prettyHandler) writeValue(buf *bytes.Buffer, key string, v slog.Value) {
	color := colorCyan
	text := v.String()

	switch v.Kind() {
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		color = colorYellow

	case slog.KindBool:
		color = colorRed
		if v.Bool() {
			color = colorGreen
		}

	case slog.KindDuration:
		color = colorMagenta

	case slog.KindTime:
		color = colorBlue

	case slog.KindString:
		if key == slog.LevelKey {
			color = levelColor(ParseLevel(text))
		}

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			color = levelColor(Level(level))
			text = Level(level).String()
		} else if err, ok := v.Any().(error); ok {
			color = colorRed
			text = err.Error()
		}
	}

	buf.WriteString(color)
	buf.WriteString(text)
	buf.WriteString(colorReset)
}

func levelColor(level Level) string {
	switch {
	case level >= LevelError:
		return colorRed

	case level >= LevelWarn:
		return colorYellow

	case level >= LevelInfo:
		return colorGreen

	default:
		return colorBlue
	}
}
