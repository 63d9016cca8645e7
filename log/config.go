package log

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Level is the severity of a record. Values between the named levels are
// valid and rank accordingly.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level used when none is configured or parsing fails.
const DefaultLevel = LevelWarn

// levelNames is ordered by ascending severity.
var levelNames = []struct {
	level Level
	name  string
}{
	{LevelTrace, "trace"},
	{LevelDebug, "debug"},
	{LevelInfo, "info"},
	{LevelWarn, "warn"},
	{LevelError, "error"},
}

// Levels yields the name of each level in ascending severity.
func Levels() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, n := range levelNames {
			if !yield(n.name) {
				return
			}
		}
	}
}

// String names l by the most severe named level not above it, with any
// remainder appended as a signed offset ("info+2"). Levels below trace are
// negative offsets from trace.
func (l Level) String() string {
	base := levelNames[0]

	for _, n := range slices.Backward(levelNames) {
		if n.level <= l {
			base = n

			break
		}
	}

	switch off := int(l - base.level); {
	case off == 0:
		return base.name

	case off > 0:
		return base.name + "+" + strconv.Itoa(off)

	default:
		return base.name + strconv.Itoa(off)
	}
}

func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText never fails; unrecognized text selects [DefaultLevel].
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))

	return nil
}

// ParseLevel accepts a case-insensitive level name optionally followed by a
// signed integer offset, as produced by [Level.String].
func ParseLevel(s string) Level {
	s = strings.ToLower(strings.TrimSpace(s))

	name, off := s, 0

	if i := strings.IndexAny(s, "+-"); i > 0 {
		n, err := strconv.Atoi(s[i:])
		if err != nil {
			return DefaultLevel
		}

		name, off = s[:i], n
	}

	for _, n := range levelNames {
		if n.name == name {
			return n.level + Level(off)
		}
	}

	return DefaultLevel
}

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// DefaultFormat is the format used when none is configured.
const DefaultFormat = FormatText

var formatNames = [...]string{FormatText: "text", FormatJSON: "json"}

// Formats yields the name of each format.
func Formats() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, name := range formatNames {
			if !yield(name) {
				return
			}
		}
	}
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// UnmarshalText never fails; unrecognized text selects [DefaultFormat].
func (f *Format) UnmarshalText(text []byte) error {
	*f = ParseFormat(string(text))

	return nil
}

// ParseFormat returns the format named s, ignoring case and surrounding
// space, or [DefaultFormat].
func ParseFormat(s string) Format {
	if i := slices.Index(formatNames[:], strings.ToLower(strings.TrimSpace(s))); i >= 0 {
		return Format(i)
	}

	return DefaultFormat
}

// FormatTime renders a record timestamp. An empty result omits the time.
type FormatTime func(time.Time) string

// DefaultTimeLayout is the timestamp layout used when none is configured.
const DefaultTimeLayout = time.RFC3339

// DefaultCaller reports whether records include the calling source line.
const DefaultCaller = false

// DefaultPretty reports whether text records are colorized.
const DefaultPretty = false

type config struct {
	mutex      *sync.RWMutex
	output     io.Writer
	formatTime FormatTime
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

func makeConfig(w io.Writer, opts ...Option) config {
	return apply(config{mutex: &sync.RWMutex{}}, append([]Option{WithDefaults(w)}, opts...)...)
}

// clone returns c with opts applied and a mutex of its own.
func (c config) clone(opts ...Option) config {
	c.mutex = &sync.RWMutex{}

	return apply(c, opts...)
}

// replaceAttr formats the timestamp with c.formatTime, dropping it when the
// result is empty, and names levels in upper case ("TRACE", not "DEBUG-4").
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch v := a.Value.Any().(type) {
	case time.Time:
		if a.Key != slog.TimeKey {
			break
		}

		s := c.formatTime(v)
		if s == "" {
			return slog.Attr{}
		}

		a.Value = slog.StringValue(s)

	case slog.Level:
		if a.Key == slog.LevelKey {
			a.Value = slog.StringValue(strings.ToUpper(Level(v).String()))
		}
	}

	return a
}

func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch c.format {
	case FormatJSON:
		return slog.NewJSONHandler(c.output, opts)

	case FormatText:
		if c.pretty {
			return newPrettyHandler(c.output, opts)
		}

		return slog.NewTextHandler(c.output, opts)

	default:
		return slog.DiscardHandler
	}
}

// namedLayouts groups the aliases accepted for each [time] layout constant.
// Aliases are compared after lower-casing and removing everything but
// letters and digits, so "RFC-3339" and "rfc3339" are the same name.
var namedLayouts = []struct {
	layout  string
	aliases []string
}{
	{time.RFC3339, []string{"rfc3339"}},
	{time.RFC3339Nano, []string{"rfc3339nano"}},
	{time.ANSIC, []string{"ansic"}},
	{time.UnixDate, []string{"unixdate"}},
	{time.RubyDate, []string{"rubydate"}},
	{time.RFC822, []string{"rfc822"}},
	{time.RFC822Z, []string{"rfc822z"}},
	{time.RFC850, []string{"rfc850"}},
	{time.Kitchen, []string{"kitchen"}},
	{time.DateTime, []string{"datetime"}},
	{time.Stamp, []string{"stamp"}},
	{time.StampMilli, []string{"stampmilli", "milli", "ms"}},
	{time.StampMicro, []string{"stampmicro", "micro", "us"}},
	{time.StampNano, []string{"stampnano", "nano", "ns"}},
	{"", []string{"none", "off"}},
}

// timestamper returns a FormatTime for layout, which may be one of the
// aliases in namedLayouts or a literal [time.Time.Format] layout. A blank or
// disabling layout yields a FormatTime that always returns "".
func timestamper(layout string) FormatTime {
	key := strings.Map(func(r rune) rune {
		if ('a' <= r && r <= 'z') || ('0' <= r && r <= '9') {
			return r
		}

		return -1
	}, strings.ToLower(layout))

	if key == "" {
		layout = ""
	}

	for _, n := range namedLayouts {
		if slices.Contains(n.aliases, key) {
			layout = n.layout

			break
		}
	}

	if layout == "" {
		return func(time.Time) string { return "" }
	}

	return func(t time.Time) string { return t.Format(layout) }
}
