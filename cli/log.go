package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/atx/log"
)

// logFormat configures the logger format as a side effect of parsing via
// encoding.TextUnmarshaler, so that errors raised during parsing already use
// the requested format.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level (${enum})."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format (${enum})."`
	TimeLayout string    `default:"RFC3339"                                     help:"Set timestamp format."`
	Caller     bool      `default:"false"                                       help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"false"                                       help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logLevelDefault":  log.DefaultLevel.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing, regardless of flag
// position on the command line. Boolean flags never reach UnmarshalText, so
// they are only applied here and in start.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg, negate := strings.CutPrefix(args[i], "--no-")
		if negate {
			arg = "--" + arg
		}

		name, value, assigned := strings.Cut(arg, "=")

		// next consumes the following argument as the value of a non-boolean
		// flag given without '='.
		next := func() string {
			if !assigned && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++

				return args[i]
			}

			return value
		}

		// flag resolves the value of a boolean flag, or false if malformed.
		flag := func() (bool, bool) {
			if !assigned {
				return !negate, true
			}

			v, err := strconv.ParseBool(value)

			return v != negate, err == nil
		}

		switch name {
		case "--log-level":
			_ = f.Level.UnmarshalText([]byte(next()))

		case "--log-format":
			_ = f.Format.UnmarshalText([]byte(next()))

		case "--log-pretty":
			if v, ok := flag(); ok {
				f.Pretty = v
				log.Config(log.WithPretty(v))
			}

		case "--log-caller":
			if v, ok := flag(); ok {
				f.Caller = v
				log.Config(log.WithCaller(v))
			}
		}
	}
}
