package log

import (
	"io"
	"sync"
)

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// locked returns an Option that runs set while holding the config's mutex,
// creating the mutex if the config has none yet.
func locked(set func(*config)) Option {
	return func(c config) config {
		if c.mutex == nil {
			c.mutex = &sync.RWMutex{}
		} else {
			c.mutex.Lock()
			defer c.mutex.Unlock()
		}

		set(&c)

		return c
	}
}

// WithDefaults returns a functional option that sets the default configuration.
// The default configuration is [DefaultTimeLayout], [DefaultLevel],
// [DefaultFormat], [DefaultPretty], and caller info disabled.
func WithDefaults(w io.Writer) Option {
	return locked(func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
		c.formatTime = timestamper(DefaultTimeLayout)
		c.level = DefaultLevel
		c.format = DefaultFormat
		c.caller = DefaultCaller
		c.pretty = DefaultPretty
	})
}

// WithOutput returns a functional option that sets the output [io.Writer]
// for log messages.
// If a nil writer is provided, [io.Discard] is used instead.
func WithOutput(w io.Writer) Option {
	return locked(func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	})
}

// WithLevel returns a functional option that sets the minimum log level.
// Messages below this level are discarded.
func WithLevel(level Level) Option {
	return locked(func(c *config) { c.level = level })
}

// WithFormat returns a functional option that sets the output format
// for log messages.
func WithFormat(format Format) Option {
	return locked(func(c *config) { c.format = format })
}

// WithTimeLayout returns a functional option that sets the layout used to
// format log timestamps.
//
// The layout string can be one of the named layouts from the [time] package
// (for example, "RFC3339" or "RFC3339Nano"). Otherwise, it is passed verbatim
// to [time.Time.Format] and must follow the reference-time layout rules.
//
// If an empty string (after trimming whitespace) is provided, timestamps are
// disabled and no time is included in log output.
func WithTimeLayout(layout string) Option {
	format := timestamper(layout)

	return locked(func(c *config) { c.formatTime = format })
}

// WithCaller returns a functional option that controls whether caller
// information is included in log output.
func WithCaller(enable bool) Option {
	return locked(func(c *config) { c.caller = enable })
}

// WithPretty returns a functional option that controls whether text output
// is colorized, with unquoted values and gray keys.
func WithPretty(enable bool) Option {
	return locked(func(c *config) { c.pretty = enable })
}
