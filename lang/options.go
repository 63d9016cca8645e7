package lang

import (
	"time"

	"github.com/ardnew/atx/log"
)

// DefaultMaxDepth bounds the nesting of groups, argument lists and index
// expressions accepted by the parser.
const DefaultMaxDepth = 64

// Option applies a configuration option to parsing, evaluation or rendering.
type Option func(options) options

type options struct {
	logger   log.Logger
	now      func() time.Time
	location *time.Location
	maxDepth int
	strict   bool
}

func makeOptions(opts ...Option) options {
	o := options{
		now:      time.Now,
		location: time.Local,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		o = opt(o)
	}

	return o
}

// WithLogger sets the logger receiving trace output. The zero [log.Logger]
// discards everything.
func WithLogger(logger log.Logger) Option {
	return func(o options) options {
		o.logger = logger

		return o
	}
}

// WithMaxDepth sets the maximum nesting depth. Values less than one disable
// the limit.
func WithMaxDepth(depth int) Option {
	return func(o options) options {
		o.maxDepth = depth

		return o
	}
}

// WithStrictVariables makes references to unbound identifiers an error
// instead of evaluating to null.
func WithStrictVariables(strict bool) Option {
	return func(o options) options {
		o.strict = strict

		return o
	}
}

// WithNow sets the clock used by time-dependent functions.
func WithNow(now func() time.Time) Option {
	return func(o options) options {
		if now != nil {
			o.now = now
		}

		return o
	}
}

// WithLocation sets the time zone used by time-dependent functions.
func WithLocation(loc *time.Location) Option {
	return func(o options) options {
		if loc != nil {
			o.location = loc
		}

		return o
	}
}
