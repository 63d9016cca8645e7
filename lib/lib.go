package lib

import (
	"slices"
	"sync"

	"github.com/ardnew/atx/lang"
)

// ErrInvalidArgument is returned by a builtin when an argument has the right
// kind but an unusable value, such as an unknown locale.
var ErrInvalidArgument = lang.NewError("invalid argument")

// Functions returns every builtin function.
func Functions() []lang.Function {
	return slices.Concat(
		logic(),
		collections(),
		text(),
		arithmetic(),
		dates(),
		formats(),
	)
}

// Registry returns the registry of builtin functions. It is built once and
// shared by all callers.
//
//nolint:gochecknoglobals
var Registry = sync.OnceValues(
	func() (*lang.Registry, error) {
		return lang.NewRegistry(Functions()...)
	},
)
