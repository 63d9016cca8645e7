//go:build pprof

package profile

import (
	"maps"
	"slices"

	"github.com/pkg/profile"

	_ "net/http/pprof" // register HTTP handlers
)

// modes maps each accepted mode name to the option selecting that profile.
var modes = map[string]func(*profile.Profile){
	"allocs":    profile.MemProfileAllocs,
	"block":     profile.BlockProfile,
	"clock":     profile.ClockProfile,
	"cpu":       profile.CPUProfile,
	"goroutine": profile.GoroutineProfile,
	"heap":      profile.MemProfileHeap,
	"mem":       profile.MemProfile,
	"mutex":     profile.MutexProfile,
	"thread":    profile.ThreadcreationProfile,
	"trace":     profile.TraceProfile,
}

// Modes returns the supported mode names in sorted order.
func Modes() []string { return slices.Sorted(maps.Keys(modes)) }

func start(mode, path string, quiet bool) interface{ Stop() } {
	selected, ok := modes[mode]
	if !ok {
		return ignore{}
	}

	opts := []func(*profile.Profile){selected, profile.NoShutdownHook}

	if path != "" {
		opts = append(opts, profile.ProfilePath(path))
	}

	if quiet {
		opts = append(opts, profile.Quiet)
	}

	return profile.Start(opts...)
}
