//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/atx/log"
	"github.com/ardnew/atx/pkg"
	"github.com/ardnew/atx/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Profile the selected command" placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Directory receiving profiles"                          type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(pkg.CacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: profile.Tag, Title: "Profiling (pprof)"}
}

// start begins the configured profile and returns the func that writes it.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := []slog.Attr{slog.String("mode", f.Mode), slog.String("dir", f.Dir)}
	began := time.Now()

	log.DebugContext(ctx, "profiling", attrs...)

	p := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}.Start()

	return func() {
		p.Stop()
		log.DebugContext(ctx, "profile written",
			append(attrs, slog.Duration("elapsed", time.Since(began)))...)
	}
}
