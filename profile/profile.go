package profile

// Profiler configures a profiling session.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Start begins profiling and returns a handle whose Stop flushes the
// profile. If the pprof build tag or Mode is unset, Start returns a no-op.
// Both Start and Stop are always safely callable.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// Enabled reports whether profiling support was compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type ignore struct{}

func (ignore) Stop() {}
