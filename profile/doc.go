// Package profile provides optional runtime profiling for the atx command.
//
// Profiling integrates [github.com/pkg/profile] and must be enabled at build
// time with the "pprof" build tag:
//
//	go build -tags pprof ./
//	atx --pprof-mode cpu render template.txt
//
// Without the tag every operation is a no-op and [Modes] is empty.
//
// Supported modes: allocs, block, clock, cpu, goroutine, heap, mem, mutex,
// thread and trace. Profiles are written to the configured directory, named
// after the mode (cpu.pprof, mem.pprof), and analyzed with go tool pprof:
//
//	go tool pprof -http=: $XDG_CACHE_HOME/atx/pprof/cpu.pprof
//
// Builds with the tag also register the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`
