// Package cli contains the command line interface for atx.
//
// # Usage
//
// Without a subcommand, atx renders a template file (or stdin):
//
//	atx -c vars.yaml letter.txt
//	echo 'Hello @name' | atx --var name=Ada
//
// Single expressions are evaluated with eval, and parsed trees are shown
// with ast:
//
//	atx eval 'round(price * 1.08, 2)' --var price=19.99
//	atx ast -f yaml '1 + 2 * 3'
//
// The repl subcommand starts an interactive session with completion, call
// signature hints and persistent history.
//
// # Configuration
//
// Flag defaults are read from config.yaml (or config.json) in the user
// configuration directory. The init subcommand writes the current values:
//
//	atx --log-level=debug init
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o atx .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
