// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template rendered", slog.Int("segments", 3))
//	logger.Error("render failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package default logger, used by the package-level functions such as
// [Info] and [Warn], writes to standard error and is reconfigured with
// [Config].
//
// # Levels
//
// Five levels are supported: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn], and [LevelError]. Messages below the configured level
// are discarded. The zero [Logger] discards everything, so libraries may
// accept a Logger without requiring one.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON]. Text output may be colorized with [WithPretty].
package log
