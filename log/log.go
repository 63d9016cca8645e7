package log

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"time"
)

// Logger is a leveled structured logger. Its zero value discards everything.
//
// A Logger is a value; [Logger.Wrap] and [Logger.With] derive new loggers
// without disturbing the receiver, so one may be shared between goroutines.
type Logger struct {
	*slog.Logger
	config
}

// Make returns a Logger writing to w. Options are applied over the package
// defaults ([DefaultFormat], [DefaultLevel], [DefaultTimeLayout], no caller).
func Make(w io.Writer, opts ...Option) Logger {
	return build(makeConfig(w, opts...), nil)
}

// build pairs cfg with a handler. A nil base constructs a fresh handler from
// cfg; otherwise base is reused so attributes attached by With survive.
func build(cfg config, base slog.Handler) Logger {
	if base == nil {
		base = cfg.handler()
	}

	return Logger{config: cfg, Logger: slog.New(base)}
}

// snapshot copies the receiver's config under its read lock.
func (l Logger) snapshot(opts ...Option) config {
	if l.mutex == nil {
		return l.clone(opts...)
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.clone(opts...)
}

// Wrap derives a Logger whose configuration is the receiver's with opts
// applied. The derived handler is rebuilt, so attributes added by With are
// not carried over.
func (l Logger) Wrap(opts ...Option) Logger {
	return build(l.snapshot(opts...), nil)
}

// With derives a Logger that adds attrs to every record.
func (l Logger) With(attrs ...slog.Attr) Logger {
	if l.Logger == nil {
		return l
	}

	return build(l.snapshot(), l.Handler().WithAttrs(attrs))
}

// Level returns the minimum level recorded.
func (l Logger) Level() Level {
	cfg, ok := l.current()
	if !ok {
		return DefaultLevel
	}

	return cfg.level
}

// Format returns the output encoding.
func (l Logger) Format() Format {
	cfg, ok := l.current()
	if !ok {
		return DefaultFormat
	}

	return cfg.format
}

func (l Logger) current() (config, bool) {
	if l.Logger == nil || l.mutex == nil {
		return config{}, false
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return l.config, true
}

// Enabled reports whether l records messages at level.
func (l Logger) Enabled(ctx context.Context, level Level) bool {
	return l.Logger != nil && l.Logger.Enabled(ctx, slog.Level(level))
}

func (l Logger) TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelTrace, msg, attrs)
}

func (l Logger) DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelDebug, msg, attrs)
}

func (l Logger) InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelInfo, msg, attrs)
}

func (l Logger) WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelWarn, msg, attrs)
}

func (l Logger) ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.emit(ctx, LevelError, msg, attrs)
}

// The context-free variants use [DefaultContextProvider].

func (l Logger) Trace(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelTrace, msg, attrs)
}

func (l Logger) Debug(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelDebug, msg, attrs)
}

func (l Logger) Info(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelInfo, msg, attrs)
}

func (l Logger) Warn(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelWarn, msg, attrs)
}

func (l Logger) Error(msg string, attrs ...slog.Attr) {
	l.emit(DefaultContextProvider(), LevelError, msg, attrs)
}

// emit must be called directly from an exported logging method: the recorded
// source skips runtime.Callers, emit and that method.
func (l Logger) emit(
	ctx context.Context,
	level Level,
	msg string,
	attrs []slog.Attr,
) {
	if l.Logger == nil {
		return
	}

	if l.mutex != nil {
		l.mutex.RLock()
		defer l.mutex.RUnlock()
	}

	if !l.Logger.Enabled(ctx, slog.Level(level)) {
		return
	}

	var pc [1]uintptr

	runtime.Callers(3, pc[:])

	rec := slog.NewRecord(time.Now(), slog.Level(level), msg, pc[0])
	rec.AddAttrs(attrs...)
	_ = l.Handler().Handle(ctx, rec)
}
