package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level %v, got %v", DefaultLevel, logger.Level())
	}

	if logger.config.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("expected default format %v, got %v", DefaultFormat, logger.Format())
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithLevel(LevelTrace))

	logger.Trace("trace message")

	if !strings.Contains(buf.String(), "trace message") {
		t.Error("trace message not logged after setting level to Trace")
	}

	if !strings.Contains(buf.String(), "level=TRACE") {
		t.Errorf("expected TRACE level label, got: %s", buf.String())
	}

	buf.Reset()

	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Make_WithFormat_JSON(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON), WithLevel(LevelInfo))
	logger.Info("hello", slog.String("key", "value"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}

	if record["msg"] != "hello" || record["key"] != "value" {
		t.Errorf("unexpected record: %v", record)
	}
}

func TestLogger_Make_WithTimeLayout_None(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf, WithTimeLayout("none"), WithLevel(LevelInfo))
	logger.Info("no time")

	if strings.Contains(buf.String(), "time=") {
		t.Errorf("expected no timestamp, got: %s", buf.String())
	}
}

func TestLogger_Make_WithPretty_WritesGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer

	logger := Make(&buf,
		WithPretty(true),
		WithLevel(LevelInfo),
		WithTimeLayout(""),
	).With(slog.String("component", "render"))

	logger.Info("done", slog.Group("stats", slog.Int("segments", 3)))

	out := buf.String()
	for _, want := range []string{"component", "render", "stats.segments", "3", "done"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got: %s", want, out)
		}
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var logger Logger

	logger.Info("discarded")
	logger.TraceContext(t.Context(), "discarded")

	if logger.Enabled(t.Context(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if got := logger.With(slog.String("k", "v")); got.Logger != nil {
		t.Error("With on zero logger should stay zero")
	}
}

func TestLogger_Wrap_OverridesLevel(t *testing.T) {
	var buf bytes.Buffer

	base := Make(&buf, WithLevel(LevelError))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if base.Level() != LevelError {
		t.Errorf("expected base level unchanged, got %v", base.Level())
	}

	if !wrapped.Enabled(context.Background(), LevelDebug) {
		t.Error("expected wrapped logger to enable Debug")
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var buf syncBuffer

	logger := Make(&buf, WithLevel(LevelInfo))

	var wg sync.WaitGroup

	for range 16 {
		wg.Go(func() {
			for range 50 {
				logger.Info("concurrent", slog.Int("n", 1))
			}
		})
	}

	wg.Wait()

	if got := strings.Count(buf.String(), "concurrent"); got != 16*50 {
		t.Errorf("expected %d records, got %d", 16*50, got)
	}
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := Default()
	defer func() { defaultLog = original }()

	var buf bytes.Buffer

	defaultLog = Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
		msg   string
	}{
		{"Trace", Trace, "TRACE", "trace message"},
		{"Debug", Debug, "DEBUG", "debug message"},
		{"Info", Info, "INFO", "info message"},
		{"Warn", Warn, "WARN", "warn message"},
		{"Error", Error, "ERROR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.msg, slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, tt.msg) {
				t.Errorf("expected output to contain message %q, got: %s", tt.msg, output)
			}

			if !strings.Contains(output, tt.level) {
				t.Errorf("expected output to contain level %q, got: %s", tt.level, output)
			}

			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected output to contain attribute, got: %s", output)
			}
		})
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}
