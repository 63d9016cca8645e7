package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		config string
		flag   string
		want   any
	}{
		{"flat", "log-level: debug\n", "log-level", "debug"},
		{"underscore", "log_format: json\n", "log-format", "json"},
		{"nested", "log:\n  pretty: true\n", "log-pretty", true},
		{"number", "max-depth: 12\n", "max-depth", "12"},
		{"float", "ratio: 1.5\n", "ratio", "1.5"},
		{"missing", "log-level: debug\n", "log-caller", nil},
		{"empty", "", "log-level", nil},
		{"invalid", "log: [\n", "log-level", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := resolve(t.Context())(strings.NewReader(tt.config))
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			got, err := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestResolve_Sequence(t *testing.T) {
	res, err := resolve(t.Context())(strings.NewReader("context: [a.yaml, 2]\n"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, _ := res.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "context"}})

	seq, ok := got.([]any)
	if !ok || len(seq) != 2 {
		t.Fatalf("expected 2-element sequence, got %#v", got)
	}

	if seq[1] != "2" {
		t.Errorf("expected %q, got %#v", "2", seq[1])
	}
}

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{args: []string{"--log-level", "debug"}, level: "debug"},
		{args: []string{"--log-level=error", "eval"}, level: "error"},
		{args: []string{"--log-format", "json", "--log-pretty"}, format: "json", pretty: true},
		{args: []string{"--log-pretty", "--no-log-pretty"}},
		{args: []string{"--log-caller=true"}, caller: true},
		{args: []string{"--no-log-caller=false"}, caller: true},
		{args: []string{"--log-caller=bogus"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var f logConfig

			f.scan(tt.args)

			if f.Level != tt.level {
				t.Errorf("expected level %q, got %q", tt.level, f.Level)
			}

			if f.Format != tt.format {
				t.Errorf("expected format %q, got %q", tt.format, f.Format)
			}

			if f.Pretty != tt.pretty {
				t.Errorf("expected pretty %v, got %v", tt.pretty, f.Pretty)
			}

			if f.Caller != tt.caller {
				t.Errorf("expected caller %v, got %v", tt.caller, f.Caller)
			}
		})
	}
}

func TestGroups(t *testing.T) {
	got := groups(kong.Group{Key: "log"}, kong.Group{}, kong.Group{Key: "pprof"})
	if len(got) != 2 {
		t.Errorf("expected 2 groups, got %d", len(got))
	}
}
