package repl

import (
	"strings"
	"testing"

	"github.com/ardnew/atx/lang"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		cursor     int
		wantName   string
		wantIndex  int
		wantInCall bool
	}{
		{"no_call", "greeting", 8, "", 0, false},
		{"first_arg", "round(", 6, "round", 0, true},
		{"second_arg", "round(1.5, ", 11, "round", 1, true},
		{"closed_call", "round(1.5)", 10, "", 0, false},
		{"nested_inner", "join(upper(a", 12, "upper", 0, true},
		{"nested_outer", "join(upper(a), ", 15, "join", 1, true},
		{"comma_in_string", `join(a, ", `, 11, "join", 1, true},
		{"method_call", "items.join(", 11, "join", 1, true},
		{"case_folded", "UPPER(", 6, "upper", 0, true},
		{"group_not_call", "(1 + ", 5, "", 0, false},
		{"cursor_mid_input", "if(a, b, c)", 4, "if", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := detectFunctionCall(tt.input, tt.cursor)
			if got.name != tt.wantName || got.argIndex != tt.wantIndex ||
				got.inCall != tt.wantInCall {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want {%s %d %v}",
					tt.input, tt.cursor, got, tt.wantName, tt.wantIndex, tt.wantInCall)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	nop := func(lang.Env, lang.Value) (lang.Value, error) { return lang.Null(), nil }

	reg, err := lang.NewRegistry(
		lang.Direct("one", lang.Arity1(nop)),
		lang.Direct("round",
			lang.Arity1(nop),
			lang.Arity2(func(lang.Env, lang.Value, lang.Value) (lang.Value, error) {
				return lang.Null(), nil
			}),
		),
		lang.Vargs("sum", func(lang.Env, []lang.Value) (lang.Value, error) {
			return lang.Null(), nil
		}),
	)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"one", "one(arg1)"},
		{"round", "round(arg1, arg2?)"},
		{"sum", "sum(...args)"},
		{"missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := getSignature(reg, tt.name); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	hint := renderSignatureHint("round(arg1, arg2?)", []string{"arg1", "arg2?"}, 1)

	for _, part := range []string{"round", "arg1", "arg2?"} {
		if !strings.Contains(hint, part) {
			t.Errorf("expected hint to contain %q, got %q", part, hint)
		}
	}

	if got := renderSignatureHint("", nil, 0); got != signatureStyle.Render("") {
		t.Errorf("expected empty hint, got %q", got)
	}
}
