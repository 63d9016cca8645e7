package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestError_Is(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"sentinel", ErrType, ErrType, true},
		{"with attrs", ErrType.With(slog.String("k", "v")), ErrType, true},
		{"wrapped", ErrFunctionFailed.Wrap(base), ErrFunctionFailed, true},
		{"wrapped cause", ErrFunctionFailed.Wrap(base), base, true},
		{"other sentinel", ErrType, ErrParse, false},
		{"wrapped target", ErrType, ErrType.Wrap(base), false},
		{"fmt wrapped", fmt.Errorf("ctx: %w", ErrDivisionByZero), ErrDivisionByZero, true},
		{"type error", NewTypeError("op", Int(1)), ErrType, true},
		{"unbound", &UnboundVariableError{Name: "x"}, ErrUnboundVariable, true},
		{"unknown", &UnknownFunctionError{Name: "x"}, ErrUnknownFunction, true},
		{"arity", &ArityMismatchError{Name: "x"}, ErrArityMismatch, true},
		{"segment", &SegmentError{Err: ErrDivisionByZero}, ErrDivisionByZero, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrType, "type error"},
		{ErrFunctionFailed.Wrap(errors.New("boom")), "function call failed: boom"},
		{WrapError(errors.New("plain")), "plain"},
		{NewTypeError("operator *", String("a"), Int(2)), `type error: cannot apply operator * to string "a" and integer 2`},
		{&ArityMismatchError{Name: "f", Provided: 1, Declared: []int{2, 3}}, "argument count mismatch: f called with 1 argument(s), accepts 2 or 3"},
		{&SegmentError{Source: "@x", Offset: 4, Err: ErrType}, "@x (offset 4): type error"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}

func TestError_With(t *testing.T) {
	a := ErrType.With(slog.String("a", "1"))
	b := a.With(slog.String("b", "2"))

	if len(a.Attrs()) != 1 || len(b.Attrs()) != 2 {
		t.Errorf("expected 1 and 2 attrs, got %d and %d", len(a.Attrs()), len(b.Attrs()))
	}

	if len(ErrType.Attrs()) != 0 {
		t.Error("expected sentinel to stay unmodified")
	}

	if !strings.Contains(b.LogValue().String(), "b=2") {
		t.Errorf("expected log value to carry attrs, got %s", b.LogValue())
	}
}

func TestWrapError_KeepsError(t *testing.T) {
	e := ErrType.With(slog.Int("n", 1))
	if WrapError(e) != e {
		t.Error("expected WrapError to return an existing *Error unchanged")
	}
}

func TestParseError_Snippet(t *testing.T) {
	_, err := ParseExpression("1 +\n2 *")

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}

	lines := strings.Split(pe.Snippet(), "\n")
	if !strings.HasPrefix(lines[0], "  2 | 2 *") {
		t.Errorf("expected second source line, got %q", lines[0])
	}

	caret := strings.Index(lines[1], "^")
	if want := len("  2 | ") + pe.Column - 1; caret != want {
		t.Errorf("expected caret at %d, got %d", want, caret)
	}
}
