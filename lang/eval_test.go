package lang

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

var testVars = NewContext(map[string]any{
	"n": 4,
	"s": "12",
	"b": false,
	"contact": map[string]any{
		"Name":   "Ada",
		"groups": []any{"admin", "dev"},
	},
	"born": time.Date(1815, time.December, 10, 9, 30, 0, 0, time.UTC),
})

func testRegistry(t *testing.T) *Registry {
	t.Helper()

	reg, err := NewRegistry(
		Direct("pick",
			Arity2(func(_ Env, a, _ Value) (Value, error) { return a, nil }),
			Arity3(func(_ Env, _, _, c Value) (Value, error) { return c, nil }),
		),
		Vargs("count", func(_ Env, args []Value) (Value, error) {
			return Int(int64(len(args))), nil
		}),
		Direct("now", Arity0(func(env Env) (Value, error) {
			return DateTime(env.Time()), nil
		})),
		Direct("size", Arity1(func(_ Env, a Value) (Value, error) {
			return Int(int64(a.Len())), nil
		})),
		Direct("fail", Arity0(func(Env) (Value, error) {
			return Null(), ErrDivisionByZero
		})),
		Direct("var", Arity1(func(env Env, a Value) (Value, error) {
			v, _ := env.Vars.Lookup(a.Text())

			return v, nil
		})),
	)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	return reg
}

func eval(t *testing.T, src string, opts ...Option) (Value, error) {
	t.Helper()

	n, err := ParseExpression(src, opts...)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return Evaluate(t.Context(), n, testVars, testRegistry(t), opts...)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"2 ^ 3 + 1", "9"},
		{"8 / 4 / 2", "1"},
		{"10 - 3 - 2", "5"},
		{"7 - 2.5", "4.5"},
		{"1.05", "1.05"},
		{"7 / 2", "3.5"},
		{`"a" & 1 + 2`, "a3"},
		{`"x" & "y" = "xy"`, "true"},
		{"1 + 2 = 3", "true"},
		{"s = 12", "true"},
		{"s + 1", "13"},
		{"3 <> 4", "true"},
		{"3 != 3", "false"},
		{`"b" > "a"`, "true"},
		{"2 >= 2.0", "true"},
		{"n <= 3", "false"},
		{"contact.name", "Ada"},
		{"Contact.NAME", "Ada"},
		{"contact.groups[0]", "admin"},
		{"contact.groups[n - 3]", "dev"},
		{"contact.groups[5]", ""},
		{"contact.groups", "admin, dev"},
		{"missing", ""},
		{"true", "true"},
		{"null", ""},
		{"born.year", "1815"},
		{"born.month", "12"},
		{"born.hour", "9"},
		{"born.date", "1815-12-10"},
		{"pick(1, 2)", "1"},
		{"pick(1, 2, 3)", "3"},
		{"count()", "0"},
		{"count(1, 2, 3)", "3"},
		{"contact.groups.size()", "2"},
		{`COUNT("a")`, "1"},
		{`var("n")`, "4"},
		{"b", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := eval(t, tt.input)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if got := v.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"1 / 0", ErrDivisionByZero},
		{`"a" * 2`, ErrType},
		{"1 < true", ErrType},
		{"n.field", ErrType},
		{`contact.groups["x"]`, ErrType},
		{"nope()", ErrUnknownFunction},
		{"pick(1)", ErrArityMismatch},
		{"pick(1, 2, 3, 4)", ErrArityMismatch},
		{"fail()", ErrFunctionFailed},
		{"fail()", ErrDivisionByZero},
		{"1 + nope()", ErrUnknownFunction},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := eval(t, tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEvaluate_ArityDeclared(t *testing.T) {
	_, err := eval(t, "pick(1)")

	var am *ArityMismatchError
	if !errors.As(err, &am) {
		t.Fatalf("expected *ArityMismatchError, got %T", err)
	}

	if am.Provided != 1 || !reflect.DeepEqual(am.Declared, []int{2, 3}) {
		t.Errorf("expected 1 of [2 3], got %d of %v", am.Provided, am.Declared)
	}
}

func TestEvaluate_Strict(t *testing.T) {
	_, err := eval(t, "missing", WithStrictVariables(true))
	if !errors.Is(err, ErrUnboundVariable) {
		t.Errorf("expected ErrUnboundVariable, got %v", err)
	}

	v, err := eval(t, "n", WithStrictVariables(true))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if i, _ := v.AsInt(); i != 4 {
		t.Errorf("expected 4, got %v", v)
	}
}

func TestEvaluate_Clock(t *testing.T) {
	fixed := time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)

	v, err := eval(t, "now().hour",
		WithNow(func() time.Time { return fixed }),
		WithLocation(tokyo),
	)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if i, _ := v.AsInt(); i != 19 {
		t.Errorf("expected 19, got %v", v)
	}
}

func TestEvaluate_Canceled(t *testing.T) {
	n, err := ParseExpression("count(1)")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err = Evaluate(ctx, n, testVars, testRegistry(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestEvaluate_DepthLimit(t *testing.T) {
	// Build a tree deeper than the parser would allow.
	var n Node = Literal{Value: Int(1)}
	for range 100 {
		n = Call{Name: "count", Args: []Node{n}}
	}

	_, err := Evaluate(t.Context(), n, testVars, testRegistry(t), WithMaxDepth(4))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded, got %v", err)
	}
}

func TestEvaluate_KeywordsDoNotShadow(t *testing.T) {
	vars := NewContext(map[string]any{"true": "bound"})

	n, err := ParseExpression("true")
	if err != nil {
		t.Fatal(err)
	}

	v, err := Evaluate(t.Context(), n, vars, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if v.Text() != "bound" {
		t.Errorf("expected %q, got %q", "bound", v.Text())
	}
}
