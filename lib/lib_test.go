package lib

import (
	"errors"
	"testing"
	"time"

	"github.com/ardnew/atx/lang"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func evaluate(t *testing.T, src string, vars map[string]any) (lang.Value, error) {
	t.Helper()

	reg, err := Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	node, err := lang.ParseExpression(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}

	return lang.Evaluate(t.Context(), node, lang.NewContext(vars), reg,
		lang.WithNow(func() time.Time { return fixedNow }),
		lang.WithLocation(time.UTC),
	)
}

func TestRegistry(t *testing.T) {
	reg, err := Registry()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if reg.Len() != len(Functions()) {
		t.Errorf("expected %d functions, got %d", len(Functions()), reg.Len())
	}

	again, _ := Registry()
	if again != reg {
		t.Error("expected Registry to be built once")
	}

	for _, fn := range reg.Functions() {
		if fn.Doc() == "" {
			t.Errorf("%s: expected doc string", fn.Name())
		}

		if len(fn.Examples()) == 0 {
			t.Errorf("%s: expected at least one example", fn.Name())
		}
	}
}

func TestFunction_Examples(t *testing.T) {
	for _, fn := range Functions() {
		for _, ex := range fn.Examples() {
			t.Run(ex.Expression, func(t *testing.T) {
				v, err := evaluate(t, ex.Expression, nil)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}

				if got := v.Text(); got != ex.Result {
					t.Errorf("expected %q, got %q", ex.Result, got)
				}
			})
		}
	}
}

func TestBuiltins(t *testing.T) {
	vars := map[string]any{
		"items":   []any{4, 8, 15},
		"names":   []any{"ada", "grace"},
		"empty":   []any{},
		"contact": map[string]any{"Name": "Ada", "groups": []any{"admins"}},
	}

	tests := []struct {
		expr string
		want string
	}{
		{`or(b, b)`, "false"},
		{`and()`, "true"},
		{`or()`, "false"},
		{`if(contact.name = "Ada", "hi", "who?")`, "hi"},
		{`count(items)`, "3"},
		{`count(contact)`, "2"},
		{`first(items)`, "4"},
		{`first(empty)`, ""},
		{`join(names)`, "ada, grace"},
		{`join(names, "+")`, "ada+grace"},
		{`upper(contact.groups[0])`, "ADMINS"},
		{`len(names)`, "2"},
		{`len(null)`, "0"},
		{`sum(items)`, "27"},
		{`sum(items, 0.5)`, "27.5"},
		{`sum()`, "0"},
		{`max(items)`, "15"},
		{`min(items, 2)`, "2"},
		{`max()`, ""},
		{`max("apple", "pear")`, "pear"},
		{`abs("-2.5")`, "2.5"},
		{`round(2.4999)`, "2"},
		{`round(0 - 2.5)`, "-3"},
		{`round(1.5, 400)`, "1.5"},
		{`round(1.5, 0 - 400)`, "0"},
		{`round(0, 400)`, "0"},
		{`now().year`, "2024"},
		{`today()`, "2024-03-15"},
		{`now().date = today()`, "true"},
		{`date(2024, 1, 31) < date(2024, 2, 1)`, "true"},
		{`datetime("2024-03-15 08:00:00").unix`, "1710489600"},
		{`concat(names)`, "ada, grace"},
		{`prefix_list("a,b", ",", names)`, "ada,grace,a,b"},
		{`prefix_list("a,b", ",", "x", "y", "z")`, "x,y,z,a,b"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := evaluate(t, tt.expr, vars)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if got := v.Text(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestBuiltins_Errors(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{`not(1, 2)`, lang.ErrArityMismatch},
		{`if(1)`, lang.ErrArityMismatch},
		{`round(1, 2, 3)`, lang.ErrArityMismatch},
		{`prefix_list("a")`, lang.ErrArityMismatch},
		{`sum("x")`, lang.ErrType},
		{`abs(null)`, lang.ErrType},
		{`first(1)`, lang.ErrType},
		{`max(1, "pear")`, lang.ErrType},
		{`round(1.5, 0.5)`, lang.ErrType},
		{`datetime(1)`, lang.ErrType},
		{`date(2023, 2, 29)`, ErrInvalidArgument},
		{`date(2024, 13, 1)`, ErrInvalidArgument},
		{`datetime("yesterday")`, ErrInvalidArgument},
		{`format_number(1, "not a locale!")`, ErrInvalidArgument},
		{`format_currency(1, "XYZW")`, ErrInvalidArgument},
		{`frobnicate()`, lang.ErrUnknownFunction},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := evaluate(t, tt.expr, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFunctionFailed_Wraps(t *testing.T) {
	_, err := evaluate(t, `date(2023, 2, 30)`, nil)
	if !errors.Is(err, lang.ErrFunctionFailed) {
		t.Errorf("expected %v, got %v", lang.ErrFunctionFailed, err)
	}
}
