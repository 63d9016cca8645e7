package lang

import (
	"math"
	"math/rand/v2"
	"strconv"
	"testing"

	"github.com/expr-lang/expr"
)

// arith generates a random arithmetic expression over small positive
// integers. Power is only emitted between literals because expr folds '^'
// right to left.
func arith(r *rand.Rand, depth int) string {
	if depth == 0 || r.IntN(4) == 0 {
		if r.IntN(5) == 0 {
			return "(" + strconv.Itoa(1+r.IntN(3)) + " ^ " + strconv.Itoa(1+r.IntN(3)) + ")"
		}

		return strconv.Itoa(1 + r.IntN(9))
	}

	ops := []string{"+", "-", "*", "/"}
	s := arith(r, depth-1) + " " + ops[r.IntN(len(ops))] + " " + arith(r, depth-1)

	if r.IntN(3) == 0 {
		s = "(" + s + ")"
	}

	return s
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true

	case float64:
		return n, true

	default:
		return 0, false
	}
}

// TestEvaluate_MatchesExpr checks precedence, associativity and arithmetic
// against the expr-lang evaluator on generated expressions.
func TestEvaluate_MatchesExpr(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		src := arith(r, 4)

		want, err := expr.Eval(src, nil)
		if err != nil {
			t.Fatalf("expr %q: %v", src, err)
		}

		wf, ok := number(want)
		if !ok || math.IsInf(wf, 0) || math.IsNaN(wf) {
			continue
		}

		n, err := ParseExpression(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}

		got, err := Evaluate(t.Context(), n, Context{}, nil)
		if err != nil {
			t.Errorf("%s: expected %v, got error %v", src, want, err)

			continue
		}

		gf, ok := got.AsFloat()
		if !ok {
			t.Errorf("%s: expected number, got %s", src, got)

			continue
		}

		if math.Abs(gf-wf) > 1e-9*math.Max(1, math.Abs(wf)) {
			t.Errorf("%s: expected %v, got %v", src, wf, gf)
		}
	}
}

func TestEvaluate_ComparisonMatchesExpr(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	ops := []string{"<", "<=", ">", ">="}

	for range 200 {
		src := arith(r, 2) + " " + ops[r.IntN(len(ops))] + " " + arith(r, 2)

		want, err := expr.Eval(src, nil)
		if err != nil {
			t.Fatalf("expr %q: %v", src, err)
		}

		n, err := ParseExpression(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}

		got, err := Evaluate(t.Context(), n, Context{}, nil)
		if err != nil {
			t.Errorf("%s: unexpected error %v", src, err)

			continue
		}

		if b, _ := got.AsBool(); b != want {
			t.Errorf("%s: expected %v, got %v", src, want, b)
		}
	}
}
