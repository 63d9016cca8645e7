package lib

import (
	"math"

	"github.com/ardnew/atx/lang"
)

func arithmetic() []lang.Function {
	return []lang.Function{
		lang.Vargs("sum", sum).WithDoc(
			"Adds every argument. Sequences are expanded. With no arguments the result is 0.",
			lang.Example{Expression: `sum(1, 2, 3.5)`, Result: "6.5"},
			lang.Example{Expression: `sum("4", 5)`, Result: "9"},
		),
		lang.Vargs("max", extreme("max", lang.OpGreater)).WithDoc(
			"Returns the greatest argument. Sequences are expanded. With no arguments the result is null.",
			lang.Example{Expression: `max(3, 10, 7)`, Result: "10"},
		),
		lang.Vargs("min", extreme("min", lang.OpLess)).WithDoc(
			"Returns the least argument. Sequences are expanded. With no arguments the result is null.",
			lang.Example{Expression: `min(3, 10, 7)`, Result: "3"},
		),
		lang.Direct("abs", lang.Arity1(abs)).WithDoc(
			"Returns the absolute value of a number.",
			lang.Example{Expression: `abs(0 - 4)`, Result: "4"},
		),
		lang.Direct("round",
			lang.Arity1(func(_ lang.Env, v lang.Value) (lang.Value, error) {
				return round(v, lang.Int(0))
			}),
			lang.Arity2(func(_ lang.Env, v, places lang.Value) (lang.Value, error) {
				return round(v, places)
			}),
		).WithDoc(
			"Rounds half away from zero to a number of decimal places, 0 by default. "+
				"Negative places round to the left of the decimal point.",
			lang.Example{Expression: `round(2.5)`, Result: "3"},
			lang.Example{Expression: `round(3.14159, 2)`, Result: "3.14"},
			lang.Example{Expression: `round(1234, 0 - 2)`, Result: "1200"},
			lang.Example{Expression: `round(1.5, 400)`, Result: "1.5"},
		),
	}
}

func sum(_ lang.Env, args []lang.Value) (lang.Value, error) {
	acc := lang.Int(0)

	for _, a := range flatten(args) {
		n, err := numeric("sum", a)
		if err != nil {
			return lang.Null(), err
		}

		if acc, err = lang.Apply(lang.OpAdd, acc, n); err != nil {
			return lang.Null(), err
		}
	}

	return acc, nil
}

// extreme returns a handler selecting the argument for which op holds
// against every other argument.
func extreme(name string, op lang.Operator) lang.Handler {
	return func(_ lang.Env, args []lang.Value) (lang.Value, error) {
		items := flatten(args)
		if len(items) == 0 {
			return lang.Null(), nil
		}

		best := items[0]

		for _, v := range items[1:] {
			ok, err := lang.Apply(op, v, best)
			if err != nil {
				return lang.Null(), lang.NewTypeError(name, best, v)
			}

			if ok.Truthy() {
				best = v
			}
		}

		return best, nil
	}
}

func abs(_ lang.Env, v lang.Value) (lang.Value, error) {
	n, err := numeric("abs", v)
	if err != nil {
		return lang.Null(), err
	}

	if i, ok := n.AsInt(); ok {
		switch {
		case i == math.MinInt64:
			return lang.Float(-float64(i)), nil

		case i < 0:
			return lang.Int(-i), nil

		default:
			return n, nil
		}
	}

	f, _ := n.AsFloat()

	return lang.Float(math.Abs(f)), nil
}

func round(v, places lang.Value) (lang.Value, error) {
	f, err := float("round", v)
	if err != nil {
		return lang.Null(), err
	}

	p, err := integer("round", places)
	if err != nil {
		return lang.Null(), err
	}

	// Scales past the float64 range keep f when rounding right of the point
	// and yield zero when rounding left of it.
	n := min(max(p, -400), 400)
	if n < 0 {
		n = -n
	}

	scale := math.Pow10(int(n))

	var r float64

	if p >= 0 {
		r = f
		if scaled := f * scale; !math.IsInf(scale, 1) && !math.IsInf(scaled, 0) {
			r = math.Round(scaled) / scale
		}
	} else if !math.IsInf(scale, 1) {
		r = math.Round(f/scale) * scale
	}

	if p <= 0 {
		if i, ok := lang.Integral(lang.Float(r)); ok {
			return lang.Int(i), nil
		}
	}

	return lang.Float(r), nil
}

