package lib

import "github.com/ardnew/atx/lang"

func logic() []lang.Function {
	return []lang.Function{
		lang.Vargs("and", and).WithDoc(
			"Reports whether every argument is truthy. With no arguments the result is true.",
			lang.Example{Expression: `and(1, "x", true)`, Result: "true"},
			lang.Example{Expression: `and(1, 0)`, Result: "false"},
		),
		lang.Vargs("or", or).WithDoc(
			"Reports whether any argument is truthy. With no arguments the result is false.",
			lang.Example{Expression: `or(0, "", null)`, Result: "false"},
			lang.Example{Expression: `or(0, 2)`, Result: "true"},
		),
		lang.Direct("not", lang.Arity1(not)).WithDoc(
			"Negates the truthiness of its argument.",
			lang.Example{Expression: `not("")`, Result: "true"},
		),
		lang.Direct("if",
			lang.Arity2(func(_ lang.Env, cond, then lang.Value) (lang.Value, error) {
				return choose(cond, then, lang.Null()), nil
			}),
			lang.Arity3(func(_ lang.Env, cond, then, els lang.Value) (lang.Value, error) {
				return choose(cond, then, els), nil
			}),
		).WithDoc(
			"Returns the second argument if the first is truthy, otherwise the third (or null).",
			lang.Example{Expression: `if(2 > 1, "yes", "no")`, Result: "yes"},
			lang.Example{Expression: `if(0, "yes")`, Result: ""},
		),
	}
}

func and(_ lang.Env, args []lang.Value) (lang.Value, error) {
	for _, a := range args {
		if !a.Truthy() {
			return lang.Bool(false), nil
		}
	}

	return lang.Bool(true), nil
}

func or(_ lang.Env, args []lang.Value) (lang.Value, error) {
	for _, a := range args {
		if a.Truthy() {
			return lang.Bool(true), nil
		}
	}

	return lang.Bool(false), nil
}

func not(_ lang.Env, v lang.Value) (lang.Value, error) {
	return lang.Bool(!v.Truthy()), nil
}

func choose(cond, then, els lang.Value) lang.Value {
	if cond.Truthy() {
		return then
	}

	return els
}
