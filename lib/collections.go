package lib

import (
	"strings"

	"github.com/ardnew/atx/lang"
)

func collections() []lang.Function {
	return []lang.Function{
		lang.Direct("count", lang.Arity1(count)).WithDoc(
			"Returns the number of items in a sequence or mapping. Null counts as zero and any other value as one.",
			lang.Example{Expression: `count(null)`, Result: "0"},
			lang.Example{Expression: `count("abc")`, Result: "1"},
		),
		lang.Direct("first", lang.Arity1(first)).WithDoc(
			"Returns the first item of a sequence (null when empty) or the first character of a string.",
			lang.Example{Expression: `first("hello")`, Result: "h"},
		),
		lang.Direct("join",
			lang.Arity1(func(_ lang.Env, v lang.Value) (lang.Value, error) {
				return join(v, ", "), nil
			}),
			lang.Arity2(func(_ lang.Env, v, sep lang.Value) (lang.Value, error) {
				return join(v, sep.Text()), nil
			}),
		).WithDoc(
			"Joins the items of a sequence with a separator, \", \" by default.",
			lang.Example{Expression: `join("solo", "-")`, Result: "solo"},
		),
	}
}

func count(_ lang.Env, v lang.Value) (lang.Value, error) {
	switch v.Kind() {
	case lang.KindNull:
		return lang.Int(0), nil

	case lang.KindSequence, lang.KindMapping:
		return lang.Int(int64(v.Len())), nil

	default:
		return lang.Int(1), nil
	}
}

func first(_ lang.Env, v lang.Value) (lang.Value, error) {
	switch v.Kind() {
	case lang.KindSequence:
		item, _ := v.Index(0)

		return item, nil

	case lang.KindString:
		s, _ := v.AsString()
		for _, r := range s {
			return lang.String(string(r)), nil
		}

		return lang.String(""), nil

	default:
		return lang.Null(), lang.NewTypeError("first", v)
	}
}

func join(v lang.Value, sep string) lang.Value {
	items, ok := v.Items()
	if !ok {
		return lang.String(v.Text())
	}

	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = item.Text()
	}

	return lang.String(strings.Join(parts, sep))
}
