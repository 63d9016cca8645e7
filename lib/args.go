package lib

import (
	"github.com/ardnew/atx/lang"
)

// numeric coerces an argument of fn to an Integer or Float value.
func numeric(fn string, v lang.Value) (lang.Value, error) {
	n, ok := lang.Numeric(v)
	if !ok {
		return lang.Null(), lang.NewTypeError(fn, v)
	}

	return n, nil
}

// float coerces an argument of fn to a float64.
func float(fn string, v lang.Value) (float64, error) {
	n, err := numeric(fn, v)
	if err != nil {
		return 0, err
	}

	f, _ := n.AsFloat()

	return f, nil
}

// integer coerces an argument of fn to a whole number.
func integer(fn string, v lang.Value) (int64, error) {
	i, ok := lang.Integral(v)
	if !ok {
		return 0, lang.NewTypeError(fn, v)
	}

	return i, nil
}

// flatten expands sequence arguments one level.
func flatten(args []lang.Value) []lang.Value {
	out := make([]lang.Value, 0, len(args))

	for _, a := range args {
		if items, ok := a.Items(); ok {
			out = append(out, items...)
		} else {
			out = append(out, a)
		}
	}

	return out
}
