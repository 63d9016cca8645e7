// Package lib provides the builtin function library of atx.
//
// Functions are grouped by concern (logic, collections, text, math, dates
// and locale-aware formatting) and registered through the calling
// conventions of package lang. Every function carries a doc string and
// worked examples that the atx funcs command prints.
//
//	reg, err := lib.Registry()
//	if err != nil {
//		return err
//	}
//
//	v, err := lang.Evaluate(ctx, node, vars, reg)
package lib
