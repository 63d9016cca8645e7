package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/atx/lang"
	"github.com/ardnew/atx/lib"
)

// Funcs lists the builtin functions.
type Funcs struct {
	Filter   string `arg:"" help:"Fuzzy filter applied to function names" optional:""`
	Examples bool   `help:"Show usage examples"                             short:"x"`
}

// Run executes the funcs command.
func (f *Funcs) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	reg, err := lib.Registry()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout(ctx), 0, 4, 2, ' ', 0)

	for _, fn := range f.match(reg) {
		fmt.Fprintf(tw, "%s\t%s\n", fn.Signature(), fn.Doc())

		if f.Examples {
			for _, ex := range fn.Examples() {
				fmt.Fprintf(tw, "  @(%s)\t→ %s\n", ex.Expression, ex.Result)
			}
		}
	}

	return tw.Flush()
}

// match returns the functions whose names match the filter, best match
// first. Without a filter every function is returned in name order.
func (f *Funcs) match(reg *lang.Registry) []lang.Function {
	fns := reg.Functions()
	if f.Filter == "" {
		return fns
	}

	names := make([]string, len(fns))
	for i, fn := range fns {
		names[i] = fn.Name()
	}

	matches := fuzzy.Find(f.Filter, names)
	out := make([]lang.Function, len(matches))

	for i, m := range matches {
		out[i] = fns[m.Index]
	}

	return out
}
