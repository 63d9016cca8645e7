package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/atx/lang"
)

// Eval evaluates a single expression and prints its value.
type Eval struct {
	Vars `embed:""`

	Expression string `arg:"" help:"Expression to evaluate, without a leading '@'"`
	Format     string `default:"text" enum:"text,json,yaml" help:"Output format (${enum})"  short:"f"`
	Indent     int    `default:"2"                          help:"Indent width for json and yaml output"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := e.session(ctx)
	if err != nil {
		return err
	}

	node, err := lang.ParseExpression(e.Expression, s.opts...)
	if err != nil {
		return err
	}

	val, err := lang.Evaluate(ctx, node, s.vars, s.reg, s.opts...)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "evaluated expression",
		slog.String("expression", node.String()),
		slog.String("kind", val.Kind().String()),
	)

	return writeValue(ctx, e.Format, e.Indent, val)
}

func writeValue(ctx context.Context, format string, indent int, val lang.Value) error {
	w := stdout(ctx)

	switch format {
	case "json":
		return lang.FormatJSON(ctx, w, val, indent)

	case "yaml":
		return lang.FormatYAML(ctx, w, val.Native(), indent)

	default:
		_, err := fmt.Fprintln(w, val.Text())

		return err
	}
}
