package cmd

import (
	"context"

	"github.com/ardnew/atx/lang"
)

// AST prints the syntax tree of an expression or template.
type AST struct {
	Source   string `arg:"" help:"Expression (or template text with --template)"`
	Template bool   `help:"Scan SOURCE as a template instead of a single expression" short:"t"`
	Format   string `default:"tree" enum:"tree,json,yaml"                             help:"Output format (${enum})" short:"f"`
	Indent   int    `default:"2"    help:"Indent width for json and yaml output"`
	MaxDepth int    `default:"64"   help:"Maximum expression nesting depth"           placeholder:"N"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := []lang.Option{lang.WithMaxDepth(a.MaxDepth)}
	w := stdout(ctx)

	if a.Template {
		tmpl := lang.ParseTemplate(a.Source, opts...)

		switch a.Format {
		case "json":
			return lang.FormatJSON(ctx, w, lang.TemplateMap(tmpl), a.Indent)

		case "yaml":
			return lang.FormatYAML(ctx, w, lang.TemplateMap(tmpl), a.Indent)

		default:
			return lang.WriteTemplate(w, tmpl)
		}
	}

	node, err := lang.ParseExpression(a.Source, opts...)
	if err != nil {
		return err
	}

	switch a.Format {
	case "json":
		return lang.FormatJSON(ctx, w, lang.ASTMap(node), a.Indent)

	case "yaml":
		return lang.FormatYAML(ctx, w, lang.ASTMap(node), a.Indent)

	default:
		return lang.WriteAST(w, node)
	}
}
