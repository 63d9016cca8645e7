package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/atx/lang"
)

// Render expands every '@' expression in a template.
type Render struct {
	Vars `embed:""`

	Template string `arg:"" default:"-" help:"Template file or '-' for stdin" optional:""`
	Inline   bool   `help:"Treat TEMPLATE as template text instead of a path" short:"e"`
	Output   string `help:"Write output to FILE instead of stdout"            short:"o" placeholder:"FILE" type:"path"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	s, err := r.session(ctx)
	if err != nil {
		return err
	}

	tmpl, err := r.parse(ctx, s.opts)
	if err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "parsed template",
		slog.Int("segments", len(tmpl.Segments())),
		slog.Int("expressions", len(tmpl.Expressions())),
	)

	out, errs := tmpl.Render(ctx, s.vars, s.reg, s.opts...)

	if err := r.write(ctx, out); err != nil {
		return err
	}

	for _, e := range errs {
		s.logger.WarnContext(ctx, "expression failed", slog.Any("error", e))
	}

	if len(errs) > 0 {
		return ErrRender.Wrap(errors.Join(errs...)).
			With(slog.Int("failed", len(errs)))
	}

	return nil
}

func (r *Render) parse(ctx context.Context, opts []lang.Option) (lang.Template, error) {
	if r.Inline {
		return lang.ParseTemplateCached(r.Template, opts...), nil
	}

	src, closeSrc, err := openSource(r.Template)
	if err != nil {
		return lang.Template{}, err
	}
	defer closeSrc()

	return lang.ParseTemplateReader(ctx, src, opts...)
}

func (r *Render) write(ctx context.Context, text string) (err error) {
	if r.Output == "" || r.Output == stdinSource {
		_, err = io.WriteString(stdout(ctx), text)

		return err
	}

	f, err := os.Create(r.Output)
	if err != nil {
		return ErrRender.Wrap(err).With(slog.String("output", r.Output))
	}

	defer closeOutput(f, r.Output, &err)

	_, err = io.WriteString(f, text)

	return err
}

// closeOutput closes the file written by -o, reporting a failed close through
// err unless an earlier error is already set.
func closeOutput(c io.Closer, path string, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = ErrRender.Wrap(cerr).With(slog.String("output", path))
	}
}
