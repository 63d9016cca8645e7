package lang

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// Segment is one piece of a scanned template: [Text] or [Expression].
type Segment interface {
	segment()
}

// Text is literal template output. Escaped "@@" has already been collapsed.
type Text struct {
	Value string
}

// Expression is an '@' expression together with the source text it was
// scanned from, including the leading '@'.
type Expression struct {
	Node   Node
	Source string
	Offset int
}

func (Text) segment()       {}
func (Expression) segment() {}

// Template is an immutable sequence of segments in source order.
type Template struct {
	source   string
	segments []Segment
}

// ParseTemplate scans text into segments. It never fails: any '@' that does
// not introduce an escape or a well-formed expression is kept as literal
// text.
func ParseTemplate(text string, opts ...Option) Template {
	o := makeOptions(opts...)

	t := Template{source: text, segments: scan(text, o.maxDepth)}

	o.logger.Trace("parse template",
		slog.Int("source_length", len(text)),
		slog.Int("segments", len(t.segments)),
	)

	return t
}

func scan(text string, maxDepth int) []Segment {
	var (
		segs []Segment
		buf  strings.Builder
	)

	flush := func() {
		if buf.Len() > 0 {
			segs = append(segs, Text{Value: buf.String()})
			buf.Reset()
		}
	}

	for i := 0; i < len(text); {
		j := strings.IndexByte(text[i:], '@')
		if j < 0 {
			buf.WriteString(text[i:])

			break
		}

		buf.WriteString(text[i : i+j])
		i += j

		if i+1 < len(text) && text[i+1] == '@' {
			buf.WriteByte('@')

			i += 2

			continue
		}

		if n, end, ok := scanExpression(text, i+1, maxDepth); ok {
			flush()

			segs = append(segs, Expression{Node: n, Source: text[i:end], Offset: i})
			i = end

			continue
		}

		buf.WriteByte('@')

		i++
	}

	flush()

	return segs
}

// scanExpression parses the block or shorthand expression starting at pos,
// returning the end offset of the consumed text.
func scanExpression(text string, pos, maxDepth int) (Node, int, bool) {
	c := newCursor(text, maxDepth).advance(pos)

	if c.peek() == '(' {
		if n, next, ok := group(c); ok {
			return n, next.pos, true
		}

		return nil, pos, false
	}

	if n, next, ok := shorthand(c); ok {
		return n, next.pos, true
	}

	return nil, pos, false
}

// Source returns the text the template was scanned from.
func (t Template) Source() string { return t.source }

// Segments returns a copy of the template's segments in source order.
func (t Template) Segments() []Segment { return slices.Clone(t.segments) }

// Expressions returns the expression segments in source order.
func (t Template) Expressions() []Expression {
	var exprs []Expression

	for _, s := range t.segments {
		if e, ok := s.(Expression); ok {
			exprs = append(exprs, e)
		}
	}

	return exprs
}

// String returns template source equivalent to t: literal '@' characters are
// escaped and expressions keep their original text.
func (t Template) String() string {
	var buf strings.Builder

	for _, s := range t.segments {
		switch x := s.(type) {
		case Text:
			buf.WriteString(strings.ReplaceAll(x.Value, "@", "@@"))

		case Expression:
			buf.WriteString(x.Source)
		}
	}

	return buf.String()
}

// Render evaluates every expression segment and concatenates the output.
// Segments are isolated: an expression that fails to evaluate is rendered as
// its original source and its error is collected, while the remaining
// segments still render.
func (t Template) Render(
	ctx context.Context,
	vars Context,
	reg *Registry,
	opts ...Option,
) (string, []error) {
	o := makeOptions(opts...)
	e := newEvaluator(ctx, vars, reg, o)

	var (
		buf  strings.Builder
		errs []error
	)

	for _, s := range t.segments {
		switch x := s.(type) {
		case Text:
			buf.WriteString(x.Value)

		case Expression:
			v, err := e.run(x.Node)
			if err != nil {
				errs = append(errs, &SegmentError{
					Source: x.Source,
					Offset: x.Offset,
					Err:    err,
				})

				buf.WriteString(x.Source)

				continue
			}

			buf.WriteString(v.Text())
		}
	}

	o.logger.TraceContext(e.ctx, "render template",
		slog.Int("segments", len(t.segments)),
		slog.Int("errors", len(errs)),
	)

	return buf.String(), errs
}
