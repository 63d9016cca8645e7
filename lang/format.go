package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// FormatJSON writes v as JSON. A positive indent pretty-prints.
func FormatJSON(_ context.Context, w io.Writer, v any, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes v as YAML. A positive indent selects block style,
// otherwise flow style is used.
func FormatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}

// TemplateMap converts t to nested maps suitable for JSON or YAML encoding.
func TemplateMap(t Template) []map[string]any {
	out := make([]map[string]any, 0, len(t.segments))

	for _, s := range t.segments {
		switch x := s.(type) {
		case Text:
			out = append(out, map[string]any{"type": "Text", "value": x.Value})

		case Expression:
			out = append(out, map[string]any{
				"type":   "Expression",
				"source": x.Source,
				"offset": x.Offset,
				"ast":    ASTMap(x.Node),
			})
		}
	}

	return out
}

// WriteTemplate writes an indented tree representation of t to w.
func WriteTemplate(w io.Writer, t Template) error {
	put := writer(w)

	for _, s := range t.segments {
		switch x := s.(type) {
		case Text:
			if err := put("\n", "Text", fmt.Sprintf("%q", x.Value)); err != nil {
				return err
			}

		case Expression:
			if err := put("\n", "Expression", x.Source); err != nil {
				return err
			}

			if err := writeNode(w, x.Node, 1); err != nil {
				return err
			}
		}
	}

	return nil
}
