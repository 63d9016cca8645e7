package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/atx/lang"
	"github.com/ardnew/atx/lib"
	"github.com/ardnew/atx/log"
)

// Vars are the flags shared by every command that evaluates expressions.
type Vars struct {
	Context  []string `help:"YAML or JSON file of variables (repeatable)"         placeholder:"FILE"       short:"c" type:"existingfile"`
	Var      []string `help:"Bind a variable; the value is parsed as YAML"        placeholder:"NAME=VALUE" short:"V"`
	Strict   bool     `help:"Fail on unbound variables instead of yielding null"`
	MaxDepth int      `default:"64"                                                help:"Maximum expression nesting depth" placeholder:"N"`
	Location string   `default:"Local"                                             help:"Time zone used by date functions" placeholder:"ZONE"`
}

// load decodes each context file in order, then applies every --var
// assignment. Later bindings replace earlier ones.
func (v *Vars) load(ctx context.Context) (lang.Context, error) {
	vars := lang.NewContext(nil)

	paths, err := uniquePaths(v.Context)
	if err != nil {
		return vars, ErrLoadContext.Wrap(err)
	}

	for _, path := range paths {
		m, err := decodeFile(ctx, path)
		if err != nil {
			return vars, ErrLoadContext.Wrap(err).With(slog.String("path", path))
		}

		vars = vars.Merge(lang.NewContext(m))
	}

	for _, assign := range v.Var {
		name, value, err := parseAssignment(assign)
		if err != nil {
			return vars, err
		}

		vars = vars.With(name, value)
	}

	return vars, nil
}

func decodeFile(ctx context.Context, path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var m map[string]any

	err = yaml.NewDecoder(f).DecodeContext(ctx, &m)
	if errors.Is(err, io.EOF) {
		return nil, nil
	}

	return m, err
}

// parseAssignment splits NAME=VALUE. The value is decoded as a YAML scalar or
// collection; text that is not valid YAML binds as a string.
func parseAssignment(s string) (string, lang.Value, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)

	if !ok || name == "" {
		return "", lang.Null(), ErrInvalidVariable.With(slog.String("assignment", s))
	}

	if strings.TrimSpace(value) == "" {
		return name, lang.String(value), nil
	}

	var x any
	if err := yaml.Unmarshal([]byte(value), &x); err != nil {
		return name, lang.String(value), nil //nolint:nilerr
	}

	return name, lang.FromNative(x), nil
}

// options translates the flags into evaluation options.
func (v *Vars) options(logger log.Logger) ([]lang.Option, error) {
	loc, err := time.LoadLocation(v.Location)
	if err != nil {
		return nil, ErrInvalidLocation.Wrap(err).With(slog.String("location", v.Location))
	}

	opts := []lang.Option{
		lang.WithLogger(logger),
		lang.WithStrictVariables(v.Strict),
		lang.WithLocation(loc),
	}

	if v.MaxDepth > 0 {
		opts = append(opts, lang.WithMaxDepth(v.MaxDepth))
	}

	return opts, nil
}

// session bundles what a command needs to evaluate expressions.
type session struct {
	vars   lang.Context
	reg    *lang.Registry
	opts   []lang.Option
	logger log.Logger
}

func (v *Vars) session(ctx context.Context) (session, error) {
	logger := log.Default()

	opts, err := v.options(logger)
	if err != nil {
		return session{}, err
	}

	vars, err := v.load(ctx)
	if err != nil {
		return session{}, err
	}

	reg, err := lib.Registry()
	if err != nil {
		return session{}, err
	}

	logger.DebugContext(ctx, "loaded variables",
		slog.Int("count", vars.Len()),
		slog.Int("functions", reg.Len()),
	)

	return session{vars: vars, reg: reg, opts: opts, logger: logger}, nil
}
