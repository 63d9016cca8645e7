package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/atx/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with hyphens, so both of
// the following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Underscores may be used in place of hyphens. Command-line flags override
// config file values. A file that cannot be parsed is logged and ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			log.WarnContext(ctx, "ignoring invalid configuration",
				slog.String("error", yaml.FormatError(err, false, true)),
			)

			return config{}, nil
		}

		cfg := config{}
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for flattened YAML configs.
type config map[string]any

// flatten stores every leaf of m under its hyphen-joined key path.
func (r config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		name := strings.ToLower(strings.ReplaceAll(key, "_", "-"))
		if prefix != "" {
			name = prefix + "-" + name
		}

		if sub, ok := val.(map[string]any); ok {
			r.flatten(name, sub)

			continue
		}

		r[name] = scalar(val)
	}
}

// scalar converts numbers to strings, which kong requires for parsing.
func scalar(val any) any {
	switch v := val.(type) {
	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case int:
		return strconv.Itoa(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = scalar(e)
		}

		return out

	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := r[flag.Name]; ok {
		return value, nil
	}

	// Not found: let Kong use defaults.
	return nil, nil //nolint:nilnil
}
