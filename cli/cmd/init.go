package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/atx/log"
	"github.com/ardnew/atx/pkg"
	"github.com/ardnew/atx/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		panic("internal error: kong context undefined")
	}

	confPath := kongVar(ctx, ConfigIdentifier)
	if confPath == "" {
		panic("internal error: config path undefined")
	}

	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(ErrFileExists)
	}

	if err := os.MkdirAll(filepath.Dir(confPath), pkg.DirMode); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	data, err := yaml.MarshalContext(ctx, i.settings(ktx),
		yaml.Indent(defaultConfigIndent))
	if err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.With(slog.String("file", confPath)).Wrap(err)
	}

	log.DebugContext(ctx, "initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// settings collects the current value of every global flag.
func (i *Init) settings(ktx *kong.Context) yaml.MapSlice {
	var out yaml.MapSlice

	prefixIgnore := []string{"help", "version", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := configValue(ktx.FlagValue(flag)); val != nil {
			out = append(out, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return out
}

// configValue converts a flag value to a YAML-encodable form, or nil if
// the flag is unset.
func configValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case fmt.Stringer:
		return v.String()

	default:
		return fmt.Sprint(v)
	}
}
