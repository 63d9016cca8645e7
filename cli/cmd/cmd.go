package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/atx/lang"
)

// Sentinel errors.
var (
	ErrLoadContext     = lang.NewError("load context")
	ErrInvalidVariable = lang.NewError("invalid variable assignment")
	ErrInvalidLocation = lang.NewError("invalid time zone")
	ErrRender          = lang.NewError("render template")
	ErrWriteConfig     = lang.NewError("write configuration file")
	ErrFileExists      = lang.NewError("file exists (use --force to overwrite)")
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdout returns the output writer configured on the kong application, or
// os.Stdout.
func stdout(ctx context.Context) io.Writer {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}

// kongVar returns the kong variable named key, or "".
func kongVar(ctx context.Context, key string) string {
	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Model != nil {
		return ktx.Model.Vars()[key]
	}

	return ""
}

// stdinSource names standard input where a file path is expected.
const stdinSource = "-"

// openSource opens path for reading, or returns stdin for "-". The returned
// close function is always safe to call.
func openSource(path string) (io.Reader, func() error, error) {
	if path == stdinSource || path == "" {
		return os.Stdin, func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, lang.ErrReadInput.Wrap(err)
	}

	return f, f.Close, nil
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// uniquePaths resolves paths through symlinks and drops those naming a file
// already listed, keeping the first occurrence of each.
func uniquePaths(paths []string) ([]string, error) {
	seen := make(map[fileKey]struct{}, len(paths))
	out := make([]string, 0, len(paths))

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err)
		}

		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err)
		}

		info, err := os.Stat(resolved)
		if err != nil {
			return nil, lang.ErrReadInput.Wrap(err)
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, resolved)
	}

	return out, nil
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
