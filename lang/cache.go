package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// templateCache stores scanned templates keyed by source and option hash.
var templateCache sync.Map

// entry scans its source exactly once, however many callers race on it.
type entry struct {
	once     sync.Once
	template Template
}

// hashOptions encodes the options that influence scanning using gob and
// hashes them with xxh3.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(o.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

func cacheKey(source string, o options) string {
	return strconv.FormatUint(xxh3.HashString(source)^hashOptions(o), 36)
}

// ParseTemplateCached is [ParseTemplate] memoized on the source text and the
// options that affect scanning. Templates are immutable, so the cached value
// is shared between callers.
func ParseTemplateCached(text string, opts ...Option) Template {
	o := makeOptions(opts...)
	key := cacheKey(text, o)

	value, hit := templateCache.LoadOrStore(key, new(entry))

	e, ok := value.(*entry)
	if !ok {
		return ParseTemplate(text, opts...)
	}

	o.logger.Trace("cache lookup",
		slog.String("key", key),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.template = ParseTemplate(text, opts...)
	})

	return e.template
}

// ParseTemplateReader reads the whole of r and scans it with
// [ParseTemplateCached].
func ParseTemplateReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (Template, error) {
	o := makeOptions(opts...)

	// Read ahead asynchronously so the source is fetched while earlier
	// chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return Template{}, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	if err := ctx.Err(); err != nil {
		return Template{}, err
	}

	o.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return ParseTemplateCached(string(data), opts...), nil
}

// ClearCache removes all cached templates.
func ClearCache() {
	templateCache.Clear()
}
