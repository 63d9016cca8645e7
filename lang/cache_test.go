package lang

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"testing/iotest"
)

func TestParseTemplateCached_Concurrent(t *testing.T) {
	ClearCache()

	const src = "Hello @name, @(1 + 2)"

	var wg sync.WaitGroup

	results := make([]Template, 16)

	for i := range results {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			results[i] = ParseTemplateCached(src)
		}(i)
	}

	wg.Wait()

	for i, r := range results {
		if r.Source() != src || len(r.Expressions()) != 2 {
			t.Errorf("result %d: expected 2 expressions of %q, got %d of %q",
				i, src, len(r.Expressions()), r.Source())
		}
	}
}

func TestParseTemplateCached_KeyedOnDepth(t *testing.T) {
	ClearCache()

	src := "@" + strings.Repeat("(", 5) + "1" + strings.Repeat(")", 5)

	shallow := ParseTemplateCached(src, WithMaxDepth(2))
	deep := ParseTemplateCached(src)

	if len(shallow.Expressions()) != 0 {
		t.Errorf("expected no expressions at depth 2, got %d", len(shallow.Expressions()))
	}

	if len(deep.Expressions()) != 1 {
		t.Errorf("expected 1 expression at default depth, got %d", len(deep.Expressions()))
	}
}

func TestParseTemplateReader(t *testing.T) {
	tmpl, err := ParseTemplateReader(t.Context(), strings.NewReader("a @b c"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(tmpl.Expressions()) != 1 {
		t.Errorf("expected 1 expression, got %d", len(tmpl.Expressions()))
	}

	_, err = ParseTemplateReader(t.Context(), iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}
