package lang

import (
	"slices"
)

// input is the source shared by every cursor of a single parse. Besides the
// text it records the farthest failure seen so far, which is diagnostic
// bookkeeping only: it never influences which alternative succeeds.
type input struct {
	src      string
	maxDepth int

	failPos  int
	expected []string
	tooDeep  bool
}

// cursor is an immutable position within an input. Parsers receive a cursor
// and return a new one on success; on failure the caller simply retries the
// next alternative from the cursor it already holds.
type cursor struct {
	in    *input
	pos   int
	depth int
}

func newCursor(src string, maxDepth int) cursor {
	return cursor{in: &input{src: src, maxDepth: maxDepth, failPos: -1}}
}

func (c cursor) eof() bool { return c.pos >= len(c.in.src) }

func (c cursor) peek() byte {
	if c.eof() {
		return 0
	}

	return c.in.src[c.pos]
}

func (c cursor) peekAt(n int) byte {
	if c.pos+n >= len(c.in.src) {
		return 0
	}

	return c.in.src[c.pos+n]
}

func (c cursor) advance(n int) cursor {
	c.pos += n
	if c.pos > len(c.in.src) {
		c.pos = len(c.in.src)
	}

	return c
}

func (c cursor) rest() string { return c.in.src[c.pos:] }

// expect records that label was attempted and failed at c.
func (c cursor) expect(label string) {
	in := c.in

	switch {
	case c.pos > in.failPos:
		in.failPos = c.pos
		in.expected = []string{label}

	case c.pos == in.failPos && !slices.Contains(in.expected, label):
		in.expected = append(in.expected, label)
	}
}

// nest returns a cursor one level deeper, or false when the depth limit is
// reached.
func (c cursor) nest() (cursor, bool) {
	if c.in.maxDepth > 0 && c.depth >= c.in.maxDepth {
		c.in.tooDeep = true
		c.expect("a shallower expression")

		return c, false
	}

	c.depth++

	return c, true
}

// parser is a side-effect-free recognizer: on success it returns the parsed
// value and the cursor after it; on failure it returns false and the caller
// keeps its own cursor.
type parser[T any] func(c cursor) (T, cursor, bool)

// label records name as an expected alternative when p fails at c.
func label[T any](name string, p parser[T]) parser[T] {
	return func(c cursor) (T, cursor, bool) {
		v, next, ok := p(c)
		if !ok {
			c.expect(name)
		}

		return v, next, ok
	}
}

// choice tries each alternative in order from the same cursor and returns
// the first that succeeds (ordered choice).
func choice[T any](alts ...parser[T]) parser[T] {
	return func(c cursor) (T, cursor, bool) {
		for _, p := range alts {
			if v, next, ok := p(c); ok {
				return v, next, true
			}
		}

		var zero T

		return zero, c, false
	}
}

// literal matches the exact text s.
func literal(s string) parser[string] {
	return func(c cursor) (string, cursor, bool) {
		if len(c.rest()) >= len(s) && c.rest()[:len(s)] == s {
			return s, c.advance(len(s)), true
		}

		return "", c, false
	}
}

// span matches one byte satisfying first followed by any number of bytes
// satisfying next, returning the matched text.
func span(first, next func(byte) bool) parser[string] {
	return func(c cursor) (string, cursor, bool) {
		if c.eof() || !first(c.peek()) {
			return "", c, false
		}

		end := c.advance(1)
		for !end.eof() && next(end.peek()) {
			end = end.advance(1)
		}

		return c.in.src[c.pos:end.pos], end, true
	}
}

// skipSpace consumes the insignificant whitespace allowed around operators
// and argument separators.
func skipSpace(c cursor) cursor {
	for !c.eof() {
		switch c.peek() {
		case ' ', '\n', '\r':
			c = c.advance(1)

		default:
			return c
		}
	}

	return c
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isAtomStart(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isAtomContinue(b byte) bool {
	return isAtomStart(b) || b == '_' || b == '-'
}

// toLower lower-cases ASCII letters; atoms contain nothing else.
func toLower(s string) string {
	b := []byte(s)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
		}
	}

	return string(b)
}
