package lang

import (
	"log/slog"
	"strconv"
)

// Grammar (PEG, alternatives tried in order):
//
//	expression → tier₀
//	tierₙ      → tierₙ₊₁ (ws opₙ ws tierₙ₊₁)*      folded left to right
//	             comparison, concatenation, additive, multiplicative, power
//	term       → float | integer | string | chain | group
//	chain      → (call | atom) ('.' atom arguments? | '[' ws expression ws ']')*
//	call       → atom arguments
//	arguments  → '(' ws (expression (ws ',' ws expression)*)? ws ')'
//	group      → '(' ws expression ws ')'
//	atom       → [a-z0-9] [a-z0-9_-]*                 lower-cased
//
// A chain suffix '.name(args)' is a call of name with the chain so far as its
// first argument.

var (
	digits   = span(isDigit, isDigit)
	atomName = span(isAtomStart, isAtomContinue)

	floatTerm   = label[Node]("a float", parseFloat)
	integerTerm = label[Node]("an integer", parseInteger)
	stringTerm  = label[Node]("a quoted string", parseQuoted)
)

// ParseExpression parses text as a bare expression (no '@' markers). The
// whole input must be consumed.
func ParseExpression(text string, opts ...Option) (Node, error) {
	o := makeOptions(opts...)

	c := newCursor(text, o.maxDepth)

	n, next, ok := expression(skipSpace(c))
	if ok {
		next = skipSpace(next)
		if next.eof() {
			o.logger.Trace("parse expression",
				slog.Int("source_length", len(text)),
				nodeAttr("ast", n),
			)

			return n, nil
		}

		next.expect("an operator")
	}

	pe := failure(c)
	o.logger.Trace("parse expression failed", slog.Any("error", pe))

	return nil, pe
}

// failure builds a ParseError from the farthest failure recorded on c's
// input.
func failure(c cursor) *ParseError {
	in := c.in

	pos := in.failPos
	if pos < 0 {
		pos = c.pos
	}

	pe := newParseError(in.src, pos, append([]string(nil), in.expected...))
	if in.tooDeep {
		pe.Cause = ErrMaxDepthExceeded.With(slog.Int("max_depth", in.maxDepth))
	}

	return pe
}

func expression(c cursor) (Node, cursor, bool) {
	n, next, ok := binary(c, 0)
	if !ok {
		c.expect("an expression")
	}

	return n, next, ok
}

// binary parses one precedence tier: a unit from the tier above followed by
// any number of (operator, unit) pairs, folded left-associatively.
func binary(c cursor, level int) (Node, cursor, bool) {
	unit := func(c cursor) (Node, cursor, bool) {
		if level+1 < len(tiers) {
			return binary(c, level+1)
		}

		return term(c)
	}

	first, next, ok := unit(c)
	if !ok {
		return nil, c, false
	}

	operands := []Node{first}

	var ops []Operator

	for {
		op, afterOp, ok := operator(skipSpace(next), level)
		if !ok {
			break
		}

		operand, after, ok := unit(skipSpace(afterOp))
		if !ok {
			break
		}

		ops = append(ops, op)
		operands = append(operands, operand)
		next = after
	}

	return fold(operands, ops), next, true
}

// operators holds one ordered-choice recognizer per precedence tier.
var operators = func() []parser[string] {
	ps := make([]parser[string], len(tiers))

	for i, tier := range tiers {
		alts := make([]parser[string], len(tier))
		for j, op := range tier {
			alts[j] = literal(string(op))
		}

		ps[i] = label("an operator", choice(alts...))
	}

	return ps
}()

func operator(c cursor, level int) (Operator, cursor, bool) {
	s, next, ok := operators[level](c)

	return Operator(s), next, ok
}

func term(c cursor) (Node, cursor, bool) {
	if n, next, ok := shorthand(c); ok {
		return n, next, true
	}

	if n, next, ok := group(c); ok {
		return n, next, true
	}

	c.expect("an atom")

	return nil, c, false
}

// shorthand parses the terms permitted directly after '@' in a template:
// every term except a parenthesized group.
func shorthand(c cursor) (Node, cursor, bool) {
	if n, next, ok := floatTerm(c); ok {
		return n, next, true
	}

	if n, next, ok := integerTerm(c); ok {
		return n, next, true
	}

	if n, next, ok := stringTerm(c); ok {
		return n, next, true
	}

	if n, next, ok := chain(c); ok {
		return n, next, true
	}

	c.expect("an attribute")
	c.expect("a property")
	c.expect("a function")

	return nil, c, false
}

func parseFloat(c cursor) (Node, cursor, bool) {
	whole, next, ok := digits(c)
	if !ok || next.peek() != '.' {
		return nil, c, false
	}

	// The fraction is kept as raw text so leading zeros survive: "1.05".
	frac, next, ok := digits(next.advance(1))
	if !ok {
		return nil, c, false
	}

	f, err := strconv.ParseFloat(whole+"."+frac, 64)
	if err != nil {
		return nil, c, false
	}

	return Literal{Value: Float(f)}, next, true
}

func parseInteger(c cursor) (Node, cursor, bool) {
	text, next, ok := digits(c)
	if !ok {
		return nil, c, false
	}

	i, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return nil, c, false
		}

		return Literal{Value: Float(f)}, next, true
	}

	return Literal{Value: Int(i)}, next, true
}

// parseQuoted reads a double-quoted string. The only escape is \" which
// yields a literal quote; every other byte is copied through unchanged.
func parseQuoted(c cursor) (Node, cursor, bool) {
	if c.peek() != '"' {
		return nil, c, false
	}

	src := c.in.src
	buf := make([]byte, 0, 16)

	for i := c.pos + 1; i < len(src); i++ {
		switch {
		case src[i] == '\\' && i+1 < len(src) && src[i+1] == '"':
			buf = append(buf, '"')
			i++

		case src[i] == '"':
			return Literal{Value: String(string(buf))}, c.advance(i + 1 - c.pos), true

		default:
			buf = append(buf, src[i])
		}
	}

	c.advance(len(src) - c.pos).expect(`"\""`)

	return nil, c, false
}

// chain parses a call or atom followed by any number of property, method
// and index suffixes, folding them left to right.
func chain(c cursor) (Node, cursor, bool) {
	name, next, ok := atomName(c)
	if !ok {
		return nil, c, false
	}

	name = toLower(name)

	var base Node = Identifier{Name: name}

	// An argument list that does not parse leaves the atom alone and stops
	// the chain before '('.
	if next.peek() == '(' {
		if args, after, ok := arguments(next); ok {
			base, next = Call{Name: name, Args: args}, after
		}
	}

	for {
		var (
			n     Node
			after cursor
			ok    bool
		)

		switch next.peek() {
		case '.':
			n, after, ok = propertySuffix(base, next)

		case '[':
			n, after, ok = indexSuffix(base, next)
		}

		if !ok {
			return base, next, true
		}

		base, next = n, after
	}
}

func propertySuffix(base Node, c cursor) (Node, cursor, bool) {
	name, next, ok := atomName(c.advance(1))
	if !ok {
		c.expect("a property")

		return nil, c, false
	}

	name = toLower(name)

	if next.peek() == '(' {
		if args, after, ok := arguments(next); ok {
			return Call{Name: name, Args: append([]Node{base}, args...)}, after, true
		}
	}

	return PropertyAccess{Base: base, Name: name}, next, true
}

func indexSuffix(base Node, c cursor) (Node, cursor, bool) {
	inner, ok := c.advance(1).nest()
	if !ok {
		return nil, c, false
	}

	n, next, ok := expression(skipSpace(inner))
	if !ok {
		c.expect("an attribute")

		return nil, c, false
	}

	next = skipSpace(next)
	if next.peek() != ']' {
		next.expect(`"]"`)

		return nil, c, false
	}

	return IndexAccess{Base: base, Index: n}, c.moveTo(next.advance(1)), true
}

func arguments(c cursor) ([]Node, cursor, bool) {
	inner, ok := c.advance(1).nest()
	if !ok {
		return nil, c, false
	}

	inner = skipSpace(inner)
	args := []Node{}

	if inner.peek() == ')' {
		return args, c.moveTo(inner.advance(1)), true
	}

	for {
		arg, next, ok := expression(inner)
		if !ok {
			return nil, c, false
		}

		args = append(args, arg)
		next = skipSpace(next)

		switch next.peek() {
		case ',':
			inner = skipSpace(next.advance(1))

		case ')':
			return args, c.moveTo(next.advance(1)), true

		default:
			next.expect(`","`)
			next.expect(`")"`)

			return nil, c, false
		}
	}
}

func group(c cursor) (Node, cursor, bool) {
	if c.peek() != '(' {
		c.expect("a group")

		return nil, c, false
	}

	inner, ok := c.advance(1).nest()
	if !ok {
		return nil, c, false
	}

	n, next, ok := expression(skipSpace(inner))
	if !ok {
		c.expect("a group")

		return nil, c, false
	}

	next = skipSpace(next)
	if next.peek() != ')' {
		next.expect(`")"`)

		return nil, c, false
	}

	return n, c.moveTo(next.advance(1)), true
}

// moveTo returns c advanced to the position of o, keeping c's depth.
func (c cursor) moveTo(o cursor) cursor {
	c.pos = o.pos

	return c
}
