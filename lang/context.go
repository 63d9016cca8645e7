package lang

import (
	"maps"
	"slices"
	"strings"
)

// Context is an immutable set of variable bindings consulted by the
// evaluator. Names are matched case-insensitively. The zero Context is empty.
type Context struct {
	vars map[string]Value
}

// keywords resolve when absent from the Context; they never shadow an entry
// the caller supplied.
var keywords = map[string]Value{
	"true":  Bool(true),
	"false": Bool(false),
	"null":  Null(),
}

// NewContext converts native Go values, such as those decoded from YAML or
// JSON, into a Context. Mapping keys are lower-cased at every level.
func NewContext(vars map[string]any) Context {
	m := make(map[string]Value, len(vars))
	for k, v := range vars {
		m[strings.ToLower(k)] = FromNative(v)
	}

	return Context{vars: m}
}

// ContextOf returns a Context holding a copy of vars.
func ContextOf(vars map[string]Value) Context {
	m := make(map[string]Value, len(vars))
	for k, v := range vars {
		m[strings.ToLower(k)] = v
	}

	return Context{vars: m}
}

// Lookup returns the value bound to name. The keywords true, false and null
// are resolved when name is not bound.
func (c Context) Lookup(name string) (Value, bool) {
	name = strings.ToLower(name)

	if v, ok := c.vars[name]; ok {
		return v, true
	}

	v, ok := keywords[name]

	return v, ok
}

// With returns a copy of c with name bound to v.
func (c Context) With(name string, v Value) Context {
	m := maps.Clone(c.vars)
	if m == nil {
		m = make(map[string]Value, 1)
	}

	m[strings.ToLower(name)] = v

	return Context{vars: m}
}

// Merge returns a copy of c overlaid with the bindings of o.
func (c Context) Merge(o Context) Context {
	m := maps.Clone(c.vars)
	if m == nil {
		m = make(map[string]Value, len(o.vars))
	}

	maps.Copy(m, o.vars)

	return Context{vars: m}
}

// Names returns the bound variable names in sorted order.
func (c Context) Names() []string {
	return slices.Sorted(maps.Keys(c.vars))
}

// Len returns the number of bound variables.
func (c Context) Len() int { return len(c.vars) }

// Value returns the bindings as a Mapping value.
func (c Context) Value() Value {
	return Value{kind: KindMapping, m: maps.Clone(c.vars)}
}
