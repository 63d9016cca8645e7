package lang

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/ardnew/atx/log"
)

// Env is the evaluation environment passed to every function handler.
type Env struct {
	Context  context.Context
	Vars     Context
	Logger   log.Logger
	Location *time.Location
	Now      func() time.Time
}

// Time returns the current time of the environment's clock in its location.
func (e Env) Time() time.Time {
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	if e.Location != nil {
		return now().In(e.Location)
	}

	return now()
}

// Handler receives every evaluated argument of a call as one sequence.
type Handler func(env Env, args []Value) (Value, error)

// Dispatch identifies the calling convention of a registered function.
type Dispatch int

const (
	// DispatchDirect selects a handler by the number of call arguments.
	DispatchDirect Dispatch = iota
	// DispatchVargs passes all arguments to a single handler.
	DispatchVargs
)

// String returns a string representation of the dispatch mode.
func (d Dispatch) String() string {
	switch d {
	case DispatchDirect:
		return "direct"

	case DispatchVargs:
		return "vargs"

	default:
		return "unknown"
	}
}

// Variant is one fixed-arity handler of a Direct function.
type Variant struct {
	arity int
	call  Handler
}

// Arity0 declares a handler taking no arguments.
func Arity0(fn func(env Env) (Value, error)) Variant {
	return Variant{arity: 0, call: func(env Env, _ []Value) (Value, error) {
		return fn(env)
	}}
}

// Arity1 declares a handler taking one argument.
func Arity1(fn func(env Env, a Value) (Value, error)) Variant {
	return Variant{arity: 1, call: func(env Env, args []Value) (Value, error) {
		return fn(env, args[0])
	}}
}

// Arity2 declares a handler taking two arguments.
func Arity2(fn func(env Env, a, b Value) (Value, error)) Variant {
	return Variant{arity: 2, call: func(env Env, args []Value) (Value, error) {
		return fn(env, args[0], args[1])
	}}
}

// Arity3 declares a handler taking three arguments.
func Arity3(fn func(env Env, a, b, c Value) (Value, error)) Variant {
	return Variant{arity: 3, call: func(env Env, args []Value) (Value, error) {
		return fn(env, args[0], args[1], args[2])
	}}
}

// ArityN declares a handler taking exactly n arguments.
func ArityN(n int, fn Handler) Variant {
	return Variant{arity: n, call: fn}
}

// Example is a worked example attached to a function's documentation.
type Example struct {
	Expression string
	Result     string
}

// Function is a named callable registered with a Registry.
type Function struct {
	name     string
	doc      string
	examples []Example
	variants []Variant
	vargs    Handler
	dispatch Dispatch
}

// Direct returns a function dispatched by argument count to one of variants.
func Direct(name string, variants ...Variant) Function {
	return Function{
		name:     strings.ToLower(name),
		dispatch: DispatchDirect,
		variants: slices.Clone(variants),
	}
}

// Vargs returns a function whose handler receives all arguments at once.
func Vargs(name string, fn Handler) Function {
	return Function{
		name:     strings.ToLower(name),
		dispatch: DispatchVargs,
		vargs:    fn,
	}
}

// WithDoc returns a copy of f carrying documentation. The evaluator never
// reads it.
func (f Function) WithDoc(doc string, examples ...Example) Function {
	f.doc = doc
	f.examples = slices.Clone(examples)

	return f
}

// Name returns the canonical lower-cased function name.
func (f Function) Name() string { return f.name }

// Dispatch returns the calling convention of f.
func (f Function) Dispatch() Dispatch { return f.dispatch }

// Doc returns the documentation string of f.
func (f Function) Doc() string { return f.doc }

// Examples returns the worked examples of f.
func (f Function) Examples() []Example { return slices.Clone(f.examples) }

// Arities returns the declared argument counts of a Direct function in
// ascending order, or nil for Vargs.
func (f Function) Arities() []int {
	if f.dispatch != DispatchDirect {
		return nil
	}

	arities := make([]int, len(f.variants))
	for i, v := range f.variants {
		arities[i] = v.arity
	}

	slices.Sort(arities)

	return arities
}

// Signature renders f as name(a, b) | name(a, b, c) or name(...).
func (f Function) Signature() string {
	if f.dispatch == DispatchVargs {
		return f.name + "(...)"
	}

	sigs := make([]string, 0, len(f.variants))

	for _, n := range f.Arities() {
		params := make([]string, n)
		for i := range params {
			params[i] = string(rune('a' + i%26))
		}

		sigs = append(sigs, f.name+"("+strings.Join(params, ", ")+")")
	}

	return strings.Join(sigs, " | ")
}

// Call dispatches args to the handler matching f's calling convention.
func (f Function) Call(env Env, args []Value) (Value, error) {
	h, err := f.resolve(len(args))
	if err != nil {
		return Null(), err
	}

	return h(env, args)
}

// resolve selects the handler for a call with n arguments.
func (f Function) resolve(n int) (Handler, error) {
	if f.dispatch == DispatchVargs {
		return f.vargs, nil
	}

	for _, v := range f.variants {
		if v.arity == n {
			return v.call, nil
		}
	}

	return nil, &ArityMismatchError{
		Name:     f.name,
		Provided: n,
		Declared: f.Arities(),
	}
}

func (f Function) validate() error {
	if f.name == "" {
		return ErrInvalidFunction.With(slog.String("issue", "empty name"))
	}

	switch f.dispatch {
	case DispatchVargs:
		if f.vargs == nil {
			return ErrInvalidFunction.With(
				slog.String("function", f.name),
				slog.String("issue", "nil handler"),
			)
		}

	case DispatchDirect:
		if len(f.variants) == 0 {
			return ErrInvalidFunction.With(
				slog.String("function", f.name),
				slog.String("issue", "no variants"),
			)
		}

		seen := make(map[int]bool, len(f.variants))

		for _, v := range f.variants {
			if v.call == nil || v.arity < 0 || seen[v.arity] {
				return ErrInvalidFunction.With(
					slog.String("function", f.name),
					slog.Int("arity", v.arity),
					slog.String("issue", "invalid or duplicate variant"),
				)
			}

			seen[v.arity] = true
		}

	default:
		return ErrInvalidFunction.With(
			slog.String("function", f.name),
			slog.String("issue", "unknown dispatch"),
		)
	}

	return nil
}

// Registry is an immutable table of functions keyed by lower-cased name.
// A nil *Registry has no functions.
type Registry struct {
	funcs map[string]Function
}

// NewRegistry builds a registry from fns. Names must be unique.
func NewRegistry(fns ...Function) (*Registry, error) {
	return (*Registry)(nil).Extend(fns...)
}

// Extend returns a new registry holding the functions of r plus fns. The
// receiver is not modified.
func (r *Registry) Extend(fns ...Function) (*Registry, error) {
	funcs := make(map[string]Function, r.Len()+len(fns))
	if r != nil {
		maps.Copy(funcs, r.funcs)
	}

	for _, f := range fns {
		if err := f.validate(); err != nil {
			return nil, err
		}

		if _, dup := funcs[f.name]; dup {
			return nil, ErrDuplicateFunction.With(slog.String("function", f.name))
		}

		funcs[f.name] = f
	}

	return &Registry{funcs: funcs}, nil
}

// Lookup returns the function registered as name, ignoring case.
func (r *Registry) Lookup(name string) (Function, bool) {
	if r == nil {
		return Function{}, false
	}

	f, ok := r.funcs[strings.ToLower(name)]

	return f, ok
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}

	return slices.Sorted(maps.Keys(r.funcs))
}

// Functions returns the registered functions sorted by name.
func (r *Registry) Functions() []Function {
	names := r.Names()

	fns := make([]Function, len(names))
	for i, name := range names {
		fns[i] = r.funcs[name]
	}

	return fns
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}

	return len(r.funcs)
}
