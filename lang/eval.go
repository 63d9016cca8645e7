package lang

import (
	"context"
	"log/slog"
)

// Evaluate walks node against vars, dispatching calls through reg. Neither
// vars nor reg is modified, so concurrent evaluations may share them.
func Evaluate(
	ctx context.Context,
	node Node,
	vars Context,
	reg *Registry,
	opts ...Option,
) (Value, error) {
	return newEvaluator(ctx, vars, reg, makeOptions(opts...)).run(node)
}

type evaluator struct {
	ctx   context.Context
	reg   *Registry
	env   Env
	opts  options
	limit int
}

func newEvaluator(
	ctx context.Context,
	vars Context,
	reg *Registry,
	o options,
) *evaluator {
	if ctx == nil {
		ctx = context.Background()
	}

	// Each level of syntactic nesting contributes at most one evaluation
	// level per precedence tier plus one for its enclosing chain or call.
	limit := 0
	if o.maxDepth > 0 {
		limit = (o.maxDepth + 1) * (len(tiers) + 1)
	}

	return &evaluator{
		ctx:  ctx,
		reg:  reg,
		opts: o,
		env: Env{
			Context:  ctx,
			Vars:     vars,
			Logger:   o.logger,
			Location: o.location,
			Now:      o.now,
		},
		limit: limit,
	}
}

func (e *evaluator) run(node Node) (Value, error) {
	v, err := e.eval(node, 0)
	if err != nil {
		e.opts.logger.TraceContext(e.ctx, "evaluate failed",
			nodeAttr("expression", node),
			slog.Any("error", err),
		)

		return v, err
	}

	e.opts.logger.TraceContext(e.ctx, "evaluate",
		nodeAttr("expression", node),
		slog.String("kind", v.Kind().String()),
	)

	return v, nil
}

func (e *evaluator) eval(n Node, depth int) (Value, error) {
	if e.limit > 0 && depth > e.limit {
		return Null(), ErrMaxDepthExceeded.With(
			slog.Int("max_depth", e.opts.maxDepth),
		)
	}

	switch x := n.(type) {
	case Literal:
		return x.Value, nil

	case Identifier:
		return e.identifier(x.Name)

	case PropertyAccess, IndexAccess:
		return e.chain(n, depth)

	case Call:
		return e.call(x, depth)

	case BinaryOp:
		return e.binary(x, depth)

	default:
		return Null(), ErrType.With(slog.String("issue", "invalid syntax node"))
	}
}

func (e *evaluator) identifier(name string) (Value, error) {
	if v, ok := e.env.Vars.Lookup(name); ok {
		return v, nil
	}

	if e.opts.strict {
		return Null(), &UnboundVariableError{Name: name}
	}

	return Null(), nil
}

// chain evaluates a run of property and index suffixes iteratively, so long
// chains do not consume nesting depth.
func (e *evaluator) chain(n Node, depth int) (Value, error) {
	var suffixes []Node

	base := n

	for unwound := false; !unwound; {
		switch x := base.(type) {
		case PropertyAccess:
			suffixes = append(suffixes, x)
			base = x.Base

		case IndexAccess:
			suffixes = append(suffixes, x)
			base = x.Base

		default:
			unwound = true
		}
	}

	v, err := e.eval(base, depth+1)
	if err != nil {
		return Null(), err
	}

	for i := len(suffixes) - 1; i >= 0; i-- {
		switch x := suffixes[i].(type) {
		case PropertyAccess:
			v, err = property(v, x.Name)

		case IndexAccess:
			var idx Value

			idx, err = e.eval(x.Index, depth+1)
			if err == nil {
				v, err = index(v, idx)
			}
		}

		if err != nil {
			return Null(), err
		}
	}

	return v, nil
}

func (e *evaluator) call(x Call, depth int) (Value, error) {
	args := make([]Value, len(x.Args))

	for i, a := range x.Args {
		v, err := e.eval(a, depth+1)
		if err != nil {
			return Null(), err
		}

		args[i] = v
	}

	f, ok := e.reg.Lookup(x.Name)
	if !ok {
		return Null(), &UnknownFunctionError{Name: x.Name}
	}

	h, err := f.resolve(len(args))
	if err != nil {
		return Null(), err
	}

	if err := e.ctx.Err(); err != nil {
		return Null(), err
	}

	v, err := h(e.env, args)
	if err != nil {
		return Null(), ErrFunctionFailed.Wrap(err).With(
			slog.String("function", f.Name()),
			slog.Int("args", len(args)),
		)
	}

	return v, nil
}

// binary evaluates the left-leaning spine of same-tree operators
// iteratively: left operand first, then each right operand in order.
func (e *evaluator) binary(x BinaryOp, depth int) (Value, error) {
	spine := []BinaryOp{x}

	left := x.Left
	for {
		b, ok := left.(BinaryOp)
		if !ok {
			break
		}

		spine = append(spine, b)
		left = b.Left
	}

	acc, err := e.eval(left, depth+1)
	if err != nil {
		return Null(), err
	}

	for i := len(spine) - 1; i >= 0; i-- {
		right, err := e.eval(spine[i].Right, depth+1)
		if err != nil {
			return Null(), err
		}

		acc, err = Apply(spine[i].Operator, acc, right)
		if err != nil {
			return Null(), err
		}
	}

	return acc, nil
}
