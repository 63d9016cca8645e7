package lang

import (
	"io"
	"strconv"
	"strings"
)

// Node is an expression syntax tree node. Nodes are immutable once built by
// the parser and each child is owned by exactly one parent.
type Node interface {
	// String returns expression source that parses back to an identical tree.
	String() string

	node()
}

// Literal is a constant value.
type Literal struct {
	Value Value
}

// Identifier references a context variable by its lower-cased name.
type Identifier struct {
	Name string
}

// PropertyAccess selects a named field of its base: base.name.
type PropertyAccess struct {
	Base Node
	Name string
}

// IndexAccess selects an element of its base: base[index].
type IndexAccess struct {
	Base  Node
	Index Node
}

// Call invokes a registered function with eagerly evaluated arguments.
type Call struct {
	Name string
	Args []Node
}

// BinaryOp applies an infix operator to two operands.
type BinaryOp struct {
	Operator Operator
	Left     Node
	Right    Node
}

func (Literal) node()        {}
func (Identifier) node()     {}
func (PropertyAccess) node() {}
func (IndexAccess) node()    {}
func (Call) node()           {}
func (BinaryOp) node()       {}

// Operator is an infix operator token.
type Operator string

const (
	OpPower    Operator = "^"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpConcat   Operator = "&"
	OpEqual    Operator = "="
	OpNotEqual Operator = "!="
	OpDiffer   Operator = "<>"
	OpLess     Operator = "<"
	OpLessEq   Operator = "<="
	OpGreater  Operator = ">"
	OpGreatEq  Operator = ">="
)

// tiers lists operator precedence levels from lowest to highest binding.
// Within a tier, operators are ordered so that longer tokens are matched
// before their prefixes.
var tiers = [][]Operator{
	{OpLessEq, OpGreatEq, OpDiffer, OpNotEqual, OpEqual, OpLess, OpGreater},
	{OpConcat},
	{OpAdd, OpSubtract},
	{OpMultiply, OpDivide},
	{OpPower},
}

// Precedence returns the tier of op; higher binds tighter. Unknown operators
// return -1.
func (op Operator) Precedence() int {
	for i, tier := range tiers {
		for _, t := range tier {
			if t == op {
				return i
			}
		}
	}

	return -1
}

func (n Literal) String() string {
	switch n.Value.Kind() {
	case KindString:
		s, _ := n.Value.AsString()

		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`

	case KindFloat:
		s := n.Value.Text()
		if !strings.Contains(s, ".") {
			s += ".0"
		}

		return s

	default:
		return n.Value.String()
	}
}

func (n Identifier) String() string { return n.Name }

func (n PropertyAccess) String() string {
	return chainBase(n.Base) + "." + n.Name
}

func (n IndexAccess) String() string {
	return chainBase(n.Base) + "[" + n.Index.String() + "]"
}

func (n Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}

	return n.Name + "(" + strings.Join(args, ", ") + ")"
}

func (n BinaryOp) String() string {
	prec := n.Operator.Precedence()

	left := n.Left.String()
	if op, ok := n.Left.(BinaryOp); ok && op.Operator.Precedence() < prec {
		left = "(" + left + ")"
	}

	// Equal precedence on the right must be grouped to keep the tree
	// left-leaning when re-parsed.
	right := n.Right.String()
	if op, ok := n.Right.(BinaryOp); ok && op.Operator.Precedence() <= prec {
		right = "(" + right + ")"
	}

	return left + " " + string(n.Operator) + " " + right
}

func chainBase(n Node) string {
	if _, ok := n.(BinaryOp); ok {
		return "(" + n.String() + ")"
	}

	return n.String()
}

// Equivalent reports whether a and b are structurally identical trees.
func Equivalent(a, b Node) bool {
	switch x := a.(type) {
	case Literal:
		y, ok := b.(Literal)

		return ok && x.Value.Kind() == y.Value.Kind() && Equal(x.Value, y.Value)

	case Identifier:
		y, ok := b.(Identifier)

		return ok && x.Name == y.Name

	case PropertyAccess:
		y, ok := b.(PropertyAccess)

		return ok && x.Name == y.Name && Equivalent(x.Base, y.Base)

	case IndexAccess:
		y, ok := b.(IndexAccess)

		return ok && Equivalent(x.Base, y.Base) && Equivalent(x.Index, y.Index)

	case Call:
		y, ok := b.(Call)
		if !ok || x.Name != y.Name || len(x.Args) != len(y.Args) {
			return false
		}

		for i := range x.Args {
			if !Equivalent(x.Args[i], y.Args[i]) {
				return false
			}
		}

		return true

	case BinaryOp:
		y, ok := b.(BinaryOp)

		return ok && x.Operator == y.Operator &&
			Equivalent(x.Left, y.Left) && Equivalent(x.Right, y.Right)

	default:
		return a == nil && b == nil
	}
}

func writer(w io.Writer) func(eol string, item ...string) error {
	return func(eol string, item ...string) error {
		_, err := io.WriteString(w, strings.Join(item, ": ")+eol)

		return err
	}
}

// WriteAST writes an indented tree representation of n to w.
func WriteAST(w io.Writer, n Node) error {
	return writeNode(w, n, 0)
}

func writeNode(w io.Writer, n Node, indent int) error {
	prefix := strings.Repeat("  ", indent)
	put := writer(w)

	switch x := n.(type) {
	case Literal:
		return put("\n", prefix+"Literal", x.Value.Kind().String(), x.String())

	case Identifier:
		return put("\n", prefix+"Identifier", x.Name)

	case PropertyAccess:
		if err := put("\n", prefix+"PropertyAccess", x.Name); err != nil {
			return err
		}

		return writeNode(w, x.Base, indent+1)

	case IndexAccess:
		if err := put("\n", prefix+"IndexAccess"); err != nil {
			return err
		}

		if err := writeNode(w, x.Base, indent+1); err != nil {
			return err
		}

		return writeNode(w, x.Index, indent+1)

	case Call:
		if err := put("\n", prefix+"Call", x.Name, strconv.Itoa(len(x.Args))); err != nil {
			return err
		}

		for _, a := range x.Args {
			if err := writeNode(w, a, indent+1); err != nil {
				return err
			}
		}

		return nil

	case BinaryOp:
		if err := put("\n", prefix+"BinaryOp", string(x.Operator)); err != nil {
			return err
		}

		if err := writeNode(w, x.Left, indent+1); err != nil {
			return err
		}

		return writeNode(w, x.Right, indent+1)

	default:
		return put("\n", prefix+"(nil)")
	}
}

// ASTMap converts n to nested maps suitable for JSON or YAML encoding.
func ASTMap(n Node) map[string]any {
	switch x := n.(type) {
	case Literal:
		return map[string]any{
			"type":  "Literal",
			"kind":  x.Value.Kind().String(),
			"value": x.Value.Native(),
		}

	case Identifier:
		return map[string]any{"type": "Identifier", "name": x.Name}

	case PropertyAccess:
		return map[string]any{
			"type": "PropertyAccess",
			"base": ASTMap(x.Base),
			"name": x.Name,
		}

	case IndexAccess:
		return map[string]any{
			"type":  "IndexAccess",
			"base":  ASTMap(x.Base),
			"index": ASTMap(x.Index),
		}

	case Call:
		args := make([]any, len(x.Args))
		for i, a := range x.Args {
			args[i] = ASTMap(a)
		}

		return map[string]any{"type": "Call", "name": x.Name, "args": args}

	case BinaryOp:
		return map[string]any{
			"type":     "BinaryOp",
			"operator": string(x.Operator),
			"left":     ASTMap(x.Left),
			"right":    ASTMap(x.Right),
		}

	default:
		return nil
	}
}
