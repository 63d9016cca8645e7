package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrParse             = NewError("parse error")
	ErrUnknownFunction   = NewError("unknown function")
	ErrArityMismatch     = NewError("argument count mismatch")
	ErrType              = NewError("type error")
	ErrUnboundVariable   = NewError("unbound variable")
	ErrMaxDepthExceeded  = NewError("maximum nesting depth exceeded")
	ErrDivisionByZero    = NewError("division by zero")
	ErrDuplicateFunction = NewError("duplicate function")
	ErrInvalidFunction   = NewError("invalid function")
	ErrFunctionFailed    = NewError("function call failed")
	ErrReadInput         = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel this error was derived from.
// Errors created by Wrap or With share the message of their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.msg != "" && t.msg == e.msg && t.err == nil
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports the position at which the grammar could not match
// its input and the alternatives that were attempted there.
type ParseError struct {
	Source   string   // The original source input
	Offset   int      // Byte offset of the failure
	Line     int      // 1-based line of the failure
	Column   int      // 1-based column (in runes) of the failure
	Expected []string // Labels of alternatives attempted at Offset, in order
	Cause    error    // Optional underlying cause (e.g. ErrMaxDepthExceeded)
}

func newParseError(source string, offset int, expected []string) *ParseError {
	line, col := lineColumn(source, offset)

	return &ParseError{
		Source:   source,
		Offset:   offset,
		Line:     line,
		Column:   col,
		Expected: expected,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Column))

	if e.Cause != nil {
		buf.WriteString(": ")
		buf.WriteString(e.Cause.Error())
	}

	buf.WriteString(":\n")
	buf.WriteString(e.Snippet())

	if len(e.Expected) > 0 {
		buf.WriteString("\texpected: ")
		buf.WriteString(strings.Join(e.quoted(), ", "))
	}

	return buf.String()
}

// Snippet returns the offending source line followed by a caret marking the
// failure column.
func (e *ParseError) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Line <= 0 || e.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	// Print the line with line number
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Line))
	src.WriteString(" | ")
	src.WriteString(lines[e.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Line))+5)
	if e.Column > 0 {
		padding += strings.Repeat(" ", e.Column-1)
	}

	src.WriteString(padding + "^\n")

	return src.String()
}

func (e *ParseError) quoted() []string {
	exp := make([]string, 0, len(e.Expected))
	for _, s := range e.Expected {
		exp = append(exp, strconv.Quote(s))
	}

	return exp
}

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Unwrap returns the underlying cause, if any.
func (e *ParseError) Unwrap() error { return e.Cause }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("error", ErrParse.msg),
		slog.Int("offset", e.Offset),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
		slog.Any("expected", e.Expected),
	}

	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.Error()))
	}

	return slog.GroupValue(attrs...)
}

// UnknownFunctionError reports a call to a name absent from the registry.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return ErrUnknownFunction.msg + ": " + e.Name
}

// Is matches ErrUnknownFunction.
func (e *UnknownFunctionError) Is(target error) bool {
	return target == ErrUnknownFunction
}

// LogValue implements slog.LogValuer.
func (e *UnknownFunctionError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnknownFunction.msg),
		slog.String("function", e.Name),
	)
}

// ArityMismatchError reports a fixed-arity call whose argument count matched
// none of the declared variants.
type ArityMismatchError struct {
	Name     string
	Provided int
	Declared []int
}

func (e *ArityMismatchError) Error() string {
	declared := make([]string, 0, len(e.Declared))
	for _, n := range e.Declared {
		declared = append(declared, strconv.Itoa(n))
	}

	return ErrArityMismatch.msg + ": " + e.Name + " called with " +
		strconv.Itoa(e.Provided) + " argument(s), accepts " +
		strings.Join(declared, " or ")
}

// Is matches ErrArityMismatch.
func (e *ArityMismatchError) Is(target error) bool {
	return target == ErrArityMismatch
}

// LogValue implements slog.LogValuer.
func (e *ArityMismatchError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrArityMismatch.msg),
		slog.String("function", e.Name),
		slog.Int("provided", e.Provided),
		slog.Any("declared", e.Declared),
	)
}

// TypeError reports an operator or accessor applied to an operand of an
// incompatible kind.
type TypeError struct {
	Operation string
	Operand   string
}

func (e *TypeError) Error() string {
	return ErrType.msg + ": cannot apply " + e.Operation + " to " + e.Operand
}

// Is matches ErrType.
func (e *TypeError) Is(target error) bool { return target == ErrType }

// LogValue implements slog.LogValuer.
func (e *TypeError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrType.msg),
		slog.String("operation", e.Operation),
		slog.String("operand", e.Operand),
	)
}

// NewTypeError reports that op cannot be applied to the given operands.
func NewTypeError(op string, operands ...Value) *TypeError {
	desc := make([]string, 0, len(operands))
	for _, v := range operands {
		desc = append(desc, describe(v))
	}

	return &TypeError{Operation: op, Operand: strings.Join(desc, " and ")}
}

// UnboundVariableError reports an identifier absent from the evaluation
// context when strict variable resolution is enabled.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return ErrUnboundVariable.msg + ": " + e.Name
}

// Is matches ErrUnboundVariable.
func (e *UnboundVariableError) Is(target error) bool {
	return target == ErrUnboundVariable
}

// LogValue implements slog.LogValuer.
func (e *UnboundVariableError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", ErrUnboundVariable.msg),
		slog.String("name", e.Name),
	)
}

// lineColumn converts a byte offset into a 1-based line and rune column.
func lineColumn(source string, offset int) (line, col int) {
	if offset > len(source) {
		offset = len(source)
	}

	line, col = 1, 1

	for _, r := range source[:offset] {
		if r == '\n' {
			line++
			col = 1

			continue
		}

		col++
	}

	return line, col
}

// SegmentError reports a template expression that failed to evaluate.
type SegmentError struct {
	Source string // Expression text including the leading '@'
	Offset int    // Byte offset of the expression in the template
	Err    error
}

func (e *SegmentError) Error() string {
	return e.Source + " (offset " + strconv.Itoa(e.Offset) + "): " + e.Err.Error()
}

// Unwrap returns the evaluation error.
func (e *SegmentError) Unwrap() error { return e.Err }

// LogValue implements slog.LogValuer.
func (e *SegmentError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("source", e.Source),
		slog.Int("offset", e.Offset),
		slog.Any("error", e.Err),
	)
}
