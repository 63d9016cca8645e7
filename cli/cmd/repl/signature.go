package repl

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/atx/lang"
)

var (
	signatureStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	signatureSeparatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	currentParamStyle       = lipgloss.NewStyle().
				Foreground(lipgloss.Color("3")).
				Bold(true)
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor and the
// index of the argument being typed. Commas inside quoted strings and nested
// parentheses are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Forward scan so quoted strings are skipped correctly.
	type frame struct{ open, args int }

	var (
		stack  []frame
		quoted bool
	)

	for i := 0; i < cursor; i++ {
		switch c := input[i]; {
		case quoted && c == '\\':
			i++

		case c == '"':
			quoted = !quoted

		case quoted:

		case c == '(':
			stack = append(stack, frame{open: i})

		case c == ')' && len(stack) > 0:
			stack = stack[:len(stack)-1]

		case c == ',' && len(stack) > 0:
			stack[len(stack)-1].args++
		}
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	start := top.open
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if r != '_' && !isAlnum(r) {
			break
		}

		start -= size
	}

	name := strings.ToLower(input[start:top.open])
	if name == "" {
		return functionCall{}
	}

	// A method-style call name(args) after "x." receives x as its first
	// argument.
	if start > 0 && input[start-1] == '.' {
		top.args++
	}

	return functionCall{name: name, argIndex: top.args, inCall: true}
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// getSignature describes the parameters of a registered function. Direct
// functions list one parameter per position of their widest variant, with
// positions beyond the narrowest variant marked optional.
func getSignature(reg *lang.Registry, name string) (signature string, params []string) {
	fn, ok := reg.Lookup(name)
	if !ok {
		return "", nil
	}

	if fn.Dispatch() == lang.DispatchVargs {
		params = []string{"...args"}
	} else if arities := fn.Arities(); len(arities) > 0 {
		lo, hi := arities[0], slices.Max(arities)

		for i := range hi {
			p := "arg" + strconv.Itoa(i+1)
			if i >= lo {
				p += "?"
			}

			params = append(params, p)
		}
	}

	return fn.Name() + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders signature with the parameter at
// currentArgIdx highlighted.
func renderSignatureHint(signature string, params []string, currentArgIdx int) string {
	open := strings.Index(signature, "(")
	if signature == "" || open < 0 {
		return signatureStyle.Render(signature)
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(signature[:open]))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")

		if (variadic && currentArgIdx >= i) || currentArgIdx == i {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
