package lib

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/mung"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ardnew/atx/lang"
)

func text() []lang.Function {
	return []lang.Function{
		lang.Direct("upper", lang.Arity1(upper)).WithDoc(
			"Converts text to upper case.",
			lang.Example{Expression: `upper("straße")`, Result: "STRASSE"},
		),
		lang.Direct("lower", lang.Arity1(lower)).WithDoc(
			"Converts text to lower case.",
			lang.Example{Expression: `lower("HeLLo")`, Result: "hello"},
		),
		lang.Direct("len", lang.Arity1(length)).WithDoc(
			"Returns the number of characters of text, or the number of items of a sequence or mapping.",
			lang.Example{Expression: `len("héllo")`, Result: "5"},
			lang.Example{Expression: `len(12.5)`, Result: "4"},
		),
		lang.Vargs("concat", concat).WithDoc(
			"Concatenates the text of every argument.",
			lang.Example{Expression: `concat("a", 1, true)`, Result: "a1true"},
		),
		lang.Vargs("prefix_list", prefixList).WithDoc(
			"Prepends items to a delimited list, dropping duplicates. "+
				"The first argument is the list and the second the delimiter.",
			lang.Example{
				Expression: `prefix_list("/usr/bin:/bin", ":", "/opt/bin")`,
				Result:     "/opt/bin:/usr/bin:/bin",
			},
			lang.Example{
				Expression: `prefix_list("/bin", ":", "/opt/bin", "/usr/bin")`,
				Result:     "/opt/bin:/usr/bin:/bin",
			},
		),
	}
}

func upper(_ lang.Env, v lang.Value) (lang.Value, error) {
	return lang.String(cases.Upper(language.Und).String(v.Text())), nil
}

func lower(_ lang.Env, v lang.Value) (lang.Value, error) {
	return lang.String(cases.Lower(language.Und).String(v.Text())), nil
}

func length(_ lang.Env, v lang.Value) (lang.Value, error) {
	switch v.Kind() {
	case lang.KindNull:
		return lang.Int(0), nil

	case lang.KindString, lang.KindSequence, lang.KindMapping:
		return lang.Int(int64(v.Len())), nil

	default:
		return lang.Int(int64(utf8.RuneCountInString(v.Text()))), nil
	}
}

func concat(_ lang.Env, args []lang.Value) (lang.Value, error) {
	var sb strings.Builder

	for _, a := range args {
		sb.WriteString(a.Text())
	}

	return lang.String(sb.String()), nil
}

func prefixList(_ lang.Env, args []lang.Value) (lang.Value, error) {
	if len(args) < 2 {
		return lang.Null(), &lang.ArityMismatchError{
			Name:     "prefix_list",
			Provided: len(args),
			Declared: []int{2},
		}
	}

	// mung prepends each prefix item in turn, so the last one given ends up
	// first; reverse to keep the caller's order.
	rest := flatten(args[2:])
	items := make([]string, 0, len(rest))

	for _, a := range slices.Backward(rest) {
		items = append(items, a.Text())
	}

	return lang.String(
		mung.Make(
			mung.WithSubjectItems(args[0].Text()),
			mung.WithDelim(args[1].Text()),
			mung.WithPrefixItems(items...),
		).String(),
	), nil
}
