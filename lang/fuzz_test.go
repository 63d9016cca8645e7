package lang

import (
	"testing"
	"unicode/utf8"
)

// FuzzParseTemplate checks that scanning never panics and that rendering a
// scanned template back to source is stable.
func FuzzParseTemplate(f *testing.F) {
	f.Add("Hello @name!")
	f.Add("@@foo")
	f.Add("@(1 + 2 * 3)")
	f.Add(`@("say \"hi\"")`)
	f.Add("@contact.groups[0].name")
	f.Add("@f(1, g(2))")
	f.Add("a @ b @( c")
	f.Add("@1.05@2")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		src := ParseTemplate(input).String()

		if again := ParseTemplate(src).String(); again != src {
			t.Errorf("unstable source: %q became %q", src, again)
		}
	})
}

// FuzzParseExpression checks that every accepted expression re-parses from
// its canonical form to an equivalent tree.
func FuzzParseExpression(f *testing.F) {
	f.Add("1 + 2 * 3")
	f.Add("a - (b - c)")
	f.Add(`join(x, ", ")`)
	f.Add("x.y[0].z(1)")

	f.Fuzz(func(t *testing.T, input string) {
		n, err := ParseExpression(input)
		if err != nil {
			return
		}

		m, err := ParseExpression(n.String())
		if err != nil {
			t.Fatalf("reparse of %q failed: %v", n.String(), err)
		}

		if !Equivalent(n, m) {
			t.Errorf("expected %s, got %s", n, m)
		}
	})
}
