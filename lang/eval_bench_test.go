package lang

import "testing"

func BenchmarkParseTemplate(b *testing.B) {
	const src = "Dear @contact.name, your total is @(round(price * qty * 1.08, 2)). " +
		"Groups: @join(contact.groups, \", \") @@ @now()"

	for b.Loop() {
		ParseTemplate(src)
	}
}

func BenchmarkParseTemplateCached(b *testing.B) {
	const src = "Dear @contact.name, your total is @(price * qty)."

	ClearCache()

	for b.Loop() {
		ParseTemplateCached(src)
	}
}

func BenchmarkEvaluate(b *testing.B) {
	n, err := ParseExpression("(1 + 2) * 3 - 8 / 4 / 2 + 1 & contact.groups[1]")
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		_, _ = Evaluate(b.Context(), n, testVars, nil)
	}
}
