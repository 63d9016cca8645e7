package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/atx/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "funcs", "set", "edit", "clear", "quit"}

// temporalFields are the properties of date and time values.
var temporalFields = []string{
	"year", "month", "day", "weekday", "date",
	"hour", "minute", "second", "time", "unix", "zone",
}

// isWordBoundary reports whether r separates completion words: whitespace,
// the property dot, operators and punctuation.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t',
		'(', ')', '[', ']',
		'+', '-', '*', '/', '^', '&',
		'<', '>', '=', '!',
		',', '"', '@', ':':
		return true
	}

	return false
}

// wordBounds returns the word under the cursor and its byte offsets.
// The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the property chain leading up to the word starting at
// wordStart. For "x + contact.address.ci" with the word "ci" the result is
// "contact.address". Top-level words have an empty parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")

	pos := len(prefix)
	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// childCandidates returns the completions available under parent: variable
// and function names at the top level, otherwise the keys of the mapping or
// the fields of the temporal value the parent resolves to.
func childCandidates(vars lang.Context, reg *lang.Registry, parent string) []string {
	if parent == "" {
		names := append(vars.Names(), reg.Names()...)
		slices.Sort(names)

		return slices.Compact(names)
	}

	segments := strings.Split(strings.ToLower(parent), ".")

	v, ok := vars.Lookup(segments[0])
	for _, seg := range segments[1:] {
		if !ok {
			return nil
		}

		v, ok = v.Get(seg)
	}

	if !ok {
		return nil
	}

	switch v.Kind() {
	case lang.KindMapping:
		return v.Keys()

	case lang.KindDate, lang.KindTime, lang.KindDateTime:
		return temporalFields

	default:
		return nil
	}
}

// computeMatches ranks the candidates for the word under the cursor.
// An empty top-level word yields no matches so the hint line stays visible;
// an empty word after a dot lists every member.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent := parentPath(input, wordStart)
		candidates = childCandidates(m.vars, m.reg, parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar renders the matches on one line, truncated with an
// ellipsis to fit width. The selected candidate is highlighted while
// tab-cycling.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		w := lipgloss.Width(rendered)
		if i > 0 {
			w += lipgloss.Width(sep)
		}

		if i > 0 && i < len(matches)-1 && used+w+reserve > width {
			b.WriteString(sep + ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += w
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// emphasized. Functions get a "()" suffix that is not inserted on completion.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	base := suggestionStyle
	highlight := base.Bold(true)

	if selected {
		base = selectedStyle
		highlight = selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if function {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// preview renders v on one line, truncated to n runes.
func preview(v lang.Value, n int) string {
	s := strings.ReplaceAll(v.String(), "\n", " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	return string([]rune(s)[:n-3]) + "..."
}
