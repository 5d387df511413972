package search

import "strings"

type termKind int

const (
	termExact termKind = iota
	termInclude
	termPrefix
	termInversePrefix
	termInverseSuffix
	termSuffix
	termInverseExact
	termFuzzy
)

type term struct {
	kind    termKind
	pattern string
	fuzzy   *fuzzyMatcher
}

// operator syntax, checked in order; the first that yields a non-empty pattern wins
var termSyntax = []struct {
	kind   termKind
	prefix string
	suffix string
}{
	{termExact, "=", ""},
	{termInclude, "'", ""},
	{termPrefix, "^", ""},
	{termInversePrefix, "!^", ""},
	{termInverseSuffix, "!", "$"},
	{termSuffix, "", "$"},
	{termInverseExact, "!", ""},
	{termFuzzy, "", ""},
}

// query is a disjunction of conjunctions: "a b | c" is (a AND b) OR c.
type query [][]term

func parseQuery(q string, opts bitapOptions) query {
	var out query
	for _, group := range strings.Split(q, "|") {
		var terms []term
		for _, item := range splitTerms(strings.TrimSpace(group)) {
			t := parseTerm(item)
			if t.kind == termFuzzy {
				t.fuzzy = newFuzzyMatcher(t.pattern, opts)
			}
			terms = append(terms, t)
		}
		if len(terms) > 0 {
			out = append(out, terms)
		}
	}
	return out
}

func parseTerm(item string) term {
	// quoted forms first, e.g. ="foo bar" or !"x"$
	for _, s := range termSyntax {
		if p, ok := unwrap(item, s.prefix+`"`, `"`+s.suffix); ok && p != "" {
			return term{kind: s.kind, pattern: p}
		}
	}
	for _, s := range termSyntax {
		if p, ok := unwrap(item, s.prefix, s.suffix); ok && p != "" {
			return term{kind: s.kind, pattern: p}
		}
	}
	return term{kind: termFuzzy, pattern: item}
}

func unwrap(s, prefix, suffix string) (string, bool) {
	if len(s) < len(prefix)+len(suffix) || !strings.HasPrefix(s, prefix) || !strings.HasSuffix(s, suffix) {
		return "", false
	}
	return s[len(prefix) : len(s)-len(suffix)], true
}

// splitTerms splits on runs of spaces that are not inside double quotes.
func splitTerms(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
	)
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			out = append(out, cur.String())
		}
		cur.Reset()
	}
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case r == ' ' && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

func (t term) match(text string) (float64, bool) {
	var ok bool
	switch t.kind {
	case termExact:
		ok = text == t.pattern
	case termInclude:
		ok = strings.Contains(text, t.pattern)
	case termPrefix:
		ok = strings.HasPrefix(text, t.pattern)
	case termInversePrefix:
		ok = !strings.HasPrefix(text, t.pattern)
	case termInverseSuffix:
		ok = !strings.HasSuffix(text, t.pattern)
	case termSuffix:
		ok = strings.HasSuffix(text, t.pattern)
	case termInverseExact:
		ok = !strings.Contains(text, t.pattern)
	case termFuzzy:
		return t.fuzzy.match(text)
	}
	if ok {
		return 0, true
	}
	return 1, false
}

// match returns the mean term score of the first OR group whose terms all
// match text.
func (q query) match(text string) (float64, bool) {
	for _, group := range q {
		var total float64
		matched := true
		for _, t := range group {
			score, ok := t.match(text)
			if !ok {
				matched = false
				break
			}
			total += score
		}
		if matched {
			return total / float64(len(group)), true
		}
	}
	return 1, false
}

// plainTerms returns the term patterns with operators stripped, skipping
// inverse terms. Used for highlighting.
func (q query) plainTerms() []string {
	var out []string
	for _, group := range q {
		for _, t := range group {
			switch t.kind {
			case termInversePrefix, termInverseSuffix, termInverseExact:
				continue
			}
			out = append(out, t.pattern)
		}
	}
	return out
}
