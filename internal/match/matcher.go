// Package match implements the rule-based keyword matcher that defines
// the ground truth for the screening pipeline. Matching is
// case-insensitive throughout; results are reproducible and
// position-accurate so the highlight renderer and the review interface
// can reuse them verbatim.
package match

import (
	"regexp"
	"strings"
)

var sentenceDelims = regexp.MustCompile(`[.!?]+`)

// Matcher applies a fixed, precompiled rule list to texts.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles a rule list into a matcher. The rule order is the
// output order for matched terms.
func NewMatcher(rules []Rule) (*Matcher, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		c, err := compileRule(r)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, c)
	}
	return &Matcher{rules: compiled}, nil
}

// MustMatcher is NewMatcher for the built-in rule lists, which are
// known to compile.
func MustMatcher(rules []Rule) *Matcher {
	m, err := NewMatcher(rules)
	if err != nil {
		panic(err)
	}
	return m
}

// FindKeywords scans text and returns the matched terms in rule order,
// unique by lowercased term, plus one representative sentence per term
// (the first sentence containing an occurrence). Empty text yields two
// empty lists, never an error. Wildcard rules contribute every distinct
// matched substring, recorded with the casing found in the source text.
func (m *Matcher) FindKeywords(text string) (matched []string, sentences []string) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	lower := strings.ToLower(text)
	sents := splitSentences(text)
	seen := make(map[string]bool)

	// contains decides whether a sentence holds an occurrence; boundary
	// matches must use the boundary pattern so "app" is not exemplified
	// by a sentence that only contains "apply".
	record := func(term string, contains func(sentence string) bool) {
		key := strings.ToLower(term)
		if seen[key] {
			return
		}
		seen[key] = true
		matched = append(matched, term)
		if s, ok := firstSentence(sents, contains); ok {
			sentences = append(sentences, s)
		}
	}

	for _, c := range m.rules {
		switch c.rule.Kind {
		case KindLiteral:
			if c.re != nil {
				// single token: word-boundary match
				if c.re.MatchString(text) {
					record(c.rule.Text, c.re.MatchString)
				}
			} else if strings.Contains(lower, c.lowered) {
				phrase := c.lowered
				record(c.rule.Text, func(s string) bool {
					return strings.Contains(strings.ToLower(s), phrase)
				})
			}
		case KindWildcard:
			for _, hit := range c.re.FindAllString(text, -1) {
				needle := strings.ToLower(hit)
				record(hit, func(s string) bool {
					return strings.Contains(strings.ToLower(s), needle)
				})
			}
		}
	}
	return matched, sentences
}

// Matches reports whether any rule matches the text.
func (m *Matcher) Matches(text string) bool {
	terms, _ := m.FindKeywords(text)
	return len(terms) > 0
}

// splitSentences splits on runs of '.', '!' and '?'. The split exists
// only to pick a representative example sentence per term; match
// correctness never depends on it.
func splitSentences(text string) []string {
	parts := sentenceDelims.Split(text, -1)
	sents := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sents = append(sents, s)
		}
	}
	return sents
}

// firstSentence returns the first sentence satisfying the predicate. A
// text with no sentence delimiters still yields its whole trimmed body
// as one sentence; a term that appears in no sentence (e.g. a match
// split across delimiters) omits its example rather than failing.
func firstSentence(sentences []string, contains func(string) bool) (string, bool) {
	for _, s := range sentences {
		if contains(s) {
			return s, true
		}
	}
	return "", false
}
