package match

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind distinguishes the two rule variants a category may own.
type Kind int

const (
	// KindLiteral matches a phrase verbatim: single tokens only at
	// word boundaries, multi-token phrases as a substring. Always
	// case-insensitive.
	KindLiteral Kind = iota

	// KindWildcard matches a template like "behavio* therap*": each
	// "*" expands to zero-or-more word characters and inter-token
	// whitespace expands to one-or-more whitespace characters, the
	// whole pattern bounded by word boundaries.
	KindWildcard
)

// Rule is one keyword rule in a category's list.
type Rule struct {
	Kind Kind
	Text string // the literal phrase or the wildcard template
}

// LiteralRule builds a literal phrase rule.
func LiteralRule(phrase string) Rule {
	return Rule{Kind: KindLiteral, Text: phrase}
}

// WildcardRule builds a wildcard template rule.
func WildcardRule(template string) Rule {
	return Rule{Kind: KindWildcard, Text: template}
}

// compiledRule is a Rule compiled once for repeated matching.
type compiledRule struct {
	rule    Rule
	lowered string         // lowered literal phrase, empty for wildcards
	re      *regexp.Regexp // nil for multi-token literals
}

// WildcardPattern compiles a wildcard template into a case-insensitive
// regular expression. The highlight renderer reuses this so highlighted
// spans are exactly the spans the matcher found.
func WildcardPattern(template string) (*regexp.Regexp, error) {
	tokens := strings.Fields(template)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("empty wildcard template")
	}
	escaped := make([]string, len(tokens))
	for i, tok := range tokens {
		escaped[i] = strings.ReplaceAll(regexp.QuoteMeta(tok), `\*`, `\w*`)
	}
	return regexp.Compile(`(?i)\b` + strings.Join(escaped, `\s+`) + `\b`)
}

// LiteralPattern compiles a literal keyword the way the matcher applies
// it: single tokens get word boundaries when boundary is true, anything
// else is a plain substring pattern. Case-insensitive.
func LiteralPattern(phrase string, boundary bool) (*regexp.Regexp, error) {
	if boundary && len(strings.Fields(phrase)) == 1 {
		return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	}
	return regexp.Compile(`(?i)` + regexp.QuoteMeta(phrase))
}

func compileRule(r Rule) (compiledRule, error) {
	switch r.Kind {
	case KindLiteral:
		c := compiledRule{rule: r, lowered: strings.ToLower(r.Text)}
		if len(strings.Fields(r.Text)) == 1 {
			re, err := LiteralPattern(r.Text, true)
			if err != nil {
				return compiledRule{}, fmt.Errorf("compile keyword %q: %w", r.Text, err)
			}
			c.re = re
		}
		return c, nil
	case KindWildcard:
		re, err := WildcardPattern(r.Text)
		if err != nil {
			return compiledRule{}, fmt.Errorf("compile template %q: %w", r.Text, err)
		}
		return compiledRule{rule: r, re: re}, nil
	default:
		return compiledRule{}, fmt.Errorf("unknown rule kind %d", r.Kind)
	}
}
