// Package highlight annotates record text with non-overlapping,
// category-tagged keyword spans for the review interface.
//
// Overlaps across categories and keywords are resolved by walking
// candidate spans in descending start-offset order and greedily keeping
// a span only if it does not overlap an already-kept one. Ties at the
// same start offset therefore resolve by category/keyword iteration
// order, not by match length. This reproduces the behavior existing
// reviewed output was produced with; see DESIGN.md.
package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/minjpark/litscreen/internal/match"
	"github.com/minjpark/litscreen/internal/model"
)

// Span is one matched substring in text coordinates. Half-open:
// [Start, End), End > Start.
type Span struct {
	Start    int
	End      int
	Text     string
	Category model.Category
}

// Overlaps reports whether two spans share any index range.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && s.End > o.Start
}

// MarkFunc wraps a matched substring in a category-tagged marker.
type MarkFunc func(cat model.Category, matched string) string

// Renderer computes and applies highlight spans.
type Renderer struct {
	// precise makes single-word literal keywords match only at word
	// boundaries; when false they match as plain substrings.
	precise bool
}

// NewRenderer creates a renderer. precise is the caller's word-boundary
// mode for single-word keywords.
func NewRenderer(precise bool) *Renderer {
	return &Renderer{precise: precise}
}

// Spans returns the kept, mutually non-overlapping spans for the given
// category keyword selections, in descending start order. Keywords
// containing '*' expand as wildcard templates exactly as the rule
// matcher expands them.
func (r *Renderer) Spans(text string, selections map[model.Category][]string) []Span {
	if text == "" {
		return nil
	}

	var candidates []Span
	for _, cat := range model.Categories() {
		for _, keyword := range selections[cat] {
			re, err := r.pattern(keyword)
			if err != nil {
				continue
			}
			for _, loc := range re.FindAllStringIndex(text, -1) {
				candidates = append(candidates, Span{
					Start:    loc[0],
					End:      loc[1],
					Text:     text[loc[0]:loc[1]],
					Category: cat,
				})
			}
		}
	}

	// Descending start; stable so equal starts keep iteration order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start > candidates[j].Start
	})

	var kept []Span
	for _, c := range candidates {
		overlap := false
		for _, k := range kept {
			if c.Overlaps(k) {
				overlap = true
				break
			}
		}
		if !overlap {
			kept = append(kept, c)
		}
	}
	return kept
}

// Render returns text with every kept span wrapped by mark. Spans are
// applied from highest start offset to lowest so earlier replacements
// never invalidate pending offsets; all non-matched text survives
// verbatim, including whitespace and line breaks.
func (r *Renderer) Render(text string, selections map[model.Category][]string, mark MarkFunc) string {
	kept := r.Spans(text, selections)
	out := text
	for _, s := range kept {
		out = out[:s.Start] + mark(s.Category, s.Text) + out[s.End:]
	}
	return out
}

func (r *Renderer) pattern(keyword string) (*regexp.Regexp, error) {
	if strings.Contains(keyword, "*") {
		return match.WildcardPattern(keyword)
	}
	return match.LiteralPattern(keyword, r.precise)
}
