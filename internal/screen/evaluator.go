// Package screen combines the three category matchers into a
// per-record rule-stage decision.
package screen

import (
	"github.com/minjpark/litscreen/internal/match"
	"github.com/minjpark/litscreen/internal/model"
)

// Result is the rule-stage outcome for one record.
type Result struct {
	Keywords  model.Findings
	Sentences map[model.Category][]string
	Verdict   model.Verdict
}

// Evaluator screens title/abstract pairs against the three canonical
// category rule lists. It is pure: identical inputs always yield
// identical output.
type Evaluator struct {
	matchers map[model.Category]*match.Matcher
}

// NewEvaluator builds an evaluator over the built-in rule lists.
func NewEvaluator() *Evaluator {
	matchers := make(map[model.Category]*match.Matcher, 3)
	for _, cat := range model.Categories() {
		matchers[cat] = match.MustMatcher(match.RulesFor(cat))
	}
	return &Evaluator{matchers: matchers}
}

// Evaluate screens one record. Title and abstract are concatenated
// with a single space before matching, so a multi-word phrase split
// across the title/abstract boundary matches as if contiguous.
func (e *Evaluator) Evaluate(title, abstract string) Result {
	full := title + " " + abstract

	res := Result{
		Keywords:  model.Findings{},
		Sentences: map[model.Category][]string{},
	}
	for _, cat := range model.Categories() {
		terms, sentences := e.matchers[cat].FindKeywords(full)
		res.Keywords[cat] = terms
		res.Sentences[cat] = sentences
	}
	res.Verdict = res.Keywords.Verdict()
	return res
}
