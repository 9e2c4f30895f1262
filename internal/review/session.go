// Package review implements the human decision layer: keyword
// selections per record, derived verdicts, and cursor movement through
// the batch. It holds no presentation logic.
package review

import (
	"sort"
	"strings"
	"time"

	"github.com/minjpark/litscreen/internal/match"
	"github.com/minjpark/litscreen/internal/model"
)

const dateFormat = "2006-01-02 15:04:05"

// Session is the mutable state of one reviewer working through a batch.
type Session struct {
	Records  []model.Record
	Cursor   int
	Reviewer string

	// Selections is the in-progress keyword choice for the current
	// record, rebuilt on navigation.
	Selections map[model.Category]map[string]bool

	now func() time.Time
}

// NewSession starts a review over records. The cursor begins at the
// first record and its selections are seeded from prior findings.
func NewSession(records []model.Record, reviewer string) *Session {
	s := &Session{
		Records:  records,
		Reviewer: reviewer,
		now:      time.Now,
	}
	s.loadSelections()
	return s
}

// Current returns the record under the cursor, or nil for an empty
// batch.
func (s *Session) Current() *model.Record {
	if len(s.Records) == 0 {
		return nil
	}
	return &s.Records[s.Cursor]
}

// Options returns the selectable keywords for a category, in display
// order: the fixed rule texts first, then any extra terms the LLM or a
// previous review found for the current record.
func (s *Session) Options(cat model.Category) []string {
	opts := match.Options(cat)
	seen := make(map[string]bool, len(opts))
	for _, o := range opts {
		seen[strings.ToLower(o)] = true
	}
	if rec := s.Current(); rec != nil {
		for _, extra := range [][]string{
			rec.RuleKeywords[cat],
			rec.LLM.Keywords[cat],
			model.SplitKeywords(rec.Human.Keywords[cat]),
		} {
			for _, term := range extra {
				if !seen[strings.ToLower(term)] {
					seen[strings.ToLower(term)] = true
					opts = append(opts, term)
				}
			}
		}
	}
	return opts
}

// Toggle flips one keyword selection for the current record. Keys are
// lower-cased so findings with source casing and the displayed option
// text identify the same selection.
func (s *Session) Toggle(cat model.Category, keyword string) {
	if s.Selections[cat] == nil {
		s.Selections[cat] = map[string]bool{}
	}
	key := strings.ToLower(keyword)
	s.Selections[cat][key] = !s.Selections[cat][key]
}

// Selected reports whether a keyword is currently chosen.
func (s *Session) Selected(cat model.Category, keyword string) bool {
	return s.Selections[cat][strings.ToLower(keyword)]
}

// SelectedKeywords returns the chosen terms for one category, sorted
// for stable storage. Selection keys are lower-cased, so each term is
// mapped back to the casing its option displays with before it is
// committed.
func (s *Session) SelectedKeywords(cat model.Category) []string {
	display := map[string]string{}
	for _, opt := range s.Options(cat) {
		display[strings.ToLower(opt)] = opt
	}
	var out []string
	for kw, on := range s.Selections[cat] {
		if !on {
			continue
		}
		if d, ok := display[kw]; ok {
			kw = d
		}
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// ApplyDecision commits the current selections to the record: each
// category's set becomes a sorted comma-joined string, and the verdict
// is include iff all three sets are non-empty. The cursor stays put.
func (s *Session) ApplyDecision() {
	rec := s.Current()
	if rec == nil {
		return
	}
	verdict := model.VerdictInclude
	keywords := map[model.Category]string{}
	for _, cat := range model.Categories() {
		terms := s.SelectedKeywords(cat)
		if len(terms) == 0 {
			verdict = model.VerdictExclude
		}
		keywords[cat] = strings.Join(terms, ", ")
	}
	rec.Human = model.HumanReview{
		Keywords: keywords,
		Verdict:  verdict,
		Reviewer: s.Reviewer,
		Status:   model.StatusCompleted,
		Date:     s.now().Format(dateFormat),
	}
}

// ForceInclude stamps the canonical keyword for every category, marks
// the record include, and advances to the next record.
func (s *Session) ForceInclude() {
	rec := s.Current()
	if rec == nil {
		return
	}
	keywords := map[model.Category]string{}
	for _, cat := range model.Categories() {
		keywords[cat] = match.CanonicalKeyword(cat)
	}
	rec.Human = model.HumanReview{
		Keywords: keywords,
		Verdict:  model.VerdictInclude,
		Reviewer: s.Reviewer,
		Status:   model.StatusInclude,
		Date:     s.now().Format(dateFormat),
	}
	s.Next()
}

// ForceExclude clears all selections, marks the record exclude, and
// advances to the next record.
func (s *Session) ForceExclude() {
	rec := s.Current()
	if rec == nil {
		return
	}
	rec.Human = model.HumanReview{
		Keywords: map[model.Category]string{},
		Verdict:  model.VerdictExclude,
		Reviewer: s.Reviewer,
		Status:   model.StatusExclude,
		Date:     s.now().Format(dateFormat),
	}
	s.Next()
}

// Reset returns the current record's human layer to the unreviewed
// state. Rule and LLM findings are untouched and the cursor does not
// move.
func (s *Session) Reset() {
	rec := s.Current()
	if rec == nil {
		return
	}
	rec.Human = model.NewHumanReview()
	s.loadSelections()
}

// Next moves the cursor forward, stopping at the last record.
func (s *Session) Next() {
	if s.Cursor < len(s.Records)-1 {
		s.Cursor++
		s.loadSelections()
	}
}

// Prev moves the cursor backward, stopping at the first record.
func (s *Session) Prev() {
	if s.Cursor > 0 {
		s.Cursor--
		s.loadSelections()
	}
}

// Goto jumps to a record index, clamped to the batch bounds.
func (s *Session) Goto(index int) {
	if index < 0 {
		index = 0
	}
	if index >= len(s.Records) {
		index = len(s.Records) - 1
	}
	if index >= 0 {
		s.Cursor = index
		s.loadSelections()
	}
}

// Progress returns how many records have been reviewed and the batch
// size.
func (s *Session) Progress() (reviewed, total int) {
	for i := range s.Records {
		if s.Records[i].Human.Status.Reviewed() {
			reviewed++
		}
	}
	return reviewed, len(s.Records)
}

// loadSelections seeds the current record's selection state: a prior
// human decision wins, otherwise terms the rule or LLM stages found are
// pre-selected.
func (s *Session) loadSelections() {
	s.Selections = map[model.Category]map[string]bool{}
	rec := s.Current()
	if rec == nil {
		return
	}
	for _, cat := range model.Categories() {
		sel := map[string]bool{}
		if rec.Human.Status.Reviewed() {
			for _, term := range model.SplitKeywords(rec.Human.Keywords[cat]) {
				sel[strings.ToLower(term)] = true
			}
		} else {
			for _, term := range rec.RuleKeywords[cat] {
				sel[strings.ToLower(term)] = true
			}
			for _, term := range rec.LLM.Keywords[cat] {
				sel[strings.ToLower(term)] = true
			}
		}
		s.Selections[cat] = sel
	}
}
