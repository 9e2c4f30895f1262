package model

import "strings"

// Category identifies one of the three screening concept groups.
// A record is included only when all three are present.
type Category string

const (
	CategoryDepression Category = "depression"
	CategoryMobile     Category = "mobile"
	CategoryBehavioral Category = "behavioral"
)

// Categories returns the categories in canonical display order.
// Iteration order matters for highlight tie-breaking, so callers must
// not range over a map instead.
func Categories() []Category {
	return []Category{CategoryDepression, CategoryMobile, CategoryBehavioral}
}

// Verdict is the outcome of one screening stage for one record.
type Verdict string

const (
	VerdictInclude Verdict = "include"
	VerdictExclude Verdict = "exclude"

	// VerdictNotProcessed marks a stage that never ran for this record
	// (e.g. the LLM pass skips records the rules already included).
	// It is distinct from exclude on purpose.
	VerdictNotProcessed Verdict = "not_processed"
)

// Findings holds the matched keyword terms per category for one stage.
// Terms are ordered (keyword-list order for the rule stage) and unique.
type Findings map[Category][]string

// AllPresent reports whether every category has at least one finding.
func (f Findings) AllPresent() bool {
	for _, cat := range Categories() {
		if len(f[cat]) == 0 {
			return false
		}
	}
	return true
}

// Verdict derives the stage verdict from the findings: include iff all
// three categories matched.
func (f Findings) Verdict() Verdict {
	if f.AllPresent() {
		return VerdictInclude
	}
	return VerdictExclude
}

// Joined returns the comma-joined storage form of one category's terms.
func (f Findings) Joined(cat Category) string {
	return strings.Join(f[cat], ", ")
}

// SplitKeywords parses a stored keyword string back into terms.
// Commas, semicolons and pipes all act as separators.
func SplitKeywords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	}) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParseFindings builds Findings from the comma-joined storage form.
func ParseFindings(depression, mobile, behavioral string) Findings {
	return Findings{
		CategoryDepression: SplitKeywords(depression),
		CategoryMobile:     SplitKeywords(mobile),
		CategoryBehavioral: SplitKeywords(behavioral),
	}
}

// ReviewStatus tracks the human review state of a record.
type ReviewStatus string

const (
	StatusNotReviewed ReviewStatus = "not reviewed"
	StatusCompleted   ReviewStatus = "completed"
	StatusInclude     ReviewStatus = "include"
	StatusExclude     ReviewStatus = "exclude"
)

// Reviewed reports whether the record has been through human review.
func (s ReviewStatus) Reviewed() bool {
	return s == StatusCompleted || s == StatusInclude || s == StatusExclude
}

// LLMResult is the outcome of the LLM second pass for one record.
type LLMResult struct {
	Keywords   Findings
	Verdict    Verdict
	Highlights map[Category]string // evidence sentences quoted by the model
	Reason     string
}

// HumanReview is the reviewer's annotation layer. It never feeds back
// into Final; reconciliation with the pipeline verdict is downstream
// reporting's job.
type HumanReview struct {
	Keywords map[Category]string // sorted, comma-joined selections
	Verdict  Verdict             // "" until reviewed
	Reviewer string
	Status   ReviewStatus
	Date     string // "2006-01-02 15:04:05", empty until reviewed
}

// Record is one screened literature entry across all three stages.
type Record struct {
	DOI      string
	Title    string
	Authors  string
	Journal  string
	Year     string
	Abstract string

	RuleKeywords Findings
	RuleVerdict  Verdict

	LLM LLMResult

	Final Verdict

	Human HumanReview
}

// Missing reports whether the record carries no screenable text at all.
// Such rows are auto-excluded without invoking the matcher.
func (r *Record) Missing() bool {
	return r.Title == "" && r.Abstract == ""
}

// Rescued reports whether the LLM pass flipped a rule exclusion.
func (r *Record) Rescued() bool {
	return r.RuleVerdict == VerdictExclude && r.Final == VerdictInclude
}

// NewHumanReview returns the pristine (unreviewed) human layer.
func NewHumanReview() HumanReview {
	return HumanReview{
		Keywords: map[Category]string{},
		Status:   StatusNotReviewed,
	}
}
