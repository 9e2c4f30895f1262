// Package store reads and writes the tabular record files each
// pipeline stage consumes and produces.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/minjpark/litscreen/internal/model"
)

// Input columns.
const (
	colDOI      = "DOI"
	colTitle    = "Title"
	colAuthors  = "Authors"
	colJournal  = "Journal/Book"
	colYear     = "Publication Year"
	colAbstract = "Abstract"
)

// Rule-stage output columns (rule-only schema).
const (
	colDepressionKeywords = "depression_keywords"
	colMobileKeywords     = "mobile_keywords"
	colBehavioralKeywords = "behavioral_keywords"
	colResult             = "result"
)

// Hybrid (rule+LLM) output columns.
const (
	colRuleDepression = "rule_depression_keywords"
	colRuleMobile     = "rule_mobile_keywords"
	colRuleBehavioral = "rule_behavioral_keywords"
	colRuleResult     = "rule_result"

	colLLMDepression = "llm_depression_keywords"
	colLLMMobile     = "llm_mobile_keywords"
	colLLMBehavioral = "llm_behavioral_keywords"
	colLLMResult     = "llm_result"

	colLLMDepressionHighlight = "llm_depression_highlight"
	colLLMMobileHighlight     = "llm_mobile_highlight"
	colLLMBehavioralHighlight = "llm_behavioral_highlight"
	colLLMReason              = "llm_reason"

	colFinalResult = "final_result"
)

// Human review columns.
const (
	colHumanDepression = "human_depression_keywords"
	colHumanMobile     = "human_mobile_keywords"
	colHumanBehavioral = "human_behavioral_keywords"
	colHumanResult     = "human_result"
	colReviewerName    = "reviewer_name"
	colReviewStatus    = "review_status"
	colReviewDate      = "review_date"
)

var inputColumns = []string{colDOI, colTitle, colAuthors, colJournal, colYear, colAbstract}

// Output fields longer than this are truncated, keeping the tabular
// format manageable in spreadsheet tools.
const (
	truncateAbove = 10000
	truncateTo    = 5000
	truncMarker   = " ...[TRUNCATED]"
)

// row is one parsed CSV row with header-name access.
type row struct {
	index map[string]int
	cells []string
}

func (r row) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r row) has(col string) bool {
	_, ok := r.index[col]
	return ok
}

func readAll(path string) (map[string]int, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%s: empty file", path)
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	return index, rows[1:], nil
}

func requireColumns(path string, index map[string]int, cols ...string) error {
	var missing []string
	for _, col := range cols {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s: missing required columns: %s", path, strings.Join(missing, ", "))
	}
	return nil
}

func baseRecord(r row) model.Record {
	return model.Record{
		DOI:      r.get(colDOI),
		Title:    r.get(colTitle),
		Authors:  r.get(colAuthors),
		Journal:  r.get(colJournal),
		Year:     r.get(colYear),
		Abstract: r.get(colAbstract),
		Human:    model.NewHumanReview(),
	}
}

// ReadInput loads a raw export. Title and Abstract are mandatory
// columns; the remaining metadata columns may be absent and default to
// empty.
func ReadInput(path string) ([]model.Record, error) {
	index, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(path, index, colTitle, colAbstract); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(rows))
	for _, cells := range rows {
		records = append(records, baseRecord(row{index: index, cells: cells}))
	}
	return records, nil
}

// WriteRuleResults writes the rule-only schema: input columns plus the
// per-category findings and the rule verdict.
func WriteRuleResults(path string, records []model.Record) error {
	header := append(append([]string{}, inputColumns...),
		colDepressionKeywords, colMobileKeywords, colBehavioralKeywords, colResult)

	rows := make([][]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		rows = append(rows, sanitizeRow([]string{
			rec.DOI, rec.Title, rec.Authors, rec.Journal, rec.Year, rec.Abstract,
			rec.RuleKeywords.Joined(model.CategoryDepression),
			rec.RuleKeywords.Joined(model.CategoryMobile),
			rec.RuleKeywords.Joined(model.CategoryBehavioral),
			string(rec.RuleVerdict),
		}))
	}
	return writeAll(path, header, rows)
}

// ReadRuleResults loads a rule-only output file back, restoring the
// rule findings and verdict so the LLM stage can run without
// re-matching.
func ReadRuleResults(path string) ([]model.Record, error) {
	index, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(path, index, colTitle, colAbstract, colResult); err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(rows))
	for _, cells := range rows {
		r := row{index: index, cells: cells}
		rec := baseRecord(r)
		rec.RuleKeywords = model.ParseFindings(
			r.get(colDepressionKeywords),
			r.get(colMobileKeywords),
			r.get(colBehavioralKeywords),
		)
		rec.RuleVerdict = model.Verdict(r.get(colResult))
		rec.LLM = model.LLMResult{Verdict: model.VerdictNotProcessed}
		rec.Final = rec.RuleVerdict
		records = append(records, rec)
	}
	return records, nil
}

func hybridHeader() []string {
	return append(append([]string{}, inputColumns...),
		colRuleDepression, colRuleMobile, colRuleBehavioral, colRuleResult,
		colLLMDepression, colLLMMobile, colLLMBehavioral, colLLMResult,
		colLLMDepressionHighlight, colLLMMobileHighlight, colLLMBehavioralHighlight,
		colLLMReason, colFinalResult)
}

func hybridRow(rec *model.Record) []string {
	return []string{
		rec.DOI, rec.Title, rec.Authors, rec.Journal, rec.Year, rec.Abstract,
		rec.RuleKeywords.Joined(model.CategoryDepression),
		rec.RuleKeywords.Joined(model.CategoryMobile),
		rec.RuleKeywords.Joined(model.CategoryBehavioral),
		string(rec.RuleVerdict),
		rec.LLM.Keywords.Joined(model.CategoryDepression),
		rec.LLM.Keywords.Joined(model.CategoryMobile),
		rec.LLM.Keywords.Joined(model.CategoryBehavioral),
		string(rec.LLM.Verdict),
		rec.LLM.Highlights[model.CategoryDepression],
		rec.LLM.Highlights[model.CategoryMobile],
		rec.LLM.Highlights[model.CategoryBehavioral],
		rec.LLM.Reason,
		string(rec.Final),
	}
}

// WriteHybridResults writes the rule+LLM schema.
func WriteHybridResults(path string, records []model.Record) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rows = append(rows, sanitizeRow(hybridRow(&records[i])))
	}
	return writeAll(path, hybridHeader(), rows)
}

// ReadForReview loads records for the review interface. It accepts
// hybrid output, rule-only output (mapping result to the rule_ columns)
// and previously reviewed files; absent human columns default to the
// unreviewed state.
func ReadForReview(path string) ([]model.Record, error) {
	index, rows, err := readAll(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns(path, index, colTitle, colAbstract); err != nil {
		return nil, err
	}

	probe := row{index: index}
	hybrid := probe.has(colRuleResult)
	if !hybrid && !probe.has(colResult) {
		return nil, fmt.Errorf("%s: not a screening output (no %s or %s column)", path, colRuleResult, colResult)
	}

	records := make([]model.Record, 0, len(rows))
	for _, cells := range rows {
		r := row{index: index, cells: cells}
		rec := baseRecord(r)

		if hybrid {
			rec.RuleKeywords = model.ParseFindings(
				r.get(colRuleDepression), r.get(colRuleMobile), r.get(colRuleBehavioral))
			rec.RuleVerdict = model.Verdict(r.get(colRuleResult))
			rec.LLM = model.LLMResult{
				Keywords: model.ParseFindings(
					r.get(colLLMDepression), r.get(colLLMMobile), r.get(colLLMBehavioral)),
				Verdict: model.Verdict(r.get(colLLMResult)),
				Highlights: map[model.Category]string{
					model.CategoryDepression: r.get(colLLMDepressionHighlight),
					model.CategoryMobile:     r.get(colLLMMobileHighlight),
					model.CategoryBehavioral: r.get(colLLMBehavioralHighlight),
				},
				Reason: r.get(colLLMReason),
			}
			rec.Final = model.Verdict(r.get(colFinalResult))
		} else {
			rec.RuleKeywords = model.ParseFindings(
				r.get(colDepressionKeywords), r.get(colMobileKeywords), r.get(colBehavioralKeywords))
			rec.RuleVerdict = model.Verdict(r.get(colResult))
			rec.LLM = model.LLMResult{Verdict: model.VerdictNotProcessed}
			rec.Final = rec.RuleVerdict
		}

		if r.has(colReviewStatus) {
			rec.Human = model.HumanReview{
				Keywords: map[model.Category]string{
					model.CategoryDepression: r.get(colHumanDepression),
					model.CategoryMobile:     r.get(colHumanMobile),
					model.CategoryBehavioral: r.get(colHumanBehavioral),
				},
				Verdict:  model.Verdict(r.get(colHumanResult)),
				Reviewer: r.get(colReviewerName),
				Status:   model.ReviewStatus(r.get(colReviewStatus)),
				Date:     r.get(colReviewDate),
			}
			if rec.Human.Status == "" {
				rec.Human.Status = model.StatusNotReviewed
			}
		}

		records = append(records, rec)
	}
	return records, nil
}

// WriteReviewed writes the hybrid schema extended with the human review
// columns.
func WriteReviewed(path string, records []model.Record) error {
	header := append(hybridHeader(),
		colHumanDepression, colHumanMobile, colHumanBehavioral, colHumanResult,
		colReviewerName, colReviewStatus, colReviewDate)

	rows := make([][]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		cells := append(hybridRow(rec),
			rec.Human.Keywords[model.CategoryDepression],
			rec.Human.Keywords[model.CategoryMobile],
			rec.Human.Keywords[model.CategoryBehavioral],
			string(rec.Human.Verdict),
			rec.Human.Reviewer,
			string(rec.Human.Status),
			rec.Human.Date,
		)
		rows = append(rows, sanitizeRow(cells))
	}
	return writeAll(path, header, rows)
}

func writeAll(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func sanitizeRow(cells []string) []string {
	for i, cell := range cells {
		cells[i] = Sanitize(cell)
	}
	return cells
}

// Sanitize flattens embedded line breaks to spaces and truncates
// oversized fields with a visible marker. Limits count runes, not
// bytes, so multi-byte text is measured like ASCII and the cut never
// splits a rune.
func Sanitize(s string) string {
	if strings.ContainsAny(s, "\r\n") {
		s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
	}
	if utf8.RuneCountInString(s) > truncateAbove {
		s = string([]rune(s)[:truncateTo]) + truncMarker
	}
	return s
}
