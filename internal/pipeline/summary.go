package pipeline

import "github.com/minjpark/litscreen/internal/model"

// Summary aggregates stage outcomes over a screened batch.
type Summary struct {
	TotalRecords int `json:"total_records"`

	RuleInclude int `json:"rule_include"`
	RuleExclude int `json:"rule_exclude"`

	LLMProcessed int `json:"llm_processed"`
	Rescued      int `json:"rescued"`

	FinalInclude int `json:"final_include"`
	FinalExclude int `json:"final_exclude"`

	// RescueRate is rescued over LLM-processed, 0 when nothing was
	// processed. After a completed second pass every rule-excluded
	// record has been processed, so this equals rescued over
	// rule-excluded; on a partial batch the denominator reflects only
	// the work actually done.
	RescueRate float64 `json:"rescue_rate"`

	// ImprovementOverRule is the net gain in final includes relative to
	// the rule stage, as a share of the whole batch.
	ImprovementOverRule float64 `json:"improvement_over_rule_based"`

	Reviewed int `json:"reviewed,omitempty"`
}

// Summarize computes batch statistics from the per-record verdicts.
func Summarize(records []model.Record) Summary {
	var s Summary
	s.TotalRecords = len(records)
	for i := range records {
		rec := &records[i]
		switch rec.RuleVerdict {
		case model.VerdictInclude:
			s.RuleInclude++
		case model.VerdictExclude:
			s.RuleExclude++
		}
		if rec.LLM.Verdict != model.VerdictNotProcessed {
			s.LLMProcessed++
		}
		if rec.Rescued() {
			s.Rescued++
		}
		switch rec.Final {
		case model.VerdictInclude:
			s.FinalInclude++
		case model.VerdictExclude:
			s.FinalExclude++
		}
		if rec.Human.Status.Reviewed() {
			s.Reviewed++
		}
	}
	if s.LLMProcessed > 0 {
		s.RescueRate = float64(s.Rescued) / float64(s.LLMProcessed)
	}
	if s.TotalRecords > 0 {
		s.ImprovementOverRule = float64(s.FinalInclude-s.RuleInclude) / float64(s.TotalRecords)
	}
	return s
}
