package llm

import (
	"fmt"

	"github.com/minjpark/litscreen/internal/model"
)

// BuildPrompt constructs the second-pass screening prompt for one
// record. The record was already excluded by the rule-based filter; the
// model is asked for a flexible but conservative re-read.
func BuildPrompt(req ScreenRequest) string {
	return fmt.Sprintf(`You are screening a biomedical literature record for a systematic review of mobile/digital behavioral activation interventions for depression.

A record is INCLUDED only if keywords from ALL THREE categories are present in the title or abstract:
1. Depression: depression, depressive symptoms, depressive disorder, or close synonyms.
2. Mobile/digital delivery: mobile application, smartphone, app, digital therapeutic, mhealth, or close synonyms.
3. Behavioral activation/therapy: behavioral activation, activity scheduling, behavioral intervention/therapy, or close synonyms.

This record was already EXCLUDED by a rule-based keyword filter. You are the second pass:
- Consider synonyms, related terms, and contextual meaning the rules miss.
- Judge from the study's overall intent, not isolated words.
- Be conservative: when uncertain, answer exclude.
- State your reasoning explicitly.

Rule-based findings so far:
- depression: %s
- mobile/digital: %s
- behavioral: %s

Title: %s

Abstract: %s

Respond with ONLY a JSON object with these fields:
{
  "depression_keywords": "comma-separated terms found, or empty string",
  "mobile_keywords": "comma-separated terms found, or empty string",
  "behavioral_keywords": "comma-separated terms found, or empty string",
  "result": "include or exclude",
  "depression_highlight": "source sentences containing depression terms",
  "mobile_highlight": "source sentences containing mobile/digital terms",
  "behavioral_highlight": "source sentences containing behavioral terms",
  "reason": "specific reason for the decision"
}`,
		orNone(req.ExistingKeywords[model.CategoryDepression]),
		orNone(req.ExistingKeywords[model.CategoryMobile]),
		orNone(req.ExistingKeywords[model.CategoryBehavioral]),
		req.Title,
		req.Abstract,
	)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
