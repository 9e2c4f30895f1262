// Package llm implements the second-pass screening collaborator: a
// language model re-examines records the rule stage excluded.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/minjpark/litscreen/internal/model"
)

// Provider defines the interface for LLM screening providers.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Screen re-examines one rule-excluded record.
	Screen(ctx context.Context, req ScreenRequest) (*ScreenResponse, error)

	// IsAvailable checks if the provider is properly configured and
	// reachable.
	IsAvailable(ctx context.Context) bool
}

// ScreenRequest is the input for one record's second pass.
type ScreenRequest struct {
	Title    string
	Abstract string

	// ExistingKeywords are the rule stage's comma-joined findings per
	// category, given to the model for context.
	ExistingKeywords map[model.Category]string

	// Model optionally overrides the configured model name.
	Model string
}

// ScreenResponse is the model's verdict for one record.
type ScreenResponse struct {
	Keywords   map[model.Category]string // comma-joined terms per category
	Verdict    model.Verdict             // include or exclude
	Highlights map[model.Category]string // quoted evidence sentences
	Reason     string
	TokensUsed int
}

// screenPayload is the wire format the model is instructed to emit.
type screenPayload struct {
	DepressionKeywords  string `json:"depression_keywords"`
	MobileKeywords      string `json:"mobile_keywords"`
	BehavioralKeywords  string `json:"behavioral_keywords"`
	Result              string `json:"result"`
	DepressionHighlight string `json:"depression_highlight"`
	MobileHighlight     string `json:"mobile_highlight"`
	BehavioralHighlight string `json:"behavioral_highlight"`
	Reason              string `json:"reason"`
}

func (p screenPayload) toResponse() (*ScreenResponse, error) {
	verdict := model.Verdict(strings.ToLower(strings.TrimSpace(p.Result)))
	if verdict != model.VerdictInclude && verdict != model.VerdictExclude {
		return nil, fmt.Errorf("unexpected result %q", p.Result)
	}
	return &ScreenResponse{
		Keywords: map[model.Category]string{
			model.CategoryDepression: p.DepressionKeywords,
			model.CategoryMobile:     p.MobileKeywords,
			model.CategoryBehavioral: p.BehavioralKeywords,
		},
		Verdict: verdict,
		Highlights: map[model.Category]string{
			model.CategoryDepression: p.DepressionHighlight,
			model.CategoryMobile:     p.MobileHighlight,
			model.CategoryBehavioral: p.BehavioralHighlight,
		},
		Reason: p.Reason,
	}, nil
}

// ParseResponse parses a raw model reply. It first tries the content
// as-is; on failure it extracts a JSON block (fenced or brace-bounded)
// and retries. This is the second of the two parse attempts the error
// policy allows before a record falls back to exclude.
func ParseResponse(content string) (*ScreenResponse, error) {
	var payload screenPayload
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return payload.toResponse()
	}

	block, ok := extractJSONBlock(content)
	if !ok {
		return nil, fmt.Errorf("no JSON object in response")
	}
	if err := json.Unmarshal([]byte(block), &payload); err != nil {
		return nil, fmt.Errorf("parse fallback JSON: %w", err)
	}
	return payload.toResponse()
}

// extractJSONBlock pulls a JSON object out of free text: a ```json
// fence if present, otherwise the outermost brace pair.
func extractJSONBlock(content string) (string, bool) {
	if i := strings.Index(content, "```json"); i >= 0 {
		rest := content[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j]), true
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return content[start : end+1], true
}
