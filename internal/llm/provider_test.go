package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/minjpark/litscreen/internal/model"
)

const validJSON = `{
  "depression_keywords": "low mood, dysthymia",
  "mobile_keywords": "tablet",
  "behavioral_keywords": "activity planning",
  "result": "include",
  "depression_highlight": "Participants reported low mood.",
  "mobile_highlight": "Delivered via tablet.",
  "behavioral_highlight": "Weekly activity planning.",
  "reason": "all three categories present as synonyms"
}`

func TestParseResponse_DirectJSON(t *testing.T) {
	resp, err := ParseResponse(validJSON)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if resp.Verdict != model.VerdictInclude {
		t.Errorf("Expected include, got %s", resp.Verdict)
	}
	if resp.Keywords[model.CategoryDepression] != "low mood, dysthymia" {
		t.Errorf("Unexpected depression keywords: %q", resp.Keywords[model.CategoryDepression])
	}
	if resp.Highlights[model.CategoryMobile] != "Delivered via tablet." {
		t.Errorf("Unexpected mobile highlight: %q", resp.Highlights[model.CategoryMobile])
	}
	if resp.Reason == "" {
		t.Errorf("Expected a reason")
	}
}

func TestParseResponse_FencedJSON(t *testing.T) {
	content := "Here is my analysis:\n```json\n" + validJSON + "\n```\nLet me know."
	resp, err := ParseResponse(content)
	if err != nil {
		t.Fatalf("ParseResponse failed on fenced block: %v", err)
	}
	if resp.Verdict != model.VerdictInclude {
		t.Errorf("Expected include, got %s", resp.Verdict)
	}
}

func TestParseResponse_BraceExtraction(t *testing.T) {
	content := "The record should be included. " + validJSON + " That is my assessment."
	resp, err := ParseResponse(content)
	if err != nil {
		t.Fatalf("ParseResponse failed on embedded braces: %v", err)
	}
	if resp.Verdict != model.VerdictInclude {
		t.Errorf("Expected include, got %s", resp.Verdict)
	}
}

func TestParseResponse_VerdictNormalized(t *testing.T) {
	resp, err := ParseResponse(`{"result": " EXCLUDE ", "reason": "off topic"}`)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if resp.Verdict != model.VerdictExclude {
		t.Errorf("Expected exclude, got %s", resp.Verdict)
	}
}

func TestParseResponse_Failures(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no JSON at all", "I cannot assess this record."},
		{"invalid verdict", `{"result": "maybe"}`},
		{"broken JSON", `{"result": "include"`},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseResponse(tc.content); err == nil {
				t.Errorf("Expected error for %q", tc.content)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	req := ScreenRequest{
		Title:    "Tablet-based mood support",
		Abstract: "Activity planning for adults with low mood.",
		ExistingKeywords: map[model.Category]string{
			model.CategoryMobile: "tablet",
		},
	}
	prompt := BuildPrompt(req)

	if !strings.Contains(prompt, req.Title) || !strings.Contains(prompt, req.Abstract) {
		t.Errorf("Prompt missing record text")
	}
	if !strings.Contains(prompt, "tablet") {
		t.Errorf("Prompt missing existing findings")
	}
	// Empty categories render as a placeholder, not an empty slot
	if !strings.Contains(prompt, "(none)") {
		t.Errorf("Prompt missing placeholder for empty findings")
	}
	if !strings.Contains(prompt, `"result"`) {
		t.Errorf("Prompt missing response format instructions")
	}
}

// countingProvider tracks Screen calls for wrapper tests.
type countingProvider struct {
	calls int
	resp  ScreenResponse
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *countingProvider) Screen(ctx context.Context, req ScreenRequest) (*ScreenResponse, error) {
	p.calls++
	resp := p.resp
	return &resp, nil
}

func TestCaching_RepeatedRecordHitsCache(t *testing.T) {
	inner := &countingProvider{resp: ScreenResponse{Verdict: model.VerdictInclude}}
	caching := NewCaching(inner, time.Minute)

	req := ScreenRequest{Title: "T", Abstract: "A"}
	for i := 0; i < 3; i++ {
		resp, err := caching.Screen(context.Background(), req)
		if err != nil {
			t.Fatalf("Screen failed: %v", err)
		}
		if resp.Verdict != model.VerdictInclude {
			t.Errorf("Unexpected verdict: %s", resp.Verdict)
		}
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 inner call, got %d", inner.calls)
	}

	// A different record is a different key
	if _, err := caching.Screen(context.Background(), ScreenRequest{Title: "T2", Abstract: "A"}); err != nil {
		t.Fatalf("Screen failed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("Expected 2 inner calls after distinct record, got %d", inner.calls)
	}
}

func TestCacheKey_SensitiveToExistingKeywords(t *testing.T) {
	a := cacheKey(ScreenRequest{Title: "T", Abstract: "A"})
	b := cacheKey(ScreenRequest{Title: "T", Abstract: "A",
		ExistingKeywords: map[model.Category]string{model.CategoryMobile: "app"}})
	if a == b {
		t.Errorf("Expected different keys when rule findings differ")
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = ""
	p, err := NewProvider(cfg)
	if err != nil {
		t.Fatalf("Expected no error for disabled provider, got %v", err)
	}
	if p != nil {
		t.Errorf("Expected nil provider when disabled")
	}
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.LLM.Provider = "oracle"
	if _, err := NewProvider(cfg); err == nil {
		t.Errorf("Expected error for unknown provider")
	}
}
