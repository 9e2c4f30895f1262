package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/minjpark/litscreen/internal/llm"
	"github.com/minjpark/litscreen/internal/model"
)

// fakeProvider returns canned verdicts and counts calls.
type fakeProvider struct {
	calls   int
	verdict model.Verdict
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeProvider) Screen(ctx context.Context, req llm.ScreenRequest) (*llm.ScreenResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ScreenResponse{
		Keywords: map[model.Category]string{
			model.CategoryDepression: "low mood",
			model.CategoryMobile:     "tablet computer",
			model.CategoryBehavioral: "activity planning",
		},
		Verdict: f.verdict,
		Highlights: map[model.Category]string{
			model.CategoryDepression: "Participants reported low mood.",
		},
		Reason: "synonyms for all three categories present",
	}, nil
}

func testRecords() []model.Record {
	return []model.Record{
		{
			Title:    "Mobile App for Depression",
			Abstract: "A smartphone application for behavioral activation in adults with depression.",
		},
		{
			Title:    "Tablet-based mood support",
			Abstract: "Activity planning for adults with low mood.",
		},
		{
			Title:    "A Study of Exercise",
			Abstract: "Exercise improves mood.",
		},
		{}, // no title, no abstract
	}
}

func TestRunRuleStage(t *testing.T) {
	p := NewWithProvider(model.DefaultConfig(), nil)
	records := testRecords()
	p.RunRuleStage(records)

	if records[0].RuleVerdict != model.VerdictInclude {
		t.Errorf("Expected record 0 included by rules, got %s", records[0].RuleVerdict)
	}
	for i := 1; i < len(records); i++ {
		if records[i].RuleVerdict != model.VerdictExclude {
			t.Errorf("Expected record %d excluded by rules, got %s", i, records[i].RuleVerdict)
		}
	}

	for i := range records {
		if records[i].LLM.Verdict != model.VerdictNotProcessed {
			t.Errorf("Record %d: expected llm not_processed after rule stage, got %s", i, records[i].LLM.Verdict)
		}
		if records[i].Final != records[i].RuleVerdict {
			t.Errorf("Record %d: expected final seeded from rule verdict", i)
		}
	}
}

func TestRunLLMStage_IncludedRecordsSkipped(t *testing.T) {
	provider := &fakeProvider{verdict: model.VerdictInclude}
	p := NewWithProvider(model.DefaultConfig(), provider)
	records := testRecords()
	p.RunRuleStage(records)

	if err := p.RunLLMStage(context.Background(), records, nil); err != nil {
		t.Fatalf("RunLLMStage failed: %v", err)
	}

	// Rule-included record never reaches the provider
	if records[0].LLM.Verdict != model.VerdictNotProcessed {
		t.Errorf("Expected included record marked not_processed, got %s", records[0].LLM.Verdict)
	}
	if records[0].Final != model.VerdictInclude {
		t.Errorf("Included record lost its verdict: %s", records[0].Final)
	}

	// Record 3 has no title/abstract and is excluded without a call
	if records[3].LLM.Verdict != model.VerdictExclude || records[3].LLM.Reason == "" {
		t.Errorf("Expected empty record excluded with a reason, got %+v", records[3].LLM)
	}

	// Only records 1 and 2 reach the provider
	if provider.calls != 2 {
		t.Errorf("Expected 2 provider calls, got %d", provider.calls)
	}
}

func TestRunLLMStage_RescueMonotonicity(t *testing.T) {
	provider := &fakeProvider{verdict: model.VerdictInclude}
	p := NewWithProvider(model.DefaultConfig(), provider)
	records := testRecords()
	p.RunRuleStage(records)
	before := Summarize(records)

	if err := p.RunLLMStage(context.Background(), records, nil); err != nil {
		t.Fatalf("RunLLMStage failed: %v", err)
	}
	after := Summarize(records)

	if after.FinalInclude < before.RuleInclude {
		t.Errorf("LLM stage removed includes: rule %d, final %d", before.RuleInclude, after.FinalInclude)
	}
	if after.Rescued > before.RuleExclude {
		t.Errorf("Rescued %d exceeds rule-excluded %d", after.Rescued, before.RuleExclude)
	}
	if !records[1].Rescued() {
		t.Errorf("Expected record 1 rescued")
	}
}

func TestRunLLMStage_FailureExcludesRecord(t *testing.T) {
	provider := &fakeProvider{err: errors.New("connection refused")}
	p := NewWithProvider(model.DefaultConfig(), provider)
	records := testRecords()
	p.RunRuleStage(records)

	if err := p.RunLLMStage(context.Background(), records, nil); err != nil {
		t.Fatalf("Expected per-record recovery, got batch error: %v", err)
	}

	rec := &records[1]
	if rec.LLM.Verdict != model.VerdictExclude {
		t.Errorf("Expected exclude on provider failure, got %s", rec.LLM.Verdict)
	}
	if rec.LLM.Reason == "" {
		t.Errorf("Expected failure reason recorded")
	}
	if rec.Final != model.VerdictExclude {
		t.Errorf("Expected final exclude, got %s", rec.Final)
	}
}

func TestRunLLMStage_CheckpointResume(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.checkpoint.jsonl")

	// First run completes the batch and writes every record
	provider := &fakeProvider{verdict: model.VerdictInclude}
	p := NewWithProvider(model.DefaultConfig(), provider)
	records := testRecords()
	p.RunRuleStage(records)

	ckpt, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatalf("OpenCheckpoint failed: %v", err)
	}
	if err := p.RunLLMStage(context.Background(), records, ckpt); err != nil {
		t.Fatalf("RunLLMStage failed: %v", err)
	}
	if err := ckpt.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	firstCalls := provider.calls
	if firstCalls == 0 {
		t.Fatalf("Expected provider calls in first run")
	}

	// Second run over the same checkpoint replays instead of re-screening
	provider2 := &fakeProvider{verdict: model.VerdictInclude}
	p2 := NewWithProvider(model.DefaultConfig(), provider2)
	records2 := testRecords()
	p2.RunRuleStage(records2)

	ckpt2, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	if ckpt2.Completed() == 0 {
		t.Fatalf("Expected entries loaded from existing checkpoint")
	}
	if err := p2.RunLLMStage(context.Background(), records2, ckpt2); err != nil {
		t.Fatalf("Resumed RunLLMStage failed: %v", err)
	}
	if provider2.calls != 0 {
		t.Errorf("Expected 0 provider calls on resume, got %d", provider2.calls)
	}

	// Replayed records carry the logged results
	if records2[1].LLM.Verdict != model.VerdictInclude || records2[1].Final != model.VerdictInclude {
		t.Errorf("Replayed record lost its verdicts: %+v", records2[1])
	}
	if records2[1].LLM.Reason == "" {
		t.Errorf("Replayed record lost its reason")
	}

	// Remove deletes the log
	if err := ckpt2.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	ckpt3, err := OpenCheckpoint(path)
	if err != nil {
		t.Fatalf("Open after remove failed: %v", err)
	}
	if ckpt3.Completed() != 0 {
		t.Errorf("Expected empty checkpoint after remove, got %d entries", ckpt3.Completed())
	}
	_ = ckpt3.Remove()
}

func TestRunLLMStage_NoProvider(t *testing.T) {
	p := NewWithProvider(model.DefaultConfig(), nil)
	records := testRecords()
	p.RunRuleStage(records)

	if err := p.RunLLMStage(context.Background(), records, nil); err == nil {
		t.Errorf("Expected error when no provider is configured")
	}
}

func TestSummarize(t *testing.T) {
	provider := &fakeProvider{verdict: model.VerdictInclude}
	p := NewWithProvider(model.DefaultConfig(), provider)
	records := testRecords()
	p.RunRuleStage(records)
	if err := p.RunLLMStage(context.Background(), records, nil); err != nil {
		t.Fatalf("RunLLMStage failed: %v", err)
	}

	s := Summarize(records)
	if s.TotalRecords != 4 {
		t.Errorf("Expected 4 records, got %d", s.TotalRecords)
	}
	if s.RuleInclude != 1 || s.RuleExclude != 3 {
		t.Errorf("Unexpected rule counts: %+v", s)
	}
	// Records 1-3 were LLM-processed (3 includes the auto-excluded empty record)
	if s.LLMProcessed != 3 {
		t.Errorf("Expected 3 LLM-processed, got %d", s.LLMProcessed)
	}
	if s.Rescued != 2 {
		t.Errorf("Expected 2 rescued, got %d", s.Rescued)
	}
	if s.FinalInclude != 3 || s.FinalExclude != 1 {
		t.Errorf("Unexpected final counts: %+v", s)
	}
	if s.RescueRate == 0 {
		t.Errorf("Expected non-zero rescue rate")
	}
	// On a completed batch every rule-excluded record was processed, so
	// the rate over processed records equals the rate over rule excludes
	if want := float64(s.Rescued) / float64(s.RuleExclude); s.RescueRate != want {
		t.Errorf("Expected rescue rate %f, got %f", want, s.RescueRate)
	}
	// 3 final includes vs 1 rule include over 4 records
	if s.ImprovementOverRule != 0.5 {
		t.Errorf("Expected improvement 0.5, got %f", s.ImprovementOverRule)
	}
}

func TestSummarize_EmptyBatch(t *testing.T) {
	s := Summarize(nil)
	if s.TotalRecords != 0 || s.RescueRate != 0 {
		t.Errorf("Expected zero summary, got %+v", s)
	}
}
