// Package pipeline orchestrates the three-stage screening flow: rule
// stage, LLM second pass over rule-excluded records, and the final
// reconciliation.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/minjpark/litscreen/internal/llm"
	"github.com/minjpark/litscreen/internal/model"
	"github.com/minjpark/litscreen/internal/screen"
)

// Pipeline runs the screening stages over a record set.
type Pipeline struct {
	evaluator *screen.Evaluator
	provider  llm.Provider // nil disables the LLM stage
	config    *model.Config
}

// New creates a pipeline. An LLM provider error is fatal only when a
// provider was actually configured.
func New(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	return &Pipeline{
		evaluator: screen.NewEvaluator(),
		provider:  provider,
		config:    cfg,
	}, nil
}

// NewWithProvider creates a pipeline with an explicit provider, used by
// tests and callers that manage wrapping themselves.
func NewWithProvider(cfg *model.Config, provider llm.Provider) *Pipeline {
	return &Pipeline{
		evaluator: screen.NewEvaluator(),
		provider:  provider,
		config:    cfg,
	}
}

// HasProvider reports whether the LLM stage can run.
func (p *Pipeline) HasProvider() bool { return p.provider != nil }

// RunRuleStage writes rule-stage findings and verdicts into every
// record. Records with neither title nor abstract are auto-excluded
// without invoking the matcher. Final is seeded with the rule verdict
// and the LLM stage is marked not yet run.
func (p *Pipeline) RunRuleStage(records []model.Record) {
	for i := range records {
		rec := &records[i]
		if rec.Missing() {
			rec.RuleKeywords = model.Findings{}
			rec.RuleVerdict = model.VerdictExclude
		} else {
			res := p.evaluator.Evaluate(rec.Title, rec.Abstract)
			rec.RuleKeywords = res.Keywords
			rec.RuleVerdict = res.Verdict
		}
		rec.LLM = model.LLMResult{Verdict: model.VerdictNotProcessed}
		rec.Final = rec.RuleVerdict

		if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "rule %d/%d: %s -> %s\n",
				i+1, len(records), truncateTitle(rec.Title), rec.RuleVerdict)
		}
	}
}

// RunLLMStage re-examines every rule-excluded record. Rule-included
// records pass through untouched except for the not_processed marker,
// so the LLM stage can only add includes, never remove them. Per-record
// failures recover locally: the record becomes exclude with the failure
// recorded as its reason, and the batch continues. When ckpt is
// non-nil, every completed record is appended to it and records already
// in it are replayed instead of re-screened.
func (p *Pipeline) RunLLMStage(ctx context.Context, records []model.Record, ckpt *Checkpoint) error {
	if p.provider == nil {
		return fmt.Errorf("no LLM provider configured")
	}

	interval := p.config.Checkpoint.ProgressInterval
	if interval <= 0 {
		interval = 5
	}

	pending := 0
	for i := range records {
		if records[i].RuleVerdict == model.VerdictExclude {
			pending++
		}
	}
	done := 0

	for i := range records {
		rec := &records[i]
		if rec.RuleVerdict == model.VerdictInclude {
			rec.LLM = model.LLMResult{
				Verdict: model.VerdictNotProcessed,
				Reason:  "already included by rule stage",
			}
			rec.Final = model.VerdictInclude
			continue
		}

		if ckpt != nil {
			if entry, ok := ckpt.Lookup(i); ok {
				entry.Apply(rec)
				done++
				continue
			}
		}

		p.screenOne(ctx, rec)
		done++

		if ckpt != nil {
			if err := ckpt.Append(i, rec); err != nil {
				// Not durable, but the batch can still finish in memory.
				fmt.Fprintf(os.Stderr, "checkpoint write failed: %v\n", err)
			}
		}
		if p.config.Output.Verbose && done%interval == 0 {
			fmt.Fprintf(os.Stderr, "llm %d/%d records re-screened\n", done, pending)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// screenOne runs the second pass for a single rule-excluded record and
// reconciles its final verdict.
func (p *Pipeline) screenOne(ctx context.Context, rec *model.Record) {
	if rec.Title == "" || rec.Abstract == "" {
		rec.LLM = model.LLMResult{
			Keywords: model.Findings{},
			Verdict:  model.VerdictExclude,
			Reason:   "missing title or abstract",
		}
		rec.Final = model.VerdictExclude
		return
	}

	resp, err := p.provider.Screen(ctx, llm.ScreenRequest{
		Title:    rec.Title,
		Abstract: rec.Abstract,
		ExistingKeywords: map[model.Category]string{
			model.CategoryDepression: rec.RuleKeywords.Joined(model.CategoryDepression),
			model.CategoryMobile:     rec.RuleKeywords.Joined(model.CategoryMobile),
			model.CategoryBehavioral: rec.RuleKeywords.Joined(model.CategoryBehavioral),
		},
	})
	if err != nil {
		rec.LLM = model.LLMResult{
			Keywords: model.Findings{},
			Verdict:  model.VerdictExclude,
			Reason:   fmt.Sprintf("llm screening failed: %v", err),
		}
		rec.Final = model.VerdictExclude
		return
	}

	rec.LLM = model.LLMResult{
		Keywords: model.ParseFindings(
			resp.Keywords[model.CategoryDepression],
			resp.Keywords[model.CategoryMobile],
			resp.Keywords[model.CategoryBehavioral],
		),
		Verdict:    resp.Verdict,
		Highlights: resp.Highlights,
		Reason:     resp.Reason,
	}
	rec.Final = resp.Verdict
}

func truncateTitle(title string) string {
	const max = 50
	if len(title) <= max {
		return title
	}
	return title[:max] + "..."
}
