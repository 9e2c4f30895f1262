// Package report renders batch summaries and the rule-vs-LLM
// comparison report.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/minjpark/litscreen/internal/model"
	"github.com/minjpark/litscreen/internal/pipeline"
)

const maxRescueExamples = 5

// Renderer writes summaries to the console and to files.
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer. The footer on Markdown reports can be
// disabled for diff-friendly output.
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderSummary prints the batch summary to stdout.
func (r *Renderer) RenderSummary(s pipeline.Summary) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Screening Summary")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()
	fmt.Printf("  Records:        %d\n", s.TotalRecords)
	fmt.Printf("  Rule include:   %d\n", s.RuleInclude)
	fmt.Printf("  Rule exclude:   %d\n", s.RuleExclude)
	if s.LLMProcessed > 0 {
		fmt.Printf("  LLM processed:  %d\n", s.LLMProcessed)
		fmt.Printf("  Rescued:        %d (%.1f%%)\n", s.Rescued, s.RescueRate*100)
	}
	fmt.Printf("  Final include:  %d\n", s.FinalInclude)
	fmt.Printf("  Final exclude:  %d\n", s.FinalExclude)
	if s.ImprovementOverRule != 0 {
		fmt.Printf("  Improvement:    %+.1f%% over rule-based\n", s.ImprovementOverRule*100)
	}
	if s.Reviewed > 0 {
		fmt.Printf("  Reviewed:       %d/%d\n", s.Reviewed, s.TotalRecords)
	}
	fmt.Println()
}

// RenderJSON writes the summary as indented JSON.
func (r *Renderer) RenderJSON(s pipeline.Summary, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the comparison report: batch statistics plus a
// sample of records the LLM pass rescued from rule exclusion.
func (r *Renderer) RenderMarkdown(records []model.Record, s pipeline.Summary, path string) error {
	var b strings.Builder

	b.WriteString("# Screening Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Stage | Include | Exclude |\n")
	b.WriteString("|-------|---------|---------|\n")
	fmt.Fprintf(&b, "| Rule | %d | %d |\n", s.RuleInclude, s.RuleExclude)
	fmt.Fprintf(&b, "| Final | %d | %d |\n\n", s.FinalInclude, s.FinalExclude)

	if s.LLMProcessed > 0 {
		fmt.Fprintf(&b, "LLM re-screened %d rule-excluded records and rescued %d (%.1f%%), "+
			"a %+.1f%% change in includes over rule-based screening.\n\n",
			s.LLMProcessed, s.Rescued, s.RescueRate*100, s.ImprovementOverRule*100)
	}

	if s.Rescued > 0 {
		b.WriteString("## Rescued Records\n\n")
		n := 0
		for i := range records {
			rec := &records[i]
			if !rec.Rescued() {
				continue
			}
			fmt.Fprintf(&b, "### %s\n\n", orUntitled(rec.Title))
			if rec.DOI != "" {
				fmt.Fprintf(&b, "- DOI: %s\n", rec.DOI)
			}
			for _, cat := range model.Categories() {
				if kw := rec.LLM.Keywords.Joined(cat); kw != "" {
					fmt.Fprintf(&b, "- %s: %s\n", cat, kw)
				}
			}
			if rec.LLM.Reason != "" {
				fmt.Fprintf(&b, "- Reason: %s\n", rec.LLM.Reason)
			}
			b.WriteString("\n")
			n++
			if n >= maxRescueExamples {
				if s.Rescued > n {
					fmt.Fprintf(&b, "…and %d more.\n\n", s.Rescued-n)
				}
				break
			}
		}
	}

	if r.includeFooter {
		b.WriteString("---\n")
		b.WriteString("Produced by litscreen. Rule verdicts are deterministic; ")
		b.WriteString("LLM verdicts should be verified by human review.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func orUntitled(title string) string {
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
