package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minjpark/litscreen/internal/model"
	"github.com/minjpark/litscreen/internal/pipeline"
	"github.com/minjpark/litscreen/internal/report"
	"github.com/minjpark/litscreen/internal/store"
)

var (
	rescreenOutput string
	checkpointPath string
	noCheckpoint   bool
	llmProvider    string
	llmModel       string
)

// rescreenCmd represents the rescreen command
var rescreenCmd = &cobra.Command{
	Use:   "rescreen <screened.csv>",
	Short: "Run the LLM second pass over rule-excluded records",
	Long: `Rescreen sends every rule-excluded record to the configured language
model for a second opinion. Rule-included records pass through
untouched: the LLM stage can only add includes, never remove them.

Progress is checkpointed after every record, so an interrupted batch
resumes where it stopped instead of re-paying for completed calls. A
completed batch deletes its checkpoint.

Example:
  litscreen rescreen screened.csv
  litscreen rescreen screened.csv --output hybrid.csv --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runRescreen,
}

func init() {
	rootCmd.AddCommand(rescreenCmd)

	rescreenCmd.Flags().StringVarP(&rescreenOutput, "output", "o", "hybrid.csv", "output CSV path")
	rescreenCmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "checkpoint path (default: <output>.checkpoint.jsonl)")
	rescreenCmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "disable checkpointing")
	rescreenCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai)")
	rescreenCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runRescreen(cmd *cobra.Command, args []string) error {
	records, err := store.ReadRuleResults(args[0])
	if err != nil {
		return err
	}
	return rescreenRecords(records, args[0], rescreenOutput, "", "")
}

// rescreenRecords runs the LLM stage over records whose rule verdicts
// are already set, writing the hybrid output and optional summary
// reports. Shared by rescreen and run.
func rescreenRecords(records []model.Record, inputPath, outputPath, jsonPath, mdPath string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if llmProvider != "" {
		cfg.LLM.Provider = llmProvider
	}
	if llmModel != "" {
		cfg.LLM.Model = llmModel
	}
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}
	if !p.HasProvider() {
		return fmt.Errorf("no LLM provider configured (set llm.provider or --llm-provider)")
	}

	var ckpt *pipeline.Checkpoint
	if !noCheckpoint {
		path := checkpointPath
		if path == "" {
			path = outputPath + ".checkpoint.jsonl"
		}
		ckpt, err = pipeline.OpenCheckpoint(path)
		if err != nil {
			return err
		}
		if verbose && ckpt.Completed() > 0 {
			fmt.Fprintf(os.Stderr, "Resuming: %d records already checkpointed\n", ckpt.Completed())
		}
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Rescreening %d records from %s with %s/%s\n",
			len(records), inputPath, cfg.LLM.Provider, cfg.LLM.Model)
	}

	runErr := p.RunLLMStage(context.Background(), records, ckpt)

	if ckpt != nil {
		if runErr == nil {
			if err := ckpt.Remove(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not remove checkpoint: %v\n", err)
			}
		} else if err := ckpt.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not close checkpoint: %v\n", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	if err := store.WriteHybridResults(outputPath, records); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", outputPath)
	}

	renderer := report.NewRenderer(cfg.Output.IncludeFooter)
	summary := pipeline.Summarize(records)
	renderer.RenderSummary(summary)
	if jsonPath != "" {
		if err := renderer.RenderJSON(summary, jsonPath); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := renderer.RenderMarkdown(records, summary, mdPath); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", mdPath)
		}
	}
	return nil
}
