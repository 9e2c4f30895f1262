package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minjpark/litscreen/internal/pipeline"
	"github.com/minjpark/litscreen/internal/report"
	"github.com/minjpark/litscreen/internal/store"
)

var (
	runOutput string
	runJSON   string
	runMD     string
	noLLM     bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <input.csv>",
	Short: "Run rule and LLM stages in one pass",
	Long: `Run chains both screening stages: rule-based keyword matching over
every record, then the LLM second pass over the records the rules
excluded. Equivalent to screen followed by rescreen without the
intermediate file.

Example:
  litscreen run export.csv
  litscreen run export.csv --output hybrid.csv --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runOutput, "output", "o", "hybrid.csv", "output CSV path")
	runCmd.Flags().StringVar(&runJSON, "json", "", "write summary JSON to path")
	runCmd.Flags().StringVar(&runMD, "md", "", "write Markdown comparison report to path")
	runCmd.Flags().BoolVar(&noLLM, "no-llm", false, "skip the LLM stage (rule verdicts become final)")
	runCmd.Flags().StringVar(&checkpointPath, "checkpoint", "", "checkpoint path (default: <output>.checkpoint.jsonl)")
	runCmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "disable checkpointing")
	runCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider (openai)")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	records, err := store.ReadInput(args[0])
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d records from %s\n", len(records), args[0])
	}

	pipeline.NewWithProvider(cfg, nil).RunRuleStage(records)

	if noLLM {
		if err := store.WriteHybridResults(runOutput, records); err != nil {
			return fmt.Errorf("write results: %w", err)
		}
		report.NewRenderer(cfg.Output.IncludeFooter).RenderSummary(pipeline.Summarize(records))
		return nil
	}
	return rescreenRecords(records, args[0], runOutput, runJSON, runMD)
}
