package cli

import (
	"github.com/spf13/cobra"

	"github.com/minjpark/litscreen/internal/pipeline"
	"github.com/minjpark/litscreen/internal/report"
	"github.com/minjpark/litscreen/internal/store"
)

var (
	reportJSON string
	reportMD   string
	noFooter   bool
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <results.csv>",
	Short: "Summarize a screening output file",
	Long: `Report recomputes the batch statistics from a screening output file:
per-stage include/exclude counts, how many rule-excluded records the
LLM pass rescued, and review progress when human columns are present.

Example:
  litscreen report hybrid.csv
  litscreen report hybrid.csv --json summary.json --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportJSON, "json", "", "write summary JSON to path")
	reportCmd.Flags().StringVar(&reportMD, "md", "", "write Markdown comparison report to path")
	reportCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	records, err := store.ReadForReview(args[0])
	if err != nil {
		return err
	}

	summary := pipeline.Summarize(records)
	renderer := report.NewRenderer(cfg.Output.IncludeFooter && !noFooter)
	renderer.RenderSummary(summary)

	if reportJSON != "" {
		if err := renderer.RenderJSON(summary, reportJSON); err != nil {
			return err
		}
	}
	if reportMD != "" {
		if err := renderer.RenderMarkdown(records, summary, reportMD); err != nil {
			return err
		}
	}
	return nil
}
