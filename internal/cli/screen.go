package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minjpark/litscreen/internal/pipeline"
	"github.com/minjpark/litscreen/internal/report"
	"github.com/minjpark/litscreen/internal/store"
)

var screenOutput string

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen <input.csv>",
	Short: "Run the rule-based keyword stage over an export",
	Long: `Screen applies the deterministic keyword rules to every record:
- Match the depression, mobile/digital, and behavioral keyword lists
  against title + abstract
- Include a record only when all three categories match
- Records with no title and no abstract are excluded without matching

The output carries the input columns plus per-category matched keywords
and the rule verdict, and feeds the rescreen and review commands.

Example:
  litscreen screen export.csv
  litscreen screen export.csv --output screened.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runScreen,
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringVarP(&screenOutput, "output", "o", "screened.csv", "output CSV path")
}

func runScreen(cmd *cobra.Command, args []string) error {
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

	p := pipeline.NewWithProvider(cfg, nil)
	p.RunRuleStage(records)

	if err := store.WriteRuleResults(screenOutput, records); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", screenOutput)
	}

	report.NewRenderer(cfg.Output.IncludeFooter).RenderSummary(pipeline.Summarize(records))
	return nil
}
