package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/minjpark/litscreen/internal/review"
	"github.com/minjpark/litscreen/internal/store"
	"github.com/minjpark/litscreen/internal/tui"
)

var (
	reviewOutput string
	reviewerName string
)

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review <results.csv>",
	Short: "Review screening results interactively",
	Long: `Review opens the interactive interface over a screening output file.
For each record the abstract is shown with the selected keywords
highlighted per category; the reviewer toggles keywords, applies a
decision, or uses the include/exclude shortcuts.

Human decisions are a separate annotation layer: they never overwrite
the rule or LLM verdicts, and reconciling them is the report command's
job.

Example:
  litscreen review hybrid.csv
  litscreen review hybrid.csv --reviewer "M. Park" --output reviewed.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)

	reviewCmd.Flags().StringVarP(&reviewOutput, "output", "o", "", "output CSV path (default: overwrite input)")
	reviewCmd.Flags().StringVar(&reviewerName, "reviewer", "", "reviewer name stamped on decisions (default: $USER)")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	records, err := store.ReadForReview(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: no records to review", args[0])
	}

	out := reviewOutput
	if out == "" {
		out = args[0]
	}
	reviewer := reviewerName
	if reviewer == "" {
		reviewer = os.Getenv("USER")
	}

	session := review.NewSession(records, reviewer)
	m := tui.NewModel(session, out, cfg.Matching.PreciseWordBoundary)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("review interface: %w", err)
	}
	return nil
}
