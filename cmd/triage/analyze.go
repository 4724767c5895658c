package triage

import (
	"fmt"
	"strings"
	"time"

	"github.com/kamilpajak/triage/internal/progress"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var analyzeFormat string

var analyzeCmd = &cobra.Command{
	Use:   "analyze <text...>",
	Short: "Analyze a single piece of feedback",
	Long: `Analyze one piece of feedback given on the command line and exit.

Examples:
  triage analyze "I want a refund, this is broken"
  triage analyze --format text "Love the new dashboard"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "json", "Output format (json, text)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFormat != "json" && analyzeFormat != "text" {
		return fmt.Errorf("unknown format %q, use json or text", analyzeFormat)
	}

	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("feedback text must not be blank")
	}

	a, err := newApp(progress.ForStderr(verbose))
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	start := time.Now()
	result, err := a.pipeline.Analyze(contextOrBackground(cmd), text)
	if err != nil {
		return fmt.Errorf("analysis failed: %s", describeError(err))
	}
	a.logger.Debug("analyze finished", zap.Duration("elapsed", time.Since(start)))

	if analyzeFormat == "text" {
		printSummary(cmd.OutOrStdout(), result)
		return nil
	}
	return printJSON(cmd.OutOrStdout(), result)
}
