package triage

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/kamilpajak/triage/internal/bucket"
	"github.com/kamilpajak/triage/internal/classify"
	"github.com/kamilpajak/triage/pkg/models"
	"github.com/spf13/cobra"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "List intent labels and the bucket rules",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printLabels(cmd.OutOrStdout())
	},
}

func printLabels(w io.Writer) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	_, _ = bold.Fprintln(w, "INTENT LABELS")
	for _, l := range classify.IntentLabels() {
		fmt.Fprintf(w, "  %s\n", l)
	}
	fmt.Fprintln(w)

	_, _ = bold.Fprintln(w, "BUCKETS (first match wins)")
	_, _ = dim.Fprintf(w, "  intents count when score >= %.2f, top %d only\n", bucket.ActiveThreshold, bucket.MaxActive)
	for i, r := range bucket.Rules() {
		var conds []string
		if len(r.Intents) > 0 {
			conds = append(conds, "intent "+strings.Join(r.Intents, " or "))
		}
		if r.Sentiment != "" {
			conds = append(conds, "sentiment "+r.Sentiment)
		}
		fmt.Fprintf(w, "  %d. %-20s %s\n", i+1, r.Bucket, strings.Join(conds, " or "))
	}
	fmt.Fprintf(w, "  %d. %-20s otherwise\n", len(bucket.Rules())+1, models.BucketOther)
}
