package triage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/kamilpajak/triage/internal/inference"
	"github.com/kamilpajak/triage/pkg/models"
)

func printJSON(w io.Writer, result *models.AnalysisResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}

func printError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	_, _ = red.Fprintf(w, "error: %s\n", describeError(err))
}

// describeError turns the inference error types into a short user-facing line.
func describeError(err error) string {
	var (
		rcErr *inference.RemoteCallError
		trErr *inference.TransportError
		mErr  *inference.MalformedResponseError
	)
	switch {
	case errors.As(err, &rcErr):
		return fmt.Sprintf("inference endpoint returned HTTP %d: %s", rcErr.StatusCode, strings.TrimSpace(rcErr.Body))
	case errors.As(err, &trErr):
		return fmt.Sprintf("could not reach inference endpoint: %v", trErr.Err)
	case errors.As(err, &mErr):
		return fmt.Sprintf("unexpected response from inference endpoint: %s", mErr.Reason)
	default:
		return err.Error()
	}
}

func bucketColor(b models.Bucket) *color.Color {
	switch b {
	case models.BucketComplaint, models.BucketBugReport:
		return color.New(color.FgRed, color.Bold)
	case models.BucketRefund:
		return color.New(color.FgYellow, color.Bold)
	case models.BucketPraise:
		return color.New(color.FgGreen, color.Bold)
	case models.BucketSuggestion, models.BucketQuestion:
		return color.New(color.FgCyan, color.Bold)
	default:
		return color.New(color.Bold)
	}
}

// printSummary renders a result for humans: bucket, sentiment, and a score bar
// per ranked intent.
func printSummary(w io.Writer, r *models.AnalysisResult) {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	_, _ = bucketColor(r.FeedbackBucket).Fprintln(w, strings.ToUpper(string(r.FeedbackBucket)))
	fmt.Fprintln(w)

	_, _ = bold.Fprint(w, "Sentiment: ")
	fmt.Fprintf(w, "%s (%.2f)\n", r.Sentiment.Label, r.Sentiment.Score)

	if len(r.IntentsRanked) == 0 {
		return
	}
	fmt.Fprintln(w)
	_, _ = bold.Fprintln(w, "INTENTS")
	for _, c := range r.IntentsRanked {
		fmt.Fprintf(w, "  %-16s %.2f ", c.Label, c.Score)
		_, _ = dim.Fprintln(w, scoreBar(c.Score))
	}
}

func scoreBar(score float64) string {
	const barWidth = 20
	filled := int(score * barWidth)
	filled = max(0, min(filled, barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}
