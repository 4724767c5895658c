package models

// SentimentResult is the top-scoring label returned by the sentiment model.
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// IntentCandidate is one candidate intent label with its independent score.
type IntentCandidate struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// RankedIntents is ordered by descending score; equal scores keep candidate order.
type RankedIntents []IntentCandidate

// Top returns at most the first n entries.
func (r RankedIntents) Top(n int) RankedIntents {
	if n < 0 {
		n = 0
	}
	if len(r) < n {
		n = len(r)
	}
	out := make(RankedIntents, n)
	copy(out, r[:n])
	return out
}

// Contains reports whether any entry carries the given label.
func (r RankedIntents) Contains(label string) bool {
	for _, c := range r {
		if c.Label == label {
			return true
		}
	}
	return false
}

// Bucket is the single feedback category assigned to an input.
type Bucket string

const (
	BucketComplaint  Bucket = "complaint"
	BucketBugReport  Bucket = "bug_report"
	BucketRefund     Bucket = "refund/cancellation"
	BucketSuggestion Bucket = "suggestion"
	BucketPraise     Bucket = "praise"
	BucketQuestion   Bucket = "question"
	BucketOther      Bucket = "other"
)

// AnalysisResult represents the complete result of analyzing one line of feedback
type AnalysisResult struct {
	Input          string          `json:"input"`
	Sentiment      SentimentResult `json:"sentiment"`
	IntentsRanked  RankedIntents   `json:"intents_ranked"`
	FeedbackBucket Bucket          `json:"feedback_bucket"`
}
