// Package bucket maps a sentiment label and ranked intents to one feedback bucket.
package bucket

import (
	"github.com/kamilpajak/triage/internal/classify"
	"github.com/kamilpajak/triage/pkg/models"
)

const (
	// ActiveThreshold is the minimum intent score considered by the rules.
	ActiveThreshold = 0.35
	// MaxActive caps how many qualifying intents the rules look at.
	MaxActive = 3
)

// Sentiment labels the rules react to.
const (
	SentimentNegative = "negative"
	SentimentPositive = "positive"
)

// Rule is one step of the priority cascade.
type Rule struct {
	Bucket    models.Bucket
	Intents   []string
	Sentiment string
}

func (r Rule) matches(sentiment string, active models.RankedIntents) bool {
	if r.Sentiment != "" && sentiment == r.Sentiment {
		return true
	}
	for _, label := range r.Intents {
		if active.Contains(label) {
			return true
		}
	}
	return false
}

// Rules returns the cascade in evaluation order. The first match wins; when
// nothing matches the bucket is models.BucketOther.
func Rules() []Rule {
	return []Rule{
		{Bucket: models.BucketComplaint, Intents: []string{classify.IntentComplaint}, Sentiment: SentimentNegative},
		{Bucket: models.BucketBugReport, Intents: []string{classify.IntentBugReport}},
		{Bucket: models.BucketRefund, Intents: []string{classify.IntentRefund, classify.IntentCancelOrder}},
		{Bucket: models.BucketSuggestion, Intents: []string{classify.IntentFeatureRequest}},
		{Bucket: models.BucketPraise, Intents: []string{classify.IntentPraise}, Sentiment: SentimentPositive},
		{Bucket: models.BucketQuestion, Intents: []string{classify.IntentQuestion}},
	}
}

// Active returns the first MaxActive intents scoring at least ActiveThreshold.
// ranked must already be in descending order.
func Active(ranked models.RankedIntents) models.RankedIntents {
	active := make(models.RankedIntents, 0, MaxActive)
	for _, c := range ranked {
		if c.Score < ActiveThreshold {
			continue
		}
		active = append(active, c)
		if len(active) == MaxActive {
			break
		}
	}
	return active
}

// Assign picks the feedback bucket for a sentiment label and ranked intents.
func Assign(sentiment string, ranked models.RankedIntents) models.Bucket {
	active := Active(ranked)
	for _, r := range Rules() {
		if r.matches(sentiment, active) {
			return r.Bucket
		}
	}
	return models.BucketOther
}
