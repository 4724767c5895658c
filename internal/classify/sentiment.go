package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/kamilpajak/triage/internal/inference"
	"github.com/kamilpajak/triage/pkg/models"
)

type sentimentRequest struct {
	Inputs string `json:"inputs"`
}

type labelScore struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// Sentiment returns the highest-scoring sentiment label for text.
func (c *Classifier) Sentiment(ctx context.Context, text string) (*models.SentimentResult, error) {
	raw, err := c.caller.Call(ctx, c.sentimentModel, sentimentRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	entries, err := normalizeSentiment(raw)
	if err != nil {
		return nil, err
	}

	return pickTop(entries, raw)
}

// normalizeSentiment turns either [{label,score}...] or [[{label,score}...]]
// into the flat form.
func normalizeSentiment(raw json.RawMessage) ([]labelScore, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(raw, &outer); err != nil {
		return nil, &inference.MalformedResponseError{Reason: "sentiment response is not an array", Body: string(raw)}
	}

	flat := raw
	if len(outer) > 0 && startsWith(outer[0], '[') {
		flat = outer[0]
	}

	var entries []labelScore
	if err := json.Unmarshal(flat, &entries); err != nil {
		return nil, &inference.MalformedResponseError{
			Reason: fmt.Sprintf("sentiment entries: %v", err),
			Body:   string(raw),
		}
	}
	return entries, nil
}

// pickTop returns the first entry holding the maximum score.
func pickTop(entries []labelScore, raw json.RawMessage) (*models.SentimentResult, error) {
	if len(entries) == 0 {
		return nil, &inference.MalformedResponseError{Reason: "sentiment response is empty", Body: string(raw)}
	}

	var best *models.SentimentResult
	for i, e := range entries {
		if e.Score == nil {
			return nil, &inference.MalformedResponseError{
				Reason: fmt.Sprintf("sentiment entry %d has no numeric score", i),
				Body:   string(raw),
			}
		}
		if best == nil || *e.Score > best.Score {
			best = &models.SentimentResult{Label: e.Label, Score: *e.Score}
		}
	}
	return best, nil
}

func startsWith(raw json.RawMessage, b byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == b
}
