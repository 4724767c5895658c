package classify

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/kamilpajak/triage/internal/inference"
	"github.com/kamilpajak/triage/pkg/models"
)

type intentRequest struct {
	Inputs     string           `json:"inputs"`
	Parameters intentParameters `json:"parameters"`
}

type intentParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type intentResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Intents scores text against every intent label and returns them ranked by
// descending score.
func (c *Classifier) Intents(ctx context.Context, text string) (models.RankedIntents, error) {
	req := intentRequest{
		Inputs: text,
		Parameters: intentParameters{
			CandidateLabels: IntentLabels(),
			MultiLabel:      true,
		},
	}

	raw, err := c.caller.Call(ctx, c.intentModel, req)
	if err != nil {
		return nil, err
	}

	var resp intentResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, &inference.MalformedResponseError{Reason: "intent response: " + err.Error(), Body: string(raw)}
	}

	return rankIntents(resp.Labels, resp.Scores), nil
}

// rankIntents pairs labels and scores by index, dropping the tail of the longer
// slice, and sorts stably by descending score.
func rankIntents(labels []string, scores []float64) models.RankedIntents {
	n := min(len(labels), len(scores))
	ranked := make(models.RankedIntents, n)
	for i := 0; i < n; i++ {
		ranked[i] = models.IntentCandidate{Label: labels[i], Score: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
