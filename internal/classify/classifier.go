package classify

import (
	"github.com/kamilpajak/triage/internal/config"
	"github.com/kamilpajak/triage/internal/inference"
)

// Classifier runs the sentiment and zero-shot intent models.
type Classifier struct {
	caller         inference.Caller
	sentimentModel string
	intentModel    string
}

// New creates a Classifier that sends requests through caller using the model
// identifiers from cfg.
func New(caller inference.Caller, cfg *config.Config) *Classifier {
	return &Classifier{
		caller:         caller,
		sentimentModel: cfg.SentimentModel,
		intentModel:    cfg.IntentModel,
	}
}
