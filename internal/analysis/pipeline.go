package analysis

import (
	"context"

	"github.com/google/uuid"
	"github.com/kamilpajak/triage/internal/bucket"
	"github.com/kamilpajak/triage/internal/progress"
	"github.com/kamilpajak/triage/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MaxRankedIntents is how many ranked intents the result carries.
const MaxRankedIntents = 5

// SentimentScorer returns the top sentiment for a text.
type SentimentScorer interface {
	Sentiment(ctx context.Context, text string) (*models.SentimentResult, error)
}

// IntentRanker returns all intent labels ranked for a text.
type IntentRanker interface {
	Intents(ctx context.Context, text string) (models.RankedIntents, error)
}

// Params configures a Pipeline.
type Params struct {
	Sentiment  SentimentScorer
	Intents    IntentRanker
	Sequential bool             // run the sentiment call before the intent call instead of both at once
	Emitter    progress.Emitter // optional
	Logger     *zap.Logger      // optional
}

// Pipeline turns one line of feedback into an AnalysisResult.
type Pipeline struct {
	sentiment  SentimentScorer
	intents    IntentRanker
	sequential bool
	emitter    progress.Emitter
	logger     *zap.Logger
}

// New creates a Pipeline.
func New(p Params) *Pipeline {
	pl := &Pipeline{
		sentiment:  p.Sentiment,
		intents:    p.Intents,
		sequential: p.Sequential,
		emitter:    p.Emitter,
		logger:     p.Logger,
	}
	if pl.emitter == nil {
		pl.emitter = progress.Nop{}
	}
	if pl.logger == nil {
		pl.logger = zap.NewNop()
	}
	return pl
}

// Analyze scores sentiment and intents for text and assigns a feedback bucket.
// Either remote call failing fails the whole analysis with that call's error,
// returned as is; no partial result is returned.
func (p *Pipeline) Analyze(ctx context.Context, text string) (*models.AnalysisResult, error) {
	log := p.logger.With(zap.String("request_id", uuid.NewString()))
	log.Debug("analyzing", zap.Int("length", len(text)))

	var (
		sentiment *models.SentimentResult
		ranked    models.RankedIntents
		err       error
	)
	if p.sequential {
		sentiment, ranked, err = p.runSequential(ctx, text)
	} else {
		sentiment, ranked, err = p.runConcurrent(ctx, text)
	}
	if err != nil {
		p.emitter.Emit(progress.Event{Type: progress.TypeError, Message: err.Error()})
		log.Debug("analysis failed", zap.Error(err))
		return nil, err
	}

	result := &models.AnalysisResult{
		Input:          text,
		Sentiment:      *sentiment,
		IntentsRanked:  ranked.Top(MaxRankedIntents),
		FeedbackBucket: bucket.Assign(sentiment.Label, ranked),
	}

	p.emitter.Emit(progress.Event{Type: progress.TypeDone, Message: "Bucket: " + string(result.FeedbackBucket)})
	log.Debug("analysis complete",
		zap.String("sentiment", sentiment.Label),
		zap.String("bucket", string(result.FeedbackBucket)),
	)
	return result, nil
}

func (p *Pipeline) runSequential(ctx context.Context, text string) (*models.SentimentResult, models.RankedIntents, error) {
	sentiment, err := p.scoreSentiment(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	ranked, err := p.rankIntents(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	return sentiment, ranked, nil
}

// runConcurrent issues both calls at once. The first failure cancels the other
// call and is the error returned.
func (p *Pipeline) runConcurrent(ctx context.Context, text string) (*models.SentimentResult, models.RankedIntents, error) {
	var (
		sentiment *models.SentimentResult
		ranked    models.RankedIntents
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sentiment, err = p.scoreSentiment(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		ranked, err = p.rankIntents(gctx, text)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return sentiment, ranked, nil
}

func (p *Pipeline) scoreSentiment(ctx context.Context, text string) (*models.SentimentResult, error) {
	p.emitter.Emit(progress.Event{Type: progress.TypeStep, Message: "Scoring sentiment"})
	return p.sentiment.Sentiment(ctx, text)
}

func (p *Pipeline) rankIntents(ctx context.Context, text string) (models.RankedIntents, error) {
	p.emitter.Emit(progress.Event{Type: progress.TypeStep, Message: "Ranking intents"})
	return p.intents.Intents(ctx, text)
}
