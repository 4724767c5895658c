package classify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/kamilpajak/triage/internal/config"
	"github.com/kamilpajak/triage/internal/inference"
	"github.com/kamilpajak/triage/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller returns a canned body (or error) and records the last request.
type fakeCaller struct {
	body    string
	err     error
	model   string
	payload []byte
}

func (f *fakeCaller) Call(_ context.Context, model string, payload any) (json.RawMessage, error) {
	f.model = model
	f.payload, _ = json.Marshal(payload)
	if f.err != nil {
		return nil, f.err
	}
	return json.RawMessage(f.body), nil
}

func newClassifier(f *fakeCaller) *Classifier {
	return New(f, &config.Config{SentimentModel: "sent-model", IntentModel: "intent-model"})
}

func TestSentiment_NestedResponse(t *testing.T) {
	f := &fakeCaller{body: `[[{"label":"neg","score":0.9}]]`}

	got, err := newClassifier(f).Sentiment(context.Background(), "awful")

	require.NoError(t, err)
	assert.Equal(t, &models.SentimentResult{Label: "neg", Score: 0.9}, got)
	assert.Equal(t, "sent-model", f.model)
	assert.JSONEq(t, `{"inputs":"awful"}`, string(f.payload))
}

func TestSentiment_FlatResponse(t *testing.T) {
	f := &fakeCaller{body: `[{"label":"pos","score":0.7},{"label":"neg","score":0.2}]`}

	got, err := newClassifier(f).Sentiment(context.Background(), "nice")

	require.NoError(t, err)
	assert.Equal(t, &models.SentimentResult{Label: "pos", Score: 0.7}, got)
}

func TestSentiment_NestedPicksMaxNotFirst(t *testing.T) {
	f := &fakeCaller{body: `[[{"label":"neutral","score":0.1},{"label":"negative","score":0.8},{"label":"positive","score":0.1}]]`}

	got, err := newClassifier(f).Sentiment(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, "negative", got.Label)
	assert.Equal(t, 0.8, got.Score)
}

func TestSentiment_TieKeepsFirst(t *testing.T) {
	f := &fakeCaller{body: `[{"label":"a","score":0.5},{"label":"b","score":0.5}]`}

	got, err := newClassifier(f).Sentiment(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, &models.SentimentResult{Label: "a", Score: 0.5}, got)
}

func TestSentiment_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty array", `[]`},
		{"empty nested array", `[[]]`},
		{"not an array", `{"label":"pos","score":0.9}`},
		{"missing score", `[{"label":"pos"}]`},
		{"null score", `[{"label":"pos","score":null}]`},
		{"string score", `[{"label":"pos","score":"0.9"}]`},
		{"entries not objects", `[1,2,3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newClassifier(&fakeCaller{body: tt.body}).Sentiment(context.Background(), "x")

			var mErr *inference.MalformedResponseError
			require.True(t, errors.As(err, &mErr), "got %v", err)
		})
	}
}

func TestSentiment_PropagatesCallerError(t *testing.T) {
	want := &inference.RemoteCallError{StatusCode: 503, Body: "loading"}

	_, err := newClassifier(&fakeCaller{err: want}).Sentiment(context.Background(), "x")

	assert.Same(t, want, err)
}

func TestIntents_RanksByScore(t *testing.T) {
	f := &fakeCaller{body: `{"labels":["refund","praise","bug_report"],"scores":[0.2,0.9,0.6]}`}

	got, err := newClassifier(f).Intents(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, models.RankedIntents{
		{Label: "praise", Score: 0.9},
		{Label: "bug_report", Score: 0.6},
		{Label: "refund", Score: 0.2},
	}, got)
}

func TestIntents_SendsZeroShotPayload(t *testing.T) {
	f := &fakeCaller{body: `{"labels":[],"scores":[]}`}

	_, err := newClassifier(f).Intents(context.Background(), "where is my order")
	require.NoError(t, err)

	assert.Equal(t, "intent-model", f.model)
	var sent struct {
		Inputs     string `json:"inputs"`
		Parameters struct {
			CandidateLabels []string `json:"candidate_labels"`
			MultiLabel      bool     `json:"multi_label"`
		} `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(f.payload, &sent))
	assert.Equal(t, "where is my order", sent.Inputs)
	assert.True(t, sent.Parameters.MultiLabel)
	assert.Equal(t, IntentLabels(), sent.Parameters.CandidateLabels)
	assert.Len(t, sent.Parameters.CandidateLabels, 12)
}

func TestIntents_StableOnTies(t *testing.T) {
	f := &fakeCaller{body: `{"labels":["greeting","question","praise"],"scores":[0.5,0.7,0.5]}`}

	got, err := newClassifier(f).Intents(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, []string{"question", "greeting", "praise"}, labelsOf(got))
}

func TestIntents_MissingFieldsYieldEmpty(t *testing.T) {
	for _, body := range []string{`{}`, `{"labels":["a"]}`, `{"scores":[0.3]}`} {
		got, err := newClassifier(&fakeCaller{body: body}).Intents(context.Background(), "x")
		require.NoError(t, err, body)
		assert.Empty(t, got, body)
	}
}

func TestIntents_LengthMismatchTruncates(t *testing.T) {
	f := &fakeCaller{body: `{"labels":["a","b","c"],"scores":[0.1,0.2]}`}

	got, err := newClassifier(f).Intents(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, labelsOf(got))

	f = &fakeCaller{body: `{"labels":["a"],"scores":[0.1,0.9,0.5]}`}
	got, err = newClassifier(f).Intents(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, models.RankedIntents{{Label: "a", Score: 0.1}}, got)
}

func TestIntents_Malformed(t *testing.T) {
	_, err := newClassifier(&fakeCaller{body: `[{"label":"x"}]`}).Intents(context.Background(), "x")

	var mErr *inference.MalformedResponseError
	require.True(t, errors.As(err, &mErr))
}

func TestIntents_PropagatesCallerError(t *testing.T) {
	want := &inference.TransportError{Err: errors.New("connection refused")}

	_, err := newClassifier(&fakeCaller{err: want}).Intents(context.Background(), "x")

	assert.Same(t, want, err)
}

func TestIntentLabels_ReturnsFreshSlice(t *testing.T) {
	a := IntentLabels()
	a[0] = "mutated"
	assert.Equal(t, IntentGreeting, IntentLabels()[0])
}

func labelsOf(r models.RankedIntents) []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Label
	}
	return out
}
