package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/kamilpajak/triage/internal/inference"
	"github.com/kamilpajak/triage/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

// scriptedAnalyzer returns results keyed by input text and records every call.
type scriptedAnalyzer struct {
	errs  map[string]error
	calls []string
}

func (s *scriptedAnalyzer) Analyze(_ context.Context, text string) (*models.AnalysisResult, error) {
	s.calls = append(s.calls, text)
	if err := s.errs[text]; err != nil {
		return nil, err
	}
	return &models.AnalysisResult{
		Input:          text,
		Sentiment:      models.SentimentResult{Label: "neutral", Score: 0.5},
		IntentsRanked:  models.RankedIntents{},
		FeedbackBucket: models.BucketOther,
	}, nil
}

func decodeAll(t *testing.T, r io.Reader) []models.AnalysisResult {
	t.Helper()
	var out []models.AnalysisResult
	dec := json.NewDecoder(r)
	for {
		var res models.AnalysisResult
		err := dec.Decode(&res)
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, res)
	}
}

func TestLoop_SkipsBlankLines(t *testing.T) {
	var stdout, stderr bytes.Buffer
	a := &scriptedAnalyzer{}
	l := &loop{
		analyzer: a,
		in:       strings.NewReader("\n   \nfirst line\n\t\nsecond line"),
		stdout:   &stdout,
		stderr:   &stderr,
		prompt:   "> ",
	}

	require.NoError(t, l.run(context.Background()))

	assert.Equal(t, []string{"first line", "second line"}, a.calls)
	results := decodeAll(t, &stdout)
	require.Len(t, results, 2)
	assert.Equal(t, "first line", results[0].Input)
	assert.Equal(t, "second line", results[1].Input)
	assert.Equal(t, 6, strings.Count(stderr.String(), "> "))
}

func TestLoop_ErrorDoesNotStopSession(t *testing.T) {
	var stdout, stderr bytes.Buffer
	a := &scriptedAnalyzer{errs: map[string]error{
		"bad": &inference.RemoteCallError{StatusCode: 500, Body: "model overloaded"},
	}}
	l := &loop{
		analyzer: a,
		in:       strings.NewReader("bad\ngood\n"),
		stdout:   &stdout,
		stderr:   &stderr,
	}

	require.NoError(t, l.run(context.Background()))

	assert.Equal(t, []string{"bad", "good"}, a.calls)
	assert.Contains(t, stderr.String(), "error: inference endpoint returned HTTP 500: model overloaded")
	results := decodeAll(t, &stdout)
	require.Len(t, results, 1)
	assert.Equal(t, "good", results[0].Input)
}

func TestLoop_PrintsIndentedJSON(t *testing.T) {
	var stdout bytes.Buffer
	l := &loop{
		analyzer: &scriptedAnalyzer{},
		in:       strings.NewReader("A & B <3\n"),
		stdout:   &stdout,
		stderr:   io.Discard,
	}

	require.NoError(t, l.run(context.Background()))

	out := stdout.String()
	assert.Contains(t, out, "\n  \"input\": \"A & B <3\",\n")
	assert.Contains(t, out, "\"feedback_bucket\": \"other\"")
}

func TestLoop_StopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	l := &loop{analyzer: &scriptedAnalyzer{}, in: pr, stdout: io.Discard, stderr: io.Discard}

	done := make(chan error, 1)
	go func() { done <- l.run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLoop_ReadError(t *testing.T) {
	l := &loop{analyzer: &scriptedAnalyzer{}, in: errReader{}, stdout: io.Discard, stderr: io.Discard}

	err := l.run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestLoop_OversizedLineIsSkipped(t *testing.T) {
	var stdout, stderr bytes.Buffer
	a := &scriptedAnalyzer{}
	input := "first\n" + strings.Repeat("x", 2*maxLineSize) + "\nafter\n"
	l := &loop{
		analyzer: a,
		in:       strings.NewReader(input),
		stdout:   &stdout,
		stderr:   &stderr,
	}

	require.NoError(t, l.run(context.Background()))

	assert.Equal(t, []string{"first", "after"}, a.calls)
	assert.Equal(t, 1, strings.Count(stderr.String(), "error: line too long"))
	require.Len(t, decodeAll(t, &stdout), 2)
}

func TestLoop_LineAtLimitIsAnalyzed(t *testing.T) {
	a := &scriptedAnalyzer{}
	long := strings.Repeat("y", maxLineSize)
	l := &loop{analyzer: a, in: strings.NewReader(long + "\r\n"), stdout: io.Discard, stderr: io.Discard}

	require.NoError(t, l.run(context.Background()))

	require.Len(t, a.calls, 1)
	assert.Equal(t, long, a.calls[0])
}
