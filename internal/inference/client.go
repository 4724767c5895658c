package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kamilpajak/triage/internal/config"
	"go.uber.org/zap"
)

// inferencePath is the fixed segment between the base URL and the model id.
const inferencePath = "/hf-inference/models/"

// Caller issues one request against a named model. Classifiers depend on this
// rather than on *Client so they can be tested with canned responses.
type Caller interface {
	Call(ctx context.Context, model string, payload any) (json.RawMessage, error)
}

// Client calls hosted inference endpoints with a static bearer token.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client from the loaded configuration. A zero timeout
// leaves the transport default in place.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// URL returns the endpoint for a model identifier.
func (c *Client) URL(model string) string {
	return c.baseURL + inferencePath + model
}

// Call POSTs payload as JSON to the model endpoint and returns the raw JSON
// response body. The body is checked for JSON validity only; interpreting its
// shape is up to the caller.
func (c *Client) Call(ctx context.Context, model string, payload any) (json.RawMessage, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("model identifier required")
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	url := c.URL(model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("inference call failed", zap.String("model", model), zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("inference call",
		zap.String("model", model),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteCallError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !json.Valid(body) {
		return nil, &MalformedResponseError{Reason: "response is not valid JSON", Body: string(body)}
	}

	return json.RawMessage(body), nil
}
