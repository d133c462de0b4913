// Package inference is the single point of contact with the remote
// text-generation service.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"chat-api/internal/metrics"
	"chat-api/internal/shared"

	"go.uber.org/zap"
)

// Generator is what the gateway depends on. Substituting a stub here is how
// handler tests run without a live upstream.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// generationRequest is the minimal request shape for the text generation endpoint.
type generationRequest struct {
	ModelID    string               `json:"model_id"`
	Input      string               `json:"input"`
	ProjectID  string               `json:"project_id"`
	Parameters generationParameters `json:"parameters"`
}

type generationParameters struct {
	DecodingMethod    string  `json:"decoding_method"`
	MaxNewTokens      int     `json:"max_new_tokens"`
	MinNewTokens      int     `json:"min_new_tokens"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// generationResponse is the minimal response shape returned by the text
// generation endpoint.
type generationResponse struct {
	Results []struct {
		GeneratedText string `json:"generated_text"`
	} `json:"results"`
}

type Client struct {
	cfg        shared.ServiceConfig
	httpClient *http.Client
	log        *zap.SugaredLogger

	generateURL string
	auth        *tokenSource
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient validates the config and performs the initial identity token
// exchange. Any failure here is fatal to the caller, a process that cannot
// build its inference client must not begin serving.
func NewClient(ctx context.Context, cfg shared.ServiceConfig, log *zap.SugaredLogger, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:         cfg,
		httpClient:  &http.Client{},
		log:         log,
		generateURL: generateURL(cfg.BaseURL),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.auth = newTokenSource(cfg.AuthURL, cfg.APIKey, c.httpClient)

	if _, err := c.auth.Token(ctx); err != nil {
		return nil, errors.Join(errors.New("inference client construction failed"), err)
	}
	return c, nil
}

func generateURL(baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	return base + "/ml/v1/text/generation?version=" + shared.GenerationAPIVersion
}

// Generate issues exactly one generation call for the prompt and returns the
// first candidate with surrounding whitespace trimmed. No retry, no backoff.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	token, err := c.auth.Token(ctx)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(shared.ErrTokenExchange.Code).Inc()
		return "", errors.Join(shared.ErrTokenExchange, err)
	}

	body, err := json.Marshal(generationRequest{
		ModelID:   c.cfg.ModelID,
		Input:     prompt,
		ProjectID: c.cfg.ProjectID,
		Parameters: generationParameters{
			DecodingMethod:    shared.DecodingMethodGreedy,
			MaxNewTokens:      shared.DefaultMaxNewTokens,
			MinNewTokens:      shared.DefaultMinNewTokens,
			RepetitionPenalty: shared.DefaultRepetitionPenalty,
		},
	})
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(shared.ErrUpstreamRequest.Code).Inc()
		return "", errors.Join(shared.ErrUpstreamRequest, err)
	}

	rctx, cancel := context.WithTimeout(ctx, c.cfg.InferenceTimeout)
	defer cancel()

	r, err := http.NewRequestWithContext(rctx, http.MethodPost, c.generateURL, bytes.NewReader(body))
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(shared.ErrUpstreamRequest.Code).Inc()
		return "", errors.Join(shared.ErrUpstreamRequest, err)
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	r.Header.Set("Authorization", "Bearer "+token)

	res, err := c.httpClient.Do(r)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(shared.ErrUpstreamRequest.Code).Inc()
		return "", errors.Join(shared.ErrUpstreamRequest, err)
	}
	defer func() {
		if closeErr := res.Body.Close(); closeErr != nil {
			c.log.Warnw("Failed to close response body", "error", closeErr)
		}
	}()

	if res.StatusCode != http.StatusOK {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		metrics.UpstreamErrors.WithLabelValues(shared.ErrUpstreamStatus.Code).Inc()
		c.log.Warnw("Generation service returned non-200", "status", res.StatusCode, "body", string(buf))
		return "", errors.Join(shared.ErrUpstreamStatus, errors.New(res.Status))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(shared.ErrUpstreamPayload.Code).Inc()
		return "", errors.Join(shared.ErrUpstreamPayload, err)
	}

	var payload generationResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		metrics.UpstreamErrors.WithLabelValues(shared.ErrUpstreamPayload.Code).Inc()
		return "", errors.Join(shared.ErrUpstreamPayload, err)
	}
	if len(payload.Results) == 0 {
		metrics.UpstreamErrors.WithLabelValues(shared.ErrEmptyResults.Code).Inc()
		return "", shared.ErrEmptyResults
	}

	reply := strings.TrimSpace(payload.Results[0].GeneratedText)
	metrics.GeneratedChars.Add(float64(len(reply)))
	return reply, nil
}
