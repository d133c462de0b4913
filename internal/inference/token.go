package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"chat-api/internal/metrics"
	"chat-api/internal/shared"
)

const apikeyGrantType = "urn:ibm:params:oauth:grant-type:apikey"

// tokenSource exchanges the service API key for a short-lived bearer token
// and caches it until it nears expiry. Safe for concurrent use.
type tokenSource struct {
	authURL    string
	apiKey     string
	httpClient *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func newTokenSource(authURL, apiKey string, httpClient *http.Client) *tokenSource {
	return &tokenSource{
		authURL:    authURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// Token returns the cached token, exchanging the API key for a fresh one when
// the cache is empty or within the expiry margin. Concurrent callers share a
// single exchange.
func (ts *tokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Until(ts.expiry) > shared.TokenExpiryMargin {
		return ts.token, nil
	}

	rctx, cancel := context.WithTimeout(ctx, shared.DefaultAuthTimeout)
	defer cancel()

	form := url.Values{}
	form.Set("grant_type", apikeyGrantType)
	form.Set("apikey", ts.apiKey)

	r, err := http.NewRequestWithContext(rctx, http.MethodPost, ts.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed building token request: %w", err)
	}
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("Accept", "application/json")

	res, err := ts.httpClient.Do(r)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("identity endpoint rejected key: %s: %s", res.Status, string(buf))
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed reading token response: %w", err)
	}

	var payload tokenResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", fmt.Errorf("failed decoding token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", errors.New("identity endpoint returned empty token")
	}

	ts.token = payload.AccessToken
	ts.expiry = time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	metrics.TokenExchanges.Inc()
	return ts.token, nil
}
