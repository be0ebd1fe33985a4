package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
)

// Config configures the client-credentials token source.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// ClientCredentialsSource exchanges client credentials for access tokens and
// caches them until shortly before expiry.
type ClientCredentialsSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client

	mu     sync.Mutex
	cached map[string]cachedToken
}

type cachedToken struct {
	token   string
	expires time.Time
}

// NewClientCredentialsSource builds a token source against an OAuth-style
// token endpoint.
func NewClientCredentialsSource(cfg Config) (*ClientCredentialsSource, error) {
	if cfg.TokenURL == "" {
		return nil, fmt.Errorf("auth: token url is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("auth: client credentials are required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &ClientCredentialsSource{
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		client:       httpClient,
		cached:       make(map[string]cachedToken),
	}, nil
}

// Token implements dashboard.TokenSource. Tokens are cached per
// audience/scope pair.
func (s *ClientCredentialsSource) Token(ctx context.Context, req dashboard.TokenRequest) (string, error) {
	key := req.Audience + "|" + req.Scope
	s.mu.Lock()
	if entry, ok := s.cached[key]; ok && time.Now().Before(entry.expires) {
		token := entry.token
		s.mu.Unlock()
		return token, nil
	}
	s.mu.Unlock()

	token, expiresIn, err := s.exchange(ctx, req)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.cached[key] = cachedToken{
		token:   token,
		expires: time.Now().Add(time.Duration(expiresIn)*time.Second - 30*time.Second),
	}
	s.mu.Unlock()
	return token, nil
}

func (s *ClientCredentialsSource) exchange(ctx context.Context, req dashboard.TokenRequest) (string, int, error) {
	payload := map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     s.clientID,
		"client_secret": s.clientSecret,
		"audience":      req.Audience,
		"scope":         req.Scope,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, fmt.Errorf("auth: encode token request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("auth: build token request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("auth: token request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return "", 0, fmt.Errorf("auth: token endpoint error %d: %s", resp.StatusCode, buf.String())
	}
	var decoded struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", 0, fmt.Errorf("auth: decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", 0, fmt.Errorf("auth: token endpoint returned empty access token")
	}
	if decoded.ExpiresIn <= 0 {
		decoded.ExpiresIn = 300
	}
	return decoded.AccessToken, decoded.ExpiresIn, nil
}

var _ dashboard.TokenSource = (*ClientCredentialsSource)(nil)

// StaticTokenSource returns a fixed token, useful for demos and tests.
type StaticTokenSource struct {
	AccessToken string
	Err         error
}

// Token returns the configured token or error.
func (s StaticTokenSource) Token(context.Context, dashboard.TokenRequest) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	return s.AccessToken, nil
}

var _ dashboard.TokenSource = StaticTokenSource{}
