package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
)

// Config configures the HTTP bank info client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client talks to the bank info service over REST.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client capable of hitting the live bank info API.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("bankapi: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		client:  httpClient,
	}, nil
}

// FetchBankInfo implements dashboard.BankInfoClient against GET /api/info.
// The bearer token must carry the bank info read scope.
func (c *Client) FetchBankInfo(ctx context.Context, token string) (dashboard.RawAppData, error) {
	var raw dashboard.RawAppData
	if err := c.do(ctx, http.MethodGet, "/api/info", token, &raw); err != nil {
		return dashboard.RawAppData{}, err
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, target any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("bankapi: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("bankapi: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("bankapi: remote error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("bankapi: decode response: %w", err)
	}
	return nil
}

var _ dashboard.BankInfoClient = (*Client)(nil)

// MockClient serves a fixed payload, useful for demos and tests.
type MockClient struct {
	Payload dashboard.RawAppData
	Err     error
}

// FetchBankInfo returns the configured payload or error.
func (m *MockClient) FetchBankInfo(context.Context, string) (dashboard.RawAppData, error) {
	if m.Err != nil {
		return dashboard.RawAppData{}, m.Err
	}
	return m.Payload, nil
}

var _ dashboard.BankInfoClient = (*MockClient)(nil)
