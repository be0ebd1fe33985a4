package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	dashboard "github.com/finboard/go-finboard/components/dashboard"
)

func TestClientCredentialsSource(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var payload map[string]string
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode token request: %v", err)
		}
		if payload["grant_type"] != "client_credentials" {
			t.Fatalf("unexpected grant type %q", payload["grant_type"])
		}
		if payload["scope"] != dashboard.DefaultScope {
			t.Fatalf("unexpected scope %q", payload["scope"])
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-abc",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer server.Close()

	source, err := NewClientCredentialsSource(Config{
		TokenURL:     server.URL,
		ClientID:     "client",
		ClientSecret: "secret",
	})
	if err != nil {
		t.Fatalf("NewClientCredentialsSource returned error: %v", err)
	}

	req := dashboard.TokenRequest{Audience: "https://bank.example.com", Scope: dashboard.DefaultScope}
	token, err := source.Token(context.Background(), req)
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("unexpected token %q", token)
	}

	// Second call should be served from cache.
	if _, err := source.Token(context.Background(), req); err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single token exchange, got %d", calls)
	}
}

func TestClientCredentialsSourceErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad client", http.StatusUnauthorized)
	}))
	defer server.Close()

	source, err := NewClientCredentialsSource(Config{
		TokenURL:     server.URL,
		ClientID:     "client",
		ClientSecret: "wrong",
	})
	if err != nil {
		t.Fatalf("NewClientCredentialsSource returned error: %v", err)
	}
	if _, err := source.Token(context.Background(), dashboard.TokenRequest{}); err == nil {
		t.Fatalf("expected error for rejected credentials")
	}
}

func TestClientCredentialsSourceRequiresConfig(t *testing.T) {
	if _, err := NewClientCredentialsSource(Config{}); err == nil {
		t.Fatalf("expected error for missing token url")
	}
	if _, err := NewClientCredentialsSource(Config{TokenURL: "https://issuer"}); err == nil {
		t.Fatalf("expected error for missing credentials")
	}
}

func TestStaticTokenSource(t *testing.T) {
	source := StaticTokenSource{AccessToken: "fixed"}
	token, err := source.Token(context.Background(), dashboard.TokenRequest{})
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "fixed" {
		t.Fatalf("unexpected token %q", token)
	}
}
