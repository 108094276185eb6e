package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"reddit-autopost/internal/config"
)

func testConfig(tokenURL string) *config.Config {
	return &config.Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Username:     "poster",
		Password:     "hunter2",
		UserAgent:    "LivePosting/1.0 (by /u/poster)",
		TokenURL:     tokenURL,
	}
}

func tokenServer(t *testing.T, calls *int32, expiresIn int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		id, secret, ok := r.BasicAuth()
		if !ok || id != "client-id" || secret != "client-secret" {
			t.Errorf("Missing or wrong basic auth: %q/%q", id, secret)
		}
		if ua := r.Header.Get("User-Agent"); ua != "LivePosting/1.0 (by /u/poster)" {
			t.Errorf("Unexpected User-Agent: %q", ua)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm: %v", err)
		}
		if g := r.PostForm.Get("grant_type"); g != "password" {
			t.Errorf("Expected grant_type password, got %q", g)
		}
		if u := r.PostForm.Get("username"); u != "poster" {
			t.Errorf("Expected username poster, got %q", u)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"bearer","expires_in":%d,"scope":"*"}`,
			atomic.LoadInt32(calls), expiresIn)
	}))
}

func TestTokenFetchAndCache(t *testing.T) {
	var calls int32
	server := tokenServer(t, &calls, 3600)
	defer server.Close()

	a, err := NewAuthenticator(server.Client(), testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	token, err := a.Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("Expected tok-1, got %q", token)
	}

	// Second call must reuse the cached token.
	token, err = a.Token(context.Background())
	if err != nil {
		t.Fatalf("Token returned error: %v", err)
	}
	if token != "tok-1" {
		t.Errorf("Expected cached tok-1, got %q", token)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("Expected exactly 1 token fetch, got %d", n)
	}

	if tt := a.TokenType(); tt != "bearer" {
		t.Errorf("Expected token type bearer, got %q", tt)
	}
}

func TestTokenRefreshesWhenExpired(t *testing.T) {
	var calls int32
	// expires_in below the refresh skew, so the cached token is already
	// considered expired on the next call.
	server := tokenServer(t, &calls, 30)
	defer server.Close()

	a, err := NewAuthenticator(server.Client(), testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	if _, err := a.Token(context.Background()); err != nil {
		t.Fatalf("First Token call: %v", err)
	}
	token, err := a.Token(context.Background())
	if err != nil {
		t.Fatalf("Second Token call: %v", err)
	}

	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("Expected exactly one re-authentication, got %d total fetches", n)
	}
	if token != "tok-2" {
		t.Errorf("Expected refreshed tok-2, got %q", token)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	var calls int32
	server := tokenServer(t, &calls, 3600)
	defer server.Close()

	a, err := NewAuthenticator(server.Client(), testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	if _, err := a.Token(context.Background()); err != nil {
		t.Fatalf("Token: %v", err)
	}
	a.Invalidate()
	token, err := a.Token(context.Background())
	if err != nil {
		t.Fatalf("Token after Invalidate: %v", err)
	}

	if token != "tok-2" {
		t.Errorf("Expected fresh tok-2 after invalidation, got %q", token)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("Expected 2 fetches, got %d", n)
	}
}

func TestTokenErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": 401}`)
	}))
	defer server.Close()

	a, err := NewAuthenticator(server.Client(), testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	_, err = a.Token(context.Background())
	if err == nil {
		t.Fatal("Expected error for 401 token response")
	}

	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected *AuthError, got %T", err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", authErr.StatusCode)
	}
}

func TestTokenEmptyAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"","token_type":"bearer","expires_in":3600}`)
	}))
	defer server.Close()

	a, err := NewAuthenticator(server.Client(), testConfig(server.URL))
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}

	if _, err := a.Token(context.Background()); err == nil {
		t.Fatal("Expected error for empty access token")
	}
}
